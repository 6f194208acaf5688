// Package textextract turns uploaded job description files into plain text.
package textextract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"golang.org/x/net/html"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type: expected .txt, .pdf, .docx or .html")
	ErrNoText          = errors.New("no readable text found in file")
)

// Extensions lists the accepted upload suffixes.
var Extensions = []string{".txt", ".pdf", ".docx", ".html", ".htm"}

// FromFile picks the extractor by file name extension.
func FromFile(name string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		text = string(data)
	case ".pdf":
		text, err = PDF(data)
	case ".docx":
		text, err = Docx(data)
	case ".html", ".htm":
		text, err = HTML(data)
	default:
		return "", ErrUnsupportedType
	}
	if err != nil {
		return "", err
	}

	text = collapseBlankLines(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func PDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func Docx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	// GetContent is the raw document.xml; paragraphs end with </w:p>
	content := doc.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "</w:p>\n")
	return textOf(strings.NewReader(content))
}

func HTML(data []byte) (string, error) {
	return textOf(bytes.NewReader(data))
}

var skipped = map[string]bool{"script": true, "style": true, "noscript": true, "head": true, "template": true}

var blocks = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "header": true, "footer": true, "table": true,
}

func textOf(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	var sb strings.Builder
	walk(doc, &sb)
	return sb.String(), nil
}

func walk(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.ElementNode:
		if skipped[n.Data] {
			return
		}
	case html.TextNode:
		sb.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, sb)
	}
	if n.Type == html.ElementNode && blocks[n.Data] {
		sb.WriteString("\n")
	}
}

var (
	spaceRun = regexp.MustCompile(`[ \t\r\f\v]+`)
	lineRun  = regexp.MustCompile(`\n{3,}`)
)

func collapseBlankLines(s string) string {
	s = spaceRun.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(lineRun.ReplaceAllString(s, "\n\n"))
}
