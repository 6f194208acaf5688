package textextract

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFile_Text(t *testing.T) {
	got, err := FromFile("job.TXT", []byte("  Senior Go Engineer\r\n\n\n\n  Remote  "))
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer\n\nRemote", got)
}

func TestFromFile_HTML(t *testing.T) {
	page := `<html><head><title>ignored</title><style>p{}</style></head>
	<body><h1>Backend Engineer</h1><script>var x = 1;</script>
	<ul><li>Go</li><li>PostgreSQL</li></ul><p>3+ years</p></body></html>`

	got, err := FromFile("posting.html", []byte(page))
	require.NoError(t, err)
	assert.Contains(t, got, "Backend Engineer")
	assert.Contains(t, got, "Go\nPostgreSQL")
	assert.Contains(t, got, "3+ years")
	assert.NotContains(t, got, "var x")
	assert.NotContains(t, got, "ignored")
}

func TestFromFile_Docx(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			`<w:p><w:r><w:t>Data Engineer</w:t></w:r></w:p>` +
			`<w:p><w:r><w:t>Spark and Go</w:t></w:r></w:p>` +
			`</w:body></w:document>`,
	}
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	got, err := FromFile("role.docx", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer\nSpark and Go", got)
}

func TestFromFile_Failures(t *testing.T) {
	_, err := FromFile("resume.exe", []byte("MZ"))
	assert.True(t, errors.Is(err, ErrUnsupportedType))

	_, err = FromFile("blank.txt", []byte(" \n\t "))
	assert.True(t, errors.Is(err, ErrNoText))

	_, err = FromFile("broken.pdf", []byte("not a pdf"))
	assert.Error(t, err)

	_, err = FromFile("broken.docx", []byte("not a zip"))
	assert.Error(t, err)
}
