package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}```", want: `{"a":1}`},
		{name: "whitespace", in: "  \n{\"a\":1}\n ", want: `{"a":1}`},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSON(tt.in))
		})
	}
}

type sample struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func TestDecodeObject(t *testing.T) {
	got, err := DecodeObject[sample]("```json\n{\"title\":\"Dev\",\"tags\":[\"go\"]}\n```")
	require.NoError(t, err)
	assert.Equal(t, sample{Title: "Dev", Tags: []string{"go"}}, got)

	got, err = DecodeObject[sample](`Here you go: {"title":"Dev"} hope it helps`)
	require.NoError(t, err)
	assert.Equal(t, "Dev", got.Title)

	got, err = DecodeObject[sample](`{"title":null}`)
	require.NoError(t, err)
	assert.Equal(t, "", got.Title)
}

func TestDecodeObject_Failures(t *testing.T) {
	_, err := DecodeObject[sample]("   ")
	assert.True(t, errors.Is(err, ErrEmptyResponse))

	_, err = DecodeObject[sample]("I cannot help with that.")
	assert.Error(t, err)

	_, err = DecodeObject[sample](`{"title": "unterminated`)
	assert.Error(t, err)

	_, err = DecodeObject[sample](`{"title": 42}`)
	assert.Error(t, err, "wrong field types are a parse failure")
}

func TestLooseFields(t *testing.T) {
	type job struct {
		Years Text `json:"experienceYears"`
		Stack List `json:"techStack"`
	}

	got, err := DecodeObject[job](`{"experienceYears":3,"techStack":["Go"," go ","", "React"]}`)
	require.NoError(t, err)
	assert.Equal(t, Text("3"), got.Years)
	assert.Equal(t, List{"Go", "React"}, got.Stack)

	got, err = DecodeObject[job](`{"experienceYears":null,"techStack":"Go, SQL"}`)
	require.NoError(t, err)
	assert.Equal(t, Text(""), got.Years)
	assert.Equal(t, List{"Go", "SQL"}, got.Stack)

	got, err = DecodeObject[job](`{"techStack":null}`)
	require.NoError(t, err)
	assert.Empty(t, got.Stack)

	_, err = DecodeObject[job](`{"techStack":{"a":1}}`)
	assert.Error(t, err)
}

func TestNumber(t *testing.T) {
	type scores struct {
		Overall   Number `json:"overall"`
		Technical Number `json:"technical"`
		Location  Number `json:"location"`
		Missing   Number `json:"missing"`
	}
	got, err := DecodeObject[scores](`{"overall":"85","technical":72.5,"location":" 90% ","missing":null}`)
	require.NoError(t, err)
	assert.Equal(t, Number(85), got.Overall)
	assert.Equal(t, Number(72.5), got.Technical)
	assert.Equal(t, Number(90), got.Location)
	assert.Equal(t, Number(0), got.Missing)

	_, err = DecodeObject[scores](`{"overall":"high"}`)
	assert.Error(t, err)
	_, err = DecodeObject[scores](`{"overall":[1]}`)
	assert.Error(t, err)
}
