package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONParser_Parse_ValidInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []RawEvent
	}{
		{
			name:  "single event",
			input: `[{"title": "Battle of Actium", "kind": "battle", "when": "-0031-09-02"}]`,
			expected: []RawEvent{
				{Title: "Battle of Actium", Kind: "battle", When: "-0031-09-02", LineNum: 1},
			},
		},
		{
			name:     "empty array",
			input:    "[]",
			expected: []RawEvent{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &JSONParser{}
			result, err := parser.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestJSONParser_Parse_AllFields(t *testing.T) {
	input := `[{
		"id": "ev-1",
		"title": "Founding of Rome",
		"kind": "founding",
		"when": "753 BC",
		"context": "Traditional date",
		"source_file": "livy.txt"
	}]`

	parser := &JSONParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result, 1)

	ev := result[0]
	assert.Equal(t, "ev-1", ev.ID)
	assert.Equal(t, "Founding of Rome", ev.Title)
	assert.Equal(t, "founding", ev.Kind)
	assert.Equal(t, "753 BC", ev.When)
	assert.Equal(t, "Traditional date", ev.Context)
	assert.Equal(t, "livy.txt", ev.SourceFile)
	assert.Equal(t, 1, ev.LineNum)
}

func TestJSONParser_Parse_InvalidInput(t *testing.T) {
	parser := &JSONParser{}
	_, err := parser.Parse(strings.NewReader("not json"))
	require.Error(t, err)
}

func TestCSVParser_Parse_ValidInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []RawEvent
	}{
		{
			name:  "required columns only",
			input: "title,when\nIdes of March,-0044-03-15\n",
			expected: []RawEvent{
				{Title: "Ides of March", When: "-0044-03-15", LineNum: 2},
			},
		},
		{
			name:     "empty CSV (header only)",
			input:    "title,when\n",
			expected: nil,
		},
		{
			name:  "columns in different order",
			input: "when,kind,title\n41? BC,other,Unknown decade\n",
			expected: []RawEvent{
				{Title: "Unknown decade", Kind: "other", When: "41? BC", LineNum: 2},
			},
		},
		{
			name:  "header case and spacing",
			input: "Title, When\nActium, -0031\n",
			expected: []RawEvent{
				{Title: "Actium", When: "-0031", LineNum: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &CSVParser{}
			result, err := parser.Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCSVParser_Parse_AllColumns(t *testing.T) {
	input := "id,title,kind,when,context,source_file\n" +
		"ev-1,Founding of Rome,founding,753 BC,Traditional,livy.txt\n"

	parser := &CSVParser{}
	result, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result, 1)

	ev := result[0]
	assert.Equal(t, "ev-1", ev.ID)
	assert.Equal(t, "Founding of Rome", ev.Title)
	assert.Equal(t, "founding", ev.Kind)
	assert.Equal(t, "753 BC", ev.When)
	assert.Equal(t, "Traditional", ev.Context)
	assert.Equal(t, "livy.txt", ev.SourceFile)
}

func TestCSVParser_Parse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{
			name:   "missing when column",
			input:  "title,kind\nActium,battle\n",
			errMsg: "missing required column: when",
		},
		{
			name:   "missing title column",
			input:  "when\n-0031\n",
			errMsg: "missing required column: title",
		},
		{
			name:   "ragged row",
			input:  "title,when\nActium,-0031,extra\n",
			errMsg: "line 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &CSVParser{}
			_, err := parser.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestForFormat(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFormat("json"))
	assert.IsType(t, &CSVParser{}, ForFormat("CSV"))
	assert.Nil(t, ForFormat("unknown"))
}

func TestForFile(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFile("events.json"))
	assert.IsType(t, &CSVParser{}, ForFile("data.csv"))
	assert.Nil(t, ForFile("file.txt"))
	assert.Nil(t, ForFile("noextension"))
}
