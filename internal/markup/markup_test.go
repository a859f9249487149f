package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectType(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"flowchart", "graph TD\n    A[Start] --> B[End]", "graph"},
		{"semicolon", "graph TD;A-->B", "graph"},
		{"sequence", "\n\n  sequenceDiagram\n  Alice->>Bob: Hi", "sequenceDiagram"},
		{"comments", "%% generated\n%% twice\npie title Pets\n\"Dogs\": 3", "pie"},
		{"front matter", "---\ntitle: Demo\n---\nflowchart LR\nA-->B", "flowchart"},
		{"hyphenated", "stateDiagram-v2\n[*] --> Still", "stateDiagram-v2"},
		{"crlf", "erDiagram\r\nCUSTOMER ||--o{ ORDER : places", "erDiagram"},
		{"beta", "xychart-beta\n  title Sales", "xychart-beta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectType(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectTypeRejects(t *testing.T) {
	_, err := DetectType("")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = DetectType("%% only a comment\n\n")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = DetectType("hello world")
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Contains(t, err.Error(), `"hello"`)

	_, err = DetectType("Graph TD")
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = DetectType("---\ntitle: never closed\ngraph TD")
	assert.ErrorIs(t, err, ErrOpenFrontMatter)
}
