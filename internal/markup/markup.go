// Package markup performs a light header check on diagram source text.
package markup

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmpty           = errors.New("no diagram definition found")
	ErrUnknownType     = errors.New("unknown diagram type")
	ErrOpenFrontMatter = errors.New("unterminated front matter")
)

var keywords = map[string]struct{}{
	"graph": {}, "flowchart": {}, "sequenceDiagram": {}, "classDiagram": {},
	"stateDiagram": {}, "stateDiagram-v2": {}, "erDiagram": {}, "journey": {},
	"gantt": {}, "pie": {}, "quadrantChart": {}, "requirementDiagram": {},
	"gitGraph": {}, "C4Context": {}, "C4Container": {}, "C4Component": {},
	"C4Dynamic": {}, "C4Deployment": {}, "mindmap": {}, "timeline": {},
	"zenuml": {}, "sankey-beta": {}, "xychart-beta": {}, "block-beta": {},
	"packet-beta": {}, "kanban": {}, "architecture-beta": {}, "radar-beta": {},
}

// DetectType returns the diagram keyword that opens content. Blank lines,
// %% comments and a leading --- front matter block are skipped.
func DetectType(content string) (string, error) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i < len(lines) && strings.TrimSpace(lines[i]) == "---" {
		end := -1
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "---" {
				end = j
				break
			}
		}
		if end < 0 {
			return "", ErrOpenFrontMatter
		}
		i = end + 1
	}

	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		token := line
		if n := strings.IndexAny(line, " \t;:{"); n >= 0 {
			token = line[:n]
		}
		if _, ok := keywords[token]; !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownType, token)
		}
		return token, nil
	}
	return "", ErrEmpty
}
