package domain

import (
	"strings"
	"time"
)

const (
	DefaultTitle   = "Untitled Diagram"
	DefaultContent = "graph TD\n    A[Start] --> B[End]"
	LegacyEmoji    = "📄"

	MaxTitleLength = 100
	MaxCheckpoints = 15
)

// Diagram is a named diagram together with its current content.
// It is storage-agnostic and shared by the repository, stores and HTTP layers.
type Diagram struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Emoji        string    `json:"emoji"`
	IsFavorite   bool      `json:"isFavorite"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	SearchVector string    `json:"-"`
}

// Checkpoint is one stored content snapshot of a diagram.
type Checkpoint struct {
	ID        string    `json:"id"`
	DiagramID string    `json:"diagramId"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CheckpointResult struct {
	Checkpoint Checkpoint `json:"checkpoint"`
	Diagram    Diagram    `json:"diagram"`
}

type CreateInput struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Emoji   *string `json:"emoji,omitempty"`
}

type UpdateInput struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	Emoji      *string `json:"emoji,omitempty"`
	IsFavorite *bool   `json:"isFavorite,omitempty"`
}

type CheckpointInput struct {
	Content    string  `json:"content"`
	Title      *string `json:"title,omitempty"`
	Emoji      *string `json:"emoji,omitempty"`
	IsFavorite *bool   `json:"isFavorite,omitempty"`
}

// RestoreRecord is one entry of a bulk restore. Zero timestamps are filled in
// by the repository.
type RestoreRecord struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Emoji      string    `json:"emoji"`
	IsFavorite bool      `json:"isFavorite"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type PageQuery struct {
	Limit  int
	Offset int
	Query  string
}

type Page struct {
	Items      []Diagram `json:"items"`
	Total      int       `json:"total"`
	HasMore    bool      `json:"hasMore"`
	NextOffset int       `json:"nextOffset"`
}

// BuildSearchVector returns the lowercased title and content joined by a space.
func BuildSearchVector(title, content string) string {
	return strings.ToLower(title + " " + content)
}

// NormalizeQuery trims and lowercases a search query. An empty result means no filter.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
