package sqlstore

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS diagrams (
  id            TEXT PRIMARY KEY,
  title         TEXT NOT NULL,
  emoji         TEXT NOT NULL,
  is_favorite   BOOLEAN NOT NULL DEFAULT FALSE,
  search_vector TEXT NOT NULL DEFAULT '',
  created_at    BIGINT NOT NULL,
  updated_at    BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS contents (
  id         TEXT PRIMARY KEY,
  diagram_id TEXT NOT NULL REFERENCES diagrams(id) ON DELETE CASCADE,
  content    TEXT NOT NULL,
  updated_at BIGINT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_diagrams_updated_at ON diagrams (updated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_contents_diagram_updated ON contents (diagram_id, updated_at)`,
}
