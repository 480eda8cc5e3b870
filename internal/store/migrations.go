package store

type migration struct {
	version int
	sql     string
}

// migrations must stay ordered by version, starting at 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS todos (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	description TEXT,
	is_favorite INTEGER NOT NULL DEFAULT 0,
	color       TEXT,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_todos_listing ON todos(is_favorite DESC, created_at DESC);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
