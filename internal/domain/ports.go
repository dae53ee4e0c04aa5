package domain

import "context"

// ConfigLoader loads project configuration from a directory.
type ConfigLoader interface {
	Load(dir string) (ProjectConfig, error)
}

// SchemaValidator checks a parsed value against a schema document. A
// returned error means the validator itself failed, not the document.
type SchemaValidator interface {
	Validate(ctx context.Context, schema []byte, value any) ([]ValidationError, error)
}

// AIRepairer is the external repair collaborator: request({text}) -> {fixedText}.
type AIRepairer interface {
	Repair(ctx context.Context, text string) (string, error)
}

// Encoder serializes a parsed value into one target format.
type Encoder interface {
	Format() Format
	Encode(value any) (string, error)
}

// ResultCache stores analysis results by content hash.
type ResultCache interface {
	Key(text string, schema []byte) string
	Get(key string) (*ValidationResult, bool)
	Put(key string, result *ValidationResult) error
}

// ScoreHistory persists score entries per directory.
type ScoreHistory interface {
	Save(dir string, entry ScoreEntry) error
	Load(dir string) ([]ScoreEntry, error)
}

// GitInfo reads repository metadata.
type GitInfo interface {
	IsGitRepo(path string) bool
	CommitHash(path string) (string, error)
}

// SchemaRegistry stores schema documents with metadata.
type SchemaRegistry interface {
	Add(name, version string, tags []string, doc []byte) (SchemaRecord, error)
	Get(id string) (SchemaRecord, []byte, error)
	List() ([]SchemaRecord, error)
	Remove(id string) error
}

// FileScanner expands files and directories into JSON file paths.
type FileScanner interface {
	Scan(paths ...string) ([]string, error)
}
