package sessionlog

import (
	"fmt"

	"github.com/google/uuid"
)

// Backends accepted by Open.
const (
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Options selects and tunes a Store backend.
type Options struct {
	Backend    string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Open builds the Store described by opts. A JSONL store rotates when
// MaxSizeMB is positive.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendJSONL, "":
		if opts.MaxSizeMB > 0 {
			return NewRotatingJSONLStore(opts.Path, opts.MaxSizeMB, opts.MaxBackups, opts.MaxAgeDays)
		}
		return NewJSONLStore(opts.Path)
	case BackendSQLite:
		if err := ensureDir(opts.Path); err != nil {
			return nil, err
		}
		return NewSQLiteStore(opts.Path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session store backend %s", opts.Backend)
	}
}

// NewID returns a unique record identifier.
func NewID() string { return uuid.NewString() }
