package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendDiskv  Backend = "diskv"
)

func (b Backend) IsValid() bool {
	switch b {
	case BackendSQLite, BackendDiskv:
		return true
	default:
		return false
	}
}

// Open creates the blob store for backend inside dataDir.
func Open(backend Backend, dataDir string) (BlobStore, error) {
	dir := strings.TrimSpace(dataDir)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	switch backend {
	case BackendSQLite, "":
		return OpenSQLite(filepath.Join(dir, "chronos.db"))
	case BackendDiskv:
		return OpenDiskv(filepath.Join(dir, "blobs")), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", backend)
	}
}
