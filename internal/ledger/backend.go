package ledger

import (
	"fmt"
	"io"
)

// Backend kinds accepted by OpenBackend.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// ClosableBackend is a Backend that holds resources until closed.
type ClosableBackend interface {
	Backend
	io.Closer
}

// OpenBackend opens the backend of the given kind at path.
func OpenBackend(kind, path string) (ClosableBackend, error) {
	switch kind {
	case BackendJSON:
		return NewJSONFile(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown ledger backend %q: must be %q or %q", kind, BackendJSON, BackendSQLite)
	}
}

// Close is a no-op; the file is only held open during Save.
func (f *JSONFile) Close() error {
	return nil
}
