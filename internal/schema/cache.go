package schema

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/lestrrat-go/libxml2/xsd"
)

// The compiled-schema cache is process-wide: populated lazily on first use,
// never invalidated. Entries are immutable once stored, so concurrent
// readers only contend on the mutex during the miss path. Load failures are
// cached too, since a schema missing from the bundle stays missing for the
// process lifetime.
var cache = struct {
	sync.Mutex
	schemas map[string]*xsd.Schema
	failed  map[string]bool
}{
	schemas: make(map[string]*xsd.Schema),
	failed:  make(map[string]bool),
}

// loadSchema compiles the schema file under the schemas directory, memoized
// by absolute path. The second return is false when the schema cannot be
// loaded; callers skip validation for that part.
func loadSchema(schemaDir, relFile string) (*xsd.Schema, bool) {
	full := filepath.Join(schemaDir, filepath.FromSlash(relFile))

	cache.Lock()
	defer cache.Unlock()

	if s, ok := cache.schemas[full]; ok {
		return s, true
	}
	if cache.failed[full] {
		return nil, false
	}

	buf, err := os.ReadFile(full)
	if err != nil {
		cache.failed[full] = true
		return nil, false
	}
	s, err := xsd.Parse(buf, xsd.WithPath(full))
	if err != nil {
		cache.failed[full] = true
		return nil, false
	}
	cache.schemas[full] = s
	return s, true
}
