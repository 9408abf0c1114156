//go:build !js

package score

// Open returns the store for path: a FileStore, or a MemoryStore when path
// is empty.
func Open(path string) Store {
	if path == "" {
		return &MemoryStore{}
	}
	return NewFileStore(path)
}
