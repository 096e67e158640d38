package storage

// Sink receives extracted files. Names are slash-separated paths relative to
// the output root; implementations must tolerate concurrent writes to
// distinct names.
type Sink interface {
	WriteFile(name string, data []byte) error
}
