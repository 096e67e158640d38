package protdat

import (
	"os"
	"path/filepath"
	"strings"

	daterrors "github.com/legaia-mod/protdat-get/protdat/errors"
)

// SectorSize is the addressing unit of the container, inherited from the
// CD-ROM sector size the retail engine addresses the disc with.
const SectorSize = 0x800

// Container is a bounds-checked, sector-addressed view over the raw bytes of
// a PROT.DAT file. It is read-only and safe for concurrent use.
type Container struct {
	data []byte
	stem string
}

// NewContainer wraps an in-memory byte slice. The stem is used to derive
// output asset names (e.g. "Prot" produces Prot_0.BIN).
func NewContainer(data []byte, stem string) *Container {
	return &Container{data: data, stem: stem}
}

// OpenContainer reads the whole file into memory. The container is small by
// modern standards (a PS1 disc file), so a full read keeps extraction simple
// and allows concurrent slicing without seek coordination.
func OpenContainer(path string) (*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, daterrors.ErrIOFailure.WithDetail("path", path).WithCause(err)
	}
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return NewContainer(data, stem), nil
}

// Stem returns the name prefix used for extracted assets.
func (c *Container) Stem() string {
	return c.stem
}

// Len returns the container length in bytes.
func (c *Container) Len() int64 {
	return int64(len(c.data))
}

// SectorCount returns the container length in sectors. A trailing partial
// sector counts as a full one: the container is treated as padded out to
// sector granularity, and reads into the padding return zero bytes.
func (c *Container) SectorCount() int64 {
	return (int64(len(c.data)) + SectorSize - 1) / SectorSize
}

// ReadSectors returns a copy of the byte range covered by count sectors
// starting at sector start. The tail of the final sector is zero-filled when
// the underlying file ends mid-sector.
func (c *Container) ReadSectors(start, count int64) ([]byte, error) {
	if start < 0 || count < 0 || start+count > c.SectorCount() {
		return nil, daterrors.ErrInvalidRange.
			WithDetail("start", start).
			WithDetail("count", count).
			WithDetail("totalSectors", c.SectorCount())
	}

	buf := make([]byte, count*SectorSize)
	offset := start * SectorSize
	if offset < int64(len(c.data)) {
		copy(buf, c.data[offset:])
	}
	return buf, nil
}

// Bytes returns a read-only sub-slice of the raw container, byte addressed.
// Callers must not mutate the result.
func (c *Container) Bytes(offset, length int64) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > int64(len(c.data)) {
		return nil, daterrors.ErrInvalidRange.
			WithDetail("offset", offset).
			WithDetail("length", length).
			WithDetail("containerLen", len(c.data))
	}
	return c.data[offset : offset+length], nil
}
