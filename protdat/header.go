package protdat

import (
	"encoding/binary"

	daterrors "github.com/legaia-mod/protdat-get/protdat/errors"
	"github.com/legaia-mod/protdat-get/protdat/logger"
)

// The retail engine supports exactly two container layouts: the TOC header at
// the very start of the file, or pushed back one sector (behind a license
// sector). No other placement is legal.
var headerCandidates = []int64{0x000, 0x800}

// maxFileCount caps the declared entry count. The retail container holds a
// few hundred assets; anything past this is a mis-probe, not a bigger game.
const maxFileCount = 65536

// Header holds the validated TOC header metadata.
type Header struct {
	// Offset is the byte offset the header was found at (0x000 or 0x800).
	Offset int64
	// FileCount is the number of TOC entries. The decompiled engine reads
	// the word at +0x04 as count-1 and iterates count-1 times; the raw word
	// is the asset count and is exposed as such.
	FileCount int
	// HeaderSectors is the number of sectors occupied by the header and TOC
	// together, read from the word at +0x08.
	HeaderSectors int64
}

// HeaderBytes returns the byte size of the header+TOC region.
func (h *Header) HeaderBytes() int64 {
	return h.HeaderSectors * SectorSize
}

// probeHeader validates a single candidate offset. It returns nil when the
// fields at that offset do not describe a plausible header.
func probeHeader(c *Container, offset int64) *Header {
	raw, err := c.Bytes(offset, 12)
	if err != nil {
		return nil
	}

	fileCount := int(int32(binary.LittleEndian.Uint32(raw[4:8])))
	headerSectors := int64(int32(binary.LittleEndian.Uint32(raw[8:12])))

	if fileCount < 1 || fileCount > maxFileCount {
		return nil
	}
	if headerSectors < 1 {
		return nil
	}
	if offset+headerSectors*SectorSize > c.Len() {
		return nil
	}

	return &Header{
		Offset:        offset,
		FileCount:     fileCount,
		HeaderSectors: headerSectors,
	}
}

// LocateHeader probes the two candidate offsets in order and returns the
// first that validates. Both failing is fatal: nothing else in the file can
// be trusted without a header.
func LocateHeader(c *Container) (*Header, error) {
	for _, offset := range headerCandidates {
		if hdr := probeHeader(c, offset); hdr != nil {
			logger.Debug("header found at 0x%X: fileCount=%d headerSectors=%d",
				hdr.Offset, hdr.FileCount, hdr.HeaderSectors)
			return hdr, nil
		}
		logger.Debug("no valid header at 0x%X", offset)
	}
	return nil, daterrors.ErrHeaderNotFound.
		WithDetail("candidates", headerCandidates).
		WithDetail("containerLen", c.Len())
}
