package protdat

import (
	"encoding/binary"

	daterrors "github.com/legaia-mod/protdat-get/protdat/errors"
)

// TOCEntry is one raw table-of-contents record. The fields are the three
// sector words the engine's addressing function reads for entry p out of the
// shared word array: w[p+2], w[p+3] and w[p+5]. Consecutive entries overlap
// in the underlying words, so an entry on its own carries deltas, not
// absolute positions; DeltaResolver reconstructs those.
type TOCEntry struct {
	Index int
	Lead  uint32 // w[p+2]
	Trail uint32 // w[p+3]
	Span  uint32 // w[p+5]
}

// TOC is the parsed table of contents: the header it came from plus its
// entries in encounter order. Order is semantically meaningful; it drives
// both cursor accumulation and output naming.
type TOC struct {
	Header  *Header
	Entries []TOCEntry
}

// tocWordBase is the byte offset of the first TOC word relative to the
// header: the words follow the 8-byte magic/count prefix, starting with the
// header-sectors word itself.
const tocWordBase = 0x08

// ParseTOC reads the TOC word array behind the header and slices it into
// fixed-layout entries. Fails with TRUNCATED_TOC when the header region (or
// the container itself) cannot supply all the words FileCount entries need.
func ParseTOC(c *Container, hdr *Header) (*TOC, error) {
	regionEnd := hdr.Offset + hdr.HeaderBytes()
	if regionEnd > c.Len() {
		return nil, daterrors.ErrTruncatedTOC.
			WithDetail("regionEnd", regionEnd).
			WithDetail("containerLen", c.Len())
	}

	raw, err := c.Bytes(hdr.Offset+tocWordBase, regionEnd-(hdr.Offset+tocWordBase))
	if err != nil {
		return nil, daterrors.ErrTruncatedTOC.WithCause(err)
	}

	wordCount := len(raw) / 4
	// Entry p reads word indexes p+2, p+3 and p+5; the last entry needs
	// index (FileCount-1)+5.
	need := hdr.FileCount + 5
	if wordCount < need {
		return nil, daterrors.ErrTruncatedTOC.
			WithDetail("fileCount", hdr.FileCount).
			WithDetail("wordsAvailable", wordCount).
			WithDetail("wordsNeeded", need)
	}

	words := make([]uint32, wordCount)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}

	entries := make([]TOCEntry, hdr.FileCount)
	for p := 0; p < hdr.FileCount; p++ {
		entries[p] = TOCEntry{
			Index: p,
			Lead:  words[p+2],
			Trail: words[p+3],
			Span:  words[p+5],
		}
	}

	return &TOC{Header: hdr, Entries: entries}, nil
}
