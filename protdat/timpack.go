package protdat

import (
	"encoding/binary"
	"sort"
)

// PackState is the terminal outcome of TIM pack detection. It is a tagged
// value rather than a boolean so callers can tell "confirmed opaque" from
// "never inspected".
type PackState int

const (
	// PackUnchecked means detection has not run for the asset.
	PackUnchecked PackState = iota
	// PackDetected means the payload is a pack of sub-chunks.
	PackDetected
	// PackOpaque means the payload is a single blob (or the evidence for a
	// pack was insufficient).
	PackOpaque
)

func (s PackState) String() string {
	switch s {
	case PackDetected:
		return "pack"
	case PackOpaque:
		return "opaque"
	default:
		return "unchecked"
	}
}

// timMagic is the first byte of a Sony TIM image header (0x10).
const timMagic = 0x10

// SubChunk is one slice of a detected TIM pack.
type SubChunk struct {
	Index  int
	Offset int64
	Size   int64
	// Ext is "TIM" when the chunk opens with the TIM magic, otherwise "BIN".
	Ext string
}

// PackResult is the outcome of pack detection for one extracted asset.
type PackResult struct {
	State PackState
	// Header holds the pack's 4-byte header when State is PackDetected.
	Header []byte
	Chunks []SubChunk
}

// DetectTIMPack decides whether an extracted payload is a pack of texture
// chunks. The recognized layout (recovered from the retail data) is a 4-byte
// header whose bytes 2..3 form the signature, a chunk count at +4, and a
// table of word indexes at +8 where each table word e maps to byte offset
// e*4+4. Offsets are deduplicated, sorted and clamped by the payload length.
//
// The signature alone is weak (one magic comparison), so a payload only
// commits to PackDetected when at least two consistent chunks survive the
// table checks; anything less stays PackOpaque rather than over-splitting a
// single-chunk asset on a coincidental match.
func DetectTIMPack(blob []byte) PackResult {
	opaque := PackResult{State: PackOpaque}

	// Minimum: 4-byte header, chunk count, one table entry.
	if len(blob) < 12 {
		return opaque
	}
	if blob[3] != 0x01 || blob[2] >= 0x10 {
		return opaque
	}

	count := int(int32(binary.LittleEndian.Uint32(blob[4:8])))
	tableEnd := 8 + 4*count
	if count < 0 || tableEnd > len(blob) {
		return opaque
	}

	offsets := make([]int64, 0, count)
	seen := make(map[int64]bool, count)
	for x := 0; x < count; x++ {
		entry := int64(int32(binary.LittleEndian.Uint32(blob[8+4*x:])))
		off := entry*4 + 4
		if off < 0 || off > int64(len(blob)) || seen[off] {
			continue
		}
		seen[off] = true
		offsets = append(offsets, off)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	offsets = append(offsets, int64(len(blob)))

	var chunks []SubChunk
	for x := 0; x < len(offsets)-1; x++ {
		s, e := offsets[x], offsets[x+1]
		if s >= e {
			continue
		}
		ext := "BIN"
		if blob[s] == timMagic {
			ext = "TIM"
		}
		chunks = append(chunks, SubChunk{
			Index:  len(chunks),
			Offset: s,
			Size:   e - s,
			Ext:    ext,
		})
	}

	if len(chunks) < 2 {
		return opaque
	}

	return PackResult{
		State:  PackDetected,
		Header: append([]byte(nil), blob[:4]...),
		Chunks: chunks,
	}
}
