package protdat

import (
	"encoding/binary"
	"testing"
)

// datSpec describes a synthetic container for tests.
type datSpec struct {
	headerOffset  int64
	fileCount     int
	headerSectors int64
	// words are the TOC words starting at index 2 (the first word an entry
	// reads); indexes 0 and 1 are the header-sectors word and a pad word.
	words []uint32
	// totalSectors sizes the container.
	totalSectors int64
}

// buildDAT materializes a datSpec. Asset payload sectors are filled with the
// sector's own index so tests can tell extracted ranges apart.
func buildDAT(t *testing.T, spec datSpec) *Container {
	t.Helper()

	data := make([]byte, spec.totalSectors*SectorSize)
	for s := int64(0); s < spec.totalSectors; s++ {
		if s < spec.headerOffset/SectorSize+spec.headerSectors {
			continue
		}
		for i := int64(0); i < SectorSize; i++ {
			data[s*SectorSize+i] = byte(s)
		}
	}

	binary.LittleEndian.PutUint32(data[spec.headerOffset+4:], uint32(spec.fileCount))
	binary.LittleEndian.PutUint32(data[spec.headerOffset+8:], uint32(spec.headerSectors))
	for i, w := range spec.words {
		binary.LittleEndian.PutUint32(data[spec.headerOffset+8+4*int64(i+2):], w)
	}

	return NewContainer(data, "Prot")
}

// twoEntrySpec is the canonical scenario: header at 0x000 occupying one
// sector of a 10-sector container, two contiguous assets of 1 and 2 sectors.
// Words w2..w6 chosen so that entry 0 resolves to {start=1,size=1} and
// entry 1 to {start=2,size=2}, both with delta 0.
func twoEntrySpec() datSpec {
	return datSpec{
		fileCount:     2,
		headerSectors: 1,
		words:         []uint32{96, 100, 104, 97, 102}, // w2..w6
		totalSectors:  10,
	}
}

// threeEntrySpec has a corrupted middle entry: entry 1 resolves to 20
// sectors starting at 3, running past the 10-sector container, while
// entries 0 {start=1,size=1} and 2 {start=7,size=1} stay valid.
func threeEntrySpec() datSpec {
	return datSpec{
		fileCount:     3,
		headerSectors: 1,
		words:         []uint32{100, 104, 91, 101, 107, 98}, // w2..w7
		totalSectors:  10,
	}
}

// placeholderSpec has entry 1 decoding to size zero (a null TOC slot) at
// start 2, behind a normal entry 0 {start=1,size=1}.
func placeholderSpec() datSpec {
	return datSpec{
		fileCount:     2,
		headerSectors: 1,
		words:         []uint32{96, 100, 106, 97, 102}, // w2..w6
		totalSectors:  10,
	}
}
