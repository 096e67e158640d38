package protdat

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	daterrors "github.com/legaia-mod/protdat-get/protdat/errors"
)

func TestContainer_SectorCount(t *testing.T) {
	tests := []struct {
		name string
		size int
		want int64
	}{
		{name: "empty", size: 0, want: 0},
		{name: "exact sectors", size: 3 * SectorSize, want: 3},
		{name: "partial tail counts as a sector", size: 2*SectorSize + 1, want: 3},
		{name: "under one sector", size: 12, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContainer(make([]byte, tt.size), "Prot")
			if got := c.SectorCount(); got != tt.want {
				t.Errorf("SectorCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestContainer_ReadSectors(t *testing.T) {
	data := make([]byte, 3*SectorSize)
	for i := range data {
		data[i] = byte(i / SectorSize)
	}
	c := NewContainer(data, "Prot")

	got, err := c.ReadSectors(1, 2)
	if err != nil {
		t.Fatalf("ReadSectors() error = %v", err)
	}
	if len(got) != 2*SectorSize {
		t.Fatalf("ReadSectors() len = %d, want %d", len(got), 2*SectorSize)
	}
	if !bytes.Equal(got, data[SectorSize:]) {
		t.Error("ReadSectors() content mismatch")
	}

	// Result is a copy, not an alias.
	got[0] = 0xFF
	if data[SectorSize] == 0xFF {
		t.Error("ReadSectors() aliased the container")
	}
}

func TestContainer_ReadSectors_ZeroPadsTail(t *testing.T) {
	// 1.5 sectors of data: the second sector's back half reads as zeros.
	data := make([]byte, SectorSize+SectorSize/2)
	for i := range data {
		data[i] = 0xAB
	}
	c := NewContainer(data, "Prot")

	got, err := c.ReadSectors(1, 1)
	if err != nil {
		t.Fatalf("ReadSectors() error = %v", err)
	}
	for i := 0; i < SectorSize/2; i++ {
		if got[i] != 0xAB {
			t.Fatalf("byte %d = 0x%02X, want 0xAB", i, got[i])
		}
	}
	for i := SectorSize / 2; i < SectorSize; i++ {
		if got[i] != 0 {
			t.Fatalf("padding byte %d = 0x%02X, want 0x00", i, got[i])
		}
	}
}

func TestContainer_ReadSectors_OutOfBounds(t *testing.T) {
	c := NewContainer(make([]byte, 2*SectorSize), "Prot")

	tests := []struct {
		name         string
		start, count int64
	}{
		{name: "negative start", start: -1, count: 1},
		{name: "negative count", start: 0, count: -1},
		{name: "past end", start: 1, count: 2},
		{name: "start past end", start: 5, count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ReadSectors(tt.start, tt.count)
			if err == nil {
				t.Fatal("ReadSectors() expected error")
			}
			if code := daterrors.GetErrorCode(err); code != "INVALID_RANGE" {
				t.Errorf("error code = %q, want INVALID_RANGE", code)
			}
		})
	}
}

func TestContainer_Bytes_OutOfBounds(t *testing.T) {
	c := NewContainer(make([]byte, 16), "Prot")
	if _, err := c.Bytes(8, 16); err == nil {
		t.Fatal("Bytes() expected error")
	}
	if _, err := c.Bytes(-1, 4); err == nil {
		t.Fatal("Bytes() expected error for negative offset")
	}
}

func TestOpenContainer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PROT.DAT")
	if err := os.WriteFile(path, []byte{1, 2, 3, 4}, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	c, err := OpenContainer(path)
	if err != nil {
		t.Fatalf("OpenContainer() error = %v", err)
	}
	if c.Stem() != "PROT" {
		t.Errorf("Stem() = %q, want PROT", c.Stem())
	}
	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}

	if _, err := OpenContainer(filepath.Join(dir, "missing.DAT")); err == nil {
		t.Fatal("OpenContainer() expected error for missing file")
	} else if code := daterrors.GetErrorCode(err); code != "IO_FAILURE" {
		t.Errorf("error code = %q, want IO_FAILURE", code)
	}
}
