package protdat

import (
	"testing"

	daterrors "github.com/legaia-mod/protdat-get/protdat/errors"
)

func TestParseTOC(t *testing.T) {
	c := buildDAT(t, twoEntrySpec())
	hdr, err := LocateHeader(c)
	if err != nil {
		t.Fatalf("LocateHeader() error = %v", err)
	}

	toc, err := ParseTOC(c, hdr)
	if err != nil {
		t.Fatalf("ParseTOC() error = %v", err)
	}
	if len(toc.Entries) != hdr.FileCount {
		t.Fatalf("len(Entries) = %d, want %d", len(toc.Entries), hdr.FileCount)
	}

	// Entry windows overlap: entry 1's Lead is entry 0's Trail.
	want := []TOCEntry{
		{Index: 0, Lead: 96, Trail: 100, Span: 97},
		{Index: 1, Lead: 100, Trail: 104, Span: 102},
	}
	for i, e := range toc.Entries {
		if e != want[i] {
			t.Errorf("Entries[%d] = %+v, want %+v", i, e, want[i])
		}
	}
}

func TestParseTOC_PreservesOrder(t *testing.T) {
	c := buildDAT(t, threeEntrySpec())
	hdr, err := LocateHeader(c)
	if err != nil {
		t.Fatalf("LocateHeader() error = %v", err)
	}

	toc, err := ParseTOC(c, hdr)
	if err != nil {
		t.Fatalf("ParseTOC() error = %v", err)
	}
	for i, e := range toc.Entries {
		if e.Index != i {
			t.Errorf("Entries[%d].Index = %d, want %d", i, e.Index, i)
		}
	}
}

func TestParseTOC_Truncated(t *testing.T) {
	// One header sector supplies at most 510 TOC words; a file count needing
	// more words than that must fail, not read junk.
	spec := twoEntrySpec()
	c := buildDAT(t, spec)
	hdr := &Header{Offset: 0, FileCount: 600, HeaderSectors: 1}

	_, err := ParseTOC(c, hdr)
	if err == nil {
		t.Fatal("ParseTOC() expected error")
	}
	if code := daterrors.GetErrorCode(err); code != "TRUNCATED_TOC" {
		t.Errorf("error code = %q, want TRUNCATED_TOC", code)
	}
}

func TestParseTOC_HeaderRegionPastContainer(t *testing.T) {
	c := buildDAT(t, twoEntrySpec())
	hdr := &Header{Offset: 0, FileCount: 2, HeaderSectors: 100}

	_, err := ParseTOC(c, hdr)
	if err == nil {
		t.Fatal("ParseTOC() expected error")
	}
	if code := daterrors.GetErrorCode(err); code != "TRUNCATED_TOC" {
		t.Errorf("error code = %q, want TRUNCATED_TOC", code)
	}
}
