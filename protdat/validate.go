package protdat

import (
	"github.com/legaia-mod/protdat-get/protdat/logger"
)

// RejectReason classifies why BoundsValidator refused an entry.
type RejectReason string

const (
	// RejectStartOutOfBounds: start sector before the end of the header or
	// past the container.
	RejectStartOutOfBounds RejectReason = "start-out-of-bounds"
	// RejectEndOutOfBounds: the resolved range runs past the container.
	RejectEndOutOfBounds RejectReason = "end-out-of-bounds"
	// RejectNonMonotonic: start sector backtracks over the previous
	// accepted entry, which a corrupted delta produces.
	RejectNonMonotonic RejectReason = "non-monotonic-start"
	// RejectOversized: size field larger than any legitimate asset.
	RejectOversized RejectReason = "oversized"
)

// RejectedEntry pairs a resolved asset with the first check it failed.
type RejectedEntry struct {
	Asset  ResolvedAsset
	Reason RejectReason
}

// DefaultMaxAssetSectors caps a single asset at 64 MiB worth of sectors. The
// largest retail asset is a few hundred sectors; the cap only exists to stop
// a corrupted size word from turning into a read spanning most of the file.
const DefaultMaxAssetSectors = 32768

// Validator screens resolved assets against the container's structural
// invariants. Rejection is per-entry: one bad entry never aborts the rest.
type Validator struct {
	TotalSectors  int64
	HeaderSectors int64
	// MaxAssetSectors caps a single asset's size; zero means
	// DefaultMaxAssetSectors.
	MaxAssetSectors int64
	// Policy selects whether backward starts are corruption or legal.
	Policy Policy
}

// Validate partitions the resolved sequence into accepted assets and
// rejected entries. len(accepted)+len(rejected) always equals len(assets).
// Checks run in a fixed order and the first failure names the reason:
// start bounds, end bounds, monotonicity against the previous accepted
// entry, then the size cap.
func (v *Validator) Validate(assets []ResolvedAsset) ([]ResolvedAsset, []RejectedEntry) {
	maxSize := v.MaxAssetSectors
	if maxSize == 0 {
		maxSize = DefaultMaxAssetSectors
	}

	accepted := make([]ResolvedAsset, 0, len(assets))
	var rejected []RejectedEntry

	// prevEnd tracks the end of the last accepted non-placeholder asset.
	prevEnd := v.HeaderSectors

	for _, a := range assets {
		if reason, ok := v.check(a, prevEnd, maxSize); !ok {
			logger.Warn("entry %d rejected (%s): start=%d size=%d", a.Index, reason, a.StartSector, a.SizeSectors)
			rejected = append(rejected, RejectedEntry{Asset: a, Reason: reason})
			continue
		}
		accepted = append(accepted, a)
		if !a.Placeholder {
			prevEnd = a.EndSector()
		}
	}

	return accepted, rejected
}

func (v *Validator) check(a ResolvedAsset, prevEnd, maxSize int64) (RejectReason, bool) {
	if a.Placeholder {
		// A null slot carries no payload; it only needs to not point past
		// the container.
		if a.StartSector < 0 || a.StartSector > v.TotalSectors {
			return RejectStartOutOfBounds, false
		}
		return "", true
	}

	if a.StartSector < v.HeaderSectors || a.StartSector >= v.TotalSectors {
		return RejectStartOutOfBounds, false
	}
	if a.EndSector() > v.TotalSectors {
		return RejectEndOutOfBounds, false
	}
	if v.Policy == PolicyStrict && a.StartSector < prevEnd {
		return RejectNonMonotonic, false
	}
	if a.SizeSectors > maxSize {
		return RejectOversized, false
	}
	return "", true
}
