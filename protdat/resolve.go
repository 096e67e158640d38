package protdat

// Policy controls how a backward delta (an entry starting before the running
// cursor) is treated. The retail data never needs one, but the original
// engine's behavior on such input is unknown, so the interpretation is a
// configuration rather than a hard-coded rule.
type Policy int

const (
	// PolicyStrict treats a backward start as corruption; BoundsValidator
	// rejects the entry as non-monotonic.
	PolicyStrict Policy = iota
	// PolicyLenient accepts backward starts as legitimate alignment
	// adjustments and skips the monotonicity check.
	PolicyLenient
)

// ResolvedAsset is a TOC entry with its delta fields reconstructed into an
// absolute sector range.
type ResolvedAsset struct {
	Index       int
	StartSector int64
	SizeSectors int64
	// Delta is the gap between this asset's start and the running cursor
	// after the previous entry: zero means it immediately follows.
	Delta int64
	// Placeholder marks a null TOC slot (fields decoded to zero or negative
	// size). Placeholders are kept so index-based naming stays aligned.
	Placeholder bool
}

// StartByte returns the asset's byte offset inside the container.
func (a ResolvedAsset) StartByte() int64 {
	return a.StartSector * SectorSize
}

// SizeBytes returns the asset's byte size.
func (a ResolvedAsset) SizeBytes() int64 {
	return a.SizeSectors * SectorSize
}

// EndSector returns the first sector past the asset.
func (a ResolvedAsset) EndSector() int64 {
	return a.StartSector + a.SizeSectors
}

// ResolveEntries reconstructs absolute sector ranges from the delta-encoded
// TOC entries, mirroring the engine's addressing function:
//
//	start = Span - Lead       (the engine's three-delta sum collapsed)
//	size  = Span - Trail + 4  (sectors)
//
// A cursor starts at the first sector past the header and advances to
// start+size after each entry, so entry i depends on the resolved state of
// entry i-1 and resolution is strictly sequential. The arithmetic was
// recovered from the retail binary and is reproduced as-is.
func ResolveEntries(entries []TOCEntry, headerSectors int64) []ResolvedAsset {
	assets := make([]ResolvedAsset, len(entries))
	cursor := headerSectors

	for i, e := range entries {
		start := int64(e.Span) - int64(e.Lead)
		size := int64(e.Span) - int64(e.Trail) + 4

		placeholder := size <= 0
		if placeholder {
			// Null TOC slot. Normalized to zero length and kept, so the
			// slot still occupies its index downstream.
			size = 0
		}

		assets[i] = ResolvedAsset{
			Index:       e.Index,
			StartSector: start,
			SizeSectors: size,
			Delta:       start - cursor,
			Placeholder: placeholder,
		}
		cursor = start + size
	}

	return assets
}
