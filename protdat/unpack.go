package protdat

import (
	"context"
	"sort"

	"github.com/legaia-mod/protdat-get/protdat/logger"
	"github.com/legaia-mod/protdat-get/protdat/storage"
)

// Options tunes a one-shot unpack run.
type Options struct {
	// Policy selects backward-delta handling; default PolicyStrict.
	Policy Policy
	// MaxAssetSectors caps a single asset's size; zero means the default.
	MaxAssetSectors int64
	// Jobs is the extraction worker count; zero means GOMAXPROCS.
	Jobs int
	// Progress, when set, receives aggregated byte progress.
	Progress ProgressCallback
	// Stem overrides the asset name prefix; default is the container's stem.
	Stem string
}

// UnpackResult is the outcome of a full run: which header was chosen, every
// TOC slot's report in index order, and the rejections that produced them.
type UnpackResult struct {
	Header   *Header
	Reports  []AssetReport
	Rejected []RejectedEntry
	Stats    *ExtractStats
}

// Unpack runs the whole pipeline against a container: locate the header,
// parse the TOC, resolve deltas, validate bounds, then extract accepted
// assets (with TIM pack splitting) into the sink. Per-entry rejections are
// reported, not fatal; only a missing header, a truncated TOC or container
// I/O failure returns an error.
func Unpack(ctx context.Context, c *Container, sink storage.Sink, opts Options) (*UnpackResult, error) {
	hdr, err := LocateHeader(c)
	if err != nil {
		return nil, err
	}
	logger.Info("header at 0x%X: fileCount=%d headerSize=0x%X",
		hdr.Offset, hdr.FileCount, hdr.HeaderBytes())

	toc, err := ParseTOC(c, hdr)
	if err != nil {
		return nil, err
	}

	resolved := ResolveEntries(toc.Entries, hdr.HeaderSectors)

	validator := &Validator{
		TotalSectors:    c.SectorCount(),
		HeaderSectors:   hdr.HeaderSectors,
		MaxAssetSectors: opts.MaxAssetSectors,
		Policy:          opts.Policy,
	}
	accepted, rejected := validator.Validate(resolved)

	stem := opts.Stem
	if stem == "" {
		stem = c.Stem()
	}

	extractor := NewExtractor(c, sink)
	extractor.Jobs = opts.Jobs
	extractor.Progress = opts.Progress

	reports, stats, err := extractor.ExtractAll(ctx, stem, accepted)
	if err != nil {
		return nil, err
	}

	// Merge rejected slots back in so the final report covers every TOC
	// index, extracted or not.
	for _, r := range rejected {
		reports = append(reports, AssetReport{
			Index:     r.Asset.Index,
			StartByte: r.Asset.StartByte(),
			SizeBytes: r.Asset.SizeBytes(),
			Status:    StatusRejected,
			Reason:    string(r.Reason),
		})
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Index < reports[j].Index })

	logger.Info("extracted %d/%d assets (%d rejected, %d failed, %d TIM packs)",
		stats.Assets-stats.Failed, hdr.FileCount, len(rejected), stats.Failed, stats.Packs)

	return &UnpackResult{
		Header:   hdr,
		Reports:  reports,
		Rejected: rejected,
		Stats:    stats,
	}, nil
}
