package protdat

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/errgroup"

	"github.com/legaia-mod/protdat-get/protdat/logger"
	"github.com/legaia-mod/protdat-get/protdat/storage"
)

// ProgressCallback is called during extraction to report progress.
// current: bytes written so far, total: total bytes to extract.
type ProgressCallback func(current int64, total int64)

// AssetStatus classifies an asset's outcome in the final report.
const (
	StatusOK       = "ok"
	StatusRejected = "rejected"
	StatusFailed   = "failed"
)

// AssetReport describes one TOC slot's fate, for the metadata emitter.
type AssetReport struct {
	Index     int
	Name      string
	StartByte int64
	SizeBytes int64
	Status    string
	Reason    string
	Digest    digest.Digest
	Pack      PackResult
	// TIMNames are the sink-relative paths of written sub-chunks.
	TIMNames []string
}

// ExtractStats aggregates an extraction run.
type ExtractStats struct {
	Assets       int
	Failed       int
	Packs        int
	Chunks       int
	BytesWritten int64
}

// Extractor copies accepted assets out of the container into a sink and
// splits detected TIM packs. Assets cover disjoint ranges of a read-only
// container, so extraction fans out across workers.
type Extractor struct {
	container *Container
	sink      storage.Sink
	// Jobs is the worker count; zero means GOMAXPROCS.
	Jobs int
	// Progress, when set, receives aggregated byte progress.
	Progress ProgressCallback
}

// NewExtractor returns an extractor over the container writing to sink.
func NewExtractor(c *Container, sink storage.Sink) *Extractor {
	return &Extractor{container: c, sink: sink}
}

// ExtractAll extracts every accepted asset, in any order, and returns reports
// in input order. A failure on one asset is recorded in its report and does
// not stop the others; only context cancellation aborts the run.
func (e *Extractor) ExtractAll(ctx context.Context, stem string, accepted []ResolvedAsset) ([]AssetReport, *ExtractStats, error) {
	var total int64
	for _, a := range accepted {
		total += a.SizeBytes()
	}
	if e.Progress != nil {
		e.Progress(0, total)
	}

	jobs := e.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	reports := make([]AssetReport, len(accepted))
	var written int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, asset := range accepted {
		i, asset := i, asset
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = e.extractOne(stem, asset)
			if reports[i].Status == StatusOK && e.Progress != nil {
				e.Progress(atomic.AddInt64(&written, asset.SizeBytes()), total)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	stats := &ExtractStats{}
	for _, r := range reports {
		stats.Assets++
		switch r.Status {
		case StatusFailed:
			stats.Failed++
		case StatusOK:
			stats.BytesWritten += r.SizeBytes
			if r.Pack.State == PackDetected {
				stats.Packs++
				stats.Chunks += len(r.Pack.Chunks)
			}
		}
	}
	return reports, stats, nil
}

// extractOne materializes a single asset: read its sectors, write the .BIN,
// then split it when it turns out to be a TIM pack. Zero-size placeholders
// still produce an empty file so the index-based naming stays contiguous.
func (e *Extractor) extractOne(stem string, asset ResolvedAsset) AssetReport {
	name := fmt.Sprintf("%s_%d.BIN", stem, asset.Index)
	report := AssetReport{
		Index:     asset.Index,
		Name:      name,
		StartByte: asset.StartByte(),
		SizeBytes: asset.SizeBytes(),
		Status:    StatusOK,
	}

	blob, err := e.container.ReadSectors(asset.StartSector, asset.SizeSectors)
	if err != nil {
		logger.Error("read failed for %s: %v", name, err)
		report.Status = StatusFailed
		report.Reason = err.Error()
		return report
	}

	if err := e.sink.WriteFile(name, blob); err != nil {
		logger.Error("write failed for %s: %v", name, err)
		report.Status = StatusFailed
		report.Reason = err.Error()
		return report
	}

	report.Digest = digest.FromBytes(blob)

	if asset.Placeholder {
		report.Pack = PackResult{State: PackOpaque}
		return report
	}

	report.Pack = DetectTIMPack(blob)
	if report.Pack.State != PackDetected {
		return report
	}

	subdir := fmt.Sprintf("%s_%d", stem, asset.Index)
	for _, chunk := range report.Pack.Chunks {
		chunkName := fmt.Sprintf("%s/%s_%d_%d.%s", subdir, stem, asset.Index, chunk.Index, chunk.Ext)
		if err := e.sink.WriteFile(chunkName, blob[chunk.Offset:chunk.Offset+chunk.Size]); err != nil {
			logger.Warn("TIM chunk write failed for %s: %v", chunkName, err)
			continue
		}
		report.TIMNames = append(report.TIMNames, chunkName)
	}
	logger.Info("%s: TIM pack with %d chunks", name, len(report.Pack.Chunks))

	return report
}
