package importer

import (
	"context"

	"go.uber.org/zap"

	"github.com/homedash/homedash/src/internal/apache"
	"github.com/homedash/homedash/src/internal/catalog"
	"github.com/homedash/homedash/src/internal/log"
)

// Store is the part of catalog.Store the importer writes to.
type Store interface {
	URLs() map[string]struct{}
	AddBatch(entries []catalog.Entry) (catalog.BatchResult, error)
}

// Recorder receives import metrics.
type Recorder interface {
	RecordImport(outcome string, accepted, skipped int)
	RecordFileReadErrors(n int)
}

// Importer runs the import pipeline: accumulate, extract, merge, add, report.
type Importer struct {
	store         Store
	recorder      Recorder
	parallelReads int
}

// Option configures an Importer.
type Option func(*Importer)

// WithRecorder reports every import to r.
func WithRecorder(r Recorder) Option {
	return func(im *Importer) { im.recorder = r }
}

// WithParallelReads bounds concurrent file reads.
func WithParallelReads(n int) Option {
	return func(im *Importer) { im.parallelReads = n }
}

// New creates an importer writing to store.
func New(store Store, opts ...Option) *Importer {
	im := &Importer{store: store, parallelReads: apache.DefaultParallelReads}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Import accumulates pasted text and sources into one buffer and runs it.
// Unreadable sources are listed in the report; the rest are still imported.
func (im *Importer) Import(ctx context.Context, text string, sources []apache.Source) (Report, error) {
	acc := apache.NewAccumulator(im.parallelReads)
	acc.AppendText(text)
	fileErrs := acc.AppendFiles(ctx, sources)
	if im.recorder != nil {
		im.recorder.RecordFileReadErrors(len(fileErrs))
	}
	return im.Run(ctx, acc.String(), fileErrs)
}

// Run imports the services described in text. Parse conditions always end in a
// report; only a context error or a failure to persist the catalog is returned.
func (im *Importer) Run(ctx context.Context, text string, fileErrs []apache.FileReadError) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	extracted := apache.Extract(text)
	merged := Merge(extracted.Candidates, im.store.URLs())

	promotion := catalog.ImportPromotion()
	entries := make([]catalog.Entry, 0, len(merged.Accepted))
	for _, c := range merged.Accepted {
		entries = append(entries, catalog.Promote(c, promotion))
	}

	var added []catalog.Entry
	skipped := len(merged.Skipped)
	if len(entries) > 0 {
		res, err := im.store.AddBatch(entries)
		if err != nil {
			log.Errorf("Import aborted: %v", err)
			return Report{}, err
		}
		for _, rej := range res.Rejected {
			log.Warnf("Skipping %s: %v", rej.Entry.URL, rej.Err)
		}
		added = res.Added
		skipped += len(res.Rejected)
	}

	report := NewReport(Counts{
		BlocksFound: extracted.BlocksFound,
		Extracted:   len(extracted.Candidates),
		Accepted:    len(added),
		Skipped:     skipped,
	}, fileErrs)
	if added != nil {
		report.Added = added
	}

	if im.recorder != nil {
		im.recorder.RecordImport(string(report.Outcome), report.Accepted, report.Skipped)
	}
	log.Logger().Info("Import finished",
		zap.String("outcome", string(report.Outcome)),
		zap.Int("blocks", report.BlocksFound),
		zap.Int("candidates", report.Extracted),
		zap.Int("accepted", report.Accepted),
		zap.Int("skipped", report.Skipped),
		zap.Int("file_errors", len(report.FileErrors)),
	)
	return report, nil
}
