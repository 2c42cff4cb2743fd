package importer

import (
	"github.com/homedash/homedash/src/internal/catalog"
)

// MergeResult partitions candidates by whether their URL is new.
type MergeResult struct {
	Accepted []catalog.Candidate
	Skipped  []catalog.Candidate
}

// Merge keeps the candidates whose URL is neither in existing nor taken by an
// earlier candidate of the same batch. Order is preserved in both partitions.
func Merge(candidates []catalog.Candidate, existing map[string]struct{}) MergeResult {
	var res MergeResult
	seen := make(map[string]struct{}, len(candidates))

	for _, c := range candidates {
		_, inCatalog := existing[c.URL]
		_, inBatch := seen[c.URL]
		if inCatalog || inBatch {
			res.Skipped = append(res.Skipped, c)
			continue
		}
		seen[c.URL] = struct{}{}
		res.Accepted = append(res.Accepted, c)
	}
	return res
}
