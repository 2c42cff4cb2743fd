// Package catalog holds the dashboard entries and the rules that govern them.
//
// Two types model the lifecycle of an entry:
//   - Candidate: something recovered from configuration text, without identity
//   - Entry: a catalog member with an id, a kind and an enabled flag
//
// Promote is the only way from one to the other. A Store owns identity and
// guarantees that no two entries share a URL; it persists every change through
// a Persister before making it visible.
//
//	store, err := catalog.NewStore(fileStore, cfg.General.AppName)
//	id, err := store.AddCandidate(c, catalog.ImportPromotion())
package catalog
