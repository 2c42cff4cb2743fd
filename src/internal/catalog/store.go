package catalog

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/homedash/homedash/src/internal/errors"
	"github.com/homedash/homedash/src/internal/log"
)

// Persister is the storage collaborator behind a Store.
type Persister interface {
	Load() (Snapshot, error)
	// Update runs fn on the stored document and saves the result. No other
	// writer may change the document between the read and the write. If fn
	// fails nothing is saved and its error is returned unchanged.
	Update(fn func(Snapshot) (Snapshot, error)) error
}

// Store is the in-memory catalog. It owns entry identity and enforces that no
// two entries share a URL.
//
// Every mutation reloads the stored document, applies the change to a copy,
// saves it and only then replaces the in-memory state. Entries written by
// another process in the meantime are kept and take part in the URL check.
// The mutex serializes writers within the process.
type Store struct {
	mu        sync.RWMutex
	persister Persister
	appName   string
	entries   []Entry
	newID     func() string
}

// BatchResult reports the outcome of AddBatch.
type BatchResult struct {
	Added    []Entry
	Rejected []Rejection
}

// Rejection is an entry AddBatch refused, with the reason.
type Rejection struct {
	Entry Entry
	Err   error
}

// errUnchanged ends a mutation that has nothing to write.
var errUnchanged = errors.New("catalog unchanged")

// NewStore loads the catalog from p. defaultAppName is used when the stored
// document has no name.
func NewStore(p Persister, defaultAppName string) (*Store, error) {
	s := &Store{
		persister: p,
		appName:   defaultAppName,
		newID:     uuid.NewString,
	}
	if s.appName == "" {
		s.appName = DefaultAppName
	}
	if p == nil {
		return s, nil
	}

	snap, err := p.Load()
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to load catalog", err)
	}
	s.adopt(snap)
	return s, nil
}

// NewMemoryStore returns a Store without persistence.
func NewMemoryStore(appName string) *Store {
	s, _ := NewStore(nil, appName)
	return s
}

// Reload replaces the in-memory state with the stored document.
func (s *Store) Reload() error {
	if s.persister == nil {
		return nil
	}
	snap, err := s.persister.Load()
	if err != nil {
		return apperrors.NewPersistenceError("failed to load catalog", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.adopt(snap)
	return nil
}

// adopt takes over a loaded document. Callers must hold mu.
func (s *Store) adopt(snap Snapshot) {
	if snap.AppName != "" {
		s.appName = snap.AppName
	}
	s.entries = s.sanitize(snap.Links)
}

// sanitize repairs a loaded document: missing or repeated ids are reassigned and
// entries repeating an earlier URL are dropped.
func (s *Store) sanitize(in []Entry) []Entry {
	out := make([]Entry, 0, len(in))
	seenURL := make(map[string]bool, len(in))
	seenID := make(map[string]bool, len(in))
	for _, e := range in {
		if seenURL[e.URL] {
			log.Warnf("Dropping stored entry %q: url %s is already used", e.Title, e.URL)
			continue
		}
		if e.ID == "" || seenID[e.ID] {
			e.ID = s.newID()
		}
		seenURL[e.URL] = true
		seenID[e.ID] = true
		out = append(out, e)
	}
	return out
}

// mutate applies change to a copy of the latest document and swaps the result
// in once it is saved. Callers must hold mu.
func (s *Store) mutate(change func(doc *Snapshot) error) error {
	if s.persister == nil {
		doc := Snapshot{AppName: s.appName, Links: slices.Clone(s.entries)}
		if err := change(&doc); err != nil {
			if errors.Is(err, errUnchanged) {
				return nil
			}
			return err
		}
		s.appName, s.entries = doc.AppName, doc.Links
		return nil
	}

	var (
		saved     Snapshot
		changeErr error
	)
	err := s.persister.Update(func(snap Snapshot) (Snapshot, error) {
		s.adopt(snap)
		doc := Snapshot{AppName: s.appName, Links: slices.Clone(s.entries)}
		if changeErr = change(&doc); changeErr != nil {
			return Snapshot{}, changeErr
		}
		saved = doc
		return doc, nil
	})
	if changeErr != nil {
		if errors.Is(changeErr, errUnchanged) {
			return nil
		}
		return changeErr
	}
	if err != nil {
		return apperrors.NewPersistenceError("failed to save catalog", err)
	}
	s.appName, s.entries = saved.AppName, saved.Links
	return nil
}

func indexOf(entries []Entry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}

func urlTaken(entries []Entry, url string, exceptID string) bool {
	for i := range entries {
		if entries[i].URL == url && entries[i].ID != exceptID {
			return true
		}
	}
	return false
}

func (s *Store) assignID(e *Entry, entries []Entry, used map[string]bool) {
	if e.ID == "" || used[e.ID] || indexOf(entries, e.ID) >= 0 {
		e.ID = s.newID()
	}
}

// Add validates e, assigns its id and appends it.
// A caller-supplied id is kept unless it is already in use.
func (s *Store) Add(e Entry) (Entry, error) {
	if err := Validate(e); err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.mutate(func(doc *Snapshot) error {
		if urlTaken(doc.Links, e.URL, "") {
			return apperrors.NewDuplicateURLError(e.URL)
		}
		s.assignID(&e, doc.Links, nil)
		doc.Links = append(doc.Links, e)
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// AddCandidate promotes c and adds it. It returns the new entry id.
func (s *Store) AddCandidate(c Candidate, p Promotion) (string, error) {
	e, err := s.Add(Promote(c, p))
	if err != nil {
		return "", err
	}
	return e.ID, nil
}

// AddBatch adds entries one by one under a single lock. Each entry is checked
// against the catalog and against the entries admitted before it in the same
// batch; entries that fail are rejected without affecting their siblings.
// The admitted entries are persisted with one write. If that write fails none
// of them are kept.
func (s *Store) AddBatch(entries []Entry) (BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res BatchResult
	err := s.mutate(func(doc *Snapshot) error {
		res = BatchResult{}
		batchIDs := make(map[string]bool, len(entries))

		for _, e := range entries {
			if err := Validate(e); err != nil {
				res.Rejected = append(res.Rejected, Rejection{Entry: e, Err: err})
				continue
			}
			if urlTaken(doc.Links, e.URL, "") {
				res.Rejected = append(res.Rejected, Rejection{Entry: e, Err: apperrors.NewDuplicateURLError(e.URL)})
				continue
			}
			s.assignID(&e, doc.Links, batchIDs)
			batchIDs[e.ID] = true
			doc.Links = append(doc.Links, e)
			res.Added = append(res.Added, e)
		}

		if len(res.Added) == 0 {
			return errUnchanged
		}
		return nil
	})
	if err != nil {
		return BatchResult{}, err
	}
	return res, nil
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.entries, id)
	if i < 0 {
		return Entry{}, apperrors.NewNotFoundError(id)
	}
	return s.entries[i], nil
}

// Update applies patch to the entry with the given id.
func (s *Store) Update(id string, patch Patch) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated Entry
	err := s.mutate(func(doc *Snapshot) error {
		i := indexOf(doc.Links, id)
		if i < 0 {
			return apperrors.NewNotFoundError(id)
		}

		updated = patch.apply(doc.Links[i])
		updated.ID = id
		if err := Validate(updated); err != nil {
			return err
		}
		if urlTaken(doc.Links, updated.URL, id) {
			return apperrors.NewDuplicateURLError(updated.URL)
		}
		doc.Links[i] = updated
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	return updated, nil
}

// ToggleEnabled flips the enabled flag of an entry.
func (s *Store) ToggleEnabled(id string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var toggled Entry
	err := s.mutate(func(doc *Snapshot) error {
		i := indexOf(doc.Links, id)
		if i < 0 {
			return apperrors.NewNotFoundError(id)
		}
		doc.Links[i].Enabled = !doc.Links[i].Enabled
		toggled = doc.Links[i]
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	return toggled, nil
}

// Remove deletes an entry.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(func(doc *Snapshot) error {
		i := indexOf(doc.Links, id)
		if i < 0 {
			return apperrors.NewNotFoundError(id)
		}
		doc.Links = slices.Delete(doc.Links, i, i+1)
		return nil
	})
}

// List returns all entries ordered by title (case-insensitive, ties by id).
func (s *Store) List() []Entry {
	s.mu.RLock()
	out := slices.Clone(s.entries)
	s.mu.RUnlock()

	sortByTitle(out)
	return out
}

// URLs returns the set of URLs currently in the catalog.
func (s *Store) URLs() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	urls := make(map[string]struct{}, len(s.entries))
	for _, e := range s.entries {
		urls[e.URL] = struct{}{}
	}
	return urls
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// AppName returns the dashboard name.
func (s *Store) AppName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.appName
}

// SetAppName renames the dashboard.
func (s *Store) SetAppName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.NewValidationError("appName: field is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(func(doc *Snapshot) error {
		doc.AppName = name
		return nil
	})
}

// Snapshot returns a copy of the document with entries ordered by title.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	links := make([]Entry, len(s.entries))
	copy(links, s.entries)
	snap := Snapshot{AppName: s.appName, Links: links}
	s.mu.RUnlock()

	sortByTitle(snap.Links)
	return snap
}

func sortByTitle(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
