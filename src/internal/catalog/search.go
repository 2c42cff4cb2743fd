package catalog

import "strings"

// Search returns the entries whose title, url, description or category contains
// query, ignoring case. An empty query matches everything. Results are ordered like List.
func (s *Store) Search(query string) []Entry {
	all := s.List()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all
	}

	out := make([]Entry, 0, len(all))
	for _, e := range all {
		if matches(e, query) {
			out = append(out, e)
		}
	}
	return out
}

func matches(e Entry, query string) bool {
	return strings.Contains(strings.ToLower(e.Title), query) ||
		strings.Contains(strings.ToLower(e.URL), query) ||
		strings.Contains(strings.ToLower(e.Description), query) ||
		(e.Category != "" && strings.Contains(strings.ToLower(e.Category), query))
}

// Stats counts enabled services and links and the overall online/offline split.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	for _, e := range s.entries {
		st.Total++
		if !e.Enabled {
			st.Offline++
			continue
		}
		st.Online++
		switch e.Kind {
		case KindService:
			st.ActiveServices++
		case KindLink:
			st.ActiveLinks++
		}
	}
	return st
}
