package ingest

// GroupFingerprints groups the fingerprints of freshly produced chunks by
// their source URL. Duplicate fingerprints within a URL collapse; comparison
// downstream is set-based.
func GroupFingerprints(chunks []Chunk) map[string]Set {
	grouped := make(map[string]Set)
	for _, c := range chunks {
		set, ok := grouped[c.URL]
		if !ok {
			set = NewSet()
			grouped[c.URL] = set
		}
		set.Add(c.Fingerprint)
	}
	return grouped
}

// ChangedURLs compares fresh chunk fingerprints, per URL, against the
// fingerprints previously persisted for that URL and returns the URLs whose
// fingerprint set differs. URLs with no prior state at all are not changed
// but new; NewURLs reports those.
func ChangedURLs(chunks []Chunk, prior map[string]Set) Set {
	changed := NewSet()
	for url, fresh := range GroupFingerprints(chunks) {
		old, ok := prior[url]
		if !ok {
			continue
		}
		if !fresh.Equal(old) {
			changed.Add(url)
		}
	}
	return changed
}

// NewURLs returns the fresh URLs entirely absent from prior state.
func NewURLs(chunks []Chunk, prior map[string]Set) Set {
	fresh := NewSet()
	for _, c := range chunks {
		if _, ok := prior[c.URL]; !ok {
			fresh.Add(c.URL)
		}
	}
	return fresh
}
