package ingest

import "testing"

func fp(chunks ...string) Set {
	s := NewSet()
	for _, c := range chunks {
		s.Add(Fingerprint(c))
	}
	return s
}

func chunksFor(url string, contents ...string) []Chunk {
	out := make([]Chunk, 0, len(contents))
	for i, c := range contents {
		out = append(out, Chunk{URL: url, Index: i, Content: c})
	}
	return FingerprintChunks(out)
}

func TestChangedURLs(t *testing.T) {
	urlA := "https://example.org/a"

	tests := []struct {
		name        string
		chunks      []Chunk
		prior       map[string]Set
		wantChanged []string
	}{
		{
			name:        "identical fingerprint set is unchanged",
			chunks:      chunksFor(urlA, "one", "two"),
			prior:       map[string]Set{urlA: fp("one", "two")},
			wantChanged: nil,
		},
		{
			name:        "one replaced chunk marks URL changed",
			chunks:      chunksFor(urlA, "one", "three"),
			prior:       map[string]Set{urlA: fp("one", "two")},
			wantChanged: []string{urlA},
		},
		{
			name:        "extra chunk marks URL changed",
			chunks:      chunksFor(urlA, "one", "two", "three"),
			prior:       map[string]Set{urlA: fp("one", "two")},
			wantChanged: []string{urlA},
		},
		{
			name:        "missing chunk marks URL changed",
			chunks:      chunksFor(urlA, "one"),
			prior:       map[string]Set{urlA: fp("one", "two")},
			wantChanged: []string{urlA},
		},
		{
			name:        "brand new URL is not changed",
			chunks:      chunksFor("https://example.org/b", "anything"),
			prior:       map[string]Set{},
			wantChanged: nil,
		},
		{
			name:        "order does not matter",
			chunks:      chunksFor(urlA, "two", "one"),
			prior:       map[string]Set{urlA: fp("one", "two")},
			wantChanged: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChangedURLs(tt.chunks, tt.prior)
			if len(got) != len(tt.wantChanged) {
				t.Fatalf("ChangedURLs() = %v, want %v", got, tt.wantChanged)
			}
			for _, url := range tt.wantChanged {
				if !got.Contains(url) {
					t.Errorf("ChangedURLs() missing %s", url)
				}
			}
		})
	}
}

func TestNewURLs(t *testing.T) {
	urlA := "https://example.org/a"
	urlB := "https://example.org/b"

	chunks := append(chunksFor(urlA, "one"), chunksFor(urlB, "two")...)
	prior := map[string]Set{urlA: fp("stale")}

	got := NewURLs(chunks, prior)
	if !got.Contains(urlB) {
		t.Errorf("NewURLs() missing %s", urlB)
	}
	if got.Contains(urlA) {
		t.Errorf("NewURLs() contains %s, which has prior state", urlA)
	}
	if len(got) != 1 {
		t.Errorf("NewURLs() = %v, want exactly one URL", got)
	}
}

func TestGroupFingerprints(t *testing.T) {
	urlA := "https://example.org/a"
	// Duplicate content collapses into one set member.
	chunks := chunksFor(urlA, "same", "same", "other")

	grouped := GroupFingerprints(chunks)
	if len(grouped) != 1 {
		t.Fatalf("GroupFingerprints() has %d URLs, want 1", len(grouped))
	}
	if len(grouped[urlA]) != 2 {
		t.Errorf("GroupFingerprints()[%s] has %d members, want 2", urlA, len(grouped[urlA]))
	}
}

func TestSet_Equal(t *testing.T) {
	if !NewSet("a", "b").Equal(NewSet("b", "a")) {
		t.Error("Equal() is order-sensitive")
	}
	if NewSet("a").Equal(NewSet("a", "b")) {
		t.Error("Equal() ignored extra member")
	}
	if !NewSet().Equal(NewSet()) {
		t.Error("Equal() failed on two empty sets")
	}
}
