package crawler

import (
	"fmt"
	"strings"
	"testing"
)

const sitemapHeader = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`

func sitemapWith(locs ...string) string {
	var b strings.Builder
	b.WriteString(sitemapHeader)
	for _, loc := range locs {
		fmt.Fprintf(&b, "<url><loc>%s</loc></url>", loc)
	}
	b.WriteString("</urlset>")
	return b.String()
}

func TestParseSitemap(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxPages  int
		maxPDFs   int
		wantErr   bool
		wantPages []string
		wantPDFs  []string
	}{
		{
			name: "pages and pdfs classified",
			input: sitemapWith(
				"https://www.ycce.edu/",
				"https://www.ycce.edu/admissions",
				"https://www.ycce.edu/syllabus/cse.pdf",
			),
			maxPages:  10,
			maxPDFs:   10,
			wantPages: []string{"https://www.ycce.edu/", "https://www.ycce.edu/admissions"},
			wantPDFs:  []string{"https://www.ycce.edu/syllabus/cse.pdf"},
		},
		{
			name: "non-content extensions skipped",
			input: sitemapWith(
				"https://www.ycce.edu/logo.png",
				"https://www.ycce.edu/brochure.DOCX",
				"https://www.ycce.edu/tour.mp4",
				"https://www.ycce.edu/archive.zip",
				"https://www.ycce.edu/about",
			),
			maxPages:  10,
			maxPDFs:   10,
			wantPages: []string{"https://www.ycce.edu/about"},
			wantPDFs:  nil,
		},
		{
			name: "uppercase pdf extension classified as pdf",
			input: sitemapWith(
				"https://www.ycce.edu/Calendar.PDF",
			),
			maxPages: 10,
			maxPDFs:  10,
			wantPDFs: []string{"https://www.ycce.edu/Calendar.PDF"},
		},
		{
			name:     "empty loc ignored",
			input:    sitemapHeader + "<url><loc></loc></url><url></url></urlset>",
			maxPages: 10,
			maxPDFs:  10,
		},
		{
			name:    "malformed xml is fatal",
			input:   sitemapHeader + "<url><loc>https://www.ycce.edu/</loc>",
			wantErr: true,
		},
		{
			name:    "not a sitemap at all",
			input:   "page cap exceeded: call later",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parseSitemap(strings.NewReader(tt.input), tt.maxPages, tt.maxPDFs)
			if tt.wantErr {
				if err == nil {
					t.Error("parseSitemap() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSitemap() unexpected error: %v", err)
			}

			if len(res.Pages) != len(tt.wantPages) {
				t.Errorf("parseSitemap() pages = %v, want %v", res.Pages, tt.wantPages)
			}
			for _, u := range tt.wantPages {
				if !res.Pages.Contains(u) {
					t.Errorf("parseSitemap() pages missing %s", u)
				}
			}
			if len(res.PDFs) != len(tt.wantPDFs) {
				t.Errorf("parseSitemap() pdfs = %v, want %v", res.PDFs, tt.wantPDFs)
			}
			for _, u := range tt.wantPDFs {
				if !res.PDFs.Contains(u) {
					t.Errorf("parseSitemap() pdfs missing %s", u)
				}
			}
		})
	}
}

func TestParseSitemap_CapKeepsFirstInSourceOrder(t *testing.T) {
	locs := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		locs = append(locs, fmt.Sprintf("https://www.ycce.edu/page-%02d", i))
	}

	res, err := parseSitemap(strings.NewReader(sitemapWith(locs...)), 5, 5)
	if err != nil {
		t.Fatalf("parseSitemap() unexpected error: %v", err)
	}

	if len(res.Pages) != 5 {
		t.Fatalf("parseSitemap() admitted %d pages, want 5", len(res.Pages))
	}
	for i := 0; i < 5; i++ {
		if !res.Pages.Contains(locs[i]) {
			t.Errorf("parseSitemap() dropped %s, want the first 5 in source order", locs[i])
		}
	}
	for i := 5; i < 20; i++ {
		if res.Pages.Contains(locs[i]) {
			t.Errorf("parseSitemap() admitted %s beyond the cap", locs[i])
		}
	}
}
