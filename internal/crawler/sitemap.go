package crawler

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/HiwarkhedePrasad/ycceRAG/internal/ingest"
)

// Extensions that never carry indexable content.
var skipExtensions = map[string]struct{}{
	".doc":  {},
	".docx": {},
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
	".svg":  {},
	".mp4":  {},
	".mp3":  {},
	".zip":  {},
}

type sitemapEntry struct {
	Loc string `xml:"loc"`
}

type sitemapURLSet struct {
	XMLName xml.Name       `xml:"urlset"`
	URLs    []sitemapEntry `xml:"url"`
}

// parseSitemap reads a sitemap.xml document and classifies its declared
// locations into pages and PDFs. Non-content file extensions are skipped and
// each category stops admitting entries once its cap is reached; entries past
// a full cap are dropped, never queued. Malformed XML is a hard error: once a
// sitemap exists it is authoritative and there is no fallback.
func parseSitemap(r io.Reader, maxPages, maxPDFs int) (Result, error) {
	var urlset sitemapURLSet
	if err := xml.NewDecoder(r).Decode(&urlset); err != nil {
		return Result{}, fmt.Errorf("malformed sitemap: %w", err)
	}

	res := Result{Pages: ingest.NewSet(), PDFs: ingest.NewSet()}
	for _, entry := range urlset.URLs {
		loc := strings.TrimSpace(entry.Loc)
		if loc == "" {
			continue
		}

		parsed, err := url.Parse(strings.ToLower(loc))
		if err != nil {
			continue
		}
		ext := path.Ext(parsed.Path)
		if _, skip := skipExtensions[ext]; skip {
			continue
		}

		if ext == ".pdf" {
			if len(res.PDFs) < maxPDFs {
				res.PDFs.Add(loc)
			}
		} else if len(res.Pages) < maxPages {
			res.Pages.Add(loc)
		}
	}
	return res, nil
}
