package extractor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HiwarkhedePrasad/ycceRAG/internal/ingest"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Admissions 2026 | YCCE</title></head>
<body>
<nav><a href="/">Home</a><a href="/about">About</a></nav>
<article>
<h1>Admissions 2026</h1>
<p>Applications for the 2026 academic year open on the first of March and
close at the end of May. Candidates must hold a higher secondary certificate
with mathematics and physics as core subjects.</p>
<p>Admissions are granted on the basis of the state entrance examination.
Counselling rounds are announced on the official notice board and this
website. Original documents are verified at the time of admission.</p>
<p>The fee structure for each programme is published separately. Hostel
accommodation is allotted on a first come first served basis after fees are
paid in full.</p>
</article>
<footer>Copyright YCCE</footer>
</body>
</html>`

func TestExtractor_Page(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admissions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, articleHTML)
	})
	mux.HandleFunc("/thin", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body><p>tiny</p></body></html>")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	e := New()
	ctx := context.Background()

	t.Run("article extracted", func(t *testing.T) {
		out := e.Page(ctx, srv.URL+"/admissions")
		if out.Skipped() {
			t.Fatalf("Page() skipped: %s", out.Skip)
		}
		doc := out.Doc
		if doc.URL != srv.URL+"/admissions" {
			t.Errorf("Page() URL = %s", doc.URL)
		}
		if doc.Kind != ingest.KindPage {
			t.Errorf("Page() kind = %s, want %s", doc.Kind, ingest.KindPage)
		}
		if !strings.Contains(doc.Content, "state entrance examination") {
			t.Errorf("Page() content missing article text: %q", doc.Content)
		}
		if strings.Contains(doc.Content, "Copyright YCCE") {
			t.Errorf("Page() content kept footer boilerplate: %q", doc.Content)
		}
		if doc.Title == "" {
			t.Error("Page() title is empty")
		}
	})

	t.Run("not found is a skip", func(t *testing.T) {
		out := e.Page(ctx, srv.URL+"/missing")
		if !out.Skipped() {
			t.Fatal("Page() expected skip for 404")
		}
		if out.Skip == "" {
			t.Error("Page() skip has no reason")
		}
	})

	t.Run("thin content is a skip", func(t *testing.T) {
		out := e.Page(ctx, srv.URL+"/thin")
		if !out.Skipped() {
			t.Fatal("Page() expected skip for thin content")
		}
	})

	t.Run("unreachable host is a skip", func(t *testing.T) {
		out := e.Page(ctx, "http://127.0.0.1:1/never")
		if !out.Skipped() {
			t.Fatal("Page() expected skip for unreachable host")
		}
	})
}

func TestExtractor_PDF_Skips(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/broken.pdf", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "this is not a pdf")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	e := New()
	ctx := context.Background()

	if out := e.PDF(ctx, srv.URL+"/missing.pdf"); !out.Skipped() {
		t.Error("PDF() expected skip for 404")
	}
	if out := e.PDF(ctx, srv.URL+"/broken.pdf"); !out.Skipped() {
		t.Error("PDF() expected skip for non-PDF body")
	}
}

func TestPDFTitle(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://ycce.edu/docs/academic_calendar-2026.pdf", want: "Academic Calendar 2026"},
		{url: "https://ycce.edu/docs/SYLLABUS.PDF", want: "SYLLABUS"},
		{url: "https://ycce.edu/a/cse-syllabus.pdf?v=2", want: "Cse Syllabus"},
	}

	for _, tt := range tests {
		if got := pdfTitle(tt.url); got != tt.want {
			t.Errorf("pdfTitle(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestCollapseBlankLines(t *testing.T) {
	in := "  first line  \n\n\n second \n\t\nthird\n"
	want := "first line\nsecond\nthird"
	if got := collapseBlankLines(in); got != want {
		t.Errorf("collapseBlankLines() = %q, want %q", got, want)
	}
}
