package io

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/sunburst/pkg/cache"
	"github.com/matzehuels/sunburst/pkg/errors"
)

const report = `{"zeta": {"failedCount": 2}, "alpha": {"failedCount": 1, "testsuites": []}}`

func TestImportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failures.json")
	if err := os.WriteFile(path, []byte(report), 0644); err != nil {
		t.Fatal(err)
	}

	tree, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if tree.Len() != 2 || tree.Jobs[0].Name != "zeta" || tree.Jobs[1].Name != "alpha" {
		t.Errorf("ImportJSON() jobs = %+v, want zeta, alpha", tree.Jobs)
	}
}

func TestImportJSONErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`[1, 2]`), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing", filepath.Join(dir, "nope.json"), errors.ErrCodeFileNotFound},
		{"not an object", bad, errors.ErrCodeMalformedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportJSON(tt.path)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("ImportJSON() code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestWriteJSONKeepsOrder(t *testing.T) {
	tree, err := ReadJSON(strings.NewReader(report))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(tree, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	out := buf.String()
	if strings.Index(out, `"zeta"`) > strings.Index(out, `"alpha"`) {
		t.Errorf("WriteJSON() reordered jobs:\n%s", out)
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("WriteJSON() should end with a newline")
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	ext := func(f string) string {
		if f == "tree" {
			return "tree.svg"
		}
		return f
	}
	paths, err := WriteArtifacts(dir, "failures", map[string][]byte{
		"svg":  []byte("<svg/>"),
		"tree": []byte("<svg/>"),
		"json": []byte("{}"),
	}, ext)
	if err != nil {
		t.Fatalf("WriteArtifacts() error: %v", err)
	}
	want := []string{"failures.json", "failures.svg", "failures.tree.svg"}
	if len(paths) != len(want) {
		t.Fatalf("WriteArtifacts() = %v", paths)
	}
	for i, p := range paths {
		if filepath.Base(p) != want[i] {
			t.Errorf("path %d = %s, want %s", i, filepath.Base(p), want[i])
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}
}

func TestFetchStdinAndFile(t *testing.T) {
	ctx := context.Background()
	f := &Fetcher{Stdin: strings.NewReader(report)}

	data, err := f.Fetch(ctx, Stdin, false)
	if err != nil || string(data) != report {
		t.Errorf("Fetch(-) = %q, %v", data, err)
	}

	_, err = f.Fetch(ctx, filepath.Join(t.TempDir(), "missing.json"), false)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Fetch(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFetchSizeLimit(t *testing.T) {
	defer func(n int) { maxReportSize = n }(maxReportSize)
	maxReportSize = len(report)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(report + " "))
	}))
	defer srv.Close()

	dir := t.TempDir()
	exact := filepath.Join(dir, "exact.json")
	over := filepath.Join(dir, "over.json")
	if err := os.WriteFile(exact, []byte(report), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(over, []byte(report+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		source  string
		stdin   string
		wantErr bool
	}{
		{"file at limit", exact, "", false},
		{"file over limit", over, "", true},
		{"stdin over limit", Stdin, report + "\n", true},
		{"url over limit", srv.URL, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &Fetcher{Client: srv.Client(), Stdin: strings.NewReader(tt.stdin)}
			data, err := f.Fetch(context.Background(), tt.source, true)
			if !tt.wantErr {
				if err != nil || string(data) != report {
					t.Errorf("Fetch() = %q, %v", data, err)
				}
				return
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Fetch() error = %v, want INVALID_INPUT", err)
			}
		})
	}

	if _, err := ImportJSON(over); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ImportJSON(over) error = %v, want INVALID_INPUT", err)
	}
}

func TestFetchRejectsBadSource(t *testing.T) {
	f := &Fetcher{}
	for _, source := range []string{"", "ftp://ci.example.com/failures", "fail\x00ures.json"} {
		if _, err := f.Fetch(context.Background(), source, false); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Fetch(%q) error = %v, want INVALID_INPUT", source, err)
		}
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"http://ci/failures", true},
		{"https://ci/failures", true},
		{"failures.json", false},
		{"-", false},
		{"ftp://ci/failures", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFetchURLRetriesAndCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.UserAgent(), "sunburst/") {
			t.Errorf("User-Agent = %q", r.UserAgent())
		}
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(report))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := &Fetcher{
		Client:  srv.Client(),
		Cache:   fc,
		Backoff: cache.Backoff{Attempts: 3, Delay: time.Millisecond},
	}
	ctx := context.Background()

	data, err := f.Fetch(ctx, srv.URL, false)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if string(data) != report {
		t.Errorf("Fetch() = %q", data)
	}
	if calls.Load() != 2 {
		t.Errorf("server calls = %d, want 2 (one retry)", calls.Load())
	}

	if _, err := f.Fetch(ctx, srv.URL, false); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("second Fetch() should be served from cache, calls = %d", calls.Load())
	}

	if _, err := f.Fetch(ctx, srv.URL, true); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 3 {
		t.Errorf("refresh should bypass cache, calls = %d", calls.Load())
	}
}

func TestFetchURLNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := &Fetcher{Client: srv.Client(), Backoff: cache.Backoff{Attempts: 3, Delay: time.Millisecond}}
	_, err := f.Fetch(context.Background(), srv.URL+"/failures", false)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Fetch() error = %v, want NOT_FOUND", err)
	}
	if calls.Load() != 1 {
		t.Errorf("404 should not be retried, calls = %d", calls.Load())
	}
}
