package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/schedule.json", true},
		{"HTTP://example.com/schedule.json", true},
		{"schedule.json", false},
		{"/srv/schedule.json", false},
		{"ftp://example.com/schedule.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsURL(tt.in); got != tt.want {
				t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFetch(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path != "/schedule.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"activities": []}`))
	}))
	defer server.Close()

	f := New()

	data, err := f.Read(context.Background(), server.URL+"/schedule.json")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(data) != `{"activities": []}` {
		t.Errorf("data = %q", data)
	}
	if gotUA != UserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, UserAgent)
	}

	if _, err := f.Fetch(context.Background(), server.URL+"/missing.json"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestFetchCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New().Fetch(ctx, server.URL); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.json")
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := New().Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("data = %q", data)
	}

	if _, err := New().Read(context.Background(), filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
