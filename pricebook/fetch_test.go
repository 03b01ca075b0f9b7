package pricebook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLoad_RemoteSheet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("code,name,unit,price\nR-1,Remote Entry,EA,42\n"))
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL, 2*time.Second, 1)
	book, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if book.FromFallback {
		t.Fatal("remote load must not be flagged as fallback")
	}
	if _, err := book.Lookup("R-1"); err != nil {
		t.Fatalf("remote entry missing: %v", err)
	}
}

func TestLoad_ServerErrorFallsBackToSnapshot(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL, 2*time.Second, 2)
	book, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !book.FromFallback {
		t.Fatal("expected fallback book after remote 500s")
	}
	if hits != 3 {
		t.Fatalf("expected initial attempt plus 2 retries, got %d hits", hits)
	}

	// Search still functions against fallback data.
	got := book.Search(Filter{Material: "quartz"})
	if len(got) == 0 {
		t.Fatal("expected quartz entries in the bundled snapshot")
	}
}

func TestLoad_ClientErrorIsNotRetried(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	loader := NewLoader(srv.URL, 2*time.Second, 5)
	book, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !book.FromFallback {
		t.Fatal("expected fallback book after a 404")
	}
	if hits != 1 {
		t.Fatalf("4xx must be permanent, got %d hits", hits)
	}
}

func TestLoad_EmptyURLUsesSnapshot(t *testing.T) {
	loader := NewLoader("", time.Second, 0)
	book, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !book.FromFallback || book.Len() == 0 {
		t.Fatalf("expected non-empty fallback book, got len=%d fallback=%v", book.Len(), book.FromFallback)
	}
}
