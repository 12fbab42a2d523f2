package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("q") == "" {
			t.Fatalf("missing q parameter")
		}
		if r.Header.Get("User-Agent") == "" {
			t.Fatalf("missing user agent")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat": "49.2827", "lon": "-123.1207"}]`))
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	c.baseURL = srv.URL

	lat, lng, ok := c.Geocode(context.Background(), "123 Main St, Vancouver, BC")
	if !ok {
		t.Fatalf("expected lookup to succeed")
	}
	if lat != 49.2827 || lng != -123.1207 {
		t.Fatalf("unexpected coordinates (%v, %v)", lat, lng)
	}
}

func TestGeocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	c.baseURL = srv.URL

	if _, _, ok := c.Geocode(context.Background(), "nowhere"); ok {
		t.Fatalf("expected not-found for empty result set")
	}
}

func TestGeocode_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	c.baseURL = srv.URL

	if _, _, ok := c.Geocode(context.Background(), "anywhere"); ok {
		t.Fatalf("expected not-found on server error")
	}
}

func TestGeocode_Unreachable(t *testing.T) {
	c := NewClient(100 * time.Millisecond)
	c.baseURL = "http://127.0.0.1:1"

	if _, _, ok := c.Geocode(context.Background(), "anywhere"); ok {
		t.Fatalf("expected not-found when the service is unreachable")
	}
}
