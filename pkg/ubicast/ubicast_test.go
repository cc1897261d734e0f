package ubicast

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-test/deep"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/medias/get/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "k1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		oid := r.URL.Query().Get("oid")
		slug := r.URL.Query().Get("slug")
		switch {
		case oid == "abc123" || slug == "lecture-1":
			w.Write([]byte(`{"success": true, "info": {"oid": "abc123", "title": "Lecture 1", "slug": "lecture-1", "duration": "00:42:17", "type": "v"}}`))
		case oid == "empty1":
			w.Write([]byte(`{"success": true, "info": {"oid": "empty1", "title": "Silent"}}`))
		default:
			w.Write([]byte(`{"success": false, "error": "media not found"}`))
		}
	})
	mux.HandleFunc("/api/v2/medias/modes/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "k1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("html5") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.URL.Query().Get("oid") {
		case "abc123":
			w.Write([]byte(`{
				"success": true,
				"names": ["360p", "720p", "audio"],
				"360p": {"resource": {"url": "https://cdn.example.org/abc123/360p.mp4", "format": "mp4", "width": 640, "height": 360}},
				"720p": {"resource": {"url": "https://cdn.example.org/abc123/720p.mp4", "format": "mp4", "width": 1280, "height": 720}},
				"audio": {"tracks": [{"url": "https://cdn.example.org/abc123/audio.mp3", "language": "eng", "title": "Original"}]}
			}`))
		case "empty1":
			w.Write([]byte(`{"success": true, "names": []}`))
		default:
			w.Write([]byte(`{"success": false, "error": "media not found"}`))
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestResolve(t *testing.T) {
	srv := newTestServer(t)
	cli := New(srv.URL, "k1")
	got, err := cli.Resolve(context.Background(), srv.URL+"/videos/lecture-1/")
	if err != nil {
		t.Fatal("error resolving video link", err)
	}
	want := &Media{
		OID:      "abc123",
		Title:    "Lecture 1",
		Duration: "00:42:17",
		Tracks: []Track{
			{Name: "360p", URL: "https://cdn.example.org/abc123/360p.mp4", Format: "mp4", Width: 640, Height: 360},
			{Name: "720p", URL: "https://cdn.example.org/abc123/720p.mp4", Format: "mp4", Width: 1280, Height: 720},
		},
		AudioTracks: []AudioTrack{
			{URL: "https://cdn.example.org/abc123/audio.mp3", Language: "eng", Title: "Original"},
		},
	}
	if diff := deep.Equal(got, want); diff != nil {
		t.Error(diff)
	}
	// A bare oid must land on the same object.
	again, err := cli.Resolve(context.Background(), "abc123")
	if err != nil {
		t.Fatal("error resolving bare oid", err)
	}
	if again.OID != got.OID {
		t.Errorf("resolved oid %q, want %q", again.OID, got.OID)
	}
}

func TestResolveUnknownLink(t *testing.T) {
	srv := newTestServer(t)
	cli := New(srv.URL, "k1")
	_, err := cli.Resolve(context.Background(), "doesnotexist")
	if err == nil {
		t.Fatal("expected an error for an unknown link")
	}
	var resolution ResolutionError
	if !errors.As(err, &resolution) {
		t.Fatalf("error = %T, want ResolutionError", err)
	}
	if resolution.Link != "doesnotexist" {
		t.Errorf("error names link %q, want %q", resolution.Link, "doesnotexist")
	}
}

func TestResolveBadCredentials(t *testing.T) {
	srv := newTestServer(t)
	cli := New(srv.URL, "wrong")
	_, err := cli.Resolve(context.Background(), "abc123")
	if err == nil {
		t.Fatal("expected an error for rejected credentials")
	}
	var auth AuthError
	if !errors.As(err, &auth) {
		t.Fatalf("error = %T, want AuthError", err)
	}
	if auth.StatusCode != http.StatusUnauthorized {
		t.Errorf("AuthError status = %d, want %d", auth.StatusCode, http.StatusUnauthorized)
	}
}

func TestResolveNoPlayableTracks(t *testing.T) {
	srv := newTestServer(t)
	cli := New(srv.URL, "k1")
	_, err := cli.Resolve(context.Background(), "empty1")
	if err == nil {
		t.Fatal("expected an error for a media without tracks")
	}
	var resolution ResolutionError
	if !errors.As(err, &resolution) {
		t.Fatalf("error = %T, want ResolutionError", err)
	}
}

func TestResolveUnreachableServer(t *testing.T) {
	srv := newTestServer(t)
	srv.Close()
	cli := New(srv.URL, "k1")
	_, err := cli.Resolve(context.Background(), "abc123")
	if err == nil {
		t.Fatal("expected an error for an unreachable server")
	}
	var resolution ResolutionError
	if !errors.As(err, &resolution) {
		t.Fatalf("error = %T, want ResolutionError", err)
	}
}
