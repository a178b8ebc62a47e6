package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"thumbforge/internal/domain"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestDecodeUpload(t *testing.T) {
	uri, err := DecodeUpload(pngHeader)
	if err != nil {
		t.Fatalf("DecodeUpload: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("unexpected data URI prefix: %.40s", uri)
	}
}

func TestDecodeUploadRejectsNonImage(t *testing.T) {
	_, err := DecodeUpload([]byte("just some text, definitely not pixels"))
	if !errors.Is(err, domain.ErrUnsupportedImage) {
		t.Fatalf("err = %v, want ErrUnsupportedImage", err)
	}

	_, err = DecodeUpload(nil)
	if !errors.Is(err, domain.ErrUnsupportedImage) {
		t.Fatalf("empty upload err = %v, want ErrUnsupportedImage", err)
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url    string
		wantID string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"https://example.com/video/123", "", false},
		{"not a url at all", "", false},
		{"https://www.youtube.com/watch?v=short", "", false},
	}
	for _, tt := range tests {
		id, ok := ExtractVideoID(tt.url)
		if id != tt.wantID || ok != tt.wantOK {
			t.Errorf("ExtractVideoID(%q) = (%q, %v), want (%q, %v)", tt.url, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestFetchFirstReturnsFirstSuccess(t *testing.T) {
	var hits [3]int32
	servers := make([]*httptest.Server, 3)
	for i := range servers {
		i := i
		servers[i] = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits[i], 1)
			switch i {
			case 0:
				http.Error(w, "down", http.StatusBadGateway)
			default:
				w.Write(pngHeader)
			}
		}))
		defer servers[i].Close()
	}

	f := NewFetcher(http.DefaultClient, nil)
	data, err := f.fetchFirst(context.Background(), []string{servers[0].URL, servers[1].URL, servers[2].URL})
	if err != nil {
		t.Fatalf("fetchFirst: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("empty body from fallback")
	}
	if hits[0] != 1 || hits[1] != 1 || hits[2] != 0 {
		t.Fatalf("hit pattern = %v, want first failure then first success only", hits)
	}
}

func TestFetchFirstAggregatesWhenAllFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	f := NewFetcher(http.DefaultClient, nil)
	_, err := f.fetchFirst(context.Background(), []string{server.URL + "/a", server.URL + "/b"})
	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("err = %v, want ErrFetchFailed", err)
	}
}

func TestResolveReferencesPassesThroughDataURIs(t *testing.T) {
	f := NewFetcher(http.DefaultClient, nil)
	sources := []string{
		"data:image/png;base64,YQ==",
		"data:image/jpeg;base64,Yg==",
	}
	got, err := f.ResolveReferences(context.Background(), sources)
	if err != nil {
		t.Fatalf("ResolveReferences: %v", err)
	}
	if got[0] != sources[0] || got[1] != sources[1] {
		t.Fatalf("data URIs rewritten: %v", got)
	}
}

func TestResolveReferencesEnforcesLimit(t *testing.T) {
	f := NewFetcher(http.DefaultClient, nil)
	sources := make([]string, MaxStyleReferences+1)
	for i := range sources {
		sources[i] = "data:image/png;base64,YQ=="
	}
	if _, err := f.ResolveReferences(context.Background(), sources); !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("err = %v, want ErrFetchFailed", err)
	}
	if _, err := f.ResolveReferences(context.Background(), nil); !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("empty sources err = %v, want ErrFetchFailed", err)
	}
}
