package genai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"thumbforge/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Options{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
}

func TestEnhanceConceptReturnsModelText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"MAIN SUBJECT: a shocked streamer"}]}}]}`))
	})

	got := client.EnhanceConcept(context.Background(), "I spent 24h in VR", domain.NicheGaming)
	if got != "MAIN SUBJECT: a shocked streamer" {
		t.Fatalf("EnhanceConcept = %q", got)
	}
}

func TestEnhanceConceptFallsBackOnFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":429,"message":"quota"}}`, http.StatusTooManyRequests)
	})

	got := client.EnhanceConcept(context.Background(), "raw idea text", domain.NicheNone)
	if got != "raw idea text" {
		t.Fatalf("expected raw idea fallback, got %q", got)
	}
}

func TestEnhanceConceptFallsBackOnEmptyResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	if got := client.EnhanceConcept(context.Background(), "raw idea", domain.NicheNone); got != "raw idea" {
		t.Fatalf("expected raw idea fallback, got %q", got)
	}
}

func TestSynthesizeFromTextDecodesPrediction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "imagen-4.0-generate-001:predict") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"predictions":[{"bytesBase64Encoded":"aGVsbG8=","mimeType":"image/png"}]}`))
	})

	got, err := client.SynthesizeFromText(context.Background(), "final prompt", domain.AspectLandscape169)
	if err != nil {
		t.Fatalf("SynthesizeFromText: %v", err)
	}
	if got != "data:image/png;base64,aGVsbG8=" {
		t.Fatalf("unexpected data URI %q", got)
	}
}

func TestSynthesizeFromTextNoImages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"predictions":[]}`))
	})

	_, err := client.SynthesizeFromText(context.Background(), "prompt", domain.AspectSquare)
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
}

func TestSynthesizeFromReferenceNoImagePart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"cannot comply"}]}}]}`))
	})

	_, err := client.SynthesizeFromReference(context.Background(), "prompt", "data:image/jpeg;base64,Zg==", domain.AspectLandscape169)
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
}

func TestEditImageExtractsInlineData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash-image:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"done"},{"inlineData":{"data":"ZWRpdGVk","mimeType":"image/png"}}]}}]}`))
	})

	got, err := client.EditImage(context.Background(), "data:image/png;base64,c3Jj", "add a hat", "")
	if err != nil {
		t.Fatalf("EditImage: %v", err)
	}
	if got != "data:image/png;base64,ZWRpdGVk" {
		t.Fatalf("unexpected data URI %q", got)
	}
}

func TestAnalyzeStyleFailureIsSurfaced(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.AnalyzeStyle(context.Background(), []string{"data:image/jpeg;base64,Zg=="})
	if !errors.Is(err, domain.ErrStyleAnalysisFailed) {
		t.Fatalf("err = %v, want ErrStyleAnalysisFailed", err)
	}
}

func TestAnalyzeStyleEmptyResponseDegrades(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`))
	})

	got, err := client.AnalyzeStyle(context.Background(), []string{"data:image/jpeg;base64,Zg=="})
	if err != nil {
		t.Fatalf("AnalyzeStyle: %v", err)
	}
	if got != FallbackStyleDescriptor {
		t.Fatalf("got %q, want fallback descriptor", got)
	}
}

func TestSyntheticModeWithoutAPIKey(t *testing.T) {
	client := NewClient(Options{})

	uri, err := client.SynthesizeFromText(context.Background(), "any prompt", domain.AspectLandscape169)
	if err != nil {
		t.Fatalf("SynthesizeFromText: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("synthetic asset is not a PNG data URI: %.40s", uri)
	}

	again, _ := client.SynthesizeFromText(context.Background(), "any prompt", domain.AspectLandscape169)
	if uri != again {
		t.Fatalf("synthetic assets are not deterministic")
	}
}

func TestParseDataURI(t *testing.T) {
	tests := []struct {
		in       string
		fallback string
		wantData string
		wantMime string
	}{
		{"data:image/jpeg;base64,Zm9v", "image/png", "Zm9v", "image/jpeg"},
		{"data:image/webp;base64,YmFy", "image/png", "YmFy", "image/webp"},
		{"cGxhaW4=", "image/png", "cGxhaW4=", "image/png"},
	}
	for _, tt := range tests {
		data, mime := parseDataURI(tt.in, tt.fallback)
		if data != tt.wantData || mime != tt.wantMime {
			t.Errorf("parseDataURI(%q) = (%q, %q), want (%q, %q)", tt.in, data, mime, tt.wantData, tt.wantMime)
		}
	}
}
