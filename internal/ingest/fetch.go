package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"thumbforge/internal/domain"
	"thumbforge/internal/infra"
)

const (
	thumbnailCacheTTL = 15 * time.Minute
	maxThumbnailBytes = 8 << 20
)

// proxyChain lists the fallback endpoints tried, in order, after a direct
// fetch fails. The thumbnail host throttles unfamiliar clients, so the chain
// mirrors what the browser frontend used.
var proxyChain = []func(string) string{
	func(u string) string { return "https://corsproxy.io/?" + url.QueryEscape(u) },
	func(u string) string { return "https://api.allorigins.win/raw?url=" + url.QueryEscape(u) },
}

// Fetcher resolves remote thumbnails into data URIs, caching results per
// video so repeated style-training imports skip the network.
type Fetcher struct {
	httpClient *http.Client
	cache      *cache.Cache
	logger     *infra.Logger
}

// NewFetcher builds a Fetcher. A nil HTTP client gets one with a short
// timeout; thumbnail fetches should fail fast so the fallback chain stays
// responsive.
func NewFetcher(httpClient *http.Client, logger *infra.Logger) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		discard := infra.Logger(zerolog.New(io.Discard))
		logger = &discard
	}
	return &Fetcher{
		httpClient: httpClient,
		cache:      cache.New(thumbnailCacheTTL, 2*thumbnailCacheTTL),
		logger:     logger,
	}
}

// FetchThumbnail resolves a YouTube video URL to its highest-resolution
// thumbnail as a data URI, walking the proxy fallback chain on failure.
func (f *Fetcher) FetchThumbnail(ctx context.Context, videoURL string) (string, error) {
	videoID, ok := ExtractVideoID(videoURL)
	if !ok {
		return "", fmt.Errorf("%w: not a recognizable video url", domain.ErrFetchFailed)
	}
	if cached, found := f.cache.Get(videoID); found {
		return cached.(string), nil
	}

	target := fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID)
	attempts := make([]string, 0, len(proxyChain)+1)
	attempts = append(attempts, target)
	for _, proxy := range proxyChain {
		attempts = append(attempts, proxy(target))
	}

	data, err := f.fetchFirst(ctx, attempts)
	if err != nil {
		return "", err
	}
	uri, err := DecodeUpload(data)
	if err != nil {
		return "", fmt.Errorf("%w: thumbnail is not an image", domain.ErrFetchFailed)
	}

	f.cache.SetDefault(videoID, uri)
	return uri, nil
}

// fetchFirst tries each source in order and returns the first successful
// body. Only when every attempt fails does it return an aggregate
// ErrFetchFailed.
func (f *Fetcher) fetchFirst(ctx context.Context, sources []string) ([]byte, error) {
	var errs []error
	for _, source := range sources {
		data, err := f.fetchOne(ctx, source)
		if err == nil {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		f.logger.Debug().Err(err).Str("source", source).Msg("ingest: fetch attempt failed, trying next")
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, errors.Join(errs...))
}

func (f *Fetcher) fetchOne(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxThumbnailBytes))
}

// ResolveReferences converts a mixed list of data URIs and video URLs into
// data URIs, fetching remote sources concurrently. Order is preserved.
func (f *Fetcher) ResolveReferences(ctx context.Context, sources []string) ([]string, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no reference sources", domain.ErrFetchFailed)
	}
	if len(sources) > MaxStyleReferences {
		return nil, fmt.Errorf("%w: at most %d reference images", domain.ErrFetchFailed, MaxStyleReferences)
	}

	resolved := make([]string, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			if strings.HasPrefix(source, "data:") {
				resolved[i] = source
				return nil
			}
			uri, err := f.FetchThumbnail(ctx, source)
			if err != nil {
				return err
			}
			resolved[i] = uri
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}
