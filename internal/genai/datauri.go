package genai

import (
	"regexp"
	"strings"
)

var dataURIPrefix = regexp.MustCompile(`^data:([^;,]+);base64,`)

// parseDataURI splits a data URI into its base64 payload and mime type. Bare
// base64 strings pass through with the fallback mime so upstream callers can
// hand over either form.
func parseDataURI(uri, fallbackMime string) (data, mime string) {
	uri = strings.TrimSpace(uri)
	mime = fallbackMime
	if matches := dataURIPrefix.FindStringSubmatch(uri); len(matches) == 2 {
		mime = matches[1]
	}
	if idx := strings.IndexByte(uri, ','); idx >= 0 {
		return uri[idx+1:], mime
	}
	return uri, mime
}

// pngDataURI wraps a base64 payload as the PNG data URI used for every
// artifact payload in this service.
func pngDataURI(base64Data string) string {
	return "data:image/png;base64," + base64Data
}
