// Package ingest turns user-supplied reference material (file uploads,
// remote video thumbnails) into the base64 data-URI form used internally.
package ingest

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"thumbforge/internal/domain"
)

// MaxStyleReferences caps how many reference images a style-training request
// may carry.
const MaxStyleReferences = 5

var videoIDPattern = regexp.MustCompile(`(?:youtu\.be/|v/|/u/\w/|embed/|watch\?)\??v?=?([^#&?]*)`)

// DecodeUpload converts raw uploaded bytes into a data URI, sniffing the
// content type and rejecting anything that is not an image.
func DecodeUpload(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty upload", domain.ErrUnsupportedImage)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedImage, mime)
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}

// ExtractVideoID pulls the 11-character video identifier out of the usual
// YouTube URL shapes (watch, short link, embed). It returns false for
// anything else.
func ExtractVideoID(url string) (string, bool) {
	matches := videoIDPattern.FindStringSubmatch(url)
	if len(matches) != 2 || len(matches[1]) != 11 {
		return "", false
	}
	return matches[1], true
}
