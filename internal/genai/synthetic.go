package genai

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"thumbforge/internal/composer"
	"thumbforge/internal/domain"
)

// Synthetic assets keep the pipeline operational without an API key. They are
// deterministic in the prompt so repeated runs produce stable payloads.

func (c *Client) syntheticConcept(rawIdea string, niche domain.Niche) string {
	title := cases.Title(language.English).String(strings.TrimSpace(rawIdea))
	preset := composer.Preset(niche)
	return fmt.Sprintf(
		"MAIN SUBJECT: %s.\nBACKGROUND: dramatic depth, blurred environment.\nLIGHTING: cinematic rim light.\nEMOTION: %s niche hook.\nSTYLE: hyper-realistic, 8K, sharp.",
		title, preset.Label,
	)
}

func (c *Client) syntheticImage(prompt string, ratio domain.AspectRatio) string {
	seed := deterministicSeed(prompt, string(ratio))
	width, height := ratioDimensions(ratio)
	encoded := base64.StdEncoding.EncodeToString(renderSyntheticImage(width, height, seed))

	c.logger.Debug().
		Str("seed", seed).
		Str("aspect_ratio", string(ratio)).
		Msg("genai: generated synthetic image asset")

	return pngDataURI(encoded)
}

func ratioDimensions(ratio domain.AspectRatio) (int, int) {
	switch ratio {
	case domain.AspectLandscape169:
		return 640, 360
	case domain.AspectPortrait916:
		return 360, 640
	case domain.AspectLandscape43:
		return 640, 480
	case domain.AspectPortrait34:
		return 480, 640
	default:
		return 512, 512
	}
}

func renderSyntheticImage(width, height int, seed string) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	base := colorFromSeed(seed, 0)
	accent := colorFromSeed(seed, 1)
	draw.Draw(img, img.Bounds(), &image.Uniform{base}, image.Point{}, draw.Src)

	stripeHeight := height / 12
	if stripeHeight < 16 {
		stripeHeight = 16
	}
	for y := 0; y < height; y += stripeHeight * 2 {
		bottom := y + stripeHeight
		if bottom > height {
			bottom = height
		}
		stripe := image.Rect(0, y, width, bottom)
		draw.Draw(img, stripe, &image.Uniform{accent}, image.Point{}, draw.Over)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

func colorFromSeed(seed string, shift int) color.RGBA {
	if len(seed) < 6 {
		seed = "0ea5e9aa22cc"
	}
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	return color.RGBA{
		R: parseHexByte(segment[0:2]),
		G: parseHexByte(segment[2:4]),
		B: parseHexByte(segment[4:6]),
		A: 255,
	}
}

func parseHexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

func deterministicSeed(parts ...string) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(part))
		hasher.Write([]byte{'|'})
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}
