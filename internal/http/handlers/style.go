package handlers

import (
	"encoding/json"
	"net/http"

	"thumbforge/internal/ingest"
)

type styleTrainRequest struct {
	Sources []string `json:"sources"`
}

type referenceFetchRequest struct {
	URL string `json:"url"`
}

// StyleTrain distills a reusable visual style descriptor from up to five
// reference thumbnails (data URIs or video URLs).
func (a *App) StyleTrain(w http.ResponseWriter, r *http.Request) {
	var req styleTrainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	refs, err := a.References.ResolveReferences(r.Context(), req.Sources)
	if err != nil {
		a.Logger.Warn().Err(err).Int("sources", len(req.Sources)).Msg("handlers: reference resolution failed")
		a.error(w, http.StatusBadGateway, "fetch_failed", "could not resolve reference images")
		return
	}

	style, err := a.Styles.AnalyzeStyle(r.Context(), refs)
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: style analysis failed")
		a.error(w, http.StatusBadGateway, "style_analysis_failed", "style analysis failed, try again")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"style": style})
}

// ReferenceFetch resolves a single video URL to its thumbnail as a data URI.
func (a *App) ReferenceFetch(w http.ResponseWriter, r *http.Request) {
	var req referenceFetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	uri, err := a.References.FetchThumbnail(r.Context(), req.URL)
	if err != nil {
		if _, ok := ingest.ExtractVideoID(req.URL); !ok {
			a.error(w, http.StatusUnprocessableEntity, "bad_source", "not a recognizable video url")
			return
		}
		a.error(w, http.StatusBadGateway, "fetch_failed", "could not fetch the thumbnail")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"data_uri": uri})
}
