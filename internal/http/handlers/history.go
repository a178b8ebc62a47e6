package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"thumbforge/internal/history"
)

type loadRequest struct {
	Index int `json:"index"`
}

// HistoryList returns the full timeline with the cursor position.
func (a *App) HistoryList(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.historyState(true))
}

// HistoryUndo steps the cursor back. Stepping past the first artifact is a
// no-op, not an error.
func (a *App) HistoryUndo(w http.ResponseWriter, r *http.Request) {
	a.History.Undo()
	a.json(w, http.StatusOK, a.historyState(false))
}

// HistoryRedo steps the cursor forward, a no-op at the head.
func (a *App) HistoryRedo(w http.ResponseWriter, r *http.Request) {
	a.History.Redo()
	a.json(w, http.StatusOK, a.historyState(false))
}

// HistoryLoad jumps the cursor to an arbitrary timeline index.
func (a *App) HistoryLoad(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.History.LoadAt(req.Index); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "no artifact at that index")
		return
	}
	a.json(w, http.StatusOK, a.historyState(false))
}

// HistoryDelete removes a single artifact from the timeline.
func (a *App) HistoryDelete(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "index must be an integer")
		return
	}
	if err := a.History.DeleteAt(index); errors.Is(err, history.ErrIndexOutOfRange) {
		a.error(w, http.StatusNotFound, "not_found", "no artifact at that index")
		return
	}
	a.json(w, http.StatusOK, a.historyState(false))
}

// HistoryClear empties the timeline.
func (a *App) HistoryClear(w http.ResponseWriter, r *http.Request) {
	a.History.Clear()
	a.json(w, http.StatusOK, a.historyState(false))
}
