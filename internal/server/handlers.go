package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ziadkadry99/texotip/internal/dictionary"
	"github.com/ziadkadry99/texotip/internal/engine"
)

// maxAnnotateBody bounds the markup accepted by /api/annotate.
const maxAnnotateBody = 4 << 20

type annotateRequest struct {
	Markup string `json:"markup"`
}

type annotateResponse struct {
	Markup   string             `json:"markup"`
	Elements []annotatedElement `json:"elements"`
	Shielded int                `json:"shielded"`
	Skipped  bool               `json:"skipped,omitempty"`
}

type annotatedElement struct {
	ID      string `json:"id"`
	Entry   int    `json:"entry"`
	Text    string `json:"text"`
	Content string `json:"content"`
	URL     string `json:"url,omitempty"`
}

type lintWarning struct {
	Kind    string `json:"kind"`
	Index   int    `json:"index"`
	Other   int    `json:"other"`
	Message string `json:"message"`
}

func (s *Server) handleDictionary(w http.ResponseWriter, r *http.Request) {
	entries, err := s.annotator.Dictionary(r.Context())
	if err != nil {
		s.dictionaryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ref":     s.annotator.DictionaryRef(),
		"entries": entries,
	})
}

func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	entries, err := s.annotator.Dictionary(r.Context())
	if err != nil {
		s.dictionaryError(w, err)
		return
	}
	warnings := make([]lintWarning, 0)
	for _, lw := range dictionary.Lint(entries) {
		warnings = append(warnings, lintWarning{Kind: string(lw.Kind), Index: lw.Index, Other: lw.Other, Message: lw.Message})
	}
	writeJSON(w, http.StatusOK, map[string]any{"warnings": warnings})
}

func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	var req annotateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAnnotateBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.annotator.Annotate(r.Context(), req.Markup)
	if err != nil {
		var entryErr *dictionary.EntryError
		switch {
		case errors.As(err, &entryErr):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, engine.ErrContainerNotFound):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	resp := annotateResponse{
		Markup:   res.Markup,
		Elements: make([]annotatedElement, 0, len(res.Elements)),
		Shielded: res.Shielded,
		Skipped:  res.Skipped,
	}
	for _, el := range res.Elements {
		resp.Elements = append(resp.Elements, annotatedElement{
			ID: el.ID, Entry: el.Entry, Text: el.Text, Content: el.Content, URL: el.URL,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) dictionaryError(w http.ResponseWriter, err error) {
	var fetchErr *dictionary.FetchError
	if errors.As(err, &fetchErr) {
		s.logger.Error("Dictionary fetch failed", "ref", fetchErr.Ref, "status", fetchErr.Status, "body", fetchErr.Body)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":  err.Error(),
			"status": fetchErr.Status,
			"body":   fetchErr.Body,
		})
		return
	}
	var entryErr *dictionary.EntryError
	if errors.As(err, &entryErr) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.logger.Error("Dictionary unavailable", "error", err)
	writeError(w, http.StatusBadGateway, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
