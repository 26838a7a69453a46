package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/avolkov/tapedeck/internal/errs"
	"github.com/avolkov/tapedeck/internal/model"
)

// handleSearch returns relevance-ranked catalog matches.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	var req struct {
		Query  string `json:"query"`
		Filter string `json:"filter"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, codeUnknownError)
		return
	}
	result, err := s.catalog.Search(r.Context(), p.ID, req.Query, req.Filter)
	if err != nil {
		if !errors.Is(err, errs.ErrValidation) {
			s.log.Error("search", zap.Error(err))
		}
		writeCode(w, codeUnknownError)
		return
	}
	if result == nil {
		result = []model.ScoredTrack{}
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetTrack returns one track by hash.
func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	track, err := s.catalog.GetTrack(r.Context(), p.ID, chi.URLParam(r, "hash"))
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeCode(w, codeNoAvailableMusic)
	case err != nil:
		s.log.Error("get track", zap.Error(err))
		writeCode(w, codeUnknownError)
	default:
		writeJSON(w, http.StatusOK, track)
	}
}

// handleGetAlbum returns album metadata with its ordered track list.
func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeCode(w, codeAlbumNotFound)
		return
	}
	album, err := s.catalog.GetAlbum(r.Context(), p.ID, id)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeCode(w, codeAlbumNotFound)
	case err != nil:
		s.log.Error("get album", zap.Error(err))
		writeCode(w, codeUnknownError)
	default:
		writeJSON(w, http.StatusOK, album)
	}
}

// handleToggleLike inverts the caller's like state for a track.
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	changed, err := s.catalog.ToggleLike(r.Context(), p.ID, chi.URLParam(r, "hash"))
	if err != nil {
		s.log.Error("toggle like", zap.Error(err))
		writeCode(w, codeUnknownError)
		return
	}
	writeJSON(w, http.StatusOK, changed)
}
