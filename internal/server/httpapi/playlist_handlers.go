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

// handleListPlaylists returns the liked view followed by the caller's playlists.
func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	list, err := s.playlists.List(r.Context(), p.ID)
	if err != nil {
		s.log.Error("list playlists", zap.Error(err))
		writeCode(w, codeUnknownError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleGetPlaylist returns a playlist with its ordered tracks.
func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	ref, ok := model.ParseRef(chi.URLParam(r, "id"))
	if !ok {
		writeCode(w, codePlaylistNotFound)
		return
	}
	pl, err := s.playlists.Get(r.Context(), p.ID, ref)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeCode(w, codePlaylistNotFound)
	case err != nil:
		s.log.Error("get playlist", zap.Error(err))
		writeCode(w, codeUnknownError)
	default:
		if pl.Music == nil {
			pl.Music = []model.Track{}
		}
		writeJSON(w, http.StatusOK, pl)
	}
}

// handleCreatePlaylist creates a playlist owned by the caller.
func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, codeUnknownError)
		return
	}
	created, err := s.playlists.Create(r.Context(), p.ID, req.Name)
	if err != nil {
		s.log.Error("create playlist", zap.Error(err))
		writeCode(w, codeUnknownError)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// handleDeletePlaylist deletes an owned playlist; non-owners get false.
func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	ref, ok := model.ParseRef(chi.URLParam(r, "id"))
	if !ok {
		writeCode(w, codePlaylistNotFound)
		return
	}
	deleted, err := s.playlists.Delete(r.Context(), p.ID, ref)
	if err != nil {
		s.log.Error("delete playlist", zap.Error(err))
		writeCode(w, codeUnknownError)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

// handleRenamePlaylist renames an owned playlist; non-owners get false.
func (s *Server) handleRenamePlaylist(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	ref, ok := model.ParseRef(chi.URLParam(r, "id"))
	if !ok {
		writeCode(w, codePlaylistNotFound)
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, codeUnknownError)
		return
	}
	renamed, err := s.playlists.Rename(r.Context(), p.ID, ref, req.Name)
	if err != nil {
		s.log.Error("rename playlist", zap.Error(err))
		writeCode(w, codeUnknownError)
		return
	}
	writeJSON(w, http.StatusOK, renamed)
}

// handleAddTrack adds a track to a playlist. Duplicate adds succeed.
func (s *Server) handleAddTrack(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	ref, ok := model.ParseRef(chi.URLParam(r, "id"))
	if !ok {
		writeCode(w, codePlaylistNotFound)
		return
	}
	var req struct {
		Hash string `json:"hash"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, codeUnknownError)
		return
	}
	err := s.playlists.AddTrack(r.Context(), p.ID, ref, req.Hash)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeCode(w, codePlaylistNotFound)
	case err != nil:
		s.log.Error("add track", zap.Error(err))
		writeCode(w, codeUnknownError)
	default:
		writeJSON(w, http.StatusOK, true)
	}
}

// handleRemoveTrack removes a track from a playlist.
func (s *Server) handleRemoveTrack(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	ref, ok := model.ParseRef(chi.URLParam(r, "id"))
	if !ok {
		writeCode(w, codePlaylistNotFound)
		return
	}
	var req struct {
		Hash string `json:"hash"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, codeUnknownError)
		return
	}
	removed, err := s.playlists.RemoveTrack(r.Context(), p.ID, ref, req.Hash)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeCode(w, codePlaylistNotFound)
	case err != nil:
		s.log.Error("remove track", zap.Error(err))
		writeCode(w, codeUnknownError)
	default:
		writeJSON(w, http.StatusOK, removed)
	}
}

// playlistIDParam parses a numeric playlist id path parameter.
// Unparsable ids behave like a playlist that does not exist.
func playlistIDParam(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// handleListCollaborators lists collaborators of an owned playlist.
func (s *Server) handleListCollaborators(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	users, err := s.playlists.Collaborators(r.Context(), p.ID, playlistIDParam(r, "playlistId"))
	switch {
	case errors.Is(err, errs.ErrAccessDenied):
		writeCode(w, codeAccessDenied)
	case err != nil:
		s.log.Error("list collaborators", zap.Error(err))
		writeCode(w, codeUnknownError)
	default:
		if users == nil {
			users = []model.Collaborator{}
		}
		writeJSON(w, http.StatusOK, users)
	}
}

// handleInviteCollaborator invites a user by username to an owned playlist.
func (s *Server) handleInviteCollaborator(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	var req struct {
		Username string `json:"username"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, codeUnknownError)
		return
	}
	invited, err := s.playlists.Invite(r.Context(), p.ID, playlistIDParam(r, "playlistId"), req.Username)
	switch {
	case errors.Is(err, errs.ErrAccessDenied):
		writeCode(w, codeAccessDenied)
	case err != nil:
		s.log.Error("invite collaborator", zap.Error(err))
		writeCode(w, codeUnknownError)
	default:
		writeJSON(w, http.StatusOK, invited)
	}
}

// handleRemoveCollaborator removes a collaborator from an owned playlist.
func (s *Server) handleRemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	var req struct {
		UserID int64 `json:"userId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, codeUnknownError)
		return
	}
	removed, err := s.playlists.RemoveCollaborator(r.Context(), p.ID, playlistIDParam(r, "playlistId"), req.UserID)
	switch {
	case errors.Is(err, errs.ErrAccessDenied):
		writeCode(w, codeAccessDenied)
	case err != nil:
		s.log.Error("remove collaborator", zap.Error(err))
		writeCode(w, codeUnknownError)
	default:
		writeJSON(w, http.StatusOK, removed)
	}
}
