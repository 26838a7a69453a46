package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/avolkov/tapedeck/internal/errs"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleRegister creates a new account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, codeUsernameMissing)
		return
	}
	_, err := s.auth.Register(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, errs.ErrValidation):
		writeCode(w, codeUsernameMissing)
	case errors.Is(err, errs.ErrAlreadyExists):
		writeCode(w, codeUsernameTaken)
	case err != nil:
		s.log.Error("register", zap.Error(err))
		writeCode(w, codeUnknownError)
	default:
		writeJSON(w, http.StatusOK, true)
	}
}

// handleLogin authenticates and returns a bearer token plus the stored
// picture reference.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, codeUserNotFound)
		return
	}
	token, user, err := s.auth.LoginWithIP(r.Context(), req.Username, req.Password, r.RemoteAddr)
	switch {
	case errors.Is(err, errs.ErrRateLimited):
		writeCodeStatus(w, http.StatusTooManyRequests, codeRateLimited)
	case errors.Is(err, errs.ErrUnauthorized), errors.Is(err, errs.ErrNotFound):
		writeCode(w, codeUserNotFound)
	case err != nil:
		s.log.Error("login", zap.Error(err))
		writeCode(w, codeUnknownError)
	default:
		writeJSON(w, http.StatusOK, map[string]string{
			"token":   token,
			"picture": user.Picture,
		})
	}
}

// handleCheckToken reports whether a previously issued token is still valid.
func (s *Server) handleCheckToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeBody(r, &req); err != nil || req.Token == "" {
		writeCode(w, codeInvalidToken)
		return
	}
	_, err := s.auth.CheckToken(req.Token)
	switch {
	case errors.Is(err, errs.ErrTokenExpired):
		writeCode(w, codeTokenExpired)
	case err != nil:
		writeCode(w, codeInvalidToken)
	default:
		writeJSON(w, http.StatusOK, true)
	}
}

// handleUpdateUser changes the caller's username.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "no principal"})
		return
	}
	var req struct {
		Username string `json:"username"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeCode(w, codeUsernameMissing)
		return
	}
	changed, err := s.auth.UpdateUsername(r.Context(), p.ID, req.Username)
	switch {
	case errors.Is(err, errs.ErrValidation):
		writeCode(w, codeUsernameMissing)
	case errors.Is(err, errs.ErrAlreadyExists):
		writeCode(w, codeUsernameTaken)
	case err != nil:
		s.log.Error("update user", zap.Error(err))
		writeCode(w, codeUnknownError)
	default:
		writeJSON(w, http.StatusOK, changed)
	}
}

// handleUpdatePicture accepts a multipart image upload, stores it and
// saves the reference on the account.
func (s *Server) handleUpdatePicture(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "no principal"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeCode(w, codeNoImageSupplied)
		return
	}
	defer file.Close()

	name, err := s.pics.Save(header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			writeCode(w, codeNoImageSupplied)
			return
		}
		s.log.Error("store picture", zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "path": "error"})
		return
	}

	updated, err := s.auth.UpdatePicture(r.Context(), p.ID, name)
	if err != nil || !updated {
		// keep the store consistent with the account row
		_ = s.pics.Remove(name)
		if err != nil {
			s.log.Error("save picture reference", zap.Error(err))
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "path": "error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "path": name})
}

// handleDeleteUser soft-deletes the caller's account.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromCtx(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "no principal"})
		return
	}
	done, err := s.auth.Deactivate(r.Context(), p.ID)
	if err != nil {
		s.log.Error("deactivate", zap.Error(err))
		writeCode(w, codeUnknownError)
		return
	}
	writeJSON(w, http.StatusOK, done)
}
