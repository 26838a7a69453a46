// Package httpapi exposes the tapedeck REST API handlers.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/avolkov/tapedeck/internal/pictures"
	"github.com/avolkov/tapedeck/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth      service.AuthService
	catalog   service.CatalogService
	playlists service.PlaylistService
	pics      *pictures.Store
	signKey   []byte
	log       *zap.Logger
}

// New constructs a Server with injected services.
func New(auth service.AuthService, catalog service.CatalogService, playlists service.PlaylistService,
	pics *pictures.Store, signKey []byte, log *zap.Logger) *Server {
	return &Server{auth: auth, catalog: catalog, playlists: playlists, pics: pics, signKey: signKey, log: log}
}

// Routes builds the router. Registration and login are open; everything
// else requires a bearer token.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Recover(s.log))
	r.Use(Logging(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	auth := Auth(s.signKey)

	r.Route("/user", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/check-token", s.handleCheckToken)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Put("/", s.handleUpdateUser)
			r.Post("/picture", s.handleUpdatePicture)
			r.Delete("/", s.handleDeleteUser)
		})
	})

	r.Route("/music", func(r chi.Router) {
		r.Use(auth)
		r.Post("/search", s.handleSearch)
		r.Get("/album/{id}", s.handleGetAlbum)
		r.Post("/like/{hash}", s.handleToggleLike)
		r.Get("/{hash}", s.handleGetTrack)
	})

	r.Route("/playlist", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", s.handleListPlaylists)
		r.Post("/", s.handleCreatePlaylist)
		r.Get("/collabration/{playlistId}/users", s.handleListCollaborators)
		r.Post("/collabration/{playlistId}/invite", s.handleInviteCollaborator)
		r.Post("/collabration/{playlistId}/remove", s.handleRemoveCollaborator)
		r.Patch("/add/{id}", s.handleAddTrack)
		r.Patch("/remove/{id}", s.handleRemoveTrack)
		r.Get("/{id}", s.handleGetPlaylist)
		r.Put("/{id}", s.handleRenamePlaylist)
		r.Delete("/{id}", s.handleDeletePlaylist)
	})

	return r
}
