package service

import (
	"context"

	"github.com/avolkov/tapedeck/internal/errs"
	"github.com/avolkov/tapedeck/internal/model"
	"github.com/avolkov/tapedeck/internal/repository"
)

// CatalogService defines read access to the music catalog and the like toggle.
type CatalogService interface {
	// Search returns scored catalog matches for the query.
	Search(ctx context.Context, userID int64, query, filter string) ([]model.ScoredTrack, error)
	// GetTrack loads a single track by hash.
	GetTrack(ctx context.Context, userID int64, hash string) (*model.Track, error)
	// GetAlbum loads an album with its ordered track list.
	GetAlbum(ctx context.Context, userID, albumID int64) (*model.Album, error)
	// ToggleLike likes an unliked track and unlikes a liked one.
	ToggleLike(ctx context.Context, userID int64, hash string) (bool, error)
}

// Search filters. The filter is accepted and validated but does not yet
// change the query predicate; it is reserved for album-only search.
const (
	FilterSong  = "song"
	FilterAlbum = "album"
)

type CatalogServiceImpl struct {
	catalog repository.CatalogRepository
	likes   repository.LikeRepository
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(catalog repository.CatalogRepository, likes repository.LikeRepository) *CatalogServiceImpl {
	return &CatalogServiceImpl{catalog: catalog, likes: likes}
}

// Search validates input and delegates scoring to the store.
func (s *CatalogServiceImpl) Search(ctx context.Context, userID int64, query, filter string) ([]model.ScoredTrack, error) {
	if query == "" {
		return nil, errs.ErrValidation
	}
	switch filter {
	case "", FilterSong, FilterAlbum:
	default:
		return nil, errs.ErrValidation
	}
	return s.catalog.Search(ctx, userID, query)
}

// GetTrack loads a single track by hash.
func (s *CatalogServiceImpl) GetTrack(ctx context.Context, userID int64, hash string) (*model.Track, error) {
	if hash == "" {
		return nil, errs.ErrNotFound
	}
	return s.catalog.GetTrack(ctx, userID, hash)
}

// GetAlbum loads an album with songs ordered by track number.
func (s *CatalogServiceImpl) GetAlbum(ctx context.Context, userID, albumID int64) (*model.Album, error) {
	return s.catalog.GetAlbum(ctx, userID, albumID)
}

// ToggleLike checks the current like state and inverts it. The two
// steps are separate statements; the primary key on the relation is the
// backstop if an identical request interleaves between them.
func (s *CatalogServiceImpl) ToggleLike(ctx context.Context, userID int64, hash string) (bool, error) {
	liked, err := s.likes.IsLiked(ctx, userID, hash)
	if err != nil {
		return false, err
	}
	if liked {
		return s.likes.Unlike(ctx, userID, hash)
	}
	return s.likes.Like(ctx, userID, hash)
}
