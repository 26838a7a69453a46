package repository

import (
	"context"

	"github.com/avolkov/tapedeck/internal/model"
)

// CatalogRepository provides read-only queries over tracks and albums.
// Every row is annotated with the liked flag for the given user.
type CatalogRepository interface {
	// Search returns up to 15 tracks matching the query, scored and
	// ordered by (relevance desc, artist, title).
	Search(ctx context.Context, userID int64, query string) ([]model.ScoredTrack, error)
	// GetTrack loads a single track by hash; errs.ErrNotFound if absent.
	GetTrack(ctx context.Context, userID int64, hash string) (*model.Track, error)
	// GetAlbum loads an album with songs ordered by track number.
	// An album with no songs does not exist: errs.ErrNotFound.
	GetAlbum(ctx context.Context, userID, albumID int64) (*model.Album, error)
}

// LikeRepository maintains the user-likes-track relation.
type LikeRepository interface {
	// IsLiked reports whether the pair exists.
	IsLiked(ctx context.Context, userID int64, hash string) (bool, error)
	// Like inserts the pair; reports whether a new row was created.
	// A duplicate like is a no-op, backed by the primary key.
	Like(ctx context.Context, userID int64, hash string) (bool, error)
	// Unlike deletes the pair; reports whether a row was deleted.
	Unlike(ctx context.Context, userID int64, hash string) (bool, error)
	// LikedTracks returns the user's liked tracks ordered by like time.
	LikedTracks(ctx context.Context, userID int64) ([]model.Track, error)
}
