package repository

import (
	"context"

	"github.com/avolkov/tapedeck/internal/model"
)

// PlaylistRepository provides playlist storage and the ownership /
// collaboration predicates that back all authorization decisions.
type PlaylistRepository interface {
	// IsOwner reports whether a playlist row exists with this owner.
	IsOwner(ctx context.Context, playlistID, userID int64) (bool, error)
	// IsCollaborator reports whether the user has a collaborator row.
	IsCollaborator(ctx context.Context, playlistID, userID int64) (bool, error)

	// ListForUser returns playlists owned by or shared with the user.
	ListForUser(ctx context.Context, userID int64) ([]model.PlaylistInfo, error)
	// GetAccessible loads the playlist header if the user is owner or
	// collaborator; errs.ErrNotFound otherwise (fail closed).
	GetAccessible(ctx context.Context, playlistID, userID int64) (*model.PlaylistInfo, error)
	// Tracks returns playlist tracks ordered by membership creation time,
	// liked-annotated for the given user.
	Tracks(ctx context.Context, playlistID, userID int64) ([]model.Track, error)

	// Create inserts a playlist and enrolls the owner as a collaborator
	// in the same transaction.
	Create(ctx context.Context, ownerID int64, name string) (bool, error)
	// Delete removes a playlist owned by ownerID; false if not owner.
	Delete(ctx context.Context, playlistID, ownerID int64) (bool, error)
	// Rename changes the playlist name; reports whether a row changed.
	Rename(ctx context.Context, playlistID int64, name string) (bool, error)

	// AddTrack inserts a membership row; duplicate adds are no-ops.
	AddTrack(ctx context.Context, playlistID int64, hash string) (bool, error)
	// RemoveTrack deletes a membership row; reports whether one existed.
	RemoveTrack(ctx context.Context, playlistID int64, hash string) (bool, error)

	// Collaborators lists users with shared access to the playlist.
	Collaborators(ctx context.Context, playlistID int64) ([]model.Collaborator, error)
	// Invite resolves username to a user id and inserts a collaborator
	// row. Unknown usernames affect zero rows and report false.
	Invite(ctx context.Context, playlistID int64, username string) (bool, error)
	// RemoveCollaborator deletes a collaborator row.
	RemoveCollaborator(ctx context.Context, playlistID, userID int64) (bool, error)
}
