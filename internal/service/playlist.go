package service

import (
	"context"

	"github.com/avolkov/tapedeck/internal/errs"
	"github.com/avolkov/tapedeck/internal/model"
	"github.com/avolkov/tapedeck/internal/repository"
)

// CollabWritePolicy decides who may mutate playlist membership
// (add/remove tracks).
type CollabWritePolicy int

const (
	// WriteOwnerAndCollaborator requires both predicates to hold. This
	// matches the historical behavior; owners satisfy it because Create
	// enrolls them as their own collaborator, but a collaborator who is
	// not the owner is locked out. See the playlist service tests.
	WriteOwnerAndCollaborator CollabWritePolicy = iota
	// WriteOwnerOrCollaborator grants membership writes to either role.
	WriteOwnerOrCollaborator
)

// PlaylistService defines playlist CRUD, membership and collaboration
// operations, including the synthetic liked-songs view.
type PlaylistService interface {
	// List returns the liked view followed by the user's playlists.
	List(ctx context.Context, userID int64) ([]model.PlaylistInfo, error)
	// Get resolves a playlist reference and returns its ordered tracks.
	Get(ctx context.Context, userID int64, ref model.PlaylistRef) (*model.Playlist, error)
	// Create inserts a playlist owned by the user.
	Create(ctx context.Context, userID int64, name string) (bool, error)
	// Delete removes an owned playlist; false (no error) when not owner.
	Delete(ctx context.Context, userID int64, ref model.PlaylistRef) (bool, error)
	// Rename changes an owned playlist's name; false when not owner.
	Rename(ctx context.Context, userID int64, ref model.PlaylistRef, name string) (bool, error)
	// AddTrack adds a track subject to the write policy. Duplicate adds
	// succeed as no-ops.
	AddTrack(ctx context.Context, userID int64, ref model.PlaylistRef, hash string) error
	// RemoveTrack removes a track subject to the write policy.
	RemoveTrack(ctx context.Context, userID int64, ref model.PlaylistRef, hash string) (bool, error)
	// Collaborators lists collaborators; owner-only.
	Collaborators(ctx context.Context, userID, playlistID int64) ([]model.Collaborator, error)
	// Invite adds a collaborator by username; owner-only, non-owners get
	// errs.ErrAccessDenied.
	Invite(ctx context.Context, userID, playlistID int64, username string) (bool, error)
	// RemoveCollaborator removes a collaborator; owner-only, and owners
	// cannot remove themselves (reported as false, not an error).
	RemoveCollaborator(ctx context.Context, userID, playlistID, targetID int64) (bool, error)
}

type PlaylistServiceImpl struct {
	playlists repository.PlaylistRepository
	likes     repository.LikeRepository
	policy    CollabWritePolicy
}

// NewPlaylistService constructs PlaylistService with the given
// membership write policy.
func NewPlaylistService(playlists repository.PlaylistRepository, likes repository.LikeRepository, policy CollabWritePolicy) *PlaylistServiceImpl {
	return &PlaylistServiceImpl{playlists: playlists, likes: likes, policy: policy}
}

// List prepends the liked view to the playlists owned by or shared with
// the user.
func (s *PlaylistServiceImpl) List(ctx context.Context, userID int64) ([]model.PlaylistInfo, error) {
	stored, err := s.playlists.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]model.PlaylistInfo, 0, len(stored)+1)
	out = append(out, model.PlaylistInfo{ID: model.LikedPlaylistID, Name: model.LikedPlaylistName})
	return append(out, stored...), nil
}

// Get materializes the liked view from the like relation, or loads a
// stored playlist if the user has read access. Lookups fail closed: a
// playlist the user cannot read is reported as absent.
func (s *PlaylistServiceImpl) Get(ctx context.Context, userID int64, ref model.PlaylistRef) (*model.Playlist, error) {
	if ref.Liked {
		tracks, err := s.likes.LikedTracks(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &model.Playlist{ID: model.LikedPlaylistID, Name: model.LikedPlaylistName, Music: tracks}, nil
	}

	info, err := s.playlists.GetAccessible(ctx, ref.ID, userID)
	if err != nil {
		return nil, err
	}
	tracks, err := s.playlists.Tracks(ctx, ref.ID, userID)
	if err != nil {
		return nil, err
	}
	return &model.Playlist{ID: info.ID, Name: info.Name, Music: tracks}, nil
}

// Create inserts a playlist owned by the user.
func (s *PlaylistServiceImpl) Create(ctx context.Context, userID int64, name string) (bool, error) {
	return s.playlists.Create(ctx, userID, name)
}

// Delete removes the playlist when owned by the caller. The liked view
// cannot be deleted; denial is a boolean, not an error.
func (s *PlaylistServiceImpl) Delete(ctx context.Context, userID int64, ref model.PlaylistRef) (bool, error) {
	if ref.Liked {
		return false, nil
	}
	return s.playlists.Delete(ctx, ref.ID, userID)
}

// Rename changes the name when the caller owns the playlist.
func (s *PlaylistServiceImpl) Rename(ctx context.Context, userID int64, ref model.PlaylistRef, name string) (bool, error) {
	if ref.Liked {
		return false, nil
	}
	owner, err := s.playlists.IsOwner(ctx, ref.ID, userID)
	if err != nil {
		return false, err
	}
	if !owner {
		return false, nil
	}
	return s.playlists.Rename(ctx, ref.ID, name)
}

// canWriteMembership evaluates the membership write policy.
func (s *PlaylistServiceImpl) canWriteMembership(ctx context.Context, playlistID, userID int64) (bool, error) {
	owner, err := s.playlists.IsOwner(ctx, playlistID, userID)
	if err != nil {
		return false, err
	}
	collab, err := s.playlists.IsCollaborator(ctx, playlistID, userID)
	if err != nil {
		return false, err
	}
	if s.policy == WriteOwnerOrCollaborator {
		return owner || collab, nil
	}
	return owner && collab, nil
}

// AddTrack adds a track to a stored playlist. An add that hits an
// existing membership row succeeds without changing anything.
func (s *PlaylistServiceImpl) AddTrack(ctx context.Context, userID int64, ref model.PlaylistRef, hash string) error {
	if ref.Liked {
		return errs.ErrNotFound
	}
	ok, err := s.canWriteMembership(ctx, ref.ID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.ErrNotFound
	}
	_, err = s.playlists.AddTrack(ctx, ref.ID, hash)
	return err
}

// RemoveTrack removes a track from a stored playlist.
func (s *PlaylistServiceImpl) RemoveTrack(ctx context.Context, userID int64, ref model.PlaylistRef, hash string) (bool, error) {
	if ref.Liked {
		return false, errs.ErrNotFound
	}
	ok, err := s.canWriteMembership(ctx, ref.ID, userID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, errs.ErrNotFound
	}
	return s.playlists.RemoveTrack(ctx, ref.ID, hash)
}

// Collaborators lists collaborators of an owned playlist.
func (s *PlaylistServiceImpl) Collaborators(ctx context.Context, userID, playlistID int64) ([]model.Collaborator, error) {
	owner, err := s.playlists.IsOwner(ctx, playlistID, userID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, errs.ErrAccessDenied
	}
	return s.playlists.Collaborators(ctx, playlistID)
}

// Invite adds a collaborator by username. Unknown usernames yield false
// rather than a distinct error; non-owners are denied.
func (s *PlaylistServiceImpl) Invite(ctx context.Context, userID, playlistID int64, username string) (bool, error) {
	owner, err := s.playlists.IsOwner(ctx, playlistID, userID)
	if err != nil {
		return false, err
	}
	if !owner {
		return false, errs.ErrAccessDenied
	}
	return s.playlists.Invite(ctx, playlistID, username)
}

// RemoveCollaborator removes a collaborator from an owned playlist.
// Owners cannot remove themselves: Create enrolled them, and dropping
// that row would lock the owner out of membership writes under the
// conjunctive policy.
func (s *PlaylistServiceImpl) RemoveCollaborator(ctx context.Context, userID, playlistID, targetID int64) (bool, error) {
	owner, err := s.playlists.IsOwner(ctx, playlistID, userID)
	if err != nil {
		return false, err
	}
	if !owner {
		return false, errs.ErrAccessDenied
	}
	if targetID == userID {
		return false, nil
	}
	return s.playlists.RemoveCollaborator(ctx, playlistID, targetID)
}
