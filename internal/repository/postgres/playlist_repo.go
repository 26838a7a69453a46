package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/avolkov/tapedeck/internal/errs"
	"github.com/avolkov/tapedeck/internal/model"
	"github.com/jackc/pgx/v5"
)

// PlaylistRepo implements PlaylistRepository using PostgreSQL.
type PlaylistRepo struct{ db *DB }

// NewPlaylistRepo constructs a playlist repository.
func NewPlaylistRepo(db *DB) *PlaylistRepo { return &PlaylistRepo{db: db} }

// IsOwner reports whether a playlist row exists with this owner.
func (r *PlaylistRepo) IsOwner(ctx context.Context, playlistID, userID int64) (bool, error) {
	const q = `SELECT count(*) FROM playlists WHERE id=$1 AND owner_id=$2`
	var n int
	if err := r.db.Pool.QueryRow(ctx, q, playlistID, userID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsCollaborator reports whether the user has a collaborator row.
func (r *PlaylistRepo) IsCollaborator(ctx context.Context, playlistID, userID int64) (bool, error) {
	const q = `SELECT count(*) FROM playlist_collaborators WHERE playlist_id=$1 AND user_id=$2`
	var n int
	if err := r.db.Pool.QueryRow(ctx, q, playlistID, userID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListForUser returns playlists owned by or shared with the user.
func (r *PlaylistRepo) ListForUser(ctx context.Context, userID int64) ([]model.PlaylistInfo, error) {
	const q = `
SELECT id, name
FROM playlists
WHERE owner_id = $1
OR id IN (SELECT playlist_id FROM playlist_collaborators WHERE user_id = $1)`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlaylistInfo
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out = append(out, model.PlaylistInfo{ID: strconv.FormatInt(id, 10), Name: name})
	}
	return out, rows.Err()
}

// GetAccessible loads the playlist header when the user is owner or
// collaborator. Inaccessible and absent playlists are indistinguishable.
func (r *PlaylistRepo) GetAccessible(ctx context.Context, playlistID, userID int64) (*model.PlaylistInfo, error) {
	const q = `
SELECT id, name
FROM playlists
WHERE id = $1
AND (
	owner_id = $2
	OR id IN (SELECT playlist_id FROM playlist_collaborators WHERE user_id = $2)
)`
	var id int64
	var name string
	if err := r.db.Pool.QueryRow(ctx, q, playlistID, userID).Scan(&id, &name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &model.PlaylistInfo{ID: strconv.FormatInt(id, 10), Name: name}, nil
}

// Tracks returns playlist tracks in membership-creation order.
func (r *PlaylistRepo) Tracks(ctx context.Context, playlistID, userID int64) ([]model.Track, error) {
	const q = `
SELECT
	t.hash || '.' || t.extension AS file,
	t.hash,
	a.artist,
	a.name AS album,
	t.title AS song,
	t.track_number,
	a.cover_path AS cover,
	(lt.user_id IS NOT NULL) AS liked
FROM playlist_tracks pt
JOIN tracks t ON t.hash = pt.track_hash
JOIN albums a ON t.album_id = a.id
LEFT JOIN liked_tracks lt ON lt.track_hash = t.hash AND lt.user_id = $2
WHERE pt.playlist_id = $1
ORDER BY pt.created_at`
	rows, err := r.db.Pool.Query(ctx, q, playlistID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Track
	for rows.Next() {
		var t model.Track
		if err := rows.Scan(&t.File, &t.Hash, &t.Artist, &t.Album, &t.Song,
			&t.TrackNumber, &t.Cover, &t.Liked); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create inserts a playlist and enrolls the owner as a collaborator in
// one transaction, so membership mutations work for the owner under the
// conjunctive write policy.
func (r *PlaylistRepo) Create(ctx context.Context, ownerID int64, name string) (created bool, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
			created = false
		}
	}()

	const ins = `INSERT INTO playlists (owner_id, name) VALUES ($1, $2) RETURNING id`
	var playlistID int64
	if err = tx.QueryRow(ctx, ins, ownerID, name).Scan(&playlistID); err != nil {
		return false, err
	}
	const enroll = `INSERT INTO playlist_collaborators (playlist_id, user_id) VALUES ($1, $2)`
	if _, err = tx.Exec(ctx, enroll, playlistID, ownerID); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes a playlist owned by ownerID. Membership and
// collaborator rows go with it via ON DELETE CASCADE.
func (r *PlaylistRepo) Delete(ctx context.Context, playlistID, ownerID int64) (bool, error) {
	const q = `DELETE FROM playlists WHERE id=$1 AND owner_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, playlistID, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Rename changes the playlist name.
func (r *PlaylistRepo) Rename(ctx context.Context, playlistID int64, name string) (bool, error) {
	const q = `UPDATE playlists SET name=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, playlistID, name)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// AddTrack inserts a membership row. Duplicate adds hit the primary key
// and are no-ops.
func (r *PlaylistRepo) AddTrack(ctx context.Context, playlistID int64, hash string) (bool, error) {
	const q = `
INSERT INTO playlist_tracks (playlist_id, track_hash)
VALUES ($1, $2)
ON CONFLICT (playlist_id, track_hash) DO NOTHING`
	tag, err := r.db.Pool.Exec(ctx, q, playlistID, hash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// RemoveTrack deletes a membership row.
func (r *PlaylistRepo) RemoveTrack(ctx context.Context, playlistID int64, hash string) (bool, error) {
	const q = `DELETE FROM playlist_tracks WHERE playlist_id=$1 AND track_hash=$2`
	tag, err := r.db.Pool.Exec(ctx, q, playlistID, hash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Collaborators lists users with shared access to the playlist.
func (r *PlaylistRepo) Collaborators(ctx context.Context, playlistID int64) ([]model.Collaborator, error) {
	const q = `
SELECT u.id, u.username, COALESCE(u.picture, '')
FROM playlist_collaborators pc
JOIN users u ON u.id = pc.user_id
WHERE pc.playlist_id = $1`
	rows, err := r.db.Pool.Query(ctx, q, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Collaborator
	for rows.Next() {
		var c model.Collaborator
		if err := rows.Scan(&c.ID, &c.Username, &c.Picture); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Invite inserts a collaborator row for the named user. An unknown
// username selects nothing, so zero rows are affected.
func (r *PlaylistRepo) Invite(ctx context.Context, playlistID int64, username string) (bool, error) {
	const q = `
INSERT INTO playlist_collaborators (playlist_id, user_id)
SELECT $1, id FROM users WHERE username = $2
ON CONFLICT (playlist_id, user_id) DO NOTHING`
	tag, err := r.db.Pool.Exec(ctx, q, playlistID, username)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// RemoveCollaborator deletes a collaborator row.
func (r *PlaylistRepo) RemoveCollaborator(ctx context.Context, playlistID, userID int64) (bool, error) {
	const q = `DELETE FROM playlist_collaborators WHERE playlist_id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, playlistID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
