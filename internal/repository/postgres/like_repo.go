package postgres

import (
	"context"

	"github.com/avolkov/tapedeck/internal/model"
)

// LikeRepo implements LikeRepository using PostgreSQL.
type LikeRepo struct{ db *DB }

// NewLikeRepo constructs a like repository.
func NewLikeRepo(db *DB) *LikeRepo { return &LikeRepo{db: db} }

// IsLiked reports whether the (user, track) pair exists.
func (r *LikeRepo) IsLiked(ctx context.Context, userID int64, hash string) (bool, error) {
	const q = `SELECT count(*) FROM liked_tracks WHERE user_id=$1 AND track_hash=$2`
	var n int
	if err := r.db.Pool.QueryRow(ctx, q, userID, hash).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Like inserts a like row. The primary key makes a concurrent duplicate
// a no-op rather than an error.
func (r *LikeRepo) Like(ctx context.Context, userID int64, hash string) (bool, error) {
	const q = `
INSERT INTO liked_tracks (user_id, track_hash)
VALUES ($1, $2)
ON CONFLICT (user_id, track_hash) DO NOTHING`
	tag, err := r.db.Pool.Exec(ctx, q, userID, hash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Unlike deletes a like row.
func (r *LikeRepo) Unlike(ctx context.Context, userID int64, hash string) (bool, error) {
	const q = `DELETE FROM liked_tracks WHERE user_id=$1 AND track_hash=$2`
	tag, err := r.db.Pool.Exec(ctx, q, userID, hash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// LikedTracks returns the user's liked tracks ordered by like time ascending.
func (r *LikeRepo) LikedTracks(ctx context.Context, userID int64) ([]model.Track, error) {
	const q = `
SELECT
	t.hash || '.' || t.extension AS file,
	t.hash,
	a.artist,
	a.name AS album,
	t.title AS song,
	t.track_number,
	a.cover_path AS cover,
	true AS liked
FROM liked_tracks lt
JOIN tracks t ON t.hash = lt.track_hash
JOIN albums a ON t.album_id = a.id
WHERE lt.user_id = $1
ORDER BY lt.created_at`
	rows, err := r.db.Pool.Query(ctx, q, userID)
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
