package postgres

import (
	"context"
	"errors"

	"github.com/avolkov/tapedeck/internal/errs"
	"github.com/avolkov/tapedeck/internal/model"
	"github.com/jackc/pgx/v5"
)

// CatalogRepo implements CatalogRepository using PostgreSQL.
type CatalogRepo struct{ db *DB }

// NewCatalogRepo constructs a catalog repository.
func NewCatalogRepo(db *DB) *CatalogRepo { return &CatalogRepo{db: db} }

// trackColumns is the shared projection for track rows. $1 is always the
// requesting user id, used only for the liked annotation.
const trackColumns = `
	t.hash || '.' || t.extension AS file,
	t.hash,
	a.artist,
	a.name AS album,
	t.title AS song,
	t.track_number,
	a.cover_path AS cover,
	(lt.user_id IS NOT NULL) AS liked`

const trackJoins = `
FROM tracks t
JOIN albums a ON t.album_id = a.id
LEFT JOIN liked_tracks lt ON lt.track_hash = t.hash AND lt.user_id = $1`

func scanTrack(row pgx.Row, t *model.Track) error {
	return row.Scan(&t.File, &t.Hash, &t.Artist, &t.Album, &t.Song, &t.TrackNumber, &t.Cover, &t.Liked)
}

// Search scores tracks against the query: +5 exact artist, +5 exact
// title, +3 exact album, +2 partial artist, +2 partial title, +1 partial
// album. All comparisons are case-insensitive. Limited to 15 rows.
func (r *CatalogRepo) Search(ctx context.Context, userID int64, query string) ([]model.ScoredTrack, error) {
	const q = `
SELECT` + trackColumns + `,
	(
		(CASE WHEN lower(a.artist) = lower($2) THEN 5 ELSE 0 END) +
		(CASE WHEN lower(t.title) = lower($2) THEN 5 ELSE 0 END) +
		(CASE WHEN lower(a.name) = lower($2) THEN 3 ELSE 0 END) +
		(CASE WHEN a.artist ILIKE '%' || $2 || '%' THEN 2 ELSE 0 END) +
		(CASE WHEN t.title ILIKE '%' || $2 || '%' THEN 2 ELSE 0 END) +
		(CASE WHEN a.name ILIKE '%' || $2 || '%' THEN 1 ELSE 0 END)
	) AS relevance` + trackJoins + `
WHERE
	a.artist ILIKE '%' || $2 || '%'
	OR a.name ILIKE '%' || $2 || '%'
	OR t.title ILIKE '%' || $2 || '%'
ORDER BY relevance DESC, a.artist, t.title
LIMIT 15`
	rows, err := r.db.Pool.Query(ctx, q, userID, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ScoredTrack
	for rows.Next() {
		var st model.ScoredTrack
		if err := rows.Scan(&st.File, &st.Hash, &st.Artist, &st.Album, &st.Song,
			&st.TrackNumber, &st.Cover, &st.Liked, &st.Relevance); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// GetTrack loads a single track by hash.
func (r *CatalogRepo) GetTrack(ctx context.Context, userID int64, hash string) (*model.Track, error) {
	const q = `
SELECT` + trackColumns + trackJoins + `
WHERE t.hash = $2`
	var t model.Track
	if err := scanTrack(r.db.Pool.QueryRow(ctx, q, userID, hash), &t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetAlbum loads album metadata with songs ordered by track number.
// An album without songs is reported as absent.
func (r *CatalogRepo) GetAlbum(ctx context.Context, userID, albumID int64) (*model.Album, error) {
	const q = `
SELECT` + trackColumns + trackJoins + `
WHERE a.id = $2
ORDER BY t.track_number ASC`
	rows, err := r.db.Pool.Query(ctx, q, userID, albumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []model.Track
	for rows.Next() {
		var t model.Track
		if err := rows.Scan(&t.File, &t.Hash, &t.Artist, &t.Album, &t.Song,
			&t.TrackNumber, &t.Cover, &t.Liked); err != nil {
			return nil, err
		}
		songs = append(songs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(songs) == 0 {
		return nil, errs.ErrNotFound
	}
	return &model.Album{
		AlbumID: albumID,
		Album:   songs[0].Album,
		Artist:  songs[0].Artist,
		Cover:   songs[0].Cover,
		Songs:   songs,
	}, nil
}
