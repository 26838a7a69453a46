package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/tapedeck/internal/errs"
)

var trackCols = []string{"file", "hash", "artist", "album", "song", "track_number", "cover", "liked"}

func TestCatalogRepo_Search(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCatalogRepo(db)
	ctx := context.Background()

	cols := append(append([]string{}, trackCols...), "relevance")
	mock.ExpectQuery(`ORDER BY relevance DESC, a\.artist, t\.title`).
		WithArgs(int64(1), "jazz").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("aaa.mp3", "aaa", "Queen", "Jazz", "Mustapha", 1, "jazz.jpg", false, 9).
			AddRow("bbb.mp3", "bbb", "Queen", "Jazz", "Fat Bottomed Girls", 3, "jazz.jpg", true, 4))
	hits, err := r.Search(ctx, 1, "jazz")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	require.Equal(t, 9, hits[0].Relevance)
	require.Equal(t, "Mustapha", hits[0].Song)
	require.True(t, hits[1].Liked)

	// no matches: empty result, no error
	mock.ExpectQuery(`ORDER BY relevance DESC, a\.artist, t\.title`).
		WithArgs(int64(1), "zzz").
		WillReturnRows(pgxmock.NewRows(cols))
	hits, err = r.Search(ctx, 1, "zzz")
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestCatalogRepo_GetTrack(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCatalogRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`WHERE t\.hash = \$2`).
		WithArgs(int64(1), "aaa").
		WillReturnRows(pgxmock.NewRows(trackCols).
			AddRow("aaa.mp3", "aaa", "Queen", "Jazz", "Mustapha", 1, "jazz.jpg", true))
	track, err := r.GetTrack(ctx, 1, "aaa")
	require.NoError(t, err)
	require.Equal(t, "aaa.mp3", track.File)
	require.True(t, track.Liked)

	mock.ExpectQuery(`WHERE t\.hash = \$2`).
		WithArgs(int64(1), "missing").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetTrack(ctx, 1, "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCatalogRepo_GetAlbum(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCatalogRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`ORDER BY t\.track_number ASC`).
		WithArgs(int64(1), int64(42)).
		WillReturnRows(pgxmock.NewRows(trackCols).
			AddRow("aaa.mp3", "aaa", "Queen", "Jazz", "Mustapha", 1, "jazz.jpg", false).
			AddRow("bbb.mp3", "bbb", "Queen", "Jazz", "Jealousy", 2, "jazz.jpg", false))
	album, err := r.GetAlbum(ctx, 1, 42)
	require.NoError(t, err)
	require.Equal(t, int64(42), album.AlbumID)
	require.Equal(t, "Jazz", album.Album)
	require.Equal(t, "Queen", album.Artist)
	require.Equal(t, "jazz.jpg", album.Cover)
	require.Len(t, album.Songs, 2)
	require.Equal(t, 1, album.Songs[0].TrackNumber)

	// an album without songs does not exist
	mock.ExpectQuery(`ORDER BY t\.track_number ASC`).
		WithArgs(int64(1), int64(99)).
		WillReturnRows(pgxmock.NewRows(trackCols))
	_, err = r.GetAlbum(ctx, 1, 99)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
