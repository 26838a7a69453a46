package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func TestLikeRepo_IsLiked(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewLikeRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT count\(\*\) FROM liked_tracks WHERE user_id=\$1 AND track_hash=\$2`).
		WithArgs(int64(1), "abc").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	liked, err := r.IsLiked(ctx, 1, "abc")
	require.NoError(t, err)
	require.True(t, liked)

	mock.ExpectQuery(`SELECT count\(\*\) FROM liked_tracks WHERE user_id=\$1 AND track_hash=\$2`).
		WithArgs(int64(1), "def").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	liked, err = r.IsLiked(ctx, 1, "def")
	require.NoError(t, err)
	require.False(t, liked)
}

func TestLikeRepo_Like_Idempotent(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewLikeRepo(db)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO liked_tracks \(user_id, track_hash\)`).
		WithArgs(int64(1), "abc").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	created, err := r.Like(ctx, 1, "abc")
	require.NoError(t, err)
	require.True(t, created)

	// conflict path affects zero rows instead of failing
	mock.ExpectExec(`INSERT INTO liked_tracks \(user_id, track_hash\)`).
		WithArgs(int64(1), "abc").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	created, err = r.Like(ctx, 1, "abc")
	require.NoError(t, err)
	require.False(t, created)
}

func TestLikeRepo_Unlike(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewLikeRepo(db)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM liked_tracks WHERE user_id=\$1 AND track_hash=\$2`).
		WithArgs(int64(1), "abc").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	removed, err := r.Unlike(ctx, 1, "abc")
	require.NoError(t, err)
	require.True(t, removed)

	mock.ExpectExec(`DELETE FROM liked_tracks WHERE user_id=\$1 AND track_hash=\$2`).
		WithArgs(int64(1), "abc").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	removed, err = r.Unlike(ctx, 1, "abc")
	require.NoError(t, err)
	require.False(t, removed)
}

func TestLikeRepo_LikedTracks(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewLikeRepo(db)
	ctx := context.Background()

	cols := []string{"file", "hash", "artist", "album", "song", "track_number", "cover", "liked"}
	mock.ExpectQuery(`FROM liked_tracks lt`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("aaa.mp3", "aaa", "Queen", "Jazz", "Bicycle Race", 2, "jazz.jpg", true).
			AddRow("bbb.flac", "bbb", "Queen", "Jazz", "Don't Stop Me Now", 12, "jazz.jpg", true))
	tracks, err := r.LikedTracks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	require.Equal(t, "aaa.mp3", tracks[0].File)
	require.Equal(t, "Bicycle Race", tracks[0].Song)
	require.True(t, tracks[0].Liked)
	require.Equal(t, "bbb", tracks[1].Hash)
}
