// Package model defines domain entities used by services and repositories.
package model

import (
	"strconv"
	"time"
)

// AccountStatus is the lifecycle state of a user account.
// Deactivated accounts stay in the database but cannot authenticate.
type AccountStatus string

const (
	// AccountActive allows login and normal use.
	AccountActive AccountStatus = "active"
	// AccountDeactivated marks a soft-deleted account.
	AccountDeactivated AccountStatus = "deactivated"
)

// User represents a registered account.
type User struct {
	ID        int64
	Username  string // unique, case-sensitive
	PwdHash   string // bcrypt hash (salt embedded)
	Picture   string // stored picture filename, empty if none
	Status    AccountStatus
	CreatedAt time.Time
}

// Principal is the authenticated identity for one request.
type Principal struct {
	ID       int64
	Username string
}

// Track is a single catalog row as exposed by search, album and playlist
// queries. File is derived as hash + "." + extension by the store.
type Track struct {
	File        string `json:"file"`
	Hash        string `json:"hash"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	Song        string `json:"song"`
	TrackNumber int    `json:"trackNumber"`
	Cover       string `json:"cover"`
	Liked       bool   `json:"liked"`
}

// ScoredTrack is a search hit with its relevance score.
type ScoredTrack struct {
	Track
	Relevance int `json:"relevance"`
}

// Album groups tracks ordered by track number.
type Album struct {
	AlbumID int64   `json:"albumId"`
	Album   string  `json:"album"`
	Artist  string  `json:"artist"`
	Cover   string  `json:"cover"`
	Songs   []Track `json:"songs"`
}

// LikedPlaylistID is the reserved id of the synthetic liked-songs
// playlist. Real playlist ids are numeric, so it can never collide.
const LikedPlaylistID = "liked"

// LikedPlaylistName is the display name of the synthetic playlist.
const LikedPlaylistName = "Liked songs"

// PlaylistRef distinguishes the synthetic liked view from a stored
// playlist, so callers never string-compare against the magic id.
type PlaylistRef struct {
	Liked bool
	ID    int64 // valid only when Liked is false
}

// LikedRef returns the reference to the synthetic liked view.
func LikedRef() PlaylistRef { return PlaylistRef{Liked: true} }

// RealRef returns a reference to a stored playlist.
func RealRef(id int64) PlaylistRef { return PlaylistRef{ID: id} }

// ParseRef interprets a client-supplied playlist id: the reserved liked
// id or a numeric stored-playlist id. Reports false for anything else.
func ParseRef(s string) (PlaylistRef, bool) {
	if s == LikedPlaylistID {
		return LikedRef(), true
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return PlaylistRef{}, false
	}
	return RealRef(id), true
}

// PlaylistInfo is a playlist header row.
type PlaylistInfo struct {
	ID   string `json:"id"` // numeric for stored playlists, "liked" for the view
	Name string `json:"name"`
}

// Playlist is a playlist with its ordered track list.
type Playlist struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Music []Track `json:"music"`
}

// Collaborator is a user granted shared write access to a playlist.
type Collaborator struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Picture  string `json:"picture"`
}
