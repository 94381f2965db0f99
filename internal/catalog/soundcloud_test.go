package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSoundCloud(srv *httptest.Server) *SoundCloud {
	return &SoundCloud{clientID: "test-client", apiURL: srv.URL, httpc: srv.Client()}
}

func TestSoundCloudTestURL(t *testing.T) {
	s := NewSoundCloud("test-client")

	assert.True(t, s.TestURL("https://soundcloud.com/artist/some-track"))
	assert.True(t, s.TestURL("HTTP://SOUNDCLOUD.COM/artist/track"))
	assert.False(t, s.TestURL("https://youtu.be/dQw4w9WgXcQ"))
}

func TestSCTrackImage(t *testing.T) {
	var track scTrack
	track.ArtworkURL = "http://img/artwork-large.jpg"
	track.User.AvatarURL = "http://img/avatar-large.jpg"
	assert.Equal(t, "http://img/artwork-crop.jpg", track.image(), "artwork wins, upgraded to crop")

	track.ArtworkURL = ""
	assert.Equal(t, "http://img/avatar-crop.jpg", track.image(), "avatar is the fallback")

	track.User.AvatarURL = ""
	assert.Equal(t, soundcloudFallbackImage, track.image())
}

const scTrackBody = `{
	"id": 13158665,
	"kind": "track",
	"title": "Munching at Tiannas house",
	"description": "a description",
	"streamable": true,
	"stream_url": "https://api.soundcloud.com/tracks/13158665/stream",
	"permalink_url": "https://soundcloud.com/user2835985/munching-at-tiannas-house",
	"artwork_url": "http://img/artwork-large.jpg",
	"duration": 245000,
	"playback_count": 7,
	"user": {
		"username": "user2835985",
		"avatar_url": "http://img/avatar-large.jpg",
		"permalink_url": "https://soundcloud.com/user2835985"
	}
}`

func TestSoundCloudResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/resolve.json", r.URL.Path)
		assert.Equal(t, "test-client", r.URL.Query().Get("client_id"))
		assert.Equal(t, "https://soundcloud.com/user2835985/munching-at-tiannas-house", r.URL.Query().Get("url"))
		fmt.Fprint(w, scTrackBody)
	}))
	defer srv.Close()

	track, err := newTestSoundCloud(srv).Resolve(context.Background(), "https://soundcloud.com/user2835985/munching-at-tiannas-house")
	require.NoError(t, err)

	assert.Equal(t, "13158665", track.ID)
	assert.Equal(t, "Munching at Tiannas house", track.Title)
	assert.Equal(t, "https://soundcloud.com/user2835985/munching-at-tiannas-house", track.URL)
	assert.Equal(t, "https://api.soundcloud.com/tracks/13158665/stream?consumer_key=test-client", track.MediaURL)
	assert.Equal(t, "http://img/artwork-crop.jpg", track.Image)
	assert.Equal(t, "audio", track.Type)
	assert.Equal(t, 245, track.Duration, "upstream milliseconds become seconds")
	assert.Equal(t, "user2835985", track.Artist)
	assert.Equal(t, "https://soundcloud.com/user2835985", track.ArtistURL)
	assert.Equal(t, "soundcloud", track.Source)
}

func TestSoundCloudResolveRejectsNonTrack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 1, "kind": "playlist"}`)
	}))
	defer srv.Close()

	_, err := newTestSoundCloud(srv).Resolve(context.Background(), "https://soundcloud.com/user/sets/mix")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestSoundCloudResolveRejectsNonStreamable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 1, "kind": "track", "streamable": false}`)
	}))
	defer srv.Close()

	_, err := newTestSoundCloud(srv).Resolve(context.Background(), "https://soundcloud.com/user/track")
	assert.ErrorIs(t, err, ErrNotStreamable)
}

func TestSoundCloudSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tracks.json", r.URL.Path)
		assert.Equal(t, "streamable", r.URL.Query().Get("filter"))
		assert.Equal(t, "munching", r.URL.Query().Get("q"))
		fmt.Fprintf(w, "[%s]", scTrackBody)
	}))
	defer srv.Close()

	page := <-newTestSoundCloud(srv).Search(context.Background(), "munching")
	require.NoError(t, page.Err)
	require.Len(t, page.Results, 1)

	got := page.Results[0]
	assert.Equal(t, "13158665", got.ItemID)
	assert.Equal(t, "Munching at Tiannas house", got.Title)
	assert.Equal(t, 245, got.Duration)
	assert.Equal(t, 7, got.Plays)
	assert.True(t, got.Embeddable)
	assert.Equal(t, "soundcloud", got.Source)
}

func TestSoundCloudLike(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/me/favorites/13158665", r.URL.Path)
		assert.Equal(t, "OAuth user-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := newTestSoundCloud(srv).Like(context.Background(), "13158665", "user-token")
	assert.NoError(t, err)
}
