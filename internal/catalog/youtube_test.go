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

func newTestYouTube(srv *httptest.Server) *YouTube {
	return &YouTube{apiKey: "test-key", apiURL: srv.URL, httpc: srv.Client()}
}

func TestYouTubeTestURL(t *testing.T) {
	y := NewYouTube("test-key")

	cases := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtube.com/watch?feature=share&v=dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"HTTPS://YOUTU.BE/dQw4w9WgXcQ", true},
		{"https://soundcloud.com/artist/track", false},
		{"https://www.youtube.com/feed/subscriptions", false},
		{"not a url", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, y.TestURL(tc.url), tc.url)
	}
}

func TestVideoIDFromURL(t *testing.T) {
	assert.Equal(t, "dQw4w9WgXcQ", videoIDFromURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.Equal(t, "dQw4w9WgXcQ", videoIDFromURL("https://youtu.be/dQw4w9WgXcQ"))
	assert.Equal(t, "", videoIDFromURL("https://example.com/watch"))
}

func TestParseISODuration(t *testing.T) {
	assert.Equal(t, 3723, parseISODuration("PT1H2M3S"))
	assert.Equal(t, 260, parseISODuration("PT4M20S"))
	assert.Equal(t, 45, parseISODuration("PT45S"))
	assert.Equal(t, 7200, parseISODuration("PT2H"))
	assert.Equal(t, 0, parseISODuration("PT"))
	assert.Equal(t, 0, parseISODuration("garbage"))
}

func ytVideoBody(id string, embeddable bool) string {
	return fmt.Sprintf(`{"items":[{
		"id": %q,
		"snippet": {
			"title": "Test Video",
			"channelId": "chan123",
			"channelTitle": "Test Channel",
			"description": "a description",
			"thumbnails": {
				"default": {"url": "http://img/default.jpg"},
				"high": {"url": "http://img/high.jpg"}
			}
		},
		"contentDetails": {"duration": "PT3M33S"},
		"status": {"embeddable": %t},
		"statistics": {"viewCount": "12345"}
	}]}`, id, embeddable)
}

func TestYouTubeResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "dQw4w9WgXcQ", r.URL.Query().Get("id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, ytVideoBody("dQw4w9WgXcQ", true))
	}))
	defer srv.Close()

	track, err := newTestYouTube(srv).Resolve(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.Equal(t, "dQw4w9WgXcQ", track.ID)
	assert.Equal(t, "Test Video", track.Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", track.URL)
	assert.Equal(t, track.URL, track.MediaURL)
	assert.Equal(t, "http://img/high.jpg", track.Image, "high thumbnail wins when present")
	assert.Equal(t, "video", track.Type)
	assert.Equal(t, 213, track.Duration)
	assert.Equal(t, "Test Channel", track.Artist)
	assert.Equal(t, "https://www.youtube.com/channel/chan123", track.ArtistURL)
	assert.Equal(t, "youtube", track.Source)
}

func TestYouTubeResolveRejectsNonEmbeddable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ytVideoBody("dQw4w9WgXcQ", false))
	}))
	defer srv.Close()

	_, err := newTestYouTube(srv).Resolve(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrNotStreamable)
}

func TestYouTubeResolveUnknownVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[]}`)
	}))
	defer srv.Close()

	_, err := newTestYouTube(srv).Resolve(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrResolutionFailed)
}

func TestYouTubeResolveBadURL(t *testing.T) {
	_, err := NewYouTube("test-key").Resolve(context.Background(), "https://example.com/nope")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestYouTubeSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			assert.Equal(t, "never gonna", r.URL.Query().Get("q"))
			assert.Equal(t, "video", r.URL.Query().Get("type"))
			fmt.Fprint(w, `{"items":[{"id":{"videoId":"dQw4w9WgXcQ"}}]}`)
		case "/videos":
			fmt.Fprint(w, ytVideoBody("dQw4w9WgXcQ", true))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	page := <-newTestYouTube(srv).Search(context.Background(), "never gonna")
	require.NoError(t, page.Err)
	require.Len(t, page.Results, 1)

	got := page.Results[0]
	assert.Equal(t, "dQw4w9WgXcQ", got.ItemID)
	assert.Equal(t, "Test Video", got.Title)
	assert.Equal(t, 12345, got.Plays)
	assert.True(t, got.Embeddable)
	assert.Equal(t, "youtube", got.Source)
}

func TestYouTubeSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	page := <-newTestYouTube(srv).Search(context.Background(), "q")
	assert.Error(t, page.Err)
}

func TestYouTubeLike(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/videos/rate", r.URL.Path)
		assert.Equal(t, "dQw4w9WgXcQ", r.URL.Query().Get("id"))
		assert.Equal(t, "like", r.URL.Query().Get("rating"))
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := newTestYouTube(srv).Like(context.Background(), "dQw4w9WgXcQ", "user-token")
	assert.NoError(t, err)
}
