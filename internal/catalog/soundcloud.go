package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	soundcloudAPIURL = "https://api.soundcloud.com"

	// Shown when a track carries no artwork and its uploader no avatar.
	soundcloudFallbackImage = "https://s3-us-west-1.amazonaws.com/syncmedia/images/null.png"
)

var soundcloudURLRe = regexp.MustCompile(`(?i).*soundcloud\.com/.*`)

type SoundCloud struct {
	clientID string
	apiURL   string
	httpc    *http.Client
}

func NewSoundCloud(clientID string) *SoundCloud {
	return &SoundCloud{
		clientID: clientID,
		apiURL:   soundcloudAPIURL,
		httpc:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SoundCloud) Source() string {
	return "soundcloud"
}

func (s *SoundCloud) TestURL(rawURL string) bool {
	return soundcloudURLRe.MatchString(rawURL)
}

type scTrack struct {
	ID            int64  `json:"id"`
	Kind          string `json:"kind"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Streamable    bool   `json:"streamable"`
	StreamURL     string `json:"stream_url"`
	PermalinkURL  string `json:"permalink_url"`
	ArtworkURL    string `json:"artwork_url"`
	Duration      int64  `json:"duration"`
	PlaybackCount int    `json:"playback_count"`
	User          struct {
		Username     string `json:"username"`
		AvatarURL    string `json:"avatar_url"`
		PermalinkURL string `json:"permalink_url"`
	} `json:"user"`
}

// image prefers track artwork over the uploader avatar, upgraded to the
// biggest rendition soundcloud serves.
func (t scTrack) image() string {
	image := t.ArtworkURL
	if image == "" {
		image = t.User.AvatarURL
	}
	if image == "" {
		return soundcloudFallbackImage
	}

	return strings.Replace(image, "large", "crop", 1)
}

func (s *SoundCloud) Resolve(ctx context.Context, rawURL string) (Track, error) {
	val := url.Values{}
	val.Set("client_id", s.clientID)
	val.Set("url", rawURL)

	var track scTrack
	if err := s.getJSON(ctx, s.apiURL+"/resolve.json?"+val.Encode(), &track); err != nil {
		return Track{}, fmt.Errorf("%w: %w", ErrResolutionFailed, err)
	}

	if track.Kind != "track" {
		return Track{}, fmt.Errorf("%w: url must point at a single track", ErrInvalidURL)
	}
	if !track.Streamable {
		return Track{}, fmt.Errorf("%w: streaming is disabled for this track", ErrNotStreamable)
	}

	return Track{
		ID:        fmt.Sprint(track.ID),
		Title:     track.Title,
		URL:       track.PermalinkURL,
		MediaURL:  fmt.Sprintf("%s?consumer_key=%s", track.StreamURL, s.clientID),
		Image:     track.image(),
		Type:      "audio",
		Duration:  int(track.Duration / 1000),
		Artist:    track.User.Username,
		ArtistURL: track.User.PermalinkURL,
		Source:    s.Source(),
	}, nil
}

func (s *SoundCloud) Search(ctx context.Context, query string) <-chan SearchPage {
	out := make(chan SearchPage, 1)

	go func() {
		defer close(out)

		val := url.Values{}
		val.Set("client_id", s.clientID)
		val.Set("filter", "streamable")
		val.Set("limit", "30")
		val.Set("offset", "0")
		val.Set("q", query)

		var tracks []scTrack
		if err := s.getJSON(ctx, s.apiURL+"/tracks.json?"+val.Encode(), &tracks); err != nil {
			out <- SearchPage{Err: fmt.Errorf("soundcloud search: %w", err)}
			return
		}

		results := make([]SearchResult, 0, len(tracks))
		for _, t := range tracks {
			results = append(results, SearchResult{
				ItemID:      fmt.Sprint(t.ID),
				Title:       t.Title,
				URL:         t.PermalinkURL,
				Description: t.Description,
				Author:      t.User.Username,
				Image:       t.image(),
				Duration:    int(t.Duration / 1000),
				Plays:       t.PlaybackCount,
				Embeddable:  t.Streamable,
				Source:      s.Source(),
			})
		}

		out <- SearchPage{Results: results}
	}()

	return out
}

// Like favorites the track on behalf of the presented OAuth token.
func (s *SoundCloud) Like(ctx context.Context, itemID, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, fmt.Sprintf("%s/me/favorites/%s", s.apiURL, itemID), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "OAuth "+accessToken)

	resp, err := s.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("soundcloud favorite status %d", resp.StatusCode)
	}

	return nil
}

func (s *SoundCloud) getJSON(ctx context.Context, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("soundcloud status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
