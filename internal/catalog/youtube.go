package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	youtubeAPIURL   = "https://www.googleapis.com/youtube/v3"
	youtubeWatchURL = "https://www.youtube.com/watch?v="
)

var youtubeURLRe = regexp.MustCompile(`(?i)youtube\.com.*[?&]v=(.{11})|youtu\.be/(.{11})`)

type YouTube struct {
	apiKey string
	apiURL string
	httpc  *http.Client
}

func NewYouTube(apiKey string) *YouTube {
	return &YouTube{
		apiKey: apiKey,
		apiURL: youtubeAPIURL,
		httpc:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (y *YouTube) Source() string {
	return "youtube"
}

func (y *YouTube) TestURL(rawURL string) bool {
	return youtubeURLRe.MatchString(rawURL)
}

func videoIDFromURL(rawURL string) string {
	m := youtubeURLRe.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}

	return m[2]
}

type ytVideo struct {
	ID      string `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		ChannelID    string `json:"channelId"`
		ChannelTitle string `json:"channelTitle"`
		Description  string `json:"description"`
		Thumbnails   struct {
			Default struct {
				URL string `json:"url"`
			} `json:"default"`
			Medium struct {
				URL string `json:"url"`
			} `json:"medium"`
			High struct {
				URL string `json:"url"`
			} `json:"high"`
		} `json:"thumbnails"`
	} `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
	Status struct {
		Embeddable bool `json:"embeddable"`
	} `json:"status"`
	Statistics struct {
		ViewCount string `json:"viewCount"`
	} `json:"statistics"`
}

type ytVideosResponse struct {
	Items []ytVideo `json:"items"`
}

func (v ytVideo) thumbnail() string {
	thumbs := v.Snippet.Thumbnails
	if thumbs.High.URL != "" {
		return thumbs.High.URL
	}
	if thumbs.Medium.URL != "" {
		return thumbs.Medium.URL
	}

	return thumbs.Default.URL
}

func (y *YouTube) Resolve(ctx context.Context, rawURL string) (Track, error) {
	id := videoIDFromURL(rawURL)
	if id == "" {
		return Track{}, ErrInvalidURL
	}

	videos, err := y.fetchVideos(ctx, []string{id})
	if err != nil {
		return Track{}, fmt.Errorf("%w: %w", ErrResolutionFailed, err)
	}
	if len(videos) == 0 {
		return Track{}, ErrResolutionFailed
	}

	video := videos[0]
	if !video.Status.Embeddable {
		return Track{}, fmt.Errorf("%w: embedding is disabled for this video", ErrNotStreamable)
	}

	return Track{
		ID:        video.ID,
		Title:     video.Snippet.Title,
		URL:       youtubeWatchURL + video.ID,
		MediaURL:  youtubeWatchURL + video.ID,
		Image:     video.thumbnail(),
		Type:      "video",
		Duration:  parseISODuration(video.ContentDetails.Duration),
		Artist:    video.Snippet.ChannelTitle,
		ArtistURL: "https://www.youtube.com/channel/" + video.Snippet.ChannelID,
		Source:    y.Source(),
	}, nil
}

func (y *YouTube) Search(ctx context.Context, query string) <-chan SearchPage {
	out := make(chan SearchPage, 1)

	go func() {
		defer close(out)

		ids, err := y.searchIDs(ctx, query)
		if err != nil {
			out <- SearchPage{Err: fmt.Errorf("youtube search: %w", err)}
			return
		}
		if len(ids) == 0 {
			out <- SearchPage{}
			return
		}

		videos, err := y.fetchVideos(ctx, ids)
		if err != nil {
			out <- SearchPage{Err: fmt.Errorf("youtube videos: %w", err)}
			return
		}

		results := make([]SearchResult, 0, len(videos))
		for _, v := range videos {
			plays, _ := strconv.Atoi(v.Statistics.ViewCount)
			results = append(results, SearchResult{
				ItemID:      v.ID,
				Title:       v.Snippet.Title,
				URL:         youtubeWatchURL + v.ID,
				Description: v.Snippet.Description,
				Author:      v.Snippet.ChannelTitle,
				Image:       v.thumbnail(),
				Duration:    parseISODuration(v.ContentDetails.Duration),
				Plays:       plays,
				Embeddable:  v.Status.Embeddable,
				Source:      y.Source(),
			})
		}

		out <- SearchPage{Results: results}
	}()

	return out
}

func (y *YouTube) searchIDs(ctx context.Context, query string) ([]string, error) {
	val := url.Values{}
	val.Set("part", "snippet")
	val.Set("type", "video")
	val.Set("maxResults", "30")
	val.Set("q", query)
	val.Set("key", y.apiKey)

	var body struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
		} `json:"items"`
	}
	if err := y.getJSON(ctx, y.apiURL+"/search?"+val.Encode(), &body); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(body.Items))
	for _, item := range body.Items {
		ids = append(ids, item.ID.VideoID)
	}

	return ids, nil
}

func (y *YouTube) fetchVideos(ctx context.Context, ids []string) ([]ytVideo, error) {
	val := url.Values{}
	val.Set("part", "snippet,contentDetails,status,statistics")
	val.Set("id", strings.Join(ids, ","))
	val.Set("key", y.apiKey)

	var body ytVideosResponse
	if err := y.getJSON(ctx, y.apiURL+"/videos?"+val.Encode(), &body); err != nil {
		return nil, err
	}

	return body.Items, nil
}

// Like adds a like rating to the video on behalf of the presented OAuth
// token.
func (y *YouTube) Like(ctx context.Context, itemID, accessToken string) error {
	val := url.Values{}
	val.Set("id", itemID)
	val.Set("rating", "like")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, y.apiURL+"/videos/rate?"+val.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := y.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube rate status %d", resp.StatusCode)
	}

	return nil
}

func (y *YouTube) getJSON(ctx context.Context, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := y.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

var isoDurationRe = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

func parseISODuration(duration string) int {
	matches := isoDurationRe.FindStringSubmatch(duration)
	if len(matches) < 4 {
		return 0
	}

	var h, m, s int
	fmt.Sscanf(matches[1], "%d", &h)
	fmt.Sscanf(matches[2], "%d", &m)
	fmt.Sscanf(matches[3], "%d", &s)

	return h*3600 + m*60 + s
}
