package catalog

import (
	"context"
	"errors"
)

var (
	ErrInvalidURL       = errors.New("no provider recognizes this url")
	ErrNotStreamable    = errors.New("item can not be streamed")
	ErrResolutionFailed = errors.New("failed to resolve url")
)

// Track is the normalized playable item handed to the room engine. The room
// engine only ever consumes tracks; providers are the single producer.
type Track struct {
	ID        string `json:"original_id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	MediaURL  string `json:"media_url"`
	Image     string `json:"image"`
	Type      string `json:"type"`
	Duration  int    `json:"duration"`
	Artist    string `json:"artist"`
	ArtistURL string `json:"artist_url"`
	Source    string `json:"source"`
}

type SearchResult struct {
	ItemID      string `json:"item_id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Image       string `json:"image"`
	Duration    int    `json:"duration"`
	Plays       int    `json:"plays"`
	Embeddable  bool   `json:"embeddable"`
	Source      string `json:"source"`
}

// SearchPage is the unit delivered on a search channel. A provider sends
// exactly one page (results or a typed error) and closes the channel.
type SearchPage struct {
	Results []SearchResult
	Err     error
}

type Adapter interface {
	Source() string
	TestURL(rawURL string) bool
	Resolve(ctx context.Context, rawURL string) (Track, error)
	Search(ctx context.Context, query string) <-chan SearchPage
	Like(ctx context.Context, itemID, accessToken string) error
}
