package ytmusic

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"

	"github.com/mdjubayerd1/vivi-music/internal/ports"
	"github.com/mdjubayerd1/vivi-music/internal/types"
)

const (
	defaultBaseURL = "https://music.youtube.com"
	clientName     = "WEB_REMIX"
	clientVersion  = "1.20250310.01.00"

	nextPath    = "/youtubei/v1/next"
	likePath    = "/youtubei/v1/like/like"
	dislikePath = "/youtubei/v1/like/dislike"

	// radioPrefix turns a video seed into its autogenerated radio playlist.
	radioPrefix = "RDAMVM"

	maxReplyBytes = 4 << 20
)

// Client is the ports.Source backed by the YouTube Music internal API.
// FetchPage drives the watch-next queue (seed page + continuations) and
// SubmitFeedback maps to the like/dislike rating endpoints. An optional
// PageCache shortcuts repeat fetches of the same (seed, cursor) so a popular
// curated seed is not re-fetched for every new session.
type Client struct {
	base     string
	apiKey   string
	hl, gl   string
	http     *http.Client
	cache    ports.PageCache
	cacheTTL time.Duration
}

func NewClient(cfg types.UpstreamConfig, cache ports.PageCache, cacheTTL time.Duration) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	hl := cfg.HL
	if hl == "" {
		hl = "en"
	}
	gl := cfg.GL
	if gl == "" {
		gl = "US"
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = time.Duration(types.DefaultUpstreamTimeoutSec) * time.Second
	}
	return &Client{
		base:     base,
		apiKey:   cfg.APIKey,
		hl:       hl,
		gl:       gl,
		http:     &http.Client{Timeout: timeout},
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (c *Client) FetchPage(ctx context.Context, seed types.Seed, cursor types.Cursor) (types.Page, error) {
	if seed.Station != "" {
		return types.Page{}, types.Err(types.ErrFetchFailed, nil, "ytmusic source does not serve station seeds")
	}
	if seed.IsZero() {
		return types.Page{}, types.Err(types.ErrFetchFailed, nil, "empty seed")
	}
	key := c.pageKey(seed, cursor)
	if c.cache != nil {
		if page, ok, err := c.cache.Get(ctx, key); err != nil {
			log.WithError(err).Warn("page cache read failed")
		} else if ok {
			return page, nil
		}
	}

	reply, err := c.post(ctx, nextPath, c.nextRequest(seed, cursor))
	if err != nil {
		return types.Page{}, types.Err(types.ErrFetchFailed, err, "next %s", seed.Key())
	}
	page, err := parseNextReply(reply, cursor != "")
	if err != nil {
		return types.Page{}, types.Err(types.ErrFetchFailed, err, "")
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, key, page, c.cacheTTL); err != nil {
			log.WithError(err).Warn("page cache write failed")
		}
	}
	return page, nil
}

func (c *Client) SubmitFeedback(ctx context.Context, trackID string, polarity types.Polarity) error {
	path := likePath
	if polarity == types.PolarityNegative {
		path = dislikePath
	}
	body := map[string]any{
		"context": c.innertubeContext(),
		"target":  map[string]any{"videoId": trackID},
	}
	if _, err := c.post(ctx, path, body); err != nil {
		return types.Err(types.ErrFeedbackFailed, err, "rate %s %s", types.PolarityTextMap[polarity], trackID)
	}
	return nil
}

func (c *Client) innertubeContext() map[string]any {
	return map[string]any{
		"client": map[string]any{
			"clientName":    clientName,
			"clientVersion": clientVersion,
			"hl":            c.hl,
			"gl":            c.gl,
		},
	}
}

// nextRequest builds the watch-next request body. A continuation replaces the
// seed entirely; the upstream rejects bodies carrying both.
func (c *Client) nextRequest(seed types.Seed, cursor types.Cursor) map[string]any {
	req := map[string]any{
		"context": c.innertubeContext(),
	}
	if cursor != "" {
		req["continuation"] = string(cursor)
		return req
	}
	if seed.VideoID != "" {
		req["videoId"] = seed.VideoID
		req["playlistId"] = radioPrefix + seed.VideoID
	} else {
		req["playlistId"] = seed.PlaylistID
	}
	req["enablePersistentPlaylistPanel"] = true
	req["isAudioOnly"] = true
	req["tunerSettingValue"] = "AUTOMIX_SETTING_NORMAL"
	return req
}

func (c *Client) post(ctx context.Context, path string, body any) (map[string]any, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	u := c.base + path
	if c.apiKey != "" {
		u += "?key=" + url.QueryEscape(c.apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", c.base)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode/100 != 2 {
		return nil, types.Err(types.ErrUpstreamStatus, nil, "%s: status %d", path, resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, err
	}
	var reply map[string]any
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, types.Err(types.ErrMalformedReply, err, "")
	}
	return reply, nil
}

// pageKey derives the cache key for one (seed, cursor, locale) fetch.
func (c *Client) pageKey(seed types.Seed, cursor types.Cursor) string {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%s|%s|%s|%s", seed.Key(), cursor, c.hl, c.gl)
	return fmt.Sprintf("ytm:%x", h.Sum64())
}
