package ytmusic

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jmespath/go-jmespath"

	"github.com/mdjubayerd1/vivi-music/internal/types"
)

// The watch-next reply buries the queue a long way down the renderer tree and
// the path differs between the seed page and continuations. JMESPath keeps
// the traversal declarative instead of a ladder of map assertions.
const (
	exprSeedPanel = "contents.singleColumnMusicWatchNextResultsRenderer.tabbedRenderer." +
		"watchNextTabbedResultsRenderer.tabs[0].tabRenderer.content." +
		"musicQueueRenderer.content.playlistPanelRenderer"
	exprContPanel = "continuationContents.playlistPanelContinuation"

	exprItems        = "contents[].playlistPanelVideoRenderer"
	exprContinuation = "continuations[0].nextContinuationData.continuation"

	exprVideoID = "videoId"
	exprTitle   = "title.runs[0].text"
	exprByline  = "longBylineText.runs[].text"
	exprLength  = "lengthText.runs[0].text"
	exprThumb   = "thumbnail.thumbnails[-1].url"
)

// evalAny returns the raw value selected by the JMESPath expression.
// It returns nil and no error if the expression does not match anything,
// same effect as the expression evaluating to `null`.
func evalAny(expression string, payload any) (any, error) {
	return jmespath.Search(expression, payload)
}

// evalString coerces the selection to string; primitives are JSON-encoded if needed.
func evalString(expression string, payload any) (*string, error) {
	v, err := evalAny(expression, payload)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case string:
		return &t, nil
	default:
		b, _ := json.Marshal(t)
		bs := string(b)
		return &bs, nil
	}
}

// parseNextReply maps one decoded watch-next reply to a Page. continued
// selects the continuation panel path instead of the seed panel path.
func parseNextReply(reply map[string]any, continued bool) (types.Page, error) {
	expr := exprSeedPanel
	if continued {
		expr = exprContPanel
	}
	panel, err := evalAny(expr, reply)
	if err != nil {
		return types.Page{}, types.Err(types.ErrMalformedReply, err, "")
	}
	if panel == nil {
		return types.Page{}, types.Err(types.ErrMalformedReply, nil, "queue panel missing")
	}

	var page types.Page
	items, err := evalAny(exprItems, panel)
	if err != nil {
		return types.Page{}, types.Err(types.ErrMalformedReply, err, "")
	}
	if list, ok := items.([]any); ok {
		page.Tracks = make([]types.Track, 0, len(list))
		for _, it := range list {
			if t, ok := parseTrack(it); ok {
				page.Tracks = append(page.Tracks, t)
			}
		}
	}

	if cont, err := evalString(exprContinuation, panel); err == nil && cont != nil {
		page.Continuation = types.Cursor(*cont)
	}
	return page, nil
}

// parseTrack maps one playlistPanelVideoRenderer. Items without a videoId
// (upsell stubs, unavailable tracks) are skipped rather than failing the page.
func parseTrack(item any) (types.Track, bool) {
	id, err := evalString(exprVideoID, item)
	if err != nil || id == nil || *id == "" {
		return types.Track{}, false
	}
	t := types.Track{ID: *id}
	if title, err := evalString(exprTitle, item); err == nil && title != nil {
		t.Title = *title
	}
	if thumb, err := evalString(exprThumb, item); err == nil && thumb != nil {
		t.ThumbnailURL = *thumb
	}
	if runs, err := evalAny(exprByline, item); err == nil {
		t.Artists = bylineArtists(runs)
	}
	if length, err := evalString(exprLength, item); err == nil && length != nil {
		t.DurationSec = parseLength(*length)
	}
	return t, true
}

// bylineArtists extracts artist names from the byline runs. The runs
// alternate names with separator runs and everything after the first bullet
// (album, year, view count) is not an artist.
func bylineArtists(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var artists []string
	for _, r := range list {
		s, ok := r.(string)
		if !ok {
			continue
		}
		if strings.Contains(s, "•") {
			break
		}
		if trimmed := strings.Trim(s, " ,&"); trimmed == "" {
			continue
		}
		artists = append(artists, s)
	}
	return artists
}

// parseLength converts "3:25" or "1:02:45" to seconds, 0 when unparseable.
func parseLength(s string) int {
	total := 0
	for _, part := range strings.Split(s, ":") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return total
}
