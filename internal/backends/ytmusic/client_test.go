package ytmusic

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/goccy/go-json"

	"github.com/mdjubayerd1/vivi-music/internal/cache"
	"github.com/mdjubayerd1/vivi-music/internal/types"
)

func (s *UnitTestSuite) TestFetchSeedPage() {
	var gotPath, gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		_ = json.NewEncoder(w).Encode(panelReply(false, queuePanel("CONT1",
			videoRenderer("v1", "First Song", []string{"Artist A", "Artist B"}, "3:25", "https://img.example/v1/big.jpg"),
			videoRenderer("v2", "Second Song", []string{"Solo Artist"}, "4:05", "https://img.example/v2/big.jpg"),
		)))
	}))
	defer srv.Close()

	cli := NewClient(types.UpstreamConfig{BaseURL: srv.URL, APIKey: "testkey"}, nil, 0)
	page, err := cli.FetchPage(context.Background(), types.Seed{PlaylistID: "PL1"}, "")
	s.Require().NoError(err)

	s.Equal(nextPath, gotPath)
	s.Equal("testkey", gotKey)
	s.Equal("PL1", gotBody["playlistId"])
	s.NotContains(gotBody, "continuation")

	s.Require().Len(page.Tracks, 2)
	s.Equal(types.Track{
		ID:           "v1",
		Title:        "First Song",
		Artists:      []string{"Artist A", "Artist B"},
		ThumbnailURL: "https://img.example/v1/big.jpg",
		DurationSec:  205,
	}, page.Tracks[0])
	s.Equal("v2", page.Tracks[1].ID)
	s.Equal(types.Cursor("CONT1"), page.Continuation)
}

func (s *UnitTestSuite) TestFetchVideoSeedBuildsRadio() {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		_ = json.NewEncoder(w).Encode(panelReply(false, queuePanel("",
			videoRenderer("v7", "Radio Song", []string{"Somebody"}, "2:59", "https://img.example/v7/big.jpg"),
		)))
	}))
	defer srv.Close()

	cli := NewClient(types.UpstreamConfig{BaseURL: srv.URL}, nil, 0)
	page, err := cli.FetchPage(context.Background(), types.Seed{VideoID: "v7"}, "")
	s.Require().NoError(err)

	s.Equal("v7", gotBody["videoId"])
	s.Equal(radioPrefix+"v7", gotBody["playlistId"])
	// Final page: the panel carries no continuation.
	s.Equal(types.Cursor(""), page.Continuation)
}

func (s *UnitTestSuite) TestFetchContinuation() {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		_ = json.NewEncoder(w).Encode(panelReply(true, queuePanel("CONT2",
			videoRenderer("v3", "Third Song", []string{"Artist C"}, "3:00", "https://img.example/v3/big.jpg"),
		)))
	}))
	defer srv.Close()

	cli := NewClient(types.UpstreamConfig{BaseURL: srv.URL}, nil, 0)
	page, err := cli.FetchPage(context.Background(), types.Seed{PlaylistID: "PL1"}, "CONT1")
	s.Require().NoError(err)

	s.Equal("CONT1", gotBody["continuation"])
	s.NotContains(gotBody, "playlistId")
	s.Require().Len(page.Tracks, 1)
	s.Equal("v3", page.Tracks[0].ID)
	s.Equal(types.Cursor("CONT2"), page.Continuation)
}

func (s *UnitTestSuite) TestFetchErrorMapping() {
	status := http.StatusInternalServerError
	body := []byte("upstream sad")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	cli := NewClient(types.UpstreamConfig{BaseURL: srv.URL}, nil, 0)

	_, err := cli.FetchPage(context.Background(), types.Seed{PlaylistID: "PL1"}, "")
	s.ErrorIs(err, types.ErrFetchFailed)
	s.ErrorIs(err, types.ErrUpstreamStatus)

	// A 200 with an unexpected shape is malformed, not a status error.
	status = http.StatusOK
	body = []byte(`{"ok": true}`)
	_, err = cli.FetchPage(context.Background(), types.Seed{PlaylistID: "PL1"}, "")
	s.ErrorIs(err, types.ErrFetchFailed)
	s.ErrorIs(err, types.ErrMalformedReply)

	// Seeds this source cannot serve fail without a round trip.
	_, err = cli.FetchPage(context.Background(), types.Seed{Station: "indie"}, "")
	s.ErrorIs(err, types.ErrFetchFailed)
	_, err = cli.FetchPage(context.Background(), types.Seed{}, "")
	s.ErrorIs(err, types.ErrFetchFailed)
}

func (s *UnitTestSuite) TestSubmitFeedback() {
	var paths []string
	var bodies []map[string]any
	failNext := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(b, &body)
		bodies = append(bodies, body)
		if failNext {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cli := NewClient(types.UpstreamConfig{BaseURL: srv.URL}, nil, 0)

	s.NoError(cli.SubmitFeedback(context.Background(), "v1", types.PolarityPositive))
	s.NoError(cli.SubmitFeedback(context.Background(), "v2", types.PolarityNegative))
	s.Equal([]string{likePath, dislikePath}, paths)
	s.Equal(map[string]any{"videoId": "v1"}, bodies[0]["target"])
	s.Equal(map[string]any{"videoId": "v2"}, bodies[1]["target"])

	failNext = true
	err := cli.SubmitFeedback(context.Background(), "v3", types.PolarityPositive)
	s.ErrorIs(err, types.ErrFeedbackFailed)
	s.ErrorIs(err, types.ErrUpstreamStatus)
}

func (s *UnitTestSuite) TestPageCacheShortcut() {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_ = json.NewEncoder(w).Encode(panelReply(false, queuePanel("CONT1",
			videoRenderer("v1", "Cached Song", []string{"Artist"}, "3:25", "https://img.example/v1/big.jpg"),
		)))
	}))
	defer srv.Close()

	cli := NewClient(types.UpstreamConfig{BaseURL: srv.URL}, cache.NewMemoryPageCache(), time.Minute)
	seed := types.Seed{PlaylistID: "PL1"}

	first, err := cli.FetchPage(context.Background(), seed, "")
	s.Require().NoError(err)
	second, err := cli.FetchPage(context.Background(), seed, "")
	s.Require().NoError(err)
	s.Equal(1, hits)
	s.Equal(first, second)

	// A different cursor is a different cache entry.
	_, err = cli.FetchPage(context.Background(), seed, "CONT1")
	s.Error(err) // the continued reply shape does not match this fixture
	s.Equal(2, hits)
}
