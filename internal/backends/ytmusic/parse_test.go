package ytmusic

import "github.com/mdjubayerd1/vivi-music/internal/types"

func (s *UnitTestSuite) TestParseLength() {
	s.Equal(205, parseLength("3:25"))
	s.Equal(3765, parseLength("1:02:45"))
	s.Equal(59, parseLength("0:59"))
	s.Equal(0, parseLength(""))
	s.Equal(0, parseLength("LIVE"))
}

func (s *UnitTestSuite) TestBylineArtists() {
	s.Equal([]string{"Artist A", "Artist B"}, bylineArtists([]any{
		"Artist A", ", ", "Artist B", " • ", "Album", " • ", "2024",
	}))
	s.Equal([]string{"Solo"}, bylineArtists([]any{"Solo"}))
	s.Nil(bylineArtists(nil))
	s.Nil(bylineArtists([]any{" • ", "Album"}))
	s.Equal([]string{"A", "B", "C"}, bylineArtists([]any{"A", ", ", "B", " & ", "C"}))
}

func (s *UnitTestSuite) TestParseTrackSkipsStubs() {
	// Renderers without a videoId (upsells, unavailable items) are dropped.
	_, ok := parseTrack(map[string]any{"title": map[string]any{}})
	s.False(ok)

	t, ok := parseTrack(map[string]any{"videoId": "v9"})
	s.True(ok)
	s.Equal(types.Track{ID: "v9"}, t)
}

func (s *UnitTestSuite) TestParseNextReply() {
	reply := panelReply(false, queuePanel("TOKEN",
		videoRenderer("v1", "One", []string{"A"}, "3:25", "https://img.example/v1/big.jpg"),
	))
	page, err := parseNextReply(reply, false)
	s.Require().NoError(err)
	s.Len(page.Tracks, 1)
	s.Equal(types.Cursor("TOKEN"), page.Continuation)

	// Same reply read as a continuation has no panel where expected.
	_, err = parseNextReply(reply, true)
	s.ErrorIs(err, types.ErrMalformedReply)

	// A page that mixes stubs into the queue keeps only real tracks.
	mixed := panelReply(true, map[string]any{
		"contents": []any{
			map[string]any{"automixPreviewVideoRenderer": map[string]any{}},
			map[string]any{"playlistPanelVideoRenderer": videoRenderer(
				"v2", "Two", []string{"B"}, "2:00", "https://img.example/v2/big.jpg")},
		},
	})
	page, err = parseNextReply(mixed, true)
	s.Require().NoError(err)
	s.Len(page.Tracks, 1)
	s.Equal("v2", page.Tracks[0].ID)
	s.Equal(types.Cursor(""), page.Continuation)
}
