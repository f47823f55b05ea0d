package types

func (s *UnitTestSuite) TestSeedKey() {
	s.Equal("playlist:PL123", Seed{PlaylistID: "PL123"}.Key())
	s.Equal("video:v9", Seed{VideoID: "v9"}.Key())
	s.Equal("station:indie", Seed{Station: "indie"}.Key())
	s.Equal("none", Seed{}.Key())

	// Playlist wins when several fields are set.
	s.Equal("playlist:PL123", Seed{PlaylistID: "PL123", VideoID: "v9"}.Key())

	s.True(Seed{}.IsZero())
	s.False(Seed{Station: "indie"}.IsZero())
}

func (s *UnitTestSuite) TestParsePolarity() {
	s.Equal(PolarityPositive, ParsePolarity("positive"))
	s.Equal(PolarityNegative, ParsePolarity("negative"))
	s.Equal(Polarity(0), ParsePolarity(""))
	s.Equal(Polarity(0), ParsePolarity("meh"))
	s.Equal("positive", PolarityTextMap[PolarityPositive])
}

func (s *UnitTestSuite) TestTypedErrors() {
	err := Err(ErrFetchFailed, ErrUpstreamStatus, "status %d", 503)
	s.ErrorIs(err, ErrFetchFailed)
	s.ErrorIs(err, ErrUpstreamStatus)
	s.Contains(err.Error(), "503")

	err = Err(ErrBadCursor, nil, "")
	s.ErrorIs(err, ErrBadCursor)
	s.NotErrorIs(err, ErrFetchFailed)
}
