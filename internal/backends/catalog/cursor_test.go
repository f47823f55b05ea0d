package catalog

import (
	ddbTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mdjubayerd1/vivi-music/internal/types"
)

func (s *UnitTestSuite) TestCursorRoundTrip() {
	last := map[string]ddbTypes.AttributeValue{
		"PK": &ddbTypes.AttributeValueMemberS{Value: pkStation("indie")},
		"SK": &ddbTypes.AttributeValueMemberS{Value: skTrack(19)},
	}
	cur, err := encodeCursor(last)
	s.Require().NoError(err)
	s.NotEmpty(cur)

	got, err := decodeCursor(cur)
	s.Require().NoError(err)
	s.Equal(last, got)
}

func (s *UnitTestSuite) TestCursorRejectsGarbage() {
	_, err := decodeCursor("!!!not-base64!!!")
	s.ErrorIs(err, types.ErrBadCursor)

	// Valid base64, not zstd.
	_, err = decodeCursor("aGVsbG8gd29ybGQ")
	s.ErrorIs(err, types.ErrBadCursor)

	// Round-trip of an incomplete key fails on encode already.
	_, err = encodeCursor(map[string]ddbTypes.AttributeValue{
		"PK": &ddbTypes.AttributeValueMemberS{Value: "STATION#indie"},
	})
	s.ErrorIs(err, types.ErrBadCursor)
}

func (s *UnitTestSuite) TestKeyLayout() {
	s.Equal("STATION#indie", pkStation("indie"))
	s.Equal("TRACK#00000007", skTrack(7))
	s.Equal("TRACK#v123", pkTrack("v123"))
	s.Equal("RATING", skRating())

	// Track SKs must sort in position order for Query pagination.
	s.Less(skTrack(9), skTrack(10))
	s.Less(skTrack(99), skTrack(100))
}
