package catalog

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/goccy/go-yaml"

	"github.com/mdjubayerd1/vivi-music/internal/types"
)

// StationFile is the YAML document a station is seeded from: a name plus its
// tracks in play order.
type StationFile struct {
	Station string        `yaml:"station"`
	Tracks  []types.Track `yaml:"tracks"`
}

// ParseStationFile validates a station definition document.
func ParseStationFile(raw []byte) (StationFile, error) {
	var sf StationFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return sf, types.Err(types.ErrInvalidStationDef, err, "")
	}
	if sf.Station == "" {
		return sf, types.Err(types.ErrInvalidStationDef, nil, "station name missing")
	}
	if len(sf.Tracks) == 0 {
		return sf, types.Err(types.ErrInvalidStationDef, nil, "station %s has no tracks", sf.Station)
	}
	for i, t := range sf.Tracks {
		if t.ID == "" {
			return sf, types.Err(types.ErrInvalidStationDef, nil, "track %d in station %s: missing id", i, sf.Station)
		}
	}
	return sf, nil
}

// LoadStationFile reads a station YAML file and upserts every track into the
// catalog, returning how many were written. Deployments use it to seed and
// refresh stations; position follows file order.
func (s *Source) LoadStationFile(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, types.Err(types.ErrInvalidStationDef, err, "read %s", path)
	}
	sf, err := ParseStationFile(raw)
	if err != nil {
		return 0, err
	}
	for i, t := range sf.Tracks {
		if err := s.PutTrack(ctx, sf.Station, i, t); err != nil {
			return i, err
		}
	}
	return len(sf.Tracks), nil
}

// PutTrack upserts one track at a position within a station.
func (s *Source) PutTrack(ctx context.Context, station string, position int, t types.Track) error {
	item, err := attributevalue.MarshalMap(trackRow{
		PK:    pkStation(station),
		SK:    skTrack(position),
		Track: t,
	})
	if err != nil {
		return types.Err(types.ErrCatalogAccess, err, "")
	}
	_, err = s.cli.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.table,
		Item:      item,
	})
	if err != nil {
		return types.Err(types.ErrCatalogAccess, err, "put %s[%d]", station, position)
	}
	return nil
}
