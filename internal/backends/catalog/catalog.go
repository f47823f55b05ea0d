package catalog

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	log "github.com/sirupsen/logrus"

	"github.com/mdjubayerd1/vivi-music/internal/ports"
	"github.com/mdjubayerd1/vivi-music/internal/types"
)

// Source is the ports.Source backed by a self-hosted station catalog in
// DynamoDB. Pages come straight out of Query pagination: the continuation
// cursor is the sealed LastEvaluatedKey, so "fetch the next page" is exactly
// one Query with ExclusiveStartKey set. Feedback lands as an atomic score
// bump on the track's rating row and, when a topic is configured, fans out as
// an event for downstream consumers.
type Source struct {
	table    string
	cli      *dynamodb.Client
	pageSize int32
	pub      ports.Publisher
	topicARN string
}

type trackRow struct {
	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
	types.Track
}

func NewSource(table string, cli *dynamodb.Client, pageSize int, pub ports.Publisher, topicARN string) *Source {
	// Creates the table only if it doesn't exist.
	createTableIfNotExists(cli, table)
	if pageSize <= 0 {
		pageSize = types.DefaultCatalogPageSize
	}
	return &Source{
		table:    table,
		cli:      cli,
		pageSize: int32(pageSize),
		pub:      pub,
		topicARN: topicARN,
	}
}

func (s *Source) FetchPage(ctx context.Context, seed types.Seed, cursor types.Cursor) (types.Page, error) {
	if seed.Station == "" {
		return types.Page{}, types.Err(types.ErrFetchFailed, nil, "catalog source needs a station seed")
	}
	in := &dynamodb.QueryInput{
		TableName:              &s.table,
		KeyConditionExpression: awsString("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]ddbTypes.AttributeValue{
			":pk": &ddbTypes.AttributeValueMemberS{Value: pkStation(seed.Station)},
			":sk": &ddbTypes.AttributeValueMemberS{Value: STrack + "#"},
		},
		Limit: awsInt32(s.pageSize),
	}
	if cursor != "" {
		start, err := decodeCursor(cursor)
		if err != nil {
			return types.Page{}, types.Err(types.ErrFetchFailed, err, "")
		}
		in.ExclusiveStartKey = start
	}

	out, err := s.cli.Query(ctx, in)
	if err != nil {
		return types.Page{}, types.Err(types.ErrFetchFailed, types.Err(types.ErrCatalogAccess, err, ""), "station %s", seed.Station)
	}

	page := types.Page{Tracks: make([]types.Track, 0, len(out.Items))}
	for _, item := range out.Items {
		var row trackRow
		if err := attributevalue.UnmarshalMap(item, &row); err != nil {
			return types.Page{}, types.Err(types.ErrFetchFailed, err, "corrupt track row in station %s", seed.Station)
		}
		page.Tracks = append(page.Tracks, row.Track)
	}
	if len(out.LastEvaluatedKey) > 0 {
		cur, err := encodeCursor(out.LastEvaluatedKey)
		if err != nil {
			return types.Page{}, types.Err(types.ErrFetchFailed, err, "")
		}
		page.Continuation = cur
	}
	return page, nil
}

// SubmitFeedback bumps the track's global score: +1 for positive, -1 for
// negative. ADD is atomic and creates the rating row on first touch, so no
// read-modify-write and no preexistence requirement.
func (s *Source) SubmitFeedback(ctx context.Context, trackID string, polarity types.Polarity) error {
	delta := "1"
	if polarity == types.PolarityNegative {
		delta = "-1"
	}
	_, err := s.cli.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.table,
		Key: map[string]ddbTypes.AttributeValue{
			"PK": &ddbTypes.AttributeValueMemberS{Value: pkTrack(trackID)},
			"SK": &ddbTypes.AttributeValueMemberS{Value: skRating()},
		},
		UpdateExpression: awsString("SET #at = :at ADD #score :d"),
		ExpressionAttributeNames: map[string]string{
			"#score": "score",
			"#at":    "updated_at",
		},
		ExpressionAttributeValues: map[string]ddbTypes.AttributeValue{
			":d":  &ddbTypes.AttributeValueMemberN{Value: delta},
			":at": &ddbTypes.AttributeValueMemberN{Value: itoa(time.Now().Unix())},
		},
	})
	if err != nil {
		return types.Err(types.ErrFeedbackFailed, types.Err(types.ErrCatalogAccess, err, ""), "rate %s", trackID)
	}
	s.publishFeedback(ctx, trackID, polarity)
	return nil
}

// publishFeedback fans the verdict out to SNS. Best-effort: the score bump
// already committed, so a publish failure is logged and swallowed.
func (s *Source) publishFeedback(ctx context.Context, trackID string, polarity types.Polarity) {
	if s.pub == nil || s.topicARN == "" {
		return
	}
	ev := types.FeedbackEvent{
		TrackID: trackID,
		Verdict: types.PolarityTextMap[polarity],
		At:      time.Now().Unix(),
	}
	if err := s.pub.PublishFeedback(ctx, s.topicARN, ev); err != nil {
		log.WithError(err).WithField("track", trackID).Warn("feedback event publish failed")
	}
}
