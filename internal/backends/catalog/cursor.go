package catalog

import (
	"encoding/base64"

	ddbTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"

	"github.com/mdjubayerd1/vivi-music/internal/types"
)

var enc, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
var dec, _ = zstd.NewReader(nil)

// startKey is the serializable form of DynamoDB's LastEvaluatedKey for the
// station queries this source issues (both key attributes are strings).
type startKey struct {
	PK string `json:"pk"`
	SK string `json:"sk"`
}

// encodeCursor seals a LastEvaluatedKey into an opaque continuation token:
// JSON, zstd, then URL-safe base64. Clients can carry it around but cannot
// meaningfully construct or edit one; a tampered token fails decoding.
func encodeCursor(last map[string]ddbTypes.AttributeValue) (types.Cursor, error) {
	var key startKey
	if v, ok := last["PK"].(*ddbTypes.AttributeValueMemberS); ok {
		key.PK = v.Value
	}
	if v, ok := last["SK"].(*ddbTypes.AttributeValueMemberS); ok {
		key.SK = v.Value
	}
	if key.PK == "" || key.SK == "" {
		return "", types.Err(types.ErrBadCursor, nil, "unexpected evaluated key shape")
	}
	b, err := json.Marshal(key)
	if err != nil {
		return "", err
	}
	z := enc.EncodeAll(b, make([]byte, 0, len(b)))
	return types.Cursor(base64.RawURLEncoding.EncodeToString(z)), nil
}

func decodeCursor(cursor types.Cursor) (map[string]ddbTypes.AttributeValue, error) {
	raw, err := base64.RawURLEncoding.DecodeString(string(cursor))
	if err != nil {
		return nil, types.Err(types.ErrBadCursor, err, "")
	}
	b, err := dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, types.Err(types.ErrBadCursor, err, "")
	}
	var key startKey
	if err := json.Unmarshal(b, &key); err != nil {
		return nil, types.Err(types.ErrBadCursor, err, "")
	}
	if key.PK == "" || key.SK == "" {
		return nil, types.Err(types.ErrBadCursor, nil, "missing key fields")
	}
	return map[string]ddbTypes.AttributeValue{
		"PK": &ddbTypes.AttributeValueMemberS{Value: key.PK},
		"SK": &ddbTypes.AttributeValueMemberS{Value: key.SK},
	}, nil
}
