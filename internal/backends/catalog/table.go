package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbTypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	log "github.com/sirupsen/logrus"
)

// One table, two item kinds:
//   STATION#<name> / TRACK#<position>  a station's playable entries in order
//   TRACK#<id>     / RATING            the global score row for a track
const (
	SStation = "STATION"
	STrack   = "TRACK"
	SRating  = "RATING"
)

func pkStation(name string) string { return fmt.Sprintf("%s#%s", SStation, name) }

func skTrack(position int) string { return fmt.Sprintf("%s#%08d", STrack, position) }

func pkTrack(id string) string { return fmt.Sprintf("%s#%s", STrack, id) }

func skRating() string { return SRating }

func createTableIfNotExists(client *dynamodb.Client, table string) {
	_, err := client.CreateTable(context.Background(), &dynamodb.CreateTableInput{
		TableName: &table,
		AttributeDefinitions: []ddbTypes.AttributeDefinition{
			{AttributeName: awsString("PK"), AttributeType: ddbTypes.ScalarAttributeTypeS},
			{AttributeName: awsString("SK"), AttributeType: ddbTypes.ScalarAttributeTypeS},
		},
		KeySchema: []ddbTypes.KeySchemaElement{
			{AttributeName: awsString("PK"), KeyType: ddbTypes.KeyTypeHash},
			{AttributeName: awsString("SK"), KeyType: ddbTypes.KeyTypeRange},
		},
		BillingMode: ddbTypes.BillingModePayPerRequest,
	})
	var re *ddbTypes.ResourceInUseException
	if err != nil && !errorAs(err, &re) {
		log.Fatalf("Failed to create table %s: %v", table, err)
	}
}

func itoa(i int64) string { return strconv.FormatInt(i, 10) }

func awsString(s string) *string { return &s }

func awsInt32(i int32) *int32 { return &i }

func errorAs(err error, target any) bool { return errors.As(err, target) }
