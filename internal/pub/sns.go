// Package pub publishes feedback events to SNS for downstream
// taste-model consumers.
package pub

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snsTypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	json "github.com/goccy/go-json"

	"github.com/mdjubayerd1/vivi-music/internal/types"
)

type snsPublisher struct{ cli *sns.Client }

func NewSNS(c *sns.Client) *snsPublisher { return &snsPublisher{cli: c} }

// PublishFeedback sends one verdict to the topic as a JSON message. The
// event-type attribute lets subscriptions filter without parsing the body.
func (p *snsPublisher) PublishFeedback(ctx context.Context, topicARN string, ev types.FeedbackEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal feedback event: %w", err)
	}
	_, err = p.cli.Publish(ctx, &sns.PublishInput{
		TopicArn: &topicARN,
		Message:  aws.String(string(b)),
		MessageAttributes: map[string]snsTypes.MessageAttributeValue{
			"content-type": {DataType: aws.String("String"), StringValue: aws.String("application/json")},
			"event-type":   {DataType: aws.String("String"), StringValue: aws.String("feedback")},
		},
	})
	return err
}
