package ports

import (
	"context"

	"github.com/mdjubayerd1/vivi-music/internal/types"
)

// Publisher fans feedback events out to interested consumers (playlist
// builders, analytics). Best-effort; the catalog logs and moves on when a
// publish fails.
type Publisher interface {
	PublishFeedback(ctx context.Context, topicARN string, ev types.FeedbackEvent) error
}
