package ports

import (
	"context"

	"github.com/mdjubayerd1/vivi-music/internal/types"
)

// Source is a paged track feed plus its feedback sink. The deck controller is
// the only caller; it serializes its own state, so implementations only need
// to be safe for concurrent calls, not ordered ones.
type Source interface {
	// FetchPage returns one page of the feed identified by seed. An empty
	// cursor requests the first page; any other value MUST be a Continuation
	// previously returned by the same source. Errors MUST wrap
	// types.ErrFetchFailed.
	FetchPage(ctx context.Context, seed types.Seed, cursor types.Cursor) (types.Page, error)

	// SubmitFeedback reports the verdict for one track. Callers treat it as
	// fire-and-forget: implementations MUST NOT retry internally for longer
	// than their configured timeout. Errors MUST wrap types.ErrFeedbackFailed.
	SubmitFeedback(ctx context.Context, trackID string, polarity types.Polarity) error
}
