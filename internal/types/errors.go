package types

import (
	"errors"
	"fmt"
)

var (
	ErrFetchFailed    = errors.New("page fetch failed")
	ErrFeedbackFailed = errors.New("feedback submit failed")

	ErrUpstreamStatus = errors.New("unexpected upstream status")
	ErrMalformedReply = errors.New("malformed upstream reply")
	ErrBadCursor      = errors.New("bad continuation cursor")

	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidConfig     = errors.New("invalid service config")
	ErrInvalidBackend    = errors.New("invalid backend")
	ErrCatalogAccess     = errors.New("catalog read/write error")
	ErrInvalidStationDef = errors.New("invalid station definition")
)

func Err(typedError error, innerErr error, msgTemplate string, args ...any) error {
	if msgTemplate == "" {
		return errors.Join(typedError, innerErr)
	} else {
		return errors.Join(typedError, innerErr, fmt.Errorf(msgTemplate, args...))
	}
}
