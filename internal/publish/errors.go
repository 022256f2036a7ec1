// ABOUTME: Error taxonomy for the publish pipeline.
// ABOUTME: Classifies every failure into one kind, carrying status and raw body.
package publish

import (
	"errors"
	"fmt"

	"github.com/draftsmith/wpbridge/internal/wordpress"
)

// Kind classifies where in the pipeline a publish failed.
type Kind int

const (
	// KindDiscovery is an unreachable site or missing OAuth1 advertisement.
	KindDiscovery Kind = iota
	// KindHandshake is a failed or incomplete OAuth1 handshake step.
	KindHandshake
	// KindDraftCreation is a failed create-post call or a response lacking an id.
	KindDraftCreation
	// KindConversion is a document the converter cannot process.
	KindConversion
	// KindMediaList is a failed media library listing fetch.
	KindMediaList
	// KindUpload is a failed image upload; it aborts the whole publish.
	KindUpload
	// KindUpdate is a non-2xx final content push.
	KindUpdate
)

func (k Kind) String() string {
	switch k {
	case KindDiscovery:
		return "discovery failure"
	case KindHandshake:
		return "handshake failure"
	case KindDraftCreation:
		return "draft creation failure"
	case KindConversion:
		return "conversion failure"
	case KindMediaList:
		return "media list failure"
	case KindUpload:
		return "upload failure"
	case KindUpdate:
		return "update failure"
	default:
		return "unknown failure"
	}
}

// Error is a classified publish failure. Status and Body are filled from the
// underlying HTTP response when one was received.
type Error struct {
	Kind   Kind
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError wraps err with a kind, lifting status and verbatim body out of a
// wordpress.StatusError when present.
func newError(kind Kind, err error) *Error {
	e := &Error{Kind: kind, Err: err}
	var statusErr *wordpress.StatusError
	if errors.As(err, &statusErr) {
		e.Status = statusErr.Code
		e.Body = statusErr.Body
	}
	return e
}
