package command

import (
	"fmt"

	apperrors "github.com/louisbranch/fairsquares/internal/platform/errors"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/effect"
	"github.com/louisbranch/fairsquares/internal/services/estate/domain/event"
)

// Decision represents the pure outcome of a decider.
type Decision struct {
	Events     []event.Event
	Effects    []effect.Effect
	Rejections []Rejection
}

// Rejection captures a domain-level reason a command was declined.
type Rejection struct {
	Code     apperrors.Code
	Message  string
	Metadata map[string]string
}

// Accept returns a decision that emits the provided events.
func Accept(events ...event.Event) Decision {
	return Decision{Events: append([]event.Event(nil), events...)}
}

// Reject returns a decision that carries the provided rejections.
func Reject(rejections ...Rejection) Decision {
	return Decision{Rejections: append([]Rejection(nil), rejections...)}
}

// Rejectf returns a decision with a single formatted rejection.
func Rejectf(code apperrors.Code, format string, args ...any) Decision {
	return Reject(Rejection{Code: code, Message: fmt.Sprintf(format, args...)})
}

// WithEffects returns a copy of d that also queues effects.
func (d Decision) WithEffects(effects ...effect.Effect) Decision {
	d.Effects = append(append([]effect.Effect(nil), d.Effects...), effects...)
	return d
}

// Rejected reports whether the decision carries a rejection.
func (d Decision) Rejected() bool {
	return len(d.Rejections) > 0
}

// Err converts the first rejection into a domain error, or nil.
func (d Decision) Err() error {
	if !d.Rejected() {
		return nil
	}
	first := d.Rejections[0]
	if first.Metadata != nil {
		return apperrors.WithMetadata(first.Code, first.Message, first.Metadata)
	}
	return apperrors.New(first.Code, first.Message)
}
