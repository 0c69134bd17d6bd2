package lifecycle

import (
	"fmt"
	"time"

	"github.com/yourusername/swiftpay-review/models"
	"github.com/yourusername/swiftpay-review/store"
)

// Event is an employee action that moves a transaction between states.
type Event string

const (
	EventVerify Event = "verify"
	EventReject Event = "reject"
	EventSubmit Event = "submit"
)

type transition struct {
	from models.Status
	to   models.Status
	// conflict is reported when the record is not in from at write time.
	conflict string
}

//	PendingVerification --verify--> Verified --submit--> Submitted
//	PendingVerification --reject--> Rejected
var transitions = map[Event]transition{
	EventVerify: {
		from:     models.StatusPendingVerification,
		to:       models.StatusVerified,
		conflict: "Transaction is not in a verifiable state",
	},
	EventReject: {
		from:     models.StatusPendingVerification,
		to:       models.StatusRejected,
		conflict: "Transaction is not in a rejectable state",
	},
	EventSubmit: {
		from:     models.StatusVerified,
		to:       models.StatusSubmitted,
		conflict: "Transaction is not in a submittable state",
	},
}

// Next returns the state reached by applying ev to a record in state from.
// Any pair outside the transition table is an INVALID_STATE_TRANSITION.
func Next(from models.Status, ev Event) (models.Status, error) {
	t, ok := transitions[ev]
	if !ok || t.from != from {
		return "", stateConflict(CodeInvalidStateTransition,
			fmt.Sprintf("Cannot %s a transaction in state %s", ev, from))
	}
	return t.to, nil
}

// refusal is the error for a conditional write of ev that found the record
// in state current. A final record can never take ev; any other mismatch
// means the record is not (or no longer) in the source state.
func refusal(current models.Status, ev Event) error {
	if current.Terminal() {
		if _, err := Next(current, ev); err != nil {
			return err
		}
	}
	return stateConflict(CodeInvalidState, transitions[ev].conflict)
}

// stamp is the outcome metadata written by one transition.
type stamp struct {
	actor         string
	at            time.Time
	reason        string
	submissionRef string
}

func (t transition) fields(s stamp) store.Fields {
	f := store.Fields{models.ColStatus: t.to}
	switch t.to {
	case models.StatusVerified:
		f[models.ColVerifiedBy] = s.actor
		f[models.ColVerifiedAt] = s.at
		// A verified record never carries reject metadata.
		f[models.ColRejectedBy] = nil
		f[models.ColRejectedAt] = nil
		f[models.ColRejectionReason] = nil
	case models.StatusRejected:
		f[models.ColRejectedBy] = s.actor
		f[models.ColRejectedAt] = s.at
		f[models.ColRejectionReason] = s.reason
		f[models.ColVerifiedBy] = nil
		f[models.ColVerifiedAt] = nil
	case models.StatusSubmitted:
		f[models.ColSubmittedBy] = s.actor
		f[models.ColSubmittedAt] = s.at
		f[models.ColSubmissionRef] = s.submissionRef
	}
	return f
}
