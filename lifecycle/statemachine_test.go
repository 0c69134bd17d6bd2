package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/swiftpay-review/models"
)

func TestNext(t *testing.T) {
	allowed := map[models.Status]map[Event]models.Status{
		models.StatusPendingVerification: {
			EventVerify: models.StatusVerified,
			EventReject: models.StatusRejected,
		},
		models.StatusVerified: {
			EventSubmit: models.StatusSubmitted,
		},
	}

	for _, from := range models.Statuses {
		for _, ev := range []Event{EventVerify, EventReject, EventSubmit} {
			to, err := Next(from, ev)
			if want, ok := allowed[from][ev]; ok {
				require.NoError(t, err, "%s on %s", ev, from)
				assert.Equal(t, want, to)
				continue
			}
			requireCode(t, err, ErrStateConflict, CodeInvalidStateTransition)
		}
	}
}

func TestTerminalStatesHaveNoExit(t *testing.T) {
	for _, from := range models.Statuses {
		if !from.Terminal() {
			continue
		}
		for ev := range transitions {
			_, err := Next(from, ev)
			assert.Error(t, err, "%s on %s", ev, from)
		}
	}
}

func TestTransitionFieldsKeepGroupsExclusive(t *testing.T) {
	s := stamp{actor: "emp-1", reason: "Bad data", submissionRef: "ref"}

	verify := transitions[EventVerify].fields(s)
	assert.Equal(t, models.StatusVerified, verify[models.ColStatus])
	assert.Equal(t, "emp-1", verify[models.ColVerifiedBy])
	assert.Contains(t, verify, models.ColRejectionReason)
	assert.Nil(t, verify[models.ColRejectionReason])

	reject := transitions[EventReject].fields(s)
	assert.Equal(t, "Bad data", reject[models.ColRejectionReason])
	assert.Contains(t, reject, models.ColVerifiedBy)
	assert.Nil(t, reject[models.ColVerifiedBy])

	submit := transitions[EventSubmit].fields(s)
	assert.Equal(t, "ref", submit[models.ColSubmissionRef])
	assert.NotContains(t, submit, models.ColVerifiedBy)
}

func TestRefusal(t *testing.T) {
	tests := []struct {
		current models.Status
		ev      Event
		code    string
	}{
		{models.StatusVerified, EventVerify, CodeInvalidState},
		{models.StatusPendingVerification, EventSubmit, CodeInvalidState},
		{models.StatusRejected, EventVerify, CodeInvalidStateTransition},
		{models.StatusRejected, EventSubmit, CodeInvalidStateTransition},
		{models.StatusSubmitted, EventReject, CodeInvalidStateTransition},
	}
	for _, tt := range tests {
		t.Run(string(tt.ev)+" on "+string(tt.current), func(t *testing.T) {
			requireCode(t, refusal(tt.current, tt.ev), ErrStateConflict, tt.code)
		})
	}
}
