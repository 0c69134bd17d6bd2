package lifecycle

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// BatchResult reports the outcome of a batch transition. Partial success is
// success: only a batch that changed nothing is returned as an error.
type BatchResult struct {
	Requested     int    `json:"requested"`
	Matched       int    `json:"matched"`
	Modified      int    `json:"modified"`
	Failed        int    `json:"failed"`
	SubmissionRef string `json:"swiftSubmissionRef,omitempty"`
	Message       string `json:"-"`
}

type batchText struct {
	noneCode string
	none     string
	all      string // %d modified
	partial  string // %d modified, %d failed
}

var batchTexts = map[Event]batchText{
	EventVerify: {
		noneCode: CodeNoTransactionsVerified,
		none:     "No transactions were verified. Ensure they are in PendingVerification state.",
		all:      "Verified %d transaction(s) successfully.",
		partial:  "Verified %d transaction(s). %d were not in verifiable state.",
	},
	EventSubmit: {
		noneCode: CodeNoTransactionsSubmitted,
		none:     "No transactions were submitted. Ensure they are in Verified state.",
		all:      "Submitted %d transaction(s) to SWIFT successfully.",
		partial:  "Submitted %d transaction(s) to SWIFT. %d could not be submitted.",
	},
}

// BatchVerify verifies every listed id that is still PendingVerification.
func (e *Engine) BatchVerify(ctx context.Context, actor Principal, ids []string) (BatchResult, error) {
	return e.applyBatch(ctx, actor, ids, EventVerify)
}

// BatchSubmit submits every listed id that is Verified. All records submitted
// by one call share a submission reference.
func (e *Engine) BatchSubmit(ctx context.Context, actor Principal, ids []string) (BatchResult, error) {
	return e.applyBatch(ctx, actor, ids, EventSubmit)
}

func (e *Engine) applyBatch(ctx context.Context, actor Principal, rawIDs []string, ev Event) (BatchResult, error) {
	if err := requireEmployee(actor, string(ev)+" transactions"); err != nil {
		return BatchResult{}, err
	}
	ids, err := parseBatchIDs(rawIDs)
	if err != nil {
		return BatchResult{}, err
	}

	t := transitions[ev]
	text := batchTexts[ev]
	s := stamp{actor: actor.ID, at: e.now()}
	if ev == EventSubmit {
		s.submissionRef = e.newID()
	}

	out, err := e.store.TransitionBatch(ctx, ids, t.from, t.fields(s))
	if err != nil {
		e.logger.Error("batch transition failed",
			zap.String("event", string(ev)),
			zap.Int("requested", len(ids)),
			zap.Error(err),
		)
		return BatchResult{}, storeFailure(fmt.Sprintf("Unable to %s transactions", ev), err)
	}

	res := BatchResult{
		Requested: len(ids),
		Matched:   int(out.Matched),
		Modified:  int(out.Modified),
	}
	res.Failed = res.Requested - res.Modified

	e.logger.Info("batch transitioned",
		zap.String("event", string(ev)),
		zap.String("actor_id", actor.ID),
		zap.Int("requested", res.Requested),
		zap.Int("modified", res.Modified),
		zap.Int("failed", res.Failed),
	)

	if res.Modified == 0 {
		cerr := stateConflict(text.noneCode, text.none)
		cerr.Field = "transactionIds"
		return res, cerr
	}
	if ev == EventSubmit {
		res.SubmissionRef = s.submissionRef
	}
	if res.Failed > 0 {
		res.Message = fmt.Sprintf(text.partial, res.Modified, res.Failed)
	} else {
		res.Message = fmt.Sprintf(text.all, res.Modified)
	}
	return res, nil
}

// MaxBatchSize bounds the ids of one batch request, well below the bind
// parameter limits of SQLite and Postgres.
const MaxBatchSize = 500

// parseBatchIDs validates a batch payload and collapses duplicate ids.
func parseBatchIDs(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, invalidInput(CodeInvalidSubmission, "transactionIds", "transactionIds array is required")
	}
	if len(raw) > MaxBatchSize {
		return nil, invalidInput(CodeInvalidSubmission, "transactionIds",
			fmt.Sprintf("transactionIds may hold at most %d entries", MaxBatchSize))
	}

	seen := make(map[string]struct{}, len(raw))
	ids := make([]string, 0, len(raw))
	var details []FieldError
	for i, r := range raw {
		id, ferr := parseID(fmt.Sprintf("transactionIds[%d]", i), r)
		if ferr != nil {
			details = append(details, *ferr)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(details) > 0 {
		return nil, validationError(details)
	}
	return ids, nil
}
