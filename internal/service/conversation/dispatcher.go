package conversation

import (
	"context"
	"fmt"
	"log"
	"strings"

	trainingModel "github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/model/training"
	"github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/service/completion"
	"github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/service/training"
)

const (
	// ReplyFallback is the only error text a user ever sees.
	ReplyFallback         = "An error occurred while processing your request."
	replyPromptEmployeeID = "Enter your Employee ID"
	replyPromptCompanyID  = "Enter your Company ID"
)

// Emitter delivers one reply to the originating connection.
type Emitter func(response string) error

// Dispatcher orchestrates one inbound message end to end: session snapshot,
// transition, remote calls, epoch-guarded write-back, and exactly one
// emission. Callers must serialize invocations per connection; the websocket
// handler does so with a single worker per connection.
type Dispatcher struct {
	store       *Store
	classifier  Classifier
	completions completion.Client // nil when the completion service is not configured
	trainings   training.Client   // nil when the HR system is not configured
}

// NewDispatcher wires the dispatcher. Either remote client may be nil; the
// corresponding actions then resolve to their fallback values.
func NewDispatcher(store *Store, classifier Classifier, completions completion.Client, trainings training.Client) *Dispatcher {
	return &Dispatcher{
		store:       store,
		classifier:  classifier,
		completions: completions,
		trainings:   trainings,
	}
}

// HandleMessage processes one inbound message for a connection. It emits
// exactly one reply unless the session was torn down while remote calls were
// in flight, in which case the result is discarded silently.
func (d *Dispatcher) HandleMessage(ctx context.Context, connID, query string, emit Emitter) {
	var epoch uint64

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[dispatch] recovered conn=%s: %v", connID, r)
			if d.store.Reset(connID, epoch) {
				if err := emit(ReplyFallback); err != nil {
					log.Printf("[dispatch] emit fallback failed conn=%s: %v", connID, err)
				}
			}
		}
	}()

	sess, ep, ok := d.store.Snapshot(connID)
	if !ok {
		// Connect should have created it; recover rather than drop the message.
		sess, ep = d.store.Create(connID)
	}
	epoch = ep

	next, action := Transition(sess, query, d.classifier)
	reply := d.resolve(ctx, action)

	if !d.store.Update(connID, epoch, next) {
		// Disconnected (or id reused) while remote calls were in flight.
		log.Printf("[dispatch] discarding stale reply conn=%s", connID)
		return
	}

	if err := emit(reply); err != nil {
		log.Printf("[dispatch] emit failed conn=%s: %v", connID, err)
	}
}

// resolve turns a transition action into the reply text, performing whatever
// remote calls it requires.
func (d *Dispatcher) resolve(ctx context.Context, action Action) string {
	switch action.Kind {
	case ActionPromptEmployeeID:
		return replyPromptEmployeeID
	case ActionPromptCompanyID:
		return replyPromptCompanyID
	case ActionLookup:
		pending := d.fetchTrainings(ctx, trainingModel.StatusPending, action.EmployeeID, action.CompanyID)
		completed := d.fetchTrainings(ctx, trainingModel.StatusCompleted, action.EmployeeID, action.CompanyID)
		return formatSummary(pending, completed)
	default:
		return d.complete(ctx, action.Prompt)
	}
}

func (d *Dispatcher) complete(ctx context.Context, prompt string) string {
	if d.completions == nil {
		return ReplyFallback
	}
	text, err := d.completions.Complete(ctx, prompt)
	if err != nil {
		log.Printf("[dispatch] completion failed: %v", err)
		return ReplyFallback
	}
	return text
}

// fetchTrainings maps any lookup failure to an empty record set so one
// status's failure never suppresses the other's result.
func (d *Dispatcher) fetchTrainings(ctx context.Context, status trainingModel.Status, employeeID, companyID string) []trainingModel.Record {
	if d.trainings == nil {
		return nil
	}
	records, err := d.trainings.FetchTrainings(ctx, status, employeeID, companyID)
	if err != nil {
		log.Printf("[dispatch] training lookup failed status=%s: %v", status, err)
		return nil
	}
	return records
}

func formatSummary(pending, completed []trainingModel.Record) string {
	return fmt.Sprintf("You have %d pending trainings: %s. You have completed %d trainings: %s.",
		len(pending), joinNames(pending), len(completed), joinNames(completed))
}

func joinNames(records []trainingModel.Record) string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	return strings.Join(names, ", ")
}
