// Package conversation implements the per-connection dialogue engine: the
// transition function over the guided training flow, the epoch-guarded
// session store, and the dispatcher that resolves transitions into replies.
package conversation

import (
	"strings"

	"github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/model/conversation"
)

// Intent is the coarse classification of an inbound query.
type Intent int

const (
	// IntentFreeForm goes to the completion service as-is.
	IntentFreeForm Intent = iota
	// IntentTrainingStatus enters the guided employee-id flow.
	IntentTrainingStatus
)

// Classifier decides whether a query triggers the guided flow. Kept as an
// interface so the trigger predicate can be swapped without touching the
// transition function.
type Classifier interface {
	Classify(query string) Intent
}

// KeywordClassifier matches trigger keywords as case-sensitive, unanchored
// substrings. Reference behavior: a sentence merely containing "pending" is
// classified as a training-status request.
type KeywordClassifier struct {
	keywords []string
}

// NewKeywordClassifier returns the default trigger predicate for
// training-status questions.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{keywords: []string{"pending", "completed"}}
}

func (c *KeywordClassifier) Classify(query string) Intent {
	for _, kw := range c.keywords {
		if strings.Contains(query, kw) {
			return IntentTrainingStatus
		}
	}
	return IntentFreeForm
}

// ActionKind names what the dispatcher must do after a transition.
type ActionKind int

const (
	// ActionDirectReply answers the prompt through the completion service.
	ActionDirectReply ActionKind = iota
	// ActionPromptEmployeeID asks for the employee id.
	ActionPromptEmployeeID
	// ActionPromptCompanyID asks for the company id.
	ActionPromptCompanyID
	// ActionLookup fetches pending and completed trainings and summarizes.
	ActionLookup
)

// Action is the resolved outcome of one transition. Prompt is set for
// ActionDirectReply; EmployeeID and CompanyID are set for ActionLookup.
type Action struct {
	Kind       ActionKind
	Prompt     string
	EmployeeID string
	CompanyID  string
}

// Transition is the pure state function: given the current session and an
// inbound query it returns the updated session and the action to perform.
// It never touches the store and performs no I/O.
func Transition(sess conversation.Session, query string, classify Classifier) (conversation.Session, Action) {
	switch sess.State {
	case conversation.StateAwaitingEmployeeID:
		sess.EmployeeID = strings.TrimSpace(query)
		sess.State = conversation.StateAwaitingCompanyID
		return sess, Action{Kind: ActionPromptCompanyID}

	case conversation.StateAwaitingCompanyID:
		action := Action{
			Kind:       ActionLookup,
			EmployeeID: sess.EmployeeID,
			CompanyID:  strings.TrimSpace(query),
		}
		sess.State = conversation.StateInitial
		sess.EmployeeID = ""
		sess.CompanyID = ""
		return sess, action

	default:
		// Initial, or anything unrecognized.
		sess.State = conversation.StateInitial
		if classify.Classify(query) == IntentTrainingStatus {
			sess.State = conversation.StateAwaitingEmployeeID
			return sess, Action{Kind: ActionPromptEmployeeID}
		}
		return sess, Action{Kind: ActionDirectReply, Prompt: query}
	}
}
