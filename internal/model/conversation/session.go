package conversation

import "time"

// State enumerates the dialogue positions a session can occupy.
type State string

const (
	// StateInitial is free-form chat; keyword queries switch into the guided flow.
	StateInitial State = "initial"
	// StateAwaitingEmployeeID means the next message is stored as the employee id.
	StateAwaitingEmployeeID State = "awaiting_employee_id"
	// StateAwaitingCompanyID means the next message completes the lookup.
	StateAwaitingCompanyID State = "awaiting_company_id"
)

// Session tracks the dialogue progress of a single live connection.
// Exactly one exists per connection; it never survives a disconnect.
type Session struct {
	ID         string    `json:"id"`
	State      State     `json:"state"`
	EmployeeID string    `json:"employeeId,omitempty"`
	CompanyID  string    `json:"companyId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
