package training

// Record is a single training item as returned by the HR system.
// Order and duplicates are passed through as received.
type Record struct {
	Name string `json:"name"`
}

// Status filters a training lookup.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)
