package domain

// Priority represents the urgency assigned to an extracted record.
type Priority string

// Possible priority values.
const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// DefaultPriority is applied when the model omits or invents a priority.
const DefaultPriority = PriorityMedium

// DefaultTitle is applied when the model omits a record title.
const DefaultTitle = "Untitled Task"

// IsValid reports whether the priority is one of the known values.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// ExtractedRecord is one structured task-like unit recovered from model
// output. Records are created by the recovery engine, possibly rewritten by
// the consolidation pass, and never mutated after being placed on a
// completed job.
type ExtractedRecord struct {
	Title       string   `json:"title"`
	Details     string   `json:"details"`
	Assignee    string   `json:"assignee,omitempty"`
	Group       string   `json:"group,omitempty"`
	Category    string   `json:"category,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	Priority    Priority `json:"priority"`
	TicketRef   string   `json:"ticket_ref,omitempty"`
	ExternalRef string   `json:"external_ref,omitempty"`
}

// Normalize applies the defaults every recovery strategy guarantees:
// a missing title becomes DefaultTitle and a missing or unknown priority
// becomes DefaultPriority. All other optional fields stay as-is.
func (r *ExtractedRecord) Normalize() {
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	if !r.Priority.IsValid() {
		r.Priority = DefaultPriority
	}
}
