package types

import "time"

// AssignmentStatus represents staff task status values
type AssignmentStatus string

const (
	AssignmentPending    AssignmentStatus = "pending"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentCancelled  AssignmentStatus = "cancelled"
)

var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentPending:    {AssignmentInProgress, AssignmentCancelled},
	AssignmentInProgress: {AssignmentCompleted, AssignmentCancelled},
	AssignmentCompleted:  {},
	AssignmentCancelled:  {},
}

// NextStatuses returns the legal transitions from the given status
func (s AssignmentStatus) NextStatuses() []AssignmentStatus {
	return assignmentTransitions[s]
}

// CanTransition reports whether moving to the target status is legal
func (s AssignmentStatus) CanTransition(to AssignmentStatus) bool {
	for _, next := range assignmentTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ActionLabel returns the user-facing label for a transition into this status
func (s AssignmentStatus) ActionLabel() string {
	switch s {
	case AssignmentInProgress:
		return "Start"
	case AssignmentCompleted:
		return "Complete"
	case AssignmentCancelled:
		return "Cancel"
	}
	return string(s)
}

// Assignment represents a staff task tied to a patient and room
type Assignment struct {
	ID            string           `json:"id"`
	PatientID     string           `json:"patient_id"`
	StaffID       string           `json:"staff_id"`
	RoomID        string           `json:"room_id,omitempty"`
	Description   string           `json:"description"`
	StartDatetime time.Time        `json:"start_datetime"`
	EndDatetime   *time.Time       `json:"end_datetime,omitempty"`
	Status        AssignmentStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// AssignmentFilters represents filters for assignment list queries
type AssignmentFilters struct {
	PatientID string           `json:"patient_id,omitempty"`
	StaffID   string           `json:"staff_id,omitempty"`
	Status    AssignmentStatus `json:"status,omitempty"`
	DateFrom  string           `json:"date_from,omitempty"`
	DateTo    string           `json:"date_to,omitempty"`
	Limit     int              `json:"limit,omitempty"`
	Offset    int              `json:"offset,omitempty"`
}

// AssignmentInput represents the create payload for an assignment
type AssignmentInput struct {
	PatientID     string `json:"patient_id"`
	StaffID       string `json:"staff_id"`
	RoomID        string `json:"room_id,omitempty"`
	Description   string `json:"description"`
	StartDatetime string `json:"start_datetime"`
}

// AssignmentTransition represents a status transition payload; completing a
// task stamps EndDatetime with the transition time
type AssignmentTransition struct {
	Status      AssignmentStatus `json:"status"`
	EndDatetime *time.Time       `json:"end_datetime,omitempty"`
}
