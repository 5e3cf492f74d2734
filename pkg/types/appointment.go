package types

import "time"

// AppointmentStatus represents appointment status values
type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "scheduled"
	AppointmentCheckedIn  AppointmentStatus = "checked_in"
	AppointmentInProgress AppointmentStatus = "in_progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
	AppointmentNoShow     AppointmentStatus = "no_show"
)

// appointmentTransitions is the single transition table shared by every view
// that renders status actions; the API server revalidates on write
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentScheduled:  {AppointmentCheckedIn, AppointmentCancelled, AppointmentNoShow},
	AppointmentCheckedIn:  {AppointmentInProgress, AppointmentCancelled},
	AppointmentInProgress: {AppointmentCompleted},
	AppointmentCompleted:  {},
	AppointmentCancelled:  {},
	AppointmentNoShow:     {},
}

// NextStatuses returns the legal transitions from the given status
func (s AppointmentStatus) NextStatuses() []AppointmentStatus {
	return appointmentTransitions[s]
}

// CanTransition reports whether moving to the target status is legal
func (s AppointmentStatus) CanTransition(to AppointmentStatus) bool {
	for _, next := range appointmentTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ActionLabel returns the user-facing label for a transition into this status
func (s AppointmentStatus) ActionLabel() string {
	switch s {
	case AppointmentCheckedIn:
		return "Check In"
	case AppointmentInProgress:
		return "Start"
	case AppointmentCompleted:
		return "Complete"
	case AppointmentCancelled:
		return "Cancel"
	case AppointmentNoShow:
		return "No Show"
	}
	return string(s)
}

// Appointment represents a scheduled appointment
type Appointment struct {
	ID        string            `json:"id"`
	PatientID string            `json:"patient_id"`
	DoctorID  string            `json:"doctor_id"`
	Datetime  time.Time         `json:"datetime"`
	Reason    string            `json:"reason"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// AppointmentFilters represents filters for appointment list queries
type AppointmentFilters struct {
	PatientID string            `json:"patient_id,omitempty"`
	DoctorID  string            `json:"doctor_id,omitempty"`
	Status    AppointmentStatus `json:"status,omitempty"`
	DateFrom  string            `json:"date_from,omitempty"`
	DateTo    string            `json:"date_to,omitempty"`
	Search    string            `json:"search,omitempty"`
	Limit     int               `json:"limit,omitempty"`
	Offset    int               `json:"offset,omitempty"`
}

// AppointmentInput represents the create payload for an appointment
type AppointmentInput struct {
	PatientID string `json:"patient_id"`
	DoctorID  string `json:"doctor_id"`
	Datetime  string `json:"datetime"`
	Reason    string `json:"reason"`
}

// AppointmentReschedule represents the reschedule payload
type AppointmentReschedule struct {
	Datetime string `json:"datetime"`
}
