package types

import "time"

// Treatment represents a treatment record; append-only from the portal's
// perspective, there is no edit or delete surface
type Treatment struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patient_id"`
	DoctorID      string    `json:"doctor_id"`
	AppointmentID string    `json:"appointment_id,omitempty"`
	Name          string    `json:"name"`
	Diagnosis     string    `json:"diagnosis"`
	Plan          string    `json:"plan"`
	Medications   string    `json:"medications"`
	StartDatetime time.Time `json:"start_datetime"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// TreatmentFilters represents filters for treatment list queries
type TreatmentFilters struct {
	PatientID string `json:"patient_id,omitempty"`
	DoctorID  string `json:"doctor_id,omitempty"`
	Search    string `json:"search,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// TreatmentInput represents the create payload for a treatment
type TreatmentInput struct {
	PatientID     string `json:"patient_id"`
	DoctorID      string `json:"doctor_id"`
	AppointmentID string `json:"appointment_id,omitempty"`
	Name          string `json:"name"`
	Diagnosis     string `json:"diagnosis"`
	Plan          string `json:"plan"`
	Medications   string `json:"medications"`
	StartDatetime string `json:"start_datetime"`
	Notes         string `json:"notes"`
}
