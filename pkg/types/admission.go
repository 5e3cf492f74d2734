package types

import "time"

// Room represents a ward room; occupancy is computed by the API server
type Room struct {
	ID        string `json:"id"`
	Number    string `json:"number"`
	Ward      string `json:"ward"`
	Capacity  int    `json:"capacity"`
	Occupancy int    `json:"occupancy"`
}

// AtCapacity reports whether the room can take another admission
func (r *Room) AtCapacity() bool {
	return r.Occupancy >= r.Capacity
}

// Admission represents an inpatient admission
type Admission struct {
	ID                 string    `json:"id"`
	PatientID          string    `json:"patient_id"`
	RoomID             string    `json:"room_id"`
	AdmittingDoctorID  string    `json:"admitting_doctor_id"`
	AdmissionDatetime  time.Time `json:"admission_datetime"`
	ReasonForAdmission string    `json:"reason_for_admission"`
	CreatedAt          time.Time `json:"created_at"`
}

// AdmissionFilters represents filters for admission list queries
type AdmissionFilters struct {
	PatientID string `json:"patient_id,omitempty"`
	RoomID    string `json:"room_id,omitempty"`
	DateFrom  string `json:"date_from,omitempty"`
	DateTo    string `json:"date_to,omitempty"`
	Search    string `json:"search,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// AdmissionInput represents the create payload for an admission
type AdmissionInput struct {
	PatientID          string `json:"patient_id"`
	RoomID             string `json:"room_id"`
	AdmittingDoctorID  string `json:"admitting_doctor_id"`
	AdmissionDatetime  string `json:"admission_datetime"`
	ReasonForAdmission string `json:"reason_for_admission"`
}
