package types

import (
	"net/url"
	"strconv"
)

// Values renders patient filters as query parameters; url.Values.Encode sorts
// keys, so the encoding doubles as a canonical cache key suffix
func (f PatientFilters) Values() url.Values {
	v := url.Values{}
	setString(v, "search", f.Search)
	setBool(v, "isActive", f.IsActive)
	setPage(v, f.Limit, f.Offset)
	return v
}

// Values renders appointment filters as query parameters
func (f AppointmentFilters) Values() url.Values {
	v := url.Values{}
	setString(v, "patientId", f.PatientID)
	setString(v, "doctorId", f.DoctorID)
	setString(v, "status", string(f.Status))
	setString(v, "dateFrom", f.DateFrom)
	setString(v, "dateTo", f.DateTo)
	setString(v, "search", f.Search)
	setPage(v, f.Limit, f.Offset)
	return v
}

// Values renders admission filters as query parameters
func (f AdmissionFilters) Values() url.Values {
	v := url.Values{}
	setString(v, "patientId", f.PatientID)
	setString(v, "roomId", f.RoomID)
	setString(v, "dateFrom", f.DateFrom)
	setString(v, "dateTo", f.DateTo)
	setString(v, "search", f.Search)
	setPage(v, f.Limit, f.Offset)
	return v
}

// Values renders treatment filters as query parameters
func (f TreatmentFilters) Values() url.Values {
	v := url.Values{}
	setString(v, "patientId", f.PatientID)
	setString(v, "doctorId", f.DoctorID)
	setString(v, "search", f.Search)
	setPage(v, f.Limit, f.Offset)
	return v
}

// Values renders assignment filters as query parameters
func (f AssignmentFilters) Values() url.Values {
	v := url.Values{}
	setString(v, "patientId", f.PatientID)
	setString(v, "staffId", f.StaffID)
	setString(v, "status", string(f.Status))
	setString(v, "dateFrom", f.DateFrom)
	setString(v, "dateTo", f.DateTo)
	setPage(v, f.Limit, f.Offset)
	return v
}

// Values renders billing filters as query parameters
func (f BillFilters) Values() url.Values {
	v := url.Values{}
	setString(v, "patientId", f.PatientID)
	setString(v, "status", string(f.Status))
	setString(v, "dateFrom", f.DateFrom)
	setString(v, "dateTo", f.DateTo)
	setPage(v, f.Limit, f.Offset)
	return v
}

// Values renders staff filters as query parameters
func (f StaffFilters) Values() url.Values {
	v := url.Values{}
	setString(v, "role", string(f.Role))
	setString(v, "search", f.Search)
	setBool(v, "isActive", f.IsActive)
	return v
}

func setString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setBool(v url.Values, key string, value *bool) {
	if value != nil {
		v.Set(key, strconv.FormatBool(*value))
	}
}

func setPage(v url.Values, limit, offset int) {
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		v.Set("offset", strconv.Itoa(offset))
	}
}
