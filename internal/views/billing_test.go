package views

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fikertekiflu/hospital/pkg/types"
)

func TestBillListComputesOutstanding(t *testing.T) {
	p := newTestPortal(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []*types.Bill{
			{ID: "b1", TotalAmount: 1200, AmountPaid: 450, PaymentStatus: types.PaymentPartial},
			{ID: "b2", TotalAmount: 300, AmountPaid: 300, PaymentStatus: types.PaymentPaid},
		})
	})
	p.loginAs(t, types.RoleBillingStaff, "staff-b1")

	rec := p.do(t, http.MethodGet, "/billing", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc BillListDoc
	decodeDoc(t, rec, &doc)
	require.Len(t, doc.Bills, 2)
	assert.InDelta(t, 750, doc.Bills[0].Outstanding, 0.001)
	assert.Zero(t, doc.Bills[1].Outstanding)
}

func TestBillPayReturnsUpdatedRow(t *testing.T) {
	p := newTestPortal(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bills/b1/payments", r.URL.Path)
		writeJSON(w, http.StatusOK, &types.Bill{
			ID: "b1", TotalAmount: 1200, AmountPaid: 1200, PaymentStatus: types.PaymentPaid,
		})
	})
	p.loginAs(t, types.RoleBillingStaff, "staff-b1")

	rec := p.do(t, http.MethodPost, "/billing/b1/pay", types.PaymentInput{Amount: 750})
	require.Equal(t, http.StatusOK, rec.Code)

	var row BillRow
	decodeDoc(t, rec, &row)
	assert.Equal(t, types.PaymentPaid, row.PaymentStatus)
	assert.Zero(t, row.Outstanding)
}

func TestBillPayValidatesAmount(t *testing.T) {
	p := newTestPortal(t, nil)
	p.loginAs(t, types.RoleBillingStaff, "staff-b1")

	rec := p.do(t, http.MethodPost, "/billing/b1/pay", types.PaymentInput{Amount: 0})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	decodeDoc(t, rec, &body)
	assert.Contains(t, body.Errors, "amount")
}

func TestBillCreateValidation(t *testing.T) {
	p := newTestPortal(t, nil)
	p.loginAs(t, types.RoleAdmin, "staff-1")

	rec := p.do(t, http.MethodPost, "/billing", types.BillInput{PatientID: "p1"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	decodeDoc(t, rec, &body)
	assert.Contains(t, body.Errors, "total_amount")
	assert.Contains(t, body.Errors, "bill_date")
}

func TestTreatmentCreateDefaultsToOwnStaffID(t *testing.T) {
	var gotDoctor string
	p := newTestPortal(t, func(w http.ResponseWriter, r *http.Request) {
		var input types.TreatmentInput
		if r.Method == http.MethodPost {
			if err := json.NewDecoder(r.Body).Decode(&input); err == nil {
				gotDoctor = input.DoctorID
			}
			writeJSON(w, http.StatusCreated, &types.Treatment{ID: "t1", DoctorID: input.DoctorID})
			return
		}
		http.NotFound(w, r)
	})
	p.loginAs(t, types.RoleDoctor, "staff-7")

	rec := p.do(t, http.MethodPost, "/treatments", types.TreatmentInput{
		PatientID:     "p1",
		Name:          "Physiotherapy",
		Diagnosis:     "Sprained ankle",
		Plan:          "Twice weekly for four weeks",
		StartDatetime: time.Now().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "staff-7", gotDoctor)
}

func TestTreatmentWriteDoctorOnly(t *testing.T) {
	p := newTestPortal(t, nil)
	p.loginAs(t, types.RoleNurse, "staff-n1")

	rec := p.do(t, http.MethodPost, "/treatments", types.TreatmentInput{})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestStaffListAdminOnly(t *testing.T) {
	p := newTestPortal(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []*types.StaffMember{
			{ID: "staff-7", FullName: "Dr. Amara Tesfaye", Role: types.RoleDoctor},
		})
	})
	p.loginAs(t, types.RoleAdmin, "staff-1")

	rec := p.do(t, http.MethodGet, "/admin/staff", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc StaffListDoc
	decodeDoc(t, rec, &doc)
	require.Len(t, doc.Staff, 1)
	assert.Equal(t, "Dr. Amara Tesfaye", doc.Staff[0].FullName)
}
