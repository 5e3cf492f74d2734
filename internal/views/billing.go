package views

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/mux"

	"github.com/fikertekiflu/hospital/internal/querycache"
	"github.com/fikertekiflu/hospital/internal/session"
	"github.com/fikertekiflu/hospital/internal/upstream"
	"github.com/fikertekiflu/hospital/pkg/types"
)

// BillRow is one bill row with the outstanding balance computed for display
type BillRow struct {
	*types.Bill
	Outstanding float64 `json:"outstanding"`
}

// BillListDoc is the billing list view document
type BillListDoc struct {
	Bills         []BillRow       `json:"bills"`
	Error         string          `json:"error,omitempty"`
	Notifications []session.Event `json:"notifications,omitempty"`
}

// BillDetailDoc is the single-bill view document
type BillDetailDoc struct {
	Bill          *types.Bill     `json:"bill"`
	Outstanding   float64         `json:"outstanding"`
	Error         string          `json:"error,omitempty"`
	Notifications []session.Event `json:"notifications,omitempty"`
}

func billFiltersFromQuery(r *http.Request) types.BillFilters {
	q := r.URL.Query()
	filters := types.BillFilters{
		PatientID: q.Get("patientId"),
		Status:    types.PaymentStatus(q.Get("status")),
		DateFrom:  q.Get("dateFrom"),
		DateTo:    q.Get("dateTo"),
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		filters.Offset = offset
	}
	return filters
}

// handleBillList serves the billing table for the current filters
func (s *Service) handleBillList(w http.ResponseWriter, r *http.Request) {
	filters := billFiltersFromQuery(r)
	key := querycache.NewKey("bills", filters.Values())
	revalidate := r.URL.Query().Get("refocus") == "1"

	value, err := s.fetchList(r.Context(), key, revalidate, func(ctx context.Context) (interface{}, error) {
		return s.clients.Billing.List(ctx, filters)
	})

	doc := BillListDoc{Notifications: s.notifications.Drain()}
	if err != nil {
		doc.Error = upstream.ErrorMessage(err)
		s.writeJSONResponse(w, http.StatusOK, doc)
		return
	}

	for _, bill := range value.([]*types.Bill) {
		doc.Bills = append(doc.Bills, BillRow{Bill: bill, Outstanding: bill.Outstanding()})
	}

	s.writeJSONResponse(w, http.StatusOK, doc)
}

// handleBillDetail serves one bill
func (s *Service) handleBillDetail(w http.ResponseWriter, r *http.Request) {
	billID := mux.Vars(r)["id"]
	doc := BillDetailDoc{Notifications: s.notifications.Drain()}

	value, err := s.cache.Fetch(r.Context(), querycache.Key("bills/"+billID), s.listPolicy, false,
		func(ctx context.Context) (interface{}, error) {
			return s.clients.Billing.Get(ctx, billID)
		})
	if err != nil {
		doc.Error = upstream.ErrorMessage(err)
		s.writeJSONResponse(w, http.StatusOK, doc)
		return
	}

	doc.Bill = value.(*types.Bill)
	doc.Outstanding = doc.Bill.Outstanding()
	s.writeJSONResponse(w, http.StatusOK, doc)
}

func validateBillInput(input types.BillInput) error {
	return v.Errors{
		"patient_id":   v.Validate(input.PatientID, v.Required),
		"total_amount": v.Validate(input.TotalAmount, v.Required, v.Min(0.01)),
		"bill_date":    v.Validate(input.BillDate, v.Required, v.Date("2006-01-02")),
	}.Filter()
}

// handleBillCreate issues a new bill
func (s *Service) handleBillCreate(w http.ResponseWriter, r *http.Request) {
	var input types.BillInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validateBillInput(input); err != nil {
		s.writeValidationErrors(w, err)
		return
	}

	value, err := s.cache.Mutate(r.Context(), func(ctx context.Context) (interface{}, error) {
		return s.clients.Billing.Create(ctx, input)
	}, "bills")
	if err != nil {
		s.rejectWrite(w, err)
		return
	}

	s.notifications.Notify(session.Event{Level: session.LevelInfo, Message: "Bill issued"})
	s.writeJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"bill":     value,
		"navigate": "/billing",
	})
}

// handleBillPay applies a payment; the server recomputes payment status
func (s *Service) handleBillPay(w http.ResponseWriter, r *http.Request) {
	billID := mux.Vars(r)["id"]

	var input types.PaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := (v.Errors{
		"amount": v.Validate(input.Amount, v.Required, v.Min(0.01)),
	}).Filter(); err != nil {
		s.writeValidationErrors(w, err)
		return
	}

	value, err := s.cache.Mutate(r.Context(), func(ctx context.Context) (interface{}, error) {
		return s.clients.Billing.Pay(ctx, billID, input)
	}, "bills")
	if err != nil {
		s.rejectWrite(w, err)
		return
	}

	bill := value.(*types.Bill)
	s.notifications.Notify(session.Event{Level: session.LevelInfo, Message: "Payment recorded"})
	s.writeJSONResponse(w, http.StatusOK, BillRow{Bill: bill, Outstanding: bill.Outstanding()})
}
