package payment

import (
	"net/url"
	"strings"
	"testing"
)

func validQuery() url.Values {
	return url.Values{
		"appointment_id":     {"42"},
		"collection_id":      {"123456789"},
		"collection_status":  {"approved"},
		"payment_id":         {"987654321"},
		"status":             {"approved"},
		"external_reference": {"appt-42"},
		"payment_type":       {"credit_card"},
		"merchant_order_id":  {"555"},
	}
}

func TestParseCallback(t *testing.T) {
	cb, err := ParseCallback(validQuery())
	if err != nil {
		t.Fatalf("ParseCallback: %v", err)
	}
	if cb.AppointmentID != "42" || cb.PaymentID != "987654321" || cb.Status != "approved" {
		t.Errorf("parsed = %+v", cb)
	}
	if cb.PaymentType != "credit_card" || cb.MerchantOrderID != "555" {
		t.Errorf("optional fields lost: %+v", cb)
	}
}

func TestParseCallbackMissingRequired(t *testing.T) {
	q := validQuery()
	q.Del("payment_id")
	q.Del("status")

	_, err := ParseCallback(q)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "payment_id") || !strings.Contains(err.Error(), "status") {
		t.Errorf("error should name the missing params, got %q", err)
	}
}

func TestParseCallbackDefaultsCollectionStatus(t *testing.T) {
	q := validQuery()
	q.Del("collection_status")

	cb, err := ParseCallback(q)
	if err != nil {
		t.Fatalf("ParseCallback: %v", err)
	}
	if cb.CollectionStatus != "pending" {
		t.Errorf("CollectionStatus = %q, want pending", cb.CollectionStatus)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		status string
		want   Outcome
	}{
		{"approved", OutcomeSuccess},
		{"pending", OutcomePending},
		{"in_process", OutcomePending},
		{"rejected", OutcomeFailure},
		{"cancelled", OutcomeFailure},
		{"garbage", OutcomeFailure},
	}
	for _, tt := range tests {
		cb := &Callback{Status: tt.status}
		if got := cb.Outcome(); got != tt.want {
			t.Errorf("Outcome(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestSummary(t *testing.T) {
	cb, err := ParseCallback(validQuery())
	if err != nil {
		t.Fatalf("ParseCallback: %v", err)
	}

	s := cb.Summary()
	if s.AppointmentID != 42 {
		t.Errorf("AppointmentID = %d, want 42", s.AppointmentID)
	}
	if s.Outcome != OutcomeSuccess {
		t.Errorf("Outcome = %q, want success", s.Outcome)
	}
	if s.PaymentID != "987654321" || s.ExternalReference != "appt-42" {
		t.Errorf("summary = %+v", s)
	}
}
