// Package payment parses the checkout redirect the gateway sends the user
// back with. The gateway integration itself is a plain redirect; only the
// returned query string is interpreted here.
package payment

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Callback mirrors the MercadoPago redirect query parameters.
type Callback struct {
	AppointmentID     string `json:"appointment_id"`
	CollectionID      string `json:"collection_id"`
	CollectionStatus  string `json:"collection_status"`
	PaymentID         string `json:"payment_id"`
	Status            string `json:"status"`
	ExternalReference string `json:"external_reference"`
	PaymentType       string `json:"payment_type"`
	MerchantOrderID   string `json:"merchant_order_id"`
	PreferenceID      string `json:"preference_id"`
	SiteID            string `json:"site_id"`
	ProcessingMode    string `json:"processing_mode"`
	MerchantAccountID string `json:"merchant_account_id"`
}

// Outcome is the user-facing verdict derived from the gateway status.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePending Outcome = "pending"
	OutcomeFailure Outcome = "failure"
)

// ParseCallback validates and extracts the redirect parameters.
// appointment_id, payment_id and status are required; everything else is
// optional gateway bookkeeping.
func ParseCallback(q url.Values) (*Callback, error) {
	var missing []string
	for _, k := range []string{"appointment_id", "payment_id", "status"} {
		if q.Get(k) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing payment parameters: %s", strings.Join(missing, ", "))
	}

	collectionStatus := q.Get("collection_status")
	if collectionStatus == "" {
		collectionStatus = "pending"
	}

	return &Callback{
		AppointmentID:     q.Get("appointment_id"),
		CollectionID:      q.Get("collection_id"),
		CollectionStatus:  collectionStatus,
		PaymentID:         q.Get("payment_id"),
		Status:            q.Get("status"),
		ExternalReference: q.Get("external_reference"),
		PaymentType:       q.Get("payment_type"),
		MerchantOrderID:   q.Get("merchant_order_id"),
		PreferenceID:      q.Get("preference_id"),
		SiteID:            q.Get("site_id"),
		ProcessingMode:    q.Get("processing_mode"),
		MerchantAccountID: q.Get("merchant_account_id"),
	}, nil
}

// Summary is the condensed form shown on the confirmation screen.
type Summary struct {
	AppointmentID     int     `json:"appointmentId"`
	PaymentID         string  `json:"paymentId"`
	CollectionID      string  `json:"collectionId"`
	Status            string  `json:"status"`
	PaymentType       string  `json:"paymentType"`
	MerchantOrderID   string  `json:"merchantOrderId"`
	ExternalReference string  `json:"externalReference"`
	Outcome           Outcome `json:"outcome"`
}

func (c *Callback) Summary() Summary {
	id, _ := strconv.Atoi(c.AppointmentID)
	return Summary{
		AppointmentID:     id,
		PaymentID:         c.PaymentID,
		CollectionID:      c.CollectionID,
		Status:            c.Status,
		PaymentType:       c.PaymentType,
		MerchantOrderID:   c.MerchantOrderID,
		ExternalReference: c.ExternalReference,
		Outcome:           c.Outcome(),
	}
}

func (c *Callback) Outcome() Outcome {
	switch c.Status {
	case "approved":
		return OutcomeSuccess
	case "pending", "in_process":
		return OutcomePending
	default:
		return OutcomeFailure
	}
}
