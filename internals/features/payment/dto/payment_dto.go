package dto

import (
	"time"

	model "kampusku_backend/internals/features/payment/model"
)

////////////////////////////////////////////////////////////////////////////////
// PAYMENTS — DTO
////////////////////////////////////////////////////////////////////////////////

// Pembayaran manual (admin loket / konfirmasi transfer)
type ProcessPaymentRequest struct {
	BillingID       int    `json:"billing_id" validate:"required,min=1"`
	Amount          int    `json:"amount" validate:"required,gt=0"`
	PaymentMethodID *int   `json:"payment_method_id,omitempty"`
	TransactionID   string `json:"transaction_id" validate:"required"`
	GatewayName     string `json:"gateway_name,omitempty"` // default "manual"
}

// Inisiasi pembayaran gateway → payment pending + reference_code
type InitiatePaymentRequest struct {
	BillingID       int    `json:"billing_id" validate:"required,min=1"`
	Amount          int    `json:"amount" validate:"required,gt=0"`
	PaymentMethodID *int   `json:"payment_method_id,omitempty"`
	GatewayName     string `json:"gateway_name" validate:"required"`
}

type PaymentResponse struct {
	PaymentID        int    `json:"payment_id"`
	PaymentStudentID int    `json:"payment_student_id"`
	PaymentBillingID int    `json:"payment_billing_id"`
	PaymentMethodID  *int   `json:"payment_method_id,omitempty"`
	TransactionID    string `json:"transaction_id"`
	ReferenceCode    string `json:"reference_code"`
	Amount           int    `json:"amount"`
	Status           string `json:"status"` // pending|confirmed|failed
	GatewayName      string `json:"gateway_name,omitempty"`

	PaymentDate      *time.Time `json:"payment_date,omitempty"`
	ConfirmationDate *time.Time `json:"confirmation_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func ToPaymentResponse(m model.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:        m.PaymentID,
		PaymentStudentID: m.PaymentStudentID,
		PaymentBillingID: m.PaymentBillingID,
		PaymentMethodID:  m.PaymentMethodID,
		TransactionID:    m.PaymentTransactionID,
		ReferenceCode:    m.PaymentReferenceCode,
		Amount:           m.PaymentAmount,
		Status:           m.PaymentStatus,
		GatewayName:      m.PaymentGatewayName,
		PaymentDate:      m.PaymentDate,
		ConfirmationDate: m.PaymentConfirmationDate,
		CreatedAt:        m.PaymentCreatedAt,
	}
}

func ToPaymentResponses(list []model.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToPaymentResponse(m))
	}
	return out
}
