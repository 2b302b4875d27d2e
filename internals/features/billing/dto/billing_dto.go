package dto

import (
	"time"

	model "kampusku_backend/internals/features/billing/model"
)

////////////////////////////////////////////////////////////////////////////////
// BILLINGS — DTO
////////////////////////////////////////////////////////////////////////////////

// Trigger generate billing per semester
type GenerateBillingRequest struct {
	SemesterID int  `json:"semester_id" validate:"required,min=1"`
	DueDays    *int `json:"due_days,omitempty" validate:"omitempty,min=1"` // default dari BillingConfig
}

// Response
type BillingResponse struct {
	BillingID        int    `json:"billing_id"`
	BillingStudentID int    `json:"billing_student_id"`
	BillingSemester  string `json:"billing_semester"`

	BillingTotalAmount     int `json:"billing_total_amount"`
	BillingPaidAmount      int `json:"billing_paid_amount"`
	BillingRemainingAmount int `json:"billing_remaining_amount"`
	BillingPenalty         int `json:"billing_penalty"`

	BillingStatus          string     `json:"billing_status"` // unpaid|partial|paid|overdue
	BillingDueDate         time.Time  `json:"billing_due_date"`
	BillingLastPaymentDate *time.Time `json:"billing_last_payment_date,omitempty"`

	BillingCreatedAt time.Time `json:"billing_created_at"`
	BillingUpdatedAt time.Time `json:"billing_updated_at"`
}

////////////////////////////////////////////////////////////////////////////////
// MAPPERS
////////////////////////////////////////////////////////////////////////////////

func ToBillingResponse(m model.Billing) BillingResponse {
	return BillingResponse{
		BillingID:              m.BillingID,
		BillingStudentID:       m.BillingStudentID,
		BillingSemester:        m.BillingSemester,
		BillingTotalAmount:     m.BillingTotalAmount,
		BillingPaidAmount:      m.BillingPaidAmount,
		BillingRemainingAmount: m.BillingRemainingAmount,
		BillingPenalty:         m.BillingPenalty,
		BillingStatus:          m.BillingStatus,
		BillingDueDate:         m.BillingDueDate,
		BillingLastPaymentDate: m.BillingLastPaymentDate,
		BillingCreatedAt:       m.BillingCreatedAt,
		BillingUpdatedAt:       m.BillingUpdatedAt,
	}
}

func ToBillingResponses(list []model.Billing) []BillingResponse {
	out := make([]BillingResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToBillingResponse(m))
	}
	return out
}
