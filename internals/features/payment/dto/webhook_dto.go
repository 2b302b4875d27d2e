package dto

////////////////////////////////////////////////////////////////////////////////
// WEBHOOK — DTO (jalur simulasi/test, dev only)
////////////////////////////////////////////////////////////////////////////////

type SimulatePaymentRequest struct {
	BillingID     int    `json:"billing_id" validate:"required,min=1"`
	StudentID     int    `json:"student_id" validate:"required,min=1"`
	Amount        int    `json:"amount" validate:"required,gt=0"`
	PaymentMethod string `json:"payment_method,omitempty"` // default "simulated"
}

type TestAllStudentsRequest struct {
	AmountPercentage int `json:"amount_percentage,omitempty"` // 1..100, default 50
}

type TestAllStudentsItem struct {
	BillingID  int  `json:"billing_id"`
	StudentID  int  `json:"student_id"`
	AmountPaid int  `json:"amount_paid"`
	Success    bool `json:"success"`
}
