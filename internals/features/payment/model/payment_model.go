package model

import (
	"time"

	"gorm.io/datatypes"
)

/* ===================== Status (string) ===================== */

const (
	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
	PaymentStatusFailed    = "failed"
)

/* ===================== Model ===================== */

type Payment struct {
	PaymentID int `gorm:"column:payment_id;primaryKey;autoIncrement" json:"payment_id"`

	PaymentStudentID       int  `gorm:"column:payment_student_id;not null;index" json:"payment_student_id"`
	PaymentBillingID       int  `gorm:"column:payment_billing_id;not null;index" json:"payment_billing_id"`
	PaymentMethodID        *int `gorm:"column:payment_method_id" json:"payment_method_id,omitempty"`

	// transaction_id dari gateway, reference_code internal — dua-duanya unik global
	PaymentTransactionID  string `gorm:"column:payment_transaction_id;type:varchar(100);not null;uniqueIndex" json:"payment_transaction_id"`
	PaymentReferenceCode  string `gorm:"column:payment_reference_code;type:varchar(50);not null;uniqueIndex" json:"payment_reference_code"`

	PaymentAmount int    `gorm:"column:payment_amount;not null" json:"payment_amount"`
	PaymentStatus string `gorm:"column:payment_status;type:varchar(20);not null;default:'pending'" json:"payment_status"`

	// Info gateway
	PaymentGatewayName     string         `gorm:"column:payment_gateway_name;type:varchar(50)" json:"payment_gateway_name"`
	PaymentGatewayResponse datatypes.JSON `gorm:"column:payment_gateway_response" json:"payment_gateway_response,omitempty"` // raw payload, disimpan untuk audit

	PaymentDate             *time.Time `gorm:"column:payment_date" json:"payment_date,omitempty"`
	PaymentConfirmationDate *time.Time `gorm:"column:payment_confirmation_date" json:"payment_confirmation_date,omitempty"`
	PaymentNotes            *string    `gorm:"column:payment_notes;type:text" json:"payment_notes,omitempty"`

	PaymentCreatedAt time.Time `gorm:"column:payment_created_at;autoCreateTime;index" json:"payment_created_at"`
	PaymentUpdatedAt time.Time `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) IsConfirmed() bool { return p.PaymentStatus == PaymentStatusConfirmed }
