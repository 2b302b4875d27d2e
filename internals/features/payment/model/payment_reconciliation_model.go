package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ReconciliationStatusSynced  = "synced"
	ReconciliationStatusFailed  = "failed"
	ReconciliationStatusPending = "pending"
)

/*
payment_reconciliations = AUDIT TRAIL WEBHOOK

	1 row per attempt pemrosesan webhook. Append-only, tidak pernah
	di-update setelah dibuat.
*/
type PaymentReconciliation struct {
	ReconciliationID int `gorm:"column:reconciliation_id;primaryKey;autoIncrement" json:"reconciliation_id"`

	ReconciliationPaymentID   int            `gorm:"column:reconciliation_payment_id;not null;index" json:"reconciliation_payment_id"`
	ReconciliationGatewayName string         `gorm:"column:reconciliation_gateway_name;type:varchar(50);not null" json:"reconciliation_gateway_name"`
	ReconciliationStatus      string         `gorm:"column:reconciliation_status;type:varchar(20);not null" json:"reconciliation_status"` // synced|failed|pending
	ReconciliationResponse    datatypes.JSON `gorm:"column:reconciliation_response" json:"reconciliation_response,omitempty"`
	ReconciliationNotes       *string        `gorm:"column:reconciliation_notes;type:text" json:"reconciliation_notes,omitempty"`

	ReconciliationCreatedAt time.Time `gorm:"column:reconciliation_created_at;autoCreateTime" json:"reconciliation_created_at"`
}

func (PaymentReconciliation) TableName() string { return "payment_reconciliations" }
