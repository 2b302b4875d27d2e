package model

import (
	"time"
)

/* ===================== Status (string) ===================== */

const (
	BillingStatusUnpaid  = "unpaid"
	BillingStatusPartial = "partial"
	BillingStatusPaid    = "paid"
	BillingStatusOverdue = "overdue"
)

var BillingOpenStatuses = []string{BillingStatusUnpaid, BillingStatusPartial, BillingStatusOverdue}

/* ===================== Model ===================== */

type Billing struct {
	BillingID int `gorm:"column:billing_id;primaryKey;autoIncrement" json:"billing_id"`

	// 1 billing per (mahasiswa, semester) — dijaga unique index
	BillingStudentID int    `gorm:"column:billing_student_id;not null;index;uniqueIndex:uq_billing_student_semester" json:"billing_student_id"`
	BillingSemester  string `gorm:"column:billing_semester;type:varchar(50);not null;uniqueIndex:uq_billing_student_semester" json:"billing_semester"` // mis. "2025/2026-Ganjil"

	// Nominal (Rupiah, satuan terkecil — integer, jangan float)
	BillingTotalAmount     int `gorm:"column:billing_total_amount;not null" json:"billing_total_amount"`
	BillingPaidAmount      int `gorm:"column:billing_paid_amount;not null;default:0" json:"billing_paid_amount"`
	BillingRemainingAmount int `gorm:"column:billing_remaining_amount;not null" json:"billing_remaining_amount"`
	BillingPenalty         int `gorm:"column:billing_penalty;not null;default:0" json:"billing_penalty"`

	BillingStatus string `gorm:"column:billing_status;type:varchar(20);not null;default:'unpaid'" json:"billing_status"`

	BillingDueDate         time.Time  `gorm:"column:billing_due_date;not null" json:"billing_due_date"`
	BillingLastPaymentDate *time.Time `gorm:"column:billing_last_payment_date" json:"billing_last_payment_date,omitempty"`

	BillingCreatedAt time.Time `gorm:"column:billing_created_at;autoCreateTime;index" json:"billing_created_at"`
	BillingUpdatedAt time.Time `gorm:"column:billing_updated_at;autoUpdateTime" json:"billing_updated_at"`
}

func (Billing) TableName() string { return "billings" }

/* ===================== Helpers ===================== */

// IsOverdue: sudah lewat due date dan belum lunas
func (b *Billing) IsOverdue(now time.Time) bool {
	return now.After(b.BillingDueDate) && b.BillingStatus != BillingStatusPaid
}

// DaysOverdue: jumlah HARI penuh keterlambatan (truncate, bukan rounding)
func (b *Billing) DaysOverdue(now time.Time) int {
	if !now.After(b.BillingDueDate) {
		return 0
	}
	return int(now.Sub(b.BillingDueDate) / (24 * time.Hour))
}

// RecomputeStatus: status = fungsi murni dari (paid, total, now, due).
// Idempotent & order-independent — tidak ada transisi incremental yang bisa "nyangkut".
func (b *Billing) RecomputeStatus(now time.Time) {
	switch {
	case b.BillingPaidAmount >= b.BillingTotalAmount:
		b.BillingStatus = BillingStatusPaid
	case now.After(b.BillingDueDate):
		b.BillingStatus = BillingStatusOverdue
	case b.BillingPaidAmount > 0:
		b.BillingStatus = BillingStatusPartial
	default:
		b.BillingStatus = BillingStatusUnpaid
	}
}

func (b *Billing) IsOpen() bool {
	switch b.BillingStatus {
	case BillingStatusUnpaid, BillingStatusPartial, BillingStatusOverdue:
		return true
	default:
		return false
	}
}
