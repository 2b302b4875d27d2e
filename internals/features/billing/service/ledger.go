package service

import (
	"github.com/gofiber/fiber/v2"

	"time"

	model "kampusku_backend/internals/features/billing/model"
)

/*
Ledger = satu-satunya otoritas mutasi state finansial Billing.
Controller/processor TIDAK boleh mengutak-atik paid_amount langsung;
semua lewat ApplyPayment/ApplyPenalty supaya invariant
total - paid = remaining (>= 0) selalu terjaga.
*/

// ApplyPayment menambahkan pembayaran ke billing dan menghitung ulang status.
// - amount <= 0           → 400
// - amount > sisa tagihan → 400 (overpayment DITOLAK, bukan di-cap; lihat DESIGN.md)
func ApplyPayment(b *model.Billing, amount int, now time.Time) error {
	if amount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Jumlah pembayaran harus lebih dari 0")
	}
	if amount > b.BillingRemainingAmount {
		return fiber.NewError(fiber.StatusBadRequest, "Jumlah pembayaran melebihi sisa tagihan")
	}

	b.BillingPaidAmount += amount
	b.BillingRemainingAmount = b.BillingTotalAmount - b.BillingPaidAmount
	b.BillingLastPaymentDate = &now
	b.RecomputeStatus(now)
	return nil
}

// ApplyPenalty menghitung denda via CalculatePenalty dan menuliskannya ke billing.
// Return false bila denda tidak berubah — caller pakai ini untuk skip persist.
func ApplyPenalty(b *model.Billing, perDay, maxPenalty int, now time.Time) bool {
	penalty := CalculatePenalty(b.BillingDueDate, now, perDay, maxPenalty)
	if penalty == b.BillingPenalty {
		return false
	}
	b.BillingPenalty = penalty
	if b.IsOverdue(now) {
		b.RecomputeStatus(now)
	}
	return true
}

// OutstandingAmount: sisa tagihan bila masih open, 0 bila sudah lunas.
func OutstandingAmount(b *model.Billing) int {
	if b.IsOpen() {
		return b.BillingRemainingAmount
	}
	return 0
}
