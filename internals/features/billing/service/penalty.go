package service

import (
	"time"
)

// CalculatePenalty menghitung denda keterlambatan.
// Murni & deterministik: tanpa I/O, tanpa side effect.
//
//	now <= dueDate           → 0
//	selain itu               → min(hariTerlambat * perDay, maxPenalty)
//
// hariTerlambat = jumlah HARI PENUH sejak due date (truncate ke bawah).
func CalculatePenalty(dueDate, now time.Time, perDay, maxPenalty int) int {
	if !now.After(dueDate) {
		return 0
	}
	days := int(now.Sub(dueDate) / (24 * time.Hour))
	penalty := days * perDay
	if penalty > maxPenalty {
		penalty = maxPenalty
	}
	return penalty
}
