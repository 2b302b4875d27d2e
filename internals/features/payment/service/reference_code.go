package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateReferenceCode membuat reference code internal unik:
// PAY<timestamp UTC yyyymmddhhmmss><6 hex uppercase>
func GenerateReferenceCode(now time.Time) string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("PAY%s%s", now.UTC().Format("20060102150405"), strings.ToUpper(hex.EncodeToString(buf)))
}

// Varian untuk jalur simulasi/test (dev only).
func GenerateSimReferenceCode(now time.Time) string {
	return "SIM-" + now.UTC().Format("20060102150405") + "-" + shortUUID()
}

// Suffix acak mencegah tabrakan unique index saat satu mahasiswa punya
// lebih dari satu billing yang diproses pada detik yang sama.
func GenerateTestReferenceCode(studentID int, now time.Time) string {
	return fmt.Sprintf("TEST-%d-%s-%s", studentID, now.UTC().Format("20060102150405"), shortUUID())
}

// GenerateTransactionID dipakai jalur simulasi: SIM-/TEST- + 12 hex uppercase.
func GenerateTransactionID(prefix string) string {
	return prefix + "-" + shortUUID()
}

func shortUUID() string {
	u := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(u[:12])
}
