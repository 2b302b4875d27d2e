package helper

import "strings"

// IsDuplicateErr mendeteksi pelanggaran unique constraint dari driver
// (postgres maupun sqlite di test) tanpa bergantung pada tipe error driver.
func IsDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique")
}
