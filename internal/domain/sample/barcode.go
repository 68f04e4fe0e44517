package sample

import (
	"fmt"
	"strconv"
)

// NextBarcode suggests the next free barcode: one past the numeric maximum
// of the existing codes, zero-padded to six digits. Entries that do not
// parse as base-10 numbers are skipped rather than poisoning the maximum,
// so a malformed legacy barcode can never block allocation.
func NextBarcode(existing []string) string {
	max := 0
	for _, code := range existing {
		n, err := strconv.Atoi(code)
		if err != nil || n < 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%0*d", barcodeDigits, max+1)
}
