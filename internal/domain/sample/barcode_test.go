package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextBarcode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{name: "empty collection", existing: nil, want: "000001"},
		{name: "single barcode", existing: []string{"000001"}, want: "000002"},
		{name: "unsorted input", existing: []string{"000001", "000005", "000003"}, want: "000006"},
		{name: "ignores leading zeros", existing: []string{"000042"}, want: "000043"},
		{name: "skips malformed entries", existing: []string{"abc", "000007", ""}, want: "000008"},
		{name: "all malformed", existing: []string{"abc", "xyz"}, want: "000001"},
		{name: "grows past six digits numerically", existing: []string{"999999"}, want: "1000000"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NextBarcode(tt.existing))
		})
	}
}

func TestNextBarcodeNeverCollides(t *testing.T) {
	t.Parallel()

	existing := []string{"000001", "000002", "000003", "000010", "000011"}
	got := NextBarcode(existing)
	assert.NotContains(t, existing, got)
	assert.Equal(t, "000012", got)
}
