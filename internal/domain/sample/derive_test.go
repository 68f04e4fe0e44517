package sample

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func originalParent() *Sample {
	return &Sample{
		ID:                uuid.New(),
		Barcode:           "000010",
		PatientID:         "U_LTX0003",
		LTXID:             "LTX0003",
		Site:              "UCLH",
		Timepoint:         "Surgery",
		Type:              TypeBlood,
		Specimen:          "Plasma",
		SpecNumber:        "N01",
		Material:          "Fresh",
		InvestigationType: "Sequencing",
		Level:             LevelOriginal,
		Status:            StatusInStorage,
	}
}

func TestDeriveInheritance(t *testing.T) {
	t.Parallel()

	parent := originalParent()
	child := &Sample{Barcode: "000011"}

	out, err := Derive([]*Sample{parent}, []*Sample{child})
	require.NoError(t, err)
	require.Len(t, out, 1)

	d := out[0]
	assert.Equal(t, "U_LTX0003", d.PatientID)
	assert.Equal(t, "LTX0003", d.LTXID)
	assert.Equal(t, "UCLH", d.Site)
	assert.Equal(t, "Surgery", d.Timepoint)
	assert.Equal(t, "000010", d.ParentBarcode)
	assert.Equal(t, LevelDerivative, d.Level)
	assert.Equal(t, StatusCollected, d.Status)
	assert.Equal(t, "000011", d.Barcode)

	assert.Equal(t, "Plasma", d.Specimen)
	assert.Equal(t, "N01", d.SpecNumber)
	assert.Equal(t, "Fresh", d.Material)
	assert.Equal(t, "Sequencing", d.InvestigationType)
	assert.Equal(t, TypeBlood, d.Type)

	assert.Equal(t, "Derived from 000010", d.Comments)
	assert.NotEqual(t, uuid.Nil, d.ID)
	assert.NotEqual(t, parent.ID, d.ID)
}

func TestDeriveChildOverrides(t *testing.T) {
	t.Parallel()

	parent := originalParent()
	child := &Sample{
		Barcode:    "000011",
		Type:       TypeDNA,
		Specimen:   "DNA",
		SpecNumber: "N02",
		Material:   "Frozen",
		Comments:   "extraction batch 4",
		// Lineage fields are never user-editable per row; anything the
		// row claims here must lose to the parent.
		PatientID: "X_LTX9999",
		Site:      "Manchester",
		Timepoint: "First Recurrence",
	}

	out, err := Derive([]*Sample{parent}, []*Sample{child})
	require.NoError(t, err)

	d := out[0]
	assert.Equal(t, TypeDNA, d.Type)
	assert.Equal(t, "DNA", d.Specimen)
	assert.Equal(t, "N02", d.SpecNumber)
	assert.Equal(t, "Frozen", d.Material)
	assert.Equal(t, "extraction batch 4", d.Comments)

	assert.Equal(t, "U_LTX0003", d.PatientID)
	assert.Equal(t, "UCLH", d.Site)
	assert.Equal(t, "Surgery", d.Timepoint)
}

func TestDeriveDepthRule(t *testing.T) {
	t.Parallel()

	derivative := originalParent()
	derivative.Barcode = "000020"
	derivative.Level = LevelDerivative
	derivative.ParentBarcode = "000010"

	out, err := Derive([]*Sample{derivative}, []*Sample{{Barcode: "000021"}})
	require.NoError(t, err)
	assert.Equal(t, LevelAliquot, out[0].Level)
	assert.Equal(t, "000020", out[0].ParentBarcode)
}

func TestDeriveFromAliquotRejected(t *testing.T) {
	t.Parallel()

	aliquot := originalParent()
	aliquot.Barcode = "000030"
	aliquot.Level = LevelAliquot

	_, err := Derive([]*Sample{aliquot}, []*Sample{{Barcode: "000031"}})
	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)
}

func TestDeriveEmptyInputs(t *testing.T) {
	t.Parallel()

	parent := originalParent()

	_, err := Derive(nil, []*Sample{{Barcode: "000011"}})
	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)

	_, err = Derive([]*Sample{parent}, nil)
	require.ErrorAs(t, err, &validErr)
}

func TestDeriveParentResolution(t *testing.T) {
	t.Parallel()

	p1 := originalParent()
	p2 := originalParent()
	p2.ID = uuid.New()
	p2.Barcode = "000012"
	p2.PatientID = "M_LTX0007"
	p2.LTXID = "LTX0007"
	parents := []*Sample{p1, p2}

	t.Run("explicit linkage wins", func(t *testing.T) {
		t.Parallel()
		out, err := Derive(parents, []*Sample{{Barcode: "000040", ParentBarcode: "000012"}})
		require.NoError(t, err)
		assert.Equal(t, "M_LTX0007", out[0].PatientID)
	})

	t.Run("unknown parent barcode", func(t *testing.T) {
		t.Parallel()
		_, err := Derive(parents, []*Sample{{Barcode: "000040", ParentBarcode: "999999"}})
		require.ErrorIs(t, err, ErrParentNotFound)
	})

	t.Run("ambiguous without linkage", func(t *testing.T) {
		t.Parallel()
		_, err := Derive(parents, []*Sample{{Barcode: "000040"}})
		require.ErrorIs(t, err, ErrParentNotFound)
	})

	t.Run("single parent fallback", func(t *testing.T) {
		t.Parallel()
		out, err := Derive([]*Sample{p1}, []*Sample{{Barcode: "000040"}})
		require.NoError(t, err)
		assert.Equal(t, "000010", out[0].ParentBarcode)
	})
}

func TestDeriveDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	parent := originalParent()
	child := &Sample{Barcode: "000011"}

	_, err := Derive([]*Sample{parent}, []*Sample{child})
	require.NoError(t, err)

	assert.Equal(t, uuid.Nil, child.ID)
	assert.Empty(t, child.PatientID)
	assert.Empty(t, child.ParentBarcode)
	assert.Equal(t, StatusInStorage, parent.Status)
}
