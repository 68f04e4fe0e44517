package sample

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func filterFixture() []*Sample {
	return []*Sample{
		{
			ID: uuid.New(), Barcode: "000001", PatientID: "U_LTX0001",
			Type: TypeBlood, Specimen: "Whole Blood", Level: LevelOriginal,
			Status: StatusCompleted, Volume: fptr(10),
		},
		{
			ID: uuid.New(), Barcode: "000002", PatientID: "U_LTX0001",
			Type: TypePlasma, Specimen: "Plasma", Level: LevelDerivative,
			ParentBarcode: "000001", Status: StatusInStorage, Volume: fptr(2.5),
			Comments: "Derived from 000001",
		},
		{
			ID: uuid.New(), Barcode: "000003", PatientID: "M_LTX0002",
			Type: TypeTissue, Specimen: "Fresh Tissue", Level: LevelOriginal,
			Status: StatusCompleted,
		},
		{
			ID: uuid.New(), Barcode: "000004", PatientID: "M_LTX0002",
			Type: TypeFFPE, Specimen: "FFPE Block", Level: LevelDerivative,
			ParentBarcode: "000003", Status: StatusReceived, Volume: fptr(1),
		},
	}
}

func barcodes(samples []*Sample) []string {
	out := make([]string, len(samples))
	for i, s := range samples {
		out[i] = s.Barcode
	}
	return out
}

func TestVisiblePatientScope(t *testing.T) {
	t.Parallel()

	got := Visible(filterFixture(), ListQuery{PatientID: "M_LTX0002"})
	assert.Equal(t, []string{"000003", "000004"}, barcodes(got))
}

func TestVisibleTabs(t *testing.T) {
	t.Parallel()

	all := filterFixture()
	tests := []struct {
		tab  Tab
		want []string
	}{
		{TabAll, []string{"000001", "000002", "000003", "000004"}},
		{TabBlood, []string{"000001"}},
		{TabTissue, []string{"000003"}},
		{TabPlasma, []string{"000002"}},
		{TabFFPE, []string{"000004"}},
		{TabDNA, []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.tab), func(t *testing.T) {
			t.Parallel()
			got := Visible(all, ListQuery{Tab: tt.tab})
			assert.Equal(t, tt.want, barcodes(got))
		})
	}
}

func TestVisibleSearchCaseInsensitive(t *testing.T) {
	t.Parallel()

	got := Visible(filterFixture(), ListQuery{Search: "DERIVED"})
	require.Len(t, got, 1)
	assert.Equal(t, "000002", got[0].Barcode)

	got = Visible(filterFixture(), ListQuery{Search: "ffpe"})
	require.Len(t, got, 1)
	assert.Equal(t, "000004", got[0].Barcode)
}

func TestVisibleFilterSemantics(t *testing.T) {
	t.Parallel()

	all := filterFixture()

	t.Run("or within a column", func(t *testing.T) {
		t.Parallel()
		got := Visible(all, ListQuery{Filters: map[Field]string{
			FieldType: "blood, tissue",
		}})
		assert.Equal(t, []string{"000001", "000003"}, barcodes(got))
	})

	t.Run("and across columns", func(t *testing.T) {
		t.Parallel()
		got := Visible(all, ListQuery{Filters: map[Field]string{
			FieldType:   "blood,tissue",
			FieldStatus: "Completed",
		}})
		assert.Equal(t, []string{"000001", "000003"}, barcodes(got))

		got = Visible(all, ListQuery{Filters: map[Field]string{
			FieldType:   "blood,tissue",
			FieldStatus: "In Storage",
		}})
		assert.Empty(t, got)
	})

	t.Run("exact membership not substring", func(t *testing.T) {
		t.Parallel()
		got := Visible(all, ListQuery{Filters: map[Field]string{
			FieldSpecimen: "Blood",
		}})
		assert.Empty(t, got)
	})

	t.Run("empty filter value is ignored", func(t *testing.T) {
		t.Parallel()
		got := Visible(all, ListQuery{Filters: map[Field]string{FieldType: ""}})
		assert.Len(t, got, 4)
	})
}

func TestVisibleSorting(t *testing.T) {
	t.Parallel()

	all := filterFixture()

	t.Run("numeric ascending with missing first", func(t *testing.T) {
		t.Parallel()
		got := Visible(all, ListQuery{Sort: SortSpec{Field: FieldVolume}})
		assert.Equal(t, []string{"000003", "000004", "000002", "000001"}, barcodes(got))
	})

	t.Run("descending inverts", func(t *testing.T) {
		t.Parallel()
		got := Visible(all, ListQuery{Sort: SortSpec{Field: FieldVolume, Desc: true}})
		assert.Equal(t, []string{"000001", "000002", "000004", "000003"}, barcodes(got))
	})

	t.Run("lexical with barcode tiebreak", func(t *testing.T) {
		t.Parallel()
		got := Visible(all, ListQuery{Sort: SortSpec{Field: FieldStatus}})
		// Completed < In Storage < Received; ties break on barcode.
		assert.Equal(t, []string{"000001", "000003", "000002", "000004"}, barcodes(got))
	})

	t.Run("input order preserved without sort", func(t *testing.T) {
		t.Parallel()
		got := Visible(all, ListQuery{})
		assert.Equal(t, []string{"000001", "000002", "000003", "000004"}, barcodes(got))
	})
}

func TestVisibleDoesNotReorderInput(t *testing.T) {
	t.Parallel()

	all := filterFixture()
	_ = Visible(all, ListQuery{Sort: SortSpec{Field: FieldVolume, Desc: true}})
	assert.Equal(t, []string{"000001", "000002", "000003", "000004"}, barcodes(all))
}

func TestFieldIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, FieldBarcode.IsValid())
	assert.True(t, FieldConcentration.IsValid())
	assert.False(t, Field("id").IsValid())
	assert.False(t, Field("surplus").IsValid())
	assert.False(t, Field("nonsense").IsValid())
}
