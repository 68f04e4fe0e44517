package sample

import (
	"sort"
	"strconv"
	"strings"
)

// Field names a filterable/sortable sample column. The set is closed on
// purpose: filters arrive from the UI keyed by column name and are validated
// at the boundary instead of duck-typed against the struct.
type Field string

const (
	FieldBarcode           Field = "barcode"
	FieldLTXID             Field = "ltxId"
	FieldPatientID         Field = "patientId"
	FieldParentBarcode     Field = "parentBarcode"
	FieldLevel             Field = "sampleLevel"
	FieldType              Field = "type"
	FieldSpecimen          Field = "specimen"
	FieldSpecNumber        Field = "specNumber"
	FieldMaterial          Field = "material"
	FieldInvestigationType Field = "investigationType"
	FieldTimepoint         Field = "timepoint"
	FieldSite              Field = "site"
	FieldStatus            Field = "status"
	FieldSampleDate        Field = "sampleDate"
	FieldSampleTime        Field = "sampleTime"
	FieldDateSent          Field = "dateSent"
	FieldDateReceived      Field = "dateReceived"
	FieldFreezer           Field = "freezer"
	FieldShelf             Field = "shelf"
	FieldBox               Field = "box"
	FieldPosition          Field = "position"
	FieldVolume            Field = "volume"
	FieldAmount            Field = "amount"
	FieldConcentration     Field = "concentration"
	FieldMass              Field = "mass"
	FieldComments          Field = "comments"
)

// searchFields are the columns scanned by free-text search. Internal
// identifiers and the surplus flag are deliberately excluded.
var searchFields = []Field{
	FieldBarcode, FieldLTXID, FieldPatientID, FieldParentBarcode, FieldLevel,
	FieldType, FieldSpecimen, FieldSpecNumber, FieldMaterial,
	FieldInvestigationType, FieldTimepoint, FieldSite, FieldStatus,
	FieldSampleDate, FieldSampleTime, FieldDateSent, FieldDateReceived,
	FieldFreezer, FieldShelf, FieldBox, FieldPosition,
	FieldVolume, FieldAmount, FieldConcentration, FieldMass, FieldComments,
}

func (f Field) IsValid() bool {
	for _, sf := range searchFields {
		if f == sf {
			return true
		}
	}
	return false
}

func (f Field) isNumeric() bool {
	switch f {
	case FieldVolume, FieldAmount, FieldConcentration, FieldMass:
		return true
	}
	return false
}

// FieldValue stringifies one column of a sample. Absent numeric values
// stringify to the empty string.
func (s *Sample) FieldValue(f Field) string {
	switch f {
	case FieldBarcode:
		return s.Barcode
	case FieldLTXID:
		return s.LTXID
	case FieldPatientID:
		return s.PatientID
	case FieldParentBarcode:
		return s.ParentBarcode
	case FieldLevel:
		return string(s.Level)
	case FieldType:
		return string(s.Type)
	case FieldSpecimen:
		return s.Specimen
	case FieldSpecNumber:
		return s.SpecNumber
	case FieldMaterial:
		return s.Material
	case FieldInvestigationType:
		return s.InvestigationType
	case FieldTimepoint:
		return s.Timepoint
	case FieldSite:
		return s.Site
	case FieldStatus:
		return string(s.Status)
	case FieldSampleDate:
		return s.SampleDate
	case FieldSampleTime:
		return s.SampleTime
	case FieldDateSent:
		return s.DateSent
	case FieldDateReceived:
		return s.DateReceived
	case FieldFreezer:
		return s.Freezer
	case FieldShelf:
		return s.Shelf
	case FieldBox:
		return s.Box
	case FieldPosition:
		return s.Position
	case FieldVolume:
		return formatFloat(s.Volume)
	case FieldAmount:
		return formatFloat(s.Amount)
	case FieldConcentration:
		return formatFloat(s.Concentration)
	case FieldMass:
		return formatFloat(s.Mass)
	case FieldComments:
		return s.Comments
	}
	return ""
}

func (s *Sample) numericValue(f Field) *float64 {
	switch f {
	case FieldVolume:
		return s.Volume
	case FieldAmount:
		return s.Amount
	case FieldConcentration:
		return s.Concentration
	case FieldMass:
		return s.Mass
	}
	return nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Tab identifies the active view. Blood and tissue scope by type; the
// derivative tabs scope by their fixed specimen name, so a sample shows up
// in at most one specimen tab plus its type tab.
type Tab string

const (
	TabAll    Tab = "all"
	TabBlood  Tab = "blood"
	TabTissue Tab = "tissue"
	TabFFPE   Tab = "ffpe"
	TabHE     Tab = "he"
	TabBuffy  Tab = "buffy"
	TabPlasma Tab = "plasma"
	TabDNA    Tab = "dna"
	TabRNA    Tab = "rna"
)

func (t Tab) matches(s *Sample) bool {
	switch t {
	case TabAll, "":
		return true
	case TabFFPE:
		return s.Specimen == "FFPE Block"
	case TabHE:
		return s.Specimen == "H&E Slide"
	case TabBuffy:
		return s.Specimen == "Buffy"
	case TabPlasma:
		return s.Specimen == "Plasma"
	case TabDNA:
		return s.Specimen == "DNA"
	case TabRNA:
		return s.Specimen == "RNA"
	default:
		return string(s.Type) == string(t)
	}
}

type SortSpec struct {
	Field Field `json:"field"`
	Desc  bool  `json:"desc"`
}

// ListQuery captures everything the table view sends: the active tab, an
// optional patient scope, the free-text search term, per-column allow-lists
// and the sort column.
type ListQuery struct {
	PatientID string           `json:"patientId"`
	Tab       Tab              `json:"tab"`
	Search    string           `json:"search"`
	Filters   map[Field]string `json:"filters"`
	Sort      SortSpec         `json:"sort"`
}

// Visible computes the ordered subset of samples for the active view. The
// stages run narrowest-cut first so later, more expensive stages see fewer
// rows. The input slice is never reordered; a new slice is returned.
func Visible(all []*Sample, q ListQuery) []*Sample {
	out := make([]*Sample, 0, len(all))
	term := strings.ToLower(q.Search)

	for _, s := range all {
		if q.PatientID != "" && s.PatientID != q.PatientID {
			continue
		}
		if !q.Tab.matches(s) {
			continue
		}
		if term != "" && !matchesSearch(s, term) {
			continue
		}
		if !matchesFilters(s, q.Filters) {
			continue
		}
		out = append(out, s)
	}

	sortSamples(out, q.Sort)
	return out
}

func matchesSearch(s *Sample, term string) bool {
	for _, f := range searchFields {
		if strings.Contains(strings.ToLower(s.FieldValue(f)), term) {
			return true
		}
	}
	return false
}

// matchesFilters applies every active column filter: a sample must satisfy
// all of them, and within one column any member of the comma-joined
// allow-list is accepted.
func matchesFilters(s *Sample, filters map[Field]string) bool {
	for field, allowed := range filters {
		if allowed == "" {
			continue
		}
		value := s.FieldValue(field)
		ok := false
		for _, candidate := range strings.Split(allowed, ",") {
			if value == strings.TrimSpace(candidate) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func sortSamples(samples []*Sample, spec SortSpec) {
	if spec.Field == "" {
		return
	}
	sort.SliceStable(samples, func(i, j int) bool {
		c := compareField(samples[i], samples[j], spec.Field)
		if c == 0 {
			// Barcode tiebreak keeps the order reproducible.
			c = strings.Compare(samples[i].Barcode, samples[j].Barcode)
		}
		if spec.Desc {
			return c > 0
		}
		return c < 0
	})
}

// compareField orders two samples on one column: numerically for the
// quantitative columns (missing values sort first), lexically otherwise.
func compareField(a, b *Sample, f Field) int {
	if f.isNumeric() {
		av, bv := a.numericValue(f), b.numericValue(f)
		switch {
		case av == nil && bv == nil:
			return 0
		case av == nil:
			return -1
		case bv == nil:
			return 1
		case *av < *bv:
			return -1
		case *av > *bv:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.FieldValue(f), b.FieldValue(f))
}
