package sample

import (
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Type is the top-level classification of a specimen.
type Type string

const (
	TypeBlood  Type = "blood"
	TypeTissue Type = "tissue"
	TypeFFPE   Type = "ffpe"
	TypeHE     Type = "he"
	TypeBuffy  Type = "buffy"
	TypePlasma Type = "plasma"
	TypeDNA    Type = "dna"
	TypeRNA    Type = "rna"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeBlood, TypeTissue, TypeFFPE, TypeHE, TypeBuffy, TypePlasma, TypeDNA, TypeRNA:
		return true
	}
	return false
}

// Level places a sample in its lineage: an original is collected from the
// subject, a derivative is processed from an original, an aliquot is a
// sub-portion of a derivative. Maximum depth is three.
type Level string

const (
	LevelOriginal   Level = "Original sample"
	LevelDerivative Level = "Derivative"
	LevelAliquot    Level = "Aliquot"
)

func (l Level) IsValid() bool {
	switch l {
	case LevelOriginal, LevelDerivative, LevelAliquot:
		return true
	}
	return false
}

// Status is the workflow state of a sample. Transitions are not enforced
// except for receipt (see service.ReceiveSamples).
type Status string

const (
	StatusCollected Status = "Collected"
	StatusShipped   Status = "Shipped"
	StatusReceived  Status = "Received"
	StatusInStorage Status = "In Storage"
	StatusInProcess Status = "In Process"
	StatusCompleted Status = "Completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusCollected, StatusShipped, StatusReceived, StatusInStorage, StatusInProcess, StatusCompleted:
		return true
	}
	return false
}

type Sample struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Barcode is exactly six zero-padded ASCII digits and unique across
	// the whole collection.
	Barcode       string `gorm:"column:barcode;type:varchar(10);uniqueIndex;not null" json:"barcode"`
	LTXID         string `gorm:"column:ltx_id;type:varchar(10)" json:"ltxId"`
	PatientID     string `gorm:"column:patient_id;type:varchar(10);not null;index" json:"patientId"`
	ParentBarcode string `gorm:"column:parent_barcode;type:varchar(10);index" json:"parentBarcode,omitempty"`
	Level         Level  `gorm:"column:sample_level;type:varchar(20);index" json:"sampleLevel"`

	Type              Type   `gorm:"column:type;type:varchar(20);not null;index" json:"type"`
	Specimen          string `gorm:"column:specimen;type:varchar(50)" json:"specimen"`
	SpecNumber        string `gorm:"column:spec_number;type:varchar(10)" json:"specNumber"`
	Material          string `gorm:"column:material;type:varchar(20)" json:"material"`
	InvestigationType string `gorm:"column:investigation_type;type:varchar(50)" json:"investigationType"`
	Timepoint         string `gorm:"column:timepoint;type:varchar(100)" json:"timepoint"`
	Site              string `gorm:"column:site;type:varchar(50)" json:"site"`

	Status       Status `gorm:"column:status;type:varchar(20);index" json:"status"`
	SampleDate   string `gorm:"column:sample_date;type:varchar(10)" json:"sampleDate"`
	SampleTime   string `gorm:"column:sample_time;type:varchar(5)" json:"sampleTime"`
	DateSent     string `gorm:"column:date_sent;type:varchar(10)" json:"dateSent,omitempty"`
	DateReceived string `gorm:"column:date_received;type:varchar(10)" json:"dateReceived,omitempty"`

	Freezer  string `gorm:"column:freezer;type:varchar(20)" json:"freezer,omitempty"`
	Shelf    string `gorm:"column:shelf;type:varchar(20)" json:"shelf,omitempty"`
	Box      string `gorm:"column:box;type:varchar(20)" json:"box,omitempty"`
	Position string `gorm:"column:position;type:varchar(20)" json:"position,omitempty"`

	Volume        *float64 `gorm:"column:volume" json:"volume,omitempty"`
	Amount        *float64 `gorm:"column:amount" json:"amount,omitempty"`
	Concentration *float64 `gorm:"column:concentration" json:"concentration,omitempty"`
	Mass          *float64 `gorm:"column:mass" json:"mass,omitempty"`
	Surplus       bool     `gorm:"column:surplus;default:false" json:"surplus"`

	Comments string `gorm:"column:comments;type:text" json:"comments,omitempty"`
}

func (Sample) TableName() string {
	return "samples"
}

// Clone returns an independent copy so that repository snapshots stay
// isolated from caller mutation.
func (s *Sample) Clone() *Sample {
	c := *s
	c.Volume = clonePtr(s.Volume)
	c.Amount = clonePtr(s.Amount)
	c.Concentration = clonePtr(s.Concentration)
	c.Mass = clonePtr(s.Mass)
	return &c
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func (s *Sample) IsReceived() bool {
	return s.DateReceived != ""
}

// patientIDPattern is the qualifying format for LTX derivation:
// a site letter, an underscore, and a four-digit study number.
var patientIDPattern = regexp.MustCompile(`^[A-Z]_LTX\d{4}$`)

func IsValidPatientID(id string) bool {
	return patientIDPattern.MatchString(id)
}

// ltxIDLength is the trailing portion of a patient ID used as the display
// key, e.g. U_LTX0003 -> LTX0003.
const ltxIDLength = 7

// LTXIDFor derives the LTX ID from a patient ID. Patient IDs shorter than
// the qualifying length yield an empty LTX ID.
func LTXIDFor(patientID string) string {
	if len(patientID) < ltxIDLength+2 {
		return ""
	}
	return patientID[len(patientID)-ltxIDLength:]
}

// barcodeDigits is the fixed width of the zero-padded numeric barcode.
const barcodeDigits = 6

func IsValidBarcode(code string) bool {
	if len(code) != barcodeDigits {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// requiredFields enumerates the fields a submitted row must carry, with the
// labels shown back to the user. Order matters for the error message.
var requiredFields = []struct {
	label string
	get   func(*Sample) string
}{
	{"Barcode", func(s *Sample) string { return s.Barcode }},
	{"Patient ID", func(s *Sample) string { return s.PatientID }},
	{"Type", func(s *Sample) string { return string(s.Type) }},
	{"Investigation Type", func(s *Sample) string { return s.InvestigationType }},
	{"Site", func(s *Sample) string { return s.Site }},
	{"Timepoint", func(s *Sample) string { return s.Timepoint }},
	{"Specimen", func(s *Sample) string { return s.Specimen }},
	{"Spec Number", func(s *Sample) string { return s.SpecNumber }},
	{"Material", func(s *Sample) string { return s.Material }},
	{"Sample Date", func(s *Sample) string { return s.SampleDate }},
	{"Sample Time", func(s *Sample) string { return s.SampleTime }},
	{"Sample Level", func(s *Sample) string { return string(s.Level) }},
}

// ValidateRows checks every submitted row and reports all missing fields at
// once, one entry per offending row, rather than failing on the first.
func ValidateRows(rows []*Sample) error {
	var fields []string
	for i, row := range rows {
		var missing []string
		for _, rf := range requiredFields {
			if rf.get(row) == "" {
				missing = append(missing, rf.label)
			}
		}
		if len(missing) > 0 {
			fields = append(fields, "Row "+strconv.Itoa(i+1)+": "+joinLabels(missing))
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func joinLabels(labels []string) string {
	out := labels[0]
	for _, l := range labels[1:] {
		out += ", " + l
	}
	return out
}
