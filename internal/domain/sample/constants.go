package sample

// Controlled vocabularies for sample entry. These mirror the study's
// registration forms; free-form values are tolerated by the core but the
// UI offers only these.

var InvestigationTypes = []string{
	"Sequencing",
	"PDX",
	"Single Cell Analysis",
	"Organoids",
	"Cell of Origin",
	"Tissue Culture",
	"Immunology",
	"cfDNA/Sequencing",
	"Immune Analysis",
}

var Sites = []string{
	"UCLH",
	"Manchester",
	"Birmingham",
	"Aberdeen",
	"Leicester",
	"North Midd",
	"Rayal Free",
	"Whittington",
	"Cardiff",
	"Princess Alexandra",
	"St. Peter's",
	"Royal Brompton",
	"Southampton",
	"Sheffield",
	"Liverpool",
	"Barts",
	"Glasgow",
}

var Timepoints = []string{
	"Before surgery",
	"Surgery",
	"First Recurrence",
	"Biopsy At  Recurrence",
	"Biopsy At Progression",
	"Metastasectomy At Recurrence",
	"Completion Of All Treatment",
	"FU After Surgery/Adjuvant Chemo",
	"First Progression After Recurrence",
	"Second Progression After Recurrence",
	"First CT On Treatment For Second Progression",
	"Third Progression After Recurrence",
	"Fourth Progression After Recurrence",
	"Fifth Progression After Recurrence",
}

var bloodSpecimens = []string{
	"Immunology LH",
	"Organoids LH",
	"cfDNA Streck",
	"Germline EDTA",
	"CTC_Peripheral Streck",
	"Methylation Streck",
	"Metabolomics LH",
	"TCR/BCR Tempus",
}

var tissueSpecimens = []string{
	"Frozen Normal Lung",
	"Frozen Tumour Lung",
	"Frozen Tumour Lymph node",
	"Frozen Normal Lymph node",
	"Imm Fresh Tumour",
	"Imm Fresh Tumour Lymph node",
	"Imm Fresh Normal",
	"Imm Fresh Normal Lymph node",
	"Organoids Tumour",
	"Organoids Normal",
	"Cell of Origin",
	"Slice",
	"Frozen Biopsy",
}

// SpecimensForType returns the specimen names permitted for a sample type.
// Derivative types map to a single fixed specimen.
func SpecimensForType(t Type) []string {
	switch t {
	case TypeBlood:
		return bloodSpecimens
	case TypeTissue:
		return tissueSpecimens
	case TypeFFPE:
		return []string{"FFPE Block"}
	case TypeHE:
		return []string{"H&E Slide"}
	case TypeBuffy:
		return []string{"Buffy"}
	case TypePlasma:
		return []string{"Plasma"}
	case TypeDNA:
		return []string{"DNA"}
	case TypeRNA:
		return []string{"RNA"}
	default:
		out := make([]string, 0, len(bloodSpecimens)+len(tissueSpecimens))
		out = append(out, bloodSpecimens...)
		return append(out, tissueSpecimens...)
	}
}

var SpecNumbers = []string{
	"N01", "N02", "N03",
	"T1R01", "T1R02", "T1R03",
	"T2R01", "T2R02", "T2R03",
	"LN01", "LN02", "LN03",
}

var Materials = []string{
	"Frozen",
	"Fresh",
	"FFPE",
	"Ambient",
	"Wet Ice",
}

// Physical storage registry. A static grid; the core enforces no
// referential integrity against it.
var (
	Freezers  = []string{"Freezer 64", "Freezer 96", "Freezer 82", "Freezer 79"}
	Shelves   = []string{"Shelf A", "Shelf B", "Shelf C"}
	Boxes     = []string{"001", "002", "003", "004", "005", "006", "007"}
	Positions = []string{"1,1", "1,2", "1,3", "1,4", "1,5", "1,6", "1,7", "1,8", "1,9"}
)
