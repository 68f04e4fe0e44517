package sample

import (
	"fmt"

	"github.com/google/uuid"
)

// Derive turns user-edited child rows into finished records ready for a
// single atomic insert. Inputs are not mutated; every returned record is a
// fresh copy with its own ID.
//
// Lineage fields (patient ID, LTX ID, site, timepoint) always come from the
// resolved parent. Classification fields (type, specimen, spec number,
// material, investigation type) come from the parent unless the row supplies
// a non-empty override. Barcodes are never inherited.
func Derive(parents, children []*Sample) ([]*Sample, error) {
	var fields []string
	if len(parents) == 0 {
		fields = append(fields, "no parent samples selected")
	}
	if len(children) == 0 {
		fields = append(fields, "no derived samples supplied")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	byBarcode := make(map[string]*Sample, len(parents))
	for _, p := range parents {
		byBarcode[p.Barcode] = p
	}

	out := make([]*Sample, 0, len(children))
	for _, row := range children {
		parent, err := resolveParent(row, parents, byBarcode)
		if err != nil {
			return nil, err
		}
		if parent.Level == LevelAliquot {
			return nil, &ValidationError{
				Fields: []string{fmt.Sprintf("sample %s is an aliquot and cannot be derived from", parent.Barcode)},
			}
		}

		child := row.Clone()
		child.ID = uuid.New()
		child.PatientID = parent.PatientID
		child.LTXID = parent.LTXID
		child.Site = parent.Site
		child.Timepoint = parent.Timepoint
		child.ParentBarcode = parent.Barcode
		child.Status = StatusCollected

		if child.Type == "" {
			child.Type = parent.Type
		}
		if child.Specimen == "" {
			child.Specimen = parent.Specimen
		}
		if child.SpecNumber == "" {
			child.SpecNumber = parent.SpecNumber
		}
		if child.Material == "" {
			child.Material = parent.Material
		}
		if child.InvestigationType == "" {
			child.InvestigationType = parent.InvestigationType
		}

		if parent.Level == LevelOriginal {
			child.Level = LevelDerivative
		} else {
			child.Level = LevelAliquot
		}

		if child.Comments == "" {
			child.Comments = "Derived from " + parent.Barcode
		}

		out = append(out, child)
	}

	return out, nil
}

func resolveParent(row *Sample, parents []*Sample, byBarcode map[string]*Sample) (*Sample, error) {
	if row.ParentBarcode != "" {
		p, ok := byBarcode[row.ParentBarcode]
		if !ok {
			return nil, fmt.Errorf("%w: barcode %s not in selection", ErrParentNotFound, row.ParentBarcode)
		}
		return p, nil
	}
	// No explicit linkage: only unambiguous when deriving from a single
	// selection.
	if len(parents) == 1 {
		return parents[0], nil
	}
	return nil, fmt.Errorf("%w: row does not declare a parent barcode", ErrParentNotFound)
}
