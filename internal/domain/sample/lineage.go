package sample

// DerivativeNode is a derivative with the aliquots taken from it, in the
// order they were encountered.
type DerivativeNode struct {
	Sample   *Sample   `json:"sample"`
	Aliquots []*Sample `json:"aliquots"`
}

// PatientNode groups one patient's samples by lineage level. Originals keep
// collection order; derivatives are keyed by their own barcode for O(1)
// aliquot attachment.
type PatientNode struct {
	PatientID   string                     `json:"patientId"`
	Originals   []*Sample                  `json:"originals"`
	Derivatives map[string]*DerivativeNode `json:"derivatives"`

	derivativeOrder []string
}

// Tree is the reconstructed patient -> original -> derivative -> aliquot
// hierarchy over a flat snapshot.
type Tree struct {
	Patients map[string]*PatientNode `json:"patients"`

	// Orphans are aliquots whose parent derivative could not be found in
	// the same patient group. They are excluded from the tree but reported
	// here so broken lineage is visible instead of silently vanishing.
	Orphans []*Sample `json:"orphans,omitempty"`

	patientOrder []string
}

// BuildTree reconstructs the lineage hierarchy from a flat collection.
// It is pure and idempotent: the input is never mutated and identical input
// yields a structurally identical tree.
func BuildTree(samples []*Sample) *Tree {
	t := &Tree{Patients: make(map[string]*PatientNode)}

	for _, s := range samples {
		node, ok := t.Patients[s.PatientID]
		if !ok {
			node = &PatientNode{
				PatientID:   s.PatientID,
				Derivatives: make(map[string]*DerivativeNode),
			}
			t.Patients[s.PatientID] = node
			t.patientOrder = append(t.patientOrder, s.PatientID)
		}

		switch s.Level {
		case LevelOriginal:
			node.Originals = append(node.Originals, s)
		case LevelDerivative:
			node.Derivatives[s.Barcode] = &DerivativeNode{Sample: s}
			node.derivativeOrder = append(node.derivativeOrder, s.Barcode)
		case LevelAliquot:
			// Aliquots attach only within their own patient group.
			if parent, ok := node.Derivatives[s.ParentBarcode]; ok {
				parent.Aliquots = append(parent.Aliquots, s)
			} else {
				t.Orphans = append(t.Orphans, s)
			}
		}
	}

	return t
}

// PatientNodes returns the patient nodes in first-appearance order.
func (t *Tree) PatientNodes() []*PatientNode {
	out := make([]*PatientNode, 0, len(t.patientOrder))
	for _, id := range t.patientOrder {
		out = append(out, t.Patients[id])
	}
	return out
}

// DerivativesOf returns the derivatives attached to an original, in the
// order they were encountered. A derivative whose parent barcode matches no
// original in the group is simply never returned here but remains in the
// Derivatives map.
func (n *PatientNode) DerivativesOf(original *Sample) []*DerivativeNode {
	var out []*DerivativeNode
	for _, barcode := range n.derivativeOrder {
		d := n.Derivatives[barcode]
		if d.Sample.ParentBarcode == original.Barcode {
			out = append(out, d)
		}
	}
	return out
}

// Patient is a virtual aggregate computed by grouping samples; it is never
// stored. Cohort/study/eligibility metadata are registration-system
// placeholders until that integration lands.
type Patient struct {
	ID               string    `json:"id"`
	LTXID            string    `json:"ltxId"`
	Site             string    `json:"site"`
	Cohort           string    `json:"cohort"`
	Study            string    `json:"study"`
	Eligibility      string    `json:"eligibility"`
	RegistrationDate string    `json:"registrationDate"`
	Samples          []*Sample `json:"samples"`
}

// Patients groups a snapshot into virtual patient records, ordered by first
// appearance in the collection.
func Patients(samples []*Sample) []*Patient {
	byID := make(map[string]*Patient)
	var out []*Patient
	for _, s := range samples {
		p, ok := byID[s.PatientID]
		if !ok {
			p = &Patient{
				ID:               s.PatientID,
				LTXID:            LTXIDFor(s.PatientID),
				Site:             "UCLH",
				Cohort:           "A",
				Study:            "TRACERx",
				Eligibility:      "eligible",
				RegistrationDate: "2024-01-01",
			}
			byID[s.PatientID] = p
			out = append(out, p)
		}
		p.Samples = append(p.Samples, s)
	}
	return out
}
