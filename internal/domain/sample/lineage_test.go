package sample

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineageFixture() []*Sample {
	original := &Sample{
		ID:        uuid.New(),
		Barcode:   "000001",
		PatientID: "U_LTX0001",
		LTXID:     "LTX0001",
		Type:      TypeBlood,
		Level:     LevelOriginal,
	}
	derivative := &Sample{
		ID:            uuid.New(),
		Barcode:       "000002",
		PatientID:     "U_LTX0001",
		LTXID:         "LTX0001",
		Type:          TypePlasma,
		Specimen:      "Plasma",
		Level:         LevelDerivative,
		ParentBarcode: "000001",
	}
	aliquot := &Sample{
		ID:            uuid.New(),
		Barcode:       "000003",
		PatientID:     "U_LTX0001",
		LTXID:         "LTX0001",
		Type:          TypePlasma,
		Specimen:      "Plasma",
		Level:         LevelAliquot,
		ParentBarcode: "000002",
	}
	return []*Sample{original, derivative, aliquot}
}

func TestBuildTree(t *testing.T) {
	t.Parallel()

	samples := lineageFixture()
	tree := BuildTree(samples)

	require.Len(t, tree.Patients, 1)
	node := tree.Patients["U_LTX0001"]
	require.NotNil(t, node)

	require.Len(t, node.Originals, 1)
	assert.Equal(t, "000001", node.Originals[0].Barcode)

	d := node.Derivatives["000002"]
	require.NotNil(t, d)
	assert.Equal(t, "000002", d.Sample.Barcode)
	require.Len(t, d.Aliquots, 1)
	assert.Equal(t, "000003", d.Aliquots[0].Barcode)

	assert.Empty(t, tree.Orphans)

	children := node.DerivativesOf(node.Originals[0])
	require.Len(t, children, 1)
	assert.Same(t, d, children[0])
}

func TestBuildTreeIdempotent(t *testing.T) {
	t.Parallel()

	samples := lineageFixture()
	first := BuildTree(samples)
	second := BuildTree(samples)

	assert.Equal(t, first.Patients, second.Patients)
	assert.Equal(t, first.Orphans, second.Orphans)
	assert.Equal(t, first.PatientNodes(), second.PatientNodes())
}

func TestBuildTreeOrphanAliquot(t *testing.T) {
	t.Parallel()

	samples := lineageFixture()
	orphan := &Sample{
		ID:            uuid.New(),
		Barcode:       "000009",
		PatientID:     "U_LTX0001",
		Level:         LevelAliquot,
		ParentBarcode: "999999",
	}
	tree := BuildTree(append(samples, orphan))

	require.Len(t, tree.Orphans, 1)
	assert.Equal(t, "000009", tree.Orphans[0].Barcode)

	node := tree.Patients["U_LTX0001"]
	require.Len(t, node.Derivatives["000002"].Aliquots, 1)
}

func TestBuildTreeCrossPatientAliquot(t *testing.T) {
	t.Parallel()

	samples := lineageFixture()
	// Same parent barcode, different patient group. It must not attach.
	stray := &Sample{
		ID:            uuid.New(),
		Barcode:       "000010",
		PatientID:     "M_LTX0002",
		Level:         LevelAliquot,
		ParentBarcode: "000002",
	}
	tree := BuildTree(append(samples, stray))

	require.Len(t, tree.Orphans, 1)
	assert.Equal(t, "000010", tree.Orphans[0].Barcode)
	assert.Len(t, tree.Patients["U_LTX0001"].Derivatives["000002"].Aliquots, 1)
}

func TestBuildTreeUnattachedDerivativeRetained(t *testing.T) {
	t.Parallel()

	floating := &Sample{
		ID:            uuid.New(),
		Barcode:       "000020",
		PatientID:     "U_LTX0001",
		Level:         LevelDerivative,
		ParentBarcode: "888888",
	}
	tree := BuildTree(append(lineageFixture(), floating))

	node := tree.Patients["U_LTX0001"]
	require.NotNil(t, node.Derivatives["000020"])

	attached := node.DerivativesOf(node.Originals[0])
	require.Len(t, attached, 1)
	assert.Equal(t, "000002", attached[0].Sample.Barcode)
}

func TestPatientNodesOrder(t *testing.T) {
	t.Parallel()

	samples := []*Sample{
		{ID: uuid.New(), Barcode: "000001", PatientID: "U_LTX0002", Level: LevelOriginal},
		{ID: uuid.New(), Barcode: "000002", PatientID: "U_LTX0001", Level: LevelOriginal},
		{ID: uuid.New(), Barcode: "000003", PatientID: "U_LTX0002", Level: LevelOriginal},
	}
	nodes := BuildTree(samples).PatientNodes()

	require.Len(t, nodes, 2)
	assert.Equal(t, "U_LTX0002", nodes[0].PatientID)
	assert.Equal(t, "U_LTX0001", nodes[1].PatientID)
	assert.Len(t, nodes[0].Originals, 2)
}

func TestPatients(t *testing.T) {
	t.Parallel()

	samples := lineageFixture()
	patients := Patients(samples)

	require.Len(t, patients, 1)
	p := patients[0]
	assert.Equal(t, "U_LTX0001", p.ID)
	assert.Equal(t, "LTX0001", p.LTXID)
	assert.Len(t, p.Samples, 3)
}
