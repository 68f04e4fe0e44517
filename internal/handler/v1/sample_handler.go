package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oncolab/sampletrack/internal/domain/sample"
	"github.com/oncolab/sampletrack/internal/service"
)

type SampleHandler struct {
	svc *service.SampleService
	log *zap.Logger
}

func NewSampleHandler(svc *service.SampleService, log *zap.Logger) *SampleHandler {
	return &SampleHandler{svc: svc, log: log}
}

// List runs the filter/sort/search pipeline. Column filters arrive as
// filter[column]=a,b query parameters; the values of one column are
// alternatives, different columns must all match.
func (h *SampleHandler) List(c *gin.Context) {
	q := sample.ListQuery{
		PatientID: c.Query("patientId"),
		Tab:       sample.Tab(c.DefaultQuery("tab", string(sample.TabAll))),
		Search:    c.Query("search"),
		Sort: sample.SortSpec{
			Field: sample.Field(c.Query("sortField")),
			Desc:  c.Query("sortOrder") == "desc",
		},
	}
	if raw := c.QueryMap("filter"); len(raw) > 0 {
		q.Filters = make(map[sample.Field]string, len(raw))
		for k, v := range raw {
			q.Filters[sample.Field(k)] = v
		}
	}

	samples, err := h.svc.ListSamples(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, samples)
}

func (h *SampleHandler) Create(c *gin.Context) {
	var rows []*sample.Sample
	if !bindJSON(c, &rows) {
		return
	}

	inserted, err := h.svc.AddSamples(c.Request.Context(), rows, callerClaims(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, inserted)
}

type deriveRequest struct {
	Parents  []*sample.Sample `json:"parents"`
	Children []*sample.Sample `json:"children"`
}

func (h *SampleHandler) Derive(c *gin.Context) {
	var req deriveRequest
	if !bindJSON(c, &req) {
		return
	}

	inserted, err := h.svc.DeriveSamples(c.Request.Context(), req.Parents, req.Children, callerClaims(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, inserted)
}

type receiveRequest struct {
	Barcodes []string `json:"barcodes"`
	Date     string   `json:"date"`
}

func (h *SampleHandler) Receive(c *gin.Context) {
	var req receiveRequest
	if !bindJSON(c, &req) {
		return
	}

	received, err := h.svc.ReceiveSamples(c.Request.Context(), req.Barcodes, req.Date, callerClaims(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, received)
}

func (h *SampleHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var record sample.Sample
	if !bindJSON(c, &record) {
		return
	}
	record.ID = id

	updated, err := h.svc.UpdateSample(c.Request.Context(), &record, callerClaims(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, updated)
}

type deleteRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (h *SampleHandler) Delete(c *gin.Context) {
	var req deleteRequest
	if !bindJSON(c, &req) {
		return
	}

	remaining, err := h.svc.DeleteSamples(c.Request.Context(), req.IDs, callerClaims(c), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, remaining)
}

func (h *SampleHandler) Tree(c *gin.Context) {
	tree, err := h.svc.LineageTree(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, tree)
}

func (h *SampleHandler) Patients(c *gin.Context) {
	patients, err := h.svc.Patients(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, patients)
}

// NextBarcode suggests the next free barcode. Rows already open in the
// entry form but not yet submitted can be passed as pending codes so two
// form rows never get the same suggestion.
func (h *SampleHandler) NextBarcode(c *gin.Context) {
	pending := c.QueryArray("pending")

	code, err := h.svc.NextBarcode(c.Request.Context(), pending)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"barcode": code})
}
