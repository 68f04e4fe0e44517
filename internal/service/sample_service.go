package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oncolab/sampletrack/internal/domain"
	"github.com/oncolab/sampletrack/internal/domain/sample"
	"github.com/oncolab/sampletrack/pkg/metrics"
)

// SampleService orchestrates every mutation of the sample collection and
// feeds the pure engines with repository snapshots.
type SampleService struct {
	repo     sample.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewSampleService(repo sample.Repository, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *SampleService {
	return &SampleService{repo: repo, auditSvc: auditSvc, metrics: m, log: log}
}

// AddSamples validates and inserts a batch of directly-entered samples.
// The whole batch succeeds or fails together.
func (s *SampleService) AddSamples(ctx context.Context, rows []*sample.Sample, caller domain.Claims, ip string) ([]*sample.Sample, error) {
	if !caller.Role.CanWrite() {
		return nil, ErrForbidden
	}
	if len(rows) == 0 {
		return nil, &sample.ValidationError{Fields: []string{"no samples supplied"}}
	}
	if err := sample.ValidateRows(rows); err != nil {
		return nil, err
	}
	if err := validateFormats(rows); err != nil {
		return nil, err
	}

	for _, row := range rows {
		row.LTXID = sample.LTXIDFor(row.PatientID)
		if row.Status == "" {
			row.Status = sample.StatusCollected
		}
	}

	inserted, err := s.repo.InsertMany(ctx, rows)
	if err != nil {
		s.log.Error("failed to insert samples", zap.Error(err))
		return nil, fmt.Errorf("inserting samples: %w", err)
	}

	s.metrics.SamplesCreatedTotal.Add(float64(len(inserted)))
	s.audit(ctx, caller, ip, domain.ActionSampleCreated, barcodes(inserted), "")

	s.log.Info("samples added",
		zap.Int("count", len(inserted)),
		zap.String("created_by", caller.Email),
	)
	return inserted, nil
}

// DeriveSamples produces derivative/aliquot records from the selected
// parents and inserts them as one atomic batch.
func (s *SampleService) DeriveSamples(ctx context.Context, parents, children []*sample.Sample, caller domain.Claims, ip string) ([]*sample.Sample, error) {
	if !caller.Role.CanWrite() {
		return nil, ErrForbidden
	}

	derived, err := sample.Derive(parents, children)
	if err != nil {
		return nil, err
	}
	if err := sample.ValidateRows(derived); err != nil {
		return nil, err
	}
	if err := validateFormats(derived); err != nil {
		return nil, err
	}

	inserted, err := s.repo.InsertMany(ctx, derived)
	if err != nil {
		s.log.Error("failed to insert derived samples", zap.Error(err))
		return nil, fmt.Errorf("inserting derived samples: %w", err)
	}

	for _, d := range inserted {
		s.metrics.SamplesDerivedTotal.WithLabelValues(string(d.Level)).Inc()
	}
	s.audit(ctx, caller, ip, domain.ActionSampleCreated, barcodes(inserted), "derived")

	s.log.Info("samples derived",
		zap.Int("count", len(inserted)),
		zap.Int("parents", len(parents)),
	)
	return inserted, nil
}

// ReceiveSamples stamps a receive date on the given barcodes and moves them
// to Received. Samples already received are left untouched. This is the one
// status transition the system applies programmatically.
func (s *SampleService) ReceiveSamples(ctx context.Context, codes []string, date string, caller domain.Claims, ip string) ([]*sample.Sample, error) {
	if !caller.Role.CanWrite() {
		return nil, ErrForbidden
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing samples: %w", err)
	}

	wanted := make(map[string]bool, len(codes))
	for _, c := range codes {
		wanted[c] = true
	}

	var received []*sample.Sample
	for _, existing := range all {
		if !wanted[existing.Barcode] || existing.IsReceived() {
			continue
		}
		existing.DateReceived = date
		existing.Status = sample.StatusReceived
		updated, err := s.repo.UpdateOne(ctx, existing)
		if err != nil {
			return nil, fmt.Errorf("receiving sample %s: %w", existing.Barcode, err)
		}
		received = append(received, updated)
	}

	if len(received) > 0 {
		s.metrics.SamplesReceivedTotal.Add(float64(len(received)))
		s.audit(ctx, caller, ip, domain.ActionSampleReceived, barcodes(received), date)
	}
	return received, nil
}

// UpdateSample applies an edit to one sample. The LTX ID is recomputed from
// the patient ID; it is never independently editable.
func (s *SampleService) UpdateSample(ctx context.Context, record *sample.Sample, caller domain.Claims, ip string) (*sample.Sample, error) {
	if !caller.Role.CanWrite() {
		return nil, ErrForbidden
	}
	if err := sample.ValidateRows([]*sample.Sample{record}); err != nil {
		return nil, err
	}
	if err := validateFormats([]*sample.Sample{record}); err != nil {
		return nil, err
	}

	record.LTXID = sample.LTXIDFor(record.PatientID)

	updated, err := s.repo.UpdateOne(ctx, record)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, caller, ip, domain.ActionSampleUpdated, updated.Barcode, "")
	return updated, nil
}

func (s *SampleService) DeleteSamples(ctx context.Context, ids []uuid.UUID, caller domain.Claims, ip string) ([]*sample.Sample, error) {
	if !caller.Role.CanWrite() {
		return nil, ErrForbidden
	}

	remaining, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("deleting samples: %w", err)
	}

	s.metrics.SamplesDeletedTotal.Add(float64(len(ids)))
	s.audit(ctx, caller, ip, domain.ActionSampleDeleted, fmt.Sprintf("%d samples", len(ids)), "")
	return remaining, nil
}

// ListSamples runs the filter/sort/search pipeline over the latest snapshot.
func (s *SampleService) ListSamples(ctx context.Context, q sample.ListQuery) ([]*sample.Sample, error) {
	if q.Sort.Field != "" && !q.Sort.Field.IsValid() {
		return nil, &sample.ValidationError{Fields: []string{fmt.Sprintf("unknown sort field %q", q.Sort.Field)}}
	}
	for field := range q.Filters {
		if !field.IsValid() {
			return nil, &sample.ValidationError{Fields: []string{fmt.Sprintf("unknown filter field %q", field)}}
		}
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing samples: %w", err)
	}
	return sample.Visible(all, q), nil
}

// LineageTree rebuilds the patient/original/derivative/aliquot hierarchy
// from the latest snapshot.
func (s *SampleService) LineageTree(ctx context.Context) (*sample.Tree, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing samples: %w", err)
	}
	tree := sample.BuildTree(all)
	if n := len(tree.Orphans); n > 0 {
		s.log.Warn("lineage tree has unattachable aliquots", zap.Int("count", n))
	}
	return tree, nil
}

func (s *SampleService) Patients(ctx context.Context) ([]*sample.Patient, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing samples: %w", err)
	}
	return sample.Patients(all), nil
}

// NextBarcode suggests the next free barcode over the stored collection
// plus any pending (not yet submitted) codes the form already holds.
func (s *SampleService) NextBarcode(ctx context.Context, pending []string) (string, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("listing samples: %w", err)
	}
	codes := make([]string, 0, len(all)+len(pending))
	for _, existing := range all {
		codes = append(codes, existing.Barcode)
	}
	codes = append(codes, pending...)
	return sample.NextBarcode(codes), nil
}

func (s *SampleService) audit(ctx context.Context, caller domain.Claims, ip string, action domain.AuditAction, resourceID, details string) {
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:     caller.UserID,
		UserEmail:  caller.Email,
		Action:     action,
		ResourceID: resourceID,
		Details:    details,
		IPAddress:  ip,
	})
}

// validateFormats checks the identifier contracts: six-digit barcodes and
// the qualifying patient ID format. All violations are reported at once.
func validateFormats(rows []*sample.Sample) error {
	var fields []string
	for i, row := range rows {
		if !sample.IsValidBarcode(row.Barcode) {
			fields = append(fields, fmt.Sprintf("Row %d: barcode %q must be exactly 6 digits", i+1, row.Barcode))
		}
		if !sample.IsValidPatientID(row.PatientID) {
			fields = append(fields, fmt.Sprintf("Row %d: patient ID %q must match Letter_LTX0000 (e.g. U_LTX0003)", i+1, row.PatientID))
		}
	}
	if len(fields) > 0 {
		return &sample.ValidationError{Fields: fields}
	}
	return nil
}

func barcodes(samples []*sample.Sample) string {
	codes := make([]string, len(samples))
	for i, s := range samples {
		codes[i] = s.Barcode
	}
	return strings.Join(codes, ",")
}
