package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oncolab/sampletrack/internal/domain"
	"github.com/oncolab/sampletrack/pkg/metrics"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// AuditEntry is the service-facing shape of a system log line.
type AuditEntry struct {
	UserID     uuid.UUID
	UserEmail  string
	Action     domain.AuditAction
	ResourceID string
	Details    string
	IPAddress  string
}

// AuditService persists system log entries off the request path. Entries
// are buffered and written by a single worker; a full buffer drops the
// entry rather than blocking a sample mutation.
type AuditService struct {
	repo    AuditRepository
	log     *zap.Logger
	metrics *metrics.Collector
	entries chan *domain.AuditLog
	done    chan struct{}
}

const auditBufferSize = 10_000

func NewAuditService(repo AuditRepository, m *metrics.Collector, log *zap.Logger) *AuditService {
	svc := &AuditService{
		repo:    repo,
		log:     log,
		metrics: m,
		entries: make(chan *domain.AuditLog, auditBufferSize),
		done:    make(chan struct{}),
	}
	go svc.worker()
	return svc
}

func (s *AuditService) LogAsync(_ context.Context, entry AuditEntry) {
	al := &domain.AuditLog{
		UserID:     entry.UserID,
		UserEmail:  entry.UserEmail,
		Action:     entry.Action,
		ResourceID: entry.ResourceID,
		Details:    entry.Details,
		IPAddress:  entry.IPAddress,
	}

	select {
	case s.entries <- al:
	default:
		s.metrics.AuditBufferDropped.Inc()
		s.log.Warn("system log buffer full, dropping entry",
			zap.String("action", string(entry.Action)),
			zap.String("resource_id", entry.ResourceID),
		)
	}
}

func (s *AuditService) Shutdown() {
	close(s.entries)
	select {
	case <-s.done:
	case <-time.After(10 * time.Second):
		s.log.Warn("audit service shutdown timed out; some entries may be lost")
	}
}

func (s *AuditService) worker() {
	defer close(s.done)
	for entry := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Error("failed to persist system log entry", zap.Error(err))
		} else {
			s.metrics.AuditEntriesTotal.Inc()
		}
		cancel()
	}
}
