// Package service implements the identity-claim orchestration: one
// arbitrated critical section that validates the primary handle and
// materializes the actor's starting state from a provisioning template.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	actormodels "github.com/Malmz/TalesFromTheSprawl/internal/actor/models"
	actorstore "github.com/Malmz/TalesFromTheSprawl/internal/actor/store"
	"github.com/Malmz/TalesFromTheSprawl/internal/arbiter"
	"github.com/Malmz/TalesFromTheSprawl/internal/groupdir"
	handlemodels "github.com/Malmz/TalesFromTheSprawl/internal/handle/models"
	handleservice "github.com/Malmz/TalesFromTheSprawl/internal/handle/service"
	"github.com/Malmz/TalesFromTheSprawl/internal/ledger"
	"github.com/Malmz/TalesFromTheSprawl/internal/platform/metrics"
	templatestore "github.com/Malmz/TalesFromTheSprawl/internal/template/store"
	dErrors "github.com/Malmz/TalesFromTheSprawl/pkg/domain-errors"
	"github.com/Malmz/TalesFromTheSprawl/pkg/platform/audit"
)

var tracer = otel.Tracer("github.com/Malmz/TalesFromTheSprawl/internal/claim")

// Status is the terminal state of one claim orchestration.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusRejected  Status = "rejected"
	StatusBusy      Status = "busy"
)

// Result carries the terminal status and exactly one report string.
type Result struct {
	Status Status
	Report string
}

// AuditPublisher is the sink for claim lifecycle events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates handle claims.
type Service struct {
	gate      *arbiter.Arbiter
	registry  *handleservice.Registry
	actors    actorstore.Store
	templates templatestore.Store
	ledger    ledger.Ledger
	groups    groupdir.Directory
	logger    *slog.Logger
	metrics   *metrics.Metrics
	auditPub  AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditPub = p }
}

func New(
	gate *arbiter.Arbiter,
	registry *handleservice.Registry,
	actors actorstore.Store,
	templates templatestore.Store,
	ldg ledger.Ledger,
	groups groupdir.Directory,
	opts ...Option,
) *Service {
	s := &Service{
		gate:      gate,
		registry:  registry,
		actors:    actors,
		templates: templates,
		ledger:    ldg,
		groups:    groups,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Claim runs one identity-claim orchestration for requesterID wanting
// rawHandleID as its primary handle.
//
// The arbitration token is released on every path out of the critical
// section, including collaborator failures: resource safety takes
// precedence over reporting fidelity.
func (s *Service) Claim(ctx context.Context, requesterID, rawHandleID string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "claim.join")
	defer span.End()
	span.SetAttributes(
		attribute.String("claim.requester", requesterID),
		attribute.String("claim.handle", rawHandleID),
	)

	token, err := s.gate.Acquire(ctx, requesterID)
	if err != nil {
		if errors.Is(err, arbiter.ErrBusy) {
			s.countBusy()
			// The acquirer that hits the ceiling is also the one that forced
			// the slot clear; record both facts.
			s.emitAudit(ctx, audit.Event{
				Category: audit.CategoryArbiter,
				ActorID:  requesterID,
				Action:   audit.ActionForcedUnlock,
				Reason:   "arbitration retry ceiling reached",
			})
			s.emitAudit(ctx, audit.Event{
				Category: audit.CategoryClaim,
				ActorID:  requesterID,
				Subject:  handlemodels.Normalize(rawHandleID),
				Action:   audit.ActionClaimBusy,
				Reason:   "arbitration gate busy",
			})
			return &Result{Status: StatusBusy, Report: busyReport()}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "claim arbitration failed")
	}
	// Release must survive a cancelled request context; the gate must never
	// stay held past the end of the orchestration.
	defer s.gate.Release(context.WithoutCancel(ctx), token)

	actor, _, err := s.actors.Ensure(ctx, requesterID, actormodels.KindPlayer)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "actor registry unavailable")
	}

	primary, err := s.registry.CreateHandle(ctx, actor.ID, rawHandleID, handlemodels.KindRegular)
	if err != nil {
		return nil, err
	}
	if !primary.IsUsable() {
		s.countRejected()
		s.emitAudit(ctx, audit.Event{
			Category: audit.CategoryClaim,
			ActorID:  actor.ID,
			Subject:  primary.ID,
			Action:   audit.ActionClaimRejected,
			Reason:   "handle taken or invalid",
		})
		return &Result{Status: StatusRejected, Report: rejectedReport(rawHandleID)}, nil
	}

	tmpl, err := s.templates.Get(ctx, primary.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "template store unavailable")
	}

	report := welcomeLine(primary.ID)
	if tmpl != nil {
		report, err = s.provision(ctx, actor, primary, tmpl)
		if err != nil {
			return nil, err
		}
	}

	s.countSucceeded()
	s.emitAudit(ctx, audit.Event{
		Category: audit.CategoryClaim,
		ActorID:  actor.ID,
		Subject:  primary.ID,
		Action:   audit.ActionClaimSucceeded,
	})
	s.logger.InfoContext(ctx, "handle claimed",
		"actor_id", actor.ID,
		"handle", primary.ID,
		"provisioned", tmpl != nil,
	)
	return &Result{Status: StatusSucceeded, Report: report}, nil
}

// emitAudit logs and drops audit failures; a down audit sink must not turn
// a finished claim into an error.
func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditPub == nil {
		return
	}
	if err := s.auditPub.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}

func (s *Service) countSucceeded() {
	if s.metrics != nil {
		s.metrics.ClaimsSucceeded.Inc()
	}
}

func (s *Service) countRejected() {
	if s.metrics != nil {
		s.metrics.ClaimsRejected.Inc()
	}
}

func (s *Service) countBusy() {
	if s.metrics != nil {
		s.metrics.ClaimsBusy.Inc()
	}
}
