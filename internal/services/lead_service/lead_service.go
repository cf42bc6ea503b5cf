package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"sync"
	"time"

	"contractor_site/internal/domain/models"
	"contractor_site/internal/lib/logger/sl"
	"contractor_site/internal/metrics"
	"contractor_site/internal/repository"
	"contractor_site/internal/services/changefeed"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

var ErrInvalidLead = errors.New("invalid lead")

const (
	mirrorTimeout   = 10 * time.Second
	defaultPageSize = 20
)

// FunctionInvoker calls a named serverless function. supabase-go's
// Functions client satisfies it.
type FunctionInvoker interface {
	Invoke(functionName string, payload interface{}) (string, error)
}

type Publisher interface {
	Publish(ctx context.Context, c changefeed.Change) error
}

// Mirror forwards captured leads to one external target.
type Mirror struct {
	Target   models.SyncTarget
	Function string
}

type LeadService struct {
	log     *slog.Logger
	repo    repository.LeadRepository
	invoker FunctionInvoker
	mirrors []Mirror
	events  Publisher
	policy  *bluemonday.Policy
	wg      sync.WaitGroup
}

// NewLeadService drops mirrors without a function name. A nil invoker
// disables mirroring.
func NewLeadService(log *slog.Logger, repo repository.LeadRepository, invoker FunctionInvoker, events Publisher, mirrors ...Mirror) *LeadService {
	active := make([]Mirror, 0, len(mirrors))
	for _, m := range mirrors {
		if m.Function != "" {
			active = append(active, m)
		}
	}
	if invoker == nil {
		active = nil
	}

	return &LeadService{
		log:     log,
		repo:    repo,
		invoker: invoker,
		mirrors: active,
		events:  events,
		policy:  bluemonday.StrictPolicy(),
	}
}

// mirrorPayload is the body sent to the CRM and sheet functions.
type mirrorPayload struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ProjectType string    `json:"project_type,omitempty"`
	City        string    `json:"city,omitempty"`
	Timeline    string    `json:"timeline,omitempty"`
	Message     string    `json:"message,omitempty"`
	FormSource  string    `json:"form_source"`
	CreatedAt   time.Time `json:"created_at"`
}

// Capture stores the lead. The lead counts as captured once the insert
// succeeds; mirrors run afterwards in the background and only flip the
// sync flags.
func (s *LeadService) Capture(ctx context.Context, lead models.Lead) (models.Lead, error) {
	const op = "service.LeadService.Capture"

	log := s.log.With(
		slog.String("op", op),
		slog.String("form_source", lead.FormSource),
	)

	lead = s.sanitize(lead)
	if lead.Name == "" || lead.Email == "" || lead.Phone == "" {
		return models.Lead{}, fmt.Errorf("%s: %w: name, email and phone are required", op, ErrInvalidLead)
	}

	saved, err := s.repo.CreateLead(ctx, lead)
	if err != nil {
		log.Error("failed to save lead", sl.Err(err))
		return models.Lead{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.LeadsCaptured.WithLabelValues(saved.FormSource).Inc()
	log.Info("lead captured", slog.String("lead_id", saved.ID.String()))

	if s.events != nil {
		change := changefeed.Change{Table: changefeed.TableLeads, Op: changefeed.OpInsert, ID: saved.ID}
		if err := s.events.Publish(ctx, change); err != nil {
			log.Warn("failed to publish lead change", sl.Err(err))
		}
	}

	s.mirror(saved)

	return saved, nil
}

func (s *LeadService) List(ctx context.Context, page, perPage int) ([]models.Lead, int, error) {
	const op = "service.LeadService.List"

	log := s.log.With(
		slog.String("op", op),
		slog.Int("page", page),
	)

	if perPage <= 0 {
		perPage = defaultPageSize
	}

	leads, total, err := s.repo.GetLeads(ctx, page, perPage)
	if err != nil {
		log.Error("failed to list leads", sl.Err(err))
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	if leads == nil {
		leads = []models.Lead{}
	}

	return leads, total, nil
}

// Close waits for in-flight mirrors.
func (s *LeadService) Close() {
	s.wg.Wait()
}

func (s *LeadService) mirror(lead models.Lead) {
	if len(s.mirrors) == 0 {
		return
	}

	payload := mirrorPayload{
		ID:          lead.ID,
		Name:        lead.Name,
		Email:       lead.Email,
		Phone:       lead.Phone,
		ProjectType: lead.ProjectType,
		City:        lead.City,
		Timeline:    lead.Timeline,
		Message:     lead.Message,
		FormSource:  lead.FormSource,
		CreatedAt:   lead.CreatedAt,
	}

	for _, m := range s.mirrors {
		s.wg.Add(1)
		go func(m Mirror) {
			defer s.wg.Done()
			s.runMirror(m, payload)
		}(m)
	}
}

func (s *LeadService) runMirror(m Mirror, payload mirrorPayload) {
	const op = "service.LeadService.runMirror"

	log := s.log.With(
		slog.String("op", op),
		slog.String("target", string(m.Target)),
		slog.String("lead_id", payload.ID.String()),
	)

	_, err := s.invoker.Invoke(m.Function, payload)
	metrics.LeadMirrorResults.WithLabelValues(string(m.Target), metrics.Result(err)).Inc()
	if err != nil {
		log.Warn("lead mirror failed", sl.Err(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	if err := s.repo.MarkSynced(ctx, payload.ID, m.Target); err != nil {
		log.Warn("failed to mark lead synced", sl.Err(err))
		return
	}

	log.Debug("lead mirrored")
}

func (s *LeadService) sanitize(lead models.Lead) models.Lead {
	// Strip tags and store plain text.
	clean := func(v string) string {
		return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
	}

	lead.Name = clean(lead.Name)
	lead.Email = strings.ToLower(strings.TrimSpace(lead.Email))
	lead.Phone = strings.TrimSpace(lead.Phone)
	lead.ProjectType = clean(lead.ProjectType)
	lead.City = clean(lead.City)
	lead.Timeline = clean(lead.Timeline)
	lead.Message = clean(lead.Message)
	lead.FormSource = clean(lead.FormSource)
	if lead.FormSource == "" {
		lead.FormSource = "website"
	}
	lead.SyncedToCRM = false
	lead.SyncedToSheet = false

	return lead
}
