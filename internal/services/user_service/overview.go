package services

import (
	"context"
	"fmt"
	"log/slog"

	"contractor_site/internal/domain/models"
	"contractor_site/internal/lib/logger/sl"

	"golang.org/x/sync/errgroup"
)

type ProjectCounter interface {
	CountProjects(ctx context.Context) (int, error)
}

type PostLister interface {
	GetBlogPosts(ctx context.Context, statusFilter string, page, perPage int) ([]models.BlogPost, int, error)
}

type LeadCounter interface {
	CountLeads(ctx context.Context) (total int, unsynced int, err error)
}

// Overview is the summary shown on the admin overview tab.
type Overview struct {
	Projects       int `json:"projects"`
	PublishedPosts int `json:"published_posts"`
	Leads          int `json:"leads"`
	UnsyncedLeads  int `json:"unsynced_leads"`
}

type OverviewService struct {
	log      *slog.Logger
	projects ProjectCounter
	posts    PostLister
	leads    LeadCounter
}

func NewOverviewService(log *slog.Logger, projects ProjectCounter, posts PostLister, leads LeadCounter) *OverviewService {
	return &OverviewService{log: log, projects: projects, posts: posts, leads: leads}
}

func (s *OverviewService) Overview(ctx context.Context) (Overview, error) {
	const op = "user_service.OverviewService.Overview"

	var out Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.projects.CountProjects(gctx)
		out.Projects = n
		return err
	})
	g.Go(func() error {
		_, n, err := s.posts.GetBlogPosts(gctx, models.PostStatusPublished, 1, 1)
		out.PublishedPosts = n
		return err
	})
	g.Go(func() error {
		total, unsynced, err := s.leads.CountLeads(gctx)
		out.Leads, out.UnsyncedLeads = total, unsynced
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error("failed to build overview", slog.String("op", op), sl.Err(err))
		return Overview{}, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
