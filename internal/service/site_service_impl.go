package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tmarceau/jalon/internal/domain"
	"github.com/tmarceau/jalon/internal/repository"
)

type siteService struct {
	sites repository.SiteRepo
}

func NewSiteService(sites repository.SiteRepo) SiteService {
	return &siteService{sites: sites}
}

func (s *siteService) Create(ctx context.Context, site *domain.Site) error {
	if site.ID == "" {
		site.ID = uuid.New().String()
	}
	site.CreatedAt = time.Now().UTC()
	return s.sites.Create(ctx, site)
}

func (s *siteService) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	return s.sites.GetByID(ctx, id)
}

func (s *siteService) List(ctx context.Context) ([]*domain.Site, error) {
	return s.sites.List(ctx)
}
