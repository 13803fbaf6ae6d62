package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tmarceau/jalon/internal/domain"
	"github.com/tmarceau/jalon/internal/repository"
)

type calendarService struct {
	calendars repository.CalendarRepo
}

func NewCalendarService(calendars repository.CalendarRepo) CalendarService {
	return &calendarService{calendars: calendars}
}

func (s *calendarService) Create(ctx context.Context, c *domain.WorkCalendar) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	for i := range c.Pattern {
		c.Pattern[i].CalendarID = c.ID
		if err := c.Pattern[i].Validate(); err != nil {
			return err
		}
	}
	for i := range c.Overrides {
		o := &c.Overrides[i]
		o.CalendarID = c.ID
		if o.ID == "" {
			o.ID = uuid.New().String()
		}
		if o.CreatedAt.IsZero() {
			o.CreatedAt = now
		}
		if err := o.Validate(); err != nil {
			return err
		}
	}
	return s.calendars.Create(ctx, c)
}

func (s *calendarService) GetByID(ctx context.Context, id string) (*domain.WorkCalendar, error) {
	return s.calendars.GetByID(ctx, id)
}

func (s *calendarService) List(ctx context.Context) ([]*domain.WorkCalendar, error) {
	return s.calendars.List(ctx)
}

func (s *calendarService) SetPattern(ctx context.Context, p *domain.WeekdayPattern) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.calendars.UpsertPattern(ctx, p)
}

func (s *calendarService) SetOverride(ctx context.Context, o *domain.DayOverride) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if err := o.Validate(); err != nil {
		return err
	}
	return s.calendars.UpsertOverride(ctx, o)
}

func (s *calendarService) RemoveOverride(ctx context.Context, calendarID string, date time.Time) error {
	return s.calendars.DeleteOverride(ctx, calendarID, date)
}

func (s *calendarService) ResolveForSite(ctx context.Context, siteID string) (*domain.WorkCalendar, error) {
	return s.calendars.ActiveForSite(ctx, siteID)
}
