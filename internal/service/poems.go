package service

import (
	"context"

	"go.uber.org/zap"

	"poetrydesk/internal/domain"
	"poetrydesk/internal/repository"
)

// PoemService handles poem submissions
type PoemService struct {
	repo     repository.PoemStore
	eventBus *EventBus
	logger   *zap.Logger
}

// NewPoemService creates a new poem service
func NewPoemService(repo repository.PoemStore, eventBus *EventBus, logger *zap.Logger) *PoemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PoemService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger.Named("poems"),
	}
}

// Submit records a poem from a poet to a critic. Empty text or a missing
// poet or critic fails validation. Whether an earlier poem blocks this one
// depends on the repository's uniqueness policy.
func (s *PoemService) Submit(ctx context.Context, poem *domain.Poem) error {
	poem.PoetPhoneNumber = domain.Normalize(poem.PoetPhoneNumber)
	poem.CriticPhoneNumber = domain.Normalize(poem.CriticPhoneNumber)
	if err := poem.Validate(); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, poem); err != nil {
		return err
	}

	s.logger.Info("submitted",
		zap.String("poet", poem.PoetPhoneNumber),
		zap.String("critic", poem.CriticPhoneNumber),
		zap.Time("uploaded", poem.Uploaded))
	s.eventBus.Publish(Event{
		Type: EventPoemSubmitted,
		Payload: map[string]string{
			"poet_phone_number":   poem.PoetPhoneNumber,
			"critic_phone_number": poem.CriticPhoneNumber,
		},
	})
	return nil
}

// List returns the poems table, keeping only rows that contain keyword
// when it is not empty
func (s *PoemService) List(ctx context.Context, keyword string) (*domain.Table, error) {
	table, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return table.Filter(keyword), nil
}

// Clear removes every poem
func (s *PoemService) Clear(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}

	s.logger.Info("cleared")
	s.eventBus.Publish(Event{Type: EventPoemsCleared})
	return nil
}

// Count returns the number of poems
func (s *PoemService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
