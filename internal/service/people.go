package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"poetrydesk/internal/domain"
	"poetrydesk/internal/repository"
)

// PeopleService provides business logic for one role's people (poets or
// critics). Input is normalized and validated here, so invalid values never
// reach the repository.
type PeopleService struct {
	role     domain.Role
	repo     repository.PersonStore
	eventBus *EventBus
	logger   *zap.Logger
}

// NewPeopleService creates a service for the role's repository
func NewPeopleService(role domain.Role, repo repository.PersonStore, eventBus *EventBus, logger *zap.Logger) *PeopleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeopleService{
		role:     role,
		repo:     repo,
		eventBus: eventBus,
		logger:   logger.Named(string(role) + "s"),
	}
}

// Role returns the role this service manages
func (s *PeopleService) Role() domain.Role {
	return s.role
}

// Add validates and saves a new person
func (s *PeopleService) Add(ctx context.Context, person *domain.Person) error {
	person.Role = s.role
	person.Normalize()
	if err := person.Validate(); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, person); err != nil {
		return err
	}

	s.logger.Info("saved", zap.String("phone", person.PhoneNumber), zap.String("name", person.FullName()))
	s.eventBus.Publish(Event{
		Type:    EventPersonSaved,
		Payload: map[string]string{"role": string(s.role), "phone_number": person.PhoneNumber},
	})
	return nil
}

// Update validates the person and overwrites names and date of birth.
// Unlike the repository, it reports domain.ErrNotFound for an unknown phone.
func (s *PeopleService) Update(ctx context.Context, person *domain.Person) error {
	person.Role = s.role
	person.Normalize()
	if err := person.Validate(); err != nil {
		return err
	}

	exists, err := s.repo.Exists(ctx, person.PhoneNumber)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%s %s: %w", s.role, person.PhoneNumber, domain.ErrNotFound)
	}

	if err := s.repo.Update(ctx, person); err != nil {
		return err
	}

	s.logger.Info("updated", zap.String("phone", person.PhoneNumber))
	s.eventBus.Publish(Event{
		Type:    EventPersonUpdated,
		Payload: map[string]string{"role": string(s.role), "phone_number": person.PhoneNumber},
	})
	return nil
}

// Get loads a person by phone number
func (s *PeopleService) Get(ctx context.Context, phoneNumber string) (*domain.Person, error) {
	return s.repo.FindByKey(ctx, domain.Normalize(phoneNumber))
}

// Delete removes a person. Deleting an unknown phone number is not an error.
func (s *PeopleService) Delete(ctx context.Context, phoneNumber string) error {
	phoneNumber = domain.Normalize(phoneNumber)
	if err := s.repo.Delete(ctx, phoneNumber); err != nil {
		return err
	}

	s.logger.Info("deleted", zap.String("phone", phoneNumber))
	s.eventBus.Publish(Event{
		Type:    EventPersonDeleted,
		Payload: map[string]string{"role": string(s.role), "phone_number": phoneNumber},
	})
	return nil
}

// Clear removes every person of the role
func (s *PeopleService) Clear(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}

	s.logger.Info("cleared")
	s.eventBus.Publish(Event{
		Type:    EventPeopleCleared,
		Payload: map[string]string{"role": string(s.role)},
	})
	return nil
}

// List returns the role's table, keeping only rows that contain keyword
// when it is not empty
func (s *PeopleService) List(ctx context.Context, keyword string) (*domain.Table, error) {
	table, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return table.Filter(keyword), nil
}

// Count returns the number of people of the role
func (s *PeopleService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
