package service

import (
	"go.uber.org/zap"

	"poetrydesk/internal/domain"
)

// Services bundles the services for one opened database
type Services struct {
	Store    *Store
	Poets    *PeopleService
	Critics  *PeopleService
	Poems    *PoemService
	Importer *Importer
}

// NewServices wires services to the store's repositories
func NewServices(store *Store, eventBus *EventBus, logger *zap.Logger) *Services {
	poets := NewPeopleService(domain.RolePoet, store.Poets, eventBus, logger)
	critics := NewPeopleService(domain.RoleCritic, store.Critics, eventBus, logger)
	poems := NewPoemService(store.Poems, eventBus, logger)

	return &Services{
		Store:    store,
		Poets:    poets,
		Critics:  critics,
		Poems:    poems,
		Importer: NewImporter(poets, critics, poems, eventBus, logger),
	}
}

// People returns the service for the given role
func (s *Services) People(role domain.Role) *PeopleService {
	if role == domain.RoleCritic {
		return s.Critics
	}
	return s.Poets
}
