package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/websocket"
)

// CommunicationService handles communication posts
type CommunicationService struct {
	eventSource
	communicationRepo domain.CommunicationRepository
}

// NewCommunicationService creates a new CommunicationService
func NewCommunicationService(communicationRepo domain.CommunicationRepository) *CommunicationService {
	return &CommunicationService{communicationRepo: communicationRepo}
}

// UpdateCommunicationInput holds the optional fields of a communication update
type UpdateCommunicationInput struct {
	Title   *string
	Content *string
}

// CreateCommunication posts a communication authored by authorID
func (s *CommunicationService) CreateCommunication(ctx context.Context, authorID int32, title, content string) (*domain.Communication, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}

	created, err := s.communicationRepo.Create(ctx, &domain.Communication{
		AuthorID: &authorID,
		Title:    title,
		Content:  content,
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int32("communication_id", created.ID).Int32("author_id", authorID).Msg("Communication created")
	s.publishEvent(websocket.Created(websocket.EntityTypeCommunication, created))
	return created, nil
}

// GetCommunications retrieves all communications, newest first
func (s *CommunicationService) GetCommunications(ctx context.Context) ([]*domain.Communication, error) {
	return s.communicationRepo.GetAll(ctx)
}

// GetCommunication retrieves a single communication
func (s *CommunicationService) GetCommunication(ctx context.Context, id int32) (*domain.Communication, error) {
	return s.communicationRepo.GetByID(ctx, id)
}

// UpdateCommunication merges the provided fields into an already loaded communication
func (s *CommunicationService) UpdateCommunication(ctx context.Context, existing *domain.Communication, input UpdateCommunicationInput) (*domain.Communication, error) {
	if input.Title == nil && input.Content == nil {
		return nil, domain.ErrNothingToUpdate
	}

	merged := *existing
	if input.Title != nil {
		title, err := validateTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		merged.Title = title
	}
	if input.Content != nil {
		merged.Content = *input.Content
	}

	updated, err := s.communicationRepo.Update(ctx, &merged)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.Updated(websocket.EntityTypeCommunication, updated))
	return updated, nil
}

// DeleteCommunication removes a communication
func (s *CommunicationService) DeleteCommunication(ctx context.Context, id int32) error {
	if err := s.communicationRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(websocket.Deleted(websocket.EntityTypeCommunication, id))
	return nil
}
