package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sistema-salt/salt-backend/internal/domain"
	"github.com/sistema-salt/salt-backend/internal/websocket"
)

// UserService handles user listing and administration
type UserService struct {
	eventSource
	userRepo domain.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo domain.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetUsers returns every user ordered by id
func (s *UserService) GetUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.GetAll(ctx)
}

// DeleteUser removes a user. Their communications go with them; their
// financials and tasks stay behind without an author.
func (s *UserService) DeleteUser(ctx context.Context, callerID, id int32) error {
	if callerID == id {
		return domain.ErrForbidden
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Int32("user_id", id).Int32("deleted_by", callerID).Msg("User deleted")
	s.publishEvent(websocket.Deleted(websocket.EntityTypeUser, id))
	return nil
}
