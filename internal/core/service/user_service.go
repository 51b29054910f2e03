package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// UserService implements identity reads and permission administration.
type UserService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

// Me resolves the current user. Anonymous callers get (nil, nil): the
// absence of an identity is not an error for this query.
func (s *UserService) Me(ctx context.Context, viewerID string) (*domain.User, error) {
	if viewerID == "" {
		return nil, nil
	}
	user, err := s.users.FindByID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, actorID string) ([]*domain.User, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := domain.RequirePermission(actor, domain.PermAdmin, domain.PermPermissionUpdate); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// UpdatePermissions replaces the target user's permission set. The target
// is named explicitly by id; the actor's own id is never substituted.
func (s *UserService) UpdatePermissions(ctx context.Context, actorID, targetID string, permissions []domain.Permission) (*domain.User, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := domain.RequirePermission(actor, domain.PermAdmin, domain.PermPermissionUpdate); err != nil {
		return nil, err
	}

	for _, p := range permissions {
		if !domain.ValidPermission(p) {
			return nil, domain.ErrInvalidPermission
		}
	}

	updated, err := s.users.UpdatePermissions(ctx, targetID, permissions)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("actor_id", actorID).
		Str("target_id", targetID).
		Interface("permissions", permissions).
		Msg("permissions updated")
	return updated, nil
}

func (s *UserService) requireActor(ctx context.Context, actorID string) (*domain.User, error) {
	if actorID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, err
	}
	return actor, nil
}
