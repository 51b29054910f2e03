package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// OrderService implements order reads. Policy: the owner OR a holder of
// ADMIN may view an order; everyone else is rejected.
type OrderService struct {
	orders ports.OrderRepository
	users  ports.UserRepository
	log    zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, users ports.UserRepository, log zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, users: users, log: log}
}

func (s *OrderService) Get(ctx context.Context, viewerID, orderID string) (*domain.Order, error) {
	if viewerID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID == viewerID {
		return order, nil
	}
	viewer, err := s.users.FindByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if err := domain.RequirePermission(viewer, domain.PermAdmin); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, viewerID string) ([]*domain.Order, error) {
	if viewerID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return s.orders.ListByUser(ctx, viewerID)
}
