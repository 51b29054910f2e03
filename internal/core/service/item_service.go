package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

const maxListLimit = 100

// ItemService implements catalog use cases. Write policies are explicit
// boolean tables: ownership OR the listed permissions, nothing implicit.
type ItemService struct {
	items ports.ItemRepository
	users ports.UserRepository
	log   zerolog.Logger
}

func NewItemService(items ports.ItemRepository, users ports.UserRepository, log zerolog.Logger) *ItemService {
	return &ItemService{items: items, users: users, log: log}
}

func (s *ItemService) Create(ctx context.Context, actorID string, input ports.ItemInput) (*domain.Item, error) {
	if actorID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	if _, err := s.users.FindByID(ctx, actorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &domain.Item{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Image:       input.Image,
		LargeImage:  input.LargeImage,
		Price:       input.Price,
		UserID:      actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	s.log.Info().Str("item_id", item.ID).Str("user_id", actorID).Msg("item created")
	return item, nil
}

func (s *ItemService) Get(ctx context.Context, id string) (*domain.Item, error) {
	return s.items.FindByID(ctx, id)
}

func (s *ItemService) List(ctx context.Context, filter ports.ListItemsFilter) (*ports.ListItemsResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	items, total, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListItemsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *ItemService) Update(ctx context.Context, actorID, id string, update ports.ItemUpdate) (*domain.Item, error) {
	item, actor, err := s.loadItemAndActor(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	// Owner, or ADMIN/ITEMUPDATE.
	if item.UserID != actorID {
		if err := domain.RequirePermission(actor, domain.PermAdmin, domain.PermItemUpdate); err != nil {
			return nil, err
		}
	}

	if update.Title != nil {
		item.Title = *update.Title
	}
	if update.Description != nil {
		item.Description = *update.Description
	}
	if update.Image != nil {
		item.Image = *update.Image
	}
	if update.LargeImage != nil {
		item.LargeImage = *update.LargeImage
	}
	if update.Price != nil {
		item.Price = *update.Price
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, actorID, id string) error {
	item, actor, err := s.loadItemAndActor(ctx, actorID, id)
	if err != nil {
		return err
	}

	// Owner, or ADMIN/ITEMDELETE. ADMIN appears in this table explicitly;
	// holding it grants nothing for operations that do not list it.
	if item.UserID != actorID {
		if err := domain.RequirePermission(actor, domain.PermAdmin, domain.PermItemDelete); err != nil {
			return err
		}
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("item_id", id).Str("actor_id", actorID).Msg("item deleted")
	return nil
}

func (s *ItemService) loadItemAndActor(ctx context.Context, actorID, itemID string) (*domain.Item, *domain.User, error) {
	if actorID == "" {
		return nil, nil, domain.ErrNotAuthenticated
	}
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	return item, actor, nil
}
