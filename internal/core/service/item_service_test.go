package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

func newTestItemService(items *stubItemRepo, users *stubUserRepo) *ItemService {
	return NewItemService(items, users, zerolog.Nop())
}

func TestItemService_Create(t *testing.T) {
	users := newStubUserRepo()
	users.add(&domain.User{ID: "u1", Permissions: []domain.Permission{domain.PermUser}})
	svc := newTestItemService(newStubItemRepo(), users)

	item, err := svc.Create(context.Background(), "u1", ports.ItemInput{
		Title: "Mug", Description: "A mug", Price: 500,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if item.ID == "" {
		t.Fatal("created item has no id")
	}
	if item.UserID != "u1" {
		t.Fatalf("owner = %q, want u1", item.UserID)
	}

	if _, err := svc.Create(context.Background(), "", ports.ItemInput{Title: "x"}); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("anonymous create: expected ErrNotAuthenticated, got %v", err)
	}
}

func TestItemService_Update_Policy(t *testing.T) {
	users := newStubUserRepo()
	users.add(&domain.User{ID: "owner", Permissions: []domain.Permission{domain.PermUser}})
	users.add(&domain.User{ID: "editor", Permissions: []domain.Permission{domain.PermItemUpdate}})
	users.add(&domain.User{ID: "admin", Permissions: []domain.Permission{domain.PermAdmin}})
	users.add(&domain.User{ID: "deleter", Permissions: []domain.Permission{domain.PermItemDelete}})
	items := newStubItemRepo()
	items.add(&domain.Item{ID: "item-1", Title: "Mug", Price: 500, UserID: "owner"})
	svc := newTestItemService(items, users)

	newTitle := "Better Mug"

	tests := []struct {
		actor   string
		allowed bool
	}{
		{"owner", true},
		{"editor", true},
		{"admin", true},
		{"deleter", false}, // ITEMDELETE grants nothing on update
	}
	for _, tt := range tests {
		_, err := svc.Update(context.Background(), tt.actor, "item-1", ports.ItemUpdate{Title: &newTitle})
		if tt.allowed && err != nil {
			t.Fatalf("%s: expected update to pass, got %v", tt.actor, err)
		}
		if !tt.allowed && !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s: expected ErrForbidden, got %v", tt.actor, err)
		}
	}
}

func TestItemService_Update_PartialFields(t *testing.T) {
	users := newStubUserRepo()
	users.add(&domain.User{ID: "owner", Permissions: []domain.Permission{domain.PermUser}})
	items := newStubItemRepo()
	items.add(&domain.Item{ID: "item-1", Title: "Mug", Description: "A mug", Price: 500, UserID: "owner"})
	svc := newTestItemService(items, users)

	price := int64(750)
	updated, err := svc.Update(context.Background(), "owner", "item-1", ports.ItemUpdate{Price: &price})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Price != 750 {
		t.Fatalf("price = %d, want 750", updated.Price)
	}
	if updated.Title != "Mug" || updated.Description != "A mug" {
		t.Fatal("unspecified fields were clobbered")
	}
}

func TestItemService_Delete_Policy(t *testing.T) {
	users := newStubUserRepo()
	users.add(&domain.User{ID: "owner", Permissions: []domain.Permission{domain.PermUser}})
	users.add(&domain.User{ID: "editor", Permissions: []domain.Permission{domain.PermItemUpdate}})
	users.add(&domain.User{ID: "deleter", Permissions: []domain.Permission{domain.PermItemDelete}})
	users.add(&domain.User{ID: "admin", Permissions: []domain.Permission{domain.PermAdmin}})

	tests := []struct {
		actor   string
		allowed bool
	}{
		{"editor", false}, // ITEMUPDATE grants nothing on delete
		{"owner", true},
		{"deleter", true},
		{"admin", true},
	}
	for _, tt := range tests {
		items := newStubItemRepo()
		items.add(&domain.Item{ID: "item-1", Title: "Mug", Price: 500, UserID: "owner"})
		svc := newTestItemService(items, users)

		err := svc.Delete(context.Background(), tt.actor, "item-1")
		if tt.allowed && err != nil {
			t.Fatalf("%s: expected delete to pass, got %v", tt.actor, err)
		}
		if !tt.allowed && !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s: expected ErrForbidden, got %v", tt.actor, err)
		}
	}
}

func TestItemService_List_ClampsPagination(t *testing.T) {
	users := newStubUserRepo()
	items := newStubItemRepo()
	items.add(&domain.Item{ID: "item-1", Title: "Mug", Price: 500})
	svc := newTestItemService(items, users)

	result, err := svc.List(context.Background(), ports.ListItemsFilter{Page: -3, Limit: 100000})
	if err != nil {
		t.Fatal(err)
	}
	if result.Page != 1 {
		t.Fatalf("page = %d, want 1", result.Page)
	}
	if result.Limit != 100 {
		t.Fatalf("limit = %d, want the 100 cap", result.Limit)
	}
	if result.Total != 1 || result.TotalPages != 1 {
		t.Fatalf("total=%d pages=%d, want 1/1", result.Total, result.TotalPages)
	}
}
