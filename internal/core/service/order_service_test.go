package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
)

func seedOrderFixture(t *testing.T) (*OrderService, *stubOrderRepo) {
	t.Helper()
	users := newStubUserRepo()
	users.add(&domain.User{ID: "owner", Permissions: []domain.Permission{domain.PermUser}})
	users.add(&domain.User{ID: "stranger", Permissions: []domain.Permission{domain.PermUser}})
	users.add(&domain.User{ID: "admin", Permissions: []domain.Permission{domain.PermAdmin}})
	users.add(&domain.User{ID: "granter", Permissions: []domain.Permission{domain.PermPermissionUpdate}})

	orders := newStubOrderRepo()
	if err := orders.Create(context.Background(), &domain.Order{ID: "o1", UserID: "owner", Total: 1300}); err != nil {
		t.Fatal(err)
	}
	return NewOrderService(orders, users, zerolog.Nop()), orders
}

func TestOrderService_Get_OwnerOrAdminOnly(t *testing.T) {
	svc, _ := seedOrderFixture(t)

	if _, err := svc.Get(context.Background(), "owner", "o1"); err != nil {
		t.Fatalf("owner view: %v", err)
	}
	if _, err := svc.Get(context.Background(), "admin", "o1"); err != nil {
		t.Fatalf("admin view: %v", err)
	}
	if _, err := svc.Get(context.Background(), "stranger", "o1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger view: expected ErrForbidden, got %v", err)
	}
	// PERMISSIONUPDATE is not ADMIN; order access does not list it.
	if _, err := svc.Get(context.Background(), "granter", "o1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("granter view: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "", "o1"); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("anonymous view: expected ErrNotAuthenticated, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "owner", "ghost"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("missing order: expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_ListMine(t *testing.T) {
	svc, orders := seedOrderFixture(t)
	if err := orders.Create(context.Background(), &domain.Order{ID: "o2", UserID: "stranger", Total: 100}); err != nil {
		t.Fatal(err)
	}

	mine, err := svc.ListMine(context.Background(), "owner")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].ID != "o1" {
		t.Fatalf("owner sees %+v, want only o1", mine)
	}

	if _, err := svc.ListMine(context.Background(), ""); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("anonymous list: expected ErrNotAuthenticated, got %v", err)
	}
}
