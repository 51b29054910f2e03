package domain

import (
	"errors"
	"testing"
)

func TestHasPermission_IntersectionSemantics(t *testing.T) {
	tests := []struct {
		name     string
		held     []Permission
		required []Permission
		want     bool
	}{
		{
			name:     "plain user denied admin operations",
			held:     []Permission{PermUser},
			required: []Permission{PermAdmin, PermItemDelete},
			want:     false,
		},
		{
			name:     "single matching grant is enough",
			held:     []Permission{PermUser, PermItemDelete},
			required: []Permission{PermAdmin, PermItemDelete},
			want:     true,
		},
		{
			name:     "admin passes only when listed",
			held:     []Permission{PermAdmin},
			required: []Permission{PermAdmin, PermItemUpdate},
			want:     true,
		},
		{
			name:     "admin is not an implicit superset",
			held:     []Permission{PermAdmin},
			required: []Permission{PermItemDelete},
			want:     false,
		},
		{
			name:     "empty permission set denied",
			held:     nil,
			required: []Permission{PermUser},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{ID: "u1", Permissions: tt.held}
			if got := HasPermission(u, tt.required...); got != tt.want {
				t.Fatalf("HasPermission(%v, %v) = %v, want %v", tt.held, tt.required, got, tt.want)
			}
		})
	}
}

func TestHasPermission_NilUser(t *testing.T) {
	if HasPermission(nil, PermUser) {
		t.Fatal("nil user must never hold a permission")
	}
}

func TestRequirePermission(t *testing.T) {
	admin := &User{ID: "a1", Permissions: []Permission{PermAdmin}}

	if err := RequirePermission(admin, PermAdmin); err != nil {
		t.Fatalf("expected pass, got %v", err)
	}
	if err := RequirePermission(admin, PermPermissionUpdate); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestValidPermission(t *testing.T) {
	for _, p := range AllPermissions {
		if !ValidPermission(p) {
			t.Fatalf("enumerated permission %q reported invalid", p)
		}
	}
	if ValidPermission("SUPERUSER") {
		t.Fatal("unknown permission reported valid")
	}
	if ValidPermission("admin") {
		t.Fatal("permission match must be case sensitive")
	}
}
