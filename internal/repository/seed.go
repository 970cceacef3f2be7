package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"barber-booking-server/internal/models"
)

// SeedAdmin makes sure an administrator with email exists and uses password.
// An existing account keeps its id and profile; only the password is reset.
func SeedAdmin(ctx context.Context, store Store, email, password string) (*models.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errors.New("admin email and password are required")
	}

	admin, err := store.FindAdminByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		admin = &models.AdminUser{Email: email, DisplayName: "Admin", Role: models.RoleAdmin}
	case err != nil:
		return nil, fmt.Errorf("look up admin: %w", err)
	}

	if admin.CheckPassword(password) {
		return admin, nil
	}
	if err := admin.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	if err := store.SaveAdmin(ctx, admin); err != nil {
		return nil, fmt.Errorf("save admin: %w", err)
	}
	return admin, nil
}
