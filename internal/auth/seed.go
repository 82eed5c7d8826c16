package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/caseflow/caseflow/internal/infrastructure/logging"
)

// seedAdminUsername is the username of the bootstrap administrator.
const seedAdminUsername = "admin"

// SeedAdmin ensures at least one administrator account exists. On a
// fresh database it creates "admin" with a random password and logs
// the credential once; on subsequent starts it is a no-op.
func SeedAdmin(ctx context.Context, users UserRepository, logger *logging.Logger) error {
	_, err := users.GetByUsername(ctx, seedAdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return fmt.Errorf("checking for admin account: %w", err)
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("generating admin password: %w", err)
	}
	password := hex.EncodeToString(buf)

	user, err := users.Create(ctx, NewUserInput{
		Username:  seedAdminUsername,
		FirstName: "System",
		LastName:  "Administrator",
		Password:  password,
		Role:      RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, ErrUsernameExists) {
			// Lost a race with another instance; the account exists.
			return nil
		}
		return fmt.Errorf("creating admin account: %w", err)
	}

	// Logged once at first boot. Change it immediately.
	logger.Warn("seeded administrator account",
		"username", seedAdminUsername,
		"user_id", user.ID,
		"password", password)
	return nil
}
