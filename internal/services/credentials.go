package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"finny/internal/core"
	"finny/internal/log"
)

// Register creates a user. The duplicate check runs before passkey
// validation, so an existing username always reports ErrDuplicateUser.
// The passkey is stored as a bcrypt hash.
func (f *Finance) Register(ctx context.Context, username, passkey string) error {
	logger := f.component(log.ComponentAuth)

	if err := core.ValidateUsername(username); err != nil {
		return err
	}

	exists, err := f.store.UserExists(ctx, username)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if exists {
		return core.ErrDuplicateUser
	}
	if err := core.ValidatePasskey(passkey); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passkey), f.hashCost)
	if err != nil {
		return fmt.Errorf("hash passkey: %w", err)
	}
	if err := f.store.CreateUser(ctx, username, string(hash)); err != nil {
		return fmt.Errorf("register %q: %w", username, err)
	}

	logger.Operation(ctx, log.OpRegister, nil, log.FieldUsername, username)
	return nil
}

// Authenticate checks the pair and, on success, returns a Session with the
// user's working set loaded. Unknown users and wrong passkeys both yield
// ErrAuthFailed.
func (f *Finance) Authenticate(ctx context.Context, username, passkey string) (*Session, error) {
	logger := f.component(log.ComponentAuth)

	user, err := f.store.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			logger.WarnContext(ctx, "Login rejected", log.FieldUsername, username, "reason", "unknown user")
			return nil, core.ErrAuthFailed
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Passkey), []byte(passkey)); err != nil {
		logger.WarnContext(ctx, "Login rejected", log.FieldUsername, username, "reason", "passkey mismatch")
		return nil, core.ErrAuthFailed
	}

	s := newSession(f, user.Username)
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	logger.Operation(ctx, log.OpLogin, nil, log.FieldUsername, username)
	return s, nil
}
