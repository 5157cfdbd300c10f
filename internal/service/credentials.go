package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pulseboard/internal/model"
	"pulseboard/internal/repository"
)

// Demo credentials recognized by the demo verifier.
const (
	DemoEmail    = "demo@pulseboard.io"
	DemoPassword = "demo1234"
)

// CredentialVerifier resolves a credential pair to a user. The demo
// behavior is one strategy among others, not the only one.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (*model.User, error)
}

// BcryptVerifier checks credentials against stored bcrypt hashes.
type BcryptVerifier struct {
	users repository.UserRepository
}

// NewBcryptVerifier creates the production credential strategy.
func NewBcryptVerifier(users repository.UserRepository) *BcryptVerifier {
	return &BcryptVerifier{users: users}
}

// Verify looks the user up by email and compares the password hash.
func (v *BcryptVerifier) Verify(ctx context.Context, email, password string) (*model.User, error) {
	user, err := v.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// DemoVerifier accepts any non-empty credential pair. The distinguished
// demo pair resolves to a demo-flagged identity; any other pair resolves
// to (or lazily creates) a regular user. Intended for demo deployments
// only, selected with DEMO_MODE=true.
type DemoVerifier struct {
	users repository.UserRepository
}

// NewDemoVerifier creates the demo credential strategy.
func NewDemoVerifier(users repository.UserRepository) *DemoVerifier {
	return &DemoVerifier{users: users}
}

// Verify implements CredentialVerifier.
func (v *DemoVerifier) Verify(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	if email == DemoEmail && password == DemoPassword {
		return v.findOrCreate(ctx, &model.User{
			Name:  "Demo User",
			Email: DemoEmail,
			Role:  model.RoleUser,
			Demo:  true,
		})
	}
	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	return v.findOrCreate(ctx, &model.User{
		Name:  name,
		Email: email,
		Role:  model.RoleUser,
	})
}

func (v *DemoVerifier) findOrCreate(ctx context.Context, user *model.User) (*model.User, error) {
	existing, err := v.users.FindByEmail(ctx, user.Email)
	if err == nil {
		return existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if err := v.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
