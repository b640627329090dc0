package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alejogim/sistema-de-reserva/internal/model"
	"github.com/alejogim/sistema-de-reserva/internal/service/ports"
	"github.com/alejogim/sistema-de-reserva/internal/utils"
)

type AdminConfig struct {
	JWTSecret   string
	TokenTTLMin int
	BcryptCost  int
}

// LoginResult is returned on a successful admin login.
type LoginResult struct {
	Token    string
	Username string
	Expires  time.Time
}

// AdminService authenticates admins and manages their own account.
type AdminService struct {
	admins ports.AdminStore
	log    *zap.Logger
	cfg    AdminConfig
}

func NewAdminService(admins ports.AdminStore, log *zap.Logger, cfg AdminConfig) *AdminService {
	if cfg.TokenTTLMin <= 0 {
		cfg.TokenTTLMin = 24 * 60
	}
	return &AdminService{admins: admins, log: log, cfg: cfg}
}

// Login checks the credentials and issues an access token. Unknown users
// and wrong passwords fail the same way.
func (s *AdminService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", model.ErrValidation)
	}
	a, err := s.admins.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.VerifyPassword(a.PasswordHash, password) {
		s.log.Info("admin login rejected", zap.String("username", username))
		return nil, model.ErrInvalidCredentials
	}
	tok, err := utils.NewAccessToken(s.cfg.JWTSecret, a.ID, a.Username, s.cfg.TokenTTLMin)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	s.log.Info("admin logged in", zap.Int64("admin_id", a.ID))
	return &LoginResult{Token: tok.Token, Username: a.Username, Expires: tok.Exp}, nil
}

// Authorize verifies a bearer token and returns the admin id it names.
// It never touches the store.
func (s *AdminService) Authorize(token string) (int64, error) {
	if strings.TrimSpace(token) == "" {
		return 0, model.ErrUnauthenticated
	}
	id, err := utils.ParseAccessToken(s.cfg.JWTSecret, token)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrInvalidToken, err)
	}
	return id, nil
}

func (s *AdminService) Profile(ctx context.Context, adminID int64) (model.Profile, error) {
	a, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return model.Profile{}, err
	}
	return a.Profile(), nil
}

// UpdateProfile changes the admin's username and email. Either value
// already used by another admin yields model.ErrConflict.
func (s *AdminService) UpdateProfile(ctx context.Context, adminID int64, username, email string) (model.Profile, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return model.Profile{}, fmt.Errorf("%w: username and email are required", model.ErrValidation)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return model.Profile{}, fmt.Errorf("%w: invalid email", model.ErrValidation)
	}
	if err := s.admins.UpdateProfile(ctx, adminID, username, email); err != nil {
		return model.Profile{}, err
	}
	s.log.Info("admin profile updated", zap.Int64("admin_id", adminID))
	return model.Profile{ID: adminID, Username: username, Email: email}, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *AdminService) ChangePassword(ctx context.Context, adminID int64, current, next string) error {
	if current == "" || next == "" {
		return fmt.Errorf("%w: current and new password are required", model.ErrValidation)
	}
	a, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(a.PasswordHash, current) {
		return fmt.Errorf("%w: current password is wrong", model.ErrInvalidCredentials)
	}
	if err := s.storePassword(ctx, a.ID, next); err != nil {
		return err
	}
	s.log.Info("admin password changed", zap.Int64("admin_id", adminID))
	return nil
}

// SetPassword resets an admin password without the current one. It backs
// the command line recovery path.
func (s *AdminService) SetPassword(ctx context.Context, username, password string) error {
	a, err := s.admins.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	return s.storePassword(ctx, a.ID, password)
}

func (s *AdminService) storePassword(ctx context.Context, id int64, plain string) error {
	hash, err := utils.HashPassword(plain, s.cfg.BcryptCost)
	if errors.Is(err, utils.ErrPasswordTooShort) {
		return fmt.Errorf("%w: password must have at least %d characters", model.ErrValidation, utils.MinPasswordLength)
	}
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.admins.UpdatePassword(ctx, id, hash)
}
