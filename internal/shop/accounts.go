package shop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Harikrish-25/period-care/internal/auth"
	"github.com/Harikrish-25/period-care/internal/models"
	"github.com/Harikrish-25/period-care/internal/store"
)

const minPasswordLength = 6

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

// ProfileUpdate changes only the fields that are set.
type ProfileUpdate struct {
	Name    *string `json:"name"`
	Mobile  *string `json:"mobile"`
	Address *string `json:"address"`
}

type Accounts struct {
	repo   UserRepository
	tokens *auth.Tokens
	notify Notifier
	logger *slog.Logger
}

func NewAccounts(repo UserRepository, tokens *auth.Tokens, n Notifier, logger *slog.Logger) *Accounts {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accounts{repo: repo, tokens: tokens, notify: n, logger: logger}
}

func (reg *Registration) validate() error {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Mobile = strings.TrimSpace(reg.Mobile)
	if reg.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(reg.Email); err != nil {
		return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	if reg.Mobile == "" {
		return fmt.Errorf("%w: mobile number is required", ErrInvalidInput)
	}
	if len(reg.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	return nil
}

func (a *Accounts) create(ctx context.Context, reg Registration, role models.Role) (*models.User, error) {
	if err := reg.validate(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		Name:     reg.Name,
		Email:    reg.Email,
		Mobile:   reg.Mobile,
		Address:  strings.TrimSpace(reg.Address),
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	if err := a.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Register creates a customer account and sends the welcome email.
func (a *Accounts) Register(ctx context.Context, reg Registration) (*models.User, error) {
	u, err := a.create(ctx, reg, models.RoleUser)
	if err != nil {
		return nil, err
	}
	a.logger.Info("User registered", "user_id", u.ID)
	a.notify.Welcome(ctx, *u)
	return u, nil
}

// CreateAdmin creates an administrator account. No welcome email is sent.
func (a *Accounts) CreateAdmin(ctx context.Context, reg Registration) (*models.User, error) {
	u, err := a.create(ctx, reg, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Admin created", "user_id", u.ID, "email", u.Email)
	return u, nil
}

// Login checks the password and hands back a fresh token pair.
func (a *Accounts) Login(ctx context.Context, email, password string) (auth.TokenPair, error) {
	u, err := a.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return auth.TokenPair{}, fmt.Errorf("%w: incorrect email or password", ErrUnauthorized)
		}
		return auth.TokenPair{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		a.logger.Warn("Failed login attempt", "user_id", u.ID)
		return auth.TokenPair{}, fmt.Errorf("%w: incorrect email or password", ErrUnauthorized)
	}
	if !u.IsActive {
		return auth.TokenPair{}, fmt.Errorf("%w: inactive user", ErrForbidden)
	}
	return a.tokens.Issue(u.Email)
}

// Refresh trades a refresh token for a new pair.
func (a *Accounts) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	email, err := a.tokens.Verify(refreshToken, auth.TypeRefresh)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}
	u, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return auth.TokenPair{}, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
		}
		return auth.TokenPair{}, err
	}
	if !u.IsActive {
		return auth.TokenPair{}, fmt.Errorf("%w: inactive user", ErrForbidden)
	}
	return a.tokens.Issue(u.Email)
}

// ByEmail backs the auth middleware's token subject lookup.
func (a *Accounts) ByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err, "user", email)
	}
	return u, nil
}

func (a *Accounts) Get(ctx context.Context, id int) (*models.User, error) {
	u, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return u, nil
}

func (a *Accounts) UpdateProfile(ctx context.Context, userID int, upd ProfileUpdate) (*models.User, error) {
	u, err := a.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		u.Name = name
	}
	if upd.Mobile != nil {
		mobile := strings.TrimSpace(*upd.Mobile)
		if mobile == "" {
			return nil, fmt.Errorf("%w: mobile number must not be empty", ErrInvalidInput)
		}
		u.Mobile = mobile
	}
	if upd.Address != nil {
		u.Address = strings.TrimSpace(*upd.Address)
	}
	if err := a.repo.UpdateUser(ctx, u); err != nil {
		return nil, notFound(err, "user", userID)
	}
	return u, nil
}

func (a *Accounts) List(ctx context.Context, offset, limit int) ([]models.User, error) {
	return a.repo.ListUsers(ctx, offset, limit)
}

// ToggleActive flips a user's active flag.
func (a *Accounts) ToggleActive(ctx context.Context, userID int) (*models.User, error) {
	u, err := a.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.IsActive = !u.IsActive
	if err := a.repo.UpdateUser(ctx, u); err != nil {
		return nil, notFound(err, "user", userID)
	}
	a.logger.Info("User status changed", "user_id", userID, "active", u.IsActive)
	return u, nil
}
