package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/foodmarket/internal/apperr"
	"github.com/Skotchmaster/foodmarket/internal/events"
	"github.com/Skotchmaster/foodmarket/internal/hash"
	"github.com/Skotchmaster/foodmarket/internal/logging"
	"github.com/Skotchmaster/foodmarket/internal/models"
	"github.com/Skotchmaster/foodmarket/internal/notify"
	"github.com/Skotchmaster/foodmarket/internal/repo"
	"github.com/Skotchmaster/foodmarket/internal/tokens"
)

type IdentityService struct {
	Repo     *repo.GormRepo
	Events   events.Publisher
	Notifier notify.Notifier

	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	ResetTTL      time.Duration

	HashCost int
	Now      func() time.Time
}

type RegisterInput struct {
	FirstName string     `validate:"required,max=30"`
	LastName  string     `validate:"required,max=30"`
	Email     string     `validate:"required,email,max=255"`
	Password  string     `validate:"required,strongpassword"`
	Phone     string     `validate:"omitempty,phone"`
	BirthDate *time.Time `validate:"omitempty"`
}

type UpdateUserInput struct {
	FirstName *string       `validate:"omitempty,max=30"`
	LastName  *string       `validate:"omitempty,max=30"`
	Email     *string       `validate:"omitempty,email,max=255"`
	Phone     *string       `validate:"omitempty,phone"`
	BirthDate *time.Time    `validate:"omitempty"`
	IsActive  *bool         `validate:"omitempty"`
	Roles     *models.Roles `validate:"omitempty"`
}

type PasswordResetRequest struct {
	Channel models.ResetChannel
	Email   string
	Phone   string
}

type Session struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *IdentityService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *IdentityService) ttl(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}

// NormalizeEmail trims the address and lower-cases its domain part.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// Register creates an active customer account.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.createUser(ctx, "auth.register", in, models.RoleCustomer)
}

// CreateUser is the admin path; roles default to customer.
func (s *IdentityService) CreateUser(ctx context.Context, in RegisterInput, roles models.Roles) (*models.User, error) {
	if roles == models.NoRoles {
		roles = models.RoleCustomer
	}
	return s.createUser(ctx, "auth.create_user", in, roles)
}

func (s *IdentityService) createUser(ctx context.Context, svc string, in RegisterInput, roles models.Roles) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", svc)

	in.Email = NormalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validateInput(in); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return nil, err
	}

	pwHash, err := hash.HashPasswordCost(in.Password, s.HashCost)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		BirthDate:    in.BirthDate,
		Roles:        roles,
		IsActive:     true,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, fmt.Errorf("email %s: %w", in.Email, apperr.ErrAlreadyExists)
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, user.ID, map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"roles":   user.Roles.Names(),
	})
	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

func (s *IdentityService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.Repo.GetUserByID(ctx, id)
	return u, storeErr(err, fmt.Sprintf("user %d", id))
}

func (s *IdentityService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

// UpdateUser applies the non-empty fields of in.
func (s *IdentityService) UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.update_user", "user_id", id)

	if in.Email != nil {
		e := NormalizeEmail(*in.Email)
		in.Email = &e
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, fmt.Sprintf("user %d", id))
	}

	if in.FirstName != nil && strings.TrimSpace(*in.FirstName) != "" {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil && strings.TrimSpace(*in.LastName) != "" {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil && *in.Phone != "" {
		user.Phone = *in.Phone
	}
	if in.BirthDate != nil {
		user.BirthDate = in.BirthDate
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Roles != nil {
		user.Roles = *in.Roles
	}
	if in.Email != nil && *in.Email != "" && *in.Email != user.Email {
		taken, err := s.Repo.EmailTaken(ctx, *in.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			l.Warn("update_user_error", "status", 409, "reason", "email taken")
			return nil, fmt.Errorf("email %s: %w", *in.Email, apperr.ErrAlreadyExists)
		}
		user.Email = *in.Email
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		l.Error("update_user_error", "status", 500, "error", err)
		return nil, storeErr(err, fmt.Sprintf("user %d", id))
	}
	return user, nil
}

func (s *IdentityService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		return storeErr(err, fmt.Sprintf("user %d", id))
	}
	publish(ctx, s.Events, events.TopicUsers, id, map[string]any{"type": "user_deleted", "user_id": id})
	return nil
}

// SignIn verifies credentials and opens a session.
func (s *IdentityService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", apperr.ErrInvalidArgument)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		l.Warn("login failed", "status", 404, "error", err)
		return nil, storeErr(err, "user with this email")
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "status", 401, "reason", "invalid password")
		return nil, fmt.Errorf("wrong password: %w", apperr.ErrInvalidCredential)
	}
	if !user.IsActive {
		l.Warn("login failed", "status", 403, "reason", "inactive user")
		return nil, fmt.Errorf("account is disabled: %w", apperr.ErrPermissionDenied)
	}

	sess, err := s.openSession(ctx, user)
	if err != nil {
		l.Error("login failed", "status", 500, "error", err)
		return nil, err
	}
	l.Info("login_success", "user_id", user.ID)
	return sess, nil
}

func (s *IdentityService) CreateAccessToken(user *models.User, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.ttl(s.AccessTTL, 15*time.Minute))
	token, err := tokens.SignAccess(s.JWTSecret, user.ID, user.Roles.Names(), now, exp)
	return token, exp, err
}

func (s *IdentityService) CreateRefreshToken(user *models.User, now time.Time) (string, *models.RefreshToken, error) {
	exp := now.Add(s.ttl(s.RefreshTTL, 7*24*time.Hour))
	token, jti, err := tokens.SignRefresh(s.RefreshSecret, user.ID, now, exp)
	if err != nil {
		return "", nil, err
	}
	return token, &models.RefreshToken{
		Token:     hash.Sha256Hex(token),
		UserID:    user.ID,
		JTI:       jti,
		ExpiresAt: exp,
	}, nil
}

func (s *IdentityService) openSession(ctx context.Context, user *models.User) (*Session, error) {
	now := s.now()
	access, accessExp, err := s.CreateAccessToken(user, now)
	if err != nil {
		return nil, err
	}
	refresh, stored, err := s.CreateRefreshToken(user, now)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.AddRefreshToken(ctx, stored); err != nil {
		return nil, err
	}
	return &Session{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   stored.ExpiresAt,
	}, nil
}

// Refresh rotates a refresh token; the presented one stops working.
func (s *IdentityService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "error", err)
		return nil, fmt.Errorf("refresh token: %w", apperr.ErrNotAuthenticated)
	}
	userID, err := tokens.UserIDFromSubject(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", apperr.ErrNotAuthenticated)
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil || !user.IsActive {
		return nil, fmt.Errorf("refresh token owner: %w", apperr.ErrNotAuthenticated)
	}

	now := s.now()
	access, accessExp, err := s.CreateAccessToken(user, now)
	if err != nil {
		return nil, err
	}
	refresh, stored, err := s.CreateRefreshToken(user, now)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, refreshToken, stored, now); err != nil {
		if errors.Is(err, repo.ErrTokenInvalid) || isNotFound(err) {
			l.Warn("refresh_failed", "status", 401, "reason", "token expired or revoked")
			return nil, fmt.Errorf("refresh token: %w", apperr.ErrNotAuthenticated)
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	return &Session{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   stored.ExpiresAt,
	}, nil
}

func (s *IdentityService) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

// RequestPasswordReset never reveals whether an account matched.
func (s *IdentityService) RequestPasswordReset(ctx context.Context, req PasswordResetRequest) error {
	l := logging.FromContext(ctx).With("svc", "auth.password_reset", "channel", req.Channel)

	var (
		user *models.User
		to   string
		err  error
	)
	switch req.Channel {
	case models.ResetByEmail:
		to = NormalizeEmail(req.Email)
		if to == "" {
			return fmt.Errorf("email is required for email recovery: %w", apperr.ErrInvalidArgument)
		}
		user, err = s.Repo.GetUserByEmail(ctx, to)
	case models.ResetByPhone:
		to = strings.TrimSpace(req.Phone)
		if to == "" {
			return fmt.Errorf("phone is required for phone recovery: %w", apperr.ErrInvalidArgument)
		}
		user, err = s.Repo.GetUserByPhone(ctx, to)
	default:
		return fmt.Errorf("unknown recovery channel %q: %w", req.Channel, apperr.ErrInvalidArgument)
	}
	if err != nil {
		if isNotFound(err) {
			l.Info("password_reset_no_match")
			return nil
		}
		return err
	}
	if !user.IsActive {
		l.Info("password_reset_inactive_user", "user_id", user.ID)
		return nil
	}

	token, err := hash.OpaqueToken(32)
	if err != nil {
		return err
	}
	expires := s.now().Add(s.ttl(s.ResetTTL, 30*time.Minute))
	if err := s.Repo.CreateResetToken(ctx, &models.PasswordResetToken{
		TokenHash: hash.Sha256Hex(token),
		UserID:    user.ID,
		Channel:   req.Channel,
		ExpiresAt: expires,
	}); err != nil {
		return err
	}

	if s.Notifier != nil {
		if err := s.Notifier.PasswordReset(ctx, user.ID, req.Channel, to, token, expires); err != nil {
			l.Error("password_reset_dispatch_failed", "user_id", user.ID, "error", err)
		}
	}
	l.Info("password_reset_requested", "user_id", user.ID)
	return nil
}

// ResetPassword consumes a reset token and signs the user out everywhere.
func (s *IdentityService) ResetPassword(ctx context.Context, token, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.reset_password")

	if token == "" {
		return fmt.Errorf("reset token is required: %w", apperr.ErrInvalidArgument)
	}
	if err := StrongPassword(newPassword); err != nil {
		return err
	}
	pwHash, err := hash.HashPasswordCost(newPassword, s.HashCost)
	if err != nil {
		return err
	}

	userID, err := s.Repo.ConsumeResetToken(ctx, hash.Sha256Hex(token), pwHash, s.now())
	if err != nil {
		if errors.Is(err, repo.ErrTokenInvalid) || isNotFound(err) {
			l.Warn("reset_password_failed", "status", 400, "reason", "invalid token")
			return fmt.Errorf("reset token is invalid or expired: %w", apperr.ErrInvalidArgument)
		}
		l.Error("reset_password_failed", "status", 500, "error", err)
		return err
	}

	publish(ctx, s.Events, events.TopicUsers, userID, map[string]any{"type": "password_reset", "user_id": userID})
	l.Info("reset_password_success", "user_id", userID)
	return nil
}
