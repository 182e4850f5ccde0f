package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"booknest/libs"
	"booknest/models"
	"booknest/repositories"
	"booknest/utils"

	"github.com/google/uuid"
)

const resetTokenTTL = 15 * time.Minute

// GoogleVerifier validates a Google sign-in ID token and returns the
// identity it asserts.
type GoogleVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*libs.GoogleUserInfo, error)
}

// AccountMailer sends account lifecycle emails. Delivery is best effort;
// failures are logged and never surfaced to the caller.
type AccountMailer interface {
	SendWelcomeEmail(to, name string) error
	SendPasswordResetEmail(to, name, token string) error
}

type AuthService struct {
	users    repositories.UserRepository
	verifier GoogleVerifier
	mailer   AccountMailer
	now      func() time.Time
}

func NewAuthService(users repositories.UserRepository, verifier GoogleVerifier, mailer AccountMailer) *AuthService {
	return &AuthService{
		users:    users,
		verifier: verifier,
		mailer:   mailer,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Test hook.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, "", err
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		FullName:     strings.TrimSpace(req.FullName),
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		Password:     hashed,
		AuthProvider: models.AuthProviderLocal,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.FullName)
	if err != nil {
		return nil, "", err
	}

	s.sendWelcome(user)
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	// Google-provisioned accounts have no usable password hash.
	if user.AuthProvider == models.AuthProviderGoogle && user.Password == "" {
		return nil, "", ErrGoogleAccount
	}

	match, err := utils.VerifyPassword(user.Password, req.Password)
	if err != nil || !match {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.FullName)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GoogleLogin verifies the ID token, then signs in the matching account. A
// first-time Google user gets an account created on the spot; an existing
// password account with the same email gets the Google identity linked.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*models.User, string, error) {
	info, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	email := strings.ToLower(info.Email)
	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if user.GoogleID == "" {
			user.GoogleID = info.ID
			user.AuthProvider = models.AuthProviderGoogle
			if err := s.users.Update(ctx, user); err != nil {
				return nil, "", err
			}
		}
	case errors.Is(err, repositories.ErrUserNotFound):
		user = &models.User{
			FullName:     info.Name,
			Username:     usernameFromEmail(email),
			Email:        email,
			GoogleID:     info.ID,
			AuthProvider: models.AuthProviderGoogle,
			IsVerified:   info.VerifiedEmail == "true",
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, "", err
		}
		s.sendWelcome(user)
	default:
		return nil, "", err
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.FullName)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ForgotPassword issues a one-time reset token and mails it. Whether the
// email exists is never revealed to the caller; unknown addresses succeed
// silently.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token := uuid.NewString()
	expiry := s.now().Add(resetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return err
	}

	if s.mailer != nil {
		go func() {
			if err := s.mailer.SendPasswordResetEmail(user.Email, user.FullName, token); err != nil {
				log.Printf("Failed to send password reset email to %s: %v", user.Email, err)
			}
		}()
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if user.ResetExpiry == nil || user.ResetExpiry.Before(s.now()) {
		return ErrInvalidResetToken
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}
	return s.users.ClearResetToken(ctx, user.ID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	match, err := utils.VerifyPassword(user.Password, oldPassword)
	if err != nil || !match {
		return ErrWrongPassword
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.users.UpdatePassword(ctx, user.ID, hashed)
}

func (s *AuthService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.FullName); name != "" {
		user.FullName = name
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		user.Phone = phone
	}
	if address := strings.TrimSpace(req.Address); address != "" {
		user.Address = address
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) sendWelcome(user *models.User) {
	if s.mailer == nil || user.Email == "" {
		return
	}
	go func() {
		if err := s.mailer.SendWelcomeEmail(user.Email, user.FullName); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
		}
	}()
}

func usernameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
