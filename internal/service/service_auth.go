// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/MKhiriev/go-intra-api/internal/config"
	"github.com/MKhiriev/go-intra-api/internal/logger"
	"github.com/MKhiriev/go-intra-api/internal/mailer"
	"github.com/MKhiriev/go-intra-api/internal/utils"
	"github.com/MKhiriev/go-intra-api/models"
)

const wrongCredentialsMessage = "Wrong email/username or password."

// authService is the concrete implementation of AuthService.
// Accounts are managed through the UsersService; reset links are sent by
// the mailer.
type authService struct {
	users  UsersService
	mailer mailer.Sender

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	tokenIssuer string

	tokenDuration      time.Duration
	resetTokenDuration time.Duration

	// passwordResetURL is the page receiving the reset token.
	passwordResetURL string

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService with token parameters from cfg.
func NewAuthService(users UsersService, sender mailer.Sender, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		users:              users,
		mailer:             sender,
		tokenSignKey:       cfg.TokenSignKey,
		tokenIssuer:        cfg.TokenIssuer,
		tokenDuration:      cfg.TokenDuration,
		resetTokenDuration: cfg.ResetTokenDuration,
		passwordResetURL:   cfg.PasswordResetURL,
		logger:             logger,
	}
}

// Register creates a User account and logs it in.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	log := logger.FromContext(ctx)

	user, err := a.users.Create(ctx, models.CreateUserRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.RoleUser,
	})
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Str("username", req.Username).Msg("user creation ended with error")
		return models.AuthResponse{}, err
	}

	return a.Login(ctx, models.LoginRequest{Login: user.Username, Password: req.Password})
}

// Login authenticates by username or email. An unknown account and a wrong
// password produce the same error.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	log := logger.FromContext(ctx)

	user, err := a.users.FindByUsernameOrEmailWithPassword(ctx, req.Login)
	if err != nil {
		log.Err(err).Str("func", "*authService.Login").Msg("user search by login failed")
		return models.AuthResponse{}, err
	}
	if user == nil || !utils.IsPasswordValid(req.Password, user.Password) {
		log.Debug().Str("func", "*authService.Login").Str("login", req.Login).Msg("invalid credentials")
		return models.AuthResponse{}, NotFound(wrongCredentialsMessage)
	}

	token, err := a.createToken(user.ID, models.TokenTypeAccess, a.tokenDuration)
	if err != nil {
		log.Err(err).Str("func", "*authService.Login").Str("user_id", user.ID).Msg("error creating access token")
		return models.AuthResponse{}, err
	}

	user.Password = ""
	return models.AuthResponse{User: *user, Token: token.String()}, nil
}

// RequestPasswordReset mails a short-lived reset link to the account of email.
func (a *authService) RequestPasswordReset(ctx context.Context, email, userAgent string) error {
	log := logger.FromContext(ctx)

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return NotFound("No user found with the email %s", email)
	}

	token, err := a.createToken(user.ID, models.TokenTypeResetPassword, a.resetTokenDuration)
	if err != nil {
		log.Err(err).Str("func", "*authService.RequestPasswordReset").Str("user_id", user.ID).Msg("error creating reset token")
		return err
	}

	err = a.mailer.SendPasswordReset(ctx, user.Email, mailer.PasswordReset{
		Username:  user.Username,
		ActionURL: a.resetURL(token.String()),
		UserAgent: userAgent,
		ExpiresIn: a.resetTokenDuration,
	})
	if err != nil {
		log.ErrorRecord(err, CodePasswordResetMail).Str("func", "*authService.RequestPasswordReset").
			Str("user_id", user.ID).Msg("password reset email wasn't sent")
		return fmt.Errorf("sending password reset email: %w", err)
	}
	return nil
}

// ResetPassword sets the password of the account a reset token was issued for.
func (a *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	log := logger.FromContext(ctx)

	parsed, err := utils.ValidateAndParseJWTToken(token, a.tokenSignKey, a.tokenIssuer, models.TokenTypeResetPassword)
	if err != nil {
		log.Debug().Err(err).Str("func", "*authService.ResetPassword").Msg("reset token rejected")
		return Unauthorized("Invalid password reset token")
	}

	user, err := a.users.FindByID(ctx, parsed.UserID)
	if err != nil {
		return err
	}

	return a.users.ChangePassword(ctx, user.ID, newPassword)
}

// ParseToken validates an access token. Any failure is reported as
// [ErrUnauthorized].
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer, models.TokenTypeAccess)
	if err != nil {
		return models.Token{}, Unauthorized("Invalid or expired token")
	}

	return token, nil
}

func (a *authService) createToken(userID, tokenType string, duration time.Duration) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, userID, duration, a.tokenSignKey, tokenType)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

func (a *authService) resetURL(token string) string {
	return a.passwordResetURL + "?" + url.Values{"token": {token}}.Encode()
}
