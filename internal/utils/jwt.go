// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-intra-api/models"
	"github.com/golang-jwt/jwt/v5"
)

// JWT errors. Callers match them with [errors.Is].
var (
	ErrInvalidJWTParams = errors.New("invalid params for generating JWT token")
	ErrInvalidJWTToken  = errors.New("invalid JWT token")
	ErrWrongTokenType   = errors.New("wrong token type")
)

// GenerateJWTToken creates a signed HMAC-SHA256 JWT token.
//
// The token carries the standard iss, sub, iat and exp claims plus a "type"
// claim naming the flow it was issued for (see models.TokenTypeAccess).
//
// Example usage:
//
//	token, err := utils.GenerateJWTToken("intra", userID, time.Hour, "secret", models.TokenTypeAccess)
func GenerateJWTToken(issuer, subject string, tokenDuration time.Duration, signKey, tokenType string) (models.Token, error) {
	if issuer == "" || subject == "" || tokenDuration <= 0 || signKey == "" || tokenType == "" {
		return models.Token{}, ErrInvalidJWTParams
	}

	now := time.Now()
	claims := &models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Type: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{Token: token, SignedString: tokenString, UserID: subject, Type: tokenType}, nil
}

// ValidateAndParseJWTToken verifies the signature, issuer, expiry and
// "type" claim of tokenString and returns its subject.
//
// A token issued for another flow is rejected with [ErrWrongTokenType].
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer, tokenType string) (models.Token, error) {
	claims := &models.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.Type != tokenType {
		return models.Token{}, fmt.Errorf("%w: expected %q, got %q", ErrWrongTokenType, tokenType, claims.Type)
	}
	if claims.Subject == "" {
		return models.Token{}, fmt.Errorf("%w: empty subject", ErrInvalidJWTToken)
	}

	return models.Token{Token: token, SignedString: tokenString, UserID: claims.Subject, Type: claims.Type}, nil
}

// DecodeJWTToken reads the claims of tokenString without verifying the
// signature or expiry. It must never be used to authorize a request.
func DecodeJWTToken(tokenString string) (models.Token, error) {
	claims := &models.TokenClaims{}
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrInvalidJWTToken, err)
	}

	return models.Token{Token: token, SignedString: tokenString, UserID: claims.Subject, Type: claims.Type}, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
