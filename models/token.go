// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "type" claim. A token is only accepted by the
// flow it was issued for.
const (
	TokenTypeAccess        = "access"
	TokenTypeResetPassword = "reset-password"
)

// TokenClaims is the claim set signed into every issued JWT.
type TokenClaims struct {
	jwt.RegisteredClaims

	// Type tags the purpose of the token, see TokenTypeAccess and
	// TokenTypeResetPassword.
	Type string `json:"type"`
}

// Token wraps a JWT token with convenience accessors for authentication flows.
//
// It embeds [jwt.Token] for low-level token operations (signing, parsing).
// SignedString holds the compact serialized form of the token.
// UserID is the parsed "sub" claim and Type the parsed "type" claim.
type Token struct {
	*jwt.Token `json:"-"`

	SignedString string `json:"-"`
	UserID       string `json:"-"`
	Type         string `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
