// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for new password hashes.
const PasswordCost = bcrypt.DefaultCost

// EncodePassword returns a salted bcrypt hash of password.
// Two calls with the same password produce different hashes.
func EncodePassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hash), nil
}

// IsPasswordValid reports whether password matches the bcrypt hash.
// The comparison runs in constant time; a malformed hash never matches.
func IsPasswordValid(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
