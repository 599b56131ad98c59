// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
)

// LookupFunc resolves a configuration key. It has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// EnvAccessor reads flat configuration keys with typed, fail-fast accessors.
// Every getter returns an error instead of a zero value when the key is
// missing or malformed.
type EnvAccessor struct {
	lookup LookupFunc
}

// NewEnvAccessor returns an accessor over lookup.
// A nil lookup reads the process environment.
func NewEnvAccessor(lookup LookupFunc) *EnvAccessor {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &EnvAccessor{lookup: lookup}
}

// GetString returns the raw value of key.
func (a *EnvAccessor) GetString(key string) (string, error) {
	value, ok := a.lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrConfigValueMissing, key)
	}
	return value, nil
}

// GetNumber parses key as a finite decimal number.
func (a *EnvAccessor) GetNumber(key string) (float64, error) {
	raw, err := a.GetString(key)
	if err != nil {
		return 0, err
	}

	number, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, fmt.Errorf("%w: %s=%q is not a number", ErrConfigValueInvalid, key, raw)
	}
	return number, nil
}

// GetBoolean accepts only "true" or "false", case-insensitively.
func (a *EnvAccessor) GetBoolean(key string) (bool, error) {
	raw, err := a.GetString(key)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: %s=%q is not a boolean", ErrConfigValueInvalid, key, raw)
}

// GetEnum returns the value of key if it is one of allowed.
func (a *EnvAccessor) GetEnum(key string, allowed ...string) (string, error) {
	raw, err := a.GetString(key)
	if err != nil {
		return "", err
	}

	if !slices.Contains(allowed, raw) {
		return "", fmt.Errorf("%w: %s=%q must be one of [%s]", ErrConfigValueInvalid, key, raw, strings.Join(allowed, ", "))
	}
	return raw, nil
}
