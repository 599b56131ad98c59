// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config provides configuration loading, merging, and validation
// facilities for the application.
//
// Structured configuration is assembled from multiple sources in the
// following priority order (later sources override earlier non-zero fields):
//  1. dotenv file selected by APP_ENV
//  2. Environment variables
//  3. Command-line flags
//  4. JSON config file
//
// Flat runtime switches (first administrator, cache TTL, debug toggles) are
// read through [EnvAccessor], whose getters fail fast on missing or
// malformed values.
package config
