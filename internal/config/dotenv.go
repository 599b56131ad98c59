// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

const defaultAppEnv = "development"

// dotEnvFileName returns the dotenv file selected by APP_ENV,
// e.g. ".env.production" or ".env.test".
func dotEnvFileName(appEnv string) string {
	return ".env." + appEnv
}

// loadDotEnv exports the variables of path into the process environment.
// A missing file is not an error; already set variables are kept.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("error loading dotenv file %q: %w", path, err)
}
