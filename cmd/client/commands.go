// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-intra-api/internal/adapter"
	"github.com/MKhiriev/go-intra-api/models"
	"github.com/spf13/cobra"
)

func newRegisterCmd(c *cli) *cobra.Command {
	var req models.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and print it with its access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := c.server.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password")
	for _, name := range []string{"username", "email", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newLoginCmd(c *cli) *cobra.Command {
	var (
		req       models.LoginRequest
		tokenOnly bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in by username or email and print the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := c.server.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			if tokenOnly {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), resp.Token)
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&req.Login, "login", "l", "", "Username or email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password")
	cmd.Flags().BoolVar(&tokenOnly, "token-only", false, "Print only the token, e.g. for export INTRA_API_TOKEN=$(...)")
	_ = cmd.MarkFlagRequired("login")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newForgotPasswordCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password EMAIL",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.server.ForgotPassword(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "reset link sent")
			return err
		},
	}
}

func newResetPasswordCmd(c *cli) *cobra.Command {
	var token, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.server.ResetPassword(cmd.Context(), token, password); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "password changed")
			return err
		},
	}

	cmd.Flags().StringVar(&token, "reset-token", "", "Token from the reset email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "New password")
	_ = cmd.MarkFlagRequired("reset-token")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newMeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Print the authenticated account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.server.Me(cmd.Context())
			if err != nil {
				return authHint(err)
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	}
}

func newAvatarCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "avatar FILE",
		Short: "Upload FILE as the avatar of the authenticated account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			user, err := c.server.UploadAvatar(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return authHint(err)
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	}
}

func newDownloadCmd(c *cli) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download ID",
		Short: "Download a file; writes to stdout unless --output is set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dst io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				dst = f
			}

			n, err := c.server.DownloadFile(cmd.Context(), args[0], dst)
			if err != nil {
				if output != "" {
					_ = os.Remove(output)
				}
				return err
			}
			if output != "" {
				_, err = fmt.Fprintf(cmd.ErrOrStderr(), "%d bytes written to %s\n", n, output)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file")
	return cmd
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print client build info and the server version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprint(out, buildInfo()); err != nil {
				return err
			}

			version, err := c.server.Version(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "Server version: %s\n", version)
			return err
		},
	}
}

func newHealthCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Print the server health report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.server.Health(cmd.Context())
			if report.Status != "" {
				if printErr := printJSON(cmd.OutOrStdout(), report); printErr != nil {
					return printErr
				}
			}
			return err
		},
	}
}

// authHint adds a hint on how to obtain a token to authentication errors.
func authHint(err error) error {
	if adapter.IsAuthError(err) {
		return fmt.Errorf("%w (run login and pass the token with --token or INTRA_API_TOKEN)", err)
	}
	return err
}
