package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joss/ghdigest/internal/auth"
	"github.com/joss/ghdigest/internal/config"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the cached GitHub token",
	}

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize via the GitHub device flow and cache the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID := config.LoadEnv().ClientID
			if clientID == "" {
				file, err := config.LoadFile()
				if err != nil {
					return err
				}
				clientID = file.ClientID
			}

			p := auth.NewProvider(clientID)
			if err := p.Logout(); err != nil {
				return err
			}
			if _, err := p.Token(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("✓ Token cached in the OS keyring")
			return nil
		},
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the cached token from the OS keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.NewProvider("").Logout(); err != nil {
				return err
			}
			fmt.Println("✓ Token removed")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the cached token",
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := auth.NewProvider("").Status()
			if err != nil {
				return err
			}
			if tok == nil {
				fmt.Println("No token cached")
				return nil
			}

			fmt.Printf("Token:  %s\n", tok.Masked())
			scope := strings.Join(tok.Scope, ", ")
			if scope == "" {
				scope = "(none)"
			}
			fmt.Printf("Scope:  %s\n", scope)
			if tok.Expiry.IsZero() {
				fmt.Println("Expiry: never")
			} else {
				fmt.Printf("Expiry: %s\n", tok.Expiry.Format("2006-01-02 15:04:05 MST"))
			}
			return nil
		},
	}

	cmd.AddCommand(loginCmd, logoutCmd, statusCmd)
	return cmd
}
