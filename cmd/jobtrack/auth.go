package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"jobtrack/internal/api"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func newRegisterCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (you still have to log in afterwards)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if password == "" {
				if password, err = promptPassword(); err != nil {
					return err
				}
			}

			payload, err := a.session.Register(cmd.Context(), name, email, password)
			if err != nil {
				return describeAPIError(err)
			}
			printJSON(payload)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted if omitted)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token in the OS keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if password == "" {
				if password, err = promptPassword(); err != nil {
					return err
				}
			}

			_, err = a.session.Login(cmd.Context(), email, password)
			if err != nil {
				return describeAPIError(err)
			}

			fmt.Println("logged in")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted if omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Fetch the signed-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			payload, err := a.session.FetchProfile(cmd.Context())
			if err != nil {
				return describeAPIError(err)
			}
			printJSON(payload)
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			a.session.Logout(cmd.Context())
			fmt.Println("logged out")
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			a.session.Initialize(cmd.Context())
			if a.session.IsLoggedIn() {
				fmt.Println("logged in (token present)")
			} else {
				fmt.Println("logged out")
			}
			fmt.Printf("jobs stored: %d\n", len(a.jobs.Jobs()))
			return nil
		},
	}
}

// describeAPIError keeps the network-vs-server distinction visible on the
// terminal, the way the screens would surface it.
func describeAPIError(err error) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.IsNetworkError {
		return fmt.Errorf("%s (check your connection)", apiErr.Message)
	}
	if apiErr.Status != 0 {
		return fmt.Errorf("%s (status %d)", apiErr.Message, apiErr.Status)
	}
	return err
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
