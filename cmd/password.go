package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 5

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for a [[users]] password_hash entry",
	Long: `Print a bcrypt hash to paste into the password_hash field of a [[users]] entry in
the config file. Without an argument the password is prompted for.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var password string
		if len(args) == 1 {
			password = args[0]
		} else {
			var confirm string
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).
						Validate(validatePassword).Value(&password),
					huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).
						Validate(func(s string) error {
							if s != password {
								return errors.New("passwords do not match")
							}
							return nil
						}).Value(&confirm),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}
		}

		hash, err := hashPassword(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if err := validatePassword(password); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
