package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/casdoor/pkg/casdoor"
	"github.com/spf13/cobra"
)

func newMfaCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mfa",
		Short: "Multi-factor authentication helpers",
	}

	var secret string
	codeCmd := &cobra.Command{
		Use:   "code",
		Short: "Print the current TOTP code for an authenticator secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := casdoor.GenerateTOTPCode(secret, time.Now())
			if err != nil {
				return err
			}
			return printLine(cmd, code)
		},
	}
	codeCmd.Flags().StringVar(&secret, "secret", "", "Base32 TOTP secret")
	_ = codeCmd.MarkFlagRequired("secret")

	status := &cobra.Command{
		Use:   "status <user>",
		Short: "Show a user's preferred MFA method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			client, err := c.application().Client()
			if err != nil {
				return err
			}
			user, err := client.GetUser(c.commandContext(cmd), casdoor.GetUserArgs{Name: pos[0]})
			if err != nil {
				return err
			}
			if user == nil {
				return errors.New("user not found")
			}

			m, ok := user.PreferredMfa()
			if !ok {
				return printLine(cmd, "no mfa enabled")
			}
			return printLine(cmd, fmt.Sprintf("%s (preferred: %t)", m.MfaType, m.IsPreferred))
		},
	}

	cmd.AddCommand(codeCmd, status)
	return cmd
}
