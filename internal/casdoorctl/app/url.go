package app

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/casdoor/internal/casdoorctl/service"
	"github.com/spf13/cobra"
)

func newURLCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print Casdoor page URLs for the configured application",
	}

	var redirectURI string
	signin := &cobra.Command{
		Use:   "signin",
		Short: "Print the sign-in URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.application().Client()
			if err != nil {
				return err
			}
			return printLine(cmd, client.Auth().SigninURL(redirectURI))
		},
	}
	signin.Flags().StringVar(&redirectURI, "redirect-uri", "", "Redirect URI registered on the application")
	_ = signin.MarkFlagRequired("redirect-uri")

	var (
		signupRedirect string
		passwordOnly   bool
	)
	signup := &cobra.Command{
		Use:   "signup",
		Short: "Print the sign-up URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.application().Client()
			if err != nil {
				return err
			}
			if passwordOnly {
				return printLine(cmd, client.Auth().SignupURLEnablePassword())
			}
			if signupRedirect == "" {
				return errors.New("--redirect-uri is required unless --password is set")
			}
			return printLine(cmd, client.Auth().SignupURL(signupRedirect))
		},
	}
	signup.Flags().StringVar(&signupRedirect, "redirect-uri", "", "Redirect URI registered on the application")
	signup.Flags().BoolVar(&passwordOnly, "password", false, "Print the plain password sign-up page instead")

	var withToken bool
	profile := &cobra.Command{
		Use:   "profile <user>",
		Short: "Print a user's profile page URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			client, err := c.application().Client()
			if err != nil {
				return err
			}
			token, err := c.storedAccessToken(c.commandContext(cmd), withToken)
			if err != nil {
				return err
			}
			return printLine(cmd, client.Auth().UserProfileURL(pos[0], token))
		},
	}
	profile.Flags().BoolVar(&withToken, "with-token", false, "Append the stored access token")

	var accountWithToken bool
	account := &cobra.Command{
		Use:   "account",
		Short: "Print the signed-in user's account page URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.application().Client()
			if err != nil {
				return err
			}
			token, err := c.storedAccessToken(c.commandContext(cmd), accountWithToken)
			if err != nil {
				return err
			}
			return printLine(cmd, client.Auth().MyProfileURL(token))
		},
	}
	account.Flags().BoolVar(&accountWithToken, "with-token", false, "Append the stored access token")

	cmd.AddCommand(signin, signup, profile, account)
	return cmd
}

// storedAccessToken returns the profile's access token when want is set. A
// profile without a token yields an empty string.
func (c *cli) storedAccessToken(ctx context.Context, want bool) (string, error) {
	if !want {
		return "", nil
	}
	tokens, err := c.application().Tokens(ctx)
	if err != nil {
		return "", err
	}
	tok, _, err := tokens.Load(ctx, c.cfg.Profile)
	if errors.Is(err, service.ErrNoToken) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}
