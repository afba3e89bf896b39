package app

import (
	"fmt"
	"net"
	"net/url"

	"github.com/aussiebroadwan/casdoor/pkg/cryptox"
	"github.com/spf13/cobra"
)

func newLoginCmd(c *cli) *cobra.Command {
	var (
		redirectURI string
		alg         string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in through the browser and store the tokens",
		Long: `login prints the Casdoor sign-in URL and listens on the redirect URI for the
authorization response. The code is exchanged, the access token verified, and
the tokens stored under the current profile. The redirect URI must be
registered on the Casdoor application.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := url.Parse(redirectURI)
			if err != nil {
				return fmt.Errorf("invalid redirect uri: %w", err)
			}
			if u.Scheme != "http" || u.Port() == "" {
				return fmt.Errorf("redirect uri must be http://host:port/path, got %q", redirectURI)
			}

			app := c.application()
			client, err := app.Client()
			if err != nil {
				return err
			}
			ctx := c.commandContext(cmd)

			state, err := cryptox.GenerateToken(cryptox.TokenSize128)
			if err != nil {
				return err
			}
			signinURL, err := withState(client.Auth().SigninURL(redirectURI), state)
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", u.Host)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", u.Host, err)
			}

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Open this URL in your browser to sign in:\n\n  %s\n\n", signinURL)

			code, err := serveCallback(ctx, ln, u.Path, state, app.cfg.CallbackTimeout, app.logger)
			if err != nil {
				return err
			}

			tok, err := client.Auth().ExchangeCode(ctx, code)
			if err != nil {
				return err
			}
			claims, err := c.storeToken(ctx, tok, alg)
			if err != nil {
				return err
			}
			return c.printSignedIn(cmd, claims)
		},
	}

	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "http://localhost:9000/callback", "Redirect URI registered on the application")
	algFlag(cmd, &alg)
	return cmd
}

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the userinfo of the stored token's owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.application().Client()
			if err != nil {
				return err
			}
			ctx := c.commandContext(cmd)
			tokens, err := c.application().Tokens(ctx)
			if err != nil {
				return err
			}
			tok, _, err := tokens.Load(ctx, c.cfg.Profile)
			if err != nil {
				return err
			}

			info, err := client.Auth().GetUserinfo(ctx, tok.AccessToken)
			if err != nil {
				return err
			}
			return printJSON(cmd, info)
		},
	}
}
