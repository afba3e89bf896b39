package app

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/aussiebroadwan/casdoor/pkg/casdoor"
	"github.com/aussiebroadwan/casdoor/pkg/jwtx"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

func newTokenCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Exchange, refresh, verify and list stored OAuth tokens",
	}
	cmd.AddCommand(
		newTokenExchangeCmd(c),
		newTokenRefreshCmd(c),
		newTokenVerifyCmd(c),
		newTokenListCmd(c),
		newTokenDeleteCmd(c),
	)
	return cmd
}

// algFlag binds --alg, the algorithm Casdoor signs the application's tokens with.
func algFlag(cmd *cobra.Command, alg *string) {
	cmd.Flags().StringVar(alg, "alg", string(jwtx.RS256), "Token signing algorithm (RS256, RS512, ES256, ES384)")
}

// storeToken verifies tok's access token and stores tok under the current
// profile. Unverifiable tokens are never stored.
func (c *cli) storeToken(ctx context.Context, tok *oauth2.Token, algName string) (*casdoor.Claims, error) {
	alg, err := jwtx.ParseAlgorithm(algName)
	if err != nil {
		return nil, err
	}

	client, err := c.application().Client()
	if err != nil {
		return nil, err
	}
	claims, err := client.Auth().VerifyToken(tok.AccessToken, alg)
	if err != nil {
		return nil, err
	}

	tokens, err := c.application().Tokens(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := tokens.Save(ctx, c.cfg.Profile, tok, claims.Subject); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *cli) printSignedIn(cmd *cobra.Command, claims *casdoor.Claims) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s (profile %q)\n", claims.User.GetID(), c.cfg.Profile)
	return err
}

func newTokenExchangeCmd(c *cli) *cobra.Command {
	var alg string

	cmd := &cobra.Command{
		Use:   "exchange <code>",
		Short: "Exchange an authorization code and store the tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			client, err := c.application().Client()
			if err != nil {
				return err
			}
			ctx := c.commandContext(cmd)

			tok, err := client.Auth().ExchangeCode(ctx, pos[0])
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
	algFlag(cmd, &alg)
	return cmd
}

func newTokenRefreshCmd(c *cli) *cobra.Command {
	var alg string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the stored token of the current profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := jwtx.ParseAlgorithm(alg)
			if err != nil {
				return err
			}
			client, err := c.application().Client()
			if err != nil {
				return err
			}
			ctx := c.commandContext(cmd)
			tokens, err := c.application().Tokens(ctx)
			if err != nil {
				return err
			}

			fresh, err := tokens.Refresh(ctx, c.cfg.Profile, client.Auth())
			if err != nil {
				return err
			}
			claims, err := client.Auth().VerifyToken(fresh.AccessToken, parsed)
			if err != nil {
				return err
			}
			return c.printSignedIn(cmd, claims)
		},
	}
	algFlag(cmd, &alg)
	return cmd
}

func newTokenVerifyCmd(c *cli) *cobra.Command {
	var alg string

	cmd := &cobra.Command{
		Use:   "verify [jwt]",
		Short: "Verify a token locally and print its claims",
		Long: `verify checks the signature, audience and expiry of a Casdoor JWT against the
configured certificate. Without an argument it verifies the stored access token.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			parsed, err := jwtx.ParseAlgorithm(alg)
			if err != nil {
				return err
			}
			client, err := c.application().Client()
			if err != nil {
				return err
			}

			var raw string
			if len(pos) == 1 {
				raw = pos[0]
			} else {
				ctx := c.commandContext(cmd)
				tokens, err := c.application().Tokens(ctx)
				if err != nil {
					return err
				}
				tok, _, err := tokens.Load(ctx, c.cfg.Profile)
				if err != nil {
					return err
				}
				raw = tok.AccessToken
			}

			claims, err := client.Auth().VerifyToken(raw, parsed)
			if err != nil {
				return err
			}
			return printJSON(cmd, claims)
		},
	}
	algFlag(cmd, &alg)
	return cmd
}

func newTokenListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := c.commandContext(cmd)
			tokens, err := c.application().Tokens(ctx)
			if err != nil {
				return err
			}
			list, err := tokens.List(ctx)
			if err != nil {
				return err
			}

			now := time.Now()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "PROFILE\tSUBJECT\tTYPE\tEXPIRES\tREFRESH")
			for _, t := range list {
				expires := "never"
				switch {
				case t.Expired(now):
					expires = "expired"
				case !t.ExpiresAt.IsZero():
					expires = t.ExpiresAt.Local().Format(time.RFC3339)
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n",
					t.Profile, t.Subject, t.TokenType, expires, t.HasRefreshToken())
			}
			return w.Flush()
		},
	}
}

func newTokenDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "delete",
		Aliases: []string{"logout"},
		Short:   "Forget the stored token of the current profile",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := c.commandContext(cmd)
			tokens, err := c.application().Tokens(ctx)
			if err != nil {
				return err
			}
			return tokens.Delete(ctx, c.cfg.Profile)
		},
	}
}
