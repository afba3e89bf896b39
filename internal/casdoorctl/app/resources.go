package app

import (
	"github.com/aussiebroadwan/casdoor/pkg/casdoor"
	"github.com/spf13/cobra"
)

func newOrgsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orgs",
		Short: "Read organizations",
	}

	var (
		paging    pageFlags
		namesOnly bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.application().Client()
			if err != nil {
				return err
			}
			ctx := c.commandContext(cmd)

			if namesOnly {
				orgs, err := client.GetOrganizationNames(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd, orgs)
			}

			res, err := client.GetOrganizations(ctx, casdoor.OrganizationQueryArgs{QueryArgs: paging.args()})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	paging.bind(list, c.cfg.PageSize)
	list.Flags().BoolVar(&namesOnly, "names", false, "Only list names visible to the application")

	cmd.AddCommand(list)
	return cmd
}

func newAppsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Read applications",
	}

	var (
		paging pageFlags
		org    string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.application().Client()
			if err != nil {
				return err
			}
			ctx := c.commandContext(cmd)
			args := casdoor.ApplicationQueryArgs{QueryArgs: paging.args(), Organization: org}

			var res casdoor.QueryResult[casdoor.Application]
			if org != "" {
				res, err = client.GetOrganizationApplications(ctx, args)
			} else {
				res, err = client.GetApplications(ctx, args)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	paging.bind(list, c.cfg.PageSize)
	list.Flags().StringVar(&org, "org", "", "List the applications of this organization")

	user := &cobra.Command{
		Use:   "of-user <name>",
		Short: "Show the application a user signed up through",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			client, err := c.application().Client()
			if err != nil {
				return err
			}
			app, err := client.GetUserApplication(c.commandContext(cmd), pos[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, app)
		},
	}

	cmd.AddCommand(list, user)
	return cmd
}

func newCertsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "certs",
		Short: "Read certificates",
	}

	get := &cobra.Command{
		Use:   "get <name>",
		Short: "Get a certificate by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			client, err := c.application().Client()
			if err != nil {
				return err
			}
			cert, err := client.GetCertByName(c.commandContext(cmd), pos[0])
			if err != nil {
				return err
			}
			if cert == nil {
				return casdoor.ErrNotFound
			}
			return printJSON(cmd, cert)
		},
	}

	var (
		paging pageFlags
		global bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List certificates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.application().Client()
			if err != nil {
				return err
			}
			ctx := c.commandContext(cmd)

			var res casdoor.QueryResult[casdoor.Cert]
			if global {
				res, err = client.GetGlobalCerts(ctx, paging.args())
			} else {
				res, err = client.GetCerts(ctx, paging.args())
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	paging.bind(list, c.cfg.PageSize)
	list.Flags().BoolVar(&global, "global", false, "List certificates of every organization")

	cmd.AddCommand(get, list)
	return cmd
}

func newEnforceCmd(c *cli) *cobra.Command {
	var query casdoor.EnforceQueryArgs

	cmd := &cobra.Command{
		Use:     "enforce -- <request values>...",
		Short:   "Check a request tuple against a permission, model, resource or enforcer",
		Example: `  casdoorctl enforce --permission-id built-in/permission-read -- alice data1 read`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, values []string) error {
			client, err := c.application().Client()
			if err != nil {
				return err
			}

			res, err := client.Enforce(c.commandContext(cmd), casdoor.EnforceArgs{
				Query:   query,
				Request: casdoor.CasbinRequest(values),
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}

	cmd.Flags().StringVar(&query.PermissionID, "permission-id", "", "Permission to check against")
	cmd.Flags().StringVar(&query.ModelID, "model-id", "", "Model to check against")
	cmd.Flags().StringVar(&query.ResourceID, "resource-id", "", "Resource to check against")
	cmd.Flags().StringVar(&query.EnforcerID, "enforcer-id", "", "Enforcer to check against")
	cmd.MarkFlagsOneRequired("permission-id", "model-id", "resource-id", "enforcer-id")
	cmd.MarkFlagsMutuallyExclusive("permission-id", "model-id", "resource-id", "enforcer-id")
	return cmd
}
