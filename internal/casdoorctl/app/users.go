package app

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/casdoor/pkg/casdoor"
	"github.com/spf13/cobra"
)

func newUsersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users of the configured organization",
	}
	cmd.AddCommand(
		newUsersListCmd(c),
		newUsersGetCmd(c),
		newUsersCountCmd(c),
		newUsersSetPasswordCmd(c),
	)
	return cmd
}

// pageFlags binds the paging flags shared by list commands.
type pageFlags struct {
	pageSize int
	page     int
}

func (p *pageFlags) bind(cmd *cobra.Command, defaultSize int) {
	cmd.Flags().IntVar(&p.pageSize, "page-size", defaultSize, "Page size, 0 lists everything")
	cmd.Flags().IntVar(&p.page, "page", 1, "Page number, used with --page-size")
}

func (p *pageFlags) args() casdoor.QueryArgs {
	if p.pageSize <= 0 {
		return casdoor.QueryArgs{}
	}
	return casdoor.QueryArgs{PageSize: casdoor.Ptr(p.pageSize), Page: casdoor.Ptr(p.page)}
}

func newUsersListCmd(c *cli) *cobra.Command {
	var (
		paging pageFlags
		group  string
		sorter string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.application().Client()
			if err != nil {
				return err
			}
			ctx := c.commandContext(cmd)

			if sorter != "" {
				users, err := client.GetSortedUsers(ctx, sorter, limit)
				if err != nil {
					return err
				}
				return printJSON(cmd, users)
			}

			res, err := client.GetUsers(ctx, casdoor.UserQueryArgs{
				GroupName: group,
				QueryArgs: paging.args(),
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}

	paging.bind(cmd, c.cfg.PageSize)
	cmd.Flags().StringVar(&group, "group", "", "Only list members of this group")
	cmd.Flags().StringVar(&sorter, "sort", "", "Sort by this field (uses get-sorted-users)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum users returned with --sort")
	return cmd
}

func newUsersGetCmd(c *cli) *cobra.Command {
	var args casdoor.GetUserArgs

	cmd := &cobra.Command{
		Use:   "get [name]",
		Short: "Get one user by name, email, phone or user id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			if len(pos) == 1 {
				args.Name = pos[0]
			}

			client, err := c.application().Client()
			if err != nil {
				return err
			}

			user, err := client.GetUser(c.commandContext(cmd), args)
			if err != nil {
				return err
			}
			if user == nil {
				return errors.New("user not found")
			}
			return printJSON(cmd, user)
		},
	}

	cmd.Flags().StringVar(&args.Email, "email", "", "Look the user up by email")
	cmd.Flags().StringVar(&args.Phone, "phone", "", "Look the user up by phone")
	cmd.Flags().StringVar(&args.UserID, "user-id", "", "Look the user up by user id")
	return cmd
}

func newUsersCountCmd(c *cli) *cobra.Command {
	var online, offline bool

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set := casdoor.UsersAll
			switch {
			case online:
				set = casdoor.UsersOnline
			case offline:
				set = casdoor.UsersOffline
			}

			client, err := c.application().Client()
			if err != nil {
				return err
			}

			n, err := client.GetUserCount(c.commandContext(cmd), set)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
			return err
		},
	}

	cmd.Flags().BoolVar(&online, "online", false, "Only count online users")
	cmd.Flags().BoolVar(&offline, "offline", false, "Only count offline users")
	cmd.MarkFlagsMutuallyExclusive("online", "offline")
	return cmd
}

func newUsersSetPasswordCmd(c *cli) *cobra.Command {
	var args casdoor.SetPasswordArgs

	cmd := &cobra.Command{
		Use:   "set-password <name>",
		Short: "Set a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			args.UserName = pos[0]

			client, err := c.application().Client()
			if err != nil {
				return err
			}
			if err := client.SetUserPassword(c.commandContext(cmd), args); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", args.UserName)
			return err
		},
	}

	cmd.Flags().StringVar(&args.NewPassword, "new", "", "New password")
	cmd.Flags().StringVar(&args.OldPassword, "old", "", "Current password, omit for an administrative reset")
	cmd.Flags().StringVar(&args.UserOwner, "owner", "", "Owning organization (default: the configured one)")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}
