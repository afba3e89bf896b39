package casdoor

import (
	"context"
	"net/http"
	"strconv"
)

// QueryUserSet filters GetUserCount by online state.
type QueryUserSet int

const (
	UsersAll QueryUserSet = iota
	UsersOffline
	UsersOnline
)

// String returns the isOnline query value Casdoor expects.
func (s QueryUserSet) String() string {
	switch s {
	case UsersOffline:
		return "0"
	case UsersOnline:
		return "1"
	default:
		return ""
	}
}

// GetUserArgs selects a single user. Exactly one field must be set.
type GetUserArgs struct {
	UserID string
	Name   string
	Email  string
	Phone  string
}

// SetPasswordArgs is the form posted to /api/set-password. OldPassword may be
// empty for administrative resets. UserOwner defaults to the organization.
type SetPasswordArgs struct {
	UserName    string
	NewPassword string
	OldPassword string
	UserOwner   string
}

func (a SetPasswordArgs) encodeQuery(q *queryBuilder) {
	q.add("userName", a.UserName)
	q.add("newPassword", a.NewPassword)
	q.str("oldPassword", a.OldPassword)
	q.str("userOwner", a.UserOwner)
}

func (c *Client) GetUsers(ctx context.Context, args UserQueryArgs) (QueryResult[User], error) {
	return getModels[User](ctx, c, "", args)
}

// GetSortedUsers returns at most limit users ordered by the sorter field.
func (c *Client) GetSortedUsers(ctx context.Context, sorter string, limit int) ([]User, error) {
	path := c.urlPath("get-sorted-users", true, pairs{{"sorter", sorter}, {"limit", strconv.Itoa(limit)}})
	resp, err := request[[]User, struct{}](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return resp.PrimaryOrDefault()
}

func (c *Client) GetUserGroups(ctx context.Context, args UserGroupQueryArgs) (QueryResult[Group], error) {
	return getModels[Group](ctx, c, "", args)
}

// GetUserCount counts users in the organization.
func (c *Client) GetUserCount(ctx context.Context, set QueryUserSet) (int64, error) {
	path := c.urlPath("get-user-count", true, pairs{{"isOnline", set.String()}})
	resp, err := request[int64, struct{}](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return 0, err
	}
	return resp.PrimaryOrDefault()
}

// GetUser looks a user up by whichever single field of args is set. A miss
// is (nil, nil).
func (c *Client) GetUser(ctx context.Context, args GetUserArgs) (*User, error) {
	set := 0
	for _, v := range []string{args.UserID, args.Name, args.Email, args.Phone} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return nil, newError(
			http.StatusBadRequest,
			KindInvalidArgument,
			`The parameters "uid", "name", "email" and "phone" can and must only pass one.`,
		)
	}

	switch {
	case args.UserID != "":
		return c.GetUserByUserID(ctx, args.UserID)
	case args.Name != "":
		return getModelByName[User](ctx, c, args.Name)
	case args.Email != "":
		return c.GetUserByEmail(ctx, args.Email)
	default:
		return c.GetUserByPhone(ctx, args.Phone)
	}
}

func (c *Client) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return c.getUserBy(ctx, "email", email)
}

func (c *Client) GetUserByPhone(ctx context.Context, phone string) (*User, error) {
	return c.getUserBy(ctx, "phone", phone)
}

func (c *Client) GetUserByUserID(ctx context.Context, userID string) (*User, error) {
	return c.getUserBy(ctx, "userId", userID)
}

func (c *Client) getUserBy(ctx context.Context, key, value string) (*User, error) {
	resp, err := request[User, struct{}](ctx, c, http.MethodGet, c.urlPath("get-user", true, pairs{{key, value}}), nil)
	if err != nil {
		return nil, err
	}
	return resp.Primary()
}

// SetUserPassword changes a user's password.
func (c *Client) SetUserPassword(ctx context.Context, args SetPasswordArgs) error {
	if args.UserOwner == "" {
		args.UserOwner = c.cfg.OrgName
	}

	resp, err := request[struct{}, struct{}](ctx, c, http.MethodPost, "/api/set-password", formBody{EncodeQuery(args)})
	if err != nil {
		return err
	}
	_, _, err = resp.Resolve()
	return err
}

func (c *Client) AddUser(ctx context.Context, u User) (bool, error) {
	return AddModel(ctx, c, u)
}

// UpdateUser updates u, restricted to columns when any are given.
func (c *Client) UpdateUser(ctx context.Context, u User, columns ...string) (bool, error) {
	return UpdateModel(ctx, c, u, columns...)
}

func (c *Client) DeleteUser(ctx context.Context, u User) (bool, error) {
	return DeleteModel(ctx, c, u)
}
