package casdoor_test

import (
	"testing"

	"github.com/aussiebroadwan/casdoor/pkg/casdoor"
	"github.com/stretchr/testify/require"
)

// TestGetUsers verifies the built-in organization lists at least the admin.
func TestGetUsers(t *testing.T) {
	client := newClient(t)

	users, err := client.GetUsers(t.Context(), casdoor.UserQueryArgs{})
	require.NoError(t, err)
	require.NotEmpty(t, users.Items)

	t.Logf("Found %d user(s)", len(users.Items))
}

// TestGetSortedUsers verifies the limit is honored.
func TestGetSortedUsers(t *testing.T) {
	client := newClient(t)

	users, err := client.GetSortedUsers(t.Context(), "name", 1)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

// TestGetUserCount verifies counting tracks added users.
func TestGetUserCount(t *testing.T) {
	client := newClient(t)

	offline, err := client.GetUserCount(t.Context(), casdoor.UsersOffline)
	require.NoError(t, err)
	require.GreaterOrEqual(t, offline, int64(1), "admin should count as offline")

	before, err := client.GetUserCount(t.Context(), casdoor.UsersAll)
	require.NoError(t, err)

	createUser(t, client, "e2e_count_user")

	after, err := client.GetUserCount(t.Context(), casdoor.UsersAll)
	require.NoError(t, err)
	require.Equal(t, before+1, after)
}

// TestGetUser verifies lookups by name and by email.
func TestGetUser(t *testing.T) {
	client := newClient(t)

	t.Run("by name", func(t *testing.T) {
		user, err := client.GetUser(t.Context(), casdoor.GetUserArgs{Name: adminUser})
		require.NoError(t, err)
		require.NotNil(t, user)
		require.Equal(t, builtInOrg, user.Owner)
		require.Equal(t, adminUser, user.Name)
	})

	t.Run("by email", func(t *testing.T) {
		user, err := client.GetUser(t.Context(), casdoor.GetUserArgs{Email: adminEmail})
		require.NoError(t, err)
		require.NotNil(t, user)
		require.Equal(t, adminEmail, user.Email)
	})

	t.Run("missing user", func(t *testing.T) {
		user, err := client.GetUser(t.Context(), casdoor.GetUserArgs{Name: "e2e_nobody"})
		require.NoError(t, err)
		require.Nil(t, user)
	})

	t.Run("ambiguous selector", func(t *testing.T) {
		_, err := client.GetUser(t.Context(), casdoor.GetUserArgs{Name: adminUser, Email: adminEmail})
		require.ErrorIs(t, err, casdoor.ErrInvalidArgument)
		require.Equal(t, 400, casdoor.StatusCode(err))
	})
}

// TestUserLifecycle adds, updates and deletes a user.
func TestUserLifecycle(t *testing.T) {
	client := newClient(t)
	ctx := t.Context()

	user := casdoor.User{
		Owner:       builtInOrg,
		Name:        "new_user",
		DisplayName: "New User",
		Email:       "new_user@example.com",
		Password:    "E2e-Passw0rd!",
		Type:        "normal-user",
	}

	affected, err := client.AddUser(ctx, user)
	require.NoError(t, err)
	require.True(t, affected)

	got, err := client.GetUser(ctx, casdoor.GetUserArgs{Name: user.Name})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "New User", got.DisplayName)

	got.DisplayName = "Renamed User"
	affected, err = client.UpdateUser(ctx, *got, "displayName")
	require.NoError(t, err)
	require.True(t, affected)

	got, err = client.GetUser(ctx, casdoor.GetUserArgs{Name: user.Name})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Renamed User", got.DisplayName)

	affected, err = client.DeleteUser(ctx, user)
	require.NoError(t, err)
	require.True(t, affected)

	got, err = client.GetUser(ctx, casdoor.GetUserArgs{Name: user.Name})
	require.NoError(t, err)
	require.Nil(t, got)
}

// TestSetUserPassword verifies an administrative reset without the old
// password is accepted.
func TestSetUserPassword(t *testing.T) {
	client := newClient(t)
	user := createUser(t, client, "e2e_password_user")

	err := client.SetUserPassword(t.Context(), casdoor.SetPasswordArgs{
		UserName:    user.Name,
		NewPassword: "Changed-Passw0rd!",
		UserOwner:   builtInOrg,
	})
	require.NoError(t, err)
}

// TestInvalidCredentials verifies server rejections surface as business errors.
func TestInvalidCredentials(t *testing.T) {
	cfg := casdoor.NewConfig(endpoint, "not-a-client", "not-a-secret", "", builtInOrg, "")
	client := casdoor.New(cfg)

	_, err := client.GetUsers(t.Context(), casdoor.UserQueryArgs{})
	require.Error(t, err)
	require.ErrorIs(t, err, casdoor.ErrBusiness)

	t.Logf("Rejected with: %v", err)
}
