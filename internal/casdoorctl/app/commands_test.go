package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/casdoor/pkg/casdoor"
	"github.com/aussiebroadwan/casdoor/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestUsersCommands(t *testing.T) {
	var gotQuery string
	var gotForm url.Values

	mux := http.NewServeMux()
	mux.HandleFunc("/api/get-user-count", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeEnvelope(w, 42, nil)
	})
	mux.HandleFunc("/api/get-users", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeEnvelope(w, []casdoor.User{{Owner: "built-in", Name: "alice"}, {Owner: "built-in", Name: "bob"}}, 2)
	})
	mux.HandleFunc("/api/get-sorted-users", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeEnvelope(w, []casdoor.User{{Owner: "built-in", Name: "bob"}}, nil)
	})
	mux.HandleFunc("/api/get-user", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if r.URL.Query().Get("id") == "built-in/ghost" {
			writeEnvelope(w, nil, nil)
			return
		}
		writeEnvelope(w, casdoor.User{Owner: "built-in", Name: "alice", Email: "alice@example.com"}, nil)
	})
	mux.HandleFunc("/api/set-password", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotForm, _ = url.ParseQuery(string(body))
		writeEnvelope(w, nil, nil)
	})
	env := newTestEnv(t, mux)

	t.Run("count", func(t *testing.T) {
		out, err := env.run("users", "count", "--online")
		require.NoError(t, err)
		require.Equal(t, "42\n", out)
		require.Equal(t, "owner=built-in&isOnline=1", gotQuery)
	})

	t.Run("count flags are exclusive", func(t *testing.T) {
		_, err := env.run("users", "count", "--online", "--offline")
		require.Error(t, err)
	})

	t.Run("list with paging", func(t *testing.T) {
		out, err := env.run("users", "list", "--page-size", "10", "--page", "2")
		require.NoError(t, err)
		require.Equal(t, "owner=built-in&pageSize=10&p=2", gotQuery)

		var res casdoor.QueryResult[casdoor.User]
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		require.Len(t, res.Items, 2)
		require.Equal(t, int64(2), res.Total)
	})

	t.Run("list sorted", func(t *testing.T) {
		out, err := env.run("users", "list", "--sort", "created_time", "--limit", "1")
		require.NoError(t, err)
		require.Equal(t, "owner=built-in&sorter=created_time&limit=1", gotQuery)
		require.Contains(t, out, `"bob"`)
	})

	t.Run("get by name", func(t *testing.T) {
		out, err := env.run("users", "get", "alice")
		require.NoError(t, err)
		require.Equal(t, "id=built-in%2Falice", gotQuery)
		require.Contains(t, out, "alice@example.com")
	})

	t.Run("get missing user", func(t *testing.T) {
		_, err := env.run("users", "get", "ghost")
		require.EqualError(t, err, "user not found")
	})

	t.Run("get without selector", func(t *testing.T) {
		_, err := env.run("users", "get")
		require.ErrorIs(t, err, casdoor.ErrInvalidArgument)
	})

	t.Run("set password", func(t *testing.T) {
		out, err := env.run("users", "set-password", "alice", "--new", "n3w pass")
		require.NoError(t, err)
		require.Equal(t, "password updated for alice\n", out)
		require.Equal(t, "alice", gotForm.Get("userName"))
		require.Equal(t, "n3w pass", gotForm.Get("newPassword"))
		require.Equal(t, "built-in", gotForm.Get("userOwner"))
	})

	t.Run("set password requires --new", func(t *testing.T) {
		_, err := env.run("users", "set-password", "alice")
		require.Error(t, err)
	})
}

func TestResourceCommands(t *testing.T) {
	var gotPath, gotQuery, gotBody string

	record := func(data any, data2 any) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			gotPath, gotQuery, gotBody = r.URL.Path, r.URL.RawQuery, string(body)
			writeEnvelope(w, data, data2)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/get-organizations", record([]casdoor.Organization{{Owner: "admin", Name: "built-in"}}, 1))
	mux.HandleFunc("/api/get-organization-names", record([]casdoor.Organization{{Name: "built-in"}}, nil))
	mux.HandleFunc("/api/get-applications", record([]casdoor.Application{{Owner: "admin", Name: "app-built-in"}}, 1))
	mux.HandleFunc("/api/get-organization-applications", record([]casdoor.Application{}, 0))
	mux.HandleFunc("/api/get-user-application", record(casdoor.Application{Name: "app-built-in"}, nil))
	mux.HandleFunc("/api/get-cert", record(casdoor.Cert{Owner: "admin", Name: "cert-built-in"}, nil))
	mux.HandleFunc("/api/get-global-certs", record([]casdoor.Cert{{Name: "cert-built-in"}}, 1))
	mux.HandleFunc("/api/enforce", record([]bool{false, true}, nil))
	env := newTestEnv(t, mux)

	t.Run("orgs list", func(t *testing.T) {
		out, err := env.run("orgs", "list")
		require.NoError(t, err)
		require.Equal(t, "/api/get-organizations", gotPath)
		require.Contains(t, out, `"total": 1`)
	})

	t.Run("orgs names", func(t *testing.T) {
		_, err := env.run("orgs", "list", "--names")
		require.NoError(t, err)
		require.Equal(t, "/api/get-organization-names", gotPath)
	})

	t.Run("apps list", func(t *testing.T) {
		_, err := env.run("apps", "list")
		require.NoError(t, err)
		require.Equal(t, "/api/get-applications", gotPath)

		_, err = env.run("apps", "list", "--org", "built-in")
		require.NoError(t, err)
		require.Equal(t, "/api/get-organization-applications", gotPath)
		require.Equal(t, "owner=built-in&organization=built-in", gotQuery)
	})

	t.Run("apps of user", func(t *testing.T) {
		out, err := env.run("apps", "of-user", "alice")
		require.NoError(t, err)
		require.Equal(t, "id=built-in%2Falice", gotQuery)
		require.Contains(t, out, "app-built-in")
	})

	t.Run("certs", func(t *testing.T) {
		out, err := env.run("certs", "get", "cert-built-in")
		require.NoError(t, err)
		require.Equal(t, "/api/get-cert", gotPath)
		require.Contains(t, out, "cert-built-in")

		_, err = env.run("certs", "list", "--global")
		require.NoError(t, err)
		require.Equal(t, "/api/get-global-certs", gotPath)
	})

	t.Run("enforce", func(t *testing.T) {
		out, err := env.run("enforce", "--permission-id", "built-in/permission-read", "--", "alice", "data1", "read")
		require.NoError(t, err)
		require.Equal(t, "owner=built-in&permissionId=built-in%2Fpermission-read", gotQuery)
		require.JSONEq(t, `["alice","data1","read"]`, gotBody)
		require.JSONEq(t, `{"allow":true}`, out)
	})

	t.Run("enforce needs a target", func(t *testing.T) {
		_, err := env.run("enforce", "--", "alice", "data1", "read")
		require.Error(t, err)
	})
}

func TestTokenCommands(t *testing.T) {
	var env *testEnv
	var refreshForm url.Values
	var userinfoAuth string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		writeTokenResponse(w, env.signToken("user-alice", time.Hour), "refresh-1")
	})
	mux.HandleFunc("/api/login/oauth/refresh_token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		refreshForm = r.PostForm
		writeTokenResponse(w, env.signToken("user-alice", 2*time.Hour), "refresh-2")
	})
	mux.HandleFunc("/api/userinfo", func(w http.ResponseWriter, r *http.Request) {
		userinfoAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"user-alice","preferred_username":"alice","email":"alice@example.com"}`))
	})
	env = newTestEnv(t, mux)

	t.Run("verify without a stored token", func(t *testing.T) {
		_, err := env.run("token", "verify", "--alg", "ES256")
		require.Error(t, err)
	})

	t.Run("exchange rejected code", func(t *testing.T) {
		_, err := env.run("token", "exchange", "bad-code", "--alg", "ES256")
		require.ErrorIs(t, err, casdoor.ErrTokenExchange)
	})

	t.Run("exchange with the wrong algorithm stores nothing", func(t *testing.T) {
		_, err := env.run("token", "exchange", "good-code", "--alg", "RS256")
		require.ErrorIs(t, err, casdoor.ErrJWT)

		out, err := env.run("token", "list")
		require.NoError(t, err)
		require.NotContains(t, out, "default")
	})

	t.Run("exchange", func(t *testing.T) {
		out, err := env.run("token", "exchange", "good-code", "--alg", "ES256")
		require.NoError(t, err)
		require.Equal(t, "signed in as built-in/alice (profile \"default\")\n", out)
	})

	t.Run("list", func(t *testing.T) {
		out, err := env.run("token", "list")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 2)
		require.True(t, strings.HasPrefix(lines[0], "PROFILE"))
		require.Contains(t, lines[1], "default")
		require.Contains(t, lines[1], "user-alice")
		require.Contains(t, lines[1], "true")
	})

	t.Run("verify stored token", func(t *testing.T) {
		out, err := env.run("token", "verify", "--alg", "ES256")
		require.NoError(t, err)

		var claims casdoor.Claims
		require.NoError(t, json.Unmarshal([]byte(out), &claims))
		require.Equal(t, "user-alice", claims.Subject)
		require.Equal(t, "alice", claims.Name)
	})

	t.Run("verify explicit token", func(t *testing.T) {
		_, err := env.run("token", "verify", env.signToken("user-bob", time.Hour), "--alg", "ES256")
		require.NoError(t, err)

		_, err = env.run("token", "verify", env.signToken("user-bob", -time.Hour), "--alg", "ES256")
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("whoami", func(t *testing.T) {
		out, err := env.run("whoami")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(userinfoAuth, "Bearer "))
		require.Contains(t, out, "alice@example.com")
	})

	t.Run("refresh", func(t *testing.T) {
		out, err := env.run("token", "refresh", "--alg", "ES256")
		require.NoError(t, err)
		require.Contains(t, out, "built-in/alice")
		require.Equal(t, "refresh_token", refreshForm.Get("grant_type"))
		require.Equal(t, "refresh-1", refreshForm.Get("refresh_token"))

		_, err = env.run("token", "refresh", "--alg", "ES256")
		require.NoError(t, err)
		require.Equal(t, "refresh-2", refreshForm.Get("refresh_token"))
	})

	t.Run("profiles are separate", func(t *testing.T) {
		_, err := env.run("--profile", "staging", "token", "verify", "--alg", "ES256")
		require.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		_, err := env.run("token", "delete")
		require.NoError(t, err)

		_, err = env.run("token", "logout")
		require.Error(t, err)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := env.run("token", "verify", "x.y.z", "--alg", "HS256")
		require.Error(t, err)
	})
}

func TestTokenCommandsNeedMasterKey(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())
	t.Setenv(testMasterKey, "")

	_, err := env.run("token", "list")
	require.ErrorContains(t, err, "load master key")
}

func TestURLCommands(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())

	out, err := env.run("url", "signin", "--redirect-uri", "http://localhost:9000/call back")
	require.NoError(t, err)
	require.Equal(t, env.server.URL+
		"/login/oauth/authorize?client_id="+testClientID+
		"&response_type=code&redirect_uri=http%3A%2F%2Flocalhost%3A9000%2Fcall%20back&scope=read&state=app-built-in\n", out)

	out, err = env.run("url", "signup", "--redirect-uri", "http://localhost:9000/callback")
	require.NoError(t, err)
	require.Contains(t, out, "/signup/oauth/authorize?")

	out, err = env.run("url", "signup", "--password")
	require.NoError(t, err)
	require.Equal(t, env.server.URL+"/signup/app-built-in\n", out)

	_, err = env.run("url", "signup")
	require.Error(t, err)

	out, err = env.run("url", "profile", "alice")
	require.NoError(t, err)
	require.Equal(t, env.server.URL+"/users/built-in/alice\n", out)

	// No stored token: the URL is printed without one.
	out, err = env.run("url", "account", "--with-token")
	require.NoError(t, err)
	require.Equal(t, env.server.URL+"/account\n", out)
}

func TestMfaCode(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())

	out, err := env.run("mfa", "code", "--secret", "JBSWY3DPEHPK3PXP")
	require.NoError(t, err)
	require.Regexp(t, `^\d{6}\n$`, out)

	_, err = env.run("mfa", "code")
	require.Error(t, err)
}

func TestMissingConfigFile(t *testing.T) {
	env := newTestEnv(t, http.NewServeMux())

	_, err := env.run("--config", "/does/not/exist.toml", "users", "count")
	require.Error(t, err)
}
