package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/casdoor/pkg/casdoor"
	"github.com/aussiebroadwan/casdoor/pkg/cryptox"
	"github.com/aussiebroadwan/casdoor/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testClientID  = "e953686f04e7055b698b"
	testMasterKey = "CASDOORCTL_TEST_MASTER_KEY"
)

// testEnv is a fake Casdoor plus a CLI config pointing at it.
type testEnv struct {
	t      *testing.T
	server *httptest.Server
	signer *jwtx.Signer
	cfg    Config
}

func newTestEnv(t *testing.T, mux *http.ServeMux) *testEnv {
	t.Helper()

	key, err := cryptox.GenerateES256Key()
	require.NoError(t, err)
	cert, err := cryptox.SelfSignedCertificatePEM(key, "casdoor", time.Hour)
	require.NoError(t, err)
	signer, err := jwtx.NewSigner(jwtx.ES256, "cert-built-in", key)
	require.NoError(t, err)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	configFile := filepath.Join(dir, "casdoor.toml")
	config := fmt.Sprintf(`endpoint = %q
client_id = %q
client_secret = "client-secret"
org_name = "built-in"
app_name = "app-built-in"
certificate = """
%s"""
`, server.URL, testClientID, cert)
	require.NoError(t, os.WriteFile(configFile, []byte(config), 0o600))

	t.Setenv(testMasterKey, "test master key")

	return &testEnv{
		t:      t,
		server: server,
		signer: signer,
		cfg: Config{
			ConfigFile:      configFile,
			Profile:         "default",
			DatabaseFile:    filepath.Join(dir, "casdoorctl.db"),
			MasterKeyEnv:    testMasterKey,
			CallbackTimeout: 5 * time.Second,
			RequestTimeout:  5 * time.Second,
			Env:             "test",
			LogLevel:        "error",
			LogFormat:       "text",
		},
	}
}

// run executes the command tree with args and returns stdout.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()

	c := &cli{cfg: e.cfg}
	root := newRootCmd(c)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	if c.app != nil {
		require.NoError(e.t, c.app.Close())
	}
	return stdout.String(), err
}

func (e *testEnv) signToken(subject string, ttl time.Duration) string {
	e.t.Helper()

	tok, err := e.signer.Sign(&casdoor.Claims{
		User:             casdoor.User{Owner: "built-in", Name: "alice", ID: subject},
		TokenType:        "access-token",
		Scope:            "read",
		RegisteredClaims: jwtx.NewRegisteredClaims(subject, e.server.URL, []string{testClientID}, ttl, time.Now()),
	})
	require.NoError(e.t, err)
	return tok
}

func writeEnvelope(w http.ResponseWriter, data any, data2 any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"msg":    "",
		"data":   data,
		"data2":  data2,
	})
}

func writeTokenResponse(w http.ResponseWriter, access, refresh string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "Bearer",
		"expires_in":    3600,
		"scope":         "read",
	})
}
