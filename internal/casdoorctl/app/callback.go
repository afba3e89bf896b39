package app

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/aussiebroadwan/casdoor/pkg/cryptox"
	"github.com/aussiebroadwan/casdoor/pkg/httpx"
	"github.com/aussiebroadwan/casdoor/pkg/slogx"
)

var (
	ErrCallbackTimeout     = errors.New("timed out waiting for the login callback")
	ErrInvalidState        = errors.New("invalid state parameter")
	ErrMissingCode         = errors.New("missing authorization code")
	ErrAuthorizationDenied = errors.New("authorization denied")
)

type callbackResult struct {
	code string
	err  error
}

// withState replaces the state parameter of a Casdoor login URL.
func withState(loginURL, state string) (string, error) {
	u, err := url.Parse(loginURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// callbackHandler accepts the authorization response on path and reports the
// first one on results. Later requests still get a page but are dropped.
func callbackHandler(path, state string, results chan<- callbackResult) http.Handler {
	if path == "" {
		path = "/"
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var res callbackResult
		switch {
		case q.Get("error") != "":
			res.err = fmt.Errorf("%w: %s - %s", ErrAuthorizationDenied, q.Get("error"), q.Get("error_description"))
		case !cryptox.TokensEqual(q.Get("state"), state):
			res.err = ErrInvalidState
		case q.Get("code") == "":
			res.err = ErrMissingCode
		default:
			res.code = q.Get("code")
		}

		setSecurityHeaders(w)
		if res.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = fmt.Fprintf(w, failurePage, html.EscapeString(res.err.Error()))
		} else {
			w.WriteHeader(http.StatusOK)
			_, _ = fmt.Fprint(w, successPage)
		}

		select {
		case results <- res:
		default:
		}
	})
	return mux
}

// serveCallback serves the redirect target on ln until one authorization
// response arrives, timeout passes, or ctx is done. It returns the code.
func serveCallback(
	ctx context.Context,
	ln net.Listener,
	path, state string,
	timeout time.Duration,
	logger *slog.Logger,
) (string, error) {
	results := make(chan callbackResult, 1)
	serveErr := make(chan error, 1)

	srv := &http.Server{
		Handler: httpx.Chain(
			callbackHandler(path, state, results),
			slogx.HTTPMiddleware(logger),
			httpx.RateLimitByIP(httpx.CallbackLimit),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("login callback server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to shut down login callback server", "error", err)
		}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-results:
		return res.code, res.err
	case err := <-serveErr:
		return "", fmt.Errorf("login callback server failed: %w", err)
	case <-timer.C:
		return "", ErrCallbackTimeout
	case <-ctx.Done():
		return "", fmt.Errorf("login cancelled: %w", ctx.Err())
	}
}

func setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
}

const successPage = `<!DOCTYPE html>
<html><head><title>casdoorctl</title></head>
<body style="font-family: sans-serif; margin: 4em;">
<h2>Signed in</h2>
<p>You can close this window and return to the terminal.</p>
</body></html>
`

const failurePage = `<!DOCTYPE html>
<html><head><title>casdoorctl</title></head>
<body style="font-family: sans-serif; margin: 4em;">
<h2>Sign-in failed</h2>
<p>%s</p>
</body></html>
`
