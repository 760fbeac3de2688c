package setup

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"spotii/internal/config"
	"spotii/internal/output"
	"spotii/internal/storage"
)

var ErrNotLoggedIn = errors.New("not logged in to spotify")

var scopes = []string{
	spotifyauth.ScopeUserReadEmail,
	spotifyauth.ScopePlaylistModifyPublic,
	spotifyauth.ScopePlaylistModifyPrivate,
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
	spotifyauth.ScopeUserReadCurrentlyPlaying,
	spotifyauth.ScopeUserModifyPlaybackState,
}

// openBrowser is swapped out in tests.
var openBrowser = OpenBrowser

func authenticator(cfg config.SpotifyConfig) *spotifyauth.Authenticator {
	return spotifyauth.New(
		spotifyauth.WithRedirectURL(cfg.RedirectURL),
		spotifyauth.WithScopes(scopes...),
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
	)
}

func oauthConfig(cfg config.SpotifyConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyauth.AuthURL,
			TokenURL: spotifyauth.TokenURL,
		},
	}
}

// Login runs the authorization code flow: it serves the redirect URL
// locally, sends the user to Spotify and stores the token it gets back.
func Login(ctx context.Context, out *output.Output, cfg config.SpotifyConfig, tokens *storage.TokenStore) error {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return errors.New("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set")
	}
	redirect, err := url.Parse(cfg.RedirectURL)
	if err != nil {
		return fmt.Errorf("invalid redirect url: %w", err)
	}

	auth := authenticator(cfg)
	state := uuid.NewString()
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.Handle(redirect.Path, callbackHandler(auth, state, results))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	ln, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return fmt.Errorf("listen for spotify callback: %w", err)
	}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := auth.AuthURL(state)
	out.Info("Log in to Spotify by visiting this page in your browser:")
	out.Print("  " + authURL)
	if err := openBrowser(authURL); err != nil {
		out.Debug("could not open browser: " + err.Error())
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-results:
		if res.err != nil {
			return res.err
		}
		if err := tokens.Save(res.token); err != nil {
			return fmt.Errorf("save spotify token: %w", err)
		}
		out.Success("Logged in to Spotify. Token saved to " + tokens.Path())
		return nil
	}
}

type callbackResult struct {
	token *oauth2.Token
	err   error
}

func callbackHandler(auth *spotifyauth.Authenticator, state string, results chan<- callbackResult) http.Handler {
	var once sync.Once
	send := func(res callbackResult) {
		once.Do(func() { results <- res })
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reason := r.FormValue("error"); reason != "" {
			http.Error(w, "Login was not completed: "+reason, http.StatusForbidden)
			send(callbackResult{err: fmt.Errorf("spotify login denied: %s", reason)})
			return
		}
		if r.FormValue("state") != state {
			http.NotFound(w, r)
			send(callbackResult{err: errors.New("spotify login state mismatch")})
			return
		}
		tok, err := auth.Token(r.Context(), state, r)
		if err != nil {
			http.Error(w, "Couldn't get token", http.StatusForbidden)
			send(callbackResult{err: fmt.Errorf("exchange spotify code: %w", err)})
			return
		}
		fmt.Fprint(w, "Login Completed! You can now close this window.")
		send(callbackResult{token: tok})
	})
}

// HTTPClient returns a client that authenticates Spotify API calls, using
// the configured access token if there is one and the stored login
// otherwise. Refreshed tokens are written back to the store.
func HTTPClient(ctx context.Context, cfg config.SpotifyConfig, tokens *storage.TokenStore) (*http.Client, error) {
	if cfg.AccessToken != "" {
		return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"})), nil
	}
	tok, err := tokens.Load()
	if errors.Is(err, storage.ErrNoToken) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, err
	}
	src := oauthConfig(cfg).TokenSource(ctx, tok)
	return oauth2.NewClient(ctx, &savingTokenSource{src: src, store: tokens, last: tok.AccessToken}), nil
}

type savingTokenSource struct {
	mu    sync.Mutex
	src   oauth2.TokenSource
	store *storage.TokenStore
	last  string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		_ = s.store.Save(tok)
	}
	return tok, nil
}

// OpenBrowser opens url in the user's default browser.
func OpenBrowser(url string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
}

func PrintInstructions(out *output.Output) {
	out.Error("Not logged in to Spotify")
	out.Print("Create an app at https://developer.spotify.com/dashboard with the redirect URI")
	out.Print("  " + config.DefaultRedirectURL)
	out.Print("then set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET and run:")
	out.Print("  spotii login")
	out.Print("Or set SPOTIFY_ACCESS_TOKEN to use an existing token.")
}
