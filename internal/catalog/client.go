package catalog

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const redirectURI = "http://localhost:8080/callback"

// Client wraps the Spotify Web API client. All fetches go through a shared
// rate limiter so pagination loops can't hammer the API.
type Client struct {
	api     *spotify.Client
	limiter *rate.Limiter
}

func newClient(api *spotify.Client) *Client {
	return &Client{
		api:     api,
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
}

// New returns a client authenticated with the client-credentials flow, which
// can only read public data.
func New(ctx context.Context, clientID, clientSecret string) (*Client, error) {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting client-credentials token: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return newClient(spotify.New(httpClient)), nil
}

// NewAuthenticated runs the OAuth authorization-code flow, which is required
// for the user-top-read data behind --self. It starts a throwaway HTTP server
// on localhost for the callback and blocks until the user approves in a
// browser.
func NewAuthenticated(ctx context.Context, clientID, clientSecret string) (*Client, error) {
	auth := spotifyauth.New(
		spotifyauth.WithClientID(clientID),
		spotifyauth.WithClientSecret(clientSecret),
		spotifyauth.WithRedirectURL(redirectURI),
		spotifyauth.WithScopes(spotifyauth.ScopeUserTopRead),
	)

	state, err := randomState()
	if err != nil {
		return nil, err
	}

	clients := make(chan *spotify.Client, 1)
	errs := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.Token(r.Context(), state, r)
		if err != nil {
			http.Error(w, "Couldn't get token", http.StatusForbidden)
			errs <- fmt.Errorf("completing auth: %w", err)
			return
		}
		fmt.Fprintln(w, "Login complete. You can close this window.")
		clients <- spotify.New(auth.Client(r.Context(), token))
	})

	server := &http.Server{Addr: ":8080", Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("starting callback server: %w", err)
		}
	}()
	defer server.Shutdown(context.Background())

	fmt.Println("Please log in to Spotify by visiting the following page in your browser:")
	fmt.Println(auth.AuthURL(state))

	select {
	case api := <-clients:
		return newClient(api), nil
	case err := <-errs:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// fetchPage runs one API call with rate limiting and retries on transient
// server errors.
func (c *Client) fetchPage(ctx context.Context, fetch func() error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return retry.Do(
		fetch,
		retry.Attempts(3),
		retry.RetryIf(func(err error) bool {
			var serr spotify.Error
			if errors.As(err, &serr) {
				return serr.Status >= 500 || serr.Status == http.StatusTooManyRequests
			}
			return false
		}),
	)
}
