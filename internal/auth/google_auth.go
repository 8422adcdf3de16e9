package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"quiz-forms/internal/config"
	"quiz-forms/internal/domain"
)

const callbackTimeout = 5 * time.Minute

// PromptFunc shows the consent URL to the user.
type PromptFunc func(authURL string)

// Authenticator produces an authorized HTTP client for a desktop OAuth
// client. A cached token is reused; otherwise a loopback consent flow runs
// and the resulting token is cached next to the client secrets.
type Authenticator struct {
	cfg    config.AuthConfig
	prompt PromptFunc
	logger *zap.Logger
}

func NewAuthenticator(cfg config.AuthConfig, logger *zap.Logger) *Authenticator {
	a := &Authenticator{cfg: cfg, logger: logger}
	a.prompt = func(authURL string) {
		a.logger.Info("Open the following URL in a browser to authorize access", zap.String("url", authURL))
	}
	return a
}

// WithPrompt replaces how the consent URL is presented.
func (a *Authenticator) WithPrompt(fn PromptFunc) *Authenticator {
	a.prompt = fn
	return a
}

// OAuthConfig reads the client secrets file. A missing file is an AUTH_ERROR.
func (a *Authenticator) OAuthConfig() (*oauth2.Config, error) {
	path := a.cfg.ClientSecretsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewAuthError(fmt.Sprintf("Google client key file does not exist on path: %s", path), err)
		}
		return nil, domain.NewAuthError("failed to read client secrets", err)
	}

	oauthCfg, err := google.ConfigFromJSON(data, a.cfg.Scopes...)
	if err != nil {
		return nil, domain.NewAuthError("invalid client secrets file", err)
	}
	return oauthCfg, nil
}

// Client returns an HTTP client that refreshes its token automatically and
// keeps the token file current.
func (a *Authenticator) Client(ctx context.Context) (*http.Client, error) {
	a.logger.Debug("Getting Google auth client")

	oauthCfg, err := a.OAuthConfig()
	if err != nil {
		return nil, err
	}

	tok, err := a.loadToken()
	if err != nil {
		a.logger.Info("No cached token, starting consent flow", zap.String("token_file", a.cfg.TokenPath()))
		tok, err = a.consent(ctx, oauthCfg)
		if err != nil {
			return nil, domain.NewAuthError("failed to get the Google OAuth2 client", err)
		}
		if err := a.saveToken(tok); err != nil {
			a.logger.Warn("Failed to cache OAuth token", zap.Error(err))
		}
	}

	ts := &savingTokenSource{
		base:   oauthCfg.TokenSource(ctx, tok),
		last:   tok.AccessToken,
		save:   a.saveToken,
		logger: a.logger,
	}
	return oauth2.NewClient(ctx, ts), nil
}

// savingTokenSource writes every newly issued token back to the token file,
// so the next run starts from the refreshed token.
type savingTokenSource struct {
	base   oauth2.TokenSource
	save   func(*oauth2.Token) error
	logger *zap.Logger

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.save(tok); err != nil {
			s.logger.Warn("Failed to cache refreshed OAuth token", zap.Error(err))
		} else {
			s.logger.Debug("Cached refreshed OAuth token")
		}
	}
	return tok, nil
}

func (a *Authenticator) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(a.cfg.TokenPath())
	if err != nil {
		return nil, err
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(data, tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if tok.RefreshToken == "" && !tok.Valid() {
		return nil, errors.New("cached token expired and cannot be refreshed")
	}
	return tok, nil
}

func (a *Authenticator) saveToken(tok *oauth2.Token) error {
	path := a.cfg.TokenPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// consent runs the installed-app flow with PKCE on a loopback redirect.
func (a *Authenticator) consent(ctx context.Context, oauthCfg *oauth2.Config) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen for oauth callback: %w", err)
	}
	defer listener.Close()

	flowCfg := *oauthCfg
	flowCfg.RedirectURL = "http://" + listener.Addr().String()

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	type result struct {
		code string
		err  error
	}
	results := make(chan result, 1)

	srv := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			var res result
			switch {
			case q.Get("state") != state:
				res.err = errors.New("oauth callback state mismatch")
			case q.Get("error") != "":
				res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
			case q.Get("code") == "":
				res.err = errors.New("oauth callback without code")
			default:
				res.code = q.Get("code")
			}
			if res.err != nil {
				http.Error(w, res.err.Error(), http.StatusBadRequest)
			} else {
				_, _ = w.Write([]byte("Authentication complete. You can close this window."))
			}
			select {
			case results <- res:
			default:
			}
		}),
	}
	go func() { _ = srv.Serve(listener) }()
	defer srv.Close()

	a.prompt(flowCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier)))

	waitCtx, cancel := context.WithTimeout(ctx, callbackTimeout)
	defer cancel()

	select {
	case <-waitCtx.Done():
		return nil, fmt.Errorf("waiting for oauth callback: %w", waitCtx.Err())
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		tok, err := flowCfg.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
		if err != nil {
			return nil, fmt.Errorf("exchange oauth code: %w", err)
		}
		return tok, nil
	}
}
