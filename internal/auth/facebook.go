package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/liftmate/liftmate/pkg/httpclient"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

const defaultGraphURL = "https://graph.facebook.com/v19.0"

// FacebookConfig holds the app credentials. Endpoint and GraphURL default to Facebook's.
type FacebookConfig struct {
	AppID       string
	AppSecret   string
	RedirectURL string
	GraphURL    string
	Endpoint    oauth2.Endpoint
}

// Facebook logs visitors in with Facebook and keeps them in a signed cookie
type Facebook struct {
	cfg      FacebookConfig
	sessions *Sessions

	once  sync.Once
	oauth *oauth2.Config
}

// NewFacebook creates the Facebook provider
func NewFacebook(cfg FacebookConfig, sessions *Sessions) *Facebook {
	if cfg.GraphURL == "" {
		cfg.GraphURL = defaultGraphURL
	}
	if cfg.Endpoint.AuthURL == "" {
		cfg.Endpoint = facebook.Endpoint
	}
	return &Facebook{cfg: cfg, sessions: sessions}
}

// config builds the oauth2 config once
func (f *Facebook) config() *oauth2.Config {
	f.once.Do(func() {
		f.oauth = &oauth2.Config{
			ClientID:     f.cfg.AppID,
			ClientSecret: f.cfg.AppSecret,
			RedirectURL:  f.cfg.RedirectURL,
			Scopes:       []string{"public_profile", "email"},
			Endpoint:     f.cfg.Endpoint,
		}
	})
	return f.oauth
}

// Session returns the user in the session cookie
func (f *Facebook) Session(r *http.Request) (*User, bool) {
	return f.sessions.Read(r)
}

// LoginURL is the Facebook consent page
func (f *Facebook) LoginURL(state string) string {
	return f.config().AuthCodeURL(state)
}

type graphMe struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

// Complete exchanges code for a token and loads the profile from the Graph API
func (f *Facebook) Complete(ctx context.Context, code string) (*User, error) {
	cfg := f.config()
	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	client := httpclient.NewClient(f.cfg.GraphURL).With(
		httpclient.WithHTTPClient(cfg.Client(ctx, token)),
		httpclient.WithDefaultRetry(),
	)
	body, err := client.Get(ctx, "/me?fields=id,name,email,picture", nil)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	var me graphMe
	if err := json.Unmarshal(body, &me); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if me.ID == "" {
		return nil, fmt.Errorf("profile has no id")
	}

	return &User{
		ID:      me.ID,
		Name:    me.Name,
		Email:   me.Email,
		Picture: me.Picture.Data.URL,
	}, nil
}

// Logout clears the session cookie
func (f *Facebook) Logout(w http.ResponseWriter) {
	f.sessions.Clear(w)
}

// StartSession issues the session cookie after a successful Complete
func (f *Facebook) StartSession(w http.ResponseWriter, user *User) error {
	return f.sessions.Issue(w, user)
}
