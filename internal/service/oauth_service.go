package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lingodocs-be/internal/config"
	"lingodocs-be/internal/entity"
	"lingodocs-be/internal/pkg/apperr"
	"lingodocs-be/internal/pkg/logger"
	"lingodocs-be/internal/pkg/serverutils"
	"lingodocs-be/internal/repository/specification"
	"lingodocs-be/internal/repository/unitofwork"
	"lingodocs-be/internal/session"
	"lingodocs-be/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type IOAuthService interface {
	ReplitLoginURL(host string) (string, string, error)
	HandleReplitCallback(ctx context.Context, host, code string) (*entity.User, string, error)
	GoogleEnabled() bool
	GoogleLoginURL() (string, string, error)
	HandleGoogleCallback(ctx context.Context, code string) (*entity.User, string, error)
	Refresh(ctx context.Context, p session.Principal) (session.Principal, error)
}

type oauthService struct {
	cfg        config.AuthConfig
	uowFactory unitofwork.RepositoryFactory
	store      session.Store
	activity   IActivityService
	publisher  EventPublisher
	googleConf *oauth2.Config
	logger     logger.ILogger
}

func NewOAuthService(
	cfg config.AuthConfig,
	baseURL string,
	uowFactory unitofwork.RepositoryFactory,
	store session.Store,
	activity IActivityService,
	publisher EventPublisher,
	log logger.ILogger,
) IOAuthService {
	var googleConf *oauth2.Config
	if cfg.GoogleEnabled() {
		googleConf = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  baseURL + "/api/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		}
	}

	return &oauthService{
		cfg:        cfg,
		uowFactory: uowFactory,
		store:      store,
		activity:   activity,
		publisher:  publisher,
		googleConf: googleConf,
		logger:     log,
	}
}

func newState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// replitConf builds the per-host OIDC config. The issuer hosts standard
// authorize/token endpoints; the redirect goes back to the requesting domain.
func (s *oauthService) replitConf(host string) (*oauth2.Config, error) {
	if s.cfg.ReplID == "" {
		return nil, apperr.Validation("OIDC provider is not configured")
	}
	allowed := false
	for _, domain := range s.cfg.ReplitDomains {
		if domain == host {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperr.Forbidden("Unknown callback domain")
	}
	return &oauth2.Config{
		ClientID:    s.cfg.ReplID,
		RedirectURL: "https://" + host + "/api/callback",
		Scopes:      []string{"openid", "email", "profile", "offline_access"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  s.cfg.IssuerURL + "/auth",
			TokenURL: s.cfg.IssuerURL + "/token",
		},
	}, nil
}

func (s *oauthService) ReplitLoginURL(host string) (string, string, error) {
	conf, err := s.replitConf(host)
	if err != nil {
		return "", "", err
	}
	state := newState()
	return conf.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "login consent")), state, nil
}

type oidcClaims struct {
	Sub             string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string
	ExpiresAt       *time.Time
}

// parseIDToken reads claims without signature verification. The token was
// just handed to us by the issuer over the code-exchange channel, which is
// what authenticates it.
func parseIDToken(raw string) (*oidcClaims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("parse id_token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected id_token claims type")
	}

	out := &oidcClaims{}
	out.Sub, _ = claims["sub"].(string)
	out.Email, _ = claims["email"].(string)
	out.FirstName, _ = claims["first_name"].(string)
	out.LastName, _ = claims["last_name"].(string)
	out.ProfileImageURL, _ = claims["profile_image_url"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = &exp.Time
	}
	if out.Sub == "" {
		return nil, fmt.Errorf("id_token missing sub claim")
	}
	return out, nil
}

func (s *oauthService) HandleReplitCallback(ctx context.Context, host, code string) (*entity.User, string, error) {
	conf, err := s.replitConf(host)
	if err != nil {
		return nil, "", err
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, "", apperr.Unauthorized("Code exchange failed")
	}

	rawID, _ := token.Extra("id_token").(string)
	if rawID == "" {
		return nil, "", apperr.Unauthorized("Missing id_token")
	}
	claims, err := parseIDToken(rawID)
	if err != nil {
		return nil, "", apperr.Unauthorized("Invalid id_token")
	}

	user, err := s.upsertReplitUser(ctx, claims)
	if err != nil {
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", apperr.Unauthorized("Tài khoản đã bị vô hiệu hóa")
	}

	tokenExpiry := token.Expiry
	principal := session.Principal{
		UserID:       user.Id,
		Role:         string(user.Role),
		Provider:     string(entity.AuthProviderReplit),
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !tokenExpiry.IsZero() {
		principal.TokenExpiresAt = &tokenExpiry
	} else if claims.ExpiresAt != nil {
		principal.TokenExpiresAt = claims.ExpiresAt
	}

	sid, err := s.openSession(ctx, user, principal)
	if err != nil {
		return nil, "", err
	}
	return user, sid, nil
}

// upsertReplitUser keeps one row per person: match by OIDC subject first,
// then by email (attaching the subject), then create.
func (s *oauthService) upsertReplitUser(ctx context.Context, claims *oidcClaims) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	userRepo := uow.UserRepository()

	user, err := userRepo.FindOne(ctx, specification.ByOidcSub{Sub: claims.Sub})
	if err != nil {
		return nil, err
	}

	if user == nil && claims.Email != "" {
		user, err = userRepo.FindOne(ctx, specification.ByEmail{Email: claims.Email})
		if err != nil {
			return nil, err
		}
	}

	if user == nil {
		user = &entity.User{
			Id:           uuid.New(),
			Email:        claims.Email,
			FirstName:    claims.FirstName,
			LastName:     claims.LastName,
			Role:         entity.UserRoleUser,
			IsActive:     true,
			AuthProvider: entity.AuthProviderReplit,
			OidcSub:      &claims.Sub,
		}
		if claims.ProfileImageURL != "" {
			user.ProfileImageURL = &claims.ProfileImageURL
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	user.OidcSub = &claims.Sub
	if claims.FirstName != "" {
		user.FirstName = claims.FirstName
	}
	if claims.LastName != "" {
		user.LastName = claims.LastName
	}
	if claims.ProfileImageURL != "" {
		user.ProfileImageURL = &claims.ProfileImageURL
	}
	if err := userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Refresh renews an expired Replit token set using the stored refresh token.
func (s *oauthService) Refresh(ctx context.Context, p session.Principal) (session.Principal, error) {
	if p.RefreshToken == "" {
		return p, fmt.Errorf("no refresh token")
	}
	conf := &oauth2.Config{
		ClientID: s.cfg.ReplID,
		Endpoint: oauth2.Endpoint{
			AuthURL:  s.cfg.IssuerURL + "/auth",
			TokenURL: s.cfg.IssuerURL + "/token",
		},
	}
	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: p.RefreshToken})
	token, err := ts.Token()
	if err != nil {
		return p, err
	}

	p.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		p.RefreshToken = token.RefreshToken
	}
	expiry := token.Expiry
	if !expiry.IsZero() {
		p.TokenExpiresAt = &expiry
	}
	return p, nil
}

func (s *oauthService) GoogleEnabled() bool {
	return s.googleConf != nil
}

func (s *oauthService) GoogleLoginURL() (string, string, error) {
	if s.googleConf == nil {
		return "", "", apperr.NotFound("Google login is not enabled")
	}
	state := newState()
	return s.googleConf.AuthCodeURL(state), state, nil
}

type googleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Given   string `json:"given_name"`
	Family  string `json:"family_name"`
	Picture string `json:"picture"`
}

func (s *oauthService) HandleGoogleCallback(ctx context.Context, code string) (*entity.User, string, error) {
	if s.googleConf == nil {
		return nil, "", apperr.NotFound("Google login is not enabled")
	}

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		return nil, "", apperr.Unauthorized("Code exchange failed")
	}

	client := s.googleConf.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, "", fmt.Errorf("fetch google profile: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("google userinfo returned %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, "", err
	}
	if profile.ID == "" {
		return nil, "", apperr.Unauthorized("Google profile missing id")
	}

	user, err := s.upsertGoogleUser(ctx, &profile)
	if err != nil {
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", apperr.Unauthorized("Tài khoản đã bị vô hiệu hóa")
	}

	principal := session.Principal{
		UserID:   user.Id,
		Role:     string(user.Role),
		Provider: string(entity.AuthProviderGoogle),
	}
	sid, err := s.openSession(ctx, user, principal)
	if err != nil {
		return nil, "", err
	}
	return user, sid, nil
}

// upsertGoogleUser resolves three ways: existing google id wins, then email
// match attaches the id, otherwise a fresh row. Re-running with the same
// profile can never produce a second row for that google id.
func (s *oauthService) upsertGoogleUser(ctx context.Context, profile *googleProfile) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	userRepo := uow.UserRepository()

	user, err := userRepo.FindOne(ctx, specification.ByGoogleId{GoogleId: profile.ID})
	if err != nil {
		return nil, err
	}

	if user == nil && profile.Email != "" {
		user, err = userRepo.FindOne(ctx, specification.ByEmail{Email: profile.Email})
		if err != nil {
			return nil, err
		}
	}

	if user == nil {
		user = &entity.User{
			Id:           uuid.New(),
			Email:        profile.Email,
			FirstName:    profile.Given,
			LastName:     profile.Family,
			Role:         entity.UserRoleUser,
			IsActive:     true,
			AuthProvider: entity.AuthProviderGoogle,
			GoogleId:     &profile.ID,
		}
		if profile.Picture != "" {
			user.ProfileImageURL = &profile.Picture
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	user.GoogleId = &profile.ID
	if profile.Picture != "" {
		user.ProfileImageURL = &profile.Picture
	}
	if err := userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// openSession stamps last login, persists the session, and emits the login
// trail shared by every provider.
func (s *oauthService) openSession(ctx context.Context, user *entity.User, principal session.Principal) (string, error) {
	now := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UserRepository().UpdateLastLogin(ctx, user.Id, now); err != nil {
		return "", err
	}
	user.LastLoginAt = &now

	sid := serverutils.NewSid()
	sess := &session.Session{
		Sid:       sid,
		Principal: principal,
		ExpiresAt: now.Add(session.TTL),
	}
	if err := s.store.Set(ctx, sess); err != nil {
		return "", err
	}

	s.activity.Track(ctx, &user.Id, ActivityLogin, "User logged in via "+principal.Provider, nil, "", "")
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.New(events.TypeUserLogin, map[string]interface{}{
			"user_id":  user.Id.String(),
			"email":    user.Email,
			"provider": principal.Provider,
		})); err != nil {
			s.logger.Warn("oauth", "failed to publish login event", map[string]interface{}{"error": err.Error()})
		}
	}
	return sid, nil
}
