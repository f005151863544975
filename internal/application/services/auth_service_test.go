package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskflow/core/internal/domain/entities"
	"github.com/taskflow/core/internal/ports"
)

func register(t *testing.T, e *env, email, username string) *ports.AuthResponse {
	t.Helper()
	resp, err := e.auth.Register(e.ctx, ports.RegisterRequest{
		Email:    email,
		Username: username,
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)

	resp := register(t, e, " Alice@Example.com ", "alice")
	if resp.User.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", resp.User.Email)
	}
	if resp.TokenType != "Bearer" || resp.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Errorf("unexpected token metadata %s %d", resp.TokenType, resp.ExpiresIn)
	}

	claims, err := e.auth.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != resp.User.ID || claims.Username != "alice" || claims.IsSuperuser {
		t.Errorf("unexpected claims %+v", claims)
	}

	login, err := e.auth.Login(e.ctx, ports.LoginRequest{Email: "ALICE@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.ID != resp.User.ID {
		t.Errorf("logged in as %s, expected %s", login.User.ID, resp.User.ID)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	e := newEnv(t)
	register(t, e, "alice@example.com", "alice")

	_, err := e.auth.Register(e.ctx, ports.RegisterRequest{Email: "alice@example.com", Username: "other", Password: "correct-horse"})
	expectKind(t, err, entities.ErrEmailTaken)

	_, err = e.auth.Register(e.ctx, ports.RegisterRequest{Email: "other@example.com", Username: "alice", Password: "correct-horse"})
	expectKind(t, err, entities.ErrUsernameTaken)
}

func TestLoginFailures(t *testing.T) {
	e := newEnv(t)
	register(t, e, "alice@example.com", "alice")

	_, err := e.auth.Login(e.ctx, ports.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	expectKind(t, err, entities.ErrInvalidCredentials)

	_, err = e.auth.Login(e.ctx, ports.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	expectKind(t, err, entities.ErrInvalidCredentials)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	e := newEnv(t)
	resp := register(t, e, "alice@example.com", "alice")

	user, err := e.users.GetByID(e.ctx, resp.User.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	user.IsActive = false
	if err := e.users.Update(e.ctx, user); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err = e.auth.Login(e.ctx, ports.LoginRequest{Email: "alice@example.com", Password: "correct-horse"})
	expectKind(t, err, entities.ErrAccountInactive)
}

func TestRefreshRotatesToken(t *testing.T) {
	e := newEnv(t)
	resp := register(t, e, "alice@example.com", "alice")

	rotated, err := e.auth.RefreshToken(e.ctx, resp.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.RefreshToken == resp.RefreshToken {
		t.Error("expected a new refresh token")
	}

	_, err = e.auth.RefreshToken(e.ctx, resp.RefreshToken)
	expectKind(t, err, entities.ErrInvalidToken)

	_, err = e.auth.RefreshToken(e.ctx, "never-issued")
	expectKind(t, err, entities.ErrInvalidToken)
}

// revokeFailingStore refuses to revoke single refresh tokens
type revokeFailingStore struct {
	ports.AuthRepository
}

func (revokeFailingStore) RevokeRefreshToken(context.Context, string) error {
	return errors.New("store unavailable")
}

func TestRefreshFailsWhenOldTokenCannotBeRevoked(t *testing.T) {
	e := newEnv(t)
	resp := register(t, e, "alice@example.com", "alice")

	broken := *e.auth
	broken.authRepo = revokeFailingStore{AuthRepository: e.auth.authRepo}

	rotated, err := broken.RefreshToken(e.ctx, resp.RefreshToken)
	if err == nil {
		t.Fatalf("expected refresh to fail, got %+v", rotated)
	}
	if errors.Is(err, entities.ErrUnauthorized) {
		t.Errorf("expected an infrastructure error, got %v", err)
	}

	// once the store recovers the same token rotates normally
	if _, err := e.auth.RefreshToken(e.ctx, resp.RefreshToken); err != nil {
		t.Fatalf("refresh after recovery: %v", err)
	}
	_, err = e.auth.RefreshToken(e.ctx, resp.RefreshToken)
	expectKind(t, err, entities.ErrInvalidToken)
}

func TestRefreshTokenExpires(t *testing.T) {
	e := newEnv(t)
	resp := register(t, e, "alice@example.com", "alice")

	e.advance(25 * time.Hour)
	_, err := e.auth.RefreshToken(e.ctx, resp.RefreshToken)
	expectKind(t, err, entities.ErrInvalidToken)
}

func TestLogoutRevokesRefreshTokens(t *testing.T) {
	e := newEnv(t)
	resp := register(t, e, "alice@example.com", "alice")

	if err := e.auth.Logout(e.ctx, resp.User.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	_, err := e.auth.RefreshToken(e.ctx, resp.RefreshToken)
	expectKind(t, err, entities.ErrUnauthorized)
}

func TestValidateTokenRejects(t *testing.T) {
	e := newEnv(t)
	resp := register(t, e, "alice@example.com", "alice")

	_, err := e.auth.ValidateToken("not-a-jwt")
	expectKind(t, err, entities.ErrInvalidToken)

	cfg := e.auth.jwtConfig
	cfg.Secret = "another-secret"
	other := NewAuthService(e.users, nil, cfg, e.auth.logger)
	other.now = e.auth.now
	_, err = other.ValidateToken(resp.AccessToken)
	expectKind(t, err, entities.ErrInvalidToken)

	cfg = e.auth.jwtConfig
	cfg.Issuer = "someone-else"
	foreign := NewAuthService(e.users, nil, cfg, e.auth.logger)
	foreign.now = e.auth.now
	_, err = foreign.ValidateToken(resp.AccessToken)
	expectKind(t, err, entities.ErrInvalidToken)

	e.advance(16 * time.Minute)
	_, err = e.auth.ValidateToken(resp.AccessToken)
	expectKind(t, err, entities.ErrInvalidToken)
}

func TestCreateSuperuser(t *testing.T) {
	e := newEnv(t)

	user, err := e.profiles.CreateUser(e.ctx, ports.RegisterRequest{
		Email:    "root@example.com",
		Username: "root",
		Password: "correct-horse",
	}, true)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if !user.IsSuperuser || !user.IsActive {
		t.Errorf("expected active superuser, got %+v", user)
	}

	login, err := e.auth.Login(e.ctx, ports.LoginRequest{Email: "root@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := e.auth.ValidateToken(login.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !claims.IsSuperuser {
		t.Error("expected superuser claim")
	}
}

func TestUpdateProfile(t *testing.T) {
	e := newEnv(t)
	u := e.actor("u")

	user, err := e.profiles.UpdateProfile(e.ctx, u.UserID, ports.UpdateProfileRequest{FirstName: ptr("Ada")})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if user.FirstName == nil || *user.FirstName != "Ada" || user.LastName != nil {
		t.Errorf("unexpected profile %+v", user)
	}
}
