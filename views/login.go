package views

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/keerthikaa27/factory-order-dashboard/api"
	"github.com/keerthikaa27/factory-order-dashboard/credential"
)

const loginFailed = "Login failed"

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
}

type LoginState struct {
	Email    string
	Password string
	Loading  bool
	Error    string // empty when there is nothing to show
}

type Login struct {
	client Authenticator
	creds  credential.Store
	logger *zap.Logger

	mu    sync.Mutex
	state LoginState
}

func NewLogin(client Authenticator, creds credential.Store, logger *zap.Logger) *Login {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Login{client: client, creds: creds, logger: logger}
}

func (l *Login) State() LoginState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Submit posts the credential pair once. On success the token is stored and
// RootPath is returned; on failure the error is kept in State and "" is
// returned. Loading is cleared on both paths.
func (l *Login) Submit(ctx context.Context, email, password string) string {
	l.mu.Lock()
	l.state = LoginState{Email: strings.TrimSpace(email), Password: password, Loading: true}
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.state.Loading = false
		l.state.Password = ""
		l.mu.Unlock()
	}()

	res := api.Call(func() (*api.LoginResponse, error) {
		return l.client.Login(ctx, strings.TrimSpace(email), password)
	})
	if !res.OK() {
		l.logger.Info("login failed", zap.String("email", strings.TrimSpace(email)), zap.Error(res.Err))
		msg := api.Detail(res.Err)
		if msg == "" {
			msg = loginFailed
		}
		l.mu.Lock()
		l.state.Error = msg
		l.mu.Unlock()
		return ""
	}

	l.creds.Set(ctx, res.Value.AccessToken)
	l.logger.Info("login succeeded", zap.String("email", strings.TrimSpace(email)))
	return RootPath
}
