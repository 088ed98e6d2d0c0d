package views

import (
	"context"
	"sync"

	"github.com/keerthikaa27/factory-order-dashboard/api"
	"github.com/keerthikaa27/factory-order-dashboard/credential"
)

const (
	LoginPath = "/login"
	RootPath  = "/"
)

// Shell is the layout around every protected view: the login gate, logout,
// the 401 policy and the mobile navigation drawer.
type Shell struct {
	creds       credential.Store
	forceLogout bool

	mu         sync.Mutex
	drawerOpen bool
}

func NewShell(creds credential.Store, forceLogoutOnUnauthorized bool) *Shell {
	return &Shell{creds: creds, forceLogout: forceLogoutOnUnauthorized}
}

// Check returns LoginPath when no credential is held, "" otherwise.
func (s *Shell) Check(ctx context.Context) string {
	if !credential.HasValid(ctx, s.creds) {
		return LoginPath
	}
	return ""
}

// Logout clears the credential and returns where to go next.
func (s *Shell) Logout(ctx context.Context) string {
	s.creds.Clear(ctx)
	s.CloseDrawer()
	return LoginPath
}

// Guard applies the 401 policy to a finished call. It returns LoginPath when
// the credential was dropped, "" when the caller should carry on.
func (s *Shell) Guard(ctx context.Context, f api.Failure) string {
	if !s.forceLogout || f == nil || f.OK() || !f.Unauthorized() {
		return ""
	}
	return s.Logout(ctx)
}

func (s *Shell) OpenDrawer() {
	s.mu.Lock()
	s.drawerOpen = true
	s.mu.Unlock()
}

func (s *Shell) CloseDrawer() {
	s.mu.Lock()
	s.drawerOpen = false
	s.mu.Unlock()
}

func (s *Shell) DrawerOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawerOpen
}

// GoToTab closes the drawer and returns the tab's address.
func (s *Shell) GoToTab(t Tab) string {
	s.CloseDrawer()
	return TabURL(t)
}

// GoHome closes the drawer and returns the landing address.
func (s *Shell) GoHome() string {
	s.CloseDrawer()
	return RootPath
}
