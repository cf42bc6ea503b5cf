// Package access decides which admin tabs a session may see.
package access

import (
	"context"
	"slices"
	"time"

	"contractor_site/internal/domain/models"

	"github.com/google/uuid"
)

type Tab string

const (
	TabOverview Tab = "overview"
	TabGallery  Tab = "gallery"
	TabBlog     Tab = "blog"
	TabLeads    Tab = "leads"
	TabUsers    Tab = "users"
)

// AllTabs returns every tab in display order.
func AllTabs() []Tab {
	return []Tab{TabOverview, TabGallery, TabBlog, TabLeads, TabUsers}
}

var roleTabs = map[models.Role][]Tab{
	models.RoleAdmin: AllTabs(),
	models.RoleSales: {TabOverview, TabLeads},
	models.RoleUser:  nil,
}

// TabsFor is the union of tabs granted by roles, in display order.
func TabsFor(roles []models.Role) []Tab {
	granted := make(map[Tab]bool)
	for _, r := range roles {
		for _, t := range roleTabs[r] {
			granted[t] = true
		}
	}

	tabs := make([]Tab, 0, len(granted))
	for _, t := range AllTabs() {
		if granted[t] {
			tabs = append(tabs, t)
		}
	}
	return tabs
}

func Can(roles []models.Role, tab Tab) bool {
	for _, r := range roles {
		if slices.Contains(roleTabs[r], tab) {
			return true
		}
	}
	return false
}

// Session is the signed-in identity carried through a request. Roles are
// captured once when the session is established.
type Session struct {
	UserID    uuid.UUID     `json:"user_id"`
	Email     string        `json:"email,omitempty"`
	Roles     []models.Role `json:"roles"`
	ExpiresAt time.Time     `json:"expires_at"`
}

func (s *Session) Can(tab Tab) bool {
	return s != nil && Can(s.Roles, tab)
}

func (s *Session) Tabs() []Tab {
	if s == nil {
		return nil
	}
	return TabsFor(s.Roles)
}

func (s *Session) HasRole(role models.Role) bool {
	return s != nil && slices.Contains(s.Roles, role)
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session stored by WithSession, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

type ShellState string

const (
	StateCheckingSession ShellState = "checking_session"
	StateRedirectSignIn  ShellState = "redirect_sign_in"
	StateCheckingRole    ShellState = "checking_role"
	StateAccessDenied    ShellState = "access_denied"
	StateAuthorized      ShellState = "authorized"
)

const (
	SignInPath = "/signin"
	HomePath   = "/"
)

// Shell walks checking_session -> checking_role -> authorized, branching to
// redirect_sign_in when there is no session and access_denied when the
// session's roles grant no tab. Tabs are empty in every state but authorized.
type Shell struct {
	state   ShellState
	session *Session
	tabs    []Tab
}

func NewShell() *Shell {
	return &Shell{state: StateCheckingSession}
}

// SessionResolved records the outcome of the session lookup.
func (sh *Shell) SessionResolved(s *Session) {
	if sh.state != StateCheckingSession {
		return
	}
	if s == nil || s.UserID == uuid.Nil {
		sh.state = StateRedirectSignIn
		return
	}
	sh.session = s
	sh.state = StateCheckingRole
}

// RolesResolved records the roles loaded for the session.
func (sh *Shell) RolesResolved(roles []models.Role) {
	if sh.state != StateCheckingRole {
		return
	}
	sh.session.Roles = roles
	tabs := TabsFor(roles)
	if len(tabs) == 0 {
		sh.state = StateAccessDenied
		return
	}
	sh.tabs = tabs
	sh.state = StateAuthorized
}

func (sh *Shell) State() ShellState { return sh.state }

func (sh *Shell) Session() *Session {
	if sh.state != StateAuthorized {
		return nil
	}
	return sh.session
}

func (sh *Shell) Tabs() []Tab {
	if sh.state != StateAuthorized {
		return nil
	}
	return sh.tabs
}

// Visible reports whether tab content may be rendered right now.
func (sh *Shell) Visible(tab Tab) bool {
	return sh.state == StateAuthorized && slices.Contains(sh.tabs, tab)
}

// RedirectTo is the path a browser should be sent to, or "" to stay.
func (sh *Shell) RedirectTo() string {
	switch sh.state {
	case StateRedirectSignIn:
		return SignInPath
	case StateAccessDenied:
		return HomePath
	}
	return ""
}

// Resolve runs the shell to completion for a session whose roles are
// already known.
func Resolve(s *Session) *Shell {
	sh := NewShell()
	sh.SessionResolved(s)
	if s != nil {
		sh.RolesResolved(s.Roles)
	}
	return sh
}
