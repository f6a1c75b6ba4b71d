package services

import (
	"context"
	"errors"
	"strings"

	"easyride/internal/config"
	"easyride/internal/models"
	"easyride/internal/repositories/interfaces"
	"easyride/pkg/identity"
	"easyride/pkg/logger"
)

type Outcome string

const (
	OutcomeAllow    Outcome = "allow"
	OutcomeRedirect Outcome = "redirect"
	OutcomePending  Outcome = "pending"
)

const (
	PathSignIn         = "/signin"
	PathSignUp         = "/signup"
	PathVerifyEmail    = "/verify-email"
	PathSettings       = "/settings"
	PathDashboard      = "/dashboard"
	PathDriverDash     = "/driver-dashboard"
	PathAdminDashboard = "/admin-dashboard"

	MessageCompleteProfile = "Please complete your profile before continuing."
	MessageBlocked         = "Your account has been blocked."
)

const (
	ReasonUnauthenticated   = "unauthenticated"
	ReasonUnverified        = "unverified"
	ReasonBlocked           = "blocked"
	ReasonIncompleteProfile = "incomplete_profile"
	ReasonRole              = "role"
	ReasonLoading           = "loading"
	ReasonUnknownRoute      = "unknown_route"
)

// Decision is the result of running a guard chain.
type Decision struct {
	Outcome    Outcome `json:"outcome"`
	RedirectTo string  `json:"redirect_to,omitempty"`
	Message    string  `json:"message,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}

// RouteRule describes which guards protect a route.
type RouteRule struct {
	Path                   string
	Public                 bool
	SkipVerificationCheck  bool
	RequireCompleteProfile bool
	AllowedRoles           []models.UserRole
	// StrictRoles denies a missing profile or an empty role instead of
	// letting it through. API groups set it; page checks do not.
	StrictRoles bool
}

// AccessState is everything the guards look at. SessionPending and a
// false ProfileLoaded mean the data has not been resolved yet, which
// suspends the chain instead of denying.
type AccessState struct {
	Session        *identity.Session
	SessionPending bool
	Profile        *models.User
	ProfileLoaded  bool
	Path           string
}

type Guard func(state AccessState, rule RouteRule) Decision

var allow = Decision{Outcome: OutcomeAllow}

func pending() Decision {
	return Decision{Outcome: OutcomePending, Reason: ReasonLoading}
}

func AuthenticationGuard(state AccessState, _ RouteRule) Decision {
	if state.SessionPending {
		return pending()
	}
	if state.Session == nil {
		return Decision{Outcome: OutcomeRedirect, RedirectTo: PathSignIn, Reason: ReasonUnauthenticated}
	}
	return allow
}

func VerificationGuard(state AccessState, rule RouteRule) Decision {
	if rule.SkipVerificationCheck || state.Session == nil || state.Session.EmailVerified {
		return allow
	}
	return Decision{Outcome: OutcomeRedirect, RedirectTo: PathVerifyEmail, Reason: ReasonUnverified}
}

func BlockedGuard(state AccessState, _ RouteRule) Decision {
	if !state.ProfileLoaded {
		return pending()
	}
	if state.Profile != nil && state.Profile.Blocked {
		return Decision{Outcome: OutcomeRedirect, RedirectTo: PathSignIn, Message: MessageBlocked, Reason: ReasonBlocked}
	}
	return allow
}

// ProfileCompletenessGuard redirects to the settings page until the
// profile has a name, phone and address. Roles in exempt skip the check.
func ProfileCompletenessGuard(exempt map[models.UserRole]bool) Guard {
	return func(state AccessState, _ RouteRule) Decision {
		if !state.ProfileLoaded {
			return pending()
		}
		if state.Path == PathSettings {
			return allow
		}
		if state.Profile != nil {
			if exempt[state.Profile.Role] || state.Profile.IsProfileComplete() {
				return allow
			}
		}
		return Decision{
			Outcome:    OutcomeRedirect,
			RedirectTo: PathSettings,
			Message:    MessageCompleteProfile,
			Reason:     ReasonIncompleteProfile,
		}
	}
}

func RoleGuard(state AccessState, rule RouteRule) Decision {
	if len(rule.AllowedRoles) == 0 {
		return allow
	}
	if !state.ProfileLoaded {
		return pending()
	}
	if state.Profile == nil || state.Profile.Role == "" {
		if rule.StrictRoles {
			return Decision{Outcome: OutcomeRedirect, RedirectTo: PathDashboard, Reason: ReasonRole}
		}
		return allow
	}
	for _, role := range rule.AllowedRoles {
		if state.Profile.Role == role {
			return allow
		}
	}
	return Decision{Outcome: OutcomeRedirect, RedirectTo: DefaultPathForRole(state.Profile.Role), Reason: ReasonRole}
}

// DefaultPathForRole is the landing page of each role.
func DefaultPathForRole(role models.UserRole) string {
	switch role {
	case models.RoleDriver:
		return PathDriverDash
	case models.RoleAdmin:
		return PathAdminDashboard
	default:
		return PathDashboard
	}
}

// RunChain applies the guards in order and returns the first decision
// that is not an allow.
func RunChain(state AccessState, rule RouteRule, guards ...Guard) Decision {
	for _, guard := range guards {
		if decision := guard(state, rule); !decision.Allowed() {
			return decision
		}
	}
	return allow
}

// DefaultRoutes mirrors the client application's route table.
func DefaultRoutes() []RouteRule {
	return []RouteRule{
		{Path: PathSignUp, Public: true},
		{Path: PathSignIn, Public: true},
		{Path: PathVerifyEmail, Public: true},
		{Path: "/chats"},
		{Path: "/chats/:id"},
		{Path: "/manage-bookings"},
		{Path: "/profile"},
		{Path: "/passenger-bookings"},
		{Path: "/search-results"},
		{Path: PathSettings},
		{Path: PathDashboard, AllowedRoles: []models.UserRole{models.RolePassenger}},
		{Path: PathDriverDash, RequireCompleteProfile: true, AllowedRoles: []models.UserRole{models.RoleDriver}},
		{Path: PathAdminDashboard, AllowedRoles: []models.UserRole{models.RoleAdmin}},
	}
}

type AccessService interface {
	// Evaluate runs the chain for the route matching path.
	Evaluate(ctx context.Context, session *identity.Session, path string) Decision
	EvaluateRule(ctx context.Context, session *identity.Session, rule RouteRule) Decision
	RuleFor(path string) (RouteRule, bool)
}

type accessService struct {
	userRepo       interfaces.UserRepository
	routes         []RouteRule
	exemptRoles    map[models.UserRole]bool
	enforceBlocked bool
	logger         *logger.Logger
}

func NewAccessService(userRepo interfaces.UserRepository, cfg *config.AccessConfig, log *logger.Logger) AccessService {
	exempt := make(map[models.UserRole]bool)
	for _, role := range cfg.ProfileExemptRoles {
		if r := models.UserRole(strings.TrimSpace(role)); r.IsValid() {
			exempt[r] = true
		}
	}

	return &accessService{
		userRepo:       userRepo,
		routes:         DefaultRoutes(),
		exemptRoles:    exempt,
		enforceBlocked: cfg.EnforceBlocked,
		logger:         log,
	}
}

func (s *accessService) RuleFor(path string) (RouteRule, bool) {
	for _, rule := range s.routes {
		if matchRoute(rule.Path, path) {
			return rule, true
		}
	}
	return RouteRule{}, false
}

func (s *accessService) Evaluate(ctx context.Context, session *identity.Session, path string) Decision {
	rule, ok := s.RuleFor(path)
	if !ok {
		return Decision{Outcome: OutcomeRedirect, RedirectTo: PathDashboard, Reason: ReasonUnknownRoute}
	}
	rule.Path = path
	return s.EvaluateRule(ctx, session, rule)
}

func (s *accessService) EvaluateRule(ctx context.Context, session *identity.Session, rule RouteRule) Decision {
	if rule.Public {
		return allow
	}

	state := AccessState{Session: session, Path: rule.Path}

	guards := []Guard{AuthenticationGuard, VerificationGuard}
	if decision := RunChain(state, rule, guards...); !decision.Allowed() {
		s.logDenial(session, rule, decision)
		return decision
	}

	needsProfile := s.enforceBlocked || rule.RequireCompleteProfile || len(rule.AllowedRoles) > 0
	if !needsProfile {
		return allow
	}

	state.Profile, state.ProfileLoaded = s.loadProfile(ctx, session.UID)

	guards = guards[:0]
	if s.enforceBlocked {
		guards = append(guards, BlockedGuard)
	}
	if rule.RequireCompleteProfile {
		guards = append(guards, ProfileCompletenessGuard(s.exemptRoles))
	}
	guards = append(guards, RoleGuard)

	decision := RunChain(state, rule, guards...)
	if !decision.Allowed() {
		s.logDenial(session, rule, decision)
	}
	return decision
}

// loadProfile reports loaded=false only when the store could not answer.
// A missing profile is a definitive answer.
func (s *accessService) loadProfile(ctx context.Context, uid string) (*models.User, bool) {
	user, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, true
		}
		s.logger.WithContext(ctx).WithUserID(uid).WithError(err).Warn("Failed to load profile for access check")
		return nil, false
	}
	return user, true
}

func (s *accessService) logDenial(session *identity.Session, rule RouteRule, decision Decision) {
	if decision.Outcome != OutcomeRedirect {
		return
	}
	details := map[string]interface{}{
		"path":        rule.Path,
		"reason":      decision.Reason,
		"redirect_to": decision.RedirectTo,
	}
	if session != nil {
		details["user_id"] = session.UID
	}
	s.logger.LogSecurityEvent("access_denied", "low", details)
}

// matchRoute compares a pattern such as /chats/:id against a path.
func matchRoute(pattern, path string) bool {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		path = "/"
	}

	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")
	if len(patternParts) != len(pathParts) {
		return false
	}

	for i, part := range patternParts {
		if strings.HasPrefix(part, ":") {
			if pathParts[i] == "" {
				return false
			}
			continue
		}
		if part != pathParts[i] {
			return false
		}
	}
	return true
}
