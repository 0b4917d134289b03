package gate

// Decision is what a view does with a snapshot
type Decision int

const (
	// Wait renders nothing; the identity is still loading
	Wait Decision = iota
	// Render shows the view
	Render
	// Redirect navigates away, replacing history
	Redirect
)

func (d Decision) String() string {
	switch d {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "wait"
	}
}

// Policy maps a snapshot to a decision
type Policy func(Snapshot) Decision

// Routes the policies redirect to
const (
	RouteSignIn = "/sign-in"
	RouteRoot   = "/"
)

// RequireAuthenticated guards a protected view. Errors fail closed: a failed identity
// query redirects exactly like a missing username.
func RequireAuthenticated(s Snapshot) Decision {
	if s.Loading {
		return Wait
	}
	if s.Authenticated() {
		return Render
	}
	return Redirect
}

// RedirectIfAuthenticated guards the sign-in and sign-up views
func RedirectIfAuthenticated(s Snapshot) Decision {
	if s.Loading {
		return Wait
	}
	if s.Authenticated() {
		return Redirect
	}
	return Render
}
