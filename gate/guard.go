package gate

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// NavigateOptions mirror a router's navigate options
type NavigateOptions struct {
	Replace bool
}

// Navigator performs navigation for a view. A Guard calls Navigate while holding its
// lock, so Navigate must not call back into the Guard.
type Navigator interface {
	Navigate(path string, opts NavigateOptions)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(path string, opts NavigateOptions)

func (f NavigatorFunc) Navigate(path string, opts NavigateOptions) {
	f(path, opts)
}

// Enforce applies policy to s and navigates to target, replacing history, on Redirect
func Enforce(s Snapshot, policy Policy, target string, nav Navigator) Decision {
	d := policy(s)
	if d == Redirect {
		nav.Navigate(target, NavigateOptions{Replace: true})
	}
	return d
}

// Guard re-runs a policy whenever the identity changes. It navigates once each time
// the decision turns into Redirect, not on every notification while it stays there.
type Guard struct {
	gate        *Gate
	policy      Policy
	target      string
	nav         Navigator
	mu          sync.Mutex
	last        Decision
	redirected  bool
	stopped     bool
	unsubscribe func()
}

// Protect guards a protected view: unauthenticated viewers go to the sign-in view
func Protect(g *Gate, nav Navigator) *Guard {
	return NewGuard(g, RequireAuthenticated, RouteSignIn, nav)
}

// GuestOnly guards the auth forms: authenticated viewers go to the root view
func GuestOnly(g *Gate, nav Navigator) *Guard {
	return NewGuard(g, RedirectIfAuthenticated, RouteRoot, nav)
}

// NewGuard evaluates policy against the current snapshot right away and then on every change
func NewGuard(g *Gate, policy Policy, target string, nav Navigator) *Guard {
	gd := &Guard{
		gate:   g,
		policy: policy,
		target: target,
		nav:    nav,
	}
	gd.unsubscribe = g.Subscribe(gd.evaluate)
	gd.evaluate(g.CurrentIdentity())
	return gd
}

// Decision is the latest decision
func (gd *Guard) Decision() Decision {
	gd.mu.Lock()
	defer gd.mu.Unlock()
	return gd.last
}

// Stop unsubscribes from the gate. No navigation happens after Stop returns.
func (gd *Guard) Stop() {
	gd.unsubscribe()
	gd.mu.Lock()
	gd.stopped = true
	gd.mu.Unlock()
}

func (gd *Guard) evaluate(s Snapshot) {
	gd.mu.Lock()
	defer gd.mu.Unlock()
	if gd.stopped {
		return
	}

	d := gd.policy(s)
	gd.last = d
	switch d {
	case Render:
		gd.redirected = false
	case Redirect:
		if gd.redirected {
			return
		}
		gd.redirected = true
		log.Debug().Str("target", gd.target).Str("username", s.Username()).Msg("gate redirect")
		gd.nav.Navigate(gd.target, NavigateOptions{Replace: true})
	}
}
