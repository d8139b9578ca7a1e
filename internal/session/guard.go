package session

import "github.com/tripwiseapp/tripwise-backend/internal/models"

// Decision is the outcome of gating a protected view.
type Decision int

const (
	// Suspend renders nothing: the session is still resolving.
	Suspend Decision = iota
	// RedirectSignIn sends the visitor to the sign-in route. Redirecting is
	// idempotent; re-evaluating while already there must not loop.
	RedirectSignIn
	// Allow renders the protected content.
	Allow
)

func (d Decision) String() string {
	switch d {
	case Suspend:
		return "suspend"
	case RedirectSignIn:
		return "redirect-sign-in"
	case Allow:
		return "allow"
	default:
		return "unknown"
	}
}

// Decide gates a protected view by role. Stateless per evaluation; driven
// entirely by the given state and allow-list.
func Decide(st State, allowed ...models.Role) Decision {
	if st.Loading {
		return Suspend
	}
	if st.Identity == nil {
		return RedirectSignIn
	}
	for _, role := range allowed {
		if st.Role == role {
			return Allow
		}
	}
	return RedirectSignIn
}
