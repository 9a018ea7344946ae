package Auth

import (
	"Helios/Models"
)

// IsAuthorized is the single place role membership is decided. It reports
// whether current may pass a gate restricted to allowed.
//
// An empty current role means no session and always denies. master_admin is
// NOT implicitly a member of every gate: a route that wants to admit it must
// list it in allowed, and a gate that omits it denies it like any other role.
func IsAuthorized(current Models.Role, allowed []Models.Role) bool {
	if current == "" {
		return false
	}
	for _, role := range allowed {
		if current == role {
			return true
		}
	}
	return false
}

// Denial is what the boundary should do when a gate rejects: clients without
// a session go to sign-in, clients with a session go back to the landing page.
type Denial struct {
	Status   int    `json:"-"`
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

// Deny builds the boundary response for a failed gate check.
func Deny(hasSession bool) Denial {
	if !hasSession {
		return Denial{Status: 401, Message: "Not Logged In.", Redirect: "/signin"}
	}
	return Denial{Status: 403, Message: "Insufficient permissions to access this resource", Redirect: "/dashboard"}
}
