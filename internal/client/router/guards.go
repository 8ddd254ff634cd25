package router

// AuthState is the part of the session a guard looks at.
type AuthState interface {
	IsAuthenticated() bool
}

// Decision is a guard's verdict. RedirectTo is set when Allow is false.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Guard decides whether a page may be entered.
type Guard func(s AuthState) Decision

// AuthGuard admits authenticated users and sends everyone else to /login.
func AuthGuard(s AuthState) Decision {
	if s.IsAuthenticated() {
		return Decision{Allow: true}
	}
	return Decision{RedirectTo: PathLogin}
}

// GuestGuard admits anonymous users and sends authenticated ones to /home.
func GuestGuard(s AuthState) Decision {
	if !s.IsAuthenticated() {
		return Decision{Allow: true}
	}
	return Decision{RedirectTo: PathHome}
}
