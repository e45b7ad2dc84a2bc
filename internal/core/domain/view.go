package domain

// View names a single console screen. View state is in-memory only: there
// is no URL-routing contract.
type View string

const (
	ViewLoading   View = "loading"
	ViewWelcome   View = "welcome"
	ViewLogin     View = "login"
	ViewRegister  View = "register"
	ViewDashboard View = "dashboard"
	ViewPowerBI   View = "powerbi"
	ViewData      View = "data"
	ViewReciclaje View = "reciclaje"
	ViewEstacion  View = "estacion"
	ViewAdmin     View = "admin"

	// ViewAccessDenied is a render identity only: it is never stored as
	// view state, the router resolves to it when an admin screen is
	// requested without admin rights.
	ViewAccessDenied View = "access-denied"
)

// ParseView validates a client-supplied view name. Loading and
// access-denied are internal identities and cannot be navigated to.
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewWelcome, ViewLogin, ViewRegister, ViewDashboard, ViewPowerBI,
		ViewData, ViewReciclaje, ViewEstacion, ViewAdmin:
		return v, nil
	}
	return "", ErrInvalidView
}

// Public reports whether the view is reachable without an authenticated
// user.
func (v View) Public() bool {
	switch v {
	case ViewWelcome, ViewLogin, ViewRegister:
		return true
	}
	return false
}
