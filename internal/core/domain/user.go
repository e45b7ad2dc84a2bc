package domain

import (
	"strings"
	"time"
)

const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// ValidRole reports whether role is one of the known profile roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin || role == RoleViewer
}

// AuthUser is the identity slice of a session the console caches
// synchronously on authentication, before the profile is known.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// UserProfile is the application-level record describing a user beyond raw
// identity. Exactly one profile row exists per email.
type UserProfile struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Nombre        string    `json:"nombre"`
	TipoUsuario   string    `json:"tipo_usuario"`
	Activo        bool      `json:"activo"`
	FechaRegistro time.Time `json:"fecha_registro"`
	UltimoAcceso  time.Time `json:"ultimo_acceso,omitempty"`
}

// DefaultProfile synthesizes the profile created for a freshly
// authenticated email with no row yet: name defaults to the local part of
// the email, role user, active.
func DefaultProfile(email string, now time.Time) *UserProfile {
	nombre := email
	if i := strings.Index(email, "@"); i > 0 {
		nombre = email[:i]
	}
	return &UserProfile{
		Email:         email,
		Nombre:        nombre,
		TipoUsuario:   RoleUser,
		Activo:        true,
		FechaRegistro: now,
	}
}
