package domain

import (
	"github.com/google/uuid"
)

// Scope identifies whose data a dashboard shows. It is always passed
// explicitly; nothing below the transport layer reads session state.
type Scope struct {
	Role   Role
	UserID uuid.UUID
}

// AdminScope returns the unfiltered scope.
func AdminScope(userID uuid.UUID) Scope {
	return Scope{Role: RoleAdmin, UserID: userID}
}

// ClientScope returns the scope of a single client.
func ClientScope(clientID uuid.UUID) Scope {
	return Scope{Role: RoleClient, UserID: clientID}
}

// InstallerScope returns the scope of a single installer.
func InstallerScope(installerID uuid.UUID) Scope {
	return Scope{Role: RoleInstaller, UserID: installerID}
}

// Validate checks the role and, for filtered roles, the user id.
func (s Scope) Validate() error {
	var errs []FieldError
	if !s.Role.IsValid() {
		errs = append(errs, FieldError{Field: "role", Message: "must be admin, client or installer"})
	}
	if s.Role != RoleAdmin && s.UserID == uuid.Nil {
		errs = append(errs, FieldError{Field: "user_id", Message: "required"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// Column returns the row column that scopes this role, or "" for admin.
func (s Scope) Column() string {
	switch s.Role {
	case RoleClient:
		return "client_id"
	case RoleInstaller:
		return "installer_id"
	}
	return ""
}

// Key is a stable string form used in logs and metrics.
func (s Scope) Key() string {
	if s.Role == RoleAdmin {
		return "all"
	}
	return string(s.Role) + ":" + s.UserID.String()
}
