package model

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"charter/shared/constant"
	"charter/shared/failure"
	"charter/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID          = "id"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldRole        = "role"
	FieldFullName    = "full_name"
	FieldLastLoginAt = "last_login_at"
	FieldActive      = "active"
)

// Errors shared by the user and auth services. They already carry their HTTP status.
var (
	ErrNotFound           = failure.Wrap(http.StatusNotFound, errors.New("user not found"))
	ErrEmailTaken         = failure.Wrap(http.StatusConflict, errors.New("email already registered"))
	ErrInvalidCredentials = failure.Wrap(http.StatusBadRequest, errors.New("invalid email or password"))
	ErrDeactivated        = failure.Wrap(http.StatusForbidden, errors.New("user account is deactivated"))
	ErrWrongPassword      = failure.Wrap(http.StatusBadRequest, errors.New("current password is incorrect"))
)

var Roles = []string{
	constant.RoleCustomer,
	constant.RoleOps,
	constant.RoleAdmin,
	constant.RoleFinance,
	constant.RolePilot,
	constant.RoleSuperAdmin,
}

type User struct {
	ID          string     `db:"id"`
	Email       string     `db:"email"`
	Password    string     `db:"password"`
	FullName    *string    `db:"full_name"`
	Role        string     `db:"role"`
	Active      bool       `db:"active"`
	LastLoginAt *time.Time `db:"last_login_at"`
	model.Metadata
}

func (u User) Name() string {
	if u.FullName == nil || *u.FullName == "" {
		return u.Email
	}

	return *u.FullName
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidRole(role string) bool {
	return slices.Contains(Roles, role)
}
