package permissions_test

import (
	"net/http"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"charter/permissions"
	"charter/shared/constant"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	if !assert.NotNil(t, data) {
		return
	}

	roles := []string{
		constant.RoleCustomer, constant.RoleOps, constant.RoleAdmin,
		constant.RoleFinance, constant.RolePilot, constant.RoleSuperAdmin,
	}

	seen := map[string]bool{}

	for _, endpoint := range data.Endpoints {
		key := endpoint.Method + " " + endpoint.Path
		assert.False(t, seen[key], "duplicate endpoint %s", key)
		seen[key] = true

		if endpoint.Skip {
			assert.Empty(t, endpoint.Permissions, key)

			continue
		}

		assert.NotEmpty(t, endpoint.Permissions, "%s is neither public nor role bound", key)

		for _, role := range endpoint.Permissions {
			assert.True(t, slices.Contains(roles, role), "%s lists unknown role %s", key, role)
		}
	}

	assert.True(t, data.FindPermissions("/v1/payments/webhook", http.MethodPost).Skip)
	assert.Equal(t, []string{constant.RoleFinance, constant.RoleAdmin, constant.RoleSuperAdmin},
		data.FindPermissions("/v1/payments/{ref}/refund", http.MethodPost).Permissions)
}

func TestPermissionData_FindPermissions(t *testing.T) {
	data := &permissions.PermissionData{Endpoints: []permissions.Permission{
		{Path: "/v1/bookings", Method: http.MethodGet, Permissions: []string{constant.RoleOps}},
		{Path: "/v1/bookings/{ref}", Method: http.MethodGet, Skip: true},
	}}

	tests := []struct {
		name   string
		path   string
		method string
		want   permissions.Permission
	}{
		{
			name:   "trailing slash is ignored",
			path:   "/v1/bookings/",
			method: http.MethodGet,
			want:   data.Endpoints[0],
		},
		{
			name:   "method must match",
			path:   "/v1/bookings",
			method: http.MethodPost,
			want:   permissions.Permission{},
		},
		{
			name:   "pattern match",
			path:   "/v1/bookings/{ref}",
			method: "get",
			want:   data.Endpoints[1],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, data.FindPermissions(tt.path, tt.method))
		})
	}
}

func TestPermission_Allows(t *testing.T) {
	refund := permissions.Permission{Permissions: []string{constant.RoleFinance, constant.RoleAdmin}}
	public := permissions.Permission{Skip: true}

	assert.True(t, refund.Allows(constant.RoleFinance))
	assert.False(t, refund.Allows(constant.RoleCustomer))
	assert.False(t, refund.Allows(""))
	assert.True(t, public.Allows(""))
	assert.False(t, permissions.Permission{}.Allows(constant.RoleSuperAdmin))
}
