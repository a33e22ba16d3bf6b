// Package permissions maps each chi route pattern to the roles allowed to call it.
// The table is embedded from permissions.json at build time.
package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission lists the roles allowed on one route pattern. Skip marks a public route.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the route. Public routes allow everyone.
func (p Permission) Allows(role string) bool {
	return p.Skip || slices.Contains(p.Permissions, role)
}

func (p Permission) matches(path, method string) bool {
	return strings.EqualFold(p.Method, method) && trimSlash(p.Path) == path
}

// PermissionData is the whole table. Skip turns RBAC off globally, which is only meant for local runs.
type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`
}

// FindPermissions matches a chi route pattern. Unknown routes yield the zero Permission, which allows nobody.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	path = trimSlash(path)

	for _, p := range r.Endpoints {
		if p.matches(path, method) {
			return p
		}
	}

	return Permission{}
}

func trimSlash(path string) string {
	if path == "/" {
		return path
	}

	return strings.TrimSuffix(path, "/")
}

// Get decodes the embedded table. It returns nil when the file is malformed, which closes every
// role-bound route.
func Get() *PermissionData {
	data := &PermissionData{}

	if err := json.Unmarshal(permissionsData, data); err != nil {
		log.Error().Err(err).Msg("embedded permissions are malformed")

		return nil
	}

	if data.Skip {
		log.Warn().Msg("role checks are disabled by permissions.json")
	}

	log.Info().Int("endpoints", len(data.Endpoints)).Msg("permissions loaded")

	return data
}
