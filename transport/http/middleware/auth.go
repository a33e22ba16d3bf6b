package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"charter/config"
	"charter/infras/jwt"
	"charter/infras/otel"
	"charter/permissions"
	"charter/shared/constant"
	"charter/shared/failure"
	"charter/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// SkipAuthKey marks a request that arrived with the internal API key.
type SkipAuthKey string

const skipAuth = SkipAuthKey("skip")

type Auth interface {
	// Auth resolves the bearer token into the caller's identity.
	Auth(http.Handler) http.Handler
	// APIKey lets internal services through as the system actor.
	APIKey(http.Handler) http.Handler
}

type Role interface {
	// RBAC checks the caller's role against permissions.json. It must run after Auth.
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

func internalCall(ctx context.Context) bool {
	skip, _ := ctx.Value(skipAuth).(bool)

	return skip
}

// Auth rejects missing or bad tokens on protected routes. Public routes accept anonymous callers,
// yet still attach the identity of a valid token so a signed-in customer owns what they book.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		if internalCall(ctx) {
			next.ServeHTTP(w, r)

			return
		}

		path, permission := m.routePermission(r)
		header := r.Header.Get(constant.RequestHeaderAuthorization)

		scope.SetAttributes(map[string]any{"http.route": path, "http.method": r.Method, "route.public": permission.Skip})

		if permission.Skip && header == constant.Empty {
			next.ServeHTTP(w, r)

			return
		}

		claims, err := m.claims(ctx, header)

		switch {
		case err != nil && permission.Skip:
			log.Debug().Err(err).Str("route", path).Msg("anonymous call with unusable token")
			next.ServeHTTP(w, r)
		case err != nil:
			scope.TraceError(err)
			response.WithError(w, err)
		default:
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		}
	})
}

func withClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)

	return context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)
}

func (m *authRoleImpl) claims(ctx context.Context, header string) (*jwt.Claims, error) {
	token, err := jwt.ExtractTokenFromHeader(header)
	if err != nil {
		if errors.Is(err, jwt.ErrMissingToken) {
			return nil, failure.Unauthorized("Missing authorization header")
		}

		return nil, failure.Unauthorized("Invalid authorization header format")
	}

	claims, err := m.jwtService.ValidateToken(ctx, token, jwt.AccessToken)

	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return nil, failure.Unauthorized("Token has expired")
	case errors.Is(err, jwt.ErrInvalidClaim):
		return nil, failure.Unauthorized("Invalid token claims")
	case err != nil:
		return nil, failure.Unauthorized("Invalid token")
	case claims.UserID == constant.Empty || claims.Role == constant.Empty:
		log.Error().Str("token_id", claims.TokenID).Msg("token without user or role")

		return nil, failure.Unauthorized("Invalid token claims")
	}

	return claims, nil
}

// RBAC lets a request through when its route is public or lists the caller's role.
// Routes missing from permissions.json are closed to everyone.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		if internalCall(ctx) || (m.permission != nil && m.permission.Skip) {
			next.ServeHTTP(w, r)

			return
		}

		_, permission := m.routePermission(r)
		role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

		if !permission.Allows(role) {
			scope.SetAttributes(map[string]any{"user.role": role, "route.roles": permission.Permissions})
			scope.TraceError(failure.ForbiddenError)
			response.WithError(w, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// APIKey authenticates service-to-service calls. Requests without the header continue as clients.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		key := r.Header.Get(constant.RequestHeaderAPIKey)
		if key == constant.Empty {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), skipAuth, false)))

			return
		}

		scope.SetAttribute("http.source", "internal")

		expected := m.cfg.App.APIKey
		if expected == constant.Empty || subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			scope.TraceError(failure.ForbiddenError)
			response.WithError(w, failure.ForbiddenError)

			return
		}

		ctx := context.WithValue(r.Context(), skipAuth, true)
		ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.ActorSystem)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *authRoleImpl) routePermission(r *http.Request) (string, permissions.Permission) {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || m.permission == nil {
		return r.URL.Path, permissions.Permission{}
	}

	path := rctx.Routes.Find(chi.NewRouteContext(), r.Method, r.URL.Path)

	return path, m.permission.FindPermissions(path, r.Method)
}
