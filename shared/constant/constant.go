// Package constant holds names shared across layers: context keys, roles, headers, formats.
package constant

import "time"

type contextKey string

// Request-scoped identity, set by the auth middleware.
const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserEmail contextKey = "user_email"
	ContextKeyUserRole  contextKey = "user_role"
	ContextKeyTokenID   contextKey = "token_id"
)

const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleOps        = "ops"
	RoleFinance    = "finance"
	RolePilot      = "pilot"
	RoleCustomer   = "customer"
)

// Actors recorded in created_by/modified_by when no user is signed in.
const (
	ContextGuest = "guest"
	ActorSystem  = "system"
	ActorWorker  = "worker"
)

const (
	RequestParamID      = "id"
	RequestParamRef     = "ref"
	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"

	DefaultValuePage  = 1
	DefaultValueLimit = 10
	MaxValueLimit     = 100
)

const (
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

const PqErrorCodeUniqueViolation = "23505"

const (
	DateFormat     = time.RFC3339
	DayFormat      = "2006-01-02"
	ClockFormat    = "15:04"
	DayClockFormat = "2006-01-02 15:04"
	MinutesPerDay  = 24 * 60
)

// Tracing scopes. Spans are named "<scope>.<operation>".
const (
	OtelHandlerScopeName    = "handler"
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelExternalScopeName   = "external"
	OtelWorkerScopeName     = "worker"
	OtelS3ScopeName         = "s3"
	OtelKafkaScopeName      = "kafka"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderAPIKey             = "X-API-Key"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRetryAfter         = "Retry-After"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"

	// Payment gateway HTTP signature headers.
	RequestHeaderSignature  = "Signature"
	RequestHeaderDigest     = "Digest"
	RequestHeaderDate       = "Date"
	RequestHeaderMerchantID = "V-C-Merchant-Id"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypePDF  = "application/pdf"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const ServerEnvDevelopment = "development"

const (
	Asterix = "*"
	Empty   = ""
)
