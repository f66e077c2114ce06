package utils

// Currency for all wallet balances, ledger amounts, and payouts.
const INRCurrency = "INR"

// Pagination bounds applied to listing endpoints.
const (
	DefaultPageSize = 100
	MaxPageSize     = 500
)

// ContextKey types request-scoped context values so handler keys cannot
// collide with string keys from other packages.
type ContextKey string

// Context keys set by the HTTP layer on every request.
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	CancelFuncKey ContextKey = "cancel_func"
)
