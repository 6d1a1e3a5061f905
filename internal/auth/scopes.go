package auth

// Known OAuth scopes used by the portal API.
const (
	ScopeRecordsWrite  = "records:write"
	ScopeRecordsRead   = "records:read"
	ScopeAnalyticsRead = "analytics:read"
)
