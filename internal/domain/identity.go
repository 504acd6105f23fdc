package domain

// Identity carries the caller's authenticated username and best-effort
// client IP. Both are attached to every upstream search-service command
// for server-side auditing.
type Identity struct {
	User string
	IP   string
}
