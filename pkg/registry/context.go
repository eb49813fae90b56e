package registry

import "context"

type sessionKey struct{}

// WithSession returns a child context carrying the caller's registry session
// cookie value; it is forwarded on every outbound call made with the context.
func WithSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the session placed by WithSession.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(sessionKey{}).(string)
	return s
}
