package middleware

import "context"

// contextKey defines a custom type for context keys to avoid collisions.
type contextKey string

const userContextKey = contextKey("user")

// Anonymous is the subject of requests without a valid bearer token.
const Anonymous = "anonymous"

// UserInfo represents the authenticated caller of the admin API.
type UserInfo struct {
	ID      int64
	Subject string // email
	Role    string
}

// IsAuthenticated reports whether the request carried a valid token.
func (u *UserInfo) IsAuthenticated() bool {
	return u.ID != 0
}

// GetUserInfo retrieves the user information from the request context.
func GetUserInfo(ctx context.Context) *UserInfo {
	if userInfo, ok := ctx.Value(userContextKey).(*UserInfo); ok {
		return userInfo
	}
	// Return an anonymous user if no user info is found in the context.
	return &UserInfo{Subject: Anonymous, Role: Anonymous}
}

// SetUserInfo adds the user information to the request context.
func SetUserInfo(ctx context.Context, userInfo *UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, userInfo)
}
