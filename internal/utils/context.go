package utils

import (
	"context"
	"errors"
)

// Key type for context values
type contextKey string

const (
	accountIDKey contextKey = "accountID"
	usernameKey  contextKey = "username"
)

// GetAccountIDFromContext extracts the authenticated account ID from the context
func GetAccountIDFromContext(ctx context.Context) (uint, error) {
	accountID, ok := ctx.Value(accountIDKey).(uint)
	if !ok {
		return 0, errors.New("account ID not found in context")
	}
	return accountID, nil
}

// SetAccountIDToContext adds the account ID to the context
func SetAccountIDToContext(ctx context.Context, accountID uint) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// GetUsernameFromContext extracts the authenticated username from the context
func GetUsernameFromContext(ctx context.Context) (string, error) {
	username, ok := ctx.Value(usernameKey).(string)
	if !ok {
		return "", errors.New("username not found in context")
	}
	return username, nil
}

// SetUsernameToContext adds the username to the context
func SetUsernameToContext(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}
