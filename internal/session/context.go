package session

import (
	"context"
)

type sessionId struct{}

func IDFromContext(c context.Context) string {
	id, ok := c.Value(sessionId{}).(string)
	if !ok {
		return ""
	}
	return id
}

func AttachIDToContext(c context.Context, id string) context.Context {
	return context.WithValue(c, sessionId{}, id)
}
