package controller

import "context"

type contextKey int

const (
	clientIdCtxKey contextKey = iota
)

func (c *controller) getClientIdFromCtx(ctx context.Context) string {
	clientId, ok := ctx.Value(clientIdCtxKey).(string)
	if !ok {
		return ""
	}

	return clientId
}
