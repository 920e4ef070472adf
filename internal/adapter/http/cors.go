package httpadapter

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const corsAllowMethods = "GET,POST,PUT,DELETE,OPTIONS"
const corsAllowHeaders = "Content-Type,Authorization"

func applyCORSHeaders(ctx *app.RequestContext) {
	ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
	ctx.Response.Header.Set("Access-Control-Allow-Methods", corsAllowMethods)
	ctx.Response.Header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	ctx.Response.Header.Set("Access-Control-Max-Age", "600")
}

func corsMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		applyCORSHeaders(ctx)
		if string(ctx.Method()) == consts.MethodOptions {
			ctx.AbortWithStatus(consts.StatusNoContent)
			return
		}
		ctx.Next(c)
	}
}

// allow answers every method but the given one with a JSON 405.
func allow(method string, next app.HandlerFunc) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if string(ctx.Method()) != method {
			ctx.Response.Header.Set("Allow", method)
			writeErrorBody(ctx, consts.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
			return
		}
		next(c, ctx)
	}
}

func (h Handler) observeRequests() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		h.Requests.ObserveRequest(string(ctx.Method()), route, ctx.Response.StatusCode(), time.Since(start))
	}
}
