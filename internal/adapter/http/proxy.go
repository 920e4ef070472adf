package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"petworld/internal/adapter/upstream"
	"petworld/internal/app/ports"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.uber.org/zap"
)

const (
	routeGenerateVideos = "clipgen_generate_videos"
	routeJobStatus      = "clipgen_status"
	routeGenerateImage  = "imagegen_generate_image"
	routeObject         = "s3_proxy"
)

var unknownUpstreamError = []byte(`{"error":"Unknown error"}`)

func (h Handler) generateVideos(c context.Context, ctx *app.RequestContext) {
	if h.Clipgen == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "clipgen proxy not configured")
		return
	}
	resp, err := h.Clipgen.Do(c, consts.MethodPost, "/generate-videos", string(ctx.Request.Header.ContentType()), ctx.Request.Body())
	h.relay(ctx, routeGenerateVideos, resp, err)
}

func (h Handler) generateImage(c context.Context, ctx *app.RequestContext) {
	if h.Imagegen == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "imagegen proxy not configured")
		return
	}
	resp, err := h.Imagegen.Do(c, consts.MethodPost, "/generate-image", consts.MIMEApplicationJSON, ctx.Request.Body())
	h.relay(ctx, routeGenerateImage, resp, err)
}

// jobStatus accepts the id as ?jobId= or as the trailing path segment.
func (h Handler) jobStatus(c context.Context, ctx *app.RequestContext) {
	jobID := strings.TrimSpace(ctx.Query("jobId"))
	if jobID == "" {
		jobID = strings.TrimSpace(ctx.Param("job_id"))
	}
	if jobID == "" {
		h.recordProxy(routeJobStatus, consts.StatusBadRequest)
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_job_id", "missing jobId parameter")
		return
	}
	if h.JobsUC.Videos == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "clipgen proxy not configured")
		return
	}

	job, err := h.JobsUC.Status(c, jobID)
	if err != nil {
		var upErr *ports.UpstreamError
		if errors.As(err, &upErr) {
			h.recordProxy(routeJobStatus, upErr.StatusCode)
			ctx.Data(upErr.StatusCode, consts.MIMEApplicationJSON, upstreamErrorBody(upErr.Body))
			return
		}
		h.recordProxy(routeJobStatus, consts.StatusInternalServerError)
		h.logger().Error("job status proxy failed", zap.String("job_id", jobID), zap.Error(err))
		writeErrorBody(ctx, consts.StatusInternalServerError, "upstream_unreachable", err.Error())
		return
	}
	h.recordProxy(routeJobStatus, consts.StatusOK)
	ctx.JSON(consts.StatusOK, job)
}

func (h Handler) objectProxy(c context.Context, ctx *app.RequestContext) {
	path := strings.TrimSpace(ctx.Query("path"))
	if path == "" {
		h.recordProxy(routeObject, consts.StatusBadRequest)
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_path", "missing path parameter")
		return
	}
	if h.Objects == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "object proxy not configured")
		return
	}

	obj, err := h.Objects.Fetch(c, path)
	if err != nil {
		if errors.Is(err, ports.ErrInvalidObjectPath) {
			h.recordProxy(routeObject, consts.StatusBadRequest)
			writeErrorBody(ctx, consts.StatusBadRequest, "invalid_path", "path must be relative to the bucket")
			return
		}
		var upErr *ports.UpstreamError
		if errors.As(err, &upErr) {
			h.recordProxy(routeObject, upErr.StatusCode)
			writeErrorBody(ctx, upErr.StatusCode, "upstream_error", fmt.Sprintf("failed to fetch object: status %d", upErr.StatusCode))
			return
		}
		h.recordProxy(routeObject, consts.StatusInternalServerError)
		h.logger().Error("object proxy failed", zap.String("path", path), zap.Error(err))
		writeErrorBody(ctx, consts.StatusInternalServerError, "upstream_unreachable", err.Error())
		return
	}
	h.recordProxy(routeObject, consts.StatusOK)
	ctx.Data(consts.StatusOK, obj.ContentType, obj.Body)
}

// relay copies an upstream JSON response. Non-2xx keeps the upstream status
// and body; a transport failure becomes a 500.
func (h Handler) relay(ctx *app.RequestContext, route string, resp upstream.Response, err error) {
	if err != nil {
		h.recordProxy(route, consts.StatusInternalServerError)
		h.logger().Error("proxy request failed", zap.String("route", route), zap.Error(err))
		writeErrorBody(ctx, consts.StatusInternalServerError, "upstream_unreachable", err.Error())
		return
	}
	h.recordProxy(route, resp.StatusCode)
	if !resp.OK() {
		ctx.Data(resp.StatusCode, consts.MIMEApplicationJSON, upstreamErrorBody(resp.Body))
		return
	}
	ctx.Data(consts.StatusOK, consts.MIMEApplicationJSON, resp.Body)
}

func upstreamErrorBody(body []byte) []byte {
	if len(body) == 0 || !json.Valid(body) {
		return unknownUpstreamError
	}
	return body
}

func (h Handler) recordProxy(route string, status int) {
	if h.ProxyMetrics != nil {
		h.ProxyMetrics.RecordProxyRequest(route, status)
	}
}
