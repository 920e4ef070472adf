package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"petworld/internal/adapter/upstream"
	"petworld/internal/app/assets"
	"petworld/internal/app/contract"
	"petworld/internal/app/jobpoll"
	"petworld/internal/app/jobs"
	"petworld/internal/app/metadata"
	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"
	"petworld/internal/scval"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.uber.org/zap"
)

const DefaultJobWaitTimeout = 6 * time.Minute

type PetReader interface {
	PetInfo(ctx context.Context, tokenID uint64, source string) (pet.Record, error)
	UserPets(ctx context.Context, owner string) ([]uint64, error)
}

type AchievementLister interface {
	WithStatus(ctx context.Context, petID uint64, source string) ([]pet.Achievement, error)
	ForPet(ctx context.Context, petID uint64, source string) (pet.PetAchievements, error)
	ForUser(ctx context.Context, owner string) ([]pet.Achievement, error)
}

type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

type Handler struct {
	Pets         PetReader
	Achievements AchievementLister
	MetadataUC   metadata.UseCase
	JobsUC       jobs.UseCase
	AssetsUC     assets.UseCase

	Clipgen  *upstream.Client
	Imagegen *upstream.Client
	Objects  ports.ObjectFetcher

	ProxyMetrics ports.ProxyMetrics
	Requests     RequestObserver
	KPI          kpiSnapshotProvider
	Prometheus   http.Handler

	DefaultSource  string
	JobWaitTimeout time.Duration
	Logger         *zap.Logger
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())
	if h.Requests != nil {
		s.Use(h.observeRequests())
	}

	clip := s.Group("/api/clipgen")
	clip.Any("/generate-videos", allow(consts.MethodPost, h.generateVideos))
	clip.Any("/status", allow(consts.MethodGet, h.jobStatus))
	clip.Any("/status/:job_id", allow(consts.MethodGet, h.jobStatus))
	s.Any("/api/imagegen/generate-image", allow(consts.MethodPost, h.generateImage))
	s.Any("/api/s3-proxy", allow(consts.MethodGet, h.objectProxy))

	api := s.Group("/api")
	api.GET("/pets/:id", h.petInfo)
	api.GET("/pets/:id/achievements", h.petAchievements)
	api.POST("/pets/:id/assets", h.generateAssets)
	api.GET("/users/:address/pets", h.userPets)
	api.GET("/users/:address/achievements", h.userAchievements)
	api.GET("/metadata/:user", h.listMetadata)
	api.GET("/metadata/:user/:pet", h.getMetadata)
	api.PUT("/metadata/:user/:pet", h.putMetadata)
	api.DELETE("/metadata/:user/:pet", h.deleteMetadata)
	api.GET("/jobs/:job_id/wait", h.waitJob)

	s.GET("/ops/kpi", h.kpi)
	if h.Prometheus != nil {
		s.GET("/metrics", adaptor.HertzHandler(h.Prometheus))
	}
}

type petResponse struct {
	TokenID uint64     `json:"token_id"`
	Pet     pet.Record `json:"pet"`
	Mood    pet.Mood   `json:"mood"`
}

func (h Handler) petInfo(c context.Context, ctx *app.RequestContext) {
	id, ok := tokenIDParam(ctx, "id")
	if !ok {
		return
	}
	rec, err := h.Pets.PetInfo(c, id, h.source(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, petResponse{TokenID: id, Pet: rec, Mood: rec.Mood()})
}

func (h Handler) userPets(c context.Context, ctx *app.RequestContext) {
	owner := strings.TrimSpace(ctx.Param("address"))
	ids, err := h.Pets.UserPets(c, owner)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if ids == nil {
		ids = []uint64{}
	}
	ctx.JSON(consts.StatusOK, map[string]any{"owner": owner, "pet_ids": ids})
}

func (h Handler) petAchievements(c context.Context, ctx *app.RequestContext) {
	if h.Achievements == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "achievement contract not configured")
		return
	}
	id, ok := tokenIDParam(ctx, "id")
	if !ok {
		return
	}
	if ctx.Query("earned") == "true" {
		earned, err := h.Achievements.ForPet(c, id, h.source(ctx))
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, earned)
		return
	}
	list, err := h.Achievements.WithStatus(c, id, h.source(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	if list == nil {
		list = []pet.Achievement{}
	}
	ctx.JSON(consts.StatusOK, map[string]any{"pet_id": id, "achievements": list})
}

func (h Handler) userAchievements(c context.Context, ctx *app.RequestContext) {
	if h.Achievements == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "achievement contract not configured")
		return
	}
	owner := strings.TrimSpace(ctx.Param("address"))
	list, err := h.Achievements.ForUser(c, owner)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if list == nil {
		list = []pet.Achievement{}
	}
	ctx.JSON(consts.StatusOK, map[string]any{"owner": owner, "achievements": list})
}

type assetsRequest struct {
	WalletAddress string           `json:"wallet_address"`
	PetName       string           `json:"pet_name"`
	CreatureType  pet.CreatureType `json:"creature_type"`
	Stage         int              `json:"evolution_stage"`
	Happiness     int              `json:"happiness"`
	Hunger        int              `json:"hunger"`
	Health        int              `json:"health"`
}

func (h Handler) generateAssets(c context.Context, ctx *app.RequestContext) {
	id, ok := tokenIDParam(ctx, "id")
	if !ok {
		return
	}
	var body assetsRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	log := h.logger().With(zap.Uint64("token_id", id))
	resp, err := h.AssetsUC.Execute(c, assets.Request{
		WalletAddress: body.WalletAddress,
		TokenID:       id,
		PetName:       body.PetName,
		Creature:      body.CreatureType,
		Stage:         pet.ClampStage(body.Stage),
		Happiness:     body.Happiness,
		Hunger:        body.Hunger,
		Health:        body.Health,
	}, func(msg string, pct int) {
		log.Debug("asset progress", zap.String("step", msg), zap.Int("percent", pct))
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) listMetadata(c context.Context, ctx *app.RequestContext) {
	resp, err := h.MetadataUC.List(c, ctx.Param("user"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) getMetadata(c context.Context, ctx *app.RequestContext) {
	petID, ok := tokenIDParam(ctx, "pet")
	if !ok {
		return
	}
	m, err := h.MetadataUC.Get(c, ctx.Param("user"), petID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, m)
}

func (h Handler) putMetadata(c context.Context, ctx *app.RequestContext) {
	petID, ok := tokenIDParam(ctx, "pet")
	if !ok {
		return
	}
	var patch pet.MetadataPatch
	if err := decodeJSON(ctx, &patch); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	m, err := h.MetadataUC.Save(c, metadata.SaveRequest{
		WalletAddress: ctx.Param("user"),
		PetID:         petID,
		Patch:         patch,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, m)
}

func (h Handler) deleteMetadata(c context.Context, ctx *app.RequestContext) {
	petID, ok := tokenIDParam(ctx, "pet")
	if !ok {
		return
	}
	if err := h.MetadataUC.Delete(c, ctx.Param("user"), petID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(consts.StatusNoContent)
}

func (h Handler) waitJob(c context.Context, ctx *app.RequestContext) {
	jobID := strings.TrimSpace(ctx.Param("job_id"))
	timeout := h.JobWaitTimeout
	if timeout <= 0 {
		timeout = DefaultJobWaitTimeout
	}
	waitCtx, cancel := context.WithTimeout(c, timeout)
	defer cancel()

	media, err := h.JobsUC.Wait(waitCtx, jobID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"job_id":  jobID,
		"videos":  media,
		"missing": media.Missing(),
	})
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) source(ctx *app.RequestContext) string {
	if s := strings.TrimSpace(ctx.Query("source")); s != "" {
		return s
	}
	return h.DefaultSource
}

func (h Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func tokenIDParam(ctx *app.RequestContext, key string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(ctx.Param(key)), 10, 64)
	if err != nil || id == 0 || id > scval.MaxSafeInteger {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_id", key+" must be a positive integer within the safe range")
		return 0, false
	}
	return id, true
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	var upErr *ports.UpstreamError
	switch {
	case errors.Is(err, contract.ErrInvalidRequest),
		errors.Is(err, metadata.ErrInvalidRequest),
		errors.Is(err, jobs.ErrInvalidRequest),
		errors.Is(err, jobpoll.ErrInvalidRequest),
		errors.Is(err, assets.ErrInvalidRequest),
		errors.Is(err, pet.ErrInvalidName):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, jobpoll.ErrJobFailed):
		writeErrorBody(ctx, consts.StatusBadGateway, "job_failed", err.Error())
	case errors.Is(err, jobpoll.ErrJobTimeout), errors.Is(err, context.DeadlineExceeded):
		writeErrorBody(ctx, consts.StatusGatewayTimeout, "job_timeout", err.Error())
	case errors.Is(err, ports.ErrSimulation):
		writeErrorBody(ctx, consts.StatusBadGateway, "simulation_failed", err.Error())
	case errors.As(err, &upErr):
		writeErrorBody(ctx, consts.StatusBadGateway, "upstream_error", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
