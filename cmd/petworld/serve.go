package main

import (
	"context"

	httpadapter "petworld/internal/adapter/http"
	"petworld/internal/app/assets"
	"petworld/internal/app/jobs"
	"petworld/internal/app/metadata"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and proxy endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()

			h, cleanup, err := buildHandler(cmd.Context(), e)
			if err != nil {
				return err
			}
			defer cleanup()

			s := server.Default(server.WithHostPorts(e.cfg.HTTP.Addr))
			h.RegisterRoutes(s)
			e.log.Info("petworld server listening", zap.String("addr", e.cfg.HTTP.Addr), zap.String("pet_contract", e.cfg.Ledger.PetContract))
			s.Spin()
			return nil
		},
	}
}

func buildHandler(ctx context.Context, e *env) (httpadapter.Handler, func(), error) {
	reader, err := e.reader()
	if err != nil {
		return httpadapter.Handler{}, nil, err
	}
	videos, clipClient, err := e.videos()
	if err != nil {
		return httpadapter.Handler{}, nil, err
	}
	images, imageClient, err := e.images()
	if err != nil {
		return httpadapter.Handler{}, nil, err
	}
	objects, err := e.objects()
	if err != nil {
		return httpadapter.Handler{}, nil, err
	}
	rs, err := e.repos(ctx)
	if err != nil {
		return httpadapter.Handler{}, nil, err
	}
	cache, closeCache, err := e.jobCache(ctx)
	if err != nil {
		_ = rs.close()
		return httpadapter.Handler{}, nil, err
	}
	cleanup := func() {
		_ = closeCache()
		_ = rs.close()
	}

	h := httpadapter.Handler{
		Pets: reader,
		MetadataUC: metadata.UseCase{
			TxManager: rs.tx,
			Users:     rs.users,
			Metadata:  rs.metadata,
		},
		JobsUC: jobs.UseCase{
			Videos:   videos,
			Cache:    cache,
			CacheTTL: e.cfg.Redis.JobTTL,
			Poller:   e.poller(),
			Logger:   e.log.Named("jobs"),
		},
		AssetsUC: assets.UseCase{
			TxManager: rs.tx,
			Users:     rs.users,
			Metadata:  rs.metadata,
			Images:    images,
			Videos:    videos,
			Objects:   objects,
			Poller:    e.poller(),
			Logger:    e.log.Named("assets"),
		},
		Clipgen:        clipClient,
		Imagegen:       imageClient,
		Objects:        objects,
		ProxyMetrics:   e.metrics(),
		Requests:       e.prom,
		KPI:            e.kpi,
		Prometheus:     promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}),
		DefaultSource:  e.cfg.Ledger.Source,
		JobWaitTimeout: e.cfg.HTTP.JobWaitTimeout,
		Logger:         e.log.Named("http"),
	}
	if ach, err := e.achievements(); err == nil {
		h.Achievements = ach
	} else {
		e.log.Warn("achievement routes disabled", zap.Error(err))
	}
	return h, cleanup, nil
}
