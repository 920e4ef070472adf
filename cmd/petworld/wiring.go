package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	memcache "petworld/internal/adapter/cache/memory"
	rediscache "petworld/internal/adapter/cache/redis"
	"petworld/internal/adapter/clipgen"
	"petworld/internal/adapter/imagegen"
	"petworld/internal/adapter/ledger/rpc"
	"petworld/internal/adapter/ledger/signer"
	"petworld/internal/adapter/metrics"
	"petworld/internal/adapter/metrics/inmemory"
	"petworld/internal/adapter/metrics/prom"
	"petworld/internal/adapter/objectstore"
	gormrepo "petworld/internal/adapter/repo/gorm"
	"petworld/internal/adapter/repo/memory"
	"petworld/internal/adapter/upstream"
	"petworld/internal/app/contract"
	"petworld/internal/app/jobpoll"
	"petworld/internal/app/ports"
	"petworld/internal/config"
	"petworld/internal/logging"
	"petworld/internal/retry"
	"petworld/internal/scval"
	"petworld/migrations"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

var errNotConfigured = errors.New("not configured")

// env is everything a command needs, built once from config. Clients are
// created on demand so a command only requires the settings it uses.
type env struct {
	cfg      config.Config
	log      *zap.Logger
	kpi      *inmemory.Recorder
	registry *prometheus.Registry
	prom     *prom.Recorder
}

func loadEnv(opts *rootOptions) (*env, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return nil, err
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return &env{
		cfg:      cfg,
		log:      log,
		kpi:      inmemory.NewRecorder(),
		registry: reg,
		prom:     prom.NewRecorder(reg),
	}, nil
}

func (e *env) metrics() metrics.Fanout {
	return metrics.Fanout{e.kpi, e.prom}
}

func (e *env) client(service, baseURL string) (*upstream.Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("%s: %w", service, errNotConfigured)
	}
	timeout := e.cfg.Media.Timeout
	if service == "ledger" || service == "signer" {
		timeout = e.cfg.Ledger.Timeout
	}
	return upstream.New(service, baseURL, timeout)
}

func (e *env) decoder() scval.Decoder {
	return scval.New(scval.WithObserver(contract.DecodeObserver(e.metrics(), e.log.Named("decode"))))
}

func (e *env) transport() (ports.LedgerTransport, error) {
	c, err := e.client("ledger", e.cfg.Ledger.RPCURL)
	if err != nil {
		return nil, err
	}
	return rpc.New(c), nil
}

func (e *env) reader() (contract.Reader, error) {
	t, err := e.transport()
	if err != nil {
		return contract.Reader{}, err
	}
	return contract.Reader{Transport: t, Contract: e.cfg.Ledger.PetContract, Decoder: e.decoder()}, nil
}

func (e *env) achievements() (contract.AchievementReader, error) {
	if strings.TrimSpace(e.cfg.Ledger.AchievementContract) == "" {
		return contract.AchievementReader{}, fmt.Errorf("ledger.achievement_contract: %w", errNotConfigured)
	}
	t, err := e.transport()
	if err != nil {
		return contract.AchievementReader{}, err
	}
	return contract.AchievementReader{
		Transport: t,
		Contract:  e.cfg.Ledger.AchievementContract,
		Decoder:   e.decoder(),
		Logger:    e.log.Named("achievements"),
	}, nil
}

func (e *env) writer() (contract.Writer, error) {
	r, err := e.reader()
	if err != nil {
		return contract.Writer{}, err
	}
	return contract.Writer{
		Invoker: contract.Invoker{
			Transport:         r.Transport,
			NetworkPassphrase: e.cfg.Ledger.NetworkPassphrase,
			Confirm:           retry.Policy{MaxAttempts: e.cfg.Ledger.ConfirmAttempts, Interval: e.cfg.Ledger.ConfirmInterval},
			Logger:            e.log.Named("invoker"),
		},
		Reader:      r,
		SettleDelay: e.cfg.Ledger.SettleDelay,
		Logger:      e.log.Named("writer"),
	}, nil
}

func (e *env) signer() (ports.Signer, error) {
	c, err := e.client("signer", e.cfg.Ledger.SignerURL)
	if err != nil {
		return nil, err
	}
	return signer.New(c), nil
}

func (e *env) videos() (*clipgen.Client, *upstream.Client, error) {
	c, err := e.client("clipgen", e.cfg.Media.ClipgenURL)
	if err != nil {
		return nil, nil, err
	}
	return clipgen.New(c), c, nil
}

func (e *env) images() (*imagegen.Client, *upstream.Client, error) {
	c, err := e.client("imagegen", e.cfg.Media.ImagegenURL)
	if err != nil {
		return nil, nil, err
	}
	return imagegen.New(c), c, nil
}

func (e *env) objects() (*objectstore.Store, error) {
	c, err := e.client("s3", e.cfg.Media.S3URL)
	if err != nil {
		return nil, err
	}
	return objectstore.New(c), nil
}

func (e *env) poller() jobpoll.Poller {
	return jobpoll.Poller{
		Policy:  retry.Policy{MaxAttempts: e.cfg.Media.PollAttempts, Interval: e.cfg.Media.PollInterval},
		Metrics: e.metrics(),
		Logger:  e.log.Named("jobpoll"),
	}
}

type repos struct {
	users    ports.UserRepository
	metadata ports.MetadataRepository
	tx       ports.TxManager
	close    func() error
}

func (e *env) repos(ctx context.Context) (repos, error) {
	if e.cfg.DB.Driver == "memory" {
		store := memory.NewStore()
		return repos{
			users:    memory.NewUserRepo(store),
			metadata: memory.NewMetadataRepo(store),
			tx:       memory.NewTxManager(store),
			close:    func() error { return nil },
		}, nil
	}
	db, err := gormrepo.Open(e.cfg.DB.Driver, e.cfg.DB.DSN, logger.Default.LogMode(logger.Warn))
	if err != nil {
		return repos{}, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return repos{}, err
	}
	if e.cfg.DB.Driver == gormrepo.DriverSQLite {
		applied, err := gormrepo.ApplyMigrations(ctx, db, migrations.FS)
		if err != nil {
			_ = sqlDB.Close()
			return repos{}, err
		}
		if len(applied) > 0 {
			e.log.Info("applied migrations", zap.Strings("versions", applied))
		}
	}
	return repos{
		users:    gormrepo.NewUserRepo(db),
		metadata: gormrepo.NewMetadataRepo(db),
		tx:       gormrepo.NewTxManager(db),
		close:    sqlDB.Close,
	}, nil
}

func (e *env) jobCache(ctx context.Context) (ports.JobCache, func() error, error) {
	if strings.TrimSpace(e.cfg.Redis.URL) == "" {
		return memcache.NewJobCache(), func() error { return nil }, nil
	}
	client, err := rediscache.Dial(ctx, e.cfg.Redis.URL)
	if err != nil {
		return nil, nil, err
	}
	return rediscache.New(client), client.Close, nil
}
