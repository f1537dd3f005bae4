package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"surgame/db/migrations"
	"surgame/internal/adapter/catalog"
	httpadapter "surgame/internal/adapter/http"
	metricsinmem "surgame/internal/adapter/metrics/inmemory"
	gormrepo "surgame/internal/adapter/repo/gorm"
	"surgame/internal/adapter/repo/memory"
	"surgame/internal/app/auth"
	"surgame/internal/app/challenge"
	"surgame/internal/app/inventory"
	"surgame/internal/app/journey"
	"surgame/internal/app/ports"
	"surgame/internal/app/stamina"
	"surgame/internal/app/treasure"
	"surgame/internal/config"

	"github.com/cloudwego/hertz/pkg/app/server"
	"go.uber.org/zap"
)

// demoPlayer is seeded in memory mode so the API can be tried without a
// database.
var demoPlayer = ports.User{ID: 1, UID: 10001}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	h, stop, err := buildHandler(context.Background(), cfg, logger)
	if err != nil {
		return err
	}

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	s.OnShutdown = append(s.OnShutdown, func(context.Context) { stop() })
	h.RegisterRoutes(s)

	logger.Info("surgame server listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("storage", cfg.Storage),
		zap.Bool("reset_routes", h.ResetAllowed),
	)
	s.Spin()
	return nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	zc := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}

// stores groups the adapters one storage mode provides.
type stores struct {
	tx        ports.TxManager
	users     ports.UserRepository
	metas     ports.ItemMetaRepository
	ledger    ports.ItemLedger
	progress  ports.ProgressRepository
	claims    ports.ClaimRepository
	records   ports.ChallengeRepository
	stamina   ports.StaminaLedger
	source    catalog.Source
	snapshot  catalog.Snapshot
	onRefresh func()
}

func buildHandler(ctx context.Context, cfg config.Config, logger *zap.Logger) (httpadapter.Handler, func(), error) {
	var (
		st  stores
		err error
	)
	switch cfg.Storage {
	case config.StorageMemory:
		st, err = memoryStores(cfg, logger)
	default:
		st, err = postgresStores(ctx, cfg, logger)
	}
	if err != nil {
		return httpadapter.Handler{}, nil, err
	}

	holder := catalog.NewHolder(st.snapshot)
	stop := func() {}
	if cfg.CatalogRefreshCron != "" {
		stop, err = catalog.StartRefresher(cfg.CatalogRefreshCron, holder, st.source, logger, st.onRefresh)
		if err != nil {
			return httpadapter.Handler{}, nil, err
		}
	}

	kpi := metricsinmem.NewRecorder()
	journeys := journey.UseCase{
		TxManager: st.tx,
		Progress:  st.progress,
		Claims:    st.claims,
		Users:     st.users,
		Ledger:    st.ledger,
		Catalogs:  holder,
		Metrics:   kpi,
		Logger:    logger,
	}
	h := httpadapter.Handler{
		AuthUC: auth.VerifyUseCase{
			Tokens:     auth.TokenCodec{Secret: []byte(cfg.JWTSecret)},
			Users:      st.users,
			PassDomain: cfg.PassDomain,
		},
		JourneyUC: journeys,
		ChallengeUC: challenge.UseCase{
			TxManager: st.tx,
			Records:   st.records,
			Stars:     journeys,
			Users:     st.users,
			Ledger:    st.ledger,
			Catalogs:  holder,
			Metrics:   kpi,
			Logger:    logger,
		},
		StaminaUC: stamina.UseCase{Ledger: st.stamina, Metrics: kpi},
		TreasureUC: treasure.UseCase{
			TxManager:      st.tx,
			Ledger:         st.ledger,
			Catalogs:       holder,
			Metas:          st.metas,
			Metrics:        kpi,
			Logger:         logger,
			GoldItemID:     cfg.ResetGoldItemID,
			GoldAmount:     cfg.ResetGoldAmount,
			KeyedDowngrade: cfg.KeyedDowngrade,
		},
		InventoryUC:  inventory.UseCase{Ledger: st.ledger, Metas: st.metas},
		KPI:          kpi,
		Logger:       logger,
		ResetAllowed: cfg.ResetAllowed(),
		CORSOrigins:  cfg.CORSOrigins,
	}
	return h, stop, nil
}

func postgresStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (stores, error) {
	db, err := gormrepo.OpenPostgres(cfg.DB.DSN, gormrepo.PoolConfig{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return stores{}, err
	}
	applied, err := gormrepo.ApplyMigrations(ctx, db, migrationFS(cfg))
	if err != nil {
		return stores{}, err
	}
	if len(applied) > 0 {
		logger.Info("migrations applied", zap.Strings("versions", applied))
	}

	metas, err := catalog.NewCachedItemMetas(gormrepo.NewItemMetaRepo(db), cfg.ItemMetaCacheSize)
	if err != nil {
		return stores{}, fmt.Errorf("item meta cache: %w", err)
	}
	source := gormrepo.NewCatalogRepo(db)
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	snapshot, err := catalog.Load(loadCtx, source)
	if err != nil {
		return stores{}, err
	}
	staminaLedger := gormrepo.NewStaminaLedger(db)
	staminaLedger.Max = cfg.StaminaMax

	return stores{
		tx:        gormrepo.NewTxManager(db),
		users:     gormrepo.NewUserRepo(db),
		metas:     metas,
		ledger:    gormrepo.NewItemLedger(db),
		progress:  gormrepo.NewProgressRepo(db),
		claims:    gormrepo.NewClaimRepo(db),
		records:   gormrepo.NewChallengeRepo(db),
		stamina:   staminaLedger,
		source:    source,
		snapshot:  snapshot,
		onRefresh: metas.Purge,
	}, nil
}

func migrationFS(cfg config.Config) fs.FS {
	if cfg.MigrationsDir != "" {
		return os.DirFS(cfg.MigrationsDir)
	}
	return migrations.FS
}

func memoryStores(cfg config.Config, logger *zap.Logger) (stores, error) {
	snapshot, err := catalog.LoadFile(cfg.CatalogFile)
	if err != nil {
		return stores{}, err
	}
	store := memory.NewStore()
	store.SeedUser(demoPlayer)
	store.SeedItemMetas(snapshot.Items)
	store.SetStaminaMax(cfg.StaminaMax)

	if cfg.JWTSecret != "" {
		token, err := auth.TokenCodec{Secret: []byte(cfg.JWTSecret)}.Issue(demoPlayer.UID, 24*time.Hour)
		if err != nil {
			return stores{}, fmt.Errorf("issue demo token: %w", err)
		}
		logger.Info("memory storage ready", zap.Int64("demo_uid", demoPlayer.UID), zap.String("demo_token", token))
	}

	return stores{
		tx:       memory.NewTxManager(store),
		users:    memory.NewUserRepo(store),
		metas:    memory.NewItemMetaRepo(store),
		ledger:   memory.NewItemLedger(store),
		progress: memory.NewProgressRepo(store),
		claims:   memory.NewClaimRepo(store),
		records:  memory.NewChallengeRepo(store),
		stamina:  memory.NewStaminaLedger(store),
		source:   catalog.FileSource{Path: cfg.CatalogFile},
		snapshot: snapshot,
		onRefresh: func() {
			if s, err := catalog.LoadFile(cfg.CatalogFile); err == nil {
				store.SeedItemMetas(s.Items)
			}
		},
	}, nil
}
