// Package starvault wires the settlement engine together: config, the
// catalog source, the selected ledger adapter and the coordinator.
package starvault

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/starvault/starvault/starvault/catalog"
	"github.com/starvault/starvault/starvault/database"
	"github.com/starvault/starvault/starvault/economy"
	"github.com/starvault/starvault/starvault/gacha"
	"github.com/starvault/starvault/starvault/ledger"
	"github.com/starvault/starvault/starvault/valuation"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Engine struct {
	Cfg         Config
	Version     string
	Commit      string
	DB          *database.DB
	Store       ledger.Store
	Catalog     *catalog.Catalog
	Values      *valuation.Calculator
	Coordinator *economy.Coordinator
}

func New(cfg Config, version string, commit string) *Engine {
	return &Engine{
		Cfg:     cfg,
		Version: version,
		Commit:  commit,
	}
}

// Setup loads the catalog, opens the configured ledger store and builds
// the coordinator.
func (e *Engine) Setup(ctx context.Context) error {
	cat, err := e.loadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	e.Catalog = cat

	store, err := e.openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open ledger store: %w", err)
	}
	e.Store = store

	e.Values = valuation.NewCalculator(valuation.Config{
		ROIPercentage: e.Cfg.Economy.ROIPercentage,
		SellRatio:     e.Cfg.Economy.SellRatio,
	})

	resolver := gacha.NewResolver(rand.New(rand.NewSource(time.Now().UnixNano())))
	e.Coordinator = economy.NewCoordinator(store, cat, resolver, e.Values, economy.Config{
		MaxOpenQuantity:  e.Cfg.Economy.MaxOpenQuantity,
		OperationTimeout: time.Duration(e.Cfg.Economy.OperationTimeoutSeconds) * time.Second,
		Daily:            grantRule(e.Cfg.Economy.Daily, economy.DefaultDailyRule()),
		Busk:             grantRule(e.Cfg.Economy.Busk, economy.DefaultBuskRule()),
	})

	slog.Info("Engine ready",
		slog.String("store", e.Cfg.Store.Driver),
		slog.Int("cards", len(cat.Cards())),
		slog.Int("packs", len(cat.Packs())))
	return nil
}

func grantRule(cfg GrantConfig, fallback economy.GrantRule) economy.GrantRule {
	if cfg == (GrantConfig{}) {
		return fallback
	}
	return economy.GrantRule{
		Min:      cfg.Min,
		Max:      cfg.Max,
		Cooldown: time.Duration(cfg.CooldownMinutes) * time.Minute,
	}
}

func (e *Engine) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	switch e.Cfg.Catalog.Source {
	case "spaces":
		loader, err := catalog.NewSpacesLoader(
			e.Cfg.Spaces.Key,
			e.Cfg.Spaces.Secret,
			e.Cfg.Spaces.Region,
			e.Cfg.Spaces.Bucket,
			e.Cfg.Spaces.Root,
		)
		if err != nil {
			return nil, err
		}
		return loader.Load(ctx)
	default:
		return catalog.LoadFiles(e.Cfg.Catalog.CardsPath, e.Cfg.Catalog.PacksPath)
	}
}

func (e *Engine) openStore(ctx context.Context) (ledger.Store, error) {
	startingBalance := e.Cfg.Economy.StartingBalanceOrDefault()

	switch e.Cfg.Store.Driver {
	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(e.Cfg.Mongo.URI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		return ledger.NewMongoStore(client, e.Cfg.Mongo.Database, startingBalance), nil

	case "file":
		return ledger.NewMemoryStore(e.Cfg.Store.Path, startingBalance)

	default:
		db, err := database.New(ctx, e.Cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := db.InitializeSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		e.DB = db
		return ledger.NewPostgresStore(db.BunDB(), startingBalance), nil
	}
}

// Close releases the store and any database resources.
func (e *Engine) Close(ctx context.Context) {
	if e.Store != nil {
		if err := e.Store.Close(ctx); err != nil {
			slog.Error("Failed to close ledger store", slog.Any("error", err))
		}
	}
	if e.DB != nil {
		e.DB.Close()
	}
}
