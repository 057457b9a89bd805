package deps

import (
	"context"
	"fmt"
	"log"

	"github.com/bwise1/viff_planner/config"
	"github.com/bwise1/viff_planner/internal/db"
	"github.com/bwise1/viff_planner/internal/http/opencage"
	"github.com/bwise1/viff_planner/internal/itinerary"
	"github.com/bwise1/viff_planner/internal/journal"
	"github.com/bwise1/viff_planner/internal/kv"
	"github.com/bwise1/viff_planner/internal/model"
	"github.com/bwise1/viff_planner/internal/seed"
	"github.com/bwise1/viff_planner/util/values"
	"github.com/bwise1/viff_planner/util/websockets"
)

type Dependencies struct {
	DB        *db.DB
	KV        kv.Store
	Geocoder  *opencage.Client
	Itinerary *itinerary.Store
	Journal   *journal.Store
	WebSocket *websockets.WebSocketManager
}

func New(cfg *config.Config) (*Dependencies, error) {
	d := &Dependencies{}

	store, err := d.openStore(cfg)
	if err != nil {
		return nil, err
	}
	d.KV = store

	geocoder, err := opencage.NewClient(cfg.OpenCageAPIKey).WithBaseURL(cfg.OpenCageBaseURL)
	if err != nil {
		d.Close()
		return nil, err
	}
	if cfg.GeocodeTimeout > 0 {
		geocoder.HTTPClient.Timeout = cfg.GeocodeTimeout
	}
	geocoder.Concurrency = cfg.GeocodeConcurrency
	d.Geocoder = geocoder

	d.WebSocket = websockets.NewWebSocketManager()
	d.Itinerary = itinerary.NewStore(store, geocoder, seed.VIFFVenues)
	d.Journal = journal.NewStore(store, seed.SampleJournal)

	d.Itinerary.OnChange(func(markers []model.Marker) {
		d.WebSocket.Publish(values.TopicItinerary, markers)
	})
	d.Journal.OnChange(func(entries []model.JournalEntry) {
		d.WebSocket.Publish(values.TopicJournal, entries)
	})

	return d, nil
}

func (d *Dependencies) openStore(cfg *config.Config) (kv.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory, "":
		log.Println("[Deps]: using in-memory store, data is lost on restart")
		return kv.NewMemory(), nil

	case config.BackendRedis:
		client := kv.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword)
		if client == nil {
			return nil, fmt.Errorf("redis backend selected but REDIS_ADDR is empty")
		}
		return kv.NewRedis(client, cfg.RedisPrefix), nil

	case config.BackendPostgres:
		database, err := db.New(cfg.Dsn)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		store := kv.NewPostgres(database.Pool())
		if err := store.EnsureSchema(context.Background()); err != nil {
			database.Close()
			return nil, err
		}
		d.DB = database
		return store, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func (d *Dependencies) Close() {
	if d.KV != nil {
		if err := d.KV.Close(); err != nil {
			log.Printf("[Deps]: closing store: %v", err)
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
