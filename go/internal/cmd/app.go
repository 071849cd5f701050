package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/YarikYar/alias/go/clients/alias_api_client"
	"github.com/YarikYar/alias/go/internal/game/gateway"
	"github.com/YarikYar/alias/go/internal/game/gesture"
	"github.com/YarikYar/alias/go/internal/game/session"
	"github.com/YarikYar/alias/go/internal/game/store"
	"github.com/YarikYar/alias/go/internal/platform"
	"github.com/YarikYar/alias/go/internal/relay"
)

// app holds every component of one client process
type app struct {
	cfg        *Config
	initData   *platform.InitData
	store      *store.Store
	dispatcher *gateway.Dispatcher
	manager    *gateway.Manager
	api        *alias_api_client.AliasApiClient
	client     *session.Client
	recognizer *gesture.Recognizer
	button     *platform.HeadlessButton
	server     *http.Server

	redis *redis.Client
	nats  *nats.Conn
}

func newApp(cfg *Config) (*app, error) {
	initData, err := platform.ParseInitData(cfg.InitData)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		initData: initData,
		button:   &platform.HeadlessButton{},
	}

	a.store = store.New(
		store.WithRoundSeconds(cfg.RoundSeconds),
		store.WithUser(initData.User),
	)
	a.dispatcher = gateway.NewDispatcher(a.store)
	a.manager = gateway.NewManager(cfg.Gateway, a.dispatcher,
		gateway.WithTokenSource(gateway.StaticToken(initData.Raw)),
		gateway.WithStatusObserver(gateway.TrackConnection(a.store)),
	)
	a.api = alias_api_client.NewAliasApiClient(cfg.APIURL, initData.Raw)

	slot, err := a.newSlot()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.client = session.NewClient(a.store, a.api, a.manager, slot)

	var sender gateway.SwipeSender = gateway.NewExplainerGate(a.store, a.manager)
	if cfg.Relay.URL != "" {
		r, nc, err := relay.Connect(cfg.Relay)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.nats = nc
		a.dispatcher.AddObserver(r)
		sender = r.Swipes(sender, a.roomID)
		log.Info().Str("nats_url", cfg.Relay.URL).Str("subject_prefix", cfg.Relay.SubjectPrefix).Msg("relay enabled")
	}
	a.recognizer = gesture.NewRecognizer(cfg.Gesture, sender, platform.LogHaptics{})

	return a, nil
}

func (a *app) newSlot() (platform.RoomSlot, error) {
	if a.cfg.Slot.Backend != "redis" {
		return &platform.MemorySlot{}, nil
	}
	if a.initData.User == nil {
		log.Warn().Msg("redis slot needs a user in init data, remembering room in memory")
		return &platform.MemorySlot{}, nil
	}

	a.redis = redis.NewClient(&redis.Options{Addr: a.cfg.Slot.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.redis.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", a.cfg.Slot.RedisAddr, err)
	}
	return platform.NewRedisSlot(a.redis, a.initData.User.ID, a.cfg.Slot.TTL), nil
}

func (a *app) roomID() string {
	if room := a.store.Room(); room != nil {
		return room.ID.String()
	}
	return ""
}

// serveState starts the read-only state endpoint if http_addr is set
func (a *app) serveState() {
	if a.cfg.HTTPAddr == "" {
		return
	}
	a.server = &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      gateway.NewStateHandler(a.store, a.manager, a.dispatcher).Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		log.Info().Str("addr", a.server.Addr).Msg("state server starting")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("state server failed")
		}
	}()
}

// Close releases everything the app opened. The remembered room is kept.
func (a *app) Close() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("state server shutdown failed")
		}
		cancel()
	}
	if a.client != nil {
		a.client.Close()
	} else if a.manager != nil {
		a.manager.Close()
	}
	if a.nats != nil {
		a.nats.Drain()
	}
	if a.redis != nil {
		a.redis.Close()
	}
}
