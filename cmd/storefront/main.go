package main

import (
	"context"
	"os"
	"time"

	"storefront-client/config"
	"storefront-client/internal/gateway"
	"storefront-client/internal/infrastructure/imagecache"
	"storefront-client/internal/store"
	"storefront-client/pkg/logger"
	"storefront-client/pkg/notify"
	"storefront-client/pkg/utils"
)

// Smoke entrypoint: wires the gateway and both stores against a live
// backend, loads the session's cart and favorites, and logs derived
// totals. Exits non-zero when initialization fails.
func main() {
	cfg := config.LoadConfig()

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	client, err := gateway.NewClient(gateway.Options{
		BaseURL:      cfg.APIBaseURL,
		SessionToken: cfg.SessionToken,
		Timeout:      cfg.RequestTimeout,
		RPS:          cfg.GatewayRPS,
		Burst:        cfg.GatewayBurst,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize gateway client")
	}

	// Image proxy resolver with TTL cache
	// Default expiration from config, cleanup every 2x TTL
	images := imagecache.NewResolver(
		imagecache.NewMemoryCache(cfg.ImageCacheTTL, 2*cfg.ImageCacheTTL),
		cfg.ImageProxyURL,
		cfg.ImageCacheTTL,
	)

	notifier := notify.NewLogNotifier(*log)

	cartStore := store.NewCartStore(client, store.CartOptions{
		ShippingCost:          cfg.ShippingCost,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		Notifier:              notifier,
		Images:                images,
	})
	favStore := store.NewFavoritesStore(client, store.FavoritesOptions{
		DefaultSortType: cfg.DefaultSortType,
		Notifier:        notifier,
		Images:          images,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := cartStore.InitializeCart(ctx); err != nil {
		log.Fatal().Err(err).Msg("Cart initialization failed")
	}
	cart := cartStore.Snapshot()
	if cart.Err != "" {
		log.Error().Str("error", cart.Err).Msg("Cart failed to load")
		os.Exit(1)
	}

	summary := cartStore.Checkout()
	log.Info().
		Int("items", cartStore.ItemCount()).
		Int("units", cartStore.TotalQuantity()).
		Float64("subtotal", summary.Subtotal).
		Float64("shipping", summary.Shipping).
		Float64("total", summary.Total).
		Msg("Cart loaded")

	// Favorites need the session's user id for the lists fetch
	if cfg.SessionToken == "" {
		log.Warn().Msg("No session token, skipping favorites")
		return
	}
	userID, err := utils.SessionUserID(cfg.SessionToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not read user id from session token")
	}

	if err := favStore.InitializeFavoritesAndLists(ctx, userID); err != nil {
		log.Fatal().Err(err).Msg("Favorites initialization failed")
	}
	favs := favStore.Snapshot()
	if favs.Err != "" {
		log.Error().Str("error", favs.Err).Msg("Favorites failed to load")
		os.Exit(1)
	}

	log.Info().
		Int("favorites", len(favs.Products)).
		Int("lists", len(favs.Lists)).
		Str("sort", favs.SortType).
		Msg("Favorites loaded")
}
