package router

import (
	"net/http"

	"indexapi/internal/api/v1/handler"
	"indexapi/internal/cache"
	"indexapi/internal/config"
	"indexapi/internal/middleware"
	"indexapi/internal/repository"
	"indexapi/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New builds the HTTP handler tree. The snapshot cache is shared with the
// refresh scheduler, which is the only writer; handlers only read it.
func New(cfg *config.Config, pool *pgxpool.Pool, snap *cache.SnapshotCache, logger zerolog.Logger) http.Handler {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Repositories & services
	keyRepo := repository.NewKeyRepo(pool)
	alertRepo := repository.NewAlertRepo(pool)
	eventRepo := repository.NewWebhookEventRepo(pool)

	keySvc := service.NewKeyService(keyRepo, logger)
	mailer := service.NewMailerService(cfg.MailerURL, logger)
	stripeSvc := service.NewStripeService(cfg, keySvc, eventRepo, mailer, logger)
	alertSvc := service.NewAlertService(alertRepo, logger)

	// Handlers
	indexHandler := handler.NewIndexHandler(snap, logger)
	keyHandler := handler.NewKeyHandler(logger)
	alertHandler := handler.NewAlertHandler(alertSvc, validate, logger)
	billingHandler := handler.NewBillingHandler(stripeSvc, validate, logger)

	authMiddleware := middleware.Auth(keyRepo, logger)

	// Authenticated API under /v1; checkout and webhook also live there but
	// carry their own auth (none, and the Stripe signature respectively).
	apiV1Mux := http.NewServeMux()
	indexHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	keyHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	alertHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	billingHandler.RegisterRoutes(apiV1Mux)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))
	indexHandler.RegisterPublicRoutes(mux)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.Logger(logger)(c.Handler(mux))
}
