// Package routes defines the API routing configuration.
// It wires repositories, services and handlers together and groups the HTTP
// surface by actor, applying the middleware each group requires.
package routes

import (
	"legalconnect/internal/config"
	"legalconnect/internal/gateway/razorpayx"
	"legalconnect/internal/handlers"
	"legalconnect/internal/middleware"
	"legalconnect/internal/models"
	"legalconnect/internal/notifier"
	"legalconnect/internal/obs"
	"legalconnect/internal/repositories"
	"legalconnect/internal/services/cases"
	"legalconnect/internal/services/opinions"
	"legalconnect/internal/services/payouts"
	"legalconnect/internal/services/registry"
	"legalconnect/internal/services/reputation"
	"legalconnect/internal/services/router"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"gorm.io/gorm"
)

// Services exposes the long-lived services the server entrypoint needs after
// routing is wired, mainly for background sweeps.
type Services struct {
	Payouts payouts.Service
}

// SetupRoutes configures all application routes.
// It builds the dependency graph bottom-up: repositories, gateway adapter,
// services, then handlers.
func SetupRoutes(app *fiber.App, db *gorm.DB) *Services {
	// Initialize repositories
	practitionerRepo := repositories.NewPractitionerRepository(db)
	caseRepo := repositories.NewCaseRepository(db)
	payoutRepo := repositories.NewPayoutRepository(db)
	ratingRepo := repositories.NewRatingRepository(db)

	metrics := obs.NewMetrics()
	notify := notifier.NewLogNotifier()

	// External payout gateway adapter
	gw := razorpayx.NewClient(razorpayx.Config{
		BaseURL:       config.GetEnv("PAYOUT_GATEWAY_URL", ""),
		KeyID:         config.GetEnv("PAYOUT_GATEWAY_KEY", ""),
		KeySecret:     config.GetEnv("PAYOUT_GATEWAY_SECRET", ""),
		AccountNumber: config.GetEnv("PAYOUT_GATEWAY_ACCOUNT", ""),
	})

	// Initialize services in dependency order
	routerService := router.NewService(practitionerRepo, caseRepo, repositories.CacheService, metrics)
	registryService := registry.NewService(practitionerRepo, caseRepo, repositories.CacheService, metrics)
	caseService := cases.NewService(caseRepo, notify, metrics, cases.Config{})
	opinionService := opinions.NewService(caseRepo, notify, metrics)
	reputationService := reputation.NewService(ratingRepo, repositories.CacheService)
	payoutService := payouts.NewService(
		payoutRepo,
		practitionerRepo,
		caseRepo,
		gw,
		notify,
		metrics,
		payouts.Config{
			AutoConfirmAfter:   config.GetDurationEnv("PAYOUT_AUTO_CONFIRM_AFTER", payouts.DefaultAutoConfirmAfter),
			RequeueFailedAfter: config.GetDurationEnv("PAYOUT_REQUEUE_FAILED_AFTER", payouts.DefaultRequeueFailedAfter),
			BatchSize:          config.GetIntEnv("PAYOUT_BATCH_SIZE", payouts.DefaultBatchSize),
			GatewayRPS:         config.GetIntEnv("PAYOUT_GATEWAY_RPS", payouts.DefaultGatewayRPS),
		},
	)

	// Initialize handlers
	caseHandler := handlers.NewCaseHandler(caseService)
	opinionHandler := handlers.NewOpinionHandler(opinionService)
	ratingHandler := handlers.NewRatingHandler(reputationService)
	practitionerHandler := handlers.NewPractitionerHandler(registryService, routerService)
	payoutHandler := handlers.NewPayoutHandler(payoutService)
	webhookHandler := handlers.NewWebhookHandler(payoutService, config.GetEnv("PAYOUT_WEBHOOK_SECRET", ""))

	// Root welcome route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to LegalConnect API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	// Unauthenticated surface: gateway callbacks and infra probes
	app.Post("/webhooks/payouts", webhookHandler.HandlePayoutEvent)
	app.Get("/health", handlers.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(obs.Handler()))

	// Protected routes with auth middleware
	api := app.Group("/api")
	protected := api.Use(middleware.Authenticate)

	setupCaseRoutes(protected, caseHandler, opinionHandler, ratingHandler, payoutHandler)
	setupPractitionerRoutes(protected, practitionerHandler, ratingHandler, payoutHandler)
	setupPayoutRoutes(protected, payoutHandler)

	// Debug endpoint for inspecting the authenticated actor
	protected.Get("/debug/claims", func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.ActorClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No claims found",
			})
		}
		return c.JSON(fiber.Map{
			"actor_id":    claims.ActorID,
			"email":       claims.Email,
			"role":        claims.Role,
			"permissions": claims.Permissions,
		})
	})

	protected.Get("/debug/cache-stats", middleware.RequireRole("operator"), handlers.CacheStats)

	return &Services{Payouts: payoutService}
}

func setupCaseRoutes(router fiber.Router, caseHandler *handlers.CaseHandler, opinionHandler *handlers.OpinionHandler, ratingHandler *handlers.RatingHandler, payoutHandler *handlers.PayoutHandler) {
	cases := router.Group("/cases")

	// Intake and oversight (operator)
	cases.Post("/", middleware.HasPermission(models.PermissionCaseRoute), caseHandler.CreateCase)
	cases.Get("/", middleware.HasPermission(models.PermissionCaseRead), caseHandler.ListCases)
	cases.Get("/:number", middleware.HasPermission(models.PermissionCaseRead), caseHandler.GetCase)
	cases.Post("/:number/reassign", middleware.HasPermission(models.PermissionCaseRoute), caseHandler.ReassignCase)
	cases.Post("/:number/complete", middleware.HasPermission(models.PermissionCaseRoute), caseHandler.CompleteCase)

	// Assignment responses (practitioner)
	cases.Post("/:number/accept", middleware.HasPermission(models.PermissionCaseProgress), caseHandler.AcceptCase)
	cases.Post("/:number/decline", middleware.HasPermission(models.PermissionCaseProgress), caseHandler.DeclineCase)

	// Opinion workflow
	cases.Post("/:number/opinion", middleware.HasPermission(models.PermissionOpinionWrite), opinionHandler.SubmitOpinion)
	cases.Get("/:number/opinion", middleware.HasPermission(models.PermissionCaseRead), opinionHandler.GetOpinion)
	cases.Post("/:number/opinion/review", middleware.HasPermission(models.PermissionOpinionReview), opinionHandler.ReviewOpinion)
	cases.Post("/:number/deliver", middleware.HasPermission(models.PermissionCaseRoute), opinionHandler.DeliverOpinion)

	// Reputation and settlement views
	cases.Post("/:number/rating", middleware.HasPermission(models.PermissionRatingWrite), ratingHandler.SubmitRating)
	cases.Get("/:number/payout", middleware.HasPermission(models.PermissionPayoutRead), payoutHandler.GetCasePayout)
	cases.Post("/:number/payout", middleware.HasPermission(models.PermissionPayoutExecute), payoutHandler.CreateCasePayout)
}

func setupPractitionerRoutes(router fiber.Router, h *handlers.PractitionerHandler, ratingHandler *handlers.RatingHandler, payoutHandler *handlers.PayoutHandler) {
	practitioners := router.Group("/practitioners")

	// Routing query must come before the :id routes so "match" is not
	// swallowed as a parameter.
	practitioners.Get("/match", middleware.HasPermission(models.PermissionCaseRoute), h.Match)

	practitioners.Post("/", middleware.HasPermission(models.PermissionRegistryWrite), h.Register)
	practitioners.Get("/", middleware.HasPermission(models.PermissionRegistryWrite), h.ListPractitioners)
	practitioners.Get("/:id", middleware.HasPermission(models.PermissionCaseRead), h.GetPractitioner)
	practitioners.Post("/:id/verification", middleware.HasPermission(models.PermissionRegistryWrite), h.ReviewVerification)
	practitioners.Patch("/:id/commission-rate", middleware.HasPermission(models.PermissionRegistryWrite), h.UpdateCommissionRate)
	practitioners.Post("/:id/suspend", middleware.HasPermission(models.PermissionRegistryWrite), h.Suspend)
	practitioners.Post("/:id/dnd", middleware.HasPermission(models.PermissionProfileWrite), h.SetDoNotDisturb)

	practitioners.Post("/:id/bank-accounts", middleware.HasPermission(models.PermissionProfileWrite), h.AddBankAccount)
	practitioners.Get("/:id/bank-accounts", middleware.HasPermission(models.PermissionProfileWrite), h.ListBankAccounts)

	practitioners.Get("/:id/ratings", middleware.HasPermission(models.PermissionCaseRead), ratingHandler.ListPractitionerRatings)
	practitioners.Get("/:id/payouts", middleware.HasPermission(models.PermissionPayoutRead), payoutHandler.ListPractitionerPayouts)
}

func setupPayoutRoutes(router fiber.Router, payoutHandler *handlers.PayoutHandler) {
	payouts := router.Group("/payouts")

	payouts.Post("/batch", middleware.HasPermission(models.PermissionPayoutExecute), payoutHandler.RunSettlementBatch)
	payouts.Get("/:id", middleware.HasPermission(models.PermissionPayoutRead), payoutHandler.GetPayout)
	payouts.Post("/:id/execute", middleware.HasPermission(models.PermissionPayoutExecute), payoutHandler.ExecutePayout)
}
