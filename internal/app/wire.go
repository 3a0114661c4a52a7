package app

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zarena/platform/internal/auth"
	"github.com/zarena/platform/internal/conversion"
	"github.com/zarena/platform/internal/guard"
	"github.com/zarena/platform/internal/handler"
	adminhandler "github.com/zarena/platform/internal/handler/admin"
	"github.com/zarena/platform/internal/ledger"
	"github.com/zarena/platform/internal/policy"
	"github.com/zarena/platform/internal/repository"
	"github.com/zarena/platform/internal/service"
	"github.com/zarena/platform/internal/settlement"
	"github.com/zarena/platform/internal/storage"
	"github.com/zarena/platform/internal/workflow"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool   *pgxpool.Pool
	Redis  *redis.Client // nil means in-process fallbacks
	JWTMgr *auth.JWTManager
	Logger *slog.Logger

	Uploader storage.Uploader // nil disables upload routes

	Limits          policy.SubmissionLimitPolicy
	Routing         policy.PayoutRoutingPolicy
	FallbackRatePKR float64
	SubmitLimit     int
	SubmitWindow    time.Duration
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	jwtMgr := deps.JWTMgr
	logger := deps.Logger

	// Repositories
	userRepo := repository.NewUserRepository()
	walletRepo := repository.NewWalletRepository()
	txRepo := repository.NewTransactionRepository()
	depositRepo := repository.NewDepositRepository()
	withdrawalRepo := repository.NewWithdrawalRepository()
	rateRepo := repository.NewRateRepository()
	tournamentRepo := repository.NewTournamentRepository()
	productRepo := repository.NewProductRepository()
	postRepo := repository.NewPostRepository()
	outboxRepo := repository.NewOutboxRepository()
	transactor := repository.NewTransactor(pool)

	// Ledger engine
	engine := ledger.NewEngine(walletRepo, txRepo, outboxRepo)

	// Guards
	depositLimiter := guard.NewRedisRateLimiter(deps.Redis, deps.SubmitLimit, deps.SubmitWindow)
	withdrawalLimiter := guard.NewRedisRateLimiter(deps.Redis, deps.SubmitLimit, deps.SubmitWindow)

	// Services
	rateSvc := conversion.NewService(pool, transactor, rateRepo, outboxRepo,
		conversion.NewRedisRateCache(deps.Redis), deps.FallbackRatePKR, logger)
	flowSvc := workflow.NewService(workflow.Config{
		DB:                pool,
		Tx:                transactor,
		Users:             userRepo,
		Deposits:          depositRepo,
		Withdrawals:       withdrawalRepo,
		Wallets:           walletRepo,
		Outbox:            outboxRepo,
		Engine:            engine,
		DepositLimiter:    depositLimiter,
		WithdrawalLimiter: withdrawalLimiter,
		Submissions:       guard.NewIdempotencyGuard(),
		Limits:            deps.Limits,
		Routing:           deps.Routing,
		Logger:            logger,
	})
	authSvc := service.NewAuthService(pool, transactor, userRepo, walletRepo, outboxRepo, jwtMgr)
	userSvc := service.NewUserService(pool, transactor, userRepo, outboxRepo, logger)
	tournamentSvc := service.NewTournamentService(pool, transactor, tournamentRepo, userRepo, outboxRepo, engine, logger)
	shopSvc := service.NewShopService(pool, transactor, productRepo, outboxRepo, engine, logger)
	contentSvc := service.NewContentService(pool, postRepo, logger)
	prizeSettlement := settlement.NewTournamentSettlement(pool, transactor, tournamentRepo, outboxRepo, engine, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	walletHandler := handler.NewWalletHandler(walletRepo, txRepo, rateSvc, pool)
	requestHandler := handler.NewRequestHandler(flowSvc)
	ratesHandler := handler.NewRatesHandler(rateSvc)
	tournamentHandler := handler.NewTournamentHandler(tournamentSvc)
	shopHandler := handler.NewShopHandler(shopSvc)
	contentHandler := handler.NewContentHandler(contentSvc)

	// Admin handlers
	requestAdmin := adminhandler.NewRequestAdminHandler(flowSvc)
	walletAdmin := adminhandler.NewWalletAdminHandler(flowSvc, engine, pool)
	userAdmin := adminhandler.NewUserAdminHandler(userSvc)
	rateAdmin := adminhandler.NewRateAdminHandler(rateSvc)
	tournamentAdmin := adminhandler.NewTournamentAdminHandler(tournamentSvc, prizeSettlement)
	shopAdmin := adminhandler.NewShopAdminHandler(shopSvc)
	contentAdmin := adminhandler.NewContentAdminHandler(contentSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS)
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// Auth routes (no auth)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Public content and rate
	r.Get("/rates/current", ratesHandler.GetCurrent)
	r.Route("/content", func(r chi.Router) {
		r.Get("/", contentHandler.List)
		r.Get("/{slug}", contentHandler.GetBySlug)
	})
	r.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{id}", tournamentHandler.Get)
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(jwtMgr))

		r.Get("/users/me", userHandler.Me)
		r.Patch("/users/me", userHandler.UpdateProfile)

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/balance", walletHandler.GetBalance)
			r.Get("/transactions", walletHandler.GetTransactions)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Post("/deposits", requestHandler.SubmitDeposit)
			r.Get("/deposits", requestHandler.ListDeposits)
			r.Get("/deposits/{id}", requestHandler.GetDeposit)
			r.Post("/withdrawals", requestHandler.SubmitWithdrawal)
			r.Get("/withdrawals", requestHandler.ListWithdrawals)
			r.Get("/withdrawals/{id}", requestHandler.GetWithdrawal)
		})

		r.Get("/tournaments/{id}/registrations", tournamentHandler.Registrations)
		r.Post("/tournaments/{id}/register", tournamentHandler.Register)

		r.Route("/shop", func(r chi.Router) {
			r.Get("/products", shopHandler.ListProducts)
			r.Get("/products/{id}", shopHandler.GetProduct)
			r.Post("/products/{id}/redeem", shopHandler.Redeem)
			r.Get("/orders", shopHandler.ListOrders)
		})

		if deps.Uploader != nil {
			uploadHandler := handler.NewUploadHandler(deps.Uploader)
			r.Post("/uploads/receipts", uploadHandler.UploadReceipt)
			r.Post("/uploads/avatars", uploadHandler.UploadAvatar)
		}
	})

	// Staff routes, split by capability
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.Authenticate(jwtMgr))

		r.Group(func(r chi.Router) {
			r.Use(auth.Require(policy.CanManageWallet))

			r.Route("/requests", func(r chi.Router) {
				r.Get("/deposits", requestAdmin.PendingDeposits)
				r.Get("/deposits/{id}", requestAdmin.GetDeposit)
				r.Post("/deposits/{id}/approve", requestAdmin.ApproveDeposit)
				r.Post("/deposits/{id}/reject", requestAdmin.RejectDeposit)
				r.Get("/withdrawals", requestAdmin.PendingWithdrawals)
				r.Get("/withdrawals/{id}", requestAdmin.GetWithdrawal)
				r.Post("/withdrawals/{id}/payout", requestAdmin.PayoutWithdrawal)
				r.Post("/withdrawals/{id}/reject", requestAdmin.RejectWithdrawal)
			})

			r.Post("/wallets/adjust", walletAdmin.Adjust)
			r.Get("/wallets/{id}/audit", walletAdmin.Audit)
			r.Put("/rates", rateAdmin.SetRate)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Require(policy.CanManageUsers))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userAdmin.Search)
				r.Get("/{id}", userAdmin.Get)
				r.Put("/{id}/role", userAdmin.ChangeRole)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Require(policy.CanManageTournaments))

			r.Post("/tournaments", tournamentAdmin.Create)
			r.Patch("/tournaments/{id}", tournamentAdmin.Update)
			r.Post("/tournaments/{id}/settle", tournamentAdmin.Settle)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Require(policy.CanManageShop))

			r.Route("/shop/products", func(r chi.Router) {
				r.Get("/", shopAdmin.ListProducts)
				r.Post("/", shopAdmin.CreateProduct)
				r.Patch("/{id}", shopAdmin.UpdateProduct)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Require(policy.CanManageContent))

			r.Route("/content", func(r chi.Router) {
				r.Get("/", contentAdmin.List)
				r.Post("/", contentAdmin.Create)
				r.Patch("/{id}", contentAdmin.Update)
				r.Delete("/{id}", contentAdmin.Delete)
			})
		})
	})

	return r
}
