package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/caffeinepub/total-amount-calculator-app/internal/config"
	"github.com/caffeinepub/total-amount-calculator-app/internal/handler"
	"github.com/caffeinepub/total-amount-calculator-app/internal/infra"
	"github.com/caffeinepub/total-amount-calculator-app/internal/localstore"
	"github.com/caffeinepub/total-amount-calculator-app/internal/middleware"
	"github.com/caffeinepub/total-amount-calculator-app/internal/remote"
	"github.com/caffeinepub/total-amount-calculator-app/internal/service"
	"github.com/caffeinepub/total-amount-calculator-app/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Store/Remote ← KV/DB/Redis
func New(cfg *config.Config, kv localstore.KV, db *gorm.DB, rdb *redis.Client, remoteCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Local stores ─────────────────────────────────────────────────────────
	ledgerStore := localstore.NewLedgerStore(kv)
	summaryStore := localstore.NewSummaryStore(kv, ledgerStore)
	billArchive := localstore.NewBillArchive(kv)
	defaultsStore := localstore.NewDefaultsStore(kv)
	migrationGate := localstore.NewMigrationGate(kv)

	// ── Remote + workers ─────────────────────────────────────────────────────
	remoteLedger := remote.NewPostgresLedger(db)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(cfg, kv, migrationGate)
	billingSvc := service.NewBillingService(billArchive, ledgerStore, summaryStore, defaultsStore, dispatcher)
	balanceSvc := service.NewBalanceService(remoteLedger, remoteCB, cfg.RemoteTimeout, ledgerStore, summaryStore, billArchive)
	settingsSvc := service.NewSettingsService(defaultsStore, remoteLedger, dispatcher, cfg.RemoteTimeout)

	// Cross-process storage events keep the reconciler's local view fresh.
	balanceSvc.WatchLocalChanges(kv, authSvc.ActiveBranch)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	billsH := handler.NewBillsHandler(billingSvc)
	balanceH := handler.NewBalanceHandler(balanceSvc)
	catalogH := handler.NewCatalogHandler()
	settingsH := handler.NewSettingsHandler(settingsSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, remoteCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/auth/logout", authH.Logout)

		v1.POST("/bills", billsH.PrintBill)
		v1.GET("/bills", billsH.ListBills)
		v1.GET("/bills/:id", billsH.GetBill)
		v1.DELETE("/bills", billsH.ClearBills)
		v1.DELETE("/ledger", billsH.ClearLedger)

		v1.GET("/balance-sheet", balanceH.AvailableDays)
		v1.DELETE("/balance-sheet", balanceH.ClearRemoteDays)
		v1.GET("/balance-sheet/:date", balanceH.DayDetail)

		v1.GET("/catalog", catalogH.List)

		v1.GET("/bill-defaults", settingsH.GetDefaults)
		v1.PUT("/bill-defaults", settingsH.SaveDefaults)

		v1.GET("/profile", settingsH.GetProfile)
		v1.PUT("/profile", settingsH.SaveProfile)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
