package server

import (
	"context"
	"net/http"
	"time"

	"github.com/agropec/boletim/internal/animal"
	animaldomain "github.com/agropec/boletim/internal/animal/domain"
	"github.com/agropec/boletim/internal/config"
	"github.com/agropec/boletim/internal/cost"
	costdomain "github.com/agropec/boletim/internal/cost/domain"
	"github.com/agropec/boletim/internal/death"
	deathdomain "github.com/agropec/boletim/internal/death/domain"
	"github.com/agropec/boletim/internal/identity"
	identitydomain "github.com/agropec/boletim/internal/identity/domain"
	"github.com/agropec/boletim/internal/inventory"
	inventorydomain "github.com/agropec/boletim/internal/inventory/domain"
	"github.com/agropec/boletim/internal/invoice"
	invoicedomain "github.com/agropec/boletim/internal/invoice/domain"
	"github.com/agropec/boletim/internal/ledger"
	ledgerdomain "github.com/agropec/boletim/internal/ledger/domain"
	"github.com/agropec/boletim/internal/reconcile"
	reconciledomain "github.com/agropec/boletim/internal/reconcile/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	animal.Module,
	identity.Module,
	cost.Module,
	death.Module,
	invoice.Module,
	inventory.Module,
	ledger.Module,
	reconcile.Module,
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config) *gin.Engine {
	return NewEngine(cfg)
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, s *Server) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.Engine(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	ledgerSvc    ledgerdomain.Service
	animalSvc    animaldomain.Service
	identitySvc  identitydomain.Service
	costSvc      costdomain.Service
	deathSvc     deathdomain.Service
	invoiceSvc   invoicedomain.Service
	inventorySvc inventorydomain.Service
	reconcileSvc reconciledomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	LedgerSvc    ledgerdomain.Service
	AnimalSvc    animaldomain.Service
	IdentitySvc  identitydomain.Service
	CostSvc      costdomain.Service
	DeathSvc     deathdomain.Service
	InvoiceSvc   invoicedomain.Service
	InventorySvc inventorydomain.Service
	ReconcileSvc reconciledomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		ledgerSvc:    p.LedgerSvc,
		animalSvc:    p.AnimalSvc,
		identitySvc:  p.IdentitySvc,
		costSvc:      p.CostSvc,
		deathSvc:     p.DeathSvc,
		invoiceSvc:   p.InvoiceSvc,
		inventorySvc: p.InventorySvc,
		reconcileSvc: p.ReconcileSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	// -------- Periods / Ledger --------
	v1.GET("/periods/:label", s.GetPeriod)
	v1.PUT("/periods/:label", s.UpdatePeriod)
	v1.POST("/movements", s.RecordMovement)

	// -------- Animals --------
	v1.GET("/animals", s.ListAnimals)
	v1.POST("/animals", s.CreateAnimal)
	v1.GET("/animals/resolve", s.ResolveAnimal)
	v1.GET("/animals/duplicates", s.ListDuplicateAnimals)
	v1.GET("/animals/:id", s.GetAnimal)
	v1.PATCH("/animals/:id", s.UpdateAnimal)
	v1.DELETE("/animals/:id", s.DeleteAnimal)

	// -------- Costs --------
	v1.GET("/animals/:id/costs", s.ListAnimalCosts)
	v1.POST("/animals/:id/costs", s.AddAnimalCost)
	v1.POST("/animals/:id/costs/recompute", s.RecomputeAnimalCost)
	v1.POST("/animals/:id/medication-costs", s.ApplyMedicationCost)
	v1.POST("/medications", s.CreateMedication)

	// -------- Deaths --------
	v1.GET("/deaths", s.ListDeaths)
	v1.POST("/deaths", s.RegisterDeath)

	// -------- Invoices --------
	v1.GET("/invoices", s.ListInvoices)
	v1.POST("/invoices", s.IngestInvoice)
	v1.GET("/invoices/:id", s.GetInvoiceByID)

	// -------- Inventory --------
	v1.GET("/semen-lots", s.ListSemenLots)

	// -------- Sync --------
	v1.POST("/sync/invoices/animals", s.SyncInvoicesToAnimals)
	v1.POST("/sync/invoices/ledger", s.SyncInvoicesToLedger)
	v1.POST("/sync/deaths/ledger", s.SyncDeathsToLedger)
}
