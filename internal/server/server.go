package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/kasira/internal/config"
	invoicedomain "github.com/smallbiznis/kasira/internal/invoice/domain"
	"github.com/smallbiznis/kasira/internal/observability/tracing"
	paymentdomain "github.com/smallbiznis/kasira/internal/payment/domain"
	reportdomain "github.com/smallbiznis/kasira/internal/report/domain"
	returnsdomain "github.com/smallbiznis/kasira/internal/returns/domain"
	supplierdomain "github.com/smallbiznis/kasira/internal/supplier/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg         config.Config
	Log         *zap.Logger
	DB          *gorm.DB
	InvoiceSvc  invoicedomain.Service
	PaymentSvc  paymentdomain.Service
	SupplierSvc supplierdomain.Service
	ReturnsSvc  returnsdomain.Service
	ReportSvc   reportdomain.Service
}

// Server holds the HTTP handler dependencies.
type Server struct {
	cfg         config.Config
	log         *zap.Logger
	db          *gorm.DB
	invoiceSvc  invoicedomain.Service
	paymentSvc  paymentdomain.Service
	supplierSvc supplierdomain.Service
	returnsSvc  returnsdomain.Service
	reportSvc   reportdomain.Service
	limiter     *rateLimiter
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:         p.Cfg,
		log:         p.Log.Named("server"),
		db:          p.DB,
		invoiceSvc:  p.InvoiceSvc,
		paymentSvc:  p.PaymentSvc,
		supplierSvc: p.SupplierSvc,
		returnsSvc:  p.ReturnsSvc,
		reportSvc:   p.ReportSvc,
		limiter:     newRateLimiter(p.Cfg.RateLimitPerMinute, time.Minute),
	}
}

// NewEngine builds the gin engine with the shared middleware stack.
func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(tracing.GinMiddleware(cfg.ServiceName))
	engine.Use(requestLogger(log))
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Api-Key"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	return engine
}

// RegisterRoutes wires every API route onto the engine.
func (s *Server) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", s.Healthz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	api.Use(s.RateLimit())
	api.Use(s.APIKeyAuth())

	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices", s.ListInvoices)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.GET("/invoices/:id/payments", s.ListInvoicePayments)
	api.POST("/invoices/:id/payments", s.RecordPayment)
	api.GET("/invoices/:id/returns", s.ListInvoiceReturns)

	api.POST("/suppliers/:id/payments", s.RecordSupplierPayment)
	api.GET("/suppliers/:id/payments", s.ListSupplierPayments)
	api.GET("/suppliers/:id/outstanding", s.GetSupplierOutstanding)

	api.POST("/returns", s.SubmitReturn)
	api.GET("/returns/:id", s.GetReturnByID)
	api.POST("/returns/:id/apply", s.ApplyReturn)
	api.POST("/returns/:id/reject", s.RejectReturn)

	api.GET("/reports/summary", s.GetSummary)
	api.GET("/reports/compare", s.GetComparison)
}

// Healthz reports process liveness and database reachability.
func (s *Server) Healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, engine *gin.Engine, s *Server) {
	s.RegisterRoutes(engine)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

// Module provides the HTTP server.
var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)
