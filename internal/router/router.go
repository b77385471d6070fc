package router

import (
	"time"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/config"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/handler"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/middleware"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/repository"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/service"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
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

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	transaccionRepo := repository.NewTransaccionRepository(db)
	aperturaRepo := repository.NewAperturaRepository(db)
	prestamoRepo := repository.NewPrestamoRepository(db)
	movimientoRepo := repository.NewMovimientoInternoRepository(db)
	solicitudRepo := repository.NewSolicitudEfectivoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	cajaSvc := service.NewCajaService(cajaRepo)
	ledgerSvc := service.NewTransaccionService(transaccionRepo, cajaRepo, aperturaRepo)
	arqueoSvc := service.NewArqueoService(aperturaRepo, cajaRepo, transaccionRepo, ventaRepo, prestamoRepo, movimientoRepo)
	aperturaSvc := service.NewAperturaService(aperturaRepo, cajaRepo, usuarioRepo, ledgerSvc, arqueoSvc, dispatcher, cfg)
	prestamoSvc := service.NewPrestamoService(prestamoRepo, movimientoRepo, cajaRepo, aperturaRepo, ventaRepo, ledgerSvc, dispatcher, cfg)
	prestamoVendedorSvc := service.NewPrestamoVendedorService(solicitudRepo, aperturaRepo, cajaRepo, ledgerSvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	cajaH := handler.NewCajaHandler(cajaSvc, aperturaSvc, arqueoSvc, ledgerSvc)
	prestamoH := handler.NewPrestamoHandler(prestamoSvc)
	prestamoVendedorH := handler.NewPrestamoVendedorHandler(prestamoVendedorSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cajero, supervisor, administrador — declared per-endpoint
		caja := v1.Group("/cajas")
		{
			todos := middleware.RequireRole("cajero", "supervisor", "administrador")

			caja.POST("/aperturar", todos, cajaH.Aperturar)
			caja.POST("/cierre/:id", todos, cajaH.Cerrar)
			caja.POST("/cierre/validar-supervisor", todos, authH.ValidarSupervisor)
			caja.GET("/activa", todos, cajaH.Activa)
			caja.GET("/:id/arqueo", todos, cajaH.Arqueo)
			caja.POST("/movimientos", todos, cajaH.RegistrarMovimiento)
			caja.GET("/historial", middleware.RequireRole("supervisor", "administrador"), cajaH.Historial)

			caja.POST("/movimientos-internos", todos, prestamoH.MovimientoInterno)

			caja.POST("/prestamos", todos, prestamoH.Solicitar)
			caja.GET("/prestamos/pendientes", todos, prestamoH.Pendientes)
			caja.POST("/prestamos/:id/aprobar", todos, prestamoH.Aprobar)
			caja.POST("/prestamos/:id/rechazar", todos, prestamoH.Rechazar)
			caja.POST("/prestamos/:id/devolver", todos, prestamoH.Devolver)

			caja.POST("/prestamos-vendedores", todos, prestamoVendedorH.Solicitar)
			caja.POST("/prestamos-vendedores/:id/aprobar", todos, prestamoVendedorH.Aprobar)
			caja.POST("/prestamos-vendedores/:id/rechazar", todos, prestamoVendedorH.Rechazar)
			caja.GET("/aperturas/:id/disponible", todos, prestamoVendedorH.Disponible)
		}

		// Configuración de cajas — administrador only
		admin := v1.Group("/cajas", middleware.RequireRole("administrador"))
		{
			admin.POST("", cajaH.CrearCaja)
			admin.GET("/:id/sub-cajas", cajaH.ListarSubCajas)
			admin.POST("/sub-cajas", cajaH.CrearSubCaja)
			admin.DELETE("/sub-cajas/:id", cajaH.EliminarSubCaja)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
