package router

import (
	"time"

	"gastroplan/internal/config"
	"gastroplan/internal/handler"
	"gastroplan/internal/infra"
	"gastroplan/internal/middleware"
	"gastroplan/internal/repository"
	"gastroplan/internal/service"
	"gastroplan/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Domain))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	planCache := infra.NewPlanCache(rdb, time.Duration(cfg.PlanCacheTTLSeconds)*time.Second)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	eventoRepo := repository.NewEventoRepository(db)
	comandaRepo := repository.NewComandaRepository(db)
	recetaRepo := repository.NewRecetaRepository(db)
	elaboracionRepo := repository.NewElaboracionRepository(db)
	ordenRepo := repository.NewOrdenRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	recetaSvc := service.NewRecetaService(recetaRepo, elaboracionRepo, planCache)
	elaboracionSvc := service.NewElaboracionService(elaboracionRepo, planCache)
	eventoSvc := service.NewEventoService(eventoRepo, comandaRepo, recetaRepo, planCache)
	ordenSvc := service.NewOrdenService(ordenRepo, planCache)
	planSvc := service.NewPlanificacionService(
		eventoRepo, comandaRepo, recetaRepo, elaboracionRepo, ordenRepo, planCache, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	recetasH := handler.NewRecetasHandler(recetaSvc)
	elaboracionesH := handler.NewElaboracionesHandler(elaboracionSvc)
	eventosH := handler.NewEventosHandler(eventoSvc)
	ordenesH := handler.NewOrdenesHandler(ordenSvc)
	planH := handler.NewPlanificacionHandler(planSvc)

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
		lectura := middleware.RequireRole("planificador", "administrador", "produccion")
		planifica := middleware.RequireRole("planificador", "administrador")
		piso := middleware.RequireRole("produccion", "administrador")
		admin := middleware.RequireRole("administrador")

		// Planificación: reads for everyone, engine writes for planners.
		// Recomputes get their own quota on top of the API-wide one.
		v1.GET("/planificacion", lectura, middleware.PlanRateLimiter(), planH.Calcular)
		v1.POST("/planificacion/ordenes", planifica, planH.GenerarOrdenes)
		v1.POST("/planificacion/desviaciones/:ordenId/resolver", planifica, planH.ResolverDesviacion)

		// Órdenes de fabricación: list/get for everyone, floor ops for produccion
		v1.GET("/ordenes", lectura, ordenesH.Listar)
		v1.GET("/ordenes/:id", lectura, ordenesH.Obtener)
		v1.PATCH("/ordenes/:id/estado", piso, ordenesH.CambiarEstado)
		v1.PATCH("/ordenes/:id/incidencia", piso, ordenesH.MarcarIncidencia)
		v1.PATCH("/ordenes/:id/calidad", piso, ordenesH.RegistrarCalidad)
		v1.POST("/ordenes/:id/cierre", piso, ordenesH.Cerrar)

		// Catálogo: reads for everyone, writes for administrador
		v1.GET("/recetas", lectura, recetasH.Listar)
		v1.GET("/recetas/:id", lectura, recetasH.Obtener)
		recetas := v1.Group("/recetas", admin)
		{
			recetas.POST("", recetasH.Crear)
			recetas.PUT("/:id", recetasH.Actualizar)
			recetas.DELETE("/:id", recetasH.Desactivar)
		}

		v1.GET("/elaboraciones", lectura, elaboracionesH.Listar)
		v1.GET("/elaboraciones/:id", lectura, elaboracionesH.Obtener)
		elaboraciones := v1.Group("/elaboraciones", admin)
		{
			elaboraciones.POST("", elaboracionesH.Crear)
			elaboraciones.PUT("/:id", elaboracionesH.Actualizar)
			elaboraciones.DELETE("/:id", elaboracionesH.Desactivar)
		}

		// Eventos con hitos y comandas
		v1.GET("/eventos", lectura, eventosH.Listar)
		v1.GET("/eventos/:id", lectura, eventosH.Obtener)
		v1.GET("/eventos/:id/hitos/:hitoId/comanda", lectura, eventosH.ObtenerComanda)
		eventos := v1.Group("/eventos", planifica)
		{
			eventos.POST("", eventosH.Crear)
			eventos.PUT("/:id", eventosH.Actualizar)
			eventos.POST("/:id/hitos", eventosH.CrearHito)
			eventos.PUT("/:id/hitos/:hitoId", eventosH.ActualizarHito)
			eventos.PUT("/:id/hitos/:hitoId/comanda", eventosH.GuardarComanda)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
		}
	}

	return r
}
