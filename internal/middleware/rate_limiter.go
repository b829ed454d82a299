package middleware

import (
	"net/http"
	"sync"
	"time"

	"gastroplan/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Sliding-window request quotas per client IP. Each named limiter keeps its
// own window map so a burst against one surface (say, plan recomputes) does
// not eat the quota of another.

type ventanaIP struct {
	count int
	fin   time.Time
	mu    sync.Mutex
}

type limitador struct {
	nombre  string
	limite  int
	ventana time.Duration
	mensaje string

	mu    sync.Mutex
	porIP map[string]*ventanaIP
}

var (
	limitadoresMu sync.Mutex
	limitadores   []*limitador
)

func nuevoLimitador(nombre string, limite int, ventana time.Duration, mensaje string) *limitador {
	l := &limitador{
		nombre:  nombre,
		limite:  limite,
		ventana: ventana,
		mensaje: mensaje,
		porIP:   make(map[string]*ventanaIP),
	}
	limitadoresMu.Lock()
	limitadores = append(limitadores, l)
	limitadoresMu.Unlock()
	return l
}

func (l *limitador) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		l.mu.Lock()
		v, ok := l.porIP[ip]
		if !ok {
			v = &ventanaIP{}
			l.porIP[ip] = v
		}
		l.mu.Unlock()

		v.mu.Lock()
		defer v.mu.Unlock()

		now := time.Now()
		if now.After(v.fin) {
			v.count = 0
			v.fin = now.Add(l.ventana)
		}

		v.count++
		if v.count > l.limite {
			c.Header("Retry-After", v.fin.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.mensaje))
			return
		}
		c.Next()
	}
}

// RateLimiter is the API-wide quota applied to every route.
func RateLimiter(limite int, ventana time.Duration) gin.HandlerFunc {
	return nuevoLimitador("api", limite, ventana, "Demasiadas solicitudes. Intente nuevamente en un momento.").handler()
}

// LoginRateLimiter slows credential guessing: 20 attempts per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return nuevoLimitador("login", 20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.").handler()
}

// PlanRateLimiter caps plan recomputes per IP. A cache miss walks every
// confirmed event's comandas, so an aggressive dashboard refresh can pin
// Postgres; 30 per minute is plenty for interactive use.
func PlanRateLimiter() gin.HandlerFunc {
	return nuevoLimitador("planificacion", 30, time.Minute, "Demasiados cálculos de planificación. Intente en 1 minuto.").handler()
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Expired windows are dropped periodically so IPs that never return do not
// accumulate in the maps.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeVentanasExpiradas()
}

func purgeVentanasExpiradas() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		limitadoresMu.Lock()
		activos := make([]*limitador, len(limitadores))
		copy(activos, limitadores)
		limitadoresMu.Unlock()

		for _, l := range activos {
			l.mu.Lock()
			purgadas := 0
			for ip, v := range l.porIP {
				v.mu.Lock()
				if now.After(v.fin) {
					delete(l.porIP, ip)
					purgadas++
				}
				v.mu.Unlock()
			}
			restantes := len(l.porIP)
			l.mu.Unlock()

			if purgadas > 0 {
				log.Debug().
					Str("limitador", l.nombre).
					Int("entradas_purgadas", purgadas).
					Int("entradas_restantes", restantes).
					Msg("rate limiter purged")
			}
		}
	}
}
