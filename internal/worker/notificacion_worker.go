package worker

// notificacion_worker.go
// Processes station notification jobs from QueueNotificaciones: each job
// holds the manufacturing orders just created for one partida, mailed as a
// plain-text summary to the kitchen coordination address.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gastroplan/internal/infra"

	"github.com/rs/zerolog/log"
)

// OrdenNotificada is one line of the station summary.
type OrdenNotificada struct {
	Codigo      string `json:"codigo"`
	Elaboracion string `json:"elaboracion"`
	Cantidad    string `json:"cantidad"`
	Unidad      string `json:"unidad"`
}

// NotificacionPartida is the job envelope sent to QueueNotificaciones.
type NotificacionPartida struct {
	Partida         string            `json:"partida"`
	FechaProduccion string            `json:"fecha_produccion"`
	Ordenes         []OrdenNotificada `json:"ordenes"`
}

type NotificacionWorker struct {
	mailer  *infra.Mailer
	destino string
}

func NewNotificacionWorker(mailer *infra.Mailer, destino string) *NotificacionWorker {
	return &NotificacionWorker{mailer: mailer, destino: destino}
}

// Procesar mails the per-partida summary. A returned error re-enqueues the
// job; malformed payloads are dropped instead of retried.
func (w *NotificacionWorker) Procesar(_ context.Context, raw json.RawMessage) error {
	var payload NotificacionPartida
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notificacion_worker: payload inválido")
		return nil
	}
	if w.destino == "" {
		log.Warn().Msg("notificacion_worker: NOTIFY_EMAIL sin configurar, se omite el envío")
		return nil
	}

	subject := fmt.Sprintf("Nuevas órdenes de fabricación: partida %s (%s)", payload.Partida, payload.FechaProduccion)

	var b strings.Builder
	fmt.Fprintf(&b, "Órdenes generadas para la partida %s, producción %s:\n\n", payload.Partida, payload.FechaProduccion)
	for _, o := range payload.Ordenes {
		fmt.Fprintf(&b, "  %s  %s  %s %s\n", o.Codigo, o.Elaboracion, o.Cantidad, o.Unidad)
	}

	if err := w.mailer.Send(w.destino, subject, b.String()); err != nil {
		log.Error().Err(err).Str("partida", payload.Partida).Msg("notificacion_worker: fallo el envío")
		return err
	}
	log.Info().Str("partida", payload.Partida).Int("ordenes", len(payload.Ordenes)).Msg("notificacion_worker: resumen enviado")
	return nil
}
