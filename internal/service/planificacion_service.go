package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gastroplan/internal/dto"
	"gastroplan/internal/model"
	"gastroplan/internal/planner"
	"gastroplan/internal/repository"
	"gastroplan/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PlanCache caches serialized planning results. Implemented over Redis in
// infra; nil-safe fakes cover it in unit tests.
type PlanCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Invalidate(ctx context.Context)
}

type PlanificacionService interface {
	Calcular(ctx context.Context, desde, hasta time.Time) (*planner.Resultado, error)
	GenerarOrdenes(ctx context.Context, req dto.GenerarOrdenesRequest) (*dto.GenerarOrdenesResponse, error)
	ResolverDesviacion(ctx context.Context, ordenID uuid.UUID, req dto.ResolverDesviacionRequest) (*dto.ResolverDesviacionResponse, error)
}

type planificacionService struct {
	eventos       repository.EventoRepository
	comandas      repository.ComandaRepository
	recetas       repository.RecetaRepository
	elaboraciones repository.ElaboracionRepository
	ordenes       repository.OrdenRepository
	cache         PlanCache
	dispatcher    *worker.Dispatcher
}

func NewPlanificacionService(
	eventos repository.EventoRepository,
	comandas repository.ComandaRepository,
	recetas repository.RecetaRepository,
	elaboraciones repository.ElaboracionRepository,
	ordenes repository.OrdenRepository,
	cache PlanCache,
	dispatcher *worker.Dispatcher,
) PlanificacionService {
	return &planificacionService{
		eventos:       eventos,
		comandas:      comandas,
		recetas:       recetas,
		elaboraciones: elaboraciones,
		ordenes:       ordenes,
		cache:         cache,
		dispatcher:    dispatcher,
	}
}

// cargarSnapshot assembles the read-only input collections for one planning
// run: confirmed in-window events with hitos, their comandas and pristine
// copies, the full active catalog, and every order the window can touch.
func (s *planificacionService) cargarSnapshot(ctx context.Context, v planner.Ventana) (planner.Snapshot, error) {
	snap := planner.Snapshot{
		Comandas:      map[uuid.UUID]model.ComandaGastronomica{},
		Pristinas:     map[uuid.UUID]model.ComandaPristina{},
		Recetas:       map[uuid.UUID]model.Receta{},
		Elaboraciones: map[uuid.UUID]model.Elaboracion{},
	}

	eventos, err := s.eventos.ListarConfirmadosEnVentana(ctx, v.Desde, v.Hasta)
	if err != nil {
		return snap, fmt.Errorf("cargando eventos: %w", err)
	}
	snap.Eventos = eventos

	eventoIDs := make([]uuid.UUID, 0, len(eventos))
	for _, e := range eventos {
		eventoIDs = append(eventoIDs, e.ID)
	}

	comandas, err := s.comandas.ListarPorEventos(ctx, eventoIDs)
	if err != nil {
		return snap, fmt.Errorf("cargando comandas: %w", err)
	}
	for _, c := range comandas {
		snap.Comandas[c.ID] = c
	}

	pristinas, err := s.comandas.ListarPristinasPorEventos(ctx, eventoIDs)
	if err != nil {
		return snap, fmt.Errorf("cargando copias prístinas: %w", err)
	}
	for _, p := range pristinas {
		snap.Pristinas[p.ComandaID] = p
	}

	// Full catalog: comandas may reference recipes deactivated after the
	// event was closed, so inactive entries load too.
	recetas, err := s.recetas.Listar(ctx, true)
	if err != nil {
		return snap, fmt.Errorf("cargando recetas: %w", err)
	}
	for _, r := range recetas {
		snap.Recetas[r.ID] = r
	}

	elaboraciones, err := s.elaboraciones.Listar(ctx, "")
	if err != nil {
		return snap, fmt.Errorf("cargando elaboraciones: %w", err)
	}
	for _, e := range elaboraciones {
		snap.Elaboraciones[e.ID] = e
	}

	ordenes, err := s.ordenes.ListarRelevantes(ctx, v.Desde, v.Hasta, eventoIDs)
	if err != nil {
		return snap, fmt.Errorf("cargando órdenes: %w", err)
	}
	snap.Ordenes = ordenes

	return snap, nil
}

func claveCache(v planner.Ventana) string {
	return fmt.Sprintf("plan:%s:%s", v.Desde.Format(planner.FormatoDia), v.Hasta.Format(planner.FormatoDia))
}

func (s *planificacionService) Calcular(ctx context.Context, desde, hasta time.Time) (*planner.Resultado, error) {
	v := planner.Ventana{Desde: desde, Hasta: hasta}
	if !v.Valida() {
		return nil, errors.New("ventana de planificación inválida: desde debe ser anterior o igual a hasta")
	}

	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, claveCache(v)); ok {
			var cached planner.Resultado
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
			// corrupted entry: fall through to recompute
		}
	}

	snap, err := s.cargarSnapshot(ctx, v)
	if err != nil {
		return nil, err
	}
	resultado := planner.Planificar(v, snap)

	if s.cache != nil {
		if raw, err := json.Marshal(resultado); err == nil {
			s.cache.Set(ctx, claveCache(v), raw)
		}
	}
	return &resultado, nil
}

// recalcular bypasses the cache: used right after a write so the response
// reflects the new state, then re-primes the cache for the window.
func (s *planificacionService) recalcular(ctx context.Context, v planner.Ventana) (*planner.Resultado, error) {
	snap, err := s.cargarSnapshot(ctx, v)
	if err != nil {
		return nil, err
	}
	resultado := planner.Planificar(v, snap)
	if s.cache != nil {
		if raw, err := json.Marshal(resultado); err == nil {
			s.cache.Set(ctx, claveCache(v), raw)
		}
	}
	return &resultado, nil
}

func parseVentana(desde, hasta string) (planner.Ventana, error) {
	d, err := time.Parse(planner.FormatoDia, desde)
	if err != nil {
		return planner.Ventana{}, fmt.Errorf("fecha desde inválida: %w", err)
	}
	h, err := time.Parse(planner.FormatoDia, hasta)
	if err != nil {
		return planner.Ventana{}, fmt.Errorf("fecha hasta inválida: %w", err)
	}
	v := planner.Ventana{Desde: d, Hasta: h}
	if !v.Valida() {
		return planner.Ventana{}, errors.New("ventana de planificación inválida: desde debe ser anterior o igual a hasta")
	}
	return v, nil
}

// ── GenerarOrdenes ────────────────────────────────────────────────────────────
// Turns selected shortage rows of the current plan into manufacturing orders:
//   1. Recompute the plan for the window
//   2. For each selected elaboración: shortage row → new pendiente order;
//      surplus or unknown selection → omitida entry (no-op, never an error)
//   3. Freeze pristine comanda copies for every contributing event
//   4. Notify each station by mail (async, best-effort)
//   5. Invalidate the cache and return the recomputed plan

func (s *planificacionService) GenerarOrdenes(ctx context.Context, req dto.GenerarOrdenesRequest) (*dto.GenerarOrdenesResponse, error) {
	v, err := parseVentana(req.Desde, req.Hasta)
	if err != nil {
		return nil, err
	}
	fechaProduccion, err := time.Parse(planner.FormatoDia, req.FechaProduccion)
	if err != nil {
		return nil, fmt.Errorf("fecha de producción inválida: %w", err)
	}

	snap, err := s.cargarSnapshot(ctx, v)
	if err != nil {
		return nil, err
	}
	resultado := planner.Planificar(v, snap)

	porElaboracion := make(map[uuid.UUID]planner.Necesidad, len(resultado.Necesidades))
	for _, n := range resultado.Necesidades {
		porElaboracion[n.ElaboracionID] = n
	}

	hoy := time.Now().UTC().Truncate(24 * time.Hour)
	creadas := []model.OrdenFabricacion{}
	omitidas := []dto.OrdenOmitida{}
	eventosAfectados := map[uuid.UUID]bool{}
	vistas := map[uuid.UUID]bool{}

	for _, raw := range req.ElaboracionIDs {
		elaboracionID, err := uuid.Parse(raw)
		if err != nil {
			omitidas = append(omitidas, dto.OrdenOmitida{ElaboracionID: raw, Motivo: "identificador inválido"})
			continue
		}
		if vistas[elaboracionID] {
			omitidas = append(omitidas, dto.OrdenOmitida{ElaboracionID: raw, Motivo: "selección duplicada"})
			continue
		}
		vistas[elaboracionID] = true

		fila, ok := porElaboracion[elaboracionID]
		if !ok {
			omitidas = append(omitidas, dto.OrdenOmitida{
				ElaboracionID: raw,
				Motivo:        "sin necesidad pendiente en la ventana",
			})
			continue
		}
		if fila.Tipo != planner.TipoFalta {
			omitidas = append(omitidas, dto.OrdenOmitida{
				ElaboracionID: raw,
				Motivo:        "excedente de producción, se resuelve desde desviaciones",
			})
			continue
		}

		eventoIDs := make([]string, 0, len(fila.EventosOrigen))
		for _, origen := range fila.EventosOrigen {
			if !eventosAfectados[origen.EventoID] {
				eventosAfectados[origen.EventoID] = true
			}
			eventoIDs = appendUnico(eventoIDs, origen.EventoID.String())
		}

		// The frozen requirement is the shortage this order covers, not the
		// gross demand: per elaboración the frozen sums across linked orders
		// must add up to the demand at generation time, or the deviation
		// detector reports a phantom gap right after generating.
		orden := model.OrdenFabricacion{
			FechaCreacion:       hoy,
			FechaPlanificada:    fechaProduccion,
			ElaboracionID:       elaboracionID,
			CantidadPlanificada: fila.Cantidad,
			NecesidadTotal:      fila.Cantidad,
			Partida:             fila.Partida,
			EventoIDs:           eventoIDs,
			Estado:              model.OrdenPendiente,
		}
		if err := s.ordenes.Crear(ctx, &orden); err != nil {
			return nil, err
		}
		creadas = append(creadas, orden)
	}

	if len(creadas) > 0 {
		ids := make([]uuid.UUID, 0, len(eventosAfectados))
		for id := range eventosAfectados {
			ids = append(ids, id)
		}
		if err := s.comandas.CapturarPristinas(ctx, ids); err != nil {
			return nil, fmt.Errorf("congelando comandas: %w", err)
		}
		s.notificarPartidas(ctx, creadas, snap, fechaProduccion)
		if s.cache != nil {
			s.cache.Invalidate(ctx)
		}
	}

	recomputado, err := s.recalcular(ctx, v)
	if err != nil {
		return nil, err
	}

	resp := &dto.GenerarOrdenesResponse{
		Ordenes:  make([]dto.OrdenResponse, 0, len(creadas)),
		Omitidas: omitidas,
		Plan:     *recomputado,
	}
	for i := range creadas {
		elab := snap.Elaboraciones[creadas[i].ElaboracionID]
		resp.Ordenes = append(resp.Ordenes, ordenToResponse(&creadas[i], &elab))
	}
	return resp, nil
}

// notificarPartidas enqueues one email job per station with its share of the
// freshly created orders. Fire and forget: a planning run never fails because
// the mail queue is down.
func (s *planificacionService) notificarPartidas(ctx context.Context, creadas []model.OrdenFabricacion, snap planner.Snapshot, fechaProduccion time.Time) {
	if s.dispatcher == nil {
		return
	}
	porPartida := map[string][]worker.OrdenNotificada{}
	for i := range creadas {
		o := &creadas[i]
		elab := snap.Elaboraciones[o.ElaboracionID]
		porPartida[o.Partida] = append(porPartida[o.Partida], worker.OrdenNotificada{
			Codigo:      o.Codigo(),
			Elaboracion: elab.Nombre,
			Cantidad:    o.CantidadPlanificada.String(),
			Unidad:      elab.Unidad,
		})
	}
	for partida, ordenes := range porPartida {
		payload := worker.NotificacionPartida{
			Partida:         partida,
			FechaProduccion: fechaProduccion.Format(planner.FormatoDia),
			Ordenes:         ordenes,
		}
		if err := s.dispatcher.EnqueueNotificacion(ctx, payload); err != nil {
			log.Error().Err(err).Str("partida", partida).Msg("no se pudo encolar la notificación de partida")
		}
	}
}

// ── ResolverDesviacion ────────────────────────────────────────────────────────

func (s *planificacionService) ResolverDesviacion(ctx context.Context, ordenID uuid.UUID, req dto.ResolverDesviacionRequest) (*dto.ResolverDesviacionResponse, error) {
	v, err := parseVentana(req.Desde, req.Hasta)
	if err != nil {
		return nil, err
	}

	orden, err := s.ordenes.FindByID(ctx, ordenID)
	if err != nil {
		return nil, errors.New("orden de fabricación no encontrada")
	}

	snap, err := s.cargarSnapshot(ctx, v)
	if err != nil {
		return nil, err
	}
	demanda := planner.AgregarDemanda(v, snap)

	actual := decimal.Zero
	if de, ok := demanda.Elaboraciones[orden.ElaboracionID]; ok {
		actual = de.Total
	}
	diferencia := actual.Sub(necesidadCongelada(snap.Ordenes, orden))

	afectados := orden.Eventos()
	elab := snap.Elaboraciones[orden.ElaboracionID]

	var involucradas []model.OrdenFabricacion
	switch req.Accion {
	case "ajustar":
		if diferencia.LessThanOrEqual(planner.Epsilon) {
			return nil, errors.New("la demanda actual no supera la necesidad congelada, no hay nada que ajustar")
		}
		hoy := time.Now().UTC().Truncate(24 * time.Hour)
		ajuste := model.OrdenFabricacion{
			FechaCreacion:       hoy,
			FechaPlanificada:    orden.FechaPlanificada,
			ElaboracionID:       orden.ElaboracionID,
			CantidadPlanificada: diferencia,
			NecesidadTotal:      diferencia,
			Partida:             orden.Partida,
			EventoIDs:           orden.EventoIDs,
			Estado:              model.OrdenPendiente,
		}
		if err := s.ordenes.Crear(ctx, &ajuste); err != nil {
			return nil, err
		}
		involucradas = []model.OrdenFabricacion{ajuste, *orden}

	case "aceptar_excedente":
		if diferencia.GreaterThanOrEqual(planner.Epsilon.Neg()) {
			return nil, errors.New("la demanda actual no quedó por debajo de la necesidad congelada, no hay excedente que aceptar")
		}
		if err := s.ordenes.ActualizarNecesidad(ctx, orden.ID, actual); err != nil {
			return nil, err
		}
		orden.NecesidadTotal = actual
		involucradas = []model.OrdenFabricacion{*orden}

	default:
		return nil, fmt.Errorf("acción de resolución desconocida: %q", req.Accion)
	}

	if err := s.comandas.CapturarPristinas(ctx, afectados); err != nil {
		return nil, fmt.Errorf("congelando comandas: %w", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	recomputado, err := s.recalcular(ctx, v)
	if err != nil {
		return nil, err
	}

	resp := &dto.ResolverDesviacionResponse{
		Ordenes: make([]dto.OrdenResponse, 0, len(involucradas)),
		Plan:    *recomputado,
	}
	for i := range involucradas {
		resp.Ordenes = append(resp.Ordenes, ordenToResponse(&involucradas[i], &elab))
	}
	return resp, nil
}

// necesidadCongelada sums the frozen requirement over every snapshot order of
// the same elaboración sharing an event with orden. Mirrors the grouping the
// deviation detector applies, so a resolution here clears the deviation there.
func necesidadCongelada(ordenes []model.OrdenFabricacion, orden *model.OrdenFabricacion) decimal.Decimal {
	eventos := map[uuid.UUID]bool{}
	for _, id := range orden.Eventos() {
		eventos[id] = true
	}
	total := decimal.Zero
	visto := false
	for i := range ordenes {
		o := &ordenes[i]
		if o.ElaboracionID != orden.ElaboracionID {
			continue
		}
		comparte := false
		for _, id := range o.Eventos() {
			if eventos[id] {
				comparte = true
				break
			}
		}
		if !comparte {
			continue
		}
		total = total.Add(o.NecesidadTotal)
		if o.ID == orden.ID {
			visto = true
		}
	}
	// an order outside the snapshot (window moved) still counts itself
	if !visto {
		total = total.Add(orden.NecesidadTotal)
	}
	return total
}

func appendUnico(ids []string, id string) []string {
	for _, existente := range ids {
		if existente == id {
			return ids
		}
	}
	return append(ids, id)
}
