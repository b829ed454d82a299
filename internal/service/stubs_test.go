package service

// In-memory repository fakes shared by the service tests. They reproduce the
// behavior the services rely on (inclusive date windows, sequence allocation,
// the necesidad_total write protection) without a database.

import (
	"context"
	"errors"
	"time"

	"gastroplan/internal/model"
	"gastroplan/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errNoEncontrado = errors.New("record not found")

// ── EventoRepository ─────────────────────────────────────────────────────────

type memEventoRepo struct {
	eventos []model.Evento
}

func (r *memEventoRepo) Crear(_ context.Context, e *model.Evento) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.eventos = append(r.eventos, *e)
	return nil
}

func (r *memEventoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Evento, error) {
	for i := range r.eventos {
		if r.eventos[i].ID == id {
			e := r.eventos[i]
			return &e, nil
		}
	}
	return nil, errNoEncontrado
}

func (r *memEventoRepo) Listar(_ context.Context, estado string) ([]model.Evento, error) {
	var out []model.Evento
	for _, e := range r.eventos {
		if estado != "" && estado != "all" && e.Estado != estado {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memEventoRepo) Actualizar(_ context.Context, e *model.Evento) error {
	for i := range r.eventos {
		if r.eventos[i].ID == e.ID {
			hitos := r.eventos[i].Hitos
			r.eventos[i] = *e
			r.eventos[i].Hitos = hitos
			return nil
		}
	}
	return errNoEncontrado
}

func (r *memEventoRepo) CrearHito(_ context.Context, h *model.Hito) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	for i := range r.eventos {
		if r.eventos[i].ID == h.EventoID {
			r.eventos[i].Hitos = append(r.eventos[i].Hitos, *h)
			return nil
		}
	}
	return errNoEncontrado
}

func (r *memEventoRepo) ActualizarHito(_ context.Context, h *model.Hito) error {
	for i := range r.eventos {
		for j := range r.eventos[i].Hitos {
			if r.eventos[i].Hitos[j].ID == h.ID {
				r.eventos[i].Hitos[j] = *h
				return nil
			}
		}
	}
	return errNoEncontrado
}

func (r *memEventoRepo) ListarConfirmadosEnVentana(_ context.Context, desde, hasta time.Time) ([]model.Evento, error) {
	var out []model.Evento
	for _, e := range r.eventos {
		if e.Estado != model.EventoConfirmado {
			continue
		}
		if e.FechaInicio.Before(desde) || e.FechaInicio.After(hasta) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

var _ repository.EventoRepository = (*memEventoRepo)(nil)

// ── ComandaRepository ────────────────────────────────────────────────────────

type memComandaRepo struct {
	comandas  map[uuid.UUID]model.ComandaGastronomica
	pristinas map[uuid.UUID]model.ComandaPristina
	capturas  [][]uuid.UUID
}

func newMemComandaRepo() *memComandaRepo {
	return &memComandaRepo{
		comandas:  map[uuid.UUID]model.ComandaGastronomica{},
		pristinas: map[uuid.UUID]model.ComandaPristina{},
	}
}

func (r *memComandaRepo) Guardar(_ context.Context, c *model.ComandaGastronomica) error {
	r.comandas[c.ID] = *c
	return nil
}

func (r *memComandaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ComandaGastronomica, error) {
	c, ok := r.comandas[id]
	if !ok {
		return nil, errNoEncontrado
	}
	return &c, nil
}

func (r *memComandaRepo) ListarPorEventos(_ context.Context, eventoIDs []uuid.UUID) ([]model.ComandaGastronomica, error) {
	set := map[uuid.UUID]bool{}
	for _, id := range eventoIDs {
		set[id] = true
	}
	var out []model.ComandaGastronomica
	for _, c := range r.comandas {
		if set[c.EventoID] {
			out = append(out, c)
		}
	}
	return out, nil
}

// CapturarPristinas rebuilds the frozen copies from the current comanda
// lines, as the real repository does, and records which events were captured.
func (r *memComandaRepo) CapturarPristinas(ctx context.Context, eventoIDs []uuid.UUID) error {
	r.capturas = append(r.capturas, append([]uuid.UUID{}, eventoIDs...))
	comandas, _ := r.ListarPorEventos(ctx, eventoIDs)
	for _, c := range comandas {
		pristina := model.ComandaPristina{
			ComandaID:   c.ID,
			EventoID:    c.EventoID,
			Etiqueta:    c.Etiqueta,
			CapturadaEn: time.Now().UTC(),
		}
		for _, l := range c.Lineas {
			if !l.EsReceta() {
				continue
			}
			pristina.Lineas = append(pristina.Lineas, model.LineaPristina{
				ComandaID: c.ID,
				RecetaID:  *l.RecetaID,
				Cantidad:  l.Cantidad,
			})
		}
		r.pristinas[c.ID] = pristina
	}
	return nil
}

func (r *memComandaRepo) ListarPristinasPorEventos(_ context.Context, eventoIDs []uuid.UUID) ([]model.ComandaPristina, error) {
	set := map[uuid.UUID]bool{}
	for _, id := range eventoIDs {
		set[id] = true
	}
	var out []model.ComandaPristina
	for _, p := range r.pristinas {
		if set[p.EventoID] {
			out = append(out, p)
		}
	}
	return out, nil
}

var _ repository.ComandaRepository = (*memComandaRepo)(nil)

// ── RecetaRepository ─────────────────────────────────────────────────────────

type memRecetaRepo struct {
	recetas []model.Receta
}

func (r *memRecetaRepo) Crear(_ context.Context, receta *model.Receta) error {
	if receta.ID == uuid.Nil {
		receta.ID = uuid.New()
	}
	r.recetas = append(r.recetas, *receta)
	return nil
}

func (r *memRecetaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Receta, error) {
	for i := range r.recetas {
		if r.recetas[i].ID == id {
			receta := r.recetas[i]
			return &receta, nil
		}
	}
	return nil, errNoEncontrado
}

func (r *memRecetaRepo) Listar(_ context.Context, incluirInactivas bool) ([]model.Receta, error) {
	var out []model.Receta
	for _, receta := range r.recetas {
		if !incluirInactivas && !receta.Activa {
			continue
		}
		out = append(out, receta)
	}
	return out, nil
}

func (r *memRecetaRepo) Actualizar(_ context.Context, receta *model.Receta) error {
	for i := range r.recetas {
		if r.recetas[i].ID == receta.ID {
			r.recetas[i] = *receta
			return nil
		}
	}
	return errNoEncontrado
}

func (r *memRecetaRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	for i := range r.recetas {
		if r.recetas[i].ID == id {
			r.recetas[i].Activa = false
			return nil
		}
	}
	return errNoEncontrado
}

var _ repository.RecetaRepository = (*memRecetaRepo)(nil)

// ── ElaboracionRepository ────────────────────────────────────────────────────

type memElaboracionRepo struct {
	elaboraciones []model.Elaboracion
}

func (r *memElaboracionRepo) Crear(_ context.Context, e *model.Elaboracion) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.elaboraciones = append(r.elaboraciones, *e)
	return nil
}

func (r *memElaboracionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Elaboracion, error) {
	for i := range r.elaboraciones {
		if r.elaboraciones[i].ID == id {
			e := r.elaboraciones[i]
			return &e, nil
		}
	}
	return nil, errNoEncontrado
}

func (r *memElaboracionRepo) Listar(_ context.Context, partida string) ([]model.Elaboracion, error) {
	var out []model.Elaboracion
	for _, e := range r.elaboraciones {
		if partida != "" && partida != "all" && e.Partida != partida {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memElaboracionRepo) Actualizar(_ context.Context, e *model.Elaboracion) error {
	for i := range r.elaboraciones {
		if r.elaboraciones[i].ID == e.ID {
			r.elaboraciones[i] = *e
			return nil
		}
	}
	return errNoEncontrado
}

func (r *memElaboracionRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	for i := range r.elaboraciones {
		if r.elaboraciones[i].ID == id {
			r.elaboraciones[i].Activa = false
			return nil
		}
	}
	return errNoEncontrado
}

var _ repository.ElaboracionRepository = (*memElaboracionRepo)(nil)

// ── OrdenRepository ──────────────────────────────────────────────────────────

type memOrdenRepo struct {
	ordenes []model.OrdenFabricacion
}

func (r *memOrdenRepo) Crear(_ context.Context, o *model.OrdenFabricacion) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.Anio = o.FechaCreacion.Year()
	max := 0
	for i := range r.ordenes {
		if r.ordenes[i].Anio == o.Anio && r.ordenes[i].Secuencia > max {
			max = r.ordenes[i].Secuencia
		}
	}
	o.Secuencia = max + 1
	r.ordenes = append(r.ordenes, *o)
	return nil
}

func (r *memOrdenRepo) FindByID(_ context.Context, id uuid.UUID) (*model.OrdenFabricacion, error) {
	for i := range r.ordenes {
		if r.ordenes[i].ID == id {
			o := r.ordenes[i]
			return &o, nil
		}
	}
	return nil, errNoEncontrado
}

func (r *memOrdenRepo) Listar(_ context.Context, estado string) ([]model.OrdenFabricacion, error) {
	var out []model.OrdenFabricacion
	for _, o := range r.ordenes {
		if estado != "" && estado != "all" && o.Estado != estado {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *memOrdenRepo) ListarRelevantes(_ context.Context, _, _ time.Time, _ []uuid.UUID) ([]model.OrdenFabricacion, error) {
	return append([]model.OrdenFabricacion{}, r.ordenes...), nil
}

// Actualizar mimics the column omit of the real repository: the stored
// frozen requirement survives a generic update.
func (r *memOrdenRepo) Actualizar(_ context.Context, o *model.OrdenFabricacion) error {
	for i := range r.ordenes {
		if r.ordenes[i].ID == o.ID {
			congelada := r.ordenes[i].NecesidadTotal
			r.ordenes[i] = *o
			r.ordenes[i].NecesidadTotal = congelada
			return nil
		}
	}
	return errNoEncontrado
}

func (r *memOrdenRepo) ActualizarNecesidad(_ context.Context, id uuid.UUID, valor decimal.Decimal) error {
	for i := range r.ordenes {
		if r.ordenes[i].ID == id {
			r.ordenes[i].NecesidadTotal = valor
			return nil
		}
	}
	return errNoEncontrado
}

var _ repository.OrdenRepository = (*memOrdenRepo)(nil)

// ── PlanCache ────────────────────────────────────────────────────────────────

type memCache struct {
	entries        map[string][]byte
	invalidaciones int
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	raw, ok := c.entries[key]
	return raw, ok
}

func (c *memCache) Set(_ context.Context, key string, value []byte) {
	c.entries[key] = value
}

func (c *memCache) Invalidate(_ context.Context) {
	c.entries = map[string][]byte{}
	c.invalidaciones++
}

var _ PlanCache = (*memCache)(nil)
