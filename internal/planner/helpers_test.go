package planner_test

import (
	"time"

	"gastroplan/internal/model"
	"gastroplan/internal/planner"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Builder for test snapshots: a small catering catalog plus events wired
// through hitos and comandas, in the shape the repositories load.

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func fecha(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ventana(desde, hasta string) planner.Ventana {
	return planner.Ventana{Desde: fecha(desde), Hasta: fecha(hasta)}
}

type snapBuilder struct {
	snap    planner.Snapshot
	eventos []*model.Evento
	ordenes []*model.OrdenFabricacion
}

func nuevoSnap() *snapBuilder {
	return &snapBuilder{snap: planner.Snapshot{
		Comandas:      map[uuid.UUID]model.ComandaGastronomica{},
		Pristinas:     map[uuid.UUID]model.ComandaPristina{},
		Recetas:       map[uuid.UUID]model.Receta{},
		Elaboraciones: map[uuid.UUID]model.Elaboracion{},
	}}
}

// construir materializes the snapshot the way the repositories hand it to the
// engine.
func (b *snapBuilder) construir() planner.Snapshot {
	s := b.snap
	s.Eventos = make([]model.Evento, 0, len(b.eventos))
	for _, ev := range b.eventos {
		s.Eventos = append(s.Eventos, *ev)
	}
	s.Ordenes = make([]model.OrdenFabricacion, 0, len(b.ordenes))
	for _, o := range b.ordenes {
		s.Ordenes = append(s.Ordenes, *o)
	}
	return s
}

func (b *snapBuilder) elaboracion(nombre, unidad, partida string) model.Elaboracion {
	e := model.Elaboracion{ID: uuid.New(), Nombre: nombre, Unidad: unidad, Partida: partida, Activa: true}
	b.snap.Elaboraciones[e.ID] = e
	return e
}

type componente struct {
	elab     model.Elaboracion
	cantidad string
}

func (b *snapBuilder) receta(nombre string, comps ...componente) model.Receta {
	r := model.Receta{ID: uuid.New(), Nombre: nombre, Activa: true}
	for _, c := range comps {
		r.Componentes = append(r.Componentes, model.ComponenteReceta{
			ID:                uuid.New(),
			RecetaID:          r.ID,
			ElaboracionID:     c.elab.ID,
			CantidadPorUnidad: d(c.cantidad),
		})
	}
	b.snap.Recetas[r.ID] = r
	return r
}

func (b *snapBuilder) evento(nombre, estado, inicio string) *model.Evento {
	ev := &model.Evento{
		ID:          uuid.New(),
		Nombre:      nombre,
		Estado:      estado,
		FechaInicio: fecha(inicio),
	}
	b.eventos = append(b.eventos, ev)
	return ev
}

type lineaSpec struct {
	receta   model.Receta
	cantidad string
}

// hitoConComanda attaches a gastronomy hito plus its comanda to the event.
func (b *snapBuilder) hitoConComanda(ev *model.Evento, descripcion, dia string, asistentes int, etiqueta string, lineas ...lineaSpec) model.Hito {
	h := model.Hito{
		ID:               uuid.New(),
		EventoID:         ev.ID,
		Fecha:            fecha(dia),
		Descripcion:      descripcion,
		Asistentes:       asistentes,
		TieneGastronomia: true,
	}
	ev.Hitos = append(ev.Hitos, h)

	comanda := model.ComandaGastronomica{ID: h.ID, EventoID: ev.ID, Etiqueta: etiqueta}
	for i, l := range lineas {
		rid := l.receta.ID
		comanda.Lineas = append(comanda.Lineas, model.LineaComanda{
			ID:        uuid.New(),
			ComandaID: comanda.ID,
			Orden:     i,
			Tipo:      model.LineaReceta,
			RecetaID:  &rid,
			Cantidad:  d(l.cantidad),
		})
	}
	b.snap.Comandas[comanda.ID] = comanda
	return h
}

// capturarPristinas freezes the current recipe lines of every comanda, the
// way order generation does.
func (b *snapBuilder) capturarPristinas() {
	for id, comanda := range b.snap.Comandas {
		p := model.ComandaPristina{ComandaID: id, EventoID: comanda.EventoID, Etiqueta: comanda.Etiqueta, CapturadaEn: time.Now()}
		for _, l := range comanda.Lineas {
			if l.EsReceta() {
				p.Lineas = append(p.Lineas, model.LineaPristina{ID: uuid.New(), ComandaID: id, RecetaID: *l.RecetaID, Cantidad: l.Cantidad})
			}
		}
		b.snap.Pristinas[id] = p
	}
}

func (b *snapBuilder) orden(elab model.Elaboracion, secuencia int, planificada, necesidad string, eventos ...*model.Evento) *model.OrdenFabricacion {
	ids := make([]string, 0, len(eventos))
	for _, ev := range eventos {
		ids = append(ids, ev.ID.String())
	}
	o := &model.OrdenFabricacion{
		ID:                  uuid.New(),
		Anio:                2026,
		Secuencia:           secuencia,
		FechaCreacion:       fecha("2026-09-01"),
		FechaPlanificada:    fecha("2026-09-01"),
		ElaboracionID:       elab.ID,
		CantidadPlanificada: d(planificada),
		NecesidadTotal:      d(necesidad),
		Partida:             elab.Partida,
		EventoIDs:           ids,
		Estado:              model.OrdenPendiente,
	}
	b.ordenes = append(b.ordenes, o)
	return o
}
