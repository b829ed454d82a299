package service

// Scenario tests for the planning service over in-memory repositories:
// cached plan reads, order generation from shortage rows, the no-op paths
// and both deviation resolutions. Windows are anchored on today because
// open orders count against the window through their creation date.

import (
	"context"
	"testing"
	"time"

	"gastroplan/internal/dto"
	"gastroplan/internal/model"
	"gastroplan/internal/planner"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

// planFixture wires one confirmed event (one gastronomy hito, one comanda
// with a single recipe line) through a catalog of one receta and one
// elaboración: 100 units of "Solomillo Wellington" at 0.1 kg of demi-glace
// per unit, so the gross demand for the elaboración is 10 kg.
type planFixture struct {
	eventos       *memEventoRepo
	comandas      *memComandaRepo
	recetas       *memRecetaRepo
	elaboraciones *memElaboracionRepo
	ordenes       *memOrdenRepo
	cache         *memCache
	svc           PlanificacionService

	hoy      time.Time
	desde    string
	hasta    string
	eventoID uuid.UUID
	hitoID   uuid.UUID
	recetaID uuid.UUID
	elabID   uuid.UUID
}

func newPlanFixture(t *testing.T) *planFixture {
	t.Helper()
	f := &planFixture{
		eventos:       &memEventoRepo{},
		comandas:      newMemComandaRepo(),
		recetas:       &memRecetaRepo{},
		elaboraciones: &memElaboracionRepo{},
		ordenes:       &memOrdenRepo{},
		cache:         newMemCache(),
	}
	f.svc = NewPlanificacionService(f.eventos, f.comandas, f.recetas, f.elaboraciones, f.ordenes, f.cache, nil)

	f.hoy = time.Now().UTC().Truncate(24 * time.Hour)
	f.desde = f.hoy.Format(planner.FormatoDia)
	f.hasta = f.hoy.AddDate(0, 0, 2).Format(planner.FormatoDia)

	ctx := context.Background()

	elab := model.Elaboracion{
		Nombre:  "Salsa demi-glace",
		Unidad:  model.UnidadKg,
		Partida: model.PartidaCaliente,
		Activa:  true,
	}
	require.NoError(t, f.elaboraciones.Crear(ctx, &elab))
	f.elabID = elab.ID

	receta := model.Receta{
		Nombre: "Solomillo Wellington",
		Activa: true,
		Componentes: []model.ComponenteReceta{
			{ElaboracionID: elab.ID, CantidadPorUnidad: d("0.1")},
		},
	}
	require.NoError(t, f.recetas.Crear(ctx, &receta))
	f.recetaID = receta.ID

	evento := model.Evento{
		Nombre:      "Boda García-Pérez",
		Estado:      model.EventoConfirmado,
		FechaInicio: f.hoy.AddDate(0, 0, 1),
	}
	require.NoError(t, f.eventos.Crear(ctx, &evento))
	f.eventoID = evento.ID

	hito := model.Hito{
		EventoID:         evento.ID,
		Fecha:            evento.FechaInicio,
		Descripcion:      "Cena de gala",
		Asistentes:       100,
		TieneGastronomia: true,
	}
	require.NoError(t, f.eventos.CrearHito(ctx, &hito))
	f.hitoID = hito.ID

	comanda := model.ComandaGastronomica{
		ID:       hito.ID,
		EventoID: evento.ID,
		Etiqueta: "Cena de gala",
		Lineas: []model.LineaComanda{
			{Orden: 1, Tipo: model.LineaReceta, RecetaID: &f.recetaID, Cantidad: d("100")},
		},
	}
	require.NoError(t, f.comandas.Guardar(ctx, &comanda))

	return f
}

// cambiarCantidadLinea edits the comanda's recipe line after the fact,
// simulating an event edit from the booking screens.
func (f *planFixture) cambiarCantidadLinea(t *testing.T, cantidad decimal.Decimal) {
	t.Helper()
	comanda, err := f.comandas.FindByID(context.Background(), f.hitoID)
	require.NoError(t, err)
	comanda.Lineas[0].Cantidad = cantidad
	require.NoError(t, f.comandas.Guardar(context.Background(), comanda))
}

func (f *planFixture) ventana() (time.Time, time.Time) {
	return f.hoy, f.hoy.AddDate(0, 0, 2)
}

// ── Calcular ─────────────────────────────────────────────────────────────────

func TestCalcularRechazaVentanaInvertida(t *testing.T) {
	f := newPlanFixture(t)
	desde, _ := f.ventana()

	_, err := f.svc.Calcular(context.Background(), desde, desde.AddDate(0, 0, -1))
	assert.Error(t, err)
}

func TestCalcularDetectaFalta(t *testing.T) {
	f := newPlanFixture(t)
	desde, hasta := f.ventana()

	resultado, err := f.svc.Calcular(context.Background(), desde, hasta)
	require.NoError(t, err)

	require.Len(t, resultado.Necesidades, 1)
	fila := resultado.Necesidades[0]
	assert.Equal(t, planner.TipoFalta, fila.Tipo)
	assert.Equal(t, f.elabID, fila.ElaboracionID)
	assert.True(t, fila.Cantidad.Equal(d("10")), "cantidad = %s", fila.Cantidad)
	assert.True(t, fila.DemandaBruta.Equal(d("10")))
	assert.Equal(t, model.PartidaCaliente, fila.Partida)
}

func TestCalcularSirveDesdeCache(t *testing.T) {
	f := newPlanFixture(t)
	desde, hasta := f.ventana()
	ctx := context.Background()

	primero, err := f.svc.Calcular(ctx, desde, hasta)
	require.NoError(t, err)
	require.Len(t, f.cache.entries, 1)

	// an edit without invalidation must not be visible yet
	f.cambiarCantidadLinea(t, d("150"))
	segundo, err := f.svc.Calcular(ctx, desde, hasta)
	require.NoError(t, err)
	assert.True(t, segundo.Necesidades[0].Cantidad.Equal(primero.Necesidades[0].Cantidad))

	f.cache.Invalidate(ctx)
	tercero, err := f.svc.Calcular(ctx, desde, hasta)
	require.NoError(t, err)
	assert.True(t, tercero.Necesidades[0].Cantidad.Equal(d("15")))
}

// ── GenerarOrdenes ───────────────────────────────────────────────────────────

func TestGenerarOrdenesCreaOrdenDesdeFalta(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	fechaProduccion := f.hoy.AddDate(0, 0, 1).Format(planner.FormatoDia)

	resp, err := f.svc.GenerarOrdenes(ctx, dto.GenerarOrdenesRequest{
		Desde:           f.desde,
		Hasta:           f.hasta,
		FechaProduccion: fechaProduccion,
		ElaboracionIDs:  []string{f.elabID.String()},
	})
	require.NoError(t, err)

	require.Len(t, resp.Ordenes, 1)
	assert.Empty(t, resp.Omitidas)
	orden := resp.Ordenes[0]
	assert.Equal(t, time.Now().UTC().Year(), orden.Anio)
	assert.Equal(t, 1, orden.Secuencia)
	assert.Contains(t, orden.Codigo, "-0001")
	assert.Equal(t, model.OrdenPendiente, orden.Estado)
	assert.Equal(t, fechaProduccion, orden.FechaPlanificada)
	assert.True(t, orden.CantidadPlanificada.Equal(d("10")))
	assert.True(t, orden.NecesidadTotal.Equal(d("10")))
	assert.Equal(t, model.PartidaCaliente, orden.Partida)
	assert.Contains(t, orden.EventoIDs, f.eventoID.String())
	assert.Equal(t, "Salsa demi-glace", orden.ElaboracionNombre)

	// pristine copies frozen for the contributing event
	require.Len(t, f.comandas.capturas, 1)
	assert.Contains(t, f.comandas.capturas[0], f.eventoID)
	require.Contains(t, f.comandas.pristinas, f.hitoID)
	assert.True(t, f.comandas.pristinas[f.hitoID].Lineas[0].Cantidad.Equal(d("100")))

	assert.GreaterOrEqual(t, f.cache.invalidaciones, 1)

	// the fresh pendiente order nets the shortage away in the returned plan
	assert.Empty(t, resp.Plan.Necesidades)
	assert.Empty(t, resp.Plan.Desviaciones)
}

func TestGenerarOrdenesCongelaLaFaltaNoLaDemanda(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	ordenID := f.generarOrdenBase(t)

	// the event grows after the first generation: 100 → 150 units, so the
	// window shows demand 15, production 10 and a shortage of 5
	f.cambiarCantidadLinea(t, d("150"))

	resp, err := f.svc.GenerarOrdenes(ctx, dto.GenerarOrdenesRequest{
		Desde:           f.desde,
		Hasta:           f.hasta,
		FechaProduccion: f.hoy.AddDate(0, 0, 1).Format(planner.FormatoDia),
		ElaboracionIDs:  []string{f.elabID.String()},
	})
	require.NoError(t, err)

	require.Len(t, resp.Ordenes, 1)
	segunda := resp.Ordenes[0]
	assert.True(t, segunda.CantidadPlanificada.Equal(d("5")), "cantidad = %s", segunda.CantidadPlanificada)
	assert.True(t, segunda.NecesidadTotal.Equal(d("5")), "necesidad = %s", segunda.NecesidadTotal)

	original, err := f.ordenes.FindByID(ctx, ordenID)
	require.NoError(t, err)
	assert.True(t, original.NecesidadTotal.Equal(d("10")))

	// frozen sums (10 + 5) match the demand at generation time, so the
	// returned plan carries neither a gap nor a deviation
	assert.Empty(t, resp.Plan.Necesidades)
	assert.Empty(t, resp.Plan.Desviaciones)
}

func TestGenerarOrdenesOmiteSeleccionesInvalidas(t *testing.T) {
	f := newPlanFixture(t)
	desconocida := uuid.NewString()

	resp, err := f.svc.GenerarOrdenes(context.Background(), dto.GenerarOrdenesRequest{
		Desde:           f.desde,
		Hasta:           f.hasta,
		FechaProduccion: f.desde,
		ElaboracionIDs:  []string{"no-es-un-uuid", desconocida, f.elabID.String(), f.elabID.String()},
	})
	require.NoError(t, err)

	// duplicates collapse into one order, bad selections are no-ops
	require.Len(t, resp.Ordenes, 1)
	require.Len(t, resp.Omitidas, 3)
	assert.Equal(t, "no-es-un-uuid", resp.Omitidas[0].ElaboracionID)
	assert.Equal(t, desconocida, resp.Omitidas[1].ElaboracionID)
	assert.Equal(t, f.elabID.String(), resp.Omitidas[2].ElaboracionID)
	assert.Contains(t, resp.Omitidas[2].Motivo, "duplicada")
	assert.Len(t, f.ordenes.ordenes, 1)
}

func TestGenerarOrdenesSinCreacionNoCongelaNiInvalida(t *testing.T) {
	f := newPlanFixture(t)

	resp, err := f.svc.GenerarOrdenes(context.Background(), dto.GenerarOrdenesRequest{
		Desde:           f.desde,
		Hasta:           f.hasta,
		FechaProduccion: f.desde,
		ElaboracionIDs:  []string{uuid.NewString()},
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Ordenes)
	require.Len(t, resp.Omitidas, 1)
	assert.Empty(t, f.comandas.capturas)
	assert.Equal(t, 0, f.cache.invalidaciones)
}

func TestGenerarOrdenesRechazaExcedenteComoNoOp(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()

	// existing production overshoots the 10 kg demand
	sobrante := model.OrdenFabricacion{
		FechaCreacion:       f.hoy,
		FechaPlanificada:    f.hoy,
		ElaboracionID:       f.elabID,
		CantidadPlanificada: d("20"),
		NecesidadTotal:      d("20"),
		Partida:             model.PartidaCaliente,
		EventoIDs:           []string{f.eventoID.String()},
		Estado:              model.OrdenPendiente,
	}
	require.NoError(t, f.ordenes.Crear(ctx, &sobrante))

	resp, err := f.svc.GenerarOrdenes(ctx, dto.GenerarOrdenesRequest{
		Desde:           f.desde,
		Hasta:           f.hasta,
		FechaProduccion: f.desde,
		ElaboracionIDs:  []string{f.elabID.String()},
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Ordenes)
	require.Len(t, resp.Omitidas, 1)
	assert.Equal(t, f.elabID.String(), resp.Omitidas[0].ElaboracionID)
	assert.Contains(t, resp.Omitidas[0].Motivo, "excedente")
	assert.Len(t, f.ordenes.ordenes, 1)
}

// ── ResolverDesviacion ───────────────────────────────────────────────────────

// generarOrdenBase runs a normal generation so the fixture holds one order
// with a frozen requirement of 10 kg and a captured pristine copy.
func (f *planFixture) generarOrdenBase(t *testing.T) uuid.UUID {
	t.Helper()
	resp, err := f.svc.GenerarOrdenes(context.Background(), dto.GenerarOrdenesRequest{
		Desde:           f.desde,
		Hasta:           f.hasta,
		FechaProduccion: f.hoy.AddDate(0, 0, 1).Format(planner.FormatoDia),
		ElaboracionIDs:  []string{f.elabID.String()},
	})
	require.NoError(t, err)
	require.Len(t, resp.Ordenes, 1)
	return uuid.MustParse(resp.Ordenes[0].ID)
}

func TestResolverDesviacionAjustarCreaOrdenDeAjuste(t *testing.T) {
	f := newPlanFixture(t)
	ordenID := f.generarOrdenBase(t)

	// the event grows after planning: 100 → 150 units, demand 10 → 15 kg
	f.cambiarCantidadLinea(t, d("150"))

	resp, err := f.svc.ResolverDesviacion(context.Background(), ordenID, dto.ResolverDesviacionRequest{
		Desde:  f.desde,
		Hasta:  f.hasta,
		Accion: "ajustar",
	})
	require.NoError(t, err)

	require.Len(t, resp.Ordenes, 2)
	ajuste := resp.Ordenes[0]
	assert.Equal(t, 2, ajuste.Secuencia)
	assert.True(t, ajuste.CantidadPlanificada.Equal(d("5")))
	assert.True(t, ajuste.NecesidadTotal.Equal(d("5")))
	assert.Equal(t, model.OrdenPendiente, ajuste.Estado)
	assert.Contains(t, ajuste.EventoIDs, f.eventoID.String())

	// the original order's frozen requirement is untouched
	original, err := f.ordenes.FindByID(context.Background(), ordenID)
	require.NoError(t, err)
	assert.True(t, original.NecesidadTotal.Equal(d("10")))

	// frozen sum now matches demand: the deviation clears and so does the gap
	assert.Empty(t, resp.Plan.Desviaciones)
	assert.Empty(t, resp.Plan.Necesidades)
}

func TestResolverDesviacionAjustarSinCrecimiento(t *testing.T) {
	f := newPlanFixture(t)
	ordenID := f.generarOrdenBase(t)

	_, err := f.svc.ResolverDesviacion(context.Background(), ordenID, dto.ResolverDesviacionRequest{
		Desde:  f.desde,
		Hasta:  f.hasta,
		Accion: "ajustar",
	})
	assert.Error(t, err)
	assert.Len(t, f.ordenes.ordenes, 1)
}

func TestResolverDesviacionAceptarExcedente(t *testing.T) {
	f := newPlanFixture(t)
	ordenID := f.generarOrdenBase(t)

	// the event shrinks after planning: 100 → 60 units, demand 10 → 6 kg
	f.cambiarCantidadLinea(t, d("60"))

	resp, err := f.svc.ResolverDesviacion(context.Background(), ordenID, dto.ResolverDesviacionRequest{
		Desde:  f.desde,
		Hasta:  f.hasta,
		Accion: "aceptar_excedente",
	})
	require.NoError(t, err)

	require.Len(t, resp.Ordenes, 1)
	assert.True(t, resp.Ordenes[0].NecesidadTotal.Equal(d("6")))

	almacenada, err := f.ordenes.FindByID(context.Background(), ordenID)
	require.NoError(t, err)
	assert.True(t, almacenada.NecesidadTotal.Equal(d("6")))
	// the planned quantity stays: the excess is accepted stock
	assert.True(t, almacenada.CantidadPlanificada.Equal(d("10")))

	assert.Empty(t, resp.Plan.Desviaciones)
}

func TestResolverDesviacionAceptarSinExcedente(t *testing.T) {
	f := newPlanFixture(t)
	ordenID := f.generarOrdenBase(t)
	f.cambiarCantidadLinea(t, d("150"))

	_, err := f.svc.ResolverDesviacion(context.Background(), ordenID, dto.ResolverDesviacionRequest{
		Desde:  f.desde,
		Hasta:  f.hasta,
		Accion: "aceptar_excedente",
	})
	assert.Error(t, err)

	almacenada, err := f.ordenes.FindByID(context.Background(), ordenID)
	require.NoError(t, err)
	assert.True(t, almacenada.NecesidadTotal.Equal(d("10")))
}

func TestResolverDesviacionOrdenInexistente(t *testing.T) {
	f := newPlanFixture(t)

	_, err := f.svc.ResolverDesviacion(context.Background(), uuid.New(), dto.ResolverDesviacionRequest{
		Desde:  f.desde,
		Hasta:  f.hasta,
		Accion: "ajustar",
	})
	assert.Error(t, err)
}
