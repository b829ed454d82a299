package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gastroplan/internal/dto"
	"gastroplan/internal/model"
	"gastroplan/internal/planner"
	"gastroplan/internal/repository"

	"github.com/google/uuid"
)

type EventoService interface {
	Crear(ctx context.Context, req dto.CrearEventoRequest) (*dto.EventoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.EventoResponse, error)
	Listar(ctx context.Context, estado string) ([]dto.EventoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEventoRequest) (*dto.EventoResponse, error)
	CrearHito(ctx context.Context, eventoID uuid.UUID, req dto.CrearHitoRequest) (*dto.HitoResponse, error)
	ActualizarHito(ctx context.Context, eventoID, hitoID uuid.UUID, req dto.ActualizarHitoRequest) (*dto.HitoResponse, error)
	GuardarComanda(ctx context.Context, eventoID, hitoID uuid.UUID, req dto.GuardarComandaRequest) (*dto.ComandaResponse, error)
	ObtenerComanda(ctx context.Context, hitoID uuid.UUID) (*dto.ComandaResponse, error)
}

type eventoService struct {
	repo     repository.EventoRepository
	comandas repository.ComandaRepository
	recetas  repository.RecetaRepository
	cache    PlanCache
}

func NewEventoService(
	repo repository.EventoRepository,
	comandas repository.ComandaRepository,
	recetas repository.RecetaRepository,
	cache PlanCache,
) EventoService {
	return &eventoService{repo: repo, comandas: comandas, recetas: recetas, cache: cache}
}

func (s *eventoService) Crear(ctx context.Context, req dto.CrearEventoRequest) (*dto.EventoResponse, error) {
	inicio, err := time.Parse(planner.FormatoDia, req.FechaInicio)
	if err != nil {
		return nil, errors.New("fecha_inicio inválida")
	}
	e := &model.Evento{
		Nombre:      req.Nombre,
		Cliente:     req.Cliente,
		Estado:      model.EventoBorrador,
		FechaInicio: inicio,
		Espacio:     req.Espacio,
	}
	if req.FechaFin != "" {
		fin, err := time.Parse(planner.FormatoDia, req.FechaFin)
		if err != nil {
			return nil, errors.New("fecha_fin inválida")
		}
		e.FechaFin = &fin
	}
	if err := s.repo.Crear(ctx, e); err != nil {
		return nil, err
	}
	return eventoToResponse(e), nil
}

func (s *eventoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.EventoResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("evento no encontrado")
	}
	return eventoToResponse(e), nil
}

func (s *eventoService) Listar(ctx context.Context, estado string) ([]dto.EventoResponse, error) {
	eventos, err := s.repo.Listar(ctx, estado)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EventoResponse, 0, len(eventos))
	for i := range eventos {
		out = append(out, *eventoToResponse(&eventos[i]))
	}
	return out, nil
}

func (s *eventoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEventoRequest) (*dto.EventoResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("evento no encontrado")
	}
	if req.Nombre != "" {
		e.Nombre = req.Nombre
	}
	if req.Cliente != "" {
		e.Cliente = req.Cliente
	}
	if req.Estado != "" {
		e.Estado = req.Estado
	}
	if req.Espacio != "" {
		e.Espacio = req.Espacio
	}
	if req.FechaInicio != "" {
		inicio, err := time.Parse(planner.FormatoDia, req.FechaInicio)
		if err != nil {
			return nil, errors.New("fecha_inicio inválida")
		}
		e.FechaInicio = inicio
	}
	if req.FechaFin != "" {
		fin, err := time.Parse(planner.FormatoDia, req.FechaFin)
		if err != nil {
			return nil, errors.New("fecha_fin inválida")
		}
		e.FechaFin = &fin
	}
	if err := s.repo.Actualizar(ctx, e); err != nil {
		return nil, err
	}
	s.invalidar(ctx)
	return eventoToResponse(e), nil
}

func (s *eventoService) CrearHito(ctx context.Context, eventoID uuid.UUID, req dto.CrearHitoRequest) (*dto.HitoResponse, error) {
	if _, err := s.repo.FindByID(ctx, eventoID); err != nil {
		return nil, errors.New("evento no encontrado")
	}
	fecha, err := time.Parse(planner.FormatoDia, req.Fecha)
	if err != nil {
		return nil, errors.New("fecha inválida")
	}
	h := &model.Hito{
		EventoID:         eventoID,
		Fecha:            fecha,
		Descripcion:      req.Descripcion,
		Asistentes:       req.Asistentes,
		TieneGastronomia: req.TieneGastronomia,
	}
	if err := s.repo.CrearHito(ctx, h); err != nil {
		return nil, err
	}
	s.invalidar(ctx)
	return hitoToResponse(h), nil
}

func (s *eventoService) ActualizarHito(ctx context.Context, eventoID, hitoID uuid.UUID, req dto.ActualizarHitoRequest) (*dto.HitoResponse, error) {
	hito, err := s.buscarHito(ctx, eventoID, hitoID)
	if err != nil {
		return nil, err
	}
	if req.Fecha != "" {
		fecha, err := time.Parse(planner.FormatoDia, req.Fecha)
		if err != nil {
			return nil, errors.New("fecha inválida")
		}
		hito.Fecha = fecha
	}
	if req.Descripcion != "" {
		hito.Descripcion = req.Descripcion
	}
	if req.Asistentes != nil {
		hito.Asistentes = *req.Asistentes
	}
	if req.TieneGastronomia != nil {
		hito.TieneGastronomia = *req.TieneGastronomia
	}
	if err := s.repo.ActualizarHito(ctx, hito); err != nil {
		return nil, err
	}
	s.invalidar(ctx)
	return hitoToResponse(hito), nil
}

// GuardarComanda upserts the gastronomy order attached to a hito. The
// comanda takes the hito's id; lines are replaced wholesale. Recipe lines
// must name an existing receta and a positive quantity, cross checks the
// binding tags cannot express.
func (s *eventoService) GuardarComanda(ctx context.Context, eventoID, hitoID uuid.UUID, req dto.GuardarComandaRequest) (*dto.ComandaResponse, error) {
	hito, err := s.buscarHito(ctx, eventoID, hitoID)
	if err != nil {
		return nil, err
	}
	if !hito.TieneGastronomia {
		return nil, errors.New("el hito no tiene gastronomía")
	}

	comanda := &model.ComandaGastronomica{
		ID:       hito.ID,
		EventoID: eventoID,
		Etiqueta: req.Etiqueta,
	}
	for i, l := range req.Lineas {
		linea := model.LineaComanda{
			ComandaID: hito.ID,
			Orden:     i,
			Tipo:      l.Tipo,
			Cantidad:  l.Cantidad,
			Texto:     l.Texto,
		}
		if l.Tipo == model.LineaReceta {
			if l.RecetaID == nil {
				return nil, fmt.Errorf("la línea %d es de receta y no indica receta_id", i)
			}
			recetaID, err := uuid.Parse(*l.RecetaID)
			if err != nil {
				return nil, fmt.Errorf("receta_id inválido en la línea %d", i)
			}
			if !l.Cantidad.IsPositive() {
				return nil, fmt.Errorf("la línea %d necesita una cantidad positiva", i)
			}
			if _, err := s.recetas.FindByID(ctx, recetaID); err != nil {
				return nil, fmt.Errorf("receta %s no encontrada", *l.RecetaID)
			}
			linea.RecetaID = &recetaID
		}
		comanda.Lineas = append(comanda.Lineas, linea)
	}

	if err := s.comandas.Guardar(ctx, comanda); err != nil {
		return nil, err
	}
	s.invalidar(ctx)
	return comandaToResponse(comanda), nil
}

func (s *eventoService) ObtenerComanda(ctx context.Context, hitoID uuid.UUID) (*dto.ComandaResponse, error) {
	comanda, err := s.comandas.FindByID(ctx, hitoID)
	if err != nil {
		return nil, errors.New("comanda no encontrada")
	}
	return comandaToResponse(comanda), nil
}

func (s *eventoService) buscarHito(ctx context.Context, eventoID, hitoID uuid.UUID) (*model.Hito, error) {
	e, err := s.repo.FindByID(ctx, eventoID)
	if err != nil {
		return nil, errors.New("evento no encontrado")
	}
	for i := range e.Hitos {
		if e.Hitos[i].ID == hitoID {
			return &e.Hitos[i], nil
		}
	}
	return nil, errors.New("hito no encontrado")
}

func (s *eventoService) invalidar(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func eventoToResponse(e *model.Evento) *dto.EventoResponse {
	resp := &dto.EventoResponse{
		ID:          e.ID.String(),
		Nombre:      e.Nombre,
		Cliente:     e.Cliente,
		Estado:      e.Estado,
		FechaInicio: e.FechaInicio.Format(planner.FormatoDia),
		Espacio:     e.Espacio,
		Hitos:       make([]dto.HitoResponse, 0, len(e.Hitos)),
	}
	if e.FechaFin != nil {
		f := e.FechaFin.Format(planner.FormatoDia)
		resp.FechaFin = &f
	}
	for i := range e.Hitos {
		resp.Hitos = append(resp.Hitos, *hitoToResponse(&e.Hitos[i]))
	}
	return resp
}

func hitoToResponse(h *model.Hito) *dto.HitoResponse {
	return &dto.HitoResponse{
		ID:               h.ID.String(),
		Fecha:            h.Fecha.Format(planner.FormatoDia),
		Descripcion:      h.Descripcion,
		Asistentes:       h.Asistentes,
		TieneGastronomia: h.TieneGastronomia,
	}
}

func comandaToResponse(c *model.ComandaGastronomica) *dto.ComandaResponse {
	resp := &dto.ComandaResponse{
		ID:       c.ID.String(),
		EventoID: c.EventoID.String(),
		Etiqueta: c.Etiqueta,
		Lineas:   make([]dto.LineaComandaResponse, 0, len(c.Lineas)),
	}
	for _, l := range c.Lineas {
		linea := dto.LineaComandaResponse{
			Orden:    l.Orden,
			Tipo:     l.Tipo,
			Cantidad: l.Cantidad,
			Texto:    l.Texto,
		}
		if l.RecetaID != nil {
			id := l.RecetaID.String()
			linea.RecetaID = &id
		}
		resp.Lineas = append(resp.Lineas, linea)
	}
	return resp
}
