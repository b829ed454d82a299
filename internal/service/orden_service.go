package service

import (
	"context"
	"errors"
	"time"

	"gastroplan/internal/dto"
	"gastroplan/internal/model"
	"gastroplan/internal/planner"
	"gastroplan/internal/repository"

	"github.com/google/uuid"
)

// OrdenService covers the production-floor side of manufacturing orders:
// list boards, state advances, incidents, quality checks and closure. Order
// creation lives in PlanificacionService because only the engine creates
// orders.
type OrdenService interface {
	Listar(ctx context.Context, filter dto.OrdenFilter) (*dto.OrdenListResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.OrdenResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoRequest) (*dto.OrdenResponse, error)
	MarcarIncidencia(ctx context.Context, id uuid.UUID, req dto.IncidenciaRequest) (*dto.OrdenResponse, error)
	RegistrarCalidad(ctx context.Context, id uuid.UUID, req dto.CalidadRequest) (*dto.OrdenResponse, error)
	Cerrar(ctx context.Context, id uuid.UUID, req dto.CerrarOrdenRequest) (*dto.OrdenResponse, error)
}

type ordenService struct {
	repo  repository.OrdenRepository
	cache PlanCache
}

func NewOrdenService(repo repository.OrdenRepository, cache PlanCache) OrdenService {
	return &ordenService{repo: repo, cache: cache}
}

func (s *ordenService) Listar(ctx context.Context, filter dto.OrdenFilter) (*dto.OrdenListResponse, error) {
	ordenes, err := s.repo.Listar(ctx, filter.Estado)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrdenResponse, 0, len(ordenes))
	for i := range ordenes {
		if filter.Partida != "" && ordenes[i].Partida != filter.Partida {
			continue
		}
		data = append(data, ordenToResponse(&ordenes[i], ordenes[i].Elaboracion))
	}
	return &dto.OrdenListResponse{Data: data, Total: len(data)}, nil
}

func (s *ordenService) Obtener(ctx context.Context, id uuid.UUID) (*dto.OrdenResponse, error) {
	orden, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("orden de fabricación no encontrada")
	}
	resp := ordenToResponse(orden, orden.Elaboracion)
	return &resp, nil
}

func (s *ordenService) CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoRequest) (*dto.OrdenResponse, error) {
	orden, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("orden de fabricación no encontrada")
	}
	if err := orden.Avanzar(req.Estado); err != nil {
		return nil, err
	}
	if err := s.guardar(ctx, orden); err != nil {
		return nil, err
	}
	resp := ordenToResponse(orden, orden.Elaboracion)
	return &resp, nil
}

func (s *ordenService) MarcarIncidencia(ctx context.Context, id uuid.UUID, req dto.IncidenciaRequest) (*dto.OrdenResponse, error) {
	orden, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("orden de fabricación no encontrada")
	}
	if err := orden.MarcarIncidencia(req.Observacion); err != nil {
		return nil, err
	}
	if err := s.guardar(ctx, orden); err != nil {
		return nil, err
	}
	resp := ordenToResponse(orden, orden.Elaboracion)
	return &resp, nil
}

func (s *ordenService) RegistrarCalidad(ctx context.Context, id uuid.UUID, req dto.CalidadRequest) (*dto.OrdenResponse, error) {
	orden, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("orden de fabricación no encontrada")
	}
	if orden.Estado != model.OrdenFinalizada && orden.Estado != model.OrdenValidada {
		return nil, errors.New("el control de calidad solo se registra sobre órdenes finalizadas")
	}
	orden.CalidadOK = req.CalidadOK
	if err := s.guardar(ctx, orden); err != nil {
		return nil, err
	}
	resp := ordenToResponse(orden, orden.Elaboracion)
	return &resp, nil
}

// Cerrar records the actual quantity produced. Once closed, the order's
// production date is the closing date for netting purposes.
func (s *ordenService) Cerrar(ctx context.Context, id uuid.UUID, req dto.CerrarOrdenRequest) (*dto.OrdenResponse, error) {
	orden, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("orden de fabricación no encontrada")
	}
	if orden.Estado != model.OrdenFinalizada && orden.Estado != model.OrdenValidada {
		return nil, errors.New("solo se cierran órdenes finalizadas o validadas")
	}
	if orden.FechaCierre != nil {
		return nil, errors.New("la orden ya está cerrada")
	}

	cierre := time.Now().UTC().Truncate(24 * time.Hour)
	if req.FechaCierre != "" {
		cierre, err = time.Parse(planner.FormatoDia, req.FechaCierre)
		if err != nil {
			return nil, errors.New("fecha de cierre inválida")
		}
	}
	real := req.CantidadReal
	orden.CantidadReal = &real
	orden.FechaCierre = &cierre
	if err := s.guardar(ctx, orden); err != nil {
		return nil, err
	}
	resp := ordenToResponse(orden, orden.Elaboracion)
	return &resp, nil
}

// guardar persists floor changes and drops stale cached plans: produced
// quantities feed the netting rows.
func (s *ordenService) guardar(ctx context.Context, orden *model.OrdenFabricacion) error {
	if err := s.repo.Actualizar(ctx, orden); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return nil
}

func ordenToResponse(o *model.OrdenFabricacion, elab *model.Elaboracion) dto.OrdenResponse {
	resp := dto.OrdenResponse{
		ID:                    o.ID.String(),
		Codigo:                o.Codigo(),
		Anio:                  o.Anio,
		Secuencia:             o.Secuencia,
		FechaCreacion:         o.FechaCreacion.Format(planner.FormatoDia),
		FechaPlanificada:      o.FechaPlanificada.Format(planner.FormatoDia),
		ElaboracionID:         o.ElaboracionID.String(),
		Partida:               o.Partida,
		CantidadPlanificada:   o.CantidadPlanificada,
		NecesidadTotal:        o.NecesidadTotal,
		CantidadReal:          o.CantidadReal,
		EventoIDs:             append([]string{}, o.EventoIDs...),
		Estado:                o.Estado,
		Incidencia:            o.Incidencia,
		CalidadOK:             o.CalidadOK,
		ObservacionIncidencia: o.ObservacionIncidencia,
	}
	if o.FechaCierre != nil {
		f := o.FechaCierre.Format(planner.FormatoDia)
		resp.FechaCierre = &f
	}
	if elab != nil {
		resp.ElaboracionNombre = elab.Nombre
		resp.Unidad = elab.Unidad
	}
	return resp
}
