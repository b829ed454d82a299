package service

import (
	"context"
	"errors"

	"gastroplan/internal/dto"
	"gastroplan/internal/model"
	"gastroplan/internal/repository"

	"github.com/google/uuid"
)

type ElaboracionService interface {
	Crear(ctx context.Context, req dto.CrearElaboracionRequest) (*dto.ElaboracionResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ElaboracionResponse, error)
	Listar(ctx context.Context, partida string) ([]dto.ElaboracionResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarElaboracionRequest) (*dto.ElaboracionResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type elaboracionService struct {
	repo  repository.ElaboracionRepository
	cache PlanCache
}

func NewElaboracionService(repo repository.ElaboracionRepository, cache PlanCache) ElaboracionService {
	return &elaboracionService{repo: repo, cache: cache}
}

func (s *elaboracionService) Crear(ctx context.Context, req dto.CrearElaboracionRequest) (*dto.ElaboracionResponse, error) {
	e := &model.Elaboracion{
		Nombre:  req.Nombre,
		Unidad:  req.Unidad,
		Partida: req.Partida,
		Activa:  true,
	}
	if err := s.repo.Crear(ctx, e); err != nil {
		return nil, err
	}
	s.invalidar(ctx)
	return elaboracionToResponse(e), nil
}

func (s *elaboracionService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ElaboracionResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("elaboración no encontrada")
	}
	return elaboracionToResponse(e), nil
}

func (s *elaboracionService) Listar(ctx context.Context, partida string) ([]dto.ElaboracionResponse, error) {
	elaboraciones, err := s.repo.Listar(ctx, partida)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ElaboracionResponse, 0, len(elaboraciones))
	for i := range elaboraciones {
		out = append(out, *elaboracionToResponse(&elaboraciones[i]))
	}
	return out, nil
}

func (s *elaboracionService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarElaboracionRequest) (*dto.ElaboracionResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("elaboración no encontrada")
	}
	if req.Nombre != "" {
		e.Nombre = req.Nombre
	}
	if req.Unidad != "" {
		e.Unidad = req.Unidad
	}
	if req.Partida != "" {
		e.Partida = req.Partida
	}
	if err := s.repo.Actualizar(ctx, e); err != nil {
		return nil, err
	}
	s.invalidar(ctx)
	return elaboracionToResponse(e), nil
}

func (s *elaboracionService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Desactivar(ctx, id); err != nil {
		return err
	}
	s.invalidar(ctx)
	return nil
}

func (s *elaboracionService) invalidar(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func elaboracionToResponse(e *model.Elaboracion) *dto.ElaboracionResponse {
	return &dto.ElaboracionResponse{
		ID:      e.ID.String(),
		Nombre:  e.Nombre,
		Unidad:  e.Unidad,
		Partida: e.Partida,
		Activa:  e.Activa,
	}
}
