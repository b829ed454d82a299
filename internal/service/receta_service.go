package service

import (
	"context"
	"errors"
	"fmt"

	"gastroplan/internal/dto"
	"gastroplan/internal/model"
	"gastroplan/internal/repository"

	"github.com/google/uuid"
)

type RecetaService interface {
	Crear(ctx context.Context, req dto.CrearRecetaRequest) (*dto.RecetaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.RecetaResponse, error)
	Listar(ctx context.Context, incluirInactivas bool) ([]dto.RecetaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarRecetaRequest) (*dto.RecetaResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type recetaService struct {
	repo          repository.RecetaRepository
	elaboraciones repository.ElaboracionRepository
	cache         PlanCache
}

func NewRecetaService(repo repository.RecetaRepository, elaboraciones repository.ElaboracionRepository, cache PlanCache) RecetaService {
	return &recetaService{repo: repo, elaboraciones: elaboraciones, cache: cache}
}

func (s *recetaService) Crear(ctx context.Context, req dto.CrearRecetaRequest) (*dto.RecetaResponse, error) {
	componentes, err := s.resolverComponentes(ctx, req.Componentes)
	if err != nil {
		return nil, err
	}
	receta := &model.Receta{
		Nombre:      req.Nombre,
		Categoria:   req.Categoria,
		Activa:      true,
		Componentes: componentes,
	}
	if err := s.repo.Crear(ctx, receta); err != nil {
		return nil, err
	}
	s.invalidar(ctx)
	return s.Obtener(ctx, receta.ID)
}

func (s *recetaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.RecetaResponse, error) {
	receta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("receta no encontrada")
	}
	resp := s.toResponse(ctx, receta)
	return resp, nil
}

func (s *recetaService) Listar(ctx context.Context, incluirInactivas bool) ([]dto.RecetaResponse, error) {
	recetas, err := s.repo.Listar(ctx, incluirInactivas)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecetaResponse, 0, len(recetas))
	for i := range recetas {
		out = append(out, *s.toResponse(ctx, &recetas[i]))
	}
	return out, nil
}

func (s *recetaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarRecetaRequest) (*dto.RecetaResponse, error) {
	receta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("receta no encontrada")
	}
	if req.Nombre != "" {
		receta.Nombre = req.Nombre
	}
	if req.Categoria != "" {
		receta.Categoria = req.Categoria
	}
	if len(req.Componentes) > 0 {
		componentes, err := s.resolverComponentes(ctx, req.Componentes)
		if err != nil {
			return nil, err
		}
		receta.Componentes = componentes
	}
	if err := s.repo.Actualizar(ctx, receta); err != nil {
		return nil, err
	}
	s.invalidar(ctx)
	return s.Obtener(ctx, receta.ID)
}

func (s *recetaService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Desactivar(ctx, id); err != nil {
		return err
	}
	s.invalidar(ctx)
	return nil
}

// resolverComponentes validates that every referenced elaboración exists
// before the receta touches the database.
func (s *recetaService) resolverComponentes(ctx context.Context, reqs []dto.ComponenteRecetaRequest) ([]model.ComponenteReceta, error) {
	componentes := make([]model.ComponenteReceta, 0, len(reqs))
	for _, c := range reqs {
		elaboracionID, err := uuid.Parse(c.ElaboracionID)
		if err != nil {
			return nil, fmt.Errorf("elaboracion_id inválido: %w", err)
		}
		if _, err := s.elaboraciones.FindByID(ctx, elaboracionID); err != nil {
			return nil, fmt.Errorf("elaboración %s no encontrada", c.ElaboracionID)
		}
		componentes = append(componentes, model.ComponenteReceta{
			ElaboracionID:     elaboracionID,
			CantidadPorUnidad: c.CantidadPorUnidad,
			MermaPct:          c.MermaPct,
		})
	}
	return componentes, nil
}

func (s *recetaService) toResponse(ctx context.Context, receta *model.Receta) *dto.RecetaResponse {
	resp := &dto.RecetaResponse{
		ID:          receta.ID.String(),
		Nombre:      receta.Nombre,
		Categoria:   receta.Categoria,
		Activa:      receta.Activa,
		Componentes: make([]dto.ComponenteRecetaResponse, 0, len(receta.Componentes)),
	}
	for _, c := range receta.Componentes {
		comp := dto.ComponenteRecetaResponse{
			ElaboracionID:     c.ElaboracionID.String(),
			CantidadPorUnidad: c.CantidadPorUnidad,
			MermaPct:          c.MermaPct,
		}
		if elab, err := s.elaboraciones.FindByID(ctx, c.ElaboracionID); err == nil {
			comp.ElaboracionNombre = elab.Nombre
		}
		resp.Componentes = append(resp.Componentes, comp)
	}
	return resp
}

func (s *recetaService) invalidar(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
