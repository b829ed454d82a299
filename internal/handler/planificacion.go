package handler

import (
	"errors"
	"net/http"
	"time"

	"gastroplan/internal/apierror"
	"gastroplan/internal/dto"
	"gastroplan/internal/planner"
	"gastroplan/internal/repository"
	"gastroplan/internal/service"

	"github.com/gin-gonic/gin"
)

type PlanificacionHandler struct{ svc service.PlanificacionService }

func NewPlanificacionHandler(svc service.PlanificacionService) *PlanificacionHandler {
	return &PlanificacionHandler{svc: svc}
}

// Calcular computes the plan for a window: gross demand, netting rows,
// deviations and the day-by-day matrix. Read-only and cached, so kitchen
// screens can poll it.
func (h *PlanificacionHandler) Calcular(c *gin.Context) {
	var filter dto.PlanFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	desde, _ := time.Parse(planner.FormatoDia, filter.Desde)
	hasta, _ := time.Parse(planner.FormatoDia, filter.Hasta)

	resultado, err := h.svc.Calcular(c.Request.Context(), desde, hasta)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resultado)
}

// GenerarOrdenes turns selected shortage rows into manufacturing orders.
// A sequence-allocation race surfaces as 409 so the client can retry.
func (h *PlanificacionHandler) GenerarOrdenes(c *gin.Context) {
	var req dto.GenerarOrdenesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.GenerarOrdenes(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrCodigoDuplicado) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PlanificacionHandler) ResolverDesviacion(c *gin.Context) {
	ordenID, ok := parseUUIDParam(c, "ordenId")
	if !ok {
		return
	}
	var req dto.ResolverDesviacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ResolverDesviacion(c.Request.Context(), ordenID, req)
	if err != nil {
		if errors.Is(err, repository.ErrCodigoDuplicado) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
