package handler

import (
	"net/http"

	"gastroplan/internal/apierror"
	"gastroplan/internal/dto"
	"gastroplan/internal/service"

	"github.com/gin-gonic/gin"
)

type EventosHandler struct{ svc service.EventoService }

func NewEventosHandler(svc service.EventoService) *EventosHandler {
	return &EventosHandler{svc: svc}
}

func (h *EventosHandler) Crear(c *gin.Context) {
	var req dto.CrearEventoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EventosHandler) Obtener(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EventosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), c.Query("estado"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar eventos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EventosHandler) Actualizar(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarEventoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Hitos ─────────────────────────────────────────────────────────────────────

func (h *EventosHandler) CrearHito(c *gin.Context) {
	eventoID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.CrearHitoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearHito(c.Request.Context(), eventoID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EventosHandler) ActualizarHito(c *gin.Context) {
	eventoID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	hitoID, ok := parseUUIDParam(c, "hitoId")
	if !ok {
		return
	}
	var req dto.ActualizarHitoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarHito(c.Request.Context(), eventoID, hitoID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Comandas ──────────────────────────────────────────────────────────────────

func (h *EventosHandler) GuardarComanda(c *gin.Context) {
	eventoID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	hitoID, ok := parseUUIDParam(c, "hitoId")
	if !ok {
		return
	}
	var req dto.GuardarComandaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.GuardarComanda(c.Request.Context(), eventoID, hitoID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EventosHandler) ObtenerComanda(c *gin.Context) {
	hitoID, ok := parseUUIDParam(c, "hitoId")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerComanda(c.Request.Context(), hitoID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
