package handler

import (
	"net/http"

	"gastroplan/internal/apierror"
	"gastroplan/internal/dto"
	"gastroplan/internal/service"

	"github.com/gin-gonic/gin"
)

type ElaboracionesHandler struct{ svc service.ElaboracionService }

func NewElaboracionesHandler(svc service.ElaboracionService) *ElaboracionesHandler {
	return &ElaboracionesHandler{svc: svc}
}

func (h *ElaboracionesHandler) Crear(c *gin.Context) {
	var req dto.CrearElaboracionRequest
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

func (h *ElaboracionesHandler) Obtener(c *gin.Context) {
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

func (h *ElaboracionesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), c.Query("partida"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar elaboraciones"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ElaboracionesHandler) Actualizar(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarElaboracionRequest
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

func (h *ElaboracionesHandler) Desactivar(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
