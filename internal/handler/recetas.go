package handler

import (
	"net/http"

	"gastroplan/internal/apierror"
	"gastroplan/internal/dto"
	"gastroplan/internal/service"

	"github.com/gin-gonic/gin"
)

type RecetasHandler struct{ svc service.RecetaService }

func NewRecetasHandler(svc service.RecetaService) *RecetasHandler { return &RecetasHandler{svc: svc} }

func (h *RecetasHandler) Crear(c *gin.Context) {
	var req dto.CrearRecetaRequest
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

func (h *RecetasHandler) Obtener(c *gin.Context) {
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

func (h *RecetasHandler) Listar(c *gin.Context) {
	incluirInactivas := c.Query("incluir_inactivas") == "true"
	resp, err := h.svc.Listar(c.Request.Context(), incluirInactivas)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar recetas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecetasHandler) Actualizar(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarRecetaRequest
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

func (h *RecetasHandler) Desactivar(c *gin.Context) {
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
