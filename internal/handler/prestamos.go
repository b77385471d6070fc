package handler

import (
	"net/http"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/apierror"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/dto"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/middleware"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PrestamoHandler struct{ svc service.PrestamoService }

func NewPrestamoHandler(svc service.PrestamoService) *PrestamoHandler {
	return &PrestamoHandler{svc: svc}
}

// MovimientoInterno godoc
// @Summary Transfiere efectivo entre dos sub-cajas del mismo dueño
// @Tags prestamos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimientoInternoRequest true "Origen, destino y monto"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/cajas/movimientos-internos [post]
func (h *PrestamoHandler) MovimientoInterno(c *gin.Context) {
	var req dto.MovimientoInternoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	actorID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.MovimientoInterno(c.Request.Context(), actorID, claims.Rol, req); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Solicitar godoc
// @Summary Solicita un prestamo de efectivo a otra caja
// @Tags prestamos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.PrestamoRequest true "Destino, monto y aprobador"
// @Success 201 {object} dto.PrestamoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/cajas/prestamos [post]
func (h *PrestamoHandler) Solicitar(c *gin.Context) {
	var req dto.PrestamoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	actorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Solicitar(c.Request.Context(), actorID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Aprobar godoc
// @Summary Aprueba un prestamo pendiente y mueve el efectivo
// @Tags prestamos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de prestamo"
// @Param body body dto.AprobarPrestamoRequest true "Sub-caja origen y monto aprobado"
// @Success 200 {object} dto.PrestamoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cajas/prestamos/{id}/aprobar [post]
func (h *PrestamoHandler) Aprobar(c *gin.Context) {
	prestamoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AprobarPrestamoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	actorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Aprobar(c.Request.Context(), prestamoID, actorID, claims.Rol, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PrestamoHandler) Rechazar(c *gin.Context) {
	prestamoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.RechazarPrestamoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	actorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Rechazar(c.Request.Context(), prestamoID, actorID, claims.Rol, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Devolver registers the return of an approved loan, reversing both legs.
func (h *PrestamoHandler) Devolver(c *gin.Context) {
	prestamoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	claims := middleware.GetClaims(c)
	actorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Devolver(c.Request.Context(), prestamoID, actorID, claims.Rol)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pendientes lists the loans awaiting the authenticated user's approval.
// Requests older than the expiry window are omitted.
func (h *PrestamoHandler) Pendientes(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de usuario inválido"))
		return
	}
	resp, err := h.svc.ListarPendientes(c.Request.Context(), usuarioID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
