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

// PrestamoVendedorHandler covers cash loans between sellers that share one
// apertura: the money never leaves the caja, only the per-seller attribution
// changes.
type PrestamoVendedorHandler struct{ svc service.PrestamoVendedorService }

func NewPrestamoVendedorHandler(svc service.PrestamoVendedorService) *PrestamoVendedorHandler {
	return &PrestamoVendedorHandler{svc: svc}
}

// Solicitar godoc
// @Summary Solicita efectivo a otro vendedor de la misma apertura
// @Tags prestamos-vendedores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SolicitudEfectivoRequest true "Apertura, prestamista y monto"
// @Success 201 {object} dto.SolicitudEfectivoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cajas/prestamos-vendedores [post]
func (h *PrestamoVendedorHandler) Solicitar(c *gin.Context) {
	var req dto.SolicitudEfectivoRequest
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

func (h *PrestamoVendedorHandler) Aprobar(c *gin.Context) {
	solicitudID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	claims := middleware.GetClaims(c)
	actorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Aprobar(c.Request.Context(), solicitudID, actorID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PrestamoVendedorHandler) Rechazar(c *gin.Context) {
	solicitudID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.RechazarSolicitudRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	actorID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Rechazar(c.Request.Context(), solicitudID, actorID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Disponible returns how much cash the authenticated seller can still lend
// inside the given apertura.
func (h *PrestamoVendedorHandler) Disponible(c *gin.Context) {
	aperturaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	claims := middleware.GetClaims(c)
	vendedorID, _ := uuid.Parse(claims.UserID)

	monto, err := h.svc.Disponible(c.Request.Context(), aperturaID, vendedorID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EfectivoDisponibleResponse{
		AperturaID: aperturaID.String(),
		VendedorID: vendedorID.String(),
		Disponible: monto,
	})
}
