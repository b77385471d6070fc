package handler

import (
	"net/http"
	"strconv"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/apierror"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/dto"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/middleware"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CajaHandler struct {
	cajas       service.CajaService
	aperturas   service.AperturaService
	arqueos     service.ArqueoService
	movimientos service.TransaccionService
}

func NewCajaHandler(
	cajas service.CajaService,
	aperturas service.AperturaService,
	arqueos service.ArqueoService,
	movimientos service.TransaccionService,
) *CajaHandler {
	return &CajaHandler{cajas: cajas, aperturas: aperturas, arqueos: arqueos, movimientos: movimientos}
}

// Aperturar godoc
// @Summary Abre la caja del dia o acumula un refuerzo sobre la apertura activa
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AperturarRequest true "Monto y distribucion por vendedor"
// @Success 201 {object} dto.AperturaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/cajas/aperturar [post]
func (h *CajaHandler) Aperturar(c *gin.Context) {
	var req dto.AperturarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.aperturas.Aperturar(c.Request.Context(), usuarioID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary Cierra la apertura con el conteo declarado
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de apertura"
// @Param body body dto.CierreRequest true "Declaracion de cierre"
// @Success 200 {object} dto.CierreResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cajas/cierre/{id} [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	aperturaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.CierreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.aperturas.Cerrar(c.Request.Context(), aperturaID, usuarioID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Activa returns the open apertura for the authenticated seller's caja.
func (h *CajaHandler) Activa(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de usuario inválido"))
		return
	}
	resp, err := h.aperturas.AperturaActiva(c.Request.Context(), usuarioID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Arqueo godoc
// @Summary Calcula el monto esperado de una apertura
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de apertura"
// @Success 200 {object} dto.ArqueoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cajas/{id}/arqueo [get]
func (h *CajaHandler) Arqueo(c *gin.Context) {
	aperturaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.arqueos.MontoEsperado(c.Request.Context(), aperturaID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarMovimiento godoc
// @Summary Registra un ingreso o egreso manual en la sub-caja
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimientoManualRequest true "Movimiento manual"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/cajas/movimientos [post]
func (h *CajaHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.MovimientoManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	if err := h.movimientos.RegistrarManual(c.Request.Context(), usuarioID, req); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Historial returns closed aperturas, newest first, paginated.
func (h *CajaHandler) Historial(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	resp, err := h.aperturas.Historial(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearCaja creates a caja principal for a seller, with its caja chica.
func (h *CajaHandler) CrearCaja(c *gin.Context) {
	var req dto.CrearCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	vendedorID, err := uuid.Parse(c.Query("vendedor_id"))
	if err != nil {
		claims := middleware.GetClaims(c)
		vendedorID, _ = uuid.Parse(claims.UserID)
	}
	resp, err := h.cajas.CrearCajaPrincipal(c.Request.Context(), vendedorID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CrearSubCaja godoc
// @Summary Crea una sub-caja secundaria
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearSubCajaRequest true "Datos de la sub-caja"
// @Success 201 {object} dto.SubCajaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cajas/sub-cajas [post]
func (h *CajaHandler) CrearSubCaja(c *gin.Context) {
	var req dto.CrearSubCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.cajas.CrearSubCaja(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CajaHandler) EliminarSubCaja(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.cajas.EliminarSubCaja(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CajaHandler) ListarSubCajas(c *gin.Context) {
	cajaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.cajas.ListarSubCajas(c.Request.Context(), cajaID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
