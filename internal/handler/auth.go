package handler

import (
	"net/http"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/apierror"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/dto"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login de usuario
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ValidarSupervisor godoc
// @Summary Valida credenciales de supervisor para autorizar un cierre
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ValidarSupervisorRequest true "Credenciales del supervisor"
// @Success 200 {object} dto.ValidarSupervisorResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/cajas/cierre/validar-supervisor [post]
func (h *AuthHandler) ValidarSupervisor(c *gin.Context) {
	var req dto.ValidarSupervisorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ValidarSupervisor(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
