package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/apierror"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/cajaerr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeError maps domain errors to HTTP status + machine-readable code so
// clients can branch on the code instead of parsing Spanish messages.
func writeError(c *gin.Context, err error) {
	var supReq *cajaerr.SupervisorRequeridoError
	if errors.As(err, &supReq) {
		c.JSON(http.StatusConflict, apierror.NewCoded("supervisor_requerido", supReq.Error()))
		return
	}
	var limMax *cajaerr.LimiteMaximoError
	if errors.As(err, &limMax) {
		c.JSON(http.StatusConflict, apierror.NewCoded("limite_maximo_excedido", limMax.Error()))
		return
	}

	status, code := http.StatusBadRequest, "error"
	switch {
	case errors.Is(err, cajaerr.ErrCajaNoEncontrada),
		errors.Is(err, cajaerr.ErrSubCajaNoEncontrada),
		errors.Is(err, cajaerr.ErrAperturaNoEncontrada),
		errors.Is(err, cajaerr.ErrPrestamoNoEncontrado),
		errors.Is(err, cajaerr.ErrSolicitudNoEncontrada),
		errors.Is(err, cajaerr.ErrSinAperturaActiva):
		status, code = http.StatusNotFound, "no_encontrado"
	case errors.Is(err, cajaerr.ErrSaldoInsuficiente):
		status, code = http.StatusConflict, "saldo_insuficiente"
	case errors.Is(err, cajaerr.ErrEfectivoInsuficiente):
		status, code = http.StatusConflict, "efectivo_insuficiente"
	case errors.Is(err, cajaerr.ErrConfiguracionDuplicada):
		status, code = http.StatusConflict, "configuracion_duplicada"
	case errors.Is(err, cajaerr.ErrAperturaCerrada):
		status, code = http.StatusConflict, "apertura_cerrada"
	case errors.Is(err, cajaerr.ErrPrestamoProcesado),
		errors.Is(err, cajaerr.ErrSolicitudProcesada):
		status, code = http.StatusConflict, "ya_procesado"
	case errors.Is(err, cajaerr.ErrPrestamoExpirado):
		status, code = http.StatusConflict, "prestamo_expirado"
	case errors.Is(err, cajaerr.ErrPrestamoNoDevolvible):
		status, code = http.StatusConflict, "prestamo_no_devolvible"
	case errors.Is(err, cajaerr.ErrPermisoDenegado):
		status, code = http.StatusForbidden, "permiso_denegado"
	case errors.Is(err, cajaerr.ErrSupervisorInvalido):
		status, code = http.StatusUnauthorized, "supervisor_invalido"
	}
	c.JSON(status, apierror.NewCoded(code, err.Error()))
}
