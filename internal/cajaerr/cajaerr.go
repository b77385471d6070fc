// Package cajaerr defines the business-rule errors of the caja subsystem.
// Handlers translate these into 4xx responses with a machine-readable code;
// any other error is a 500 and is only logged, never exposed.
package cajaerr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrCajaNoEncontrada       = errors.New("caja no encontrada")
	ErrSubCajaNoEncontrada    = errors.New("sub-caja no encontrada")
	ErrSaldoInsuficiente      = errors.New("saldo insuficiente en la sub-caja")
	ErrEfectivoInsuficiente   = errors.New("efectivo disponible insuficiente")
	ErrConfiguracionDuplicada = errors.New("ya existe una sub-caja con esa configuración")
	ErrAperturaNoEncontrada   = errors.New("apertura de caja no encontrada")
	ErrAperturaCerrada        = errors.New("la apertura ya está cerrada")
	ErrSinAperturaActiva      = errors.New("no hay una apertura de caja activa")
	ErrPrestamoNoEncontrado   = errors.New("préstamo no encontrado")
	ErrPrestamoProcesado      = errors.New("el préstamo ya fue procesado")
	ErrPrestamoExpirado       = errors.New("el préstamo expiró y no puede aprobarse")
	ErrPrestamoNoDevolvible   = errors.New("el préstamo no está pendiente de devolución")
	ErrSolicitudNoEncontrada  = errors.New("solicitud de efectivo no encontrada")
	ErrSolicitudProcesada     = errors.New("la solicitud ya fue procesada")
	ErrPermisoDenegado        = errors.New("el usuario no está autorizado para esta operación")
	ErrSupervisorInvalido     = errors.New("supervisor inválido o sin autoridad suficiente")
)

// SupervisorRequeridoError is returned when the closing variance exceeds the
// configured threshold and no supervisor authorized the close.
type SupervisorRequeridoError struct {
	Diferencia decimal.Decimal
	Limite     decimal.Decimal
}

func (e *SupervisorRequeridoError) Error() string {
	return fmt.Sprintf("diferencia de %s excede el límite de %s: se requiere un supervisor",
		e.Diferencia.StringFixed(2), e.Limite.StringFixed(2))
}

// LimiteMaximoError is returned when the variance exceeds the absolute
// ceiling — closing is refused even with a supervisor.
type LimiteMaximoError struct {
	Diferencia decimal.Decimal
	Limite     decimal.Decimal
}

func (e *LimiteMaximoError) Error() string {
	return fmt.Sprintf("diferencia de %s excede el límite máximo de %s: el cierre no está permitido",
		e.Diferencia.StringFixed(2), e.Limite.StringFixed(2))
}
