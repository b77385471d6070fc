package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaccion directions.
const (
	TransaccionIngreso = "ingreso"
	TransaccionEgreso  = "egreso"
)

// Reference kinds linking a transaccion to its originating operation.
// A nil referencia means a manual movement registered by a cashier.
const (
	RefVenta              = "venta"
	RefApertura           = "apertura"
	RefPrestamo           = "prestamo"
	RefDevolucionPrestamo = "devolucion_prestamo"
	RefMovimientoInterno  = "movimiento_interno"
	RefPrestamoVendedor   = "prestamo_vendedor"
)

// Transaccion is an append-only ledger entry. Entries are NEVER modified or
// deleted — corrections create inverse entries. SaldoAnterior and
// SaldoPosterior are denormalized at write time for audit:
// SaldoPosterior = SaldoAnterior ± Monto, written in the same transaction
// that updates SubCaja.Saldo.
type Transaccion struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubCajaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo           string          `gorm:"type:varchar(10);not null"`
	Monto          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaldoAnterior  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaldoPosterior decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion    string          `gorm:"not null"`
	ReferenciaID   *uuid.UUID      `gorm:"type:uuid"`
	ReferenciaTipo *string         `gorm:"type:varchar(30);index"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time
}
