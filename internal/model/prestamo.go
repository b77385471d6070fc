package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Prestamo states. "rechazado" and "expirado" are terminal; "aprobado" keeps
// a separate Devuelto flag for the repayment lifecycle.
const (
	PrestamoPendiente = "pendiente"
	PrestamoAprobado  = "aprobado"
	PrestamoRechazado = "rechazado"
	PrestamoExpirado  = "expirado"
)

// Prestamo is a cross-owner, approval-gated transfer between sub-cajas.
// SubCajaOrigenID stays nil until approval: the lender chooses which of
// their sub-cajas funds the loan at approval time, not at request time.
type Prestamo struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubCajaDestinoID uuid.UUID       `gorm:"type:uuid;not null;index"`
	SubCajaOrigenID  *uuid.UUID      `gorm:"type:uuid"`
	Monto            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Motivo           *string
	Estado           string `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	Devuelto         bool   `gorm:"not null;default:false"`
	// UsuarioSolicitaID requested the loan; UsuarioRecibeID is the designated
	// approver (the lender the request is addressed to).
	UsuarioSolicitaID uuid.UUID  `gorm:"type:uuid;not null"`
	UsuarioRecibeID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	MotivoRechazo     *string
	RequestedAt       time.Time
	ResolvedAt        *time.Time
	DevueltoAt        *time.Time
}

// MovimientoInterno is a completed same-owner transfer between two sub-cajas.
// It records an operation that already happened — immutable once created.
type MovimientoInterno struct {
	ID                        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubCajaOrigenID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	SubCajaDestinoID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Monto                     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DespliegueDePagoOrigenID  *uuid.UUID      `gorm:"type:uuid"`
	DespliegueDePagoDestinoID *uuid.UUID      `gorm:"type:uuid"`
	Justificacion             string          `gorm:"not null"`
	UsuarioID                 uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt                 time.Time
}
