package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SolicitudEfectivo states.
const (
	SolicitudPendiente = "pendiente"
	SolicitudAprobada  = "aprobada"
	SolicitudRechazada = "rechazada"
)

// SolicitudEfectivo is a peer-to-peer cash request between two sellers
// sharing one open apertura. The requester asks a specific lender for part
// of the lender's float share.
type SolicitudEfectivo struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AperturaID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	VendedorSolicitaID uuid.UUID       `gorm:"type:uuid;not null"`
	VendedorPrestaID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Monto              decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Motivo             *string
	Estado             string `gorm:"type:varchar(20);not null;default:'pendiente';index"`
	Comentario         *string
	CreatedAt          time.Time
	ResolvedAt         *time.Time
}

// TransferenciaEfectivo records the cash that actually moved between two
// sellers. Created only when a SolicitudEfectivo is approved.
type TransferenciaEfectivo struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SolicitudID        uuid.UUID       `gorm:"type:uuid;not null"`
	AperturaID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	VendedorOrigenID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	VendedorDestinoID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Monto              decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DespliegueDePagoID *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt          time.Time
}
