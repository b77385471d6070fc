package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Apertura states. "cerrada" is terminal.
const (
	AperturaAbierta = "abierta"
	AperturaCerrada = "cerrada"
)

// ConteoDenominacion is one line of the physical cash count at close.
type ConteoDenominacion struct {
	Denominacion decimal.Decimal `json:"denominacion"`
	Cantidad     int             `json:"cantidad"`
}

// ConceptoExtra is a free-form adjustment declared at close.
type ConceptoExtra struct {
	Descripcion string          `json:"descripcion"`
	Monto       decimal.Decimal `json:"monto"`
}

// Apertura bounds one working session of a caja principal against its caja
// chica. Exactly one abierta per caja principal at a time; repeated opening
// calls accumulate MontoApertura instead of replacing it.
type Apertura struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CajaPrincipalID uuid.UUID       `gorm:"type:uuid;not null;index"`
	SubCajaID       uuid.UUID       `gorm:"type:uuid;not null"`
	MontoApertura   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado          string          `gorm:"type:varchar(20);not null;default:'abierta'"`
	UsuarioAbreID   uuid.UUID       `gorm:"type:uuid;not null"`
	OpenedAt        time.Time

	// Closing fields — populated once, when Estado becomes cerrada.
	MontoCierreEfectivo *decimal.Decimal     `gorm:"type:decimal(12,2)"`
	TotalCuentas        *decimal.Decimal     `gorm:"type:decimal(12,2)"`
	MontoEsperado       *decimal.Decimal     `gorm:"type:decimal(12,2)"`
	Diferencia          *decimal.Decimal     `gorm:"type:decimal(12,2)"`
	Conteo              []ConteoDenominacion `gorm:"serializer:json"`
	ConceptosExtra      []ConceptoExtra      `gorm:"serializer:json"`
	Observaciones       *string
	SupervisorID        *uuid.UUID `gorm:"type:uuid"`
	UsuarioCierraID     *uuid.UUID `gorm:"type:uuid"`
	ClosedAt            *time.Time

	Distribuciones []DistribucionEfectivo `gorm:"foreignKey:AperturaID"`
}

// DistribucionEfectivo is one seller's portion of an apertura's opening
// float. Rows are additive: topping up an open apertura appends new rows.
type DistribucionEfectivo struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AperturaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	VendedorID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Monto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time
}
