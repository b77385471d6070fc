package dto

import (
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type VendedorMonto struct {
	UserID string          `json:"user_id" validate:"required,uuid"`
	Monto  decimal.Decimal `json:"monto"   validate:"min=0"`
}

type AperturarRequest struct {
	CajaPrincipalID string          `json:"caja_principal_id" validate:"required,uuid"`
	MontoApertura   decimal.Decimal `json:"monto_apertura"    validate:"min=0"`
	Vendedores      []VendedorMonto `json:"vendedores"        validate:"required,min=1,dive"`
}

type CierreRequest struct {
	MontoCierreEfectivo decimal.Decimal            `json:"monto_cierre_efectivo" validate:"min=0"`
	TotalCuentas        decimal.Decimal            `json:"total_cuentas"         validate:"min=0"`
	Conteo              []model.ConteoDenominacion `json:"conteo"`
	ConceptosExtra      []model.ConceptoExtra      `json:"conceptos_extra"`
	Observaciones       *string                    `json:"observaciones"`
	SupervisorID        *string                    `json:"supervisor_id"  validate:"omitempty,uuid"`
	ForzarCierre        bool                       `json:"forzar_cierre"`
}

type MovimientoManualRequest struct {
	SubCajaID   string          `json:"sub_caja_id" validate:"required,uuid"`
	Tipo        string          `json:"tipo"        validate:"required,oneof=ingreso egreso"`
	Monto       decimal.Decimal `json:"monto"       validate:"required,gt=0"`
	Descripcion string          `json:"descripcion" validate:"required,min=3"`
}

type MovimientoInternoRequest struct {
	SubCajaOrigenID           string          `json:"sub_caja_origen_id"  validate:"required,uuid"`
	SubCajaDestinoID          string          `json:"sub_caja_destino_id" validate:"required,uuid,nefield=SubCajaOrigenID"`
	Monto                     decimal.Decimal `json:"monto"               validate:"required,gte=0.01"`
	DespliegueDePagoOrigenID  *string         `json:"despliegue_de_pago_id"         validate:"omitempty,uuid"`
	DespliegueDePagoDestinoID *string         `json:"despliegue_de_pago_destino_id" validate:"omitempty,uuid"`
	Justificacion             string          `json:"justificacion" validate:"required,min=3"`
}

type CrearCajaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=3,max=100"`
}

type CrearSubCajaRequest struct {
	CajaPrincipalID string `json:"caja_principal_id" validate:"required,uuid"`
	Nombre          string `json:"nombre"            validate:"required,min=3,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CajaResponse struct {
	CajaPrincipalID string `json:"caja_principal_id"`
	VendedorID      string `json:"vendedor_id"`
	Nombre          string `json:"nombre"`
}

type SubCajaResponse struct {
	SubCajaID       string          `json:"sub_caja_id"`
	CajaPrincipalID string          `json:"caja_principal_id"`
	Nombre          string          `json:"nombre"`
	Tipo            string          `json:"tipo"`
	Saldo           decimal.Decimal `json:"saldo"`
}

type DistribucionResponse struct {
	VendedorID string          `json:"vendedor_id"`
	Monto      decimal.Decimal `json:"monto"`
	CreatedAt  string          `json:"created_at"`
}

type AperturaResponse struct {
	AperturaID      string                 `json:"apertura_id"`
	CajaPrincipalID string                 `json:"caja_principal_id"`
	SubCajaID       string                 `json:"sub_caja_id"`
	MontoApertura   decimal.Decimal        `json:"monto_apertura"`
	Estado          string                 `json:"estado"`
	Distribuciones  []DistribucionResponse `json:"distribuciones"`
	OpenedAt        string                 `json:"opened_at"`
}

type MedioPagoMonto struct {
	MedioPagoID string          `json:"medio_pago_id"`
	Nombre      string          `json:"nombre"`
	EsEfectivo  bool            `json:"es_efectivo"`
	Total       decimal.Decimal `json:"total"`
}

// ArqueoResponse is the reconciliation report: what the caja should hold and
// how that figure decomposes. Loans and internal movements are listed for
// audit but never enter the total.
type ArqueoResponse struct {
	AperturaID         string           `json:"apertura_id"`
	MontoApertura      decimal.Decimal  `json:"monto_apertura"`
	VentasPorMedio     []MedioPagoMonto `json:"ventas_por_medio"`
	TotalVentas        decimal.Decimal  `json:"total_ventas"`
	IngresosManuales   decimal.Decimal  `json:"ingresos_manuales"`
	EgresosManuales    decimal.Decimal  `json:"egresos_manuales"`
	PrestamosVentana   []PrestamoResumen   `json:"prestamos"`
	MovimientosVentana []MovimientoResumen `json:"movimientos_internos"`
	MontoEsperado      decimal.Decimal  `json:"monto_esperado"`
}

type PrestamoResumen struct {
	PrestamoID string          `json:"prestamo_id"`
	Monto      decimal.Decimal `json:"monto"`
	Estado     string          `json:"estado"`
	Devuelto   bool            `json:"devuelto"`
}

type MovimientoResumen struct {
	MovimientoID string          `json:"movimiento_id"`
	Monto        decimal.Decimal `json:"monto"`
	Origen       string          `json:"sub_caja_origen_id"`
	Destino      string          `json:"sub_caja_destino_id"`
}

type CierreResponse struct {
	AperturaID          string          `json:"apertura_id"`
	MontoEsperado       decimal.Decimal `json:"monto_esperado"`
	MontoCierreEfectivo decimal.Decimal `json:"monto_cierre_efectivo"`
	TotalCuentas        decimal.Decimal `json:"total_cuentas"`
	Diferencia          decimal.Decimal `json:"diferencia"`
	SupervisorID        *string         `json:"supervisor_id"`
	Estado              string          `json:"estado"`
	ClosedAt            string          `json:"closed_at"`
}

type AperturaHistorialResponse struct {
	Data  []CierreResponse `json:"data"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Total int64            `json:"total"`
}
