package service

import (
	"context"
	"time"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/cajaerr"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/dto"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ArqueoService computes the expected cash position of an apertura:
//
//	esperado = monto_apertura + ventas + ingresos_manuales − egresos_manuales
//
// Loans and internal movements inside the window appear in the breakdown for
// audit but never change the total — they move assets between cajas, they are
// not income or expense.
//
// The computation reads live state: calling it twice before close can yield
// different figures as new sales land. That is the intended semantics — the
// seller's cash position genuinely changes over time. The close operation
// recomputes it through MontoEsperadoEnTx, inside the transaction that holds
// the apertura lock, so the persisted variance matches the committed ledger.
type ArqueoService interface {
	MontoEsperado(ctx context.Context, aperturaID uuid.UUID) (*dto.ArqueoResponse, error)
	MontoEsperadoEnTx(ctx context.Context, tx *gorm.DB, aperturaID uuid.UUID) (*dto.ArqueoResponse, error)
}

type arqueoService struct {
	aperturaRepo    repository.AperturaRepository
	cajaRepo        repository.CajaRepository
	transaccionRepo repository.TransaccionRepository
	ventaRepo       repository.VentaRepository
	prestamoRepo    repository.PrestamoRepository
	movimientoRepo  repository.MovimientoInternoRepository
}

func NewArqueoService(
	aperturaRepo repository.AperturaRepository,
	cajaRepo repository.CajaRepository,
	transaccionRepo repository.TransaccionRepository,
	ventaRepo repository.VentaRepository,
	prestamoRepo repository.PrestamoRepository,
	movimientoRepo repository.MovimientoInternoRepository,
) ArqueoService {
	return &arqueoService{
		aperturaRepo:    aperturaRepo,
		cajaRepo:        cajaRepo,
		transaccionRepo: transaccionRepo,
		ventaRepo:       ventaRepo,
		prestamoRepo:    prestamoRepo,
		movimientoRepo:  movimientoRepo,
	}
}

func (s *arqueoService) MontoEsperado(ctx context.Context, aperturaID uuid.UUID) (*dto.ArqueoResponse, error) {
	return s.MontoEsperadoEnTx(ctx, nil, aperturaID)
}

func (s *arqueoService) MontoEsperadoEnTx(ctx context.Context, tx *gorm.DB, aperturaID uuid.UUID) (*dto.ArqueoResponse, error) {
	apertura, err := s.aperturaRepo.FindByID(ctx, aperturaID)
	if err != nil {
		return nil, cajaerr.ErrAperturaNoEncontrada
	}
	caja, err := s.cajaRepo.FindCajaPrincipalByID(ctx, apertura.CajaPrincipalID)
	if err != nil {
		return nil, cajaerr.ErrCajaNoEncontrada
	}

	desde := apertura.OpenedAt
	hasta := time.Now()
	if apertura.ClosedAt != nil {
		hasta = *apertura.ClosedAt
	}

	// 1. Completed sales grouped by base payment method. Despliegues that
	// share a medio are merged by the query itself.
	pagos, err := s.ventaRepo.SumPagosPorMedio(ctx, tx, caja.VendedorID, desde, hasta)
	if err != nil {
		return nil, err
	}
	ventasPorMedio := make([]dto.MedioPagoMonto, 0, len(pagos))
	totalVentas := decimal.Zero
	for _, p := range pagos {
		ventasPorMedio = append(ventasPorMedio, dto.MedioPagoMonto{
			MedioPagoID: p.MedioPagoID.String(),
			Nombre:      p.Nombre,
			EsEfectivo:  p.EsEfectivo,
			Total:       p.Total,
		})
		totalVentas = totalVentas.Add(p.Total)
	}

	// 2–3. Manual movements across every sub-caja of the caja principal.
	ingresos, err := s.transaccionRepo.SumManualIngresos(ctx, tx, caja.ID, desde, hasta)
	if err != nil {
		return nil, err
	}
	egresos, err := s.transaccionRepo.SumManualEgresos(ctx, tx, caja.ID, desde, hasta)
	if err != nil {
		return nil, err
	}

	// 4. Loans and internal movements: breakdown only.
	prestamos, err := s.prestamoRepo.ListPorCajaEnVentana(ctx, tx, caja.ID, desde, hasta)
	if err != nil {
		return nil, err
	}
	movimientos, err := s.movimientoRepo.ListPorCajaEnVentana(ctx, tx, caja.ID, desde, hasta)
	if err != nil {
		return nil, err
	}

	esperado := apertura.MontoApertura.Add(totalVentas).Add(ingresos).Sub(egresos)

	resp := &dto.ArqueoResponse{
		AperturaID:       apertura.ID.String(),
		MontoApertura:    apertura.MontoApertura,
		VentasPorMedio:   ventasPorMedio,
		TotalVentas:      totalVentas,
		IngresosManuales: ingresos,
		EgresosManuales:  egresos,
		MontoEsperado:    esperado,
	}
	for _, p := range prestamos {
		resp.PrestamosVentana = append(resp.PrestamosVentana, dto.PrestamoResumen{
			PrestamoID: p.ID.String(),
			Monto:      p.Monto,
			Estado:     p.Estado,
			Devuelto:   p.Devuelto,
		})
	}
	for _, m := range movimientos {
		resp.MovimientosVentana = append(resp.MovimientosVentana, dto.MovimientoResumen{
			MovimientoID: m.ID.String(),
			Monto:        m.Monto,
			Origen:       m.SubCajaOrigenID.String(),
			Destino:      m.SubCajaDestinoID.String(),
		})
	}
	return resp, nil
}
