package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/cajaerr"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/dto"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/model"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegistrarTransaccion carries everything needed to append one ledger entry.
type RegistrarTransaccion struct {
	SubCajaID      uuid.UUID
	Tipo           string // ingreso | egreso
	Monto          decimal.Decimal
	Descripcion    string
	ReferenciaID   *uuid.UUID
	ReferenciaTipo *string
	UsuarioID      uuid.UUID
}

// TransaccionService is the ledger store. Every balance-affecting component
// writes through Registrar; the denormalized SubCaja.Saldo and the entry's
// saldo_anterior/saldo_posterior are updated in the same transaction.
type TransaccionService interface {
	// Registrar appends one entry inside the caller's transaction. It locks
	// the sub-caja row, rejects egresos that would drive the balance
	// negative, and keeps saldo_posterior = saldo_anterior ± monto.
	Registrar(ctx context.Context, tx *gorm.DB, p RegistrarTransaccion) (*model.Transaccion, error)
	// RegistrarManual records a hand-entered ingreso/egreso in its own
	// transaction, requiring an open apertura on the sub-caja's caja.
	RegistrarManual(ctx context.Context, usuarioID uuid.UUID, req dto.MovimientoManualRequest) error
	SaldoDe(ctx context.Context, subCajaID uuid.UUID) (decimal.Decimal, error)
	// SaldoVendedor is the seller's sub-balance on one sub-caja: their float
	// share from the active apertura (caja chica only) plus their own ledger
	// entries, excluding apertura-reference entries to avoid double-counting.
	SaldoVendedor(ctx context.Context, subCajaID, vendedorID uuid.UUID) (decimal.Decimal, error)
}

type transaccionService struct {
	repo         repository.TransaccionRepository
	cajaRepo     repository.CajaRepository
	aperturaRepo repository.AperturaRepository
}

func NewTransaccionService(
	repo repository.TransaccionRepository,
	cajaRepo repository.CajaRepository,
	aperturaRepo repository.AperturaRepository,
) TransaccionService {
	return &transaccionService{repo: repo, cajaRepo: cajaRepo, aperturaRepo: aperturaRepo}
}

func (s *transaccionService) Registrar(ctx context.Context, tx *gorm.DB, p RegistrarTransaccion) (*model.Transaccion, error) {
	if !p.Monto.IsPositive() {
		return nil, fmt.Errorf("monto debe ser mayor a cero: %s", p.Monto)
	}
	if p.Tipo != model.TransaccionIngreso && p.Tipo != model.TransaccionEgreso {
		return nil, fmt.Errorf("tipo de transacción inválido: %q", p.Tipo)
	}

	sub, err := s.cajaRepo.FindSubCajaForUpdate(ctx, tx, p.SubCajaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cajaerr.ErrSubCajaNoEncontrada
		}
		return nil, err
	}

	anterior := sub.Saldo
	var posterior decimal.Decimal
	if p.Tipo == model.TransaccionIngreso {
		posterior = anterior.Add(p.Monto)
	} else {
		posterior = anterior.Sub(p.Monto)
		if posterior.IsNegative() {
			return nil, cajaerr.ErrSaldoInsuficiente
		}
	}

	t := &model.Transaccion{
		SubCajaID:      p.SubCajaID,
		Tipo:           p.Tipo,
		Monto:          p.Monto,
		SaldoAnterior:  anterior,
		SaldoPosterior: posterior,
		Descripcion:    p.Descripcion,
		ReferenciaID:   p.ReferenciaID,
		ReferenciaTipo: p.ReferenciaTipo,
		UsuarioID:      p.UsuarioID,
	}
	if err := s.repo.Create(ctx, tx, t); err != nil {
		return nil, err
	}
	if err := s.cajaRepo.UpdateSaldo(ctx, tx, p.SubCajaID, posterior); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *transaccionService) RegistrarManual(ctx context.Context, usuarioID uuid.UUID, req dto.MovimientoManualRequest) error {
	subCajaID, err := uuid.Parse(req.SubCajaID)
	if err != nil {
		return fmt.Errorf("sub_caja_id inválido: %w", err)
	}

	sub, err := s.cajaRepo.FindSubCajaByID(ctx, subCajaID)
	if err != nil {
		return cajaerr.ErrSubCajaNoEncontrada
	}
	if _, err := s.aperturaRepo.FindAbiertaPorCaja(ctx, sub.CajaPrincipalID); err != nil {
		return cajaerr.ErrSinAperturaActiva
	}

	return runTx(ctx, s.cajaRepo.DB(), func(tx *gorm.DB) error {
		_, err := s.Registrar(ctx, tx, RegistrarTransaccion{
			SubCajaID:   subCajaID,
			Tipo:        req.Tipo,
			Monto:       req.Monto,
			Descripcion: req.Descripcion,
			UsuarioID:   usuarioID,
		})
		return err
	})
}

func (s *transaccionService) SaldoDe(ctx context.Context, subCajaID uuid.UUID) (decimal.Decimal, error) {
	sub, err := s.cajaRepo.FindSubCajaByID(ctx, subCajaID)
	if err != nil {
		return decimal.Zero, cajaerr.ErrSubCajaNoEncontrada
	}
	return sub.Saldo, nil
}

func (s *transaccionService) SaldoVendedor(ctx context.Context, subCajaID, vendedorID uuid.UUID) (decimal.Decimal, error) {
	sub, err := s.cajaRepo.FindSubCajaByID(ctx, subCajaID)
	if err != nil {
		return decimal.Zero, cajaerr.ErrSubCajaNoEncontrada
	}

	saldo, err := s.repo.SaldoVendedorEntradas(ctx, subCajaID, vendedorID)
	if err != nil {
		return decimal.Zero, err
	}

	if sub.EsCajaChica() {
		if apertura, err := s.aperturaRepo.FindAbiertaPorCaja(ctx, sub.CajaPrincipalID); err == nil {
			share, err := s.aperturaRepo.SumDistribucion(ctx, apertura.ID, vendedorID)
			if err != nil {
				return decimal.Zero, err
			}
			saldo = saldo.Add(share)
		}
	}
	return saldo, nil
}
