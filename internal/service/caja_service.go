package service

import (
	"context"
	"fmt"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/cajaerr"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/dto"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/model"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CajaService manages cajas principales and their sub-cajas. The caja chica
// is created together with its caja principal and can never be edited or
// deleted; secundarias are deletable only with a zero balance.
type CajaService interface {
	CrearCajaPrincipal(ctx context.Context, vendedorID uuid.UUID, req dto.CrearCajaRequest) (*dto.CajaResponse, error)
	CrearSubCaja(ctx context.Context, req dto.CrearSubCajaRequest) (*dto.SubCajaResponse, error)
	EliminarSubCaja(ctx context.Context, subCajaID uuid.UUID) error
	ListarSubCajas(ctx context.Context, cajaPrincipalID uuid.UUID) ([]dto.SubCajaResponse, error)
}

type cajaService struct {
	repo repository.CajaRepository
}

func NewCajaService(repo repository.CajaRepository) CajaService {
	return &cajaService{repo: repo}
}

func (s *cajaService) CrearCajaPrincipal(ctx context.Context, vendedorID uuid.UUID, req dto.CrearCajaRequest) (*dto.CajaResponse, error) {
	caja := &model.CajaPrincipal{
		VendedorID: vendedorID,
		Nombre:     req.Nombre,
		Activa:     true,
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateCajaPrincipal(ctx, tx, caja); err != nil {
			return err
		}
		// The caja chica is born with its caja principal.
		chica := &model.SubCaja{
			CajaPrincipalID: caja.ID,
			Nombre:          "Caja Chica",
			Tipo:            model.SubCajaChica,
		}
		return s.repo.CreateSubCaja(ctx, tx, chica)
	})
	if err != nil {
		return nil, err
	}
	return &dto.CajaResponse{
		CajaPrincipalID: caja.ID.String(),
		VendedorID:      caja.VendedorID.String(),
		Nombre:          caja.Nombre,
	}, nil
}

func (s *cajaService) CrearSubCaja(ctx context.Context, req dto.CrearSubCajaRequest) (*dto.SubCajaResponse, error) {
	cajaID, err := uuid.Parse(req.CajaPrincipalID)
	if err != nil {
		return nil, fmt.Errorf("caja_principal_id inválido: %w", err)
	}
	if _, err := s.repo.FindCajaPrincipalByID(ctx, cajaID); err != nil {
		return nil, cajaerr.ErrCajaNoEncontrada
	}

	existe, err := s.repo.ExistsSubCajaNombre(ctx, cajaID, req.Nombre)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, cajaerr.ErrConfiguracionDuplicada
	}

	sub := &model.SubCaja{
		CajaPrincipalID: cajaID,
		Nombre:          req.Nombre,
		Tipo:            model.SubCajaSecundaria,
	}
	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateSubCaja(ctx, tx, sub)
	}); err != nil {
		return nil, err
	}
	return subCajaToResponse(sub), nil
}

func (s *cajaService) EliminarSubCaja(ctx context.Context, subCajaID uuid.UUID) error {
	sub, err := s.repo.FindSubCajaByID(ctx, subCajaID)
	if err != nil {
		return cajaerr.ErrSubCajaNoEncontrada
	}
	if sub.EsCajaChica() {
		return cajaerr.ErrPermisoDenegado
	}
	if !sub.Saldo.IsZero() {
		return fmt.Errorf("la sub-caja tiene saldo %s: debe estar en cero para eliminarla", sub.Saldo.StringFixed(2))
	}
	return s.repo.DeleteSubCaja(ctx, subCajaID)
}

func (s *cajaService) ListarSubCajas(ctx context.Context, cajaPrincipalID uuid.UUID) ([]dto.SubCajaResponse, error) {
	subs, err := s.repo.ListSubCajas(ctx, cajaPrincipalID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SubCajaResponse, 0, len(subs))
	for i := range subs {
		resp = append(resp, *subCajaToResponse(&subs[i]))
	}
	return resp, nil
}

func subCajaToResponse(s *model.SubCaja) *dto.SubCajaResponse {
	return &dto.SubCajaResponse{
		SubCajaID:       s.ID.String(),
		CajaPrincipalID: s.CajaPrincipalID.String(),
		Nombre:          s.Nombre,
		Tipo:            s.Tipo,
		Saldo:           s.Saldo,
	}
}
