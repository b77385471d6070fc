package service

import (
	"context"
	"testing"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/cajaerr"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/dto"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearCajaPrincipalNaceConCajaChica(t *testing.T) {
	e := newEnv()
	vendedor := uuid.New()

	resp, err := e.cajas.CrearCajaPrincipal(context.Background(), vendedor, dto.CrearCajaRequest{Nombre: "Caja Mostrador"})
	require.NoError(t, err)
	assert.Equal(t, vendedor.String(), resp.VendedorID)

	subs, err := e.cajas.ListarSubCajas(context.Background(), uuid.MustParse(resp.CajaPrincipalID))
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Caja Chica", subs[0].Nombre)
	assert.Equal(t, model.SubCajaChica, subs[0].Tipo)
	assert.True(t, subs[0].Saldo.IsZero())
}

func TestCrearSubCajaRechazaNombreDuplicado(t *testing.T) {
	e := newEnv()
	caja, _ := e.st.addCaja(uuid.New())

	_, err := e.cajas.CrearSubCaja(context.Background(), dto.CrearSubCajaRequest{
		CajaPrincipalID: caja.ID.String(),
		Nombre:          "Bóveda",
	})
	require.NoError(t, err)

	_, err = e.cajas.CrearSubCaja(context.Background(), dto.CrearSubCajaRequest{
		CajaPrincipalID: caja.ID.String(),
		Nombre:          "Bóveda",
	})
	assert.ErrorIs(t, err, cajaerr.ErrConfiguracionDuplicada)
}

func TestCrearSubCajaSobreCajaInexistente(t *testing.T) {
	e := newEnv()

	_, err := e.cajas.CrearSubCaja(context.Background(), dto.CrearSubCajaRequest{
		CajaPrincipalID: uuid.NewString(),
		Nombre:          "Bóveda",
	})
	assert.ErrorIs(t, err, cajaerr.ErrCajaNoEncontrada)
}

func TestEliminarCajaChicaNoEstaPermitido(t *testing.T) {
	e := newEnv()
	_, chica := e.st.addCaja(uuid.New())

	err := e.cajas.EliminarSubCaja(context.Background(), chica.ID)
	assert.ErrorIs(t, err, cajaerr.ErrPermisoDenegado)
	_, ok := e.st.subCajas[chica.ID]
	assert.True(t, ok)
}

func TestEliminarSubCajaConSaldo(t *testing.T) {
	e := newEnv()
	caja, _ := e.st.addCaja(uuid.New())
	sub := e.st.addSecundaria(caja.ID, "Bóveda", decimal.NewFromInt(75))

	err := e.cajas.EliminarSubCaja(context.Background(), sub.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "debe estar en cero")
	_, ok := e.st.subCajas[sub.ID]
	assert.True(t, ok)
}

func TestEliminarSubCajaEnCero(t *testing.T) {
	e := newEnv()
	caja, _ := e.st.addCaja(uuid.New())
	sub := e.st.addSecundaria(caja.ID, "Bóveda", decimal.Zero)

	err := e.cajas.EliminarSubCaja(context.Background(), sub.ID)
	require.NoError(t, err)
	_, ok := e.st.subCajas[sub.ID]
	assert.False(t, ok)
}
