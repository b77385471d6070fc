package service

import (
	"context"
	"testing"
	"time"

	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/model"
	"github.com/Magus-Technologies/ferreteria-backend-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMontoEsperadoFormula(t *testing.T) {
	e := newEnv()
	vendedor := uuid.New()
	caja, chica := e.st.addCaja(vendedor)

	apertura := &model.Apertura{
		ID:              uuid.New(),
		CajaPrincipalID: caja.ID,
		SubCajaID:       chica.ID,
		MontoApertura:   decimal.NewFromInt(100),
		Estado:          model.AperturaAbierta,
		OpenedAt:        time.Now().Add(-2 * time.Hour),
	}
	e.st.aperturas[apertura.ID] = apertura

	// Ventas del turno: 500 en efectivo.
	e.st.pagos = []repository.PagoPorMedio{
		{MedioPagoID: uuid.New(), Nombre: "Efectivo", EsEfectivo: true, Total: decimal.NewFromInt(500)},
	}

	// Movimientos manuales: +50 / −20.
	ingreso := decimal.NewFromInt(50)
	egreso := decimal.NewFromInt(20)
	_, err := e.ledger.Registrar(context.Background(), nil, RegistrarTransaccion{
		SubCajaID: chica.ID, Tipo: model.TransaccionIngreso, Monto: ingreso,
		Descripcion: "Ingreso manual", UsuarioID: vendedor,
	})
	require.NoError(t, err)
	_, err = e.ledger.Registrar(context.Background(), nil, RegistrarTransaccion{
		SubCajaID: chica.ID, Tipo: model.TransaccionEgreso, Monto: egreso,
		Descripcion: "Egreso manual", UsuarioID: vendedor,
	})
	require.NoError(t, err)

	resp, err := e.arqueo.MontoEsperado(context.Background(), apertura.ID)
	require.NoError(t, err)

	// 100 + 500 + 50 − 20 = 630
	assert.Equal(t, "630", resp.MontoEsperado.String())
	assert.Equal(t, "500", resp.TotalVentas.String())
	assert.Equal(t, "50", resp.IngresosManuales.String())
	assert.Equal(t, "20", resp.EgresosManuales.String())
	require.Len(t, resp.VentasPorMedio, 1)
	assert.Equal(t, "Efectivo", resp.VentasPorMedio[0].Nombre)
}

func TestMontoEsperadoExcluyePrestamosYMovimientos(t *testing.T) {
	e := newEnv()
	vendedor := uuid.New()
	prestamista := uuid.New()
	caja, chica := e.st.addCaja(vendedor)
	cajaOrigen, chicaOrigen := e.st.addCaja(prestamista)
	_ = cajaOrigen
	chicaOrigen.Saldo = decimal.NewFromInt(500)

	apertura := &model.Apertura{
		ID:              uuid.New(),
		CajaPrincipalID: caja.ID,
		SubCajaID:       chica.ID,
		MontoApertura:   decimal.NewFromInt(100),
		Estado:          model.AperturaAbierta,
		OpenedAt:        time.Now().Add(-2 * time.Hour),
	}
	e.st.aperturas[apertura.ID] = apertura

	// Un préstamo aprobado dentro de la ventana: dos asientos RefPrestamo.
	resolved := time.Now().Add(-time.Hour)
	origenID := chicaOrigen.ID
	prestamo := &model.Prestamo{
		ID:               uuid.New(),
		SubCajaDestinoID: chica.ID,
		SubCajaOrigenID:  &origenID,
		Monto:            decimal.NewFromInt(200),
		Estado:           model.PrestamoAprobado,
		ResolvedAt:       &resolved,
	}
	e.st.prestamos[prestamo.ID] = prestamo

	ref := model.RefPrestamo
	_, err := e.ledger.Registrar(context.Background(), nil, RegistrarTransaccion{
		SubCajaID: chica.ID, Tipo: model.TransaccionIngreso, Monto: prestamo.Monto,
		Descripcion: "Préstamo recibido", ReferenciaID: &prestamo.ID, ReferenciaTipo: &ref,
		UsuarioID: vendedor,
	})
	require.NoError(t, err)

	resp, err := e.arqueo.MontoEsperado(context.Background(), apertura.ID)
	require.NoError(t, err)

	// El préstamo aparece en el desglose pero no altera el esperado.
	assert.Equal(t, "100", resp.MontoEsperado.String())
	require.Len(t, resp.PrestamosVentana, 1)
	assert.Equal(t, prestamo.ID.String(), resp.PrestamosVentana[0].PrestamoID)
	assert.True(t, resp.IngresosManuales.IsZero())
}
