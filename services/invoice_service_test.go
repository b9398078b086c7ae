package services

import (
	"context"
	"errors"
	"testing"

	"github.com/anjiri1684/supercar_rentals/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoicePDF(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "kamau@example.com")
	car := env.seedCar(t, true)
	booking := env.book(t, user, car, day(1), day(5))

	var rendered string
	svc := NewInvoiceService(env.store, func(ctx context.Context, html string) ([]byte, error) {
		rendered = html
		return []byte("%PDF-1.4"), nil
	}, "")

	pdf, err := svc.PDF(context.Background(), booking)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)

	assert.Contains(t, rendered, "INV-2024-00001")
	assert.Contains(t, rendered, "2023 Ferrari SF90")
	assert.Contains(t, rendered, "kamau@example.com")
	assert.Contains(t, rendered, "2024-06-01")
	assert.Contains(t, rendered, "4 day(s)")
	assert.Contains(t, rendered, "1500.00")
	assert.Contains(t, rendered, "6000.00")
}

func TestInvoicePDFRenderFailure(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "kamau@example.com")
	car := env.seedCar(t, true)
	booking := env.book(t, user, car, day(1), day(2))

	svc := NewInvoiceService(env.store, func(context.Context, string) ([]byte, error) {
		return nil, errors.New("chrome not installed")
	}, "")

	_, err := svc.PDF(context.Background(), booking)
	assert.Equal(t, apperrors.CodeUnexpected, apperrors.CodeOf(err))
}

func TestRenderInvoiceHTMLEscapes(t *testing.T) {
	html, err := RenderInvoiceHTML(&Invoice{InvoiceNumber: "INV-2024-00009", CustomerName: "<script>alert(1)</script>"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}
