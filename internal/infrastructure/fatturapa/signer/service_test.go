package signer_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domfatturapa "github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
	infrafatturapa "github.com/jhoicas/fatturapa-api/internal/infrastructure/fatturapa"
	"github.com/jhoicas/fatturapa-api/internal/infrastructure/fatturapa/signer"
)

var signingNow = domfatturapa.FixedClock(time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC))

// selfSignedCert genera un certificado RSA autofirmado para pruebas.
func selfSignedCert(t *testing.T) (tls.Certificate, *rsa.PrivateKey, []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(123456789),
		Subject:      pkix.Name{CommonName: "Rossi Forniture S.r.l.", Organization: []string{"Rossi & Figli"}},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}, key, der
}

func unsignedXML() []byte {
	p := domfatturapa.Params{
		Company: domfatturapa.CompanyInfo{RagioneSociale: "Rossi", PartitaIva: "01234567890"},
		Client:  domfatturapa.ClientInfo{CompanyName: "Verdi", VatNumber: "09876543210"},
		Invoice: domfatturapa.InvoiceHeader{
			Number:     "1",
			IssuedDate: "2026-03-15",
			Subtotal:   decimal.NewFromInt(100),
			TaxRate:    decimal.NewFromInt(22),
			TaxAmount:  decimal.NewFromInt(22),
			Total:      decimal.NewFromInt(122),
		},
		LineItems: []domfatturapa.LineItem{
			{Description: "Servizio", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100), Total: decimal.NewFromInt(100)},
		},
	}
	return []byte(infrafatturapa.NewXMLBuilderService(signingNow).Build(p))
}

func TestSign_FirmaComoUltimoHijoYVerifica(t *testing.T) {
	cert, _, der := selfSignedCert(t)
	svc := signer.NewDigitalSignatureService(signingNow)

	signed, err := svc.Sign(unsignedXML(), cert)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(signed))
	children := doc.Root().ChildElements()
	require.NotEmpty(t, children)
	last := children[len(children)-1]
	assert.Equal(t, "ds", last.Space)
	assert.Equal(t, "Signature", last.Tag)

	assert.Contains(t, string(signed), "<xades:SigningTime>2026-03-15T09:30:00Z</xades:SigningTime>")
	assert.Contains(t, string(signed), "<ds:X509SerialNumber>123456789</ds:X509SerialNumber>")
	assert.Contains(t, string(signed), "<ProgressivoInvio>1</ProgressivoInvio>")

	got, err := signer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, der, got.Raw)

	summary, err := infrafatturapa.Inspect(signed)
	require.NoError(t, err)
	assert.True(t, summary.Signed)
}

func TestVerify_DetectaModificacion(t *testing.T) {
	cert, _, _ := selfSignedCert(t)
	signed, err := signer.NewDigitalSignatureService(signingNow).Sign(unsignedXML(), cert)
	require.NoError(t, err)

	tampered := strings.Replace(string(signed), "<ImportoTotaleDocumento>122.00<", "<ImportoTotaleDocumento>999.00<", 1)
	require.NotEqual(t, string(signed), tampered)

	_, err = signer.Verify([]byte(tampered))
	assert.ErrorIs(t, err, signer.ErrInvalidSignature)
}

func TestVerify_SinFirma(t *testing.T) {
	_, err := signer.Verify(unsignedXML())
	assert.ErrorIs(t, err, signer.ErrInvalidSignature)
}

func TestSign_Errores(t *testing.T) {
	cert, _, _ := selfSignedCert(t)
	svc := signer.NewDigitalSignatureService(signingNow)

	_, err := svc.Sign(nil, cert)
	assert.Error(t, err, "XML vacío")

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	_, err = svc.Sign(unsignedXML(), tls.Certificate{Certificate: cert.Certificate, PrivateKey: ecKey})
	assert.Error(t, err, "solo RSA")

	signed, err := svc.Sign(unsignedXML(), cert)
	require.NoError(t, err)
	_, err = svc.Sign(signed, cert)
	assert.Error(t, err, "no se firma dos veces")
}

func TestLoadCertificate(t *testing.T) {
	_, err := signer.LoadCertificate("", "", "")
	assert.ErrorIs(t, err, signer.ErrNoCertificate)

	_, key, der := selfSignedCert(t)
	dir := t.TempDir()
	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certPath, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(&pem.Block{
		Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key),
	}), 0o600))

	loaded, err := signer.LoadCertificate(certPath, keyPath, "")
	require.NoError(t, err)
	require.Len(t, loaded.Certificate, 1)
	assert.Equal(t, der, loaded.Certificate[0])

	_, err = signer.LoadCertificate(filepath.Join(dir, "missing.p12"), "", "secret")
	assert.Error(t, err)
}
