// Carga de certificado desde .p12/.pfx (PKCS#12) o par PEM.

package signer

import (
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pkcs12"
)

// ErrNoCertificate no hay certificado configurado.
var ErrNoCertificate = errors.New("signer: certificado no configurado")

// LoadCertificate elige el formato por extensión: .p12/.pfx usa password, el resto se trata como PEM.
// Con path vacío devuelve ErrNoCertificate.
func LoadCertificate(path, keyPath, password string) (tls.Certificate, error) {
	if strings.TrimSpace(path) == "" {
		return tls.Certificate{}, ErrNoCertificate
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".p12", ".pfx":
		return LoadFromP12(path, password)
	default:
		return LoadFromPEM(path, keyPath)
	}
}

// LoadFromP12 carga certificado y llave privada desde un archivo .p12/.pfx.
func LoadFromP12(path, password string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("leer p12: %w", err)
	}
	priv, cert, err := pkcs12.Decode(data, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("decodificar p12: %w", err)
	}
	return tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  priv,
		Leaf:        cert,
	}, nil
}

// LoadFromPEM carga certificado y llave desde archivos PEM (separados o combinados en certPath).
func LoadFromPEM(certPath, keyPath string) (tls.Certificate, error) {
	if keyPath == "" {
		keyPath = certPath
	}
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("cargar PEM: %w", err)
	}
	return cert, nil
}

// CertDigestAndIssuerSerial devuelve el digest SHA-256 del certificado (Base64), el emisor
// y el serial en decimal (xsd:integer en XAdES).
func CertDigestAndIssuerSerial(cert *x509.Certificate) (digestB64 string, issuerName string, serial string) {
	h := sha256.Sum256(cert.Raw)
	return base64.StdEncoding.EncodeToString(h[:]), cert.Issuer.String(), cert.SerialNumber.String()
}
