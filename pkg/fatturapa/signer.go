// Package fatturapa: interfaz para firma digital de documentos FatturaPA (XAdES-BES).

package fatturapa

import "crypto/tls"

// Signer firma un XML FatturaPA y devuelve el XML con ds:Signature como último hijo de la raíz.
type Signer interface {
	// Sign toma el XML sin firma y el certificado con llave privada.
	Sign(xmlBytes []byte, cert tls.Certificate) ([]byte, error)
}
