// Servicio de firma digital XAdES-BES para documentos FatturaPA.
// Firma enveloped (Reference URI="") con ds:Signature como último hijo de p:FatturaElettronica.

package signer

import (
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	domfatturapa "github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
	pkgfatturapa "github.com/jhoicas/fatturapa-api/pkg/fatturapa"
)

// ErrInvalidSignature la firma no corresponde al documento o al certificado.
var ErrInvalidSignature = errors.New("signer: firma inválida")

// DigitalSignatureService implementa la firma XAdES-BES y la inyecta en el XML.
type DigitalSignatureService struct {
	clock domfatturapa.Clock
}

// NewDigitalSignatureService crea el servicio. El clock fija el SigningTime (nil = reloj del sistema).
func NewDigitalSignatureService(clock domfatturapa.Clock) *DigitalSignatureService {
	if clock == nil {
		clock = domfatturapa.SystemClock{}
	}
	return &DigitalSignatureService{clock: clock}
}

// Sign implementa pkg/fatturapa.Signer.
func (s *DigitalSignatureService) Sign(xmlBytes []byte, cert tls.Certificate) ([]byte, error) {
	if len(xmlBytes) == 0 {
		return nil, fmt.Errorf("fatturapa: XML vacío")
	}
	priv, ok := cert.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("fatturapa: el certificado debe incluir llave privada RSA")
	}
	if len(cert.Certificate) == 0 {
		return nil, fmt.Errorf("fatturapa: certificado sin cadena X.509")
	}
	x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("fatturapa: parsear certificado: %w", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, fmt.Errorf("fatturapa: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("fatturapa: documento sin raíz")
	}
	if findSignature(root) != nil {
		return nil, fmt.Errorf("fatturapa: el documento ya está firmado")
	}

	// 1) Digest del documento (C14N del elemento raíz, sin firma)
	docDigest, err := digestElement(root)
	if err != nil {
		return nil, err
	}

	// 2) SignedProperties: SigningTime + SigningCertificate
	signingTime := s.clock.Now().UTC().Format(signingTimeLayout)
	certDigestB64, issuerName, serial := CertDigestAndIssuerSerial(x509Cert)
	signedPropsXML := buildSignedProperties(signingTime, certDigestB64, issuerName, serial)
	propsDigest, err := digestString(signedPropsXML)
	if err != nil {
		return nil, err
	}

	// 3) SignedInfo firmado con RSA-SHA256
	signedInfoXML := buildSignedInfo(docDigest, propsDigest)
	canonicalSignedInfo, err := canonicalString(signedInfoXML)
	if err != nil {
		return nil, err
	}
	signHash := sha256.Sum256(canonicalSignedInfo)
	signatureValue, err := rsa.SignPKCS1v15(nil, priv, crypto.SHA256, signHash[:])
	if err != nil {
		return nil, fmt.Errorf("fatturapa: firmar SignedInfo: %w", err)
	}

	signatureXML := buildSignature(signedInfoXML, base64.StdEncoding.EncodeToString(signatureValue),
		base64.StdEncoding.EncodeToString(x509Cert.Raw), signedPropsXML)

	// 4) Inyectar como último hijo de la raíz
	sigDoc := etree.NewDocument()
	if err := sigDoc.ReadFromString(signatureXML); err != nil {
		return nil, fmt.Errorf("fatturapa: parsear Signature: %w", err)
	}
	root.AddChild(sigDoc.Root())

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("fatturapa: serializar XML firmado: %w", err)
	}
	return out, nil
}

// Verify comprueba SignatureValue con el certificado embebido y los digest de ambas Reference.
// Devuelve el certificado firmante.
func Verify(signedXML []byte) (*x509.Certificate, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(signedXML); err != nil {
		return nil, fmt.Errorf("fatturapa: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("fatturapa: documento sin raíz")
	}
	sig := findSignature(root)
	if sig == nil {
		return nil, fmt.Errorf("%w: ds:Signature ausente", ErrInvalidSignature)
	}

	certEl := sig.FindElement("./ds:KeyInfo/ds:X509Data/ds:X509Certificate")
	if certEl == nil {
		return nil, fmt.Errorf("%w: X509Certificate ausente", ErrInvalidSignature)
	}
	der, err := base64.StdEncoding.DecodeString(strings.TrimSpace(certEl.Text()))
	if err != nil {
		return nil, fmt.Errorf("%w: certificado no es base64", ErrInvalidSignature)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: llave pública no RSA", ErrInvalidSignature)
	}

	signedInfo := sig.FindElement("./ds:SignedInfo")
	valueEl := sig.FindElement("./ds:SignatureValue")
	if signedInfo == nil || valueEl == nil {
		return nil, fmt.Errorf("%w: SignedInfo o SignatureValue ausente", ErrInvalidSignature)
	}
	sigValue, err := base64.StdEncoding.DecodeString(strings.TrimSpace(valueEl.Text()))
	if err != nil {
		return nil, fmt.Errorf("%w: SignatureValue no es base64", ErrInvalidSignature)
	}
	canonicalSignedInfo, err := canonicalElement(signedInfo)
	if err != nil {
		return nil, err
	}
	h := sha256.Sum256(canonicalSignedInfo)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, h[:], sigValue); err != nil {
		return nil, fmt.Errorf("%w: SignatureValue", ErrInvalidSignature)
	}

	var props *etree.Element
	if p := sig.FindElement(".//xades:SignedProperties"); p != nil {
		props = p.Copy()
	}
	root.RemoveChild(sig)

	for _, ref := range signedInfo.FindElements("./ds:Reference") {
		digestEl := ref.FindElement("./ds:DigestValue")
		if digestEl == nil {
			return nil, fmt.Errorf("%w: Reference sin DigestValue", ErrInvalidSignature)
		}
		expected := strings.TrimSpace(digestEl.Text())
		var target *etree.Element
		switch ref.SelectAttrValue("URI", "") {
		case "":
			target = root
		case "#" + SignedPropsID:
			target = props
		}
		if target == nil {
			return nil, fmt.Errorf("%w: Reference sin destino", ErrInvalidSignature)
		}
		got, err := digestElement(target)
		if err != nil {
			return nil, err
		}
		if got != expected {
			return nil, fmt.Errorf("%w: digest de %q no coincide", ErrInvalidSignature, ref.SelectAttrValue("URI", ""))
		}
	}
	return cert, nil
}

func findSignature(root *etree.Element) *etree.Element {
	for _, child := range root.ChildElements() {
		if child.Tag == "Signature" {
			return child
		}
	}
	return nil
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

// canonicalElement serializa una copia del elemento como documento propio y aplica C14N.
// Firma y verificación pasan por aquí, así ambos lados hashean los mismos bytes.
func canonicalElement(el *etree.Element) ([]byte, error) {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	raw, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("fatturapa: serializar %s: %w", el.Tag, err)
	}
	canonical, err := canonicalizeXML(raw)
	if err != nil {
		return raw, nil
	}
	return canonical, nil
}

func canonicalString(fragment string) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(fragment); err != nil {
		return nil, fmt.Errorf("fatturapa: parsear fragmento: %w", err)
	}
	return canonicalElement(doc.Root())
}

func digestElement(el *etree.Element) (string, error) {
	canonical, err := canonicalElement(el)
	if err != nil {
		return "", err
	}
	h := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(h[:]), nil
}

func digestString(fragment string) (string, error) {
	canonical, err := canonicalString(fragment)
	if err != nil {
		return "", err
	}
	h := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(h[:]), nil
}

func buildSignedInfo(docDigestB64, propsDigestB64 string) string {
	var sb strings.Builder
	sb.WriteString(`<ds:SignedInfo xmlns:ds="` + NamespaceDS + `">`)
	sb.WriteString(`<ds:CanonicalizationMethod Algorithm="` + AlgC14N + `"/>`)
	sb.WriteString(`<ds:SignatureMethod Algorithm="` + AlgRSASHA256 + `"/>`)
	sb.WriteString(`<ds:Reference Id="` + DocumentRefID + `" URI="">`)
	sb.WriteString(`<ds:Transforms><ds:Transform Algorithm="` + TransformEnveloped + `"/></ds:Transforms>`)
	sb.WriteString(`<ds:DigestMethod Algorithm="` + AlgSHA256 + `"/>`)
	sb.WriteString(`<ds:DigestValue>` + docDigestB64 + `</ds:DigestValue>`)
	sb.WriteString(`</ds:Reference>`)
	sb.WriteString(`<ds:Reference Type="` + TypeSignedProps + `" URI="#` + SignedPropsID + `">`)
	sb.WriteString(`<ds:DigestMethod Algorithm="` + AlgSHA256 + `"/>`)
	sb.WriteString(`<ds:DigestValue>` + propsDigestB64 + `</ds:DigestValue>`)
	sb.WriteString(`</ds:Reference>`)
	sb.WriteString(`</ds:SignedInfo>`)
	return sb.String()
}

func buildSignedProperties(signingTime, certDigestB64, issuerName, serial string) string {
	var sb strings.Builder
	sb.WriteString(`<xades:SignedProperties xmlns:ds="` + NamespaceDS + `" xmlns:xades="` + NamespaceXAdES + `" Id="` + SignedPropsID + `">`)
	sb.WriteString(`<xades:SignedSignatureProperties>`)
	sb.WriteString(`<xades:SigningTime>` + signingTime + `</xades:SigningTime>`)
	sb.WriteString(`<xades:SigningCertificate><xades:Cert><xades:CertDigest>`)
	sb.WriteString(`<ds:DigestMethod Algorithm="` + AlgSHA256 + `"/>`)
	sb.WriteString(`<ds:DigestValue>` + certDigestB64 + `</ds:DigestValue></xades:CertDigest>`)
	sb.WriteString(`<xades:IssuerSerial><ds:X509IssuerName>` + domfatturapa.EscapeXML(issuerName) + `</ds:X509IssuerName>`)
	sb.WriteString(`<ds:X509SerialNumber>` + serial + `</ds:X509SerialNumber></xades:IssuerSerial>`)
	sb.WriteString(`</xades:Cert></xades:SigningCertificate>`)
	sb.WriteString(`</xades:SignedSignatureProperties></xades:SignedProperties>`)
	return sb.String()
}

func buildSignature(signedInfoXML, signatureValueB64, certB64, signedPropsXML string) string {
	var sb strings.Builder
	sb.WriteString(`<ds:Signature xmlns:ds="` + NamespaceDS + `" Id="` + SignatureID + `">`)
	sb.WriteString(signedInfoXML)
	sb.WriteString(`<ds:SignatureValue>` + signatureValueB64 + `</ds:SignatureValue>`)
	sb.WriteString(`<ds:KeyInfo><ds:X509Data><ds:X509Certificate>` + certB64 + `</ds:X509Certificate></ds:X509Data></ds:KeyInfo>`)
	sb.WriteString(`<ds:Object><xades:QualifyingProperties xmlns:xades="` + NamespaceXAdES + `" Target="#` + SignatureID + `">`)
	sb.WriteString(signedPropsXML)
	sb.WriteString(`</xades:QualifyingProperties></ds:Object>`)
	sb.WriteString(`</ds:Signature>`)
	return sb.String()
}

var _ pkgfatturapa.Signer = (*DigitalSignatureService)(nil)
