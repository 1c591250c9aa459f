// Constantes para firma XAdES-BES de documentos FatturaPA.

package signer

// Namespaces y algoritmos XMLDSig / XAdES.
const (
	NamespaceDS        = "http://www.w3.org/2000/09/xmldsig#"
	NamespaceXAdES     = "http://uri.etsi.org/01903/v1.3.2#"
	AlgC14N            = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgRSASHA256       = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	AlgSHA256          = "http://www.w3.org/2001/04/xmlenc#sha256"
	TransformEnveloped = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
	TypeSignedProps    = "http://uri.etsi.org/01903#SignedProperties"
)

// Ids de los nodos de la firma (las Reference apuntan a ellos).
const (
	SignatureID       = "Signature1"
	SignedPropsID     = "SignedProperties1"
	DocumentRefID     = "reference-document"
	signingTimeLayout = "2006-01-02T15:04:05Z"
)
