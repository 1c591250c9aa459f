package fatturapa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ── Constantes de entorno ──────────────────────────────────────────────────────

const (
	// AppEnvTest ambiente de pruebas del SdI (testservizi).
	AppEnvTest = "test"
	// AppEnvProd ambiente de producción del SdI.
	AppEnvProd = "prod"
	// AppEnvDev identificador local: no envía al SdI.
	AppEnvDev = "dev"

	DefaultEndpointTest = "https://testservizi.fatturapa.it/ricevi_file"
	DefaultEndpointProd = "https://servizi.fatturapa.it/ricevi_file"

	soapNS           = "http://schemas.xmlsoap.org/soap/envelope/"
	sdiTypesNS       = "http://www.fatturapa.gov.it/sdi/ws/trasmissione/v1.0/types"
	soapActionRicevi = "http://www.fatturapa.gov.it/sdi/ws/trasmissione/v1.0/SdIRiceviFile"

	maxResponseBytes = 1 << 20
)

// Códigos de Errore del servicio SdIRiceviFile.
var sdiErrorMessages = map[string]string{
	"EI01": "file vuoto",
	"EI02": "servizio non disponibile",
	"EI03": "utente non abilitato",
}

// ── Puerto (interfaz) ──────────────────────────────────────────────────────────

// SubmitResult resultado de la entrega al SdI.
type SubmitResult struct {
	IdentificativoSdI string // identificador asignado por el SdI
	DataOraRicezione  string // fecha/hora de recepción reportada por el SdI
	Accepted          bool   // true si el SdI recibió el archivo (sin Errore)
	Errors            string // código y descripción del error (puede ser vacío)
}

// SDISubmitter puerto de salida para la entrega de archivos al SdI.
// La implementación concreta usa SOAP; para tests se inyecta un mock.
type SDISubmitter interface {
	// SubmitFile envía el archivo (XML firmado o ZIP) con su nombre SDI.
	// env debe ser "test" o "prod"; determina el endpoint.
	SubmitFile(ctx context.Context, file []byte, filename, env string) (*SubmitResult, error)
}

// ── Implementación SOAP ────────────────────────────────────────────────────────

// SOAPSDIClient implementa SDISubmitter con el servicio SdIRiceviFile.
type SOAPSDIClient struct {
	httpClient *http.Client
	endpoints  map[string]string
}

// NewSOAPSDIClient construye el cliente con timeout de 60 s. Endpoints vacíos usan los oficiales.
func NewSOAPSDIClient(endpointTest, endpointProd string) *SOAPSDIClient {
	if endpointTest == "" {
		endpointTest = DefaultEndpointTest
	}
	if endpointProd == "" {
		endpointProd = DefaultEndpointProd
	}
	return &SOAPSDIClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		endpoints: map[string]string{
			AppEnvTest: endpointTest,
			AppEnvProd: endpointProd,
		},
	}
}

// ── Estructuras SOAP ──────────────────────────────────────────────────────────

type soapEnvelope struct {
	XMLName xml.Name   `xml:"soapenv:Envelope"`
	XmlnsS  string     `xml:"xmlns:soapenv,attr"`
	XmlnsT  string     `xml:"xmlns:typ,attr"`
	Header  soapHeader `xml:"soapenv:Header"`
	Body    soapBody   `xml:"soapenv:Body"`
}

type soapHeader struct{}

type soapBody struct {
	Content *fileSdIAccoglienza
}

// fileSdIAccoglienza cuerpo de la operación SdIRiceviFile.
type fileSdIAccoglienza struct {
	XMLName  xml.Name `xml:"typ:fileSdIAccoglienza"`
	NomeFile string   `xml:"NomeFile"`
	File     string   `xml:"File"` // contenido en Base64
}

// ── Estructuras de respuesta SOAP ─────────────────────────────────────────────

type soapResponseEnvelope struct {
	Body soapResponseBody `xml:"Body"`
}

type soapResponseBody struct {
	Risposta *rispostaSdIRiceviFile `xml:"rispostaSdIRiceviFile"`
	Fault    *soapFault             `xml:"Fault"`
}

type rispostaSdIRiceviFile struct {
	IdentificativoSdI string `xml:"IdentificativoSdI"`
	DataOraRicezione  string `xml:"DataOraRicezione"`
	Errore            string `xml:"Errore"`
}

type soapFault struct {
	FaultCode   string `xml:"faultcode"`
	FaultString string `xml:"faultstring"`
}

// ── SubmitFile ────────────────────────────────────────────────────────────────

// SubmitFile envía el archivo al SdI con la operación SdIRiceviFile.
func (c *SOAPSDIClient) SubmitFile(ctx context.Context, file []byte, filename, env string) (*SubmitResult, error) {
	url, ok := c.endpoints[env]
	if !ok {
		return nil, fmt.Errorf("soap: entorno desconocido %q (usar 'test' o 'prod')", env)
	}

	envelope := soapEnvelope{
		XmlnsS: soapNS,
		XmlnsT: sdiTypesNS,
		Body: soapBody{Content: &fileSdIAccoglienza{
			NomeFile: filename,
			File:     base64.StdEncoding.EncodeToString(file),
		}},
	}
	payload, err := xml.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("soap: serializar envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("soap: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", soapActionRicevi)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("soap: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("soap: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("soap: leer respuesta: %w", err)
	}
	return parseResponse(rawBody), nil
}

// parseResponse desempaqueta la respuesta. Respuestas ilegibles o Fault se reportan como rechazo.
func parseResponse(rawBody []byte) *SubmitResult {
	var envResp soapResponseEnvelope
	if err := xml.Unmarshal(rawBody, &envResp); err != nil {
		return &SubmitResult{
			Errors: fmt.Sprintf("no se pudo parsear respuesta SOAP: %s", string(rawBody)),
		}
	}
	if f := envResp.Body.Fault; f != nil {
		return &SubmitResult{
			Errors: fmt.Sprintf("SOAP Fault [%s]: %s", f.FaultCode, f.FaultString),
		}
	}
	r := envResp.Body.Risposta
	if r == nil {
		return &SubmitResult{Errors: "respuesta SOAP vacía o inesperada: " + string(rawBody)}
	}

	res := &SubmitResult{
		IdentificativoSdI: strings.TrimSpace(r.IdentificativoSdI),
		DataOraRicezione:  strings.TrimSpace(r.DataOraRicezione),
	}
	if code := strings.TrimSpace(r.Errore); code != "" {
		res.Errors = code
		if msg, ok := sdiErrorMessages[code]; ok {
			res.Errors = code + ": " + msg
		}
		return res
	}
	res.Accepted = res.IdentificativoSdI != ""
	if !res.Accepted {
		res.Errors = "respuesta sin IdentificativoSdI"
	}
	return res
}

var _ SDISubmitter = (*SOAPSDIClient)(nil)
