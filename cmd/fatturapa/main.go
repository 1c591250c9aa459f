// Comando fatturapa: genera el XML FatturaPA FPR12 a partir de un JSON con los mismos datos
// que recibe POST /api/fatturapa/generate.
//
//	fatturapa <params.json> [out.xml|directorio]
//
// Sin destino escribe el XML en stdout. Si el destino es un directorio, el archivo
// se nombra según la convención del SdI (IT01234567890_26001.xml).
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/fatturapa-api/internal/application/billing"
	"github.com/jhoicas/fatturapa-api/internal/application/dto"
	domfatturapa "github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
	infrafatturapa "github.com/jhoicas/fatturapa-api/internal/infrastructure/fatturapa"
	"github.com/jhoicas/fatturapa-api/pkg/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	log := logger.New(logger.Config{Env: "development", Level: "info", Output: stderr})

	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(stderr, "uso: fatturapa <params.json> [out.xml|directorio]")
		return 2
	}

	req, err := readParams(args[0])
	if err != nil {
		log.Error().Err(err).Str("file", args[0]).Msg("leer parámetros")
		return 1
	}
	p, err := billing.ParamsFromRequest(req)
	if err != nil {
		log.Error().Err(err).Msg("importes inválidos")
		return 1
	}
	if errs := domfatturapa.Validate(p); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(stderr, "%s: %s\n", e.Field, e.Message)
		}
		return 1
	}

	xml := infrafatturapa.NewXMLBuilderService(nil).Build(p)
	if len(args) == 1 {
		if _, err := io.WriteString(stdout, xml); err != nil {
			log.Error().Err(err).Msg("escribir XML")
			return 1
		}
		return 0
	}

	out := args[1]
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		out = filepath.Join(out, infrafatturapa.SDIFilename(p.Company, p.Invoice.Number))
	}
	if err := os.WriteFile(out, []byte(xml), 0o644); err != nil {
		log.Error().Err(err).Str("file", out).Msg("escribir XML")
		return 1
	}
	log.Info().Str("file", out).Int("bytes", len(xml)).Msg("FatturaPA generada")
	return 0
}

// readParams lee el JSON de entrada. Los archivos que no son UTF-8 se interpretan como ISO-8859-1.
func readParams(path string) (dto.FatturaPARequest, error) {
	var req dto.FatturaPARequest
	data, err := os.ReadFile(path)
	if err != nil {
		return req, err
	}
	if !utf8.Valid(data) {
		if data, err = charmap.ISO8859_1.NewDecoder().Bytes(data); err != nil {
			return req, fmt.Errorf("decodificar ISO-8859-1: %w", err)
		}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("JSON inválido: %w", err)
	}
	return req, nil
}
