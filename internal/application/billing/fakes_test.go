package billing_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"math/big"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fatturapa-api/internal/application/dto"
	"github.com/jhoicas/fatturapa-api/internal/domain"
	"github.com/jhoicas/fatturapa-api/internal/domain/entity"
	domfatturapa "github.com/jhoicas/fatturapa-api/internal/domain/fatturapa"
	"github.com/jhoicas/fatturapa-api/internal/domain/repository"
	infrafatturapa "github.com/jhoicas/fatturapa-api/internal/infrastructure/fatturapa"
)

var testNow = domfatturapa.FixedClock(time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC))

// ── repos en memoria ──────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	companies map[string]entity.Company
	clients   map[string]entity.Client
	invoices  map[string]entity.Invoice
	lines     map[string][]entity.InvoiceLine
	updates   int
}

func newMemStore() *memStore {
	return &memStore{
		companies: map[string]entity.Company{},
		clients:   map[string]entity.Client{},
		invoices:  map[string]entity.Invoice{},
		lines:     map[string][]entity.InvoiceLine{},
	}
}

type memCompanyRepo struct{ s *memStore }

func (r memCompanyRepo) Create(c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.companies[c.ID] = *c
	return nil
}

func (r memCompanyRepo) GetByID(id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r memCompanyRepo) GetByPartitaIva(piva string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.PartitaIva == piva {
			return &c, nil
		}
	}
	return nil, nil
}

func (r memCompanyRepo) Update(c *entity.Company) error { return r.Create(c) }

type memClientRepo struct{ s *memStore }

func (r memClientRepo) Create(c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.clients[c.ID] = *c
	return nil
}

func (r memClientRepo) GetByID(id string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r memClientRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Client
	for _, c := range r.s.clients {
		if c.CompanyID == companyID {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompanyName < out[j].CompanyName })
	if offset >= len(out) {
		return []*entity.Client{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memInvoiceRepo struct{ s *memStore }

func (r memInvoiceRepo) Create(inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.invoices {
		if other.CompanyID == inv.CompanyID && other.Number == inv.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r memInvoiceRepo) CreateLine(l *entity.InvoiceLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lines[l.InvoiceID] = append(r.s.lines[l.InvoiceID], *l)
	return nil
}

func (r memInvoiceRepo) Update(inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.invoices[inv.ID] = *inv
	r.s.updates++
	return nil
}

func (r memInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r memInvoiceRepo) GetLinesByInvoiceID(id string) ([]*entity.InvoiceLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.InvoiceLine, 0, len(r.s.lines[id]))
	for _, l := range r.s.lines[id] {
		l := l
		out = append(out, &l)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r memInvoiceRepo) GetSDIStatus(id string) (*entity.Invoice, error) { return r.GetByID(id) }

var (
	_ repository.CompanyRepository = memCompanyRepo{}
	_ repository.ClientRepository  = memClientRepo{}
	_ repository.InvoiceRepository = memInvoiceRepo{}
)

// fakeTx ejecuta fn sobre los mismos repos; si fn falla descarta lo escrito.
type fakeTx struct{ s *memStore }

func (f fakeTx) RunBilling(_ context.Context, fn func(repository.ClientRepository, repository.InvoiceRepository) error) error {
	f.s.mu.Lock()
	invoices := make(map[string]entity.Invoice, len(f.s.invoices))
	for k, v := range f.s.invoices {
		invoices[k] = v
	}
	lines := make(map[string][]entity.InvoiceLine, len(f.s.lines))
	for k, v := range f.s.lines {
		lines[k] = append([]entity.InvoiceLine(nil), v...)
	}
	f.s.mu.Unlock()

	if err := fn(memClientRepo{f.s}, memInvoiceRepo{f.s}); err != nil {
		f.s.mu.Lock()
		f.s.invoices, f.s.lines = invoices, lines
		f.s.mu.Unlock()
		return err
	}
	return nil
}

// ── SdI y firma ───────────────────────────────────────────────────────────────

type fakeSubmitter struct {
	mu       sync.Mutex
	result   *infrafatturapa.SubmitResult
	err      error
	calls    int
	filename string
	env      string
	file     []byte
}

func (f *fakeSubmitter) SubmitFile(_ context.Context, file []byte, filename, env string) (*infrafatturapa.SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.file, f.filename, f.env = file, filename, env
	return f.result, f.err
}

var errSubmit = errors.New("connection refused")

// selfSignedCert genera un certificado RSA autofirmado para pruebas.
func selfSignedCert(t *testing.T) tls.Certificate {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(42),
		Subject:      pkix.Name{CommonName: "Rossi Forniture S.r.l."},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
}

// ── datos de ejemplo ──────────────────────────────────────────────────────────

const (
	companyID = "co-1"
	clientID  = "cl-1"
	invoiceID = "inv-1"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seed carga empresa, cliente y una factura DRAFT válida con dos líneas.
func seed() *memStore {
	s := newMemStore()
	s.companies[companyID] = entity.Company{
		ID: companyID, RagioneSociale: "Rossi Forniture S.r.l.", PartitaIva: "01234567890",
		Indirizzo: "Via Roma 1", CAP: "00100", Citta: "Roma", Provincia: "RM", Nazione: "IT",
		RegimeFiscale: "RF01", IBAN: "IT60X0542811101000000123456",
	}
	s.clients[clientID] = entity.Client{
		ID: clientID, CompanyID: companyID, CompanyName: "Bianchi S.p.A.",
		VatNumber: "09876543210", SDI: "ABC1234", Nazione: "IT",
	}
	s.invoices[invoiceID] = entity.Invoice{
		ID: invoiceID, CompanyID: companyID, ClientID: clientID, Number: "FT-2026/001",
		IssuedDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Subtotal:   d("1000"), TaxRate: d("22"), TaxAmount: d("220"), Total: d("1220"), Discount: decimal.Zero,
		SDIStatus: entity.SDIStatusDraft,
	}
	s.lines[invoiceID] = []entity.InvoiceLine{
		{ID: "l2", InvoiceID: invoiceID, Description: "Assistenza", Quantity: d("1"), UnitPrice: d("200"), Total: d("200"), SortOrder: 2},
		{ID: "l1", InvoiceID: invoiceID, Description: "Sviluppo", Quantity: d("10"), UnitPrice: d("80"), Total: d("800"), SortOrder: 1},
	}
	return s
}

func (s *memStore) invoice(t *testing.T, id string) entity.Invoice {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	require.True(t, ok, "factura %s no existe", id)
	return inv
}

func validRequest() dto.FatturaPARequest {
	return dto.FatturaPARequest{
		Company: domfatturapa.CompanyInfo{RagioneSociale: "Rossi Forniture S.r.l.", PartitaIva: "01234567890", Nazione: "IT"},
		Client:  domfatturapa.ClientInfo{CompanyName: "Bianchi S.p.A.", VatNumber: "09876543210"},
		Invoice: dto.InvoiceHeaderRequest{
			Number:     "FT-2026/001",
			IssuedDate: "2026-03-10",
			Subtotal:   "1000.00",
			TaxRate:    22,
			TaxAmount:  220.0,
			Total:      "1220",
		},
		LineItems: []dto.LineItemRequest{
			{Description: "Sviluppo", Quantity: "10", UnitPrice: 80, Total: 800, SortOrder: 1},
			{Description: "Assistenza", Quantity: 1, UnitPrice: "200", Total: "200", SortOrder: 2},
		},
	}
}
