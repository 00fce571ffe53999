package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/application/auth"
	"github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/usecase"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/namehistory"
	"github.com/jhoicas/facturacion-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/facturacion-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/facturacion-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/facturacion-api/pkg/jwt"
)

type apiClient struct {
	t     *testing.T
	app   *fiber.App
	token string
}

// newAPI arma el router completo sobre el almacén en memoria con una empresa sembrada.
func newAPI(t *testing.T, modules ...string) *apiClient {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Companies().Create(ctx, &entity.Company{ID: testCompanyID, Name: "Emisor", NIT: "900"}))

	resolver := namehistory.NewResolver(namehistory.DefaultRegistry(), store.Partners())
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CompanyUC: usecase.NewCompanyUseCase(store.Companies()),
		ProductUC: usecase.NewProductUseCase(store.Products()),
		ModuleSvc: usecase.NewModuleService(store.Companies()),
		PartnerUC: billing.NewPartnerUseCase(store, store.Partners()),
		InvoiceUC: billing.NewInvoiceUseCase(store, store.Partners(), store.Products(), store.Invoices(), resolver, "USD"),
		PDFUC: billing.NewPDFUseCase(
			store.Invoices(), store.Companies(), store.Partners(), store.Products(), resolver, infrapdf.NewMarotoPDFGenerator(),
		),
		AuthUC:    auth.NewAuthUseCase(store.Users(), store.Companies(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		JWTSecret: testJWTSecret,
		Logger:    zerolog.Nop(),
	})

	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)
	c := &apiClient{t: t, app: app, token: "Bearer " + tok}
	for _, m := range modules {
		resp := c.do(http.MethodPost, "/api/companies/"+testCompanyID+"/modules", dto.ActivateModuleRequest{ModuleName: m})
		require.Equal(t, http.StatusOK, resp.StatusCode, "activar %s", m)
		resp.Body.Close()
	}
	return c
}

func (c *apiClient) do(method, path string, body any) *http.Response {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	return resp
}

func (c *apiClient) decode(resp *http.Response, wantStatus int, out any) {
	c.t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	require.Equal(c.t, wantStatus, resp.StatusCode, string(raw))
	if out != nil {
		require.NoError(c.t, json.Unmarshal(raw, out))
	}
}

var allModules = []string{entity.ModuleBilling, entity.ModuleFixedDiscount, entity.ModulePartnerNameHistory}

func (c *apiClient) createPartner(name string) dto.PartnerResponse {
	var p dto.PartnerResponse
	c.decode(c.do(http.MethodPost, "/api/partners", dto.CreatePartnerRequest{Name: name, TaxID: "NIT-" + name}), http.StatusCreated, &p)
	return p
}

func invoiceBody(partnerID, date string) map[string]any {
	return map[string]any{
		"partner_id":   partnerID,
		"prefix":       "FV",
		"invoice_date": date,
		"currency":     "USD",
		"lines": []map[string]any{{
			"name":           "Consultoría",
			"quantity":       2,
			"price_unit":     30,
			"discount":       33.33,
			"discount_fixed": 10,
			"tax_rate":       19,
		}},
	}
}

func TestInvoiceAPI_DescuentoIncoherenteResponde422YNoModificaLaLinea(t *testing.T) {
	api := newAPI(t, allModules...)
	partner := api.createPartner("Alice")

	var inv dto.InvoiceResponse
	api.decode(api.do(http.MethodPost, "/api/invoices", invoiceBody(partner.ID, "2024-01-15")), http.StatusCreated, &inv)
	require.Len(t, inv.Lines, 1)
	assert.Equal(t, "40", inv.Lines[0].Subtotal.String())

	var errResp dto.ErrorResponse
	api.decode(api.do(http.MethodPatch, "/api/invoices/"+inv.ID+"/lines/"+inv.Lines[0].ID,
		map[string]any{"discount": 50}), http.StatusUnprocessableEntity, &errResp)
	assert.Equal(t, "DISCOUNT_MISMATCH", errResp.Code)
	assert.Contains(t, errResp.Message, "10")

	var got dto.InvoiceResponse
	api.decode(api.do(http.MethodGet, "/api/invoices/"+inv.ID, nil), http.StatusOK, &got)
	assert.Equal(t, "33.33", got.Lines[0].Discount.String())
	assert.True(t, inv.GrandTotal.Equal(got.GrandTotal))
}

func TestInvoiceAPI_CrearConDescuentosIncoherentes(t *testing.T) {
	api := newAPI(t, allModules...)
	partner := api.createPartner("Alice")
	body := invoiceBody(partner.ID, "")
	body["lines"].([]map[string]any)[0]["discount"] = 33.34

	var errResp dto.ErrorResponse
	api.decode(api.do(http.MethodPost, "/api/invoices", body), http.StatusUnprocessableEntity, &errResp)
	assert.Equal(t, "DISCOUNT_MISMATCH", errResp.Code)
}

func TestInvoiceAPI_NombreHistoricoConFlag(t *testing.T) {
	api := newAPI(t, allModules...)
	partner := api.createPartner("Alice")
	var inv dto.InvoiceResponse
	api.decode(api.do(http.MethodPost, "/api/invoices", invoiceBody(partner.ID, "2024-01-15")), http.StatusCreated, &inv)
	api.decode(api.do(http.MethodPost, "/api/partners/"+partner.ID+"/rename",
		dto.RenamePartnerRequest{Name: "Bob", EffectiveDate: "2024-06-01"}), http.StatusOK, nil)

	var plain, hist dto.InvoiceResponse
	api.decode(api.do(http.MethodGet, "/api/invoices/"+inv.ID, nil), http.StatusOK, &plain)
	api.decode(api.do(http.MethodGet, "/api/invoices/"+inv.ID+"?use_partner_name_history=true", nil), http.StatusOK, &hist)

	assert.Equal(t, "Bob", plain.PartnerName)
	assert.Equal(t, "Alice", hist.PartnerName)
	assert.Equal(t, "Alice", hist.Lines[0].PartnerName)
	assert.Equal(t, "2024-01-15", hist.Lines[0].NameHistoryInvoiceDate)

	var at dto.PartnerNameAtResponse
	api.decode(api.do(http.MethodGet, "/api/partners/"+partner.ID+"/name?date=2024-05-31", nil), http.StatusOK, &at)
	assert.Equal(t, "Alice", at.Name)

	var history []dto.PartnerNameChangeResponse
	api.decode(api.do(http.MethodGet, "/api/partners/"+partner.ID+"/name-history", nil), http.StatusOK, &history)
	require.Len(t, history, 1)
	assert.Equal(t, "Bob", history[0].NewName)
}

func TestInvoiceAPI_Onchange(t *testing.T) {
	api := newAPI(t, allModules...)

	var out dto.LineOnchangeResponse
	api.decode(api.do(http.MethodPost, "/api/invoice-lines/onchange", map[string]any{
		"display_type": "line_section", "quantity": 1, "price_unit": 30, "discount_fixed": 5,
	}), http.StatusOK, &out)
	assert.True(t, out.DiscountFixed.IsZero())
}

func TestInvoiceAPI_ValidacionDelCuerpo(t *testing.T) {
	api := newAPI(t, allModules...)

	var errResp dto.ErrorResponse
	api.decode(api.do(http.MethodPost, "/api/invoices", map[string]any{"prefix": "FV"}), http.StatusBadRequest, &errResp)
	assert.Equal(t, "VALIDATION", errResp.Code)
	fields := make([]string, 0, len(errResp.Details))
	for _, d := range errResp.Details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, "partner_id")
	assert.Contains(t, fields, "lines")
}

func TestInvoiceAPI_PDF(t *testing.T) {
	api := newAPI(t, allModules...)
	partner := api.createPartner("Alice")
	var inv dto.InvoiceResponse
	api.decode(api.do(http.MethodPost, "/api/invoices", invoiceBody(partner.ID, "2024-01-15")), http.StatusCreated, &inv)

	resp := api.do(http.MethodGet, "/api/invoices/"+inv.ID+"/pdf", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "factura_FV"+inv.Number+".pdf")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestRequireModule_ModuloInactivo(t *testing.T) {
	api := newAPI(t, entity.ModuleBilling)

	var errResp dto.ErrorResponse
	api.decode(api.do(http.MethodPost, "/api/invoice-lines/onchange", map[string]any{"quantity": 1}), http.StatusForbidden, &errResp)
	assert.Equal(t, "MODULE_DISABLED", errResp.Code)

	partner := api.createPartner("Alice")
	api.decode(api.do(http.MethodPost, "/api/partners/"+partner.ID+"/rename", dto.RenamePartnerRequest{Name: "Bob"}), http.StatusForbidden, &errResp)
	assert.Equal(t, "MODULE_DISABLED", errResp.Code)

	// billing sí está activo
	api.decode(api.do(http.MethodGet, "/api/invoices", nil), http.StatusOK, nil)
}

type failingChecker struct{}

func (failingChecker) HasActiveModule(context.Context, string, string) (bool, error) {
	return false, assert.AnError
}

func TestRequireModule_FalloDeInfraestructura(t *testing.T) {
	app := fiber.New()
	app.Get("/x",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireModule(entity.ModuleBilling, failingChecker{}, zerolog.Nop()),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	resp := doGet(t, app, "/x", tokenForRole(t, entity.RoleAdmin))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestActivateModule_SoloAdmin(t *testing.T) {
	api := newAPI(t)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, entity.RoleContador, testIssuer, testExpMin)
	require.NoError(t, err)
	api.token = "Bearer " + tok

	var errResp dto.ErrorResponse
	api.decode(api.do(http.MethodPost, "/api/companies/"+testCompanyID+"/modules",
		dto.ActivateModuleRequest{ModuleName: entity.ModuleBilling}), http.StatusForbidden, &errResp)
	assert.Equal(t, "FORBIDDEN", errResp.Code)
}

func TestRequestLogger_PropagaRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(apphttp.RequestLogger(zerolog.Nop()))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(apphttp.HeaderRequestID, "req-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get(apphttp.HeaderRequestID))

	resp2, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.NotEmpty(t, resp2.Header.Get(apphttp.HeaderRequestID))
}

func doGet(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", authHeader)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
