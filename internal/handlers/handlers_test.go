package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"smartbin-backend/internal/aggregator"
	"smartbin-backend/internal/alerts"
	"smartbin-backend/internal/config"
	"smartbin-backend/internal/generator"
	"smartbin-backend/internal/mailer"
	"smartbin-backend/internal/models"
	"smartbin-backend/internal/store"
)

type fixedRand struct{ v float64 }

func (f fixedRand) Float64() float64 { return f.v }

func newTestRouter(t *testing.T, st store.Store) http.Handler {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	entry := logrus.NewEntry(log)

	gen := generator.NewWith(fixedRand{0.5}, time.Now)
	disp := alerts.NewDispatcher(mailer.Disabled{}, nil, "", "", 10, 0, entry)
	svc := aggregator.New(st, gen, alerts.NewLatch(), disp, nil, nil, entry)

	r := chi.NewRouter()
	r.Get("/health", Health(time.Now()))
	r.Get("/bins", GetBins(svc, entry))
	r.Post("/bins", CreateBin(st, entry))
	r.Get("/bins/{id}", GetBin(svc, entry))
	r.Put("/bins/{id}", UpdateBin(st, entry))
	r.Delete("/bins/{id}", DeleteBin(st, entry))
	r.Get("/bins/{id}/history", GetBinHistory(svc, entry))
	r.Get("/stats", GetStats(svc, entry))
	r.Get("/operators", GetOperators(st, entry))
	r.Post("/operators", CreateOperator(st, entry))
	r.Get("/operators/{id}", GetOperator(st, entry))
	r.Put("/operators/{id}", UpdateOperator(st, entry))
	r.Delete("/operators/{id}", DeleteOperator(st, entry))
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, store.NewDemoStore())

	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "OK" {
		t.Errorf("status field = %v, want OK", body["status"])
	}
}

func TestGetBinsDemoMode(t *testing.T) {
	h := newTestRouter(t, store.NewDemoStore())

	rec := doJSON(t, h, http.MethodGet, "/bins", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var bins map[string]models.BinView
	if err := json.Unmarshal(rec.Body.Bytes(), &bins); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(bins) != 2 {
		t.Fatalf("got %d bins, want the 2 demo bins", len(bins))
	}
	if _, ok := bins["bin1"]; ok {
		t.Error("demo mode must not include the sensor bin")
	}
	for id, bin := range bins {
		if bin.LastFetched.IsZero() {
			t.Errorf("bin %s missing lastFetched", id)
		}
		if bin.Status != models.StatusFromFill(bin.FillPct) {
			t.Errorf("bin %s status %s inconsistent with fill %v", id, bin.Status, bin.FillPct)
		}
	}
}

func TestBinCRUDRoundTrip(t *testing.T) {
	h := newTestRouter(t, store.NewDemoStore())

	rec := doJSON(t, h, http.MethodPost, "/bins", models.CreateBinRequest{
		ID: "binX", Name: "Test Bin", Location: "Harbor Road", OperatorID: "op1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/bins/binX", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var bin models.BinView
	if err := json.Unmarshal(rec.Body.Bytes(), &bin); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bin.Name != "Test Bin" || bin.Location != "Harbor Road" {
		t.Errorf("config fields not preserved: %+v", bin)
	}
	if bin.Status != models.StatusFromFill(bin.FillPct) {
		t.Errorf("generated status %s inconsistent with fill %v", bin.Status, bin.FillPct)
	}

	rec = doJSON(t, h, http.MethodDelete, "/bins/binX", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/bins/binX", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", rec.Code)
	}
}

func TestCreateBinRequiresID(t *testing.T) {
	h := newTestRouter(t, store.NewDemoStore())

	rec := doJSON(t, h, http.MethodPost, "/bins", models.CreateBinRequest{Name: "No ID"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateBinMergesFields(t *testing.T) {
	h := newTestRouter(t, store.NewDemoStore())

	rec := doJSON(t, h, http.MethodPut, "/bins/bin2", models.UpdateBinRequest{Location: "New Location"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/bins/bin2", nil)
	var bin models.BinView
	if err := json.Unmarshal(rec.Body.Bytes(), &bin); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bin.Location != "New Location" {
		t.Errorf("location = %s, want updated value", bin.Location)
	}
	if bin.Name != "Main Street Bin" {
		t.Errorf("name = %s, unset fields must keep existing values", bin.Name)
	}
}

func TestBinHistory(t *testing.T) {
	h := newTestRouter(t, store.NewDemoStore())

	rec := doJSON(t, h, http.MethodGet, "/bins/bin2/history", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var history []models.HistoryEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("got %d entries, want 2", len(history))
	}

	rec = doJSON(t, h, http.MethodGet, "/bins/nope/history", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown bin history = %d, want 404", rec.Code)
	}
}

func TestOperatorCRUD(t *testing.T) {
	h := newTestRouter(t, store.NewDemoStore())

	// Missing required fields.
	rec := doJSON(t, h, http.MethodPost, "/operators", models.CreateOperatorRequest{ID: "op9"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("create without name/email = %d, want 400", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/operators", models.CreateOperatorRequest{
		ID: "op9", Name: "Pat Doe", Email: "pat.doe@smartbins.com",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create = %d, want 200", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPut, "/operators/op9", models.UpdateOperatorRequest{Phone: "+1-555-0199"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d, want 200", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/operators/op9", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get = %d, want 200", rec.Code)
	}
	var op models.Operator
	if err := json.Unmarshal(rec.Body.Bytes(), &op); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if op.Phone != "+1-555-0199" || op.Name != "Pat Doe" {
		t.Errorf("operator after update = %+v", op)
	}

	rec = doJSON(t, h, http.MethodDelete, "/operators/op9", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete = %d, want 200", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/operators/op9", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", rec.Code)
	}
	rec = doJSON(t, h, http.MethodDelete, "/operators/op9", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("double delete = %d, want 404", rec.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	h := newTestRouter(t, store.NewDemoStore())

	rec := doJSON(t, h, http.MethodGet, "/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var stats models.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalBins != 2 {
		t.Errorf("totalBins = %d, want 2", stats.TotalBins)
	}
	if stats.NormalBins+stats.WarningBins+stats.FullBins != stats.TotalBins {
		t.Errorf("status breakdown does not sum to total: %+v", stats)
	}
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("12345678"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	var cfg config.Config
	cfg.Admin.Email = "admin@smartbins.com"
	cfg.Admin.PasswordHash = string(hash)
	cfg.Admin.JWTSecret = "test-secret"

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	r := chi.NewRouter()
	r.Post("/auth/login", Login(cfg, logrus.NewEntry(log)))

	rec := doJSON(t, r, http.MethodPost, "/auth/login", LoginRequest{
		Email: "admin@smartbins.com", Password: "12345678",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("valid login = %d, want 200", rec.Code)
	}
	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.OK || resp.Token == "" {
		t.Errorf("login response = %+v, want ok with token", resp)
	}

	rec = doJSON(t, r, http.MethodPost, "/auth/login", LoginRequest{
		Email: "admin@smartbins.com", Password: "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password = %d, want 401", rec.Code)
	}
}
