package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/finance-planner/pkg/constants"
	"go.uber.org/zap"
)

func newTestHandler() http.Handler {
	return NewHandler(zap.NewNop(), 0, "1.2.3")
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

const flatProjection = `{
	"currentSavings": 1000,
	"currentAge": 40,
	"years": 2,
	"annualRaisePct": 0,
	"marketReturnPct": 0,
	"inflationPct": 0,
	"incomes": [{"name": "Salary", "amount": 1000}],
	"expenses": [{"id": "savings", "name": "Savings", "percentage": 100}]
}`

func TestHandleCalculate(t *testing.T) {
	rec := doRequest(t, newTestHandler(), http.MethodPost, "/api/scenarios/calculate", flatProjection)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if rec.Header().Get(constants.RequestIDHeader) == "" {
		t.Error("expected a generated request id")
	}

	var response struct {
		Data []struct {
			Year     int     `json:"year"`
			Age      int     `json:"age"`
			NetWorth float64 `json:"netWorth"`
		} `json:"data"`
		Milestones    []interface{} `json:"milestones"`
		FinalNetWorth float64       `json:"finalNetWorth"`
	}
	decodeBody(t, rec, &response)

	if len(response.Data) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(response.Data))
	}
	if response.Data[2].Age != 42 || response.Data[2].NetWorth != 25000 {
		t.Errorf("unexpected final row %+v", response.Data[2])
	}
	if response.FinalNetWorth != 25000 {
		t.Errorf("expected final net worth 25000, got %v", response.FinalNetWorth)
	}
	if response.Milestones == nil {
		t.Error("expected milestones to be an array, got null")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(constants.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rec, req)

	if got := rec.Header().Get(constants.RequestIDHeader); got != "abc-123" {
		t.Errorf("expected request id to be echoed, got %q", got)
	}
}

func TestRequestIDsAreUnique(t *testing.T) {
	h := newTestHandler()
	first := doRequest(t, h, http.MethodGet, "/healthz", "").Header().Get(constants.RequestIDHeader)
	second := doRequest(t, h, http.MethodGet, "/healthz", "").Header().Get(constants.RequestIDHeader)
	if first == "" || first == second {
		t.Errorf("expected distinct request ids, got %q and %q", first, second)
	}
}

func TestHandleCalculateErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		substr string
	}{
		{
			name:   "invalid years",
			body:   `{"years": 0, "incomes": [], "expenses": []}`,
			status: http.StatusBadRequest,
			substr: "years",
		},
		{
			name:   "rate at floor",
			body:   `{"years": 5, "marketReturnPct": -100}`,
			status: http.StatusBadRequest,
			substr: "marketReturnPct",
		},
		{
			name:   "malformed json",
			body:   `{"years": `,
			status: http.StatusBadRequest,
			substr: "invalid request body",
		},
		{
			name:   "wrong type",
			body:   `{"years": "ten"}`,
			status: http.StatusBadRequest,
			substr: "invalid request body",
		},
	}

	h := newTestHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/api/scenarios/calculate", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			var payload map[string]string
			decodeBody(t, rec, &payload)
			if !strings.Contains(payload["error"], tt.substr) {
				t.Errorf("expected error containing %q, got %q", tt.substr, payload["error"])
			}
		})
	}
}

func TestRequestBodyTooLarge(t *testing.T) {
	h := NewHandler(zap.NewNop(), 64, "")
	rec := doRequest(t, h, http.MethodPost, "/api/scenarios/calculate", flatProjection)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "exceeds limit of 64 bytes") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := doRequest(t, newTestHandler(), http.MethodGet, "/api/scenarios/calculate", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if rec.Header().Get(constants.RequestIDHeader) == "" {
		t.Error("expected a request id on 405 responses")
	}
}

func TestNotFound(t *testing.T) {
	rec := doRequest(t, newTestHandler(), http.MethodGet, "/api/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleReverse(t *testing.T) {
	body := `{"currentSavings": 0, "targetNetWorth": 24000, "years": 2, "annualRaisePct": 0, "marketReturnPct": 0}`
	rec := doRequest(t, newTestHandler(), http.MethodPost, "/api/scenarios/reverse", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var response struct {
		RequiredMonthlyContribution *float64 `json:"requiredMonthlyContribution"`
		IsPossible                  bool     `json:"isPossible"`
		Message                     string   `json:"message"`
	}
	decodeBody(t, rec, &response)

	if response.RequiredMonthlyContribution == nil || *response.RequiredMonthlyContribution != 1000 {
		t.Fatalf("expected contribution of 1000, got %v", response.RequiredMonthlyContribution)
	}
	if !response.IsPossible || response.Message == "" {
		t.Errorf("unexpected response %+v", response)
	}
}

func TestHandleFire(t *testing.T) {
	body := `{"currentNetWorth": 0, "annualSpend": 40000, "safeWithdrawalRatePct": 4, "returnRatePct": 7, "inflationPct": 2.5}`
	rec := doRequest(t, newTestHandler(), http.MethodPost, "/api/scenarios/fire", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var response map[string]interface{}
	decodeBody(t, rec, &response)

	if response["fireNumber"] != 1000000.0 {
		t.Errorf("expected fire number 1000000, got %v", response["fireNumber"])
	}
	if response["yearsToFire"] != nil || response["currentSwr"] != nil {
		t.Errorf("expected null yearsToFire and currentSwr for zero net worth, got %v", response)
	}

	rec = doRequest(t, newTestHandler(), http.MethodPost, "/api/scenarios/fire",
		`{"currentNetWorth": 1, "annualSpend": 40000, "safeWithdrawalRatePct": 0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero withdrawal rate, got %d", rec.Code)
	}
}

func TestHandleForecastInsufficientData(t *testing.T) {
	body := `{"samples": [{"date": "2024-01-31", "netWorth": 1000}, {"date": "2024-02-29", "netWorth": 1100}], "years": 5, "currentAge": 30}`
	rec := doRequest(t, newTestHandler(), http.MethodPost, "/api/scenarios/forecast", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var response struct {
		InsufficientData bool          `json:"insufficientData"`
		ForecastData     []interface{} `json:"forecastData"`
		Message          string        `json:"message"`
	}
	decodeBody(t, rec, &response)

	if !response.InsufficientData || len(response.ForecastData) != 0 || response.Message == "" {
		t.Errorf("unexpected response %+v", response)
	}
}

func TestHandleForecastUnorderedSamples(t *testing.T) {
	body := `{"samples": [{"date": "2024-03-31", "netWorth": 1}, {"date": "2024-02-29", "netWorth": 2}, {"date": "2024-01-31", "netWorth": 3}], "years": 5}`
	rec := doRequest(t, newTestHandler(), http.MethodPost, "/api/scenarios/forecast", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleCoach(t *testing.T) {
	body := `{
		"currentSavings": 5000,
		"years": 10,
		"incomes": [{"name": "Salary", "amount": 4000}],
		"expenses": [{"id": "housing", "name": "Housing", "percentage": 30}, {"id": "savings", "percentage": 60}],
		"currency": "$"
	}`
	rec := doRequest(t, newTestHandler(), http.MethodPost, "/api/coach/analyze", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var nudges []struct {
		Title string `json:"title"`
		Icon  string `json:"icon"`
	}
	decodeBody(t, rec, &nudges)

	if len(nudges) != 2 || nudges[0].Title != "The Power of $50" || nudges[1].Title != "Super Saver" {
		t.Errorf("unexpected nudges %+v", nudges)
	}
}

func TestHandleCoachNoIncome(t *testing.T) {
	rec := doRequest(t, newTestHandler(), http.MethodPost, "/api/coach/analyze", `{"years": 10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestHandleVersionAndHealth(t *testing.T) {
	h := newTestHandler()

	rec := doRequest(t, h, http.MethodGet, "/api/version", "")
	var version map[string]string
	decodeBody(t, rec, &version)
	if version["version"] != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %v", version)
	}

	rec = doRequest(t, NewHandler(nil, 0, "  "), http.MethodGet, "/api/version", "")
	decodeBody(t, rec, &version)
	if version["version"] != "dev" {
		t.Errorf("expected dev version fallback, got %v", version)
	}

	rec = doRequest(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	cfg.Address = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, cfg, newTestHandler(), zap.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
}
