package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbstore/credit-service/internal/config"
	"github.com/bbstore/credit-service/internal/handler"
	"github.com/bbstore/credit-service/internal/models"
	"github.com/bbstore/credit-service/internal/service"
	"github.com/bbstore/credit-service/internal/storage/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{JWTSecret: "test-secret"}
	svc := service.NewService(memory.NewStore(), log, cfg)
	h := handler.NewHandler(svc, log)
	srv := httptest.NewServer(handler.NewRouter(h, cfg))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, token string, body interface{}) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest("POST", url, bytes.NewReader(buf))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// registerAndLogin creates a customer and returns its id and a JWT.
func registerAndLogin(t *testing.T, srv *httptest.Server, limit float64) (int64, string) {
	t.Helper()
	resp := postJSON(t, srv.URL+"/register", "", map[string]interface{}{
		"name":         "Ana Souza",
		"email":        "ana@gmail.com",
		"cpf":          "111.111.111-11",
		"password":     "s3cret",
		"income":       2500,
		"credit_limit": limit,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Customer
	decode(t, resp, &created)

	resp = postJSON(t, srv.URL+"/login", "", map[string]string{
		"identifier": "ana@gmail.com",
		"password":   "s3cret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token string `json:"token"`
	}
	decode(t, resp, &login)
	require.NotEmpty(t, login.Token)

	return created.ID, login.Token
}

func TestSimulateEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/simulate?amount=1000&months=1&tier=NORMAL")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sim models.Simulation
	decode(t, resp, &sim)
	assert.Equal(t, 1014.90, sim.MonthlyPayment)
	assert.Equal(t, 1014.90, sim.TotalPayback)
	assert.Equal(t, 1.49, sim.RatePercent)
}

func TestSimulateEndpointRejectsBadTier(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/simulate?amount=1000&months=12&tier=GOLD")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/customers")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoanFlow(t *testing.T) {
	srv := newTestServer(t)
	customerID, token := registerAndLogin(t, srv, 5000)

	// Create a loan.
	resp := postJSON(t, srv.URL+"/loans", token, map[string]interface{}{
		"customer_id":  customerID,
		"product_name": "Notebook",
		"amount":       1000,
		"months":       3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var loan models.Loan
	decode(t, resp, &loan)
	assert.Equal(t, models.LoanActive, loan.Status)
	require.Len(t, loan.Installments, 3)

	// Pay the first installment.
	url := fmt.Sprintf("%s/loans/%d/installments/1/pay", srv.URL, loan.ID)
	resp = postJSON(t, url, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var afterPay models.Loan
	decode(t, resp, &afterPay)
	assert.True(t, afterPay.Installments[0].Paid)
	assert.Equal(t, models.LoanActive, afterPay.Status)

	// Paying an unknown installment is a 404.
	resp = postJSON(t, fmt.Sprintf("%s/loans/%d/installments/9/pay", srv.URL, loan.ID), token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateLoanOverLimitReturns422(t *testing.T) {
	srv := newTestServer(t)
	customerID, token := registerAndLogin(t, srv, 1000)

	resp := postJSON(t, srv.URL+"/loans", token, map[string]interface{}{
		"customer_id":  customerID,
		"product_name": "TV",
		"amount":       1000,
		"months":       1,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	customerID, token := registerAndLogin(t, srv, 5000)

	resp := postJSON(t, srv.URL+"/loans", token, map[string]interface{}{
		"customer_id":  customerID,
		"product_name": "TV",
		"amount":       1000,
		"months":       10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	req, err := http.NewRequest("GET", srv.URL+"/metrics", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	mresp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, mresp.StatusCode)

	var m models.StoreMetrics
	decode(t, mresp, &m)
	assert.Equal(t, 1, m.TotalCustomers)
	assert.Equal(t, 1, m.ActiveLoans)
	assert.Equal(t, 1000.0, m.TotalFinanced)
	assert.Greater(t, m.ProjectedProfit, 0.0)
}
