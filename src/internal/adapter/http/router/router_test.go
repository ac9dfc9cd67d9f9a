package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/smartbank-demo/src/internal/adapter/http/controller"
	"github.com/api-sage/smartbank-demo/src/internal/adapter/http/middleware"
	"github.com/api-sage/smartbank-demo/src/internal/adapter/http/router"
	"github.com/api-sage/smartbank-demo/src/internal/adapter/repository/memory"
	"github.com/api-sage/smartbank-demo/src/internal/domain"
	"github.com/api-sage/smartbank-demo/src/internal/security"
	"github.com/api-sage/smartbank-demo/src/internal/usecase/services"
)

const (
	channelID  = "SmartBankApp"
	channelKey = "SmartBankKey001"
)

func newMux(t *testing.T) *http.ServeMux {
	t.Helper()

	users := memory.NewUserRepository()
	transactions := memory.NewTransactionRepository()

	hash, err := security.HashPin("123456")
	require.NoError(t, err)
	for i, name := range []string{"Nguyen Van A", "Tran Thi B"} {
		_, err := users.Create(context.Background(), domain.User{
			LedgerID:     []string{"User1@smartbanka.com", "User2@smartbanka.com"}[i],
			LegacyUserID: []string{"user001", "user002"}[i],
			Name:         name,
			Email:        strings.ToLower(strings.ReplaceAll(name, " ", "")) + "@smartbanka.com",
			PinHash:      hash,
			Accounts: []domain.Account{{
				AccountNumber: []string{"100000000001", "100000000002"}[i],
				Balance:       decimal.RequireFromString("50000000"),
				Currency:      domain.DefaultCurrency,
				Type:          "Savings",
			}},
		})
		require.NoError(t, err)
	}

	return router.New(
		controller.NewUserController(services.NewUserService(users, "SmartBank A")),
		controller.NewTransactionController(services.NewTransactionService(users, transactions)),
		controller.NewTransferController(services.NewTransferService(users, transactions, nil)),
		middleware.BasicAuth(channelID, channelKey),
	)
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path string, body string, authorized bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authorized {
		req.SetBasicAuth(channelID, channelKey)
	}

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestHealthRouteNeedsNoCredentials(t *testing.T) {
	mux := newMux(t)

	rr := doRequest(t, mux, http.MethodGet, "/api/health", "", false)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAPIRoutesRequireCredentials(t *testing.T) {
	mux := newMux(t)

	rr := doRequest(t, mux, http.MethodGet, "/api/users", "", false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListUsersEndpoint(t *testing.T) {
	mux := newMux(t)

	rr := doRequest(t, mux, http.MethodGet, "/api/users", "", true)
	require.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		Success bool `json:"success"`
		Data    []struct {
			UserID        string `json:"userId"`
			MaskedAccount string `json:"maskedAccount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.True(t, payload.Success)
	require.Len(t, payload.Data, 2)
	assert.Equal(t, "user001", payload.Data[0].UserID)
	assert.Equal(t, "•••• •••• 0001", payload.Data[0].MaskedAccount)
}

func TestGetUserEndpointUnknownUserIs404(t *testing.T) {
	mux := newMux(t)

	rr := doRequest(t, mux, http.MethodGet, "/api/users/user999", "", true)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAddAccountEndpoint(t *testing.T) {
	mux := newMux(t)

	rr := doRequest(t, mux, http.MethodPost, "/api/users/user001/accounts",
		`{"accountNumber":"100000000011","balance":3000000,"type":"Current"}`, true)
	require.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())

	rr = doRequest(t, mux, http.MethodGet, "/api/users/user001", "", true)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"100000000011"`)

	rr = doRequest(t, mux, http.MethodPost, "/api/users/user999/accounts",
		`{"accountNumber":"100000000012","balance":0,"type":"Savings"}`, true)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTransferEndpointStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{
			name: "success",
			body: `{"fromUserId":"user001","fromAccountId":"100000000001","toAccountId":"100000000002","amount":5000000,"pin":"123456"}`,
			want: http.StatusOK,
		},
		{
			name: "wrong pin",
			body: `{"fromUserId":"user001","fromAccountId":"100000000001","toAccountId":"100000000002","amount":5000000,"pin":"654321"}`,
			want: http.StatusUnauthorized,
		},
		{
			name: "insufficient balance",
			body: `{"fromUserId":"user001","fromAccountId":"100000000001","toAccountId":"100000000002","amount":50000001,"pin":"123456"}`,
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "malformed recipient",
			body: `{"fromUserId":"user001","fromAccountId":"100000000001","toAccountId":"12345","amount":5000000,"pin":"123456"}`,
			want: http.StatusNotFound,
		},
		{
			name: "self transfer",
			body: `{"fromUserId":"user001","fromAccountId":"100000000001","toAccountId":"100000000001","amount":5000000,"pin":"123456"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "missing fields",
			body: `{}`,
			want: http.StatusBadRequest,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mux := newMux(t)
			rr := doRequest(t, mux, http.MethodPost, "/api/transactions/transfer", c.body, true)
			assert.Equal(t, c.want, rr.Code, "body: %s", rr.Body.String())
		})
	}
}

func TestConfirmEndpointCompletesTransfer(t *testing.T) {
	mux := newMux(t)

	rr := doRequest(t, mux, http.MethodPost, "/api/transactions/transfer",
		`{"fromUserId":"user001","fromAccountId":"100000000001","toAccountId":"100000000002","amount":5000000,"pin":"123456"}`, true)
	require.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		Data struct {
			Transaction struct {
				ID string `json:"id"`
			} `json:"transaction"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))

	rr = doRequest(t, mux, http.MethodPost, "/api/transactions/"+payload.Data.Transaction.ID+"/confirm",
		`{"ledgerTxId":"CORE-0001"}`, true)
	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())

	rr = doRequest(t, mux, http.MethodGet, "/api/transactions?userId=user001", "", true)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"completed"`)
}

func TestTransactionsEndpointRequiresIdentifier(t *testing.T) {
	mux := newMux(t)

	rr := doRequest(t, mux, http.MethodGet, "/api/transactions", "", true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
