package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fincontrol/internal/adapter/http/dto"
)

func runCLI(t *testing.T, server *httptest.Server, args ...string) (string, error) {
	t.Helper()
	t.Setenv(tokenEnv, "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--url", server.URL}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "lon...", truncate("longerstring", 6))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}))

	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestHealthCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ready", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}))
	defer server.Close()

	out, err := runCLI(t, server, "health")

	require.NoError(t, err)
	assert.Equal(t, "Status: ready\n", out)
}

func TestHealthCmdReportsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"redis unhealthy","message":"connection refused"}`))
	}))
	defer server.Close()

	_, err := runCLI(t, server, "health")

	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, "redis unhealthy", apiErr.Code)
}

func TestLoginCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)

		var req dto.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ana@example.com", req.Email)
		assert.Equal(t, "secret123", req.Password)

		_ = json.NewEncoder(w).Encode(dto.AuthResponse{Token: "jwt-token", TokenType: "Bearer"})
	}))
	defer server.Close()

	out, err := runCLI(t, server, "login", "--email", "ana@example.com", "--password", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "jwt-token\n", out)
}

func TestDashboardRequiresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without a token")
	}))
	defer server.Close()

	_, err := runCLI(t, server, "dashboard", "balance")

	require.Error(t, err)
	assert.Contains(t, err.Error(), tokenEnv)
}

func TestDashboardBalanceCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/dashboard/balance", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{
			"total_balance": "1500.5",
			"balance_by_kind": {"savings": "1000", "checking": "500.5"},
			"accounts": [
				{"id": "a1", "name": "Main", "kind": "checking", "balance": "500.5", "is_primary": true},
				{"id": "a2", "name": "Reserve", "kind": "savings", "balance": "1000", "is_primary": false}
			]
		}`))
	}))
	defer server.Close()

	out, err := runCLI(t, server, "--token", "tok", "dashboard", "balance")

	require.NoError(t, err)
	assert.Contains(t, out, "1500.50")
	assert.Contains(t, out, "Main *")
	assert.Less(t, bytes.Index([]byte(out), []byte("checking")), bytes.Index([]byte(out), []byte("savings")))
}

func TestDashboardSummaryCmd(t *testing.T) {
	t.Run("passes the period", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2025-03-01", r.URL.Query().Get("start_date"))
			assert.Equal(t, "2025-03-31", r.URL.Query().Get("end_date"))
			_, _ = w.Write([]byte(`{
				"start_date": "2025-03-01T00:00:00Z",
				"end_date": "2025-03-31T23:59:59Z",
				"total_income": "3000",
				"total_expenses": "430",
				"net_balance": "2570",
				"income_transactions": 1,
				"expense_transactions": 3
			}`))
		}))
		defer server.Close()

		out, err := runCLI(t, server, "--token", "tok", "dashboard", "summary", "--start", "2025-03-01", "--end", "2025-03-31")

		require.NoError(t, err)
		assert.Contains(t, out, "2025-03-01 .. 2025-03-31")
		assert.Contains(t, out, "2570.00")
		assert.Contains(t, out, "(3)")
	})

	t.Run("half a period is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		_, err := runCLI(t, server, "--token", "tok", "dashboard", "summary", "--start", "2025-03-01")

		require.Error(t, err)
	})
}

func TestDashboardIndicatorsCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"health_score": 85,
			"indicators": [{"name": "Savings rate", "value": "42.5", "unit": "%", "status": "good"}],
			"alerts": [{"severity": "medium", "title": "Low balance", "message": "Wallet is below 100"}],
			"suggestions": [{"title": "Review subscriptions"}]
		}`))
	}))
	defer server.Close()

	out, err := runCLI(t, server, "--token", "tok", "dashboard", "indicators")

	require.NoError(t, err)
	assert.Contains(t, out, "Health score: 85/100")
	assert.Contains(t, out, "42.50 %")
	assert.Contains(t, out, "[medium] Low balance: Wallet is below 100")
	assert.Contains(t, out, "Tip: Review subscriptions")
}

func TestDashboardRecentCmdRawJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"transactions": [], "total_amount": "0"}`))
	}))
	defer server.Close()

	out, err := runCLI(t, server, "--token", "tok", "--json", "dashboard", "recent")

	require.NoError(t, err)
	assert.Contains(t, out, `"total_amount": "0"`)
}

func TestAPIClientNonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	err := newAPIClient(server.URL, "", 0).get(t.Context(), "/ready", nil, nil)

	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Code)
	assert.Equal(t, "bad gateway", apiErr.Message)
}
