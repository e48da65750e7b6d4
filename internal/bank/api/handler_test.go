package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xxz807/bankcore/internal/bank/api"
	"github.com/xxz807/bankcore/internal/bank/domain"
	"github.com/xxz807/bankcore/internal/bank/service"
	"github.com/xxz807/bankcore/internal/bank/store"
	"github.com/xxz807/bankcore/internal/platform/storage"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	log := zap.NewNop()
	accounts := store.NewAccountStore(
		storage.NewFileStore(filepath.Join(dir, "accounts.json"), log), log)
	ledger := store.NewLedger(
		storage.NewFileStore(filepath.Join(dir, "transactions.json"), log), accounts, log)
	svc := service.NewBankService(accounts, ledger,
		domain.NewFactory(domain.DefaultParams(), accounts), log)

	r := gin.New()
	api.NewBankHandler(svc).RegisterRoutes(r.Group("/api/v1/bank"))
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func openAccount(t *testing.T, r *gin.Engine, holder, amount, accountType string) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/v1/bank/accounts",
		`{"holder_name":"`+holder+`","initial_amount":"`+amount+`","account_type":"`+accountType+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["account_number"].(string)
}

func TestOpenAccountCreated(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/bank/accounts",
		`{"holder_name":"Alice","initial_amount":"100","account_type":"BASIC"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Alice", resp["holder_name"])
	assert.Equal(t, "100", resp["balance"])
	assert.Equal(t, true, resp["active"])
}

func TestOpenAccountValidation(t *testing.T) {
	r := newRouter(t)

	// 未知变体被 binding 拦下
	w := do(t, r, http.MethodPost, "/api/v1/bank/accounts",
		`{"holder_name":"Alice","initial_amount":"100","account_type":"SAVINGS"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 金额不是合法数字
	w = do(t, r, http.MethodPost, "/api/v1/bank/accounts",
		`{"holder_name":"Alice","initial_amount":"abc","account_type":"BASIC"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 开户金额低于支票账户门槛
	w = do(t, r, http.MethodPost, "/api/v1/bank/accounts",
		`{"holder_name":"Alice","initial_amount":"50","account_type":"CHECKING"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDepositAndErrorMapping(t *testing.T) {
	r := newRouter(t)
	number := openAccount(t, r, "Alice", "100", "BASIC")

	w := do(t, r, http.MethodPost, "/api/v1/bank/accounts/"+number+"/deposit", `{"amount":"50"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "150", resp["balance"])

	// 余额不足 → 422
	w = do(t, r, http.MethodPost, "/api/v1/bank/accounts/"+number+"/withdraw", `{"amount":"9999"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// 账户不存在 → 404
	w = do(t, r, http.MethodPost, "/api/v1/bank/accounts/000/deposit", `{"amount":"50"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 非法金额 → 400
	w = do(t, r, http.MethodPost, "/api/v1/bank/accounts/"+number+"/deposit", `{"amount":"-50"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClosedAccountConflict(t *testing.T) {
	r := newRouter(t)
	number := openAccount(t, r, "Alice", "0", "BASIC")

	w := do(t, r, http.MethodPost, "/api/v1/bank/accounts/"+number+"/close", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"closed":true`)

	w = do(t, r, http.MethodPost, "/api/v1/bank/accounts/"+number+"/deposit", `{"amount":"10"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTransferEndpoint(t *testing.T) {
	r := newRouter(t)
	from := openAccount(t, r, "Alice", "500", "BASIC")
	to := openAccount(t, r, "Bob", "0", "BASIC")

	w := do(t, r, http.MethodPost, "/api/v1/bank/transfers",
		`{"from_account":"`+from+`","to_account":"`+to+`","amount":"200"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/bank/accounts/"+to, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "200", resp["balance"])

	// 每个账户名下各有一条转账记录
	w = do(t, r, http.MethodGet, "/api/v1/bank/accounts/"+from+"/transactions", "")
	var txs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &txs))
	require.Len(t, txs, 1)
	assert.Equal(t, "TRANSFER_OUT", txs[0]["type"])
	assert.Equal(t, "-200", txs[0]["amount"])
}

func TestListAccountsWithTypeFilter(t *testing.T) {
	r := newRouter(t)
	openAccount(t, r, "Alice", "100", "BASIC")
	openAccount(t, r, "Bob", "200", "CHECKING")

	w := do(t, r, http.MethodGet, "/api/v1/bank/accounts?type=CHECKING", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Bob", list[0]["holder_name"])

	w = do(t, r, http.MethodGet, "/api/v1/bank/accounts?type=SAVINGS", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionRangeValidation(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/bank/transactions?start=notatime&end=2026-01-01T00:00:00Z", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet,
		"/api/v1/bank/transactions?start=2026-01-01T00:00:00Z&end=2026-02-01T00:00:00Z", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCorrectTransactionNotFound(t *testing.T) {
	r := newRouter(t)
	w := do(t, r, http.MethodPut, "/api/v1/bank/transactions/no-such-id/amount", `{"amount":"10"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReconciledFlagRoundTrip(t *testing.T) {
	r := newRouter(t)
	number := openAccount(t, r, "Alice", "100", "BASIC")
	require.Equal(t, http.StatusOK,
		do(t, r, http.MethodPost, "/api/v1/bank/accounts/"+number+"/deposit", `{"amount":"10"}`).Code)

	w := do(t, r, http.MethodGet, "/api/v1/bank/accounts/"+number+"/transactions", "")
	var txs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &txs))
	require.Len(t, txs, 1)
	id := txs[0]["id"].(string)

	w = do(t, r, http.MethodPut, "/api/v1/bank/transactions/"+id+"/reconciled", `{"reconciled":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/bank/accounts/"+number+"/transactions", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &txs))
	assert.Equal(t, true, txs[0]["reconciled"])
}

func TestRemoveAccount(t *testing.T) {
	r := newRouter(t)
	number := openAccount(t, r, "Alice", "100", "BASIC")

	assert.Equal(t, http.StatusNoContent,
		do(t, r, http.MethodDelete, "/api/v1/bank/accounts/"+number, "").Code)
	assert.Equal(t, http.StatusNotFound,
		do(t, r, http.MethodDelete, "/api/v1/bank/accounts/"+number, "").Code)
}
