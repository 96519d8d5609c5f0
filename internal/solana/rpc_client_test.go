package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func rpcTestServer(t *testing.T, method string, result interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Method != method {
			t.Errorf("expected method %s, got %s", method, req.Method)
		}

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestHTTPClient_GetAccountInfo(t *testing.T) {
	data := base64.StdEncoding.EncodeToString([]byte("accountdata"))
	server := rpcTestServer(t, "getAccountInfo", map[string]interface{}{
		"value": map[string]interface{}{
			"lamports":   uint64(2039280),
			"owner":      TokenProgramID,
			"data":       []string{data, "base64"},
			"executable": false,
			"rentEpoch":  uint64(361),
		},
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)
	info, err := client.GetAccountInfo(context.Background(), "testpubkey")
	if err != nil {
		t.Fatalf("GetAccountInfo: %v", err)
	}
	if info == nil {
		t.Fatal("expected account info, got nil")
	}
	if info.Lamports != 2039280 {
		t.Errorf("lamports = %d", info.Lamports)
	}
	if info.Owner != TokenProgramID {
		t.Errorf("owner = %s", info.Owner)
	}
	if info.Data != data {
		t.Errorf("data = %s", info.Data)
	}
}

func TestHTTPClient_GetAccountInfo_NotFound(t *testing.T) {
	server := rpcTestServer(t, "getAccountInfo", map[string]interface{}{"value": nil})
	defer server.Close()

	client := NewHTTPClient(server.URL)
	info, err := client.GetAccountInfo(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetAccountInfo: %v", err)
	}
	if info != nil {
		t.Errorf("expected nil for missing account, got %+v", info)
	}
}

func TestHTTPClient_GetTokenSupply(t *testing.T) {
	server := rpcTestServer(t, "getTokenSupply", map[string]interface{}{
		"value": map[string]interface{}{
			"amount":   "1000000000000",
			"decimals": 9,
		},
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)
	supply, err := client.GetTokenSupply(context.Background(), "mint")
	if err != nil {
		t.Fatalf("GetTokenSupply: %v", err)
	}
	if supply.Amount != 1_000_000_000_000 {
		t.Errorf("amount = %d", supply.Amount)
	}
	if supply.Decimals != 9 {
		t.Errorf("decimals = %d", supply.Decimals)
	}
}

func TestHTTPClient_GetBalance(t *testing.T) {
	server := rpcTestServer(t, "getBalance", map[string]interface{}{"value": uint64(5_000_000_000)})
	defer server.Close()

	client := NewHTTPClient(server.URL)
	balance, err := client.GetBalance(context.Background(), "wallet")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance != 5_000_000_000 {
		t.Errorf("balance = %d", balance)
	}
}

func TestHTTPClient_GetSlotAndBlockTime(t *testing.T) {
	slotServer := rpcTestServer(t, "getSlot", int64(250_000_000))
	defer slotServer.Close()

	client := NewHTTPClient(slotServer.URL)
	slot, err := client.GetSlot(context.Background())
	if err != nil {
		t.Fatalf("GetSlot: %v", err)
	}
	if slot != 250_000_000 {
		t.Errorf("slot = %d", slot)
	}

	btServer := rpcTestServer(t, "getBlockTime", int64(1700000000))
	defer btServer.Close()

	client = NewHTTPClient(btServer.URL)
	bt, err := client.GetBlockTime(context.Background(), 250_000_000)
	if err != nil {
		t.Fatalf("GetBlockTime: %v", err)
	}
	if bt == nil || *bt != 1700000000 {
		t.Errorf("blockTime = %v", bt)
	}
}

func TestHTTPClient_GetTokenLargestAccounts(t *testing.T) {
	server := rpcTestServer(t, "getTokenLargestAccounts", map[string]interface{}{
		"value": []map[string]interface{}{
			{"address": "acct1", "amount": "600000"},
			{"address": "acct2", "amount": "400000"},
		},
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)
	accounts, err := client.GetTokenLargestAccounts(context.Background(), "mint")
	if err != nil {
		t.Fatalf("GetTokenLargestAccounts: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("got %d accounts", len(accounts))
	}
	if accounts[0].Amount != 600000 || accounts[0].Address != "acct1" {
		t.Errorf("accounts[0] = %+v", accounts[0])
	}
}

func TestHTTPClient_CountTokenHolders(t *testing.T) {
	nonzero := base64.StdEncoding.EncodeToString([]byte{1, 0, 0, 0, 0, 0, 0, 0})
	zero := base64.StdEncoding.EncodeToString([]byte{0, 0, 0, 0, 0, 0, 0, 0})

	server := rpcTestServer(t, "getProgramAccounts", []map[string]interface{}{
		{"account": map[string]interface{}{"data": []string{nonzero, "base64"}}},
		{"account": map[string]interface{}{"data": []string{zero, "base64"}}},
		{"account": map[string]interface{}{"data": []string{nonzero, "base64"}}},
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)
	count, err := client.CountTokenHolders(context.Background(), "mint")
	if err != nil {
		t.Fatalf("CountTokenHolders: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2 (zero-balance accounts excluded)", count)
	}
}

func TestHTTPClient_RetriesOn429(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  int64(42),
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithRetryDelay(10*time.Millisecond))
	slot, err := client.GetSlot(context.Background())
	if err != nil {
		t.Fatalf("GetSlot: %v", err)
	}
	if slot != 42 {
		t.Errorf("slot = %d", slot)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestHTTPClient_RPCErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]interface{}{"code": -32602, "message": "invalid params"},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithRetryDelay(10*time.Millisecond))
	_, err := client.GetSlot(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, RPC errors must not be retried", calls.Load())
	}
}

func TestHTTPClient_GetProgramAccounts(t *testing.T) {
	data := base64.StdEncoding.EncodeToString(make([]byte, 752))
	server := rpcTestServer(t, "getProgramAccounts", []map[string]interface{}{
		{
			"pubkey": "poolpubkey",
			"account": map[string]interface{}{
				"lamports": uint64(6124800),
				"owner":    "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8",
				"data":     []string{data, "base64"},
			},
		},
	})
	defer server.Close()

	size := uint64(752)
	client := NewHTTPClient(server.URL)
	accounts, err := client.GetProgramAccounts(context.Background(), "programid", []AccountFilter{
		{DataSize: &size},
		{Memcmp: &MemcmpFilter{Offset: 400, Bytes: "somemint"}},
	})
	if err != nil {
		t.Fatalf("GetProgramAccounts: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("accounts = %d, want 1", len(accounts))
	}
	if accounts[0].Pubkey != "poolpubkey" {
		t.Errorf("pubkey = %s", accounts[0].Pubkey)
	}
	if accounts[0].Lamports != 6124800 {
		t.Errorf("lamports = %d", accounts[0].Lamports)
	}
	if accounts[0].Data != data {
		t.Errorf("data not passed through")
	}
}

func TestHTTPClient_CallObserver(t *testing.T) {
	server := rpcTestServer(t, "getSlot", int64(42))
	defer server.Close()

	var observedMethod string
	var observedElapsed time.Duration
	client := NewHTTPClient(server.URL, WithCallObserver(func(method string, elapsed time.Duration) {
		observedMethod = method
		observedElapsed = elapsed
	}))

	if _, err := client.GetSlot(context.Background()); err != nil {
		t.Fatalf("GetSlot: %v", err)
	}
	if observedMethod != "getSlot" {
		t.Errorf("observed method = %q", observedMethod)
	}
	if observedElapsed <= 0 {
		t.Errorf("observed elapsed = %v", observedElapsed)
	}
}
