package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fundsystem/internal/config"
	"fundsystem/internal/model"
	"fundsystem/internal/notifier"
	"fundsystem/internal/repository"
	"fundsystem/internal/service"
)

// ---- mock 实现 ----

type mockFundsService struct {
	balance     int64
	funds       []model.Fund
	listErr     error
	subscribeFn func(fundID, channel, destination string) (string, error)
	cancelFn    func(fundID string) (string, error)
	latestFn    func(n int) ([]model.FundTransaction, error)
}

func (m *mockFundsService) GetBalance(ctx context.Context) int64 {
	return m.balance
}

func (m *mockFundsService) ListFunds(ctx context.Context) ([]model.Fund, error) {
	return m.funds, m.listErr
}

func (m *mockFundsService) Subscribe(ctx context.Context, fundID, notifyChannel, notifyDestination string) (string, error) {
	return m.subscribeFn(fundID, notifyChannel, notifyDestination)
}

func (m *mockFundsService) Cancel(ctx context.Context, fundID string) (string, error) {
	return m.cancelFn(fundID)
}

func (m *mockFundsService) LatestTransactions(ctx context.Context, n int) ([]model.FundTransaction, error) {
	return m.latestFn(n)
}

// ---- 测试辅助 ----

func doRequest(t *testing.T, svc FundsService, method, url, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := SetupRouter(svc, &config.Config{})

	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- 测试 ----

func TestGetBalance_ReturnsBareNumber(t *testing.T) {
	svc := &mockFundsService{balance: 500000}

	w := doRequest(t, svc, http.MethodGet, "/api/funds/balance", "")
	if w.Code != http.StatusOK {
		t.Fatalf("状态码应为 200，实际 %d", w.Code)
	}
	// 响应体就是数字本身
	if got := strings.TrimSpace(w.Body.String()); got != "500000" {
		t.Fatalf("响应体应为 500000，实际 %q", got)
	}
}

func TestListFunds_ReturnsArray(t *testing.T) {
	svc := &mockFundsService{funds: []model.Fund{
		{ID: "1", Name: "FPV_EL CLIENTE_RECAUDADORA", MinAmount: 75000, Category: "FPV"},
		{ID: "3", Name: "DEUDAPRIVADA", MinAmount: 50000, Category: "FIC"},
	}}

	w := doRequest(t, svc, http.MethodGet, "/api/funds", "")
	if w.Code != http.StatusOK {
		t.Fatalf("状态码应为 200，实际 %d", w.Code)
	}

	var funds []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &funds); err != nil {
		t.Fatalf("响应体不是 JSON 数组: %v", err)
	}
	if len(funds) != 2 {
		t.Fatalf("应返回 2 只基金，实际 %d", len(funds))
	}
	if funds[0]["id"] != "1" || funds[0]["minAmount"] != float64(75000) {
		t.Fatalf("基金字段不对: %v", funds[0])
	}
}

func TestListFunds_EmptyCatalogReturnsEmptyArray(t *testing.T) {
	svc := &mockFundsService{funds: nil}

	w := doRequest(t, svc, http.MethodGet, "/api/funds", "")
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Fatalf("空目录应返回 []，实际 %q", got)
	}
}

func TestListFunds_ErrorMapsToProblemEnvelope(t *testing.T) {
	svc := &mockFundsService{listErr: errors.New("数据库连接中断")}

	w := doRequest(t, svc, http.MethodGet, "/api/funds", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("状态码应为 500，实际 %d", w.Code)
	}

	var p map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("响应体不是 JSON: %v", err)
	}
	if p["status"] != float64(500) || p["title"] != "Unexpected error" {
		t.Fatalf("错误信封字段不对: %v", p)
	}
	if p["instance"] != "/api/funds" {
		t.Fatalf("instance 应为请求路径，实际 %v", p["instance"])
	}
}

func TestSubscribe(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fn         func(fundID, channel, destination string) (string, error)
		wantStatus int
	}{
		{
			name:       "认购成功",
			body:       `{"fundId":"5"}`,
			fn:         func(fundID, channel, destination string) (string, error) { return "TXN001", nil },
			wantStatus: http.StatusOK,
		},
		{
			name:       "基金不存在",
			body:       `{"fundId":"99"}`,
			fn:         func(fundID, channel, destination string) (string, error) { return "", repository.ErrFundNotFound },
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "余额不足",
			body:       `{"fundId":"4"}`,
			fn:         func(fundID, channel, destination string) (string, error) { return "", service.ErrInsufficientBalance },
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "通知渠道非法",
			body: `{"fundId":"5","notifyChannel":"fax","notifyDestination":"x"}`,
			fn: func(fundID, channel, destination string) (string, error) {
				return "", notifier.ErrUnsupportedChannel
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "缺少 fundId",
			body:       `{}`,
			fn:         nil,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockFundsService{subscribeFn: tt.fn}
			w := doRequest(t, svc, http.MethodPost, "/api/funds/subscribe", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("状态码应为 %d，实际 %d，响应: %s", tt.wantStatus, w.Code, w.Body.String())
			}

			var resp map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("响应体不是 JSON: %v", err)
			}
			if tt.wantStatus == http.StatusOK {
				if resp["transactionId"] != "TXN001" {
					t.Fatalf("应返回流水号，实际 %v", resp)
				}
			} else {
				if _, ok := resp["message"]; !ok {
					t.Fatalf("错误响应应携带 message 字段，实际 %v", resp)
				}
			}
		})
	}
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fn         func(fundID string) (string, error)
		wantStatus int
	}{
		{
			name:       "取消成功",
			body:       `{"fundId":"5"}`,
			fn:         func(fundID string) (string, error) { return "TXN002", nil },
			wantStatus: http.StatusOK,
		},
		{
			name:       "基金不存在",
			body:       `{"fundId":"99"}`,
			fn:         func(fundID string) (string, error) { return "", repository.ErrFundNotFound },
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "没有有效认购",
			body:       `{"fundId":"5"}`,
			fn:         func(fundID string) (string, error) { return "", service.ErrNoActiveSubscription },
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockFundsService{cancelFn: tt.fn}
			w := doRequest(t, svc, http.MethodPost, "/api/funds/cancel", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("状态码应为 %d，实际 %d，响应: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestLatestTransactions(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	txs := []model.FundTransaction{
		{TransactionNo: "TXN002", Type: model.TransactionTypeCancel, FundID: "5", Amount: 100000, TimestampUTC: now.Add(time.Minute)},
		{TransactionNo: "TXN001", Type: model.TransactionTypeSubscribe, FundID: "5", Amount: 100000, TimestampUTC: now},
	}

	var gotCount int
	svc := &mockFundsService{latestFn: func(n int) ([]model.FundTransaction, error) {
		gotCount = n
		return txs, nil
	}}

	w := doRequest(t, svc, http.MethodGet, "/api/funds/transactions?count=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("状态码应为 200，实际 %d", w.Code)
	}
	if gotCount != 2 {
		t.Fatalf("count 应透传给业务层，实际 %d", gotCount)
	}

	var resp []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应体不是 JSON 数组: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("应返回 2 条流水，实际 %d", len(resp))
	}
	// 交易类型序列化为字面量 Subscribe / Cancel，自增主键不外露
	if resp[0]["type"] != "Cancel" || resp[0]["id"] != "TXN002" {
		t.Fatalf("流水字段不对: %v", resp[0])
	}
	if _, ok := resp[0]["ID"]; ok {
		t.Fatal("内部自增主键不应出现在响应里")
	}
}

func TestLatestTransactions_InvalidCountFallsBack(t *testing.T) {
	var gotCount int
	svc := &mockFundsService{latestFn: func(n int) ([]model.FundTransaction, error) {
		gotCount = n
		return nil, nil
	}}

	w := doRequest(t, svc, http.MethodGet, "/api/funds/transactions?count=abc", "")
	if w.Code != http.StatusOK {
		t.Fatalf("状态码应为 200，实际 %d", w.Code)
	}
	// 非法 count 交给业务层按默认条数处理
	if gotCount != 0 {
		t.Fatalf("非法 count 应传 0，实际 %d", gotCount)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Fatalf("空结果应返回 []，实际 %q", got)
	}
}

func TestHealth(t *testing.T) {
	svc := &mockFundsService{}
	w := doRequest(t, svc, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("状态码应为 200，实际 %d", w.Code)
	}
}
