package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"fundsystem/internal/model"
	"fundsystem/internal/notifier"
	"fundsystem/internal/repository"
	"fundsystem/internal/service"
	"fundsystem/pkg/problem"

	"github.com/gin-gonic/gin"
)

// FundsService 基金业务接口
// handler 只依赖接口，便于测试时替换实现
type FundsService interface {
	GetBalance(ctx context.Context) int64
	ListFunds(ctx context.Context) ([]model.Fund, error)
	Subscribe(ctx context.Context, fundID, notifyChannel, notifyDestination string) (string, error)
	Cancel(ctx context.Context, fundID string) (string, error)
	LatestTransactions(ctx context.Context, n int) ([]model.FundTransaction, error)
}

// Handler 统一处理器
type Handler struct {
	fundsService FundsService
}

// NewHandler 创建处理器实例
func NewHandler(fundsService FundsService) *Handler {
	return &Handler{fundsService: fundsService}
}

// GetBalance 查询账户余额
// GET /api/funds/balance
// 响应体就是余额数字本身，不包信封
func (h *Handler) GetBalance(c *gin.Context) {
	c.JSON(http.StatusOK, h.fundsService.GetBalance(c.Request.Context()))
}

// ListFunds 查询基金目录
// GET /api/funds
func (h *Handler) ListFunds(c *gin.Context) {
	funds, err := h.fundsService.ListFunds(c.Request.Context())
	if err != nil {
		problem.Write(c, problem.TitleUnexpected, err.Error(), "")
		return
	}
	if funds == nil {
		funds = []model.Fund{}
	}
	c.JSON(http.StatusOK, funds)
}

// SubscribeRequest 认购请求
type SubscribeRequest struct {
	FundID            string `json:"fundId" binding:"required"`
	NotifyChannel     string `json:"notifyChannel"`     // email | sms，可选
	NotifyDestination string `json:"notifyDestination"` // 通知接收地址，可选
}

// Subscribe 认购基金
// POST /api/funds/subscribe
func (h *Handler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeMessage(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	transactionID, err := h.fundsService.Subscribe(c.Request.Context(), req.FundID, req.NotifyChannel, req.NotifyDestination)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrFundNotFound):
			writeMessage(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInsufficientBalance),
			errors.Is(err, notifier.ErrUnsupportedChannel):
			writeMessage(c, http.StatusBadRequest, err.Error())
		default:
			problem.Write(c, problem.TitleUnexpected, err.Error(), "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactionId": transactionID})
}

// CancelRequest 取消认购请求
type CancelRequest struct {
	FundID string `json:"fundId" binding:"required"`
}

// Cancel 取消认购
// POST /api/funds/cancel
func (h *Handler) Cancel(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeMessage(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	transactionID, err := h.fundsService.Cancel(c.Request.Context(), req.FundID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrFundNotFound):
			writeMessage(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNoActiveSubscription):
			writeMessage(c, http.StatusBadRequest, err.Error())
		default:
			problem.Write(c, problem.TitleUnexpected, err.Error(), "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactionId": transactionID})
}

// LatestTransactions 查询最近交易流水
// GET /api/funds/transactions?count=N
// count 非法或缺省时由业务层按默认条数处理
func (h *Handler) LatestTransactions(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "0"))
	if err != nil {
		count = 0
	}

	transactions, err := h.fundsService.LatestTransactions(c.Request.Context(), count)
	if err != nil {
		problem.Write(c, problem.TitleUnexpected, err.Error(), "")
		return
	}
	if transactions == nil {
		transactions = []model.FundTransaction{}
	}
	c.JSON(http.StatusOK, transactions)
}

func writeMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}
