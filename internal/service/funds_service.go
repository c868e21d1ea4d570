package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"fundsystem/internal/config"
	"fundsystem/internal/model"
	"fundsystem/internal/notifier"
	"fundsystem/internal/repository"
	"fundsystem/pkg/idgen"
)

var (
	ErrInsufficientBalance  = errors.New("余额不足，无法认购该基金")
	ErrNoActiveSubscription = errors.New("没有该基金的有效认购")
)

// FundsService 基金业务核心
//
// 持有全系统唯一的账户余额，负责认购/取消认购的状态流转和流水记录。
//
// 【关键点】余额和"是否有有效认购"都是先读后写的共享状态，
// 认购/取消认购必须互斥执行，否则并发请求会把余额扣穿。
// 这里用进程内互斥锁把"校验 + 改余额 + 记流水"整体做成临界区；
// 只读操作走读锁或不加锁，允许读到瞬时的旧值。
type FundsService struct {
	mu      sync.RWMutex
	balance int64 // 账户余额（整数货币单位）

	fundRepo repository.FundRepository
	txRepo   repository.TransactionRepository
	notifier notifier.Notifier // 可为 nil（notifier.mode=none）

	activeWindow int // 判断有效认购时回看的流水条数
	defaultCount int // 查询流水的默认条数
}

func NewFundsService(cfg *config.Config, fundRepo repository.FundRepository, txRepo repository.TransactionRepository, n notifier.Notifier) *FundsService {
	return &FundsService{
		balance:      cfg.Business.InitialBalance,
		fundRepo:     fundRepo,
		txRepo:       txRepo,
		notifier:     n,
		activeWindow: cfg.Business.ActiveSubscriptionWindow,
		defaultCount: cfg.Business.DefaultTransactionCount,
	}
}

// GetBalance 查询当前余额
func (s *FundsService) GetBalance(ctx context.Context) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance
}

// ListFunds 查询基金目录
func (s *FundsService) ListFunds(ctx context.Context) ([]model.Fund, error) {
	return s.fundRepo.List(ctx)
}

// Subscribe 认购基金
//
// 流程：查基金 -> 校验余额 -> 扣减余额 -> 记流水 -> （可选）发通知
// 返回新流水的流水号。
//
// 通知在释放锁之后、返回之前发送，发送失败整个认购按失败处理
// （沿用既有行为，此时扣款和流水已经生效，见 DESIGN.md）。
func (s *FundsService) Subscribe(ctx context.Context, fundID, notifyChannel, notifyDestination string) (string, error) {
	fund, err := s.getFund(ctx, fundID)
	if err != nil {
		return "", err
	}

	s.mu.Lock()

	if s.balance < fund.MinAmount {
		s.mu.Unlock()
		return "", ErrInsufficientBalance
	}

	s.balance -= fund.MinAmount

	tx := &model.FundTransaction{
		TransactionNo: idgen.GenerateTransactionNo(),
		Type:          model.TransactionTypeSubscribe,
		FundID:        fund.ID,
		Amount:        fund.MinAmount,
		TimestampUTC:  time.Now().UTC(),
	}
	if err := s.txRepo.Append(ctx, tx); err != nil {
		// 流水没记上，余额退回去，保证余额和流水一致
		s.balance += fund.MinAmount
		s.mu.Unlock()
		return "", fmt.Errorf("记录流水失败: %w", err)
	}

	s.mu.Unlock()

	if s.notifier != nil && notifyChannel != "" && notifyDestination != "" {
		message := fmt.Sprintf("认购基金 %s 成功，金额 %d", fund.Name, fund.MinAmount)
		if err := s.notifier.Send(ctx, notifyDestination, message, notifyChannel); err != nil {
			return "", err
		}
	}

	log.Printf("认购成功: transactionNo=%s, fundID=%s, amount=%d", tx.TransactionNo, fund.ID, fund.MinAmount)

	return tx.TransactionNo, nil
}

// Cancel 取消认购
//
// 是否存在有效认购：在最近 activeWindow 条流水内统计该基金的
// 认购数减去取消数，净值大于 0 才允许取消。窗口之外的历史流水
// 不参与统计（沿用既有行为，见 DESIGN.md）。
func (s *FundsService) Cancel(ctx context.Context, fundID string) (string, error) {
	fund, err := s.getFund(ctx, fundID)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recent, err := s.txRepo.Latest(ctx, s.activeWindow)
	if err != nil {
		return "", fmt.Errorf("查询流水失败: %w", err)
	}

	net := 0
	for _, t := range recent {
		if t.FundID != fund.ID {
			continue
		}
		switch t.Type {
		case model.TransactionTypeSubscribe:
			net++
		case model.TransactionTypeCancel:
			net--
		}
	}
	if net <= 0 {
		return "", ErrNoActiveSubscription
	}

	s.balance += fund.MinAmount

	tx := &model.FundTransaction{
		TransactionNo: idgen.GenerateTransactionNo(),
		Type:          model.TransactionTypeCancel,
		FundID:        fund.ID,
		Amount:        fund.MinAmount,
		TimestampUTC:  time.Now().UTC(),
	}
	if err := s.txRepo.Append(ctx, tx); err != nil {
		s.balance -= fund.MinAmount
		return "", fmt.Errorf("记录流水失败: %w", err)
	}

	log.Printf("取消认购成功: transactionNo=%s, fundID=%s, amount=%d", tx.TransactionNo, fund.ID, fund.MinAmount)

	return tx.TransactionNo, nil
}

// LatestTransactions 查询最近 n 条交易流水（按时间倒序）
// n 不是正数时按默认条数处理
func (s *FundsService) LatestTransactions(ctx context.Context, n int) ([]model.FundTransaction, error) {
	if n <= 0 {
		n = s.defaultCount
	}
	return s.txRepo.Latest(ctx, n)
}

func (s *FundsService) getFund(ctx context.Context, fundID string) (*model.Fund, error) {
	fund, err := s.fundRepo.Get(ctx, fundID)
	if err != nil {
		if errors.Is(err, repository.ErrFundNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("查询基金失败: %w", err)
	}
	return fund, nil
}
