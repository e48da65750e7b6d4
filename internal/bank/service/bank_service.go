package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xxz807/bankcore/internal/bank/domain"
	"github.com/xxz807/bankcore/internal/bank/store"
	"github.com/xxz807/bankcore/internal/platform/metrics"
)

// BankService 核心服务: 编排账户存储、账本与工厂
// 一把服务级互斥锁串行化全部变更操作，保证转账跨两个账户仍然原子；
// 各存储自身的锁只为并发读者提供一致视图
type BankService struct {
	mu       sync.Mutex
	accounts *store.AccountStore
	ledger   *store.Ledger
	factory  *domain.Factory
	log      *zap.Logger
}

func NewBankService(accounts *store.AccountStore, ledger *store.Ledger,
	factory *domain.Factory, log *zap.Logger) *BankService {
	return &BankService{
		accounts: accounts,
		ledger:   ledger,
		factory:  factory,
		log:      log,
	}
}

// OpenAccount 开户: 工厂校验开户金额并发号，入库
func (s *BankService) OpenAccount(holderName string, initialAmount decimal.Decimal,
	accountType domain.AccountType) (a *domain.Account, err error) {
	defer func() { metrics.RecordOperation("open_account", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err = s.factory.CreateAccount(holderName, initialAmount, accountType)
	if err != nil {
		return nil, err
	}
	if err = s.accounts.Add(a); err != nil {
		return nil, err
	}
	s.log.Info("account opened",
		zap.String("account_number", a.AccountNumber),
		zap.String("type", string(a.Type)))
	return a, nil
}

// Deposit 存款，追加一条 DEPOSIT 交易
func (s *BankService) Deposit(accountNumber string, amount decimal.Decimal) (a *domain.Account, err error) {
	defer func() { metrics.RecordOperation("deposit", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err = s.mutate(accountNumber, func(acc *domain.Account) error {
		return acc.Deposit(amount)
	})
	if err != nil {
		return nil, err
	}
	s.ledger.Append(accountNumber, domain.TxDeposit, amount, "Cash deposit")
	return a, nil
}

// Withdraw 提款，追加一条负金额的 WITHDRAWAL 交易
func (s *BankService) Withdraw(accountNumber string, amount decimal.Decimal) (a *domain.Account, err error) {
	defer func() { metrics.RecordOperation("withdraw", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err = s.mutate(accountNumber, func(acc *domain.Account) error {
		return acc.Withdraw(amount)
	})
	if err != nil {
		return nil, err
	}
	s.ledger.Append(accountNumber, domain.TxWithdrawal, amount.Neg(), "Cash withdrawal")
	return a, nil
}

// EncashCheck 支票兑现: 规则同提款，交易类型为 CHECK_ENCASHMENT
func (s *BankService) EncashCheck(accountNumber string, amount decimal.Decimal) (a *domain.Account, err error) {
	defer func() { metrics.RecordOperation("encash_check", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err = s.mutate(accountNumber, func(acc *domain.Account) error {
		return acc.EncashCheck(amount)
	})
	if err != nil {
		return nil, err
	}
	s.ledger.Append(accountNumber, domain.TxCheckEncashment, amount.Neg(), "Check encashment")
	return a, nil
}

// Charge 信用卡消费
func (s *BankService) Charge(accountNumber string, amount decimal.Decimal) (a *domain.Account, err error) {
	defer func() { metrics.RecordOperation("charge", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err = s.mutate(accountNumber, func(acc *domain.Account) error {
		return acc.Charge(amount)
	})
	if err != nil {
		return nil, err
	}
	s.ledger.Append(accountNumber, domain.TxCreditCharge, amount, "Credit charge")
	return a, nil
}

// Payment 信用卡还款，追加一条负金额的 PAYMENT 交易
func (s *BankService) Payment(accountNumber string, amount decimal.Decimal) (a *domain.Account, err error) {
	defer func() { metrics.RecordOperation("payment", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	a, err = s.mutate(accountNumber, func(acc *domain.Account) error {
		return acc.Payment(amount)
	})
	if err != nil {
		return nil, err
	}
	s.ledger.Append(accountNumber, domain.TxPayment, amount.Neg(), "Credit payment")
	return a, nil
}

// Transfer 转账: 对调用方表现为原子操作
// 两条腿先全部校验、再全部变更——目标腿失败时源账户分文未动，账本无记录
func (s *BankService) Transfer(fromNumber, toNumber string, amount decimal.Decimal) (err error) {
	defer func() { metrics.RecordOperation("transfer", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if fromNumber == toNumber {
		return domain.ErrInvalidAccount
	}
	from, ok := s.accounts.Get(fromNumber)
	if !ok {
		return domain.ErrInvalidAccount
	}
	to, ok := s.accounts.Get(toNumber)
	if !ok {
		return domain.ErrInvalidAccount
	}
	if !to.Active {
		return domain.ErrInvalidAccount
	}

	// 先验两条腿，任何失败都不碰余额
	if err = from.CanWithdraw(amount); err != nil {
		return err
	}
	if err = to.CanDeposit(amount); err != nil {
		return err
	}

	// 校验已通过，以下不会失败
	_ = from.Withdraw(amount)
	_ = to.Deposit(amount)
	if err = s.accounts.Update(from); err != nil {
		return err
	}
	if err = s.accounts.Update(to); err != nil {
		return err
	}

	s.ledger.Append(fromNumber, domain.TxTransferOut, amount.Neg(),
		fmt.Sprintf("Transfer to %s", toNumber))
	s.ledger.Append(toNumber, domain.TxTransferIn, amount,
		fmt.Sprintf("Transfer from %s", fromNumber))
	return nil
}

// ApplyMonthlyInterest 单个投资账户计息，追加一条 INTEREST 交易
func (s *BankService) ApplyMonthlyInterest(accountNumber string) (a *domain.Account, err error) {
	defer func() { metrics.RecordOperation("apply_interest", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyInterestLocked(accountNumber)
}

// RunInterestSweep 定时器入口: 给所有投资账户计息
// 扫到已关闭账户跳过并继续，不算错误；不补扫停机期间漏掉的周期
func (s *BankService) RunInterestSweep() (applied int) {
	defer func() { metrics.RecordOperation("interest_sweep", nil) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.accounts.ListByType(domain.TypeInvestment) {
		if _, err := s.applyInterestLocked(acc.AccountNumber); err != nil {
			s.log.Info("skipping account in interest sweep",
				zap.String("account_number", acc.AccountNumber),
				zap.Error(err))
			continue
		}
		applied++
	}
	s.log.Info("monthly interest sweep finished", zap.Int("applied", applied))
	return applied
}

// applyInterestLocked 调用方必须已持有服务锁
func (s *BankService) applyInterestLocked(accountNumber string) (*domain.Account, error) {
	acc, ok := s.accounts.Get(accountNumber)
	if !ok {
		return nil, domain.ErrInvalidAccount
	}
	interest, err := acc.ApplyMonthlyInterest()
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Update(acc); err != nil {
		return nil, err
	}
	s.ledger.Append(accountNumber, domain.TxInterest, interest, "Monthly interest")
	return acc, nil
}

// CloseAccount 关闭账户
// 仅当余额为 0 时生效并追加一条 ACCOUNT_CLOSED 交易；
// 重复关闭是幂等无操作 (closed=true 且不再记账)；余额未静止返回 closed=false
func (s *BankService) CloseAccount(accountNumber string) (closed bool, err error) {
	defer func() { metrics.RecordOperation("close_account", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts.Get(accountNumber)
	if !ok {
		return false, domain.ErrInvalidAccount
	}

	switch acc.Close() {
	case domain.CloseAlreadyClosed:
		return true, nil
	case domain.CloseBalanceNotResting:
		return false, nil
	}

	if err = s.accounts.Update(acc); err != nil {
		return false, err
	}
	s.ledger.Append(accountNumber, domain.TxAccountClosed, decimal.Zero, "Account closed")
	return true, nil
}

// ConvertAccount 账户转换: 同一账号下整体替换为新变体实例
func (s *BankService) ConvertAccount(accountNumber string, newType domain.AccountType) (a *domain.Account, err error) {
	defer func() { metrics.RecordOperation("convert_account", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.accounts.Get(accountNumber)
	if !ok {
		return nil, domain.ErrInvalidAccount
	}
	a, err = s.factory.ConvertAccount(existing, newType)
	if err != nil {
		return nil, err
	}
	if err = s.accounts.Update(a); err != nil {
		return nil, err
	}
	s.log.Info("account converted",
		zap.String("account_number", accountNumber),
		zap.String("from", string(existing.Type)),
		zap.String("to", string(newType)))
	return a, nil
}

// RenameHolder 修改户名
func (s *BankService) RenameHolder(accountNumber, holderName string) (a *domain.Account, err error) {
	defer func() { metrics.RecordOperation("rename_holder", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(accountNumber, func(acc *domain.Account) error {
		acc.Rename(holderName)
		return nil
	})
}

// RemoveAccount 硬删除账户记录 (与 CloseAccount 不同)
func (s *BankService) RemoveAccount(accountNumber string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.accounts.Remove(accountNumber)
	metrics.RecordOperation("remove_account", nil)
	return removed
}

// CorrectTransaction 账本金额更正，联动账户余额 (见 Ledger.CorrectAmount)
func (s *BankService) CorrectTransaction(transactionID string, newAmount decimal.Decimal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.ledger.CorrectAmount(transactionID, newAmount)
	metrics.RecordOperation("correct_transaction", nil)
	return ok
}

// SetReconciled 标记交易对账状态
func (s *BankService) SetReconciled(transactionID string, reconciled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.SetReconciled(transactionID, reconciled)
}

// ---- 查询面 (读操作直接透传存储) ----

func (s *BankService) Account(accountNumber string) (*domain.Account, error) {
	a, ok := s.accounts.Get(accountNumber)
	if !ok {
		return nil, domain.ErrInvalidAccount
	}
	return a, nil
}

func (s *BankService) Accounts() []*domain.Account {
	return s.accounts.ListAll()
}

func (s *BankService) AccountsByType(t domain.AccountType) []*domain.Account {
	return s.accounts.ListByType(t)
}

func (s *BankService) SearchAccounts(query string) []*domain.Account {
	return s.accounts.Search(query)
}

func (s *BankService) Transactions(accountNumber string) []domain.Transaction {
	return s.ledger.ByAccount(accountNumber)
}

func (s *BankService) TransactionsByDateRange(start, end time.Time) []domain.Transaction {
	return s.ledger.ByDateRange(start, end)
}

func (s *BankService) SearchTransactions(keyword string) []domain.Transaction {
	return s.ledger.Search(keyword)
}

func (s *BankService) SummaryByType(start, end time.Time) map[domain.TxType]decimal.Decimal {
	return s.ledger.SummaryByType(start, end)
}

func (s *BankService) SummaryByCategory(start, end time.Time) map[domain.TxCategory]decimal.Decimal {
	return s.ledger.SummaryByCategory(start, end)
}

// mutate 取出账户拷贝、应用领域操作、写回存储
// 任一步失败都不会落库；调用方必须已持有服务锁
func (s *BankService) mutate(accountNumber string,
	op func(*domain.Account) error) (*domain.Account, error) {
	acc, ok := s.accounts.Get(accountNumber)
	if !ok {
		return nil, domain.ErrInvalidAccount
	}
	if err := op(acc); err != nil {
		return nil, err
	}
	if err := s.accounts.Update(acc); err != nil {
		return nil, err
	}
	return acc, nil
}
