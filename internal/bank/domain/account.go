package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account 账户实体: 一个数据记录 + 按变体分派的规则函数
// 变体差异只体现在可用资金规则与 charge/interest 规则上，不再使用继承层级
//
// Balance 语义按变体不同:
//   - BASIC/CHECKING/INVESTMENT: 存款余额 (CHECKING 可透支为负)
//   - CREDIT_CARD: 已欠金额，开户为 0，上限为 CreditLimit
type Account struct {
	AccountNumber string      `json:"account_number"`
	HolderName    string      `json:"holder_name"`
	Type          AccountType `json:"account_type"`

	Balance decimal.Decimal `json:"balance"`

	// 变体专属字段，非本变体时保持零值
	OverdraftLimit decimal.Decimal `json:"overdraft_limit"`  // CHECKING
	MinimumBalance decimal.Decimal `json:"minimum_balance"`  // INVESTMENT
	InterestRate   decimal.Decimal `json:"interest_rate"`    // INVESTMENT 名义年利率
	InterestEarned decimal.Decimal `json:"interest_earned"`  // INVESTMENT 累计利息
	CreditLimit    decimal.Decimal `json:"credit_limit"`     // CREDIT_CARD

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var monthsPerYear = decimal.NewFromInt(12)

// touch 任何变更都要刷新最后修改时间
func (a *Account) touch() {
	a.UpdatedAt = time.Now()
}

// Rename 修改户名
func (a *Account) Rename(holderName string) {
	a.HolderName = holderName
	a.touch()
}

// AvailableFunds 变体专属的单笔可取上限
// 信用卡账户不适用该规则 (见 AvailableCredit)
func (a *Account) AvailableFunds() decimal.Decimal {
	switch a.Type {
	case TypeChecking:
		return a.Balance.Add(a.OverdraftLimit)
	case TypeInvestment:
		return a.Balance.Sub(a.MinimumBalance)
	default:
		return a.Balance
	}
}

// AvailableBalance 支票账户对外暴露的可用余额 (balance + overdraftLimit)
func (a *Account) AvailableBalance() decimal.Decimal {
	return a.Balance.Add(a.OverdraftLimit)
}

// AvailableCredit 信用卡可用额度 (creditLimit - balance)
func (a *Account) AvailableCredit() decimal.Decimal {
	return a.CreditLimit.Sub(a.Balance)
}

// CanDeposit 存款前置校验，不改变状态 (转账用它先验目标腿)
func (a *Account) CanDeposit(amount decimal.Decimal) error {
	if a.Type == TypeCreditCard {
		return ErrUnsupportedOperation
	}
	if !a.Active {
		return ErrAccountClosed
	}
	return ValidatePositive(amount)
}

// Deposit 存款: 金额必须为正，账户必须处于活跃状态
func (a *Account) Deposit(amount decimal.Decimal) error {
	if err := a.CanDeposit(amount); err != nil {
		return err
	}
	a.Balance = a.Balance.Add(amount)
	a.touch()
	return nil
}

// CanWithdraw 提款前置校验，不改变状态
func (a *Account) CanWithdraw(amount decimal.Decimal) error {
	if a.Type == TypeCreditCard {
		return ErrUnsupportedOperation
	}
	if !a.Active {
		return ErrAccountClosed
	}
	if err := ValidatePositive(amount); err != nil {
		return err
	}
	if available := a.AvailableFunds(); amount.GreaterThan(available) {
		return &InsufficientFundsError{Available: available, Requested: amount}
	}
	return nil
}

// Withdraw 提款: 可用资金规则按变体分派 (见 AvailableFunds)
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if err := a.CanWithdraw(amount); err != nil {
		return err
	}
	a.Balance = a.Balance.Sub(amount)
	a.touch()
	return nil
}

// EncashCheck 支票兑现: 仅支票账户，规则同提款，交易类型不同
func (a *Account) EncashCheck(amount decimal.Decimal) error {
	if a.Type != TypeChecking {
		return ErrUnsupportedOperation
	}
	return a.Withdraw(amount)
}

// Charge 信用卡消费: balance 表示欠款，上限为授信额度
func (a *Account) Charge(amount decimal.Decimal) error {
	if a.Type != TypeCreditCard {
		return ErrUnsupportedOperation
	}
	if !a.Active {
		return ErrAccountClosed
	}
	if err := ValidatePositive(amount); err != nil {
		return err
	}
	if available := a.AvailableCredit(); amount.GreaterThan(available) {
		return &TransactionLimitError{Available: available}
	}
	a.Balance = a.Balance.Add(amount)
	a.touch()
	return nil
}

// Payment 信用卡还款: 减少欠款，允许多还形成溢缴
func (a *Account) Payment(amount decimal.Decimal) error {
	if a.Type != TypeCreditCard {
		return ErrUnsupportedOperation
	}
	if !a.Active {
		return ErrAccountClosed
	}
	if err := ValidatePositive(amount); err != nil {
		return err
	}
	a.Balance = a.Balance.Sub(amount)
	a.touch()
	return nil
}

// ApplyMonthlyInterest 投资账户月度计息 (独立变更，不是存款):
// interest = balance × (年利率/12)，同时累加 InterestEarned
// 返回本次利息金额，供记账使用
func (a *Account) ApplyMonthlyInterest() (decimal.Decimal, error) {
	if a.Type != TypeInvestment {
		return decimal.Zero, ErrUnsupportedOperation
	}
	if !a.Active {
		return decimal.Zero, ErrAccountClosed
	}
	interest := a.Balance.Mul(a.InterestRate.Div(monthsPerYear))
	a.Balance = a.Balance.Add(interest)
	a.InterestEarned = a.InterestEarned.Add(interest)
	a.touch()
	return interest, nil
}

// Close 关闭账户: 仅当余额处于静止值 (0) 时生效
// 已关闭账户再次关闭是幂等无操作；关闭不会从存储中删除记录
func (a *Account) Close() CloseOutcome {
	if !a.Active {
		return CloseAlreadyClosed
	}
	if !a.Balance.IsZero() {
		return CloseBalanceNotResting
	}
	a.Active = false
	a.touch()
	return CloseOK
}
