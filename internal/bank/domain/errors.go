package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// 领域错误 (business-rule violations)
// 每一种业务规则违例都是类型化错误，直接返回给调用方，由调用方决定展示还是记录后跳过
var (
	// ErrInvalidAmount 金额非法: <=0、低于变体的开户下限、或超出声明范围
	ErrInvalidAmount = errors.New("bank: invalid amount")

	// ErrInsufficientFunds 可用资金不足，提款/转账会击穿变体的余额下限
	ErrInsufficientFunds = errors.New("bank: insufficient funds")

	// ErrAccountClosed 对已关闭账户执行变更操作
	ErrAccountClosed = errors.New("bank: account closed")

	// ErrInvalidAccount 账号无法解析到账户
	ErrInvalidAccount = errors.New("bank: account not found")

	// ErrTransactionLimit 刷卡金额超过可用额度
	ErrTransactionLimit = errors.New("bank: transaction limit exceeded")

	// ErrAccountConversion 账户转换不在允许列表内
	ErrAccountConversion = errors.New("bank: invalid account conversion")

	// ErrUnsupportedOperation 操作不适用于该账户变体 (如对信用卡账户取现)
	ErrUnsupportedOperation = errors.New("bank: operation not supported for account type")
)

// InsufficientFundsError 携带可用金额与请求金额的资金不足错误
type InsufficientFundsError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("bank: insufficient funds: available=%s requested=%s",
		e.Available.String(), e.Requested.String())
}

// Is 支持 errors.Is(err, ErrInsufficientFunds)
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// TransactionLimitError 携带可用额度的超限错误
type TransactionLimitError struct {
	Available decimal.Decimal
}

func (e *TransactionLimitError) Error() string {
	return fmt.Sprintf("bank: charge exceeds available credit: available=%s", e.Available.String())
}

func (e *TransactionLimitError) Is(target error) bool {
	return target == ErrTransactionLimit
}

// invalidAmount 构造带原因说明的金额错误
func invalidAmount(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidAmount, fmt.Sprintf(format, args...))
}

// ValidatePositive 共享的金额校验: 所有变更操作的入口检查
func ValidatePositive(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return invalidAmount("amount must be positive, got %s", amount.String())
	}
	return nil
}
