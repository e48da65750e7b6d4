package api

import (
	"time"

	"github.com/xxz807/bankcore/internal/bank/domain"
)

// 金额一律传字符串，避免 JSON number 的精度丢失

type OpenAccountReq struct {
	HolderName    string `json:"holder_name" binding:"required"`
	InitialAmount string `json:"initial_amount" binding:"required"`
	AccountType   string `json:"account_type" binding:"required,oneof=BASIC CHECKING INVESTMENT CREDIT_CARD"`
}

type AmountReq struct {
	Amount string `json:"amount" binding:"required"`
}

type TransferReq struct {
	FromAccount string `json:"from_account" binding:"required"`
	ToAccount   string `json:"to_account" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
}

type RenameReq struct {
	HolderName string `json:"holder_name" binding:"required"`
}

type ConvertReq struct {
	AccountType string `json:"account_type" binding:"required,oneof=BASIC CHECKING INVESTMENT CREDIT_CARD"`
}

type ReconcileReq struct {
	Reconciled *bool `json:"reconciled" binding:"required"`
}

// AccountResp 账户视图 (API Layer <- Service Layer 的 DTO 转换)
type AccountResp struct {
	AccountNumber  string    `json:"account_number"`
	HolderName     string    `json:"holder_name"`
	AccountType    string    `json:"account_type"`
	Balance        string    `json:"balance"`
	OverdraftLimit string    `json:"overdraft_limit,omitempty"`
	MinimumBalance string    `json:"minimum_balance,omitempty"`
	InterestRate   string    `json:"interest_rate,omitempty"`
	InterestEarned string    `json:"interest_earned,omitempty"`
	CreditLimit    string    `json:"credit_limit,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toAccountResp(a *domain.Account) AccountResp {
	resp := AccountResp{
		AccountNumber: a.AccountNumber,
		HolderName:    a.HolderName,
		AccountType:   string(a.Type),
		Balance:       a.Balance.String(),
		Active:        a.Active,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	switch a.Type {
	case domain.TypeChecking:
		resp.OverdraftLimit = a.OverdraftLimit.String()
	case domain.TypeInvestment:
		resp.MinimumBalance = a.MinimumBalance.String()
		resp.InterestRate = a.InterestRate.String()
		resp.InterestEarned = a.InterestEarned.String()
	case domain.TypeCreditCard:
		resp.CreditLimit = a.CreditLimit.String()
	}
	return resp
}

func toAccountResps(list []*domain.Account) []AccountResp {
	out := make([]AccountResp, 0, len(list))
	for _, a := range list {
		out = append(out, toAccountResp(a))
	}
	return out
}

// TransactionResp 交易视图
type TransactionResp struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	AccountNumber string    `json:"account_number"`
	Type          string    `json:"type"`
	Category      string    `json:"category"`
	Amount        string    `json:"amount"`
	Description   string    `json:"description"`
	Reconciled    bool      `json:"reconciled"`
}

func toTransactionResp(t domain.Transaction) TransactionResp {
	return TransactionResp{
		ID:            t.ID,
		Timestamp:     t.Timestamp,
		AccountNumber: t.AccountNumber,
		Type:          string(t.Type),
		Category:      string(t.Category),
		Amount:        t.Amount.String(),
		Description:   t.Description,
		Reconciled:    t.Reconciled,
	}
}

func toTransactionResps(list []domain.Transaction) []TransactionResp {
	out := make([]TransactionResp, 0, len(list))
	for _, t := range list {
		out = append(out, toTransactionResp(t))
	}
	return out
}
