package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/xxz807/bankcore/internal/bank/domain"
	"github.com/xxz807/bankcore/internal/bank/service"
)

// BankHandler 薄展示层: 只做参数绑定、DTO 转换和错误码映射，不含业务规则
type BankHandler struct {
	svc *service.BankService
}

func NewBankHandler(svc *service.BankService) *BankHandler {
	return &BankHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *BankHandler) RegisterRoutes(r *gin.RouterGroup) {
	accounts := r.Group("/accounts")
	{
		accounts.POST("", h.OpenAccount)
		accounts.GET("", h.ListAccounts)
		accounts.GET("/search", h.SearchAccounts)
		accounts.GET("/:number", h.GetAccount)
		accounts.DELETE("/:number", h.RemoveAccount)
		accounts.PUT("/:number/holder", h.RenameHolder)
		accounts.POST("/:number/deposit", h.Deposit)
		accounts.POST("/:number/withdraw", h.Withdraw)
		accounts.POST("/:number/encash", h.EncashCheck)
		accounts.POST("/:number/charge", h.Charge)
		accounts.POST("/:number/payment", h.Payment)
		accounts.POST("/:number/interest", h.ApplyInterest)
		accounts.POST("/:number/close", h.CloseAccount)
		accounts.POST("/:number/convert", h.ConvertAccount)
		accounts.GET("/:number/transactions", h.AccountTransactions)
	}

	transactions := r.Group("/transactions")
	{
		transactions.GET("", h.TransactionsByDateRange)
		transactions.GET("/search", h.SearchTransactions)
		transactions.GET("/summary", h.TransactionSummary)
		transactions.PUT("/:id/amount", h.CorrectTransaction)
		transactions.PUT("/:id/reconciled", h.SetReconciled)
	}

	r.POST("/transfers", h.Transfer)

	// 定时器调用的月度计息入口
	r.POST("/interest/run", h.RunInterestSweep)
}

// statusOf 领域错误 → HTTP 状态码
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidAccount):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAccountClosed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrTransactionLimit),
		errors.Is(err, domain.ErrAccountConversion),
		errors.Is(err, domain.ErrUnsupportedOperation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func abortWith(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"error": err.Error()})
}

func parseAmount(c *gin.Context, raw string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount format: " + raw})
		return decimal.Zero, false
	}
	return amount, true
}

// OpenAccount 开户
// POST /api/v1/bank/accounts
func (h *BankHandler) OpenAccount(c *gin.Context) {
	var req OpenAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	amount, ok := parseAmount(c, req.InitialAmount)
	if !ok {
		return
	}
	a, err := h.svc.OpenAccount(req.HolderName, amount, domain.AccountType(req.AccountType))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAccountResp(a))
}

// ListAccounts 全部账户，可选 ?type= 过滤
func (h *BankHandler) ListAccounts(c *gin.Context) {
	if t := c.Query("type"); t != "" {
		at := domain.AccountType(t)
		if !at.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown account type: " + t})
			return
		}
		c.JSON(http.StatusOK, toAccountResps(h.svc.AccountsByType(at)))
		return
	}
	c.JSON(http.StatusOK, toAccountResps(h.svc.Accounts()))
}

// SearchAccounts 账号/户名/变体名的子串检索
func (h *BankHandler) SearchAccounts(c *gin.Context) {
	c.JSON(http.StatusOK, toAccountResps(h.svc.SearchAccounts(c.Query("q"))))
}

func (h *BankHandler) GetAccount(c *gin.Context) {
	a, err := h.svc.Account(c.Param("number"))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResp(a))
}

// RemoveAccount 硬删除 (与关闭账户不同)
func (h *BankHandler) RemoveAccount(c *gin.Context) {
	if !h.svc.RemoveAccount(c.Param("number")) {
		abortWith(c, domain.ErrInvalidAccount)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BankHandler) RenameHolder(c *gin.Context) {
	var req RenameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	a, err := h.svc.RenameHolder(c.Param("number"), req.HolderName)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResp(a))
}

// amountOp 存/取/兑现/消费/还款共用的处理骨架
func (h *BankHandler) amountOp(c *gin.Context,
	op func(string, decimal.Decimal) (*domain.Account, error)) {
	var req AmountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}
	a, err := op(c.Param("number"), amount)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResp(a))
}

func (h *BankHandler) Deposit(c *gin.Context)     { h.amountOp(c, h.svc.Deposit) }
func (h *BankHandler) Withdraw(c *gin.Context)    { h.amountOp(c, h.svc.Withdraw) }
func (h *BankHandler) EncashCheck(c *gin.Context) { h.amountOp(c, h.svc.EncashCheck) }
func (h *BankHandler) Charge(c *gin.Context)      { h.amountOp(c, h.svc.Charge) }
func (h *BankHandler) Payment(c *gin.Context)     { h.amountOp(c, h.svc.Payment) }

// Transfer 转账
// POST /api/v1/bank/transfers
func (h *BankHandler) Transfer(c *gin.Context) {
	var req TransferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}
	if err := h.svc.Transfer(req.FromAccount, req.ToAccount, amount); err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transfer completed"})
}

func (h *BankHandler) ApplyInterest(c *gin.Context) {
	a, err := h.svc.ApplyMonthlyInterest(c.Param("number"))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResp(a))
}

// CloseAccount 关闭账户；余额未回到 0 时 closed=false
func (h *BankHandler) CloseAccount(c *gin.Context) {
	closed, err := h.svc.CloseAccount(c.Param("number"))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": closed})
}

func (h *BankHandler) ConvertAccount(c *gin.Context) {
	var req ConvertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	a, err := h.svc.ConvertAccount(c.Param("number"), domain.AccountType(req.AccountType))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResp(a))
}

func (h *BankHandler) AccountTransactions(c *gin.Context) {
	c.JSON(http.StatusOK, toTransactionResps(h.svc.Transactions(c.Param("number"))))
}

// TransactionsByDateRange 时间区间查询 (RFC3339)，升序返回
// GET /api/v1/bank/transactions?start=...&end=...
func (h *BankHandler) TransactionsByDateRange(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toTransactionResps(h.svc.TransactionsByDateRange(start, end)))
}

func (h *BankHandler) SearchTransactions(c *gin.Context) {
	c.JSON(http.StatusOK, toTransactionResps(h.svc.SearchTransactions(c.Query("q"))))
}

// TransactionSummary 区间汇总，?by=type|category
func (h *BankHandler) TransactionSummary(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		return
	}
	out := make(map[string]string)
	switch c.DefaultQuery("by", "type") {
	case "type":
		for k, v := range h.svc.SummaryByType(start, end) {
			out[string(k)] = v.String()
		}
	case "category":
		for k, v := range h.svc.SummaryByCategory(start, end) {
			out[string(k)] = v.String()
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "by must be type or category"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// CorrectTransaction 金额更正: 账本修改 + 同差额联动账户余额
func (h *BankHandler) CorrectTransaction(c *gin.Context) {
	var req AmountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}
	if !h.svc.CorrectTransaction(c.Param("id"), amount) {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "amount corrected"})
}

func (h *BankHandler) SetReconciled(c *gin.Context) {
	var req ReconcileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if !h.svc.SetReconciled(c.Param("id"), *req.Reconciled) {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reconciled flag updated"})
}

// RunInterestSweep 月度计息扫描 (调度器入口)
func (h *BankHandler) RunInterestSweep(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"applied": h.svc.RunInterestSweep()})
}

func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start: " + c.Query("start")})
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end: " + c.Query("end")})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
