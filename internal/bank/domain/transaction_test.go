package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xxz807/bankcore/internal/bank/domain"
)

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		txType domain.TxType
		want   domain.TxCategory
	}{
		{domain.TxDeposit, domain.CategoryDeposit},
		{domain.TxWithdrawal, domain.CategoryWithdrawal},
		{domain.TxTransferIn, domain.CategoryTransfer},
		{domain.TxTransferOut, domain.CategoryTransfer},
		{domain.TxInterest, domain.CategoryInterest},
		{domain.TxCreditCharge, domain.CategoryCreditCharge},
		{domain.TxPayment, domain.CategoryPayment},
		{domain.TxCheckEncashment, domain.CategoryCheckEncashment},
		{domain.TxAccountClosed, domain.CategoryAccountClosed},
		{domain.TxType("SOMETHING_ELSE"), domain.CategoryGeneral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.CategoryOf(tt.txType), "type %s", tt.txType)
	}
}

func TestTransactionMatches(t *testing.T) {
	tx := domain.NewTransaction("tx-1", time.Now(), "202500001",
		domain.TxDeposit, dec("100"), "Cash deposit")

	assert.True(t, tx.Matches("cash"))
	assert.True(t, tx.Matches("DEPOSIT"))
	assert.True(t, tx.Matches("202500001"))
	assert.True(t, tx.Matches("tx-1"))
	assert.False(t, tx.Matches("withdrawal"))
}

func TestTransactionCSVRow(t *testing.T) {
	ts := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	tx := domain.NewTransaction("tx-9", ts, "202500001",
		domain.TxWithdrawal, dec("-50"), "Cash withdrawal")

	row := tx.CSVRow()
	fields := strings.Split(row, ",")
	assert.Equal(t, 8, len(fields))
	assert.Equal(t, "tx-9", fields[0])
	assert.Equal(t, "2025-03-01 10:30:00", fields[1])
	assert.Equal(t, "WITHDRAWAL", fields[3])
	assert.Equal(t, "WITHDRAWAL", fields[4])
	assert.Equal(t, "-50", fields[5])
	assert.Equal(t, "false", fields[7])
}
