package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	bankapi "github.com/xxz807/bankcore/internal/bank/api"
	"github.com/xxz807/bankcore/internal/bank/domain"
	"github.com/xxz807/bankcore/internal/bank/service"
	"github.com/xxz807/bankcore/internal/bank/store"
	"github.com/xxz807/bankcore/internal/platform/logger"
	"github.com/xxz807/bankcore/internal/platform/scheduler"
	"github.com/xxz807/bankcore/internal/platform/server"
	"github.com/xxz807/bankcore/internal/platform/storage"
)

func main() {
	// 1. 加载配置
	viper.SetConfigFile("../../configs/config.yaml")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file: %s", err)
	}

	// 2. 初始化基础设施 (Infra)
	// Logger
	appLogger := logger.NewLogger(viper.GetString("server.mode"))

	// 快照目录
	dataDir := viper.GetString("storage.data_dir")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		appLogger.Fatal("failed to create data dir", zap.Error(err))
	}
	accountSnap := storage.NewFileStore(filepath.Join(dataDir, "accounts.json"), appLogger)
	ledgerSnap := storage.NewFileStore(filepath.Join(dataDir, "transactions.json"), appLogger)

	// 3. 依赖注入 (Wiring)
	// -- Bank Module --
	params := bankParams()
	if err := params.Validate(); err != nil {
		appLogger.Fatal("invalid bank params", zap.Error(err))
	}
	accountStore := store.NewAccountStore(accountSnap, appLogger)
	txLedger := store.NewLedger(ledgerSnap, accountStore, appLogger)
	factory := domain.NewFactory(params, accountStore)
	bankSvc := service.NewBankService(accountStore, txLedger, factory, appLogger)
	bankHandler := bankapi.NewBankHandler(bankSvc)

	// 4. 月度计息调度器 (核心之外的定时调用方)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched := scheduler.NewInterestScheduler(bankSvc,
		viper.GetDuration("bank.interest_interval"), appLogger)
	sched.Start(ctx)

	// 5. 初始化 Server (Gateway) 并启动
	srv := server.NewServer(
		appLogger,
		viper.GetString("server.port"),
		viper.GetString("server.mode"),
		bankHandler,
	)
	if err := srv.Run(); err != nil {
		appLogger.Fatal("Server startup failed", zap.Error(err))
	}
}

// bankParams 从配置装配变体规则参数，金额一律按字符串解析防止精度丢失
func bankParams() domain.Params {
	viper.SetDefault("bank.checking.overdraft_limit", "1000")
	viper.SetDefault("bank.checking.min_opening", "100")
	viper.SetDefault("bank.investment.min_balance", "500")
	viper.SetDefault("bank.investment.min_opening", "1000")
	viper.SetDefault("bank.investment.annual_rate", "0.05")
	viper.SetDefault("bank.credit_card.min_limit", "5000")

	return domain.Params{
		CheckingOverdraftLimit: mustDecimal("bank.checking.overdraft_limit"),
		CheckingMinOpening:     mustDecimal("bank.checking.min_opening"),
		InvestmentMinBalance:   mustDecimal("bank.investment.min_balance"),
		InvestmentMinOpening:   mustDecimal("bank.investment.min_opening"),
		InvestmentAnnualRate:   mustDecimal("bank.investment.annual_rate"),
		CreditCardMinLimit:     mustDecimal("bank.credit_card.min_limit"),
	}
}

func mustDecimal(key string) decimal.Decimal {
	d, err := decimal.NewFromString(viper.GetString(key))
	if err != nil {
		log.Fatalf("invalid decimal for %s: %s", key, viper.GetString(key))
	}
	return d
}
