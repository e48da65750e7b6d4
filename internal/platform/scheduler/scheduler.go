// Package scheduler 月度计息的定时触发器
// 它是核心之外的调用方: 按固定周期调用一次"给全部投资账户计息"入口
// 进程停机期间漏掉的周期不补扫 (已接受的限制)
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// InterestRunner 调度器面向的核心入口
type InterestRunner interface {
	RunInterestSweep() int
}

// InterestScheduler 固定周期触发计息扫描
type InterestScheduler struct {
	runner   InterestRunner
	interval time.Duration
	logger   *zap.Logger
}

func NewInterestScheduler(runner InterestRunner, interval time.Duration,
	logger *zap.Logger) *InterestScheduler {
	return &InterestScheduler{runner: runner, interval: interval, logger: logger}
}

// Start 启动后台定时循环，ctx 取消时退出
func (s *InterestScheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("interest scheduler started", zap.Duration("interval", s.interval))
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("interest scheduler stopped")
				return
			case <-ticker.C:
				applied := s.runner.RunInterestSweep()
				s.logger.Info("scheduled interest sweep done", zap.Int("applied", applied))
			}
		}
	}()
}
