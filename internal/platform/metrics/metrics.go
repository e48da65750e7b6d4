// Package metrics 暴露 Prometheus 指标
// 核心只计数两类事实: 业务操作的成败、快照落盘失败
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Operations 业务操作计数，按操作名与结果分维度
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bankcore",
		Name:      "operations_total",
		Help:      "Total number of bank operations by name and outcome.",
	}, []string{"operation", "status"})

	// PersistenceFailures 快照写入失败计数
	// 失败不回滚内存状态，磁盘停留在上一份快照，这里是唯一的可见信号之一 (另一个是日志)
	PersistenceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bankcore",
		Name:      "persistence_failures_total",
		Help:      "Total number of failed snapshot writes.",
	})
)

// RecordOperation 记录一次业务操作的结果
func RecordOperation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	Operations.WithLabelValues(operation, status).Inc()
}
