package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// 账务操作计数，result: ok / fail
	ledgerOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbit_ledger_operations_total",
			Help: "Total number of ledger mutations",
		},
		[]string{"op", "result"},
	)
)

func init() {
	prometheus.MustRegister(ledgerOpsTotal)
}

func observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "fail"
	}
	ledgerOpsTotal.WithLabelValues(op, result).Inc()
}
