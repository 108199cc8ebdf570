package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ProcessingMetrics 解码服务的处理指标。nil 接收者上的方法都是空操作
type ProcessingMetrics struct {
	processedSlotsCount prometheus.Counter
	skippedSlotsCount   prometheus.Counter
	missingSlotsCount   prometheus.Counter
	scannedTxCount      prometheus.Counter
	decodedTxCount      *prometheus.CounterVec
	sinkErrorCount      *prometheus.CounterVec
	latestSlotGauge     prometheus.Gauge
	slotDuration        prometheus.Histogram
}

func NewProcessingMetrics(namespace string, reg prometheus.Registerer) *ProcessingMetrics {
	factory := promauto.With(reg)
	return &ProcessingMetrics{
		processedSlotsCount: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_processed_slot_count", namespace),
			Help: "The total number of decoded slots",
		}),
		skippedSlotsCount: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_skipped_slot_count", namespace),
			Help: "The total number of slots skipped by the progress guard",
		}),
		missingSlotsCount: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_missing_slot_count", namespace),
			Help: "The total number of slots with a block that never arrived on the stream",
		}),
		scannedTxCount: factory.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_scanned_tx_count", namespace),
			Help: "The total number of signed transactions scanned",
		}),
		decodedTxCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_decoded_tx_count", namespace),
			Help: "The total number of decoded transactions per program",
		}, []string{"program"}),
		sinkErrorCount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_sink_error_count", namespace),
			Help: "The total number of failed result publications per sink",
		}, []string{"sink"}),
		latestSlotGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_latest_slot", namespace),
			Help: "The latest fully processed slot",
		}),
		slotDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    fmt.Sprintf("%s_slot_duration_seconds", namespace),
			Help:    "Time spent decoding and publishing one slot",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}
}

func (m *ProcessingMetrics) ObserveSlot(slot uint64, scanned int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.processedSlotsCount.Inc()
	m.scannedTxCount.Add(float64(scanned))
	m.latestSlotGauge.Set(float64(slot))
	m.slotDuration.Observe(elapsed.Seconds())
}

func (m *ProcessingMetrics) AddDecoded(program string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.decodedTxCount.WithLabelValues(program).Add(float64(count))
}

func (m *ProcessingMetrics) IncSkippedSlots() {
	if m == nil {
		return
	}
	m.skippedSlotsCount.Inc()
}

func (m *ProcessingMetrics) AddMissingSlots(count int) {
	if m == nil || count == 0 {
		return
	}
	m.missingSlotsCount.Add(float64(count))
}

func (m *ProcessingMetrics) IncSinkErrors(sink string) {
	if m == nil {
		return
	}
	m.sinkErrorCount.WithLabelValues(sink).Inc()
}
