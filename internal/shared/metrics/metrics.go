package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	emailsGeneratedTotal       atomic.Uint64
	emailGenerationFailedTotal atomic.Uint64
	emailsSentTotal            atomic.Uint64
	emailsFailedTotal          atomic.Uint64
	resumeCompensatingDeletes  atomic.Uint64

	emailSendDuration  = newHistogram([]float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000})
	generationDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncEmailsGenerated counts drafts returned by a generation provider.
func IncEmailsGenerated() {
	emailsGeneratedTotal.Add(1)
}

// IncEmailGenerationFailed counts failed generation calls.
func IncEmailGenerationFailed() {
	emailGenerationFailedTotal.Add(1)
}

// IncEmailsSent counts emails accepted by the mail transport.
func IncEmailsSent() {
	emailsSentTotal.Add(1)
}

// IncEmailsFailed counts send attempts persisted as FAILED.
func IncEmailsFailed() {
	emailsFailedTotal.Add(1)
}

// IncResumeCompensatingDeletes counts uploads removed after a failed resume write.
func IncResumeCompensatingDeletes() {
	resumeCompensatingDeletes.Add(1)
}

// ObserveEmailSendDurationMs records a send attempt duration in milliseconds.
func ObserveEmailSendDurationMs(value float64) {
	emailSendDuration.Observe(clampNonNegative(value))
}

// ObserveGenerationDurationMs records a provider call duration in milliseconds.
func ObserveGenerationDurationMs(value float64) {
	generationDuration.Observe(clampNonNegative(value))
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "emails_generated_total", "Total email drafts generated", emailsGeneratedTotal.Load())
	writeCounter(&buf, "email_generation_failed_total", "Total failed email generations", emailGenerationFailedTotal.Load())
	writeCounter(&buf, "emails_sent_total", "Total emails sent", emailsSentTotal.Load())
	writeCounter(&buf, "emails_failed_total", "Total emails that failed to send", emailsFailedTotal.Load())
	writeCounter(&buf, "resume_compensating_deletes_total", "Total uploads deleted after a failed resume write", resumeCompensatingDeletes.Load())
	writeHistogram(&buf, "email_send_duration_ms", "Email send duration in milliseconds", emailSendDuration.Snapshot())
	writeHistogram(&buf, "email_generation_duration_ms", "Email generation duration in milliseconds", generationDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the elapsed time since start in milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
