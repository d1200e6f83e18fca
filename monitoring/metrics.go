package monitoring

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"waitlist-system/models"
)

var (
	activeGuests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "waitlist_active_guests",
			Help: "Current number of guests in the active queue per status",
		},
		[]string{"status"},
	)

	acceptingGate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "waitlist_accepting",
			Help: "1 when new registrations are accepted",
		},
	)

	operations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_operations_total",
			Help: "Total ledger operations by outcome",
		},
		[]string{"operation", "status"},
	)

	waitMinutes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "waitlist_wait_minutes",
			Help:    "Wait duration of completed guests in minutes",
			Buckets: prometheus.ExponentialBuckets(1, 2, 9),
		},
	)
)

// TrackOperation records one ledger operation outcome ("success"/"error").
func TrackOperation(operation, outcome string) {
	operations.WithLabelValues(operation, outcome).Inc()
}

// ObserveWait records the wait of one completed guest.
func ObserveWait(minutes int) {
	waitMinutes.Observe(float64(minutes))
}

// SnapshotFunc hands the monitor a read-only view of the queue state.
type SnapshotFunc func(ctx context.Context) (*models.QueueState, error)

type Monitor struct {
	snapshot SnapshotFunc
	stopChan chan struct{}
}

func NewMonitor(snapshot SnapshotFunc) *Monitor {
	monitor := &Monitor{
		snapshot: snapshot,
		stopChan: make(chan struct{}),
	}

	// Start metrics collection
	go monitor.collectMetrics()

	return monitor
}

func (m *Monitor) collectMetrics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.collectQueueMetrics()
		case <-m.stopChan:
			return
		}
	}
}

func (m *Monitor) collectQueueMetrics() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	state, err := m.snapshot(ctx)
	if err != nil {
		log.Printf("Metrics collection failed: %v", err)
		return
	}

	counts := map[models.GuestStatus]int{}
	for i := range state.ActiveQueue {
		counts[state.ActiveQueue[i].Status]++
	}
	for _, s := range []models.GuestStatus{models.StatusWaiting, models.StatusCalling, models.StatusArrived, models.StatusAbsent} {
		activeGuests.WithLabelValues(string(s)).Set(float64(counts[s]))
	}

	if state.Accepting {
		acceptingGate.Set(1)
	} else {
		acceptingGate.Set(0)
	}
}

func (m *Monitor) Stop() {
	close(m.stopChan)
}

// StartOpsServer serves /metrics and /healthz on the metrics port, separate
// from the public API listener.
func StartOpsServer(port string, redisClient *redis.Client) {
	e := echo.New()

	promHandler := promhttp.Handler()
	e.GET("/metrics", func(c echo.Context) error {
		promHandler.ServeHTTP(c.Response(), c.Request())
		return nil
	})
	e.GET("/healthz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: e,
	}

	go func() {
		log.Printf("Ops listener on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Ops listener stopped: %v", err)
		}
	}()
}
