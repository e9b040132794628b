// Package monitoring exposes ledger activity as Prometheus metrics.
package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"restoplus/internal/ledger"
	"restoplus/internal/models"
)

// Monitor collects ledger metrics in its own registry
type Monitor struct {
	registry *prometheus.Registry

	deductions   *prometheus.CounterVec
	restorations prometheus.Counter
	stockLevel   *prometheus.GaugeVec
	available    *prometheus.GaugeVec
	alerts       *prometheus.CounterVec

	// label values last exported per entity id, so renames do not leave stale series
	labelsMu  sync.Mutex
	stockKeys map[string][]string
	menuKeys  map[string]string

	startTime time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	m := &Monitor{
		registry: prometheus.NewRegistry(),
		deductions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_order_deductions_total",
				Help: "Order deductions by outcome",
			},
			[]string{"result"},
		),
		restorations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_order_restorations_total",
				Help: "Order restorations applied",
			},
		),
		stockLevel: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ledger_stock_level",
				Help: "Current stock of an inventory item in its base unit",
			},
			[]string{"item", "unit"},
		),
		available: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ledger_menu_item_available",
				Help: "1 if the menu item can currently be ordered",
			},
			[]string{"menu_item"},
		),
		alerts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_inventory_alerts_total",
				Help: "Inventory threshold crossings by alert type",
			},
			[]string{"type"},
		),
		stockKeys: make(map[string][]string),
		menuKeys:  make(map[string]string),
		startTime: time.Now(),
	}

	uptime := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "ledger_uptime_seconds",
			Help: "Seconds since the ledger service started",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	m.registry.MustRegister(
		m.deductions,
		m.restorations,
		m.stockLevel,
		m.available,
		m.alerts,
		uptime,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the registry the metrics are registered in.
func (m *Monitor) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveDeduction counts one order deduction attempt.
func (m *Monitor) ObserveDeduction(result string) {
	m.deductions.WithLabelValues(result).Inc()
}

// ObserveRestoration counts one applied restoration.
func (m *Monitor) ObserveRestoration() {
	m.restorations.Inc()
}

// ObserveStock exports the item's current stock.
func (m *Monitor) ObserveStock(item models.InventoryItem) {
	labels := []string{stockLabel(item), string(item.Unit)}

	m.labelsMu.Lock()
	if old, ok := m.stockKeys[item.ID]; ok && (old[0] != labels[0] || old[1] != labels[1]) {
		m.stockLevel.DeleteLabelValues(old...)
	}
	m.stockKeys[item.ID] = labels
	m.labelsMu.Unlock()

	m.stockLevel.WithLabelValues(labels...).Set(item.CurrentStock.InexactFloat64())
}

// ForgetStock drops the series of a deleted item.
func (m *Monitor) ForgetStock(item models.InventoryItem) {
	m.labelsMu.Lock()
	defer m.labelsMu.Unlock()
	if old, ok := m.stockKeys[item.ID]; ok {
		m.stockLevel.DeleteLabelValues(old...)
		delete(m.stockKeys, item.ID)
	}
}

// ObserveAvailability exports the menu item's availability flag.
func (m *Monitor) ObserveAvailability(mi models.MenuItem) {
	label := menuLabel(mi)

	m.labelsMu.Lock()
	if old, ok := m.menuKeys[mi.ID]; ok && old != label {
		m.available.DeleteLabelValues(old)
	}
	m.menuKeys[mi.ID] = label
	m.labelsMu.Unlock()

	v := 0.0
	if mi.IsAvailable {
		v = 1
	}
	m.available.WithLabelValues(label).Set(v)
}

// ForgetMenuItem drops the series of a deleted menu item.
func (m *Monitor) ForgetMenuItem(mi models.MenuItem) {
	m.labelsMu.Lock()
	defer m.labelsMu.Unlock()
	if old, ok := m.menuKeys[mi.ID]; ok {
		m.available.DeleteLabelValues(old)
		delete(m.menuKeys, mi.ID)
	}
}

// ObserveAlert counts an inventory alert.
func (m *Monitor) ObserveAlert(alert ledger.AlertType) {
	m.alerts.WithLabelValues(string(alert)).Inc()
}

func stockLabel(item models.InventoryItem) string {
	if item.SKU != "" {
		return item.SKU
	}
	return item.ID
}

func menuLabel(mi models.MenuItem) string {
	if mi.Name != "" {
		return mi.Name
	}
	return mi.ID
}

var _ ledger.Observer = (*Monitor)(nil)
