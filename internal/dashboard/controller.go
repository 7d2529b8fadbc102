package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"greenpulse/internal/modules/emissions/score"
	"greenpulse/internal/modules/emissions/types"
)

const (
	idleLabel    = "Refresh"
	loadingLabel = "Refreshing..."

	msgApplicationError = "Failed to fetch data"
	msgTransportError   = "Network error. Please try again."
)

// Fetcher is the data source of a refresh cycle; *Client is the real one.
type Fetcher interface {
	FetchRefresh(ctx context.Context) (*types.RefreshResponse, error)
}

// Controller owns the refresh lifecycle. All rendering goes through the
// injected Surface, the chart through the injected Chart renderer, and
// error notifications through the Notifier, so the controller runs
// unchanged against a terminal, a test fake, or anything else.
type Controller struct {
	fetcher  Fetcher
	surface  Surface
	chart    Chart
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	state  ButtonState
	handle Handle
}

func NewController(fetcher Fetcher, surface Surface, chart Chart, notifier Notifier, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		fetcher:  fetcher,
		surface:  surface,
		chart:    chart,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		state:    Idle,
	}
}

// Initialize resets the refresh control and performs the first refresh.
// Call once; the caller owns the trigger (button, ticker) that drives
// subsequent Refresh calls.
func (c *Controller) Initialize(ctx context.Context) {
	c.surface.SetText(SlotRefreshButton, idleLabel)
	c.surface.SetEnabled(SlotRefreshButton, true)
	c.Refresh(ctx)
}

// State reports the refresh control's current indicator state.
func (c *Controller) State() ButtonState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Refresh runs one fetch/render cycle. Triggers arriving while a cycle is
// already in flight are ignored; the in-flight cycle will restore the
// control to Idle when it resolves.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	if c.state == Loading {
		c.mu.Unlock()
		c.logger.Debug("refresh ignored: already loading")
		return
	}
	c.state = Loading
	c.mu.Unlock()

	c.surface.SetEnabled(SlotRefreshButton, false)
	c.surface.SetText(SlotRefreshButton, loadingLabel)

	defer func() {
		c.surface.SetEnabled(SlotRefreshButton, true)
		c.surface.SetText(SlotRefreshButton, idleLabel)
		c.mu.Lock()
		c.state = Idle
		c.mu.Unlock()
	}()

	resp, err := c.fetcher.FetchRefresh(ctx)
	if err != nil {
		switch {
		case errors.Is(err, ErrApplication):
			c.notifier.Notify(msgApplicationError)
		default:
			c.logger.Error("refresh fetch failed", "error", err)
			c.notifier.Notify(msgTransportError)
		}
		return
	}

	c.renderCurrent(resp.Current)
	c.renderPrediction(resp.Prediction)
	c.renderChart(resp.Historical)
	c.checkAlert(resp.Current.Score)
	c.updateTimestamp()
}

// fixed formats v with prec decimals, rounding halves away from zero
// like the browser's toFixed. Sprintf's %f rounds halves to even, which
// would show 20.25 as "20.2" where toFixed(1) shows "20.3".
func fixed(v float64, prec int) string {
	shift := math.Pow(10, float64(prec))
	return strconv.FormatFloat(math.Round(v*shift)/shift, 'f', prec, 64)
}

func (c *Controller) renderCurrent(r types.Reading) {
	c.surface.SetText(SlotCurrentScore, fixed(r.Score, 2))
	c.surface.SetClass(SlotCurrentScore, r.Color)
	c.surface.SetText(SlotCurrentStatus, r.Status)
	c.surface.SetClass(SlotCurrentStatus, r.Color)
	c.surface.SetText(SlotCOValue, fixed(r.CO, 2))
	c.surface.SetText(SlotNOxValue, fixed(r.NOx, 1))
	c.surface.SetText(SlotNO2Value, fixed(r.NO2, 1))
	c.surface.SetText(SlotTempValue, fixed(r.Temp, 1))
}

func (c *Controller) renderPrediction(p types.Prediction) {
	c.surface.SetText(SlotPredictedScore, fixed(p.Score, 2))
	c.surface.SetClass(SlotPredictedScore, p.Color)
	c.surface.SetText(SlotPredictedStatus, p.Status)
	c.surface.SetClass(SlotPredictedStatus, p.Color)
}

// renderChart replaces the live chart instance: the previous handle is
// disposed before the new render, so repeated refreshes never accumulate
// chart instances.
func (c *Controller) renderChart(points []types.HistoricalPoint) {
	c.mu.Lock()
	old := c.handle
	c.handle = nil
	c.mu.Unlock()
	if old != nil {
		old.Dispose()
	}

	h, err := c.chart.Render(points)
	if err != nil {
		c.logger.Warn("chart render failed", "points", len(points), "error", err)
		return
	}
	c.mu.Lock()
	c.handle = h
	c.mu.Unlock()
}

func (c *Controller) checkAlert(s float64) {
	if s < score.AlertThreshold {
		c.surface.SetText(SlotAlertMessage,
			fmt.Sprintf("High emission levels detected! Current score: %s", fixed(s, 2)))
		c.surface.SetVisible(SlotAlertBanner, true)
		return
	}
	c.surface.SetVisible(SlotAlertBanner, false)
}

func (c *Controller) updateTimestamp() {
	c.surface.SetText(SlotLastUpdate, c.now().Format("Jan 2, 2006, 15:04:05"))
}
