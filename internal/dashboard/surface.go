// Package dashboard owns the refresh/render cycle of the emission
// dashboard: fetch the payload, distribute it into the score panel, the
// prediction panel, the historical chart and the alert banner, and keep the
// refresh control's two-state indicator honest.
package dashboard

import "greenpulse/internal/modules/emissions/types"

// Slot names the rendering targets the controller writes to. They mirror
// the element ids of the dashboard page.
type Slot string

const (
	SlotRefreshButton   Slot = "refresh-btn"
	SlotCurrentScore    Slot = "current-score"
	SlotCurrentStatus   Slot = "current-status"
	SlotPredictedScore  Slot = "predicted-score"
	SlotPredictedStatus Slot = "predicted-status"
	SlotCOValue         Slot = "co-value"
	SlotNOxValue        Slot = "nox-value"
	SlotNO2Value        Slot = "no2-value"
	SlotTempValue       Slot = "temp-value"
	SlotAlertBanner     Slot = "alert-banner"
	SlotAlertMessage    Slot = "alert-message"
	SlotLastUpdate      Slot = "last-update"
)

// Surface is the capability set the controller needs from a rendering
// target. Implementations exist for the terminal watch client and for
// tests; the controller never touches a concrete display.
type Surface interface {
	SetText(slot Slot, text string)
	SetClass(slot Slot, class string)
	SetVisible(slot Slot, visible bool)
	SetEnabled(slot Slot, enabled bool)
}

// Notifier surfaces blocking error notifications to the user.
type Notifier interface {
	Notify(message string)
}

// Handle is a live chart instance. At most one exists per controller;
// the previous one is disposed before each render.
type Handle interface {
	Dispose()
}

// Chart is a black-box renderer consuming the historical score series.
type Chart interface {
	Render(points []types.HistoricalPoint) (Handle, error)
}

// ButtonState is the refresh control's two-state indicator.
type ButtonState int

const (
	Idle ButtonState = iota
	Loading
)

func (s ButtonState) String() string {
	if s == Loading {
		return "loading"
	}
	return "idle"
}
