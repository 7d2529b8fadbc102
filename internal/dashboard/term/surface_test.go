package term

import (
	"bytes"
	"strings"
	"testing"

	"greenpulse/internal/dashboard"
)

func TestSurface_RendersSlots(t *testing.T) {
	var buf bytes.Buffer
	s := NewSurface(&buf, false)

	s.SetEnabled(dashboard.SlotRefreshButton, true)
	s.SetText(dashboard.SlotCurrentScore, "7.50")
	s.SetText(dashboard.SlotCurrentStatus, "Safe")
	s.SetText(dashboard.SlotCOValue, "1.20")

	out := buf.String()
	for _, want := range []string{"7.50", "Safe", "1.20", "GreenPulse"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSurface_ColorCodes(t *testing.T) {
	var buf bytes.Buffer
	s := NewSurface(&buf, true)
	s.SetText(dashboard.SlotCurrentScore, "3.10")
	s.SetClass(dashboard.SlotCurrentScore, "red")

	if !strings.Contains(buf.String(), "\033[31m3.10\033[0m") {
		t.Error("red class not rendered as ANSI red")
	}

	buf.Reset()
	plain := NewSurface(&buf, false)
	plain.SetText(dashboard.SlotCurrentScore, "3.10")
	plain.SetClass(dashboard.SlotCurrentScore, "red")
	if strings.Contains(buf.String(), "\033[31m") {
		t.Error("ANSI color emitted with color disabled")
	}
}

func TestSurface_AlertVisibility(t *testing.T) {
	var buf bytes.Buffer
	s := NewSurface(&buf, false)
	s.SetText(dashboard.SlotAlertMessage, "High emission levels detected! Current score: 3.99")
	s.SetVisible(dashboard.SlotAlertBanner, true)
	if !strings.Contains(buf.String(), "High emission levels detected!") {
		t.Error("visible alert banner not painted")
	}

	buf.Reset()
	s.SetVisible(dashboard.SlotAlertBanner, false)
	if strings.Contains(lastFrame(buf.String()), "High emission levels detected!") {
		t.Error("hidden alert banner still painted")
	}
}

func TestNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := &Notifier{Out: &buf}
	n.Notify("Network error. Please try again.")
	if !strings.Contains(buf.String(), "Network error. Please try again.") {
		t.Errorf("notification missing from output: %q", buf.String())
	}
}

// lastFrame strips everything before the final cursor-up sequence so
// assertions see only the most recent repaint.
func lastFrame(out string) string {
	const up = "\033[10A"
	if i := strings.LastIndex(out, up); i >= 0 {
		return out[i:]
	}
	return out
}
