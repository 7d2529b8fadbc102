// Package term renders the dashboard surface as a text panel on a
// terminal, redrawn in place on every refresh.
package term

import (
	"fmt"
	"io"
	"sync"

	"greenpulse/internal/dashboard"
)

var colorCodes = map[string]string{
	"green":  "\033[32m",
	"yellow": "\033[33m",
	"amber":  "\033[33m",
	"red":    "\033[31m",
}

const colorReset = "\033[0m"

// Surface implements dashboard.Surface by buffering slot state and
// repainting the whole panel whenever something changes.
type Surface struct {
	mu      sync.Mutex
	out     io.Writer
	color   bool
	drawn   bool
	texts   map[dashboard.Slot]string
	classes map[dashboard.Slot]string
	visible map[dashboard.Slot]bool
	enabled map[dashboard.Slot]bool
}

func NewSurface(out io.Writer, color bool) *Surface {
	return &Surface{
		out:     out,
		color:   color,
		texts:   make(map[dashboard.Slot]string),
		classes: make(map[dashboard.Slot]string),
		visible: make(map[dashboard.Slot]bool),
		enabled: make(map[dashboard.Slot]bool),
	}
}

func (s *Surface) SetText(slot dashboard.Slot, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[slot] = text
	s.repaint()
}

func (s *Surface) SetClass(slot dashboard.Slot, class string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes[slot] = class
	s.repaint()
}

func (s *Surface) SetVisible(slot dashboard.Slot, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible[slot] = visible
	s.repaint()
}

func (s *Surface) SetEnabled(slot dashboard.Slot, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled[slot] = enabled
	s.repaint()
}

const panelLines = 10

// repaint redraws the panel; after the first draw the cursor is moved back
// up so the panel overwrites itself instead of scrolling.
func (s *Surface) repaint() {
	if s.drawn {
		fmt.Fprintf(s.out, "\033[%dA", panelLines)
	}
	s.drawn = true

	state := "ready"
	if !s.enabled[dashboard.SlotRefreshButton] {
		state = s.texts[dashboard.SlotRefreshButton]
	}

	fmt.Fprintf(s.out, "\033[2K  GreenPulse  [%s]\n", state)
	fmt.Fprintf(s.out, "\033[2K  ────────────────────────────────────\n")
	fmt.Fprintf(s.out, "\033[2K  Score:      %s %s\n",
		s.colored(dashboard.SlotCurrentScore), s.colored(dashboard.SlotCurrentStatus))
	fmt.Fprintf(s.out, "\033[2K  Predicted:  %s %s\n",
		s.colored(dashboard.SlotPredictedScore), s.colored(dashboard.SlotPredictedStatus))
	fmt.Fprintf(s.out, "\033[2K  CO: %s   NOx: %s   NO2: %s   Temp: %s°C\n",
		s.texts[dashboard.SlotCOValue], s.texts[dashboard.SlotNOxValue],
		s.texts[dashboard.SlotNO2Value], s.texts[dashboard.SlotTempValue])
	fmt.Fprintf(s.out, "\033[2K  Updated:    %s\n", s.texts[dashboard.SlotLastUpdate])
	fmt.Fprintf(s.out, "\033[2K\n")
	if s.visible[dashboard.SlotAlertBanner] {
		fmt.Fprintf(s.out, "\033[2K  !! %s\n", s.texts[dashboard.SlotAlertMessage])
	} else {
		fmt.Fprintf(s.out, "\033[2K\n")
	}
	fmt.Fprintf(s.out, "\033[2K  ────────────────────────────────────\n")
	fmt.Fprintf(s.out, "\033[2K\n")
}

func (s *Surface) colored(slot dashboard.Slot) string {
	text := s.texts[slot]
	if !s.color {
		return text
	}
	code, ok := colorCodes[s.classes[slot]]
	if !ok {
		return text
	}
	return code + text + colorReset
}

// Notifier prints blocking-style error notifications below the panel.
type Notifier struct {
	Out io.Writer
}

func (n *Notifier) Notify(message string) {
	fmt.Fprintf(n.Out, "  [!] %s\n", message)
}
