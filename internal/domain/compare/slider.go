// Package compare holds the state of the before/after comparison slider.
//
// Position is the percent of the container width at which the divider sits.
// The before layer is clipped to the left Position percent; the after layer
// is drawn underneath at full width.
package compare

import "fmt"

const (
	MinPosition     = 0.0
	MaxPosition     = 100.0
	InitialPosition = 50.0
)

// Rect is the container's bounding box in client coordinates.
type Rect struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

type Slider struct {
	Position    float64 `json:"position"`
	Dragging    bool    `json:"dragging"`
	HintVisible bool    `json:"hint_visible"`
}

func New() *Slider {
	return &Slider{
		Position:    InitialPosition,
		HintVisible: true,
	}
}

// Clamp bounds v to [MinPosition, MaxPosition].
func Clamp(v float64) float64 {
	if v != v { // NaN
		return MinPosition
	}
	if v < MinPosition {
		return MinPosition
	}
	if v > MaxPosition {
		return MaxPosition
	}
	return v
}

// PositionAt converts a cursor x coordinate to a clamped percent of rect.
// ok is false for a degenerate rect.
func PositionAt(clientX float64, rect Rect) (float64, bool) {
	if rect.Width <= 0 {
		return 0, false
	}
	return Clamp((clientX - rect.Left) / rect.Width * 100), true
}

// PointerDown starts a drag and jumps the divider to the pointer.
func (s *Slider) PointerDown(clientX float64, rect Rect) {
	s.Dragging = true
	s.HintVisible = false
	s.track(clientX, rect)
}

// Move tracks the pointer while dragging; moves without a drag are ignored.
func (s *Slider) Move(clientX float64, rect Rect) {
	if !s.Dragging {
		return
	}
	s.track(clientX, rect)
}

func (s *Slider) PointerUp() { s.Dragging = false }
func (s *Slider) Leave()     { s.Dragging = false }
func (s *Slider) TouchEnd()  { s.Dragging = false }

func (s *Slider) track(clientX float64, rect Rect) {
	if pos, ok := PositionAt(clientX, rect); ok {
		s.Position = pos
	}
}

// ClipInset is the CSS clip-path for the before layer.
func (s *Slider) ClipInset() string {
	return fmt.Sprintf("inset(0 %.2f%% 0 0)", MaxPosition-Clamp(s.Position))
}

// DividerLeft is the CSS left offset of the divider line.
func (s *Slider) DividerLeft() string {
	return fmt.Sprintf("%.2f%%", Clamp(s.Position))
}
