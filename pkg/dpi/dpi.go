// Package dpi holds the position and size values used to place popup menus.
//
// Physical values are in device pixels; logical values are scaled by the
// window's DPI factor (1.0 at 96 DPI on Windows).
package dpi

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidScale is returned for non-positive or non-finite scale factors.
var ErrInvalidScale = errors.New("invalid scale factor")

// ValidScale reports whether scale can be used for conversions.
func ValidScale(scale float64) bool {
	return scale > 0 && !math.IsInf(scale, 0) && !math.IsNaN(scale)
}

// PhysicalPosition is a position in device pixels.
type PhysicalPosition struct {
	X int32 `json:"x" toml:"x"`
	Y int32 `json:"y" toml:"y"`
}

// ToLogical converts using the given scale factor.
func (p PhysicalPosition) ToLogical(scale float64) LogicalPosition {
	return LogicalPosition{X: float64(p.X) / scale, Y: float64(p.Y) / scale}
}

// LogicalPosition is a position in DPI-independent units.
type LogicalPosition struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// ToPhysical converts using the given scale factor, rounding to the nearest pixel.
func (p LogicalPosition) ToPhysical(scale float64) PhysicalPosition {
	return PhysicalPosition{X: round(p.X * scale), Y: round(p.Y * scale)}
}

// Position is either a physical or a logical position. Exactly one field is set.
type Position struct {
	Physical *PhysicalPosition `json:"physical,omitempty" toml:"physical,omitempty"`
	Logical  *LogicalPosition  `json:"logical,omitempty" toml:"logical,omitempty"`
}

// Physical returns a Position holding a physical value.
func Physical(x, y int32) Position {
	return Position{Physical: &PhysicalPosition{X: x, Y: y}}
}

// Logical returns a Position holding a logical value.
func Logical(x, y float64) Position {
	return Position{Logical: &LogicalPosition{X: x, Y: y}}
}

// ToPhysical resolves the position to device pixels.
func (p Position) ToPhysical(scale float64) (PhysicalPosition, error) {
	if err := p.validate(); err != nil {
		return PhysicalPosition{}, err
	}
	if p.Physical != nil {
		return *p.Physical, nil
	}
	if !ValidScale(scale) {
		return PhysicalPosition{}, fmt.Errorf("%w: %v", ErrInvalidScale, scale)
	}
	return p.Logical.ToPhysical(scale), nil
}

// ToLogical resolves the position to logical units.
func (p Position) ToLogical(scale float64) (LogicalPosition, error) {
	if err := p.validate(); err != nil {
		return LogicalPosition{}, err
	}
	if p.Logical != nil {
		return *p.Logical, nil
	}
	if !ValidScale(scale) {
		return LogicalPosition{}, fmt.Errorf("%w: %v", ErrInvalidScale, scale)
	}
	return p.Physical.ToLogical(scale), nil
}

func (p Position) validate() error {
	if (p.Physical == nil) == (p.Logical == nil) {
		return errors.New("position must be either physical or logical")
	}
	return nil
}

// UnmarshalJSON rejects documents that set both or neither variant.
func (p *Position) UnmarshalJSON(data []byte) error {
	type plain Position
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if err := Position(v).validate(); err != nil {
		return err
	}
	*p = Position(v)
	return nil
}

// PhysicalSize is a size in device pixels.
type PhysicalSize struct {
	Width  uint32 `json:"width" toml:"width"`
	Height uint32 `json:"height" toml:"height"`
}

// ToLogical converts using the given scale factor.
func (s PhysicalSize) ToLogical(scale float64) LogicalSize {
	return LogicalSize{Width: float64(s.Width) / scale, Height: float64(s.Height) / scale}
}

// LogicalSize is a size in DPI-independent units.
type LogicalSize struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// ToPhysical converts using the given scale factor. Negative results clamp to zero.
func (s LogicalSize) ToPhysical(scale float64) PhysicalSize {
	return PhysicalSize{Width: uround(s.Width * scale), Height: uround(s.Height * scale)}
}

// Size is either a physical or a logical size. Exactly one field is set.
type Size struct {
	Physical *PhysicalSize `json:"physical,omitempty" toml:"physical,omitempty"`
	Logical  *LogicalSize  `json:"logical,omitempty" toml:"logical,omitempty"`
}

// ToPhysical resolves the size to device pixels.
func (s Size) ToPhysical(scale float64) (PhysicalSize, error) {
	switch {
	case s.Physical != nil && s.Logical == nil:
		return *s.Physical, nil
	case s.Logical != nil && s.Physical == nil:
		if !ValidScale(scale) {
			return PhysicalSize{}, fmt.Errorf("%w: %v", ErrInvalidScale, scale)
		}
		return s.Logical.ToPhysical(scale), nil
	}
	return PhysicalSize{}, errors.New("size must be either physical or logical")
}

func round(v float64) int32 {
	r := math.Round(v)
	switch {
	case r > math.MaxInt32:
		return math.MaxInt32
	case r < math.MinInt32:
		return math.MinInt32
	}
	return int32(r)
}

func uround(v float64) uint32 {
	r := math.Round(v)
	switch {
	case r < 0:
		return 0
	case r > math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(r)
}
