// Package model defines the core data types flowing through the service.
package model

import (
	"encoding/json"
	"math"
	"time"
)

// Axis is an optional acceleration component. Platforms may report any
// axis as null or omit it entirely; an absent axis reads as zero.
type Axis struct {
	value   float64
	present bool
}

// AxisOf returns a present axis holding v.
func AxisOf(v float64) Axis {
	return Axis{value: v, present: true}
}

// Value returns the axis value, or 0 when absent.
func (a Axis) Value() float64 {
	if !a.present {
		return 0
	}
	return a.value
}

// Present reports whether the axis carried a value.
func (a Axis) Present() bool { return a.present }

// MarshalJSON encodes a present axis as its value and an absent one as null.
func (a Axis) MarshalJSON() ([]byte, error) {
	if !a.present {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

// UnmarshalJSON decodes null as absent and any number as present.
func (a *Axis) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Axis{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Axis{value: v, present: true}
	return nil
}

// Sample is a single 3-axis acceleration reading. Samples are transient:
// consumed immediately by the detector and never queued or persisted.
type Sample struct {
	X Axis `json:"x"`
	Y Axis `json:"y"`
	Z Axis `json:"z"`
}

// NewSample builds a sample with all three axes present.
func NewSample(x, y, z float64) Sample {
	return Sample{X: AxisOf(x), Y: AxisOf(y), Z: AxisOf(z)}
}

// Magnitude returns the Euclidean norm of the sample, treating absent
// axes as zero.
func (s Sample) Magnitude() float64 {
	x, y, z := s.X.Value(), s.Y.Value(), s.Z.Value()
	return math.Sqrt(x*x + y*y + z*z)
}

// Submission is the upstream payload a client sends when a detection
// fires and has been geotagged.
type Submission struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Intensity float64 `json:"intensity"`
}

// Event is a persisted pothole record. Events are immutable after
// creation; ID and Timestamp are assigned server-side at receipt.
type Event struct {
	ID        string    `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Intensity float64   `json:"intensity"`
	Timestamp time.Time `json:"timestamp"`
}
