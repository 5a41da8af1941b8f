// Package visualizer carries the host-to-UI telemetry snapshot: meter
// levels, ripple band positions and LFO outputs.
package visualizer

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// EventName is the custom event channel the snapshot is emitted on.
	EventName = "visualizerData"
	// RippleBandCount is the number of ripple bands in a snapshot.
	RippleBandCount = 16
	// LFOCount is the number of LFO values in a snapshot.
	LFOCount = 4
)

// ErrInvalidPayload is wrapped by Decode when a payload fails validation.
var ErrInvalidPayload = errors.New("invalid visualizer payload")

// Data is one visualizer snapshot. It is a value type: each snapshot
// replaces the previous one wholesale.
type Data struct {
	InputLevel  float64                  `json:"inputLevel"`
	OutputLevel float64                  `json:"outputLevel"`
	RippleBands [RippleBandCount]float64 `json:"rippleBands"`
	LFOValues   [LFOCount]float64        `json:"lfoValues"`
}

// Default is the snapshot shown before the host sends anything: silent
// meters with every band and LFO centred.
func Default() Data {
	d := Data{}
	for i := range d.RippleBands {
		d.RippleBands[i] = 0.5
	}
	for i := range d.LFOValues {
		d.LFOValues[i] = 0.5
	}
	return d
}

// Decode validates payload against the snapshot schema and decodes it.
func Decode(payload []byte) (Data, error) {
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := payloadSchema().Validate(doc); err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var d Data
	if err := json.Unmarshal(payload, &d); err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return d, nil
}
