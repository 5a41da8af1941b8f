package visualizer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() string {
	bands := strings.TrimSuffix(strings.Repeat("0.25,", RippleBandCount), ",")
	return `{"inputLevel":0.8,"outputLevel":0.6,"rippleBands":[` + bands + `],"lfoValues":[0,0.25,0.5,1]}`
}

func TestDefault(t *testing.T) {
	d := Default()
	assert.Zero(t, d.InputLevel)
	assert.Zero(t, d.OutputLevel)
	for _, v := range d.RippleBands {
		assert.Equal(t, 0.5, v)
	}
	for _, v := range d.LFOValues {
		assert.Equal(t, 0.5, v)
	}
}

func TestDecode(t *testing.T) {
	d, err := Decode([]byte(validPayload()))
	require.NoError(t, err)

	assert.Equal(t, 0.8, d.InputLevel)
	assert.Equal(t, 0.6, d.OutputLevel)
	assert.Equal(t, 0.25, d.RippleBands[15])
	assert.Equal(t, [LFOCount]float64{0, 0.25, 0.5, 1}, d.LFOValues)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"NotJSON", `{"inputLevel":`},
		{"NotObject", `[1,2,3]`},
		{"MissingField", `{"inputLevel":0,"outputLevel":0,"rippleBands":[]}`},
		{"ShortBands", `{"inputLevel":0,"outputLevel":0,"rippleBands":[0.5],"lfoValues":[0,0,0,0]}`},
		{"LongLFOs", strings.Replace(validPayload(), `[0,0.25,0.5,1]`, `[0,0,0,0,0]`, 1)},
		{"NegativeLevel", strings.Replace(validPayload(), `"inputLevel":0.8`, `"inputLevel":-1`, 1)},
		{"StringLevel", strings.Replace(validPayload(), `"outputLevel":0.6`, `"outputLevel":"loud"`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.payload))
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestDataJSONFieldNames(t *testing.T) {
	raw, err := json.Marshal(Default())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"inputLevel", "outputLevel", "rippleBands", "lfoValues"} {
		assert.Contains(t, fields, key)
	}

	d, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, Default(), d)
}
