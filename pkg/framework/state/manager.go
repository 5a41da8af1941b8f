// Package state saves and restores host parameter values.
package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/justyntemme/paramrelay/pkg/framework/param"
)

const magic = "PRELAY"

// ErrInvalidFormat is returned when a stream does not start with the state
// header.
var ErrInvalidFormat = errors.New("invalid state format")

// Manager handles plugin state saving and loading
type Manager struct {
	version  uint32
	registry *param.Registry
}

// NewManager creates a new state manager
func NewManager(registry *param.Registry) *Manager {
	return &Manager{
		version:  1,
		registry: registry,
	}
}

// Save writes every parameter value to w.
func (m *Manager) Save(w io.Writer) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, m.version); err != nil {
		return fmt.Errorf("write version: %w", err)
	}

	params := m.registry.All()
	if err := binary.Write(w, binary.LittleEndian, uint32(len(params))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}

	for _, p := range params {
		if len(p.ID) > math.MaxUint16 {
			return fmt.Errorf("parameter id too long: %d bytes", len(p.ID))
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(len(p.ID))); err != nil {
			return fmt.Errorf("write id length: %w", err)
		}
		if _, err := io.WriteString(w, p.ID); err != nil {
			return fmt.Errorf("write id %s: %w", p.ID, err)
		}
		if err := binary.Write(w, binary.LittleEndian, p.GetValue()); err != nil {
			return fmt.Errorf("write value %s: %w", p.ID, err)
		}
	}
	return nil
}

// Load reads a stream written by Save and applies the values. Listeners see
// the manager as the change origin. Unknown parameters are skipped.
func (m *Manager) Load(r io.Reader) error {
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if string(header) != magic {
		return ErrInvalidFormat
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if version > m.version {
		return fmt.Errorf("state version %d is newer than supported version %d", version, m.version)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("read count: %w", err)
	}

	// Read everything first so a truncated stream changes nothing.
	values := make(map[string]float64, count)
	order := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return fmt.Errorf("read id length: %w", err)
		}
		id := make([]byte, n)
		if _, err := io.ReadFull(r, id); err != nil {
			return fmt.Errorf("read id: %w", err)
		}
		var value float64
		if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
			return fmt.Errorf("read value %s: %w", id, err)
		}
		values[string(id)] = value
		order = append(order, string(id))
	}

	for _, id := range order {
		if p := m.registry.Get(id); p != nil {
			p.SetValueFrom(values[id], m)
		}
	}
	return nil
}
