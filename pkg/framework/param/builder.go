// Package param provides the host-side parameter model that web view
// relays bind to.
package param

import "math"

// Builder provides a fluent API for creating parameters
type Builder struct {
	param *Parameter
}

// New creates a new parameter builder
func New(id, name string) *Builder {
	return &Builder{
		param: &Parameter{
			ID:        id,
			Name:      name,
			ShortName: name,
			Min:       0,
			Max:       1,
			Flags:     CanAutomate,
		},
	}
}

// ShortName sets the short name
func (b *Builder) ShortName(name string) *Builder {
	b.param.ShortName = name
	return b
}

// Range sets the min and max values
func (b *Builder) Range(min, max float64) *Builder {
	b.param.Min = min
	b.param.Max = max
	return b
}

// Default sets the default value (in plain range, not normalized)
func (b *Builder) Default(value float64) *Builder {
	b.param.DefaultValue = b.param.Normalize(value)
	return b
}

// Unit sets the unit string
func (b *Builder) Unit(unit string) *Builder {
	b.param.Unit = unit
	return b
}

// Steps sets the number of discrete steps
func (b *Builder) Steps(count int32) *Builder {
	b.param.StepCount = count
	return b
}

// Toggle creates a boolean parameter
func (b *Builder) Toggle() *Builder {
	b.param.Min = 0
	b.param.Max = 1
	b.param.StepCount = 1
	b.param.DefaultValue = 0
	return b
}

// Choices makes this an enumerated parameter. Call Default afterwards with
// an index to pick the initial choice.
func (b *Builder) Choices(names ...string) *Builder {
	b.param.choices = append([]string(nil), names...)
	b.param.Min = 0
	b.param.Max = float64(max(len(names)-1, 0))
	b.param.StepCount = int32(max(len(names)-1, 0))
	b.param.DefaultValue = 0
	b.param.Flags |= IsList
	return b
}

// ReadOnly marks the parameter as read-only
func (b *Builder) ReadOnly() *Builder {
	b.param.Flags |= IsReadOnly
	b.param.Flags &^= CanAutomate
	return b
}

// Hidden marks the parameter as hidden
func (b *Builder) Hidden() *Builder {
	b.param.Flags |= IsHidden
	return b
}

// Bypass marks this as the bypass parameter
func (b *Builder) Bypass() *Builder {
	b.param.Flags |= IsBypass
	return b
}

// Formatter sets custom value formatting and parsing
func (b *Builder) Formatter(format func(float64) string, parse func(string) (float64, error)) *Builder {
	b.param.formatFunc = format
	b.param.parseFunc = parse
	return b
}

// Build returns the configured parameter
func (b *Builder) Build() *Parameter {
	b.param.value.Store(math.Float64bits(b.param.DefaultValue))
	return b.param
}
