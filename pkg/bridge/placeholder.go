package bridge

import "encoding/json"

// Placeholder is implemented by handles that have no parameter behind them.
type Placeholder interface {
	IsPlaceholder() bool
}

// IsPlaceholder reports whether handle is a placeholder.
func IsPlaceholder(handle any) bool {
	p, ok := handle.(Placeholder)
	return ok && p.IsPlaceholder()
}

type silentEvent struct{}

func (silentEvent) AddListener(func()) func() { return func() {} }

type placeholderSlider struct{}

func (placeholderSlider) GetNormalisedValue() float64 { return 0 }
func (placeholderSlider) SetNormalisedValue(float64) {}
func (placeholderSlider) SliderDragStarted() {}
func (placeholderSlider) SliderDragEnded() {}
func (placeholderSlider) ValueChangedEvent() Event { return silentEvent{} }
func (placeholderSlider) IsPlaceholder() bool { return true }

type placeholderToggle struct{}

func (placeholderToggle) GetValue() bool { return false }
func (placeholderToggle) SetValue(bool) {}
func (placeholderToggle) ValueChangedEvent() Event { return silentEvent{} }
func (placeholderToggle) IsPlaceholder() bool { return true }

type placeholderCombo struct{}

func (placeholderCombo) GetChoiceIndex() int { return 0 }
func (placeholderCombo) SetChoiceIndex(int) {}
func (placeholderCombo) GetChoices() []string { return []string{} }
func (placeholderCombo) ValueChangedEvent() Event { return silentEvent{} }
func (placeholderCombo) PropertiesChangedEvent() Event { return silentEvent{} }
func (placeholderCombo) IsPlaceholder() bool { return true }

type disconnected struct{}

// Disconnected returns the bridge used when no host is attached, such as a
// browser preview of the UI.
func Disconnected() Bridge {
	return disconnected{}
}

func (disconnected) IsInWebView() bool { return false }
func (disconnected) GetSliderState(string) SliderState { return placeholderSlider{} }
func (disconnected) GetToggleState(string) ToggleState { return placeholderToggle{} }
func (disconnected) GetComboBoxState(string) ComboBoxState { return placeholderCombo{} }
func (disconnected) AddCustomEventListener(string, func(json.RawMessage)) func() {
	return func() {}
}
