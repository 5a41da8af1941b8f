package param

import (
	"fmt"
	"strconv"
	"strings"
)

// Formatters and parsers for the units used by the layouts.

// FrequencyFormatter formats frequency values with Hz/kHz
func FrequencyFormatter(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%.2f kHz", hz/1000)
	}
	return fmt.Sprintf("%.2f Hz", hz)
}

// FrequencyParser parses frequency strings
func FrequencyParser(str string) (float64, error) {
	str = strings.TrimSpace(str)
	lower := strings.ToLower(str)

	if strings.HasSuffix(lower, "khz") {
		val, err := parseNumber(str[:len(str)-3])
		if err != nil {
			return 0, err
		}
		return val * 1000, nil
	}
	if strings.HasSuffix(lower, "hz") {
		str = str[:len(str)-2]
	}
	return parseNumber(str)
}

// DecibelFormatter formats dB values
func DecibelFormatter(db float64) string {
	if db <= -60 {
		return "-∞ dB"
	}
	return fmt.Sprintf("%.1f dB", db)
}

// DecibelParser parses dB strings
func DecibelParser(str string) (float64, error) {
	if strings.Contains(str, "∞") || strings.Contains(str, "inf") {
		return -96.0, nil
	}
	str = strings.TrimSpace(str)
	if strings.HasSuffix(strings.ToLower(str), "db") {
		str = str[:len(str)-2]
	}
	return parseNumber(str)
}

// PercentFormatter formats percentage values
func PercentFormatter(value float64) string {
	return fmt.Sprintf("%.0f%%", value)
}

// PercentParser parses percentage strings
func PercentParser(str string) (float64, error) {
	return parseNumber(strings.TrimSuffix(strings.TrimSpace(str), "%"))
}

// DegreeFormatter formats phase offsets.
func DegreeFormatter(deg float64) string {
	return fmt.Sprintf("%.0f°", deg)
}

// DegreeParser parses phase offsets with or without a degree sign.
func DegreeParser(str string) (float64, error) {
	str = strings.TrimSpace(str)
	str = strings.TrimSuffix(str, "deg")
	str = strings.TrimSuffix(str, "°")
	return parseNumber(str)
}

func parseNumber(str string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", str, err)
	}
	return v, nil
}
