// Package ptr provides helpers to generating pointers to inline values.
package ptr

import "time"

// Bool returns a pointer to the provided value.
func Bool(b bool) *bool {
	return &b
}

// Int returns a pointer to the provided value.
func Int(i int) *int {
	return &i
}

// Float64 returns a pointer to the provided value.
func Float64(f float64) *float64 {
	return &f
}

// String returns a pointer to the provided value.
func String(s string) *string {
	return &s
}

// StringNilEmpty returns nil if the value is empty otherwise it returns a pointer to the value.
func StringNilEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Time returns a pointer to the provided value.
func Time(t time.Time) *time.Time {
	return &t
}
