// Package test provides minimal assertion helpers for tests.
package test

import (
	"reflect"
	"testing"
)

// OK fails the test immediately if err is not nil.
func OK(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
}

// Equals fails the test immediately if the expected and actual values are not deeply equal.
func Equals(t testing.TB, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("\n\texpected: %#v\n\tgot:      %#v", expected, actual)
	}
}

// Assert fails the test immediately if the condition is false.
func Assert(t testing.TB, condition bool, msg string, v ...interface{}) {
	t.Helper()
	if !condition {
		t.Fatalf(msg, v...)
	}
}
