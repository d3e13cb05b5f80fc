package utils

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"error value", errors.New("x"), "x"},
		{"map with message", map[string]interface{}{"message": "y"}, "y"},
		{"map with description", map[string]interface{}{"description": "z"}, "z"},
		{"empty map", map[string]interface{}{}, fallbackErrorMessage},
		{"nil", nil, fallbackErrorMessage},
		{"empty string", "", fallbackErrorMessage},
		{"plain string", "boom", "boom"},
		{"unmarshalable value", make(chan int), fallbackErrorMessage},
		{"struct without message", struct{}{}, fallbackErrorMessage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ErrorMessage(tc.input)
			if got != tc.want {
				t.Errorf("ErrorMessage(%v) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

// Whatever comes in, the user never sees an empty string or a useless
// object dump.
func TestErrorMessageNeverObjectObject(t *testing.T) {
	inputs := []interface{}{
		nil,
		errors.New(""),
		map[string]interface{}{},
		map[string]interface{}{"code": 42},
		struct{ X int }{1},
		make(chan int),
	}

	for _, input := range inputs {
		got := ErrorMessage(input)
		if got == "" {
			t.Errorf("ErrorMessage(%v) returned empty string", input)
		}
		if strings.Contains(got, "[object Object]") {
			t.Errorf("ErrorMessage(%v) = %q", input, got)
		}
	}
}
