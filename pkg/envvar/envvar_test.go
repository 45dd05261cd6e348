package envvar_test

import (
	"slices"
	"testing"

	"github.com/JaimeStill/sweep/pkg/envvar"
)

func TestString(t *testing.T) {
	t.Setenv("SWEEP_TEST_STRING", "override")

	got := "default"
	envvar.String(&got, "SWEEP_TEST_STRING")
	if got != "override" {
		t.Errorf("got %q, want override", got)
	}

	unchanged := "default"
	envvar.String(&unchanged, "")
	envvar.String(&unchanged, "SWEEP_TEST_UNSET")
	if unchanged != "default" {
		t.Errorf("got %q, want default", unchanged)
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"valid", "42", 42},
		{"invalid keeps default", "forty", 7},
		{"empty keeps default", "", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SWEEP_TEST_INT", tt.value)
			got := 7
			envvar.Int(&got, "SWEEP_TEST_INT")
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBool(t *testing.T) {
	t.Setenv("SWEEP_TEST_BOOL", "true")

	var got bool
	envvar.Bool(&got, "SWEEP_TEST_BOOL")
	if !got {
		t.Error("got false, want true")
	}
}

func TestList(t *testing.T) {
	t.Setenv("SWEEP_TEST_LIST", " a, b ,,c ")

	var got []string
	envvar.List(&got, "SWEEP_TEST_LIST")

	want := []string{"a", "b", "c"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
