package shared

import (
	"bytes"
	"strings"
	"testing"
)

func TestShared(t *testing.T) {
	t.Run("NewLogger", func(t *testing.T) {
		t.Run("With Writer", func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf)
			if logger == nil {
				t.Fatal("expected logger to be created")
			}

			logger.Info("hello")
			if !strings.Contains(buf.String(), "hello") {
				t.Errorf("expected log output to contain message, got %q", buf.String())
			}
		})

		t.Run("With Nil Writer", func(t *testing.T) {
			logger := NewLogger(nil)
			if logger == nil {
				t.Fatal("expected logger to be created with default writer")
			}
		})
	})

	t.Run("GenerateID", func(t *testing.T) {
		a := GenerateID()
		b := GenerateID()

		if a == "" || b == "" {
			t.Fatal("expected non-empty IDs")
		}
		if a == b {
			t.Error("expected unique IDs")
		}
		if len(a) != 36 {
			t.Errorf("expected UUID format, got %q", a)
		}
	})

	t.Run("FormatRuntime", func(t *testing.T) {
		cases := []struct {
			minutes int
			want    string
		}{
			{60, "1시간"},
			{90, "1시간 30분"},
			{120, "2시간"},
			{150, "2시간 30분"},
			{180, "3시간"},
			{45, "45분"},
		}

		for _, tc := range cases {
			if got := FormatRuntime(tc.minutes); got != tc.want {
				t.Errorf("FormatRuntime(%d) = %q, want %q", tc.minutes, got, tc.want)
			}
		}
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		data := map[string]int{"a": 1}

		plain, err := MarshalJSON(data, false)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}
		if string(plain) != `{"a":1}` {
			t.Errorf("unexpected compact output: %s", plain)
		}

		pretty, err := MarshalJSON(data, true)
		if err != nil {
			t.Fatalf("failed to marshal pretty: %v", err)
		}
		if !strings.Contains(string(pretty), "\n") {
			t.Error("expected indented output to contain newlines")
		}
	})
}
