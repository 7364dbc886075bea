package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_AddsServiceAndComponent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "debug", Output: &buf, Service: "campus-api"})

	log := Component("mail")
	log.Info().Msg("queued")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one json line, got %q: %v", buf.String(), err)
	}
	if line["service"] != "campus-api" || line["component"] != "mail" {
		t.Fatalf("unexpected fields: %+v", line)
	}
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Init(Options{Level: "error", Output: &bytes.Buffer{}})
	Init(Options{Level: "debug", Output: &bytes.Buffer{}})

	if got := Get().GetLevel(); got != zerolog.ErrorLevel {
		t.Fatalf("expected error level, got %s", got)
	}
}

func TestNew_DoesNotTouchSingleton(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	log := New(Options{Level: "warn", Output: &buf})
	log.Info().Msg("filtered")
	log.Warn().Msg("kept")

	if strings.Contains(buf.String(), "filtered") || !strings.Contains(buf.String(), "kept") {
		t.Fatalf("unexpected output: %q", buf.String())
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected Get to panic, New must not initialise the singleton")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		" DEBUG ": zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Get()
}
