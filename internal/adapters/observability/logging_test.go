package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogger_JSONOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("prod", &buf)
	logger.Info().Str("route", "/reviews").Msg("http_request")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
	}
	if line["message"] != "http_request" || line["route"] != "/reviews" {
		t.Fatalf("unexpected line: %v", line)
	}
	if _, ok := line["time"]; !ok {
		t.Fatalf("expected timestamp field")
	}
}

func TestNewLogger_ConsoleInDev(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("dev", &buf)
	logger.Info().Msg("hello")
	if strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected console output, got %q", buf.String())
	}
}
