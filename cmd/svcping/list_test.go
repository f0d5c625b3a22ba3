package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/svcping/internal/protocol"
)

func executeList(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd := NewListCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestListCommand(t *testing.T) {
	t.Parallel()

	t.Run("lists every protocol", func(t *testing.T) {
		t.Parallel()

		out, err := executeList(t)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"PROTOCOL", "HTCPCP", "MQTT", "1883"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q\n%s", want, out)
			}
		}
	})

	t.Run("filters by capability", func(t *testing.T) {
		t.Parallel()

		out, err := executeList(t, "--capability", "server-fuzz", "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var descriptors []struct {
			ShortName string `json:"short_name"`
		}
		if err := json.Unmarshal([]byte(out), &descriptors); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}

		want := protocol.DefaultRegistry().ListByCapability(protocol.CapabilityServerFuzz)
		if len(descriptors) != len(want) {
			t.Fatalf("expected %d protocols, got %d", len(want), len(descriptors))
		}
		for i, d := range descriptors {
			if d.ShortName != want[i].Descriptor().ShortName {
				t.Errorf("protocol %d = %q, want %q", i, d.ShortName, want[i].Descriptor().ShortName)
			}
		}
	})

	t.Run("markdown table", func(t *testing.T) {
		t.Parallel()

		out, err := executeList(t, "--markdown")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "## Supported protocols") || !strings.Contains(out, "|") {
			t.Errorf("unexpected output\n%s", out)
		}
	})

	t.Run("unknown capability is rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := executeList(t, "--capability", "teleport"); !errors.Is(err, protocol.ErrUnknownCapability) {
			t.Errorf("expected ErrUnknownCapability, got %v", err)
		}
	})

	t.Run("json and markdown are exclusive", func(t *testing.T) {
		t.Parallel()

		if _, err := executeList(t, "--json", "--markdown"); err == nil {
			t.Error("expected an error")
		}
	})
}
