package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "svcping" {
			t.Errorf("expected use 'svcping', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions and version", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has log-json flag", func(t *testing.T) {
		t.Parallel()
		if cmd.PersistentFlags().Lookup("log-json") == nil {
			t.Fatal("expected log-json flag")
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{"ping": false, "list": false, "decode": false, "init": false, "version": false}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage || !cmd.SilenceErrors {
			t.Error("expected SilenceUsage and SilenceErrors to be true")
		}
	})
}

func TestGetBoolFlag(t *testing.T) {
	t.Parallel()

	t.Run("returns false for a missing flag", func(t *testing.T) {
		t.Parallel()
		if getBoolFlag(&cobra.Command{Use: "bare"}, "verbose") {
			t.Error("expected false")
		}
	})

	t.Run("reads the root persistent flag", func(t *testing.T) {
		t.Parallel()

		root := NewRootCmd()
		if err := root.PersistentFlags().Set("verbose", "true"); err != nil {
			t.Fatal(err)
		}
		ping, _, err := root.Find([]string{"ping"})
		if err != nil {
			t.Fatal(err)
		}
		if !getBoolFlag(ping, "verbose") {
			t.Error("expected true from the root flag")
		}
	})
}

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	t.Run("text logger masks secrets", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		setupLogger(&buf, false, false).Warn("connect", "password", "hunter2")
		if strings.Contains(buf.String(), "hunter2") {
			t.Errorf("secret leaked: %s", buf.String())
		}
	})

	t.Run("json logger writes json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		setupLogger(&buf, false, true).Warn("connect", "target", "broker.local:1883")
		if !strings.HasPrefix(buf.String(), "{") {
			t.Errorf("expected JSON, got %s", buf.String())
		}
	})

	t.Run("debug only when verbose", func(t *testing.T) {
		t.Parallel()

		var quiet, loud bytes.Buffer
		setupLogger(&quiet, false, false).Debug("dump")
		setupLogger(&loud, true, false).Debug("dump")
		if quiet.Len() != 0 {
			t.Error("debug output without verbose")
		}
		if loud.Len() == 0 {
			t.Error("no debug output with verbose")
		}
	})
}
