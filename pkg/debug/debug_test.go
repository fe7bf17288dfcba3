package debug

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  categorySet
	}{
		{"empty", "", categorySet{}},
		{"single", "routing", categorySet{"routing": true}},
		{"multiple", "routing,binding", categorySet{"routing": true, "binding": true}},
		{"all", "all", categorySet{"all": true}},
		{"with spaces", " routing , binding ", categorySet{"routing": true, "binding": true}},
		{"uppercase normalized", "ROUTING,Binding", categorySet{"routing": true, "binding": true}},
		{"empty segments", "routing,,binding", categorySet{"routing": true, "binding": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCategories(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseCategories(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	withCategories(t, "routing,auth")

	if !Enabled(Routing) {
		t.Error("routing should be enabled")
	}
	if !Enabled(Auth) {
		t.Error("auth should be enabled")
	}
	if Enabled(Storage) {
		t.Error("storage should not be enabled")
	}
	if Enabled(All) {
		t.Error("all should not be enabled (not in categories)")
	}
}

func TestEnabled_All(t *testing.T) {
	withCategories(t, "all")

	for _, cat := range []string{Routing, Binding, Middleware, Transport, "anything"} {
		if !Enabled(cat) {
			t.Errorf("%s should be enabled via 'all'", cat)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"TRACE", LevelTrace},
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCategoriesSorted(t *testing.T) {
	withCategories(t, "transport,binding,routing")

	want := []string{"binding", "routing", "transport"}
	if got := Categories(); !reflect.DeepEqual(got, want) {
		t.Errorf("Categories() = %v, want %v", got, want)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate short = %q, want %q", got, "short")
	}
	if got := Truncate("this is a long string", 10); got != "this is a ..." {
		t.Errorf("Truncate long = %q, want %q", got, "this is a ...")
	}
}

func TestInit(t *testing.T) {
	withCategories(t, "")
	origOut, origLogger := output, slog.Default()
	t.Cleanup(func() {
		output = origOut
		slog.SetDefault(origLogger)
	})

	var buf bytes.Buffer
	output = &buf

	Init("binding", "TRACE")

	if !Enabled(Binding) || Enabled(Routing) {
		t.Errorf("expected only binding enabled, got %v", Categories())
	}

	Trace(Binding, "bound", "n", 2)
	Raw(Binding, "raw body")
	Log(Routing, "hidden")

	out := buf.String()
	if !strings.Contains(out, "msg=bound") {
		t.Errorf("expected trace entry in output, got %q", out)
	}
	if !strings.Contains(out, "raw body") {
		t.Errorf("expected raw text in output, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("disabled category leaked into output: %q", out)
	}
}

func TestRawNeedsTraceLevel(t *testing.T) {
	withCategories(t, "")
	origOut, origLogger := output, slog.Default()
	t.Cleanup(func() {
		output = origOut
		slog.SetDefault(origLogger)
	})

	var buf bytes.Buffer
	output = &buf

	Init("transport", "DEBUG")
	Raw(Transport, "payload")
	Log(Transport, "visible")

	if strings.Contains(buf.String(), "payload") {
		t.Errorf("raw text written below TRACE: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "msg=visible") {
		t.Errorf("expected debug entry, got %q", buf.String())
	}
}

// withCategories enables spec for the duration of the test.
func withCategories(t *testing.T, spec string) {
	t.Helper()
	prev := active.Load()
	t.Cleanup(func() { active.Store(prev) })
	setCategories(spec)
}
