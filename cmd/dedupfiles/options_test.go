package main

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

// Test basic option definition and parsing
func TestOptionDefinition(t *testing.T) {
	options := NewParsedOptions()

	options.DefineOption("test-string", "s", OptionTypeString, "default", "Test string option")
	options.DefineOption("test-bool", "b", OptionTypeBool, "false", "Test bool option")
	options.DefineOption("test-int", "i", OptionTypeInt, "0", "Test int option")

	args := []string{"--test-string=value", "--test-bool", "--test-int=42"}
	if err := options.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if options.GetString("test-string") != "value" {
		t.Errorf("Expected string 'value', got %s", options.GetString("test-string"))
	}
	if !options.GetBool("test-bool") {
		t.Errorf("Expected bool true, got %v", options.GetBool("test-bool"))
	}
	if options.GetInt("test-int") != 42 {
		t.Errorf("Expected int 42, got %d", options.GetInt("test-int"))
	}
}

func TestOptionDefaults(t *testing.T) {
	options := NewParsedOptions()
	options.DefineOption("name", "", OptionTypeString, "fallback", "Name")
	options.DefineOption("count", "", OptionTypeInt, "7", "Count")
	options.DefineOption("flag", "", OptionTypeBool, "false", "Flag")

	if err := options.Parse(nil); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if options.GetString("name") != "fallback" || options.GetInt("count") != 7 || options.GetBool("flag") {
		t.Error("Expected defaults to apply when nothing is given")
	}
	if options.IsSet("name") || options.IsSet("count") || options.IsSet("flag") {
		t.Error("Expected defaults not to count as explicitly set")
	}
}

// Test short option parsing
func TestShortOptions(t *testing.T) {
	options := NewParsedOptions()

	options.DefineOption("verbose", "v", OptionTypeInt, "0", "Verbose level")
	options.DefineOption("help", "h", OptionTypeBool, "false", "Show help")
	options.DefineOption("quiet", "q", OptionTypeBool, "false", "Quiet mode")

	args := []string{"-vvv", "-hq"}
	if err := options.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if options.GetInt("verbose") != 3 {
		t.Errorf("Expected verbose level 3, got %d", options.GetInt("verbose"))
	}
	if !options.GetBool("help") {
		t.Errorf("Expected help true, got %v", options.GetBool("help"))
	}
	if !options.GetBool("quiet") {
		t.Errorf("Expected quiet true, got %v", options.GetBool("quiet"))
	}
}

func TestShortIntWithValue(t *testing.T) {
	options := NewParsedOptions()
	options.DefineOption("workers", "w", OptionTypeInt, "", "Workers")

	if err := options.Parse([]string{"-w", "8", "/data"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if options.GetInt("workers") != 8 {
		t.Errorf("Expected workers 8, got %d", options.GetInt("workers"))
	}
	if !reflect.DeepEqual(options.GetArgs(), []string{"/data"}) {
		t.Errorf("Expected args [/data], got %v", options.GetArgs())
	}
}

func TestListOptionsAndArgs(t *testing.T) {
	options := defineOptions()

	args := []string{"/a", "-o", "hash:sha256", "--override=workers:2", "-i", `\.tmp$`, "/b", "--", "-weird-dir"}
	if err := options.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := options.GetList("override"); !reflect.DeepEqual(got, []string{"hash:sha256", "workers:2"}) {
		t.Errorf("Unexpected overrides %v", got)
	}
	if got := options.GetList("ignore"); !reflect.DeepEqual(got, []string{`\.tmp$`}) {
		t.Errorf("Unexpected ignore patterns %v", got)
	}
	if got := options.GetArgs(); !reflect.DeepEqual(got, []string{"/a", "/b", "-weird-dir"}) {
		t.Errorf("Unexpected args %v", got)
	}
	if !options.IsSet("override") {
		t.Error("Expected override to be marked as set")
	}
}

func TestOptionErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"unknown long", []string{"--bogus"}},
		{"unknown short", []string{"-Z"}},
		{"missing value", []string{"--hash"}},
		{"missing short value", []string{"-c"}},
		{"bad int", []string{"--workers=many"}},
		{"bad bool", []string{"--dry-run=maybe"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := defineOptions().Parse(tc.args); err == nil {
				t.Errorf("Expected error for %v", tc.args)
			}
		})
	}
}

func TestBoolValues(t *testing.T) {
	options := defineOptions()
	if err := options.Parse([]string{"--dry-run=false"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if options.GetBool("dry-run") {
		t.Error("Expected dry-run false")
	}
	if !options.IsSet("dry-run") {
		t.Error("Expected an explicit false to count as set")
	}
}

func TestWriteUsage(t *testing.T) {
	var buf bytes.Buffer
	defineOptions().WriteUsage(&buf)
	usage := buf.String()

	for _, want := range []string{"-h, --help", "-n, --dry-run", "--hash VALUE", "-w, --workers N", "--symlinks VALUE"} {
		if !strings.Contains(usage, want) {
			t.Errorf("Expected usage to contain %q:\n%s", want, usage)
		}
	}
	if strings.Index(usage, "--help") > strings.Index(usage, "--version") {
		t.Error("Expected options in definition order")
	}
}
