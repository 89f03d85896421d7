package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_DefaultLogger(t *testing.T) {
	cfg := NewDefaultLogConfig()
	cfg.LogFile = "" // keep tests from writing log files
	log, err := New(cfg)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_ = log // ensure variable is used
}

func TestLogLevelParser_ParseLevel(t *testing.T) {
	parser := NewLogLevelParser()

	level, err := parser.ParseLevel("debug")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if level != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %v", level)
	}

	level, err = parser.ParseLevel("not-a-level")
	if err == nil {
		t.Error("expected error for invalid level")
	}
	if level != zerolog.InfoLevel {
		t.Errorf("expected info fallback, got %v", level)
	}
}

func TestLogFormatParser_ParseFormat(t *testing.T) {
	parser := NewLogFormatParser()

	if format := parser.ParseFormat("json"); format != FormatJSON {
		t.Errorf("expected json format, got %v", format)
	}
	if format := parser.ParseFormat("TEXT"); format != FormatText {
		t.Errorf("expected text format, got %v", format)
	}
	if format := parser.ParseFormat("unknown"); format != FormatConsole {
		t.Errorf("expected console fallback, got %v", format)
	}
}

func TestConfigConverter_Defaults(t *testing.T) {
	converter := NewConfigConverter()

	cfg, err := converter.ConvertConfig(LogConfig{LogLevel: "warn"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Level != zerolog.WarnLevel {
		t.Errorf("expected warn level, got %v", cfg.Level)
	}
	if cfg.MaxSizeMB != DefaultMaxLogSizeMB {
		t.Errorf("expected default max size, got %d", cfg.MaxSizeMB)
	}
	if cfg.EnableFile {
		t.Error("file logging should be disabled without a log file")
	}
}

func TestWriterFactory_BuildLogPath(t *testing.T) {
	factory := NewWriterFactory()

	cfg := LoggerConfig{FilePath: "logs/pagesentry.log", UseSubdirs: true}
	if got := factory.buildLogPath(cfg); got != "logs/pagesentry.log" {
		t.Errorf("expected original path without cycle ID, got %s", got)
	}

	cfg.CycleID = "monitor-20250101-120000"
	want := "logs/cycles/monitor-20250101-120000/pagesentry.log"
	if got := factory.buildLogPath(cfg); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
