package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  provider  ", Value: "  Gemini  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "provider" || fields[0].String != "Gemini" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}

	if empty := StringFields(); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	l := zap.New(core)

	WithFields(l, zap.Uint(FieldContentID, 7)).Info("mapping started")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	if got := entries[0].ContextMap()[FieldContentID]; got != uint64(7) {
		t.Fatalf("expected content id 7, got %v", got)
	}

	fallback := WithFields(nil, zap.String("baz", "qux"))
	if fallback == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
	fallback.Info("another log")
}

func TestWithComponent(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithComponent(zap.New(core), "mapper").Info("test log")
	WithComponent(zap.New(core), "  ").Info("unnamed")

	entries := observed.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ContextMap()[FieldComponent] != "mapper" {
		t.Fatalf("expected component field, got %v", entries[0].ContextMap())
	}
	if _, ok := entries[1].ContextMap()[FieldComponent]; ok {
		t.Fatalf("expected blank component to be dropped")
	}
}

func TestCompletionFields(t *testing.T) {
	fields := CompletionFields("  gemini  ", "gemini-2.5-pro")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	if fields[0].Key != FieldProvider || fields[0].String != "gemini" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}

	if fields[1].Key != FieldModel || fields[1].String != "gemini-2.5-pro" {
		t.Fatalf("unexpected model field: %+v", fields[1])
	}

	if empty := CompletionFields("", ""); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestNewBuildsLogger(t *testing.T) {
	l, err := New(Options{JSON: true, Debug: true, OutputPaths: []string{"stderr"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level to be enabled")
	}
}
