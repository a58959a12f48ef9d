package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/example/go-subword/internal/testutil"
)

func TestBenchCmd_JSON(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteLines(t, dir, "in.txt", "ab ab ab ac", "the cat sat")

	stdout, err := execute(t, "bench", "--input", in, "--vocab-size", "5", "--runs", "3", "--format", "json")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	var report struct {
		Runs []struct {
			Merges int    `json:"merges"`
			Digest string `json:"digest"`
		} `json:"runs"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, stdout)
	}
	if len(report.Runs) != 3 {
		t.Fatalf("got %d runs; want 3", len(report.Runs))
	}
	for i, r := range report.Runs {
		if r.Merges != 5 {
			t.Errorf("run %d: merges = %d; want 5", i, r.Merges)
		}
		if r.Digest != report.Runs[0].Digest {
			t.Errorf("run %d digest differs from run 0", i)
		}
	}
}

func TestBenchCmd_Table(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteLines(t, dir, "in.txt", "ab ab ab ac")

	stdout, err := execute(t, "bench", "--input", in, "--vocab-size", "2", "--runs", "2")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(stdout, "Merges/s") || !strings.Contains(stdout, "(mean)") {
		t.Errorf("unexpected table output:\n%s", stdout)
	}
}

func TestBenchCmd_FlagValidation(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteLines(t, dir, "in.txt", "ab")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing input", []string{"bench"}, "--input"},
		{"zero runs", []string{"bench", "--input", in, "--runs", "0"}, "--runs"},
		{"bad format", []string{"bench", "--input", in, "--format", "xml"}, "--format"},
		{"negative vocab size", []string{"bench", "--input", in, "--vocab-size", "-1"}, "--vocab-size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
