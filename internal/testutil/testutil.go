// Package testutil provides shared test helpers and fixtures for the
// density packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/density.report/internal/dataset"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// WriteTempFile writes content to name inside a fresh temp dir and returns
// the full path.
func WriteTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// ScenarioTable is the three-row table used across packages: two samples
// share a key at the origin and differ only in density.
func ScenarioTable() dataset.Table {
	return dataset.Table{
		{Time: 0, X: 0, Y: 0, Z: 0, Density: 1.0},
		{Time: 0, X: 0, Y: 0, Z: 0, Density: 2.0},
		{Time: 1, X: 5, Y: 5, Z: 0, Density: 3.0},
	}
}

// ScenarioText is ScenarioTable as comma-separated text under one header
// line.
const ScenarioText = "time,x,y,z,density\n" +
	"0,0,0,0,1.0\n" +
	"0,0,0,0,2.0\n" +
	"1,5,5,0,3.0\n"
