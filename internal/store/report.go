package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shazam/internal/domain"
)

// WriteReportJSON writes the combined report atomically: the document is
// serialized to a temp file in the target directory and renamed over the
// destination, so a crashed run never leaves a truncated report behind.
func WriteReportJSON(report *domain.Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp report: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp report: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming report: %w", err)
	}
	return nil
}

// RunStatus summarizes one job run for download_status.json.
type RunStatus struct {
	Job             string    `json:"job"`
	LastUpdate      time.Time `json:"last_update"`
	StartTime       time.Time `json:"start_time"`
	DurationSeconds float64   `json:"duration_seconds"`
	Succeeded       int       `json:"successful_symbols"`
	Failed          int       `json:"failed_symbols"`
	Status          string    `json:"status"`
}

// WriteStatusJSON merges the run status into download_status.json, keyed by
// job name, so an operator can see at a glance when each scheduled job last
// ran and how it ended.
func WriteStatusJSON(status RunStatus, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating status dir: %w", err)
	}
	path := filepath.Join(dir, "download_status.json")

	entries := map[string]RunStatus{}
	if data, err := os.ReadFile(path); err == nil {
		// Corrupt status files are replaced rather than failing the run.
		_ = json.Unmarshal(data, &entries)
	}
	entries[status.Job] = status

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling status: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing status: %w", err)
	}
	return nil
}
