package serverpool

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vpnpick/serverpool/model"
	"vpnpick/serverpool/storage"
)

// mockTableSource returns canned rows and counts calls.
type mockTableSource struct {
	rows  [][]string
	err   error
	calls int
}

func (m *mockTableSource) Name() string { return "mock" }
func (m *mockTableSource) FetchRows(ctx context.Context) ([][]string, error) {
	m.calls++
	return m.rows, m.err
}

// mockResultWriter records what would have been written.
type mockResultWriter struct {
	written []model.SelectionResult
}

func (m *mockResultWriter) Write(r model.SelectionResult) error {
	m.written = append(m.written, r)
	return nil
}

var scrapedRows = [][]string{
	{"Name", "City", "Load"},
	{"US-MA#01", "Boston", "40%"},
	{"US-MA#05", "Boston", "10%"},
	{"US-NJ#09", "Newark", "5%"},
	{"US-CA#03", "Los Angeles", "1%"},
	{"US-NY#179"},
}

func setupFiles(t *testing.T, catalogJSON, excludedJSON string) Options {
	t.Helper()
	dir := t.TempDir()
	opts := Options{
		CatalogFile:    filepath.Join(dir, "server_map.json"),
		ExcludedFile:   filepath.Join(dir, "excluded.json"),
		AllowedRegions: model.NewAllowedRegions("MA", "NY", "NJ"),
	}
	if catalogJSON != "" {
		if err := os.WriteFile(opts.CatalogFile, []byte(catalogJSON), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if excludedJSON != "" {
		if err := os.WriteFile(opts.ExcludedFile, []byte(excludedJSON), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return opts
}

const fullCatalogJSON = `{"us-ma-01": "79.127.160.187", "us-ma-05": "79.127.160.158", "us-nj-09": "69.10.63.242", "us-ca-03": "1.1.1.1"}`

func TestRunOnce_SelectsAndWrites(t *testing.T) {
	opts := setupFiles(t, fullCatalogJSON, "")
	src := &mockTableSource{rows: scrapedRows}
	w := &mockResultWriter{}

	report, err := NewManager(opts, src, w).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() returned an error: %v", err)
	}
	if report.Result.Identifier != "us-nj-09" || report.Result.IP != "69.10.63.242" {
		t.Errorf("Expected us-nj-09 (69.10.63.242), but got %+v", report.Result)
	}
	if report.Rows != 6 || report.Parsed != 4 || report.Skipped != 2 {
		t.Errorf("Unexpected counts: rows=%d parsed=%d skipped=%d", report.Rows, report.Parsed, report.Skipped)
	}
	if !report.Written || len(w.written) != 1 {
		t.Errorf("Expected exactly one write, but got %d", len(w.written))
	}
	if report.RunID == "" {
		t.Error("Expected a run id")
	}
}

func TestRunOnce_ExclusionsApplied(t *testing.T) {
	opts := setupFiles(t, fullCatalogJSON, `["us-nj-09"]`)
	w := &mockResultWriter{}

	report, err := NewManager(opts, &mockTableSource{rows: scrapedRows}, w).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() returned an error: %v", err)
	}
	if report.Result.Identifier != "us-ma-05" {
		t.Errorf("Expected us-ma-05, but got %s", report.Result.Identifier)
	}
}

func TestRunOnce_NotFoundLeavesOutputUntouched(t *testing.T) {
	opts := setupFiles(t, fullCatalogJSON, "")
	opts.AllowedRegions = model.NewAllowedRegions("TX")

	out := filepath.Join(t.TempDir(), "best_server_ip.txt")
	if err := os.WriteFile(out, []byte("10.9.8.7"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewManager(opts, &mockTableSource{rows: scrapedRows}, storage.NewFileResultWriter(out)).RunOnce(context.Background())
	if !errors.Is(err, model.ErrNoQualifyingServer) {
		t.Fatalf("Expected ErrNoQualifyingServer, but got %v", err)
	}
	data, _ := os.ReadFile(out)
	if string(data) != "10.9.8.7" {
		t.Errorf("Expected previous output to be untouched, but got %q", string(data))
	}
}

func TestRunOnce_NotFoundWithoutPreviousOutput(t *testing.T) {
	opts := setupFiles(t, fullCatalogJSON, "")
	out := filepath.Join(t.TempDir(), "best_server_ip.txt")

	_, err := NewManager(opts, &mockTableSource{}, storage.NewFileResultWriter(out)).RunOnce(context.Background())
	if !errors.Is(err, model.ErrNoQualifyingServer) {
		t.Fatalf("Expected ErrNoQualifyingServer, but got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("Expected no output file, but stat returned %v", err)
	}
}

func TestRunOnce_ConfigErrorBeforeFetch(t *testing.T) {
	cases := map[string]Options{
		"missing catalog":    setupFiles(t, "", ""),
		"empty catalog":      setupFiles(t, `{}`, ""),
		"malformed excluded": setupFiles(t, fullCatalogJSON, `not json`),
	}
	noRegions := setupFiles(t, fullCatalogJSON, "")
	noRegions.AllowedRegions = nil
	cases["no regions"] = noRegions

	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			src := &mockTableSource{rows: scrapedRows}
			w := &mockResultWriter{}

			_, err := NewManager(opts, src, w).RunOnce(context.Background())
			if !errors.Is(err, model.ErrConfiguration) {
				t.Errorf("Expected ErrConfiguration, but got %v", err)
			}
			if src.calls != 0 {
				t.Errorf("Expected the table source not to be called, but it was called %d times", src.calls)
			}
			if len(w.written) != 0 {
				t.Errorf("Expected no writes, but got %d", len(w.written))
			}
		})
	}
}

func TestRunOnce_FetchError(t *testing.T) {
	opts := setupFiles(t, fullCatalogJSON, "")
	boom := errors.New("boom")
	w := &mockResultWriter{}

	_, err := NewManager(opts, &mockTableSource{err: boom}, w).RunOnce(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Expected the fetch error to be wrapped, but got %v", err)
	}
	if len(w.written) != 0 {
		t.Errorf("Expected no writes, but got %d", len(w.written))
	}
}
