package serverpool

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"vpnpick/internal/shared/logger"
	"vpnpick/serverpool/catalog"
	"vpnpick/serverpool/model"
	"vpnpick/serverpool/parser"
	"vpnpick/serverpool/scraper"
	"vpnpick/serverpool/selector"
	"vpnpick/serverpool/storage"
)

// Options 描述一次运行所需的静态输入。
type Options struct {
	CatalogFile    string
	ExcludedFile   string
	AllowedRegions model.AllowedRegions
}

// Report summarizes one run.
type Report struct {
	RunID   string
	Rows    int
	Parsed  int
	Skipped int
	Result  model.SelectionResult
	Written bool
}

// Manager 是服务器筛选流程的总控制器：加载配置数据 -> 抓取 -> 解析 -> 筛选 -> 写出结果。
type Manager struct {
	opts   Options
	source scraper.TableSource
	writer storage.ResultWriter
}

// NewManager 创建并初始化管理器。
func NewManager(opts Options, source scraper.TableSource, writer storage.ResultWriter) *Manager {
	return &Manager{
		opts:   opts,
		source: source,
		writer: writer,
	}
}

// RunOnce performs a single batch pass.
//
// The catalog and excluded set are loaded before the table source is touched,
// so configuration errors never cause network traffic. When no server
// qualifies the returned error wraps model.ErrNoQualifyingServer and the
// writer is not called.
func (m *Manager) RunOnce(ctx context.Context) (*Report, error) {
	runID := uuid.New().String()
	l := logger.WithComponent("ServerPool/Manager").With().Str("run_id", runID).Logger()
	report := &Report{RunID: runID}

	if len(m.opts.AllowedRegions) == 0 {
		return report, fmt.Errorf("%w: no allowed regions configured", model.ErrConfiguration)
	}
	cat, err := catalog.LoadCatalog(m.opts.CatalogFile)
	if err != nil {
		return report, err
	}
	excluded, err := catalog.LoadExcluded(m.opts.ExcludedFile)
	if err != nil {
		return report, err
	}

	l.Info().
		Str("source", m.source.Name()).
		Strs("regions", m.opts.AllowedRegions).
		Int("catalog", cat.Len()).
		Int("excluded", excluded.Len()).
		Msg("Starting run...")
	if excluded.Len() > 0 {
		l.Debug().Strs("excluded_ids", excluded.IDs()).Msg("Excluded servers.")
	}

	raw, err := m.source.FetchRows(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to fetch rows from %s: %w", m.source.Name(), err)
	}
	report.Rows = len(raw)

	rows, skipped := parser.ParseAll(raw)
	report.Parsed = len(rows)
	report.Skipped = skipped

	result, err := selector.Select(rows, cat, excluded, m.opts.AllowedRegions)
	if err != nil {
		if errors.Is(err, model.ErrNoQualifyingServer) {
			l.Warn().Err(err).Msg("No qualifying server found, leaving output untouched.")
		}
		return report, err
	}
	report.Result = result

	l.Info().
		Str("server", result.Identifier).
		Int("utilization", result.Utilization).
		Str("ip", result.IP).
		Msg("Selected best server.")

	if err := m.writer.Write(result); err != nil {
		return report, fmt.Errorf("failed to write result: %w", err)
	}
	report.Written = true
	return report, nil
}
