package scraper

import (
	"context"
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"

	"vpnpick/internal/shared/logger"
)

// HTMLTableSource 实现了 TableSource 接口，从已保存的下载页面 HTML 文件中读取服务器表格。
type HTMLTableSource struct {
	path     string
	selector string
}

// NewHTMLTableSource 创建一个新的 HTMLTableSource 实例。
func NewHTMLTableSource(path, selector string) *HTMLTableSource {
	return &HTMLTableSource{path: path, selector: selector}
}

func (s *HTMLTableSource) Name() string {
	return "html:" + s.path
}

func (s *HTMLTableSource) FetchRows(ctx context.Context) ([][]string, error) {
	l := logger.WithComponent("ServerPool/Scraper")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML document %s: %w", s.path, err)
	}

	table := doc.Find(s.selector)
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: selector %q matched nothing in %s", ErrEmptyTable, s.selector, s.path)
	}
	rows := ExtractRows(table)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, s.path)
	}

	l.Info().Int("rows", len(rows)).Str("source", s.Name()).Msg("Extracted server table.")
	return rows, nil
}
