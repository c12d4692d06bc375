package scraper

import (
	"context"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrEmptyTable is returned when the server table could not be found or had no data rows.
var ErrEmptyTable = errors.New("server table not found or empty")

// TableSource 接口定义了获取服务器负载表格原始行的行为。
type TableSource interface {
	// FetchRows 返回表格的所有数据行，每行是按列顺序排列的单元格文本。
	// 实现者只负责抓取，不做解析。
	FetchRows(ctx context.Context) ([][]string, error)

	// Name 返回数据源的名称，用于日志记录。
	Name() string
}

// ExtractRows collects the trimmed td texts of every tr under sel.
// Header rows (th only) are left out.
func ExtractRows(sel *goquery.Selection) [][]string {
	var rows [][]string
	sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}
		row := make([]string, 0, cells.Length())
		cells.Each(func(_ int, td *goquery.Selection) {
			row = append(row, strings.TrimSpace(td.Text()))
		})
		rows = append(rows, row)
	})
	return rows
}
