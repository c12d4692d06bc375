package parser

import (
	"regexp"
	"strconv"
	"strings"

	"vpnpick/internal/shared/logger"
	"vpnpick/serverpool/model"
)

const (
	nameCell        = 0
	utilizationCell = 2
	minCells        = 3
)

// Reason explains why a row was rejected.
type Reason string

const (
	ReasonTooFewCells  Reason = "too few cells"
	ReasonNoRegion     Reason = "display name does not match us-XX#N"
	ReasonNoPercentage Reason = "utilization has no digits"
	ReasonOutOfRange   Reason = "utilization outside 0-100"
)

var (
	regionPattern = regexp.MustCompile(`(?i)us-([a-z]{2})#\d+`)
	nonDigits     = regexp.MustCompile(`[^0-9]`)
)

// Result is the tagged outcome of Parse: either Row is set and OK is true,
// or Reason says why the row was skipped.
type Result struct {
	Row    model.ServerRow
	OK     bool
	Reason Reason
}

func rejected(r Reason) Result {
	return Result{Reason: r}
}

// Parse 将表格中的一行原始单元格转换为 ServerRow。
// 单元格 0 是显示名 (如 "US-MA#1")，单元格 2 是负载百分比文本。
// 解析失败不会 panic，而是返回带有原因的 Result。
func Parse(cells []string) Result {
	if len(cells) < minCells {
		return rejected(ReasonTooFewCells)
	}

	name := strings.TrimSpace(cells[nameCell])
	match := regionPattern.FindStringSubmatch(name)
	if match == nil {
		return rejected(ReasonNoRegion)
	}

	digits := nonDigits.ReplaceAllString(cells[utilizationCell], "")
	if digits == "" {
		return rejected(ReasonNoPercentage)
	}
	percent, err := strconv.Atoi(digits)
	if err != nil || percent > 100 {
		// Atoi only fails here on overflow.
		return rejected(ReasonOutOfRange)
	}

	return Result{
		Row: model.ServerRow{
			Identifier:  Identifier(name),
			Region:      strings.ToUpper(match[1]),
			Utilization: percent,
		},
		OK: true,
	}
}

// Identifier derives the catalog key from a display name: "US-MA#01" -> "us-ma-01".
func Identifier(displayName string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(displayName)), "#", "-")
}

// ParseAll parses a scrape pass and keeps the valid rows in scrape order.
// It returns the number of rejected rows alongside.
func ParseAll(rows [][]string) ([]model.ServerRow, int) {
	l := logger.WithComponent("ServerPool/Parser")

	parsed := make([]model.ServerRow, 0, len(rows))
	skipped := 0
	for i, cells := range rows {
		res := Parse(cells)
		if !res.OK {
			skipped++
			l.Debug().Int("row", i).Strs("cells", cells).Str("reason", string(res.Reason)).Msg("Skipping row.")
			continue
		}
		parsed = append(parsed, res.Row)
	}

	l.Info().Int("parsed", len(parsed)).Int("skipped", skipped).Msg("Parsed server table.")
	return parsed, skipped
}
