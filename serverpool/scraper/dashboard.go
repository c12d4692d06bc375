package scraper

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/net/publicsuffix"

	"vpnpick/internal/shared/logger"
	"vpnpick/internal/shared/otpcode"
	"vpnpick/internal/shared/types"
)

// DashboardScraper 实现了 TableSource 接口：
// 先以表单方式登录账户，再访问下载页面并抓取服务器负载表格。
type DashboardScraper struct {
	account types.AccountConf
	scrape  types.ScrapeConf
	now     func() time.Time
	genCode func(secret string, t time.Time) (string, error)
}

// NewDashboardScraper 创建一个新的 DashboardScraper 实例。
func NewDashboardScraper(account types.AccountConf, scrape types.ScrapeConf) *DashboardScraper {
	return &DashboardScraper{
		account: account,
		scrape:  scrape,
		now:     time.Now,
		genCode: otpcode.Generate,
	}
}

func (s *DashboardScraper) Name() string {
	return "dashboard"
}

func (s *DashboardScraper) newCollector() (*colly.Collector, error) {
	c := colly.NewCollector(
		colly.UserAgent(s.scrape.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(time.Duration(s.scrape.TimeoutSeconds) * time.Second)

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	c.SetCookieJar(jar)

	if s.scrape.ProxyURL != "" {
		if err := c.SetProxy(s.scrape.ProxyURL); err != nil {
			return nil, fmt.Errorf("invalid proxy url %q: %w", s.scrape.ProxyURL, err)
		}
	}
	return c, nil
}

func (s *DashboardScraper) loginForm() (map[string]string, error) {
	code, err := s.genCode(s.account.TOTPSecret, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate TOTP code: %w", err)
	}
	form := map[string]string{
		s.account.UsernameField: s.account.Username,
		s.account.PasswordField: s.account.Password,
		s.account.TOTPField:     code,
	}
	if s.account.MailboxPassword != "" && s.account.MailboxPasswordField != "" {
		form[s.account.MailboxPasswordField] = s.account.MailboxPassword
	}
	return form, nil
}

// FetchRows logs in and returns the rows of the configured table on the
// dashboard page. Any failed request aborts the scrape.
func (s *DashboardScraper) FetchRows(ctx context.Context) ([][]string, error) {
	l := logger.WithComponent("ServerPool/Scraper")
	l.Info().Str("source", s.Name()).Msg("Starting scrape...")

	c, err := s.newCollector()
	if err != nil {
		return nil, err
	}

	var (
		mu         sync.Mutex
		rows       [][]string
		scrapeErr  error
		tableFound bool
		collecting bool
	)

	c.OnError(func(r *colly.Response, err error) {
		l.Error().Err(err).Int("status_code", r.StatusCode).Str("url", r.Request.URL.String()).Msg("Scrape request failed.")
		mu.Lock()
		defer mu.Unlock()
		if scrapeErr == nil {
			scrapeErr = fmt.Errorf("request to %s failed (status %d): %w", r.Request.URL, r.StatusCode, err)
		}
	})

	c.OnHTML(s.scrape.TableSelector, func(e *colly.HTMLElement) {
		mu.Lock()
		defer mu.Unlock()
		if !collecting {
			return
		}
		tableFound = true
		rows = append(rows, ExtractRows(e.DOM)...)
	})

	// --- Login ---
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	form, err := s.loginForm()
	if err != nil {
		return nil, err
	}
	l.Debug().Str("url", s.account.LoginURL).Msg("Submitting login form...")
	if err := c.Post(s.account.LoginURL, form); err != nil && scrapeErr == nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	if scrapeErr != nil {
		return nil, fmt.Errorf("login failed: %w", scrapeErr)
	}

	// --- Dashboard ---
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mu.Lock()
	collecting = true
	mu.Unlock()

	l.Debug().Str("url", s.account.DashboardURL).Msg("Visiting dashboard...")
	if err := c.Visit(s.account.DashboardURL); err != nil && scrapeErr == nil {
		return nil, fmt.Errorf("dashboard request failed: %w", err)
	}
	c.Wait()

	if scrapeErr != nil {
		return nil, scrapeErr
	}
	if !tableFound || len(rows) == 0 {
		return nil, fmt.Errorf("%w: selector %q on %s", ErrEmptyTable, s.scrape.TableSelector, s.account.DashboardURL)
	}

	l.Info().Int("rows", len(rows)).Str("source", s.Name()).Msg("Scrape finished.")
	return rows, nil
}
