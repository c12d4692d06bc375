package types

// AccountConf 包含登录 VPN 账户面板所需的配置
type AccountConf struct {
	LoginURL        string `ini:"login_url"`
	DashboardURL    string `ini:"dashboard_url"`
	Username        string `ini:"username"`
	Password        string `ini:"password"`
	MailboxPassword string `ini:"mailbox_password"`
	TOTPSecret      string `ini:"totp_secret"`

	// Form field names posted to LoginURL.
	UsernameField        string `ini:"username_field"`
	PasswordField        string `ini:"password_field"`
	TOTPField            string `ini:"totp_field"`
	MailboxPasswordField string `ini:"mailbox_password_field"`
}

// ScrapeConf 控制抓取服务器负载表格的行为
type ScrapeConf struct {
	TableSelector  string `ini:"table_selector"`
	UserAgent      string `ini:"user_agent"`
	TimeoutSeconds int    `ini:"timeout_seconds"`
	ProxyURL       string `ini:"proxy_url"` // 可选的前置代理
}

// SelectionConf 包含服务器筛选相关的配置
type SelectionConf struct {
	AllowedRegions []string `ini:"allowed_regions" delim:","`
	CatalogFile    string   `ini:"catalog_file"`
	ExcludedFile   string   `ini:"excluded_file"`
	OutputFile     string   `ini:"output_file"`
}

// LogConf contains logging specific configuration
type LogConf struct {
	Level string `ini:"level"`
}

// Config 是 vpnpick 的统一配置结构体
type Config struct {
	AccountConf   `ini:"account"`
	ScrapeConf    `ini:"scrape"`
	SelectionConf `ini:"selection"`
	LogConf       `ini:"log"`
}

// Default returns a Config populated with the values used when the ini file
// leaves a key out.
func Default() *Config {
	return &Config{
		AccountConf: AccountConf{
			LoginURL:             "https://account.protonvpn.com/login",
			DashboardURL:         "https://account.protonvpn.com/downloads",
			UsernameField:        "username",
			PasswordField:        "password",
			TOTPField:            "totp",
			MailboxPasswordField: "mailboxPassword",
		},
		ScrapeConf: ScrapeConf{
			TableSelector:  "#openvpn-configuration-files table",
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36",
			TimeoutSeconds: 20,
		},
		SelectionConf: SelectionConf{
			AllowedRegions: []string{"MA", "NY", "NJ"},
			CatalogFile:    "server_map.json",
			ExcludedFile:   "excluded.json",
			OutputFile:     "best_server_ip.txt",
		},
		LogConf: LogConf{
			Level: "info",
		},
	}
}
