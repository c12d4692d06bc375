package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
	"vpnpick/internal/shared/types"
)

// Environment variables that override secrets from the ini file.
const (
	EnvUsername        = "VPNPICK_USERNAME"
	EnvPassword        = "VPNPICK_PASSWORD"
	EnvMailboxPassword = "VPNPICK_MAILBOX_PASSWORD"
	EnvTOTPSecret      = "VPNPICK_TOTP_SECRET"
	EnvTimeoutSeconds  = "VPNPICK_TIMEOUT_SECONDS"
)

// LoadIni 加载 vpnpick.ini 行为配置文件，未出现的键保留 cfg 中已有的值。
func LoadIni(cfg *types.Config, fileName string) error {
	iniFile, err := ini.Load(fileName)
	if err != nil {
		return err
	}
	if err := iniFile.MapTo(cfg); err != nil {
		return err
	}
	return ApplyOverrides(cfg)
}

// ApplyOverrides applies environment overrides and normalizes cfg. LoadIni
// calls it; callers running without an ini file call it directly.
func ApplyOverrides(cfg *types.Config) error {
	applyEnv(cfg)
	return normalize(cfg)
}

// ResolvePaths makes the data file paths in cfg relative to configDir unless
// they are already absolute.
func ResolvePaths(cfg *types.Config, configDir string) {
	cfg.CatalogFile = resolve(configDir, cfg.CatalogFile)
	cfg.ExcludedFile = resolve(configDir, cfg.ExcludedFile)
}

// ValidateAccount reports which credentials are missing for a live login.
func ValidateAccount(cfg *types.Config) error {
	var missing []string
	if cfg.Username == "" {
		missing = append(missing, "username")
	}
	if cfg.Password == "" {
		missing = append(missing, "password")
	}
	if cfg.TOTPSecret == "" {
		missing = append(missing, "totp_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required account settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

func applyEnv(cfg *types.Config) {
	overrideFromEnv(&cfg.Username, EnvUsername)
	overrideFromEnv(&cfg.Password, EnvPassword)
	overrideFromEnv(&cfg.MailboxPassword, EnvMailboxPassword)
	overrideFromEnv(&cfg.TOTPSecret, EnvTOTPSecret)
	overrideFromEnvInt(&cfg.TimeoutSeconds, EnvTimeoutSeconds)
}

var regionCode = regexp.MustCompile(`^[A-Z]{2}$`)

// normalize upper-cases allowed_regions and rejects codes that are not two
// letters, since those can never match a server name.
func normalize(cfg *types.Config) error {
	regions := make([]string, 0, len(cfg.AllowedRegions))
	for _, r := range cfg.AllowedRegions {
		r = strings.ToUpper(strings.TrimSpace(r))
		if r == "" {
			continue
		}
		if !regionCode.MatchString(r) {
			return fmt.Errorf("invalid region code %q in allowed_regions: want two letters", r)
		}
		regions = append(regions, r)
	}
	cfg.AllowedRegions = regions
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 20
	}
	return nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func overrideFromEnv(target *string, envName string) {
	if envValue := os.Getenv(envName); envValue != "" {
		*target = envValue
	}
}

func overrideFromEnvInt(target *int, envName string) {
	envValue := os.Getenv(envName)
	if envValue != "" {
		if intValue, err := strconv.Atoi(envValue); err == nil {
			*target = intValue
		}
	}
}
