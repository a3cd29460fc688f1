package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default operator-facing messages (Korean, shown on clinic landing pages).
const (
	DefaultMessageActive   = "해당 치과는 세종시 치과의사협회 가입 치과입니다"
	DefaultMessageInactive = "현재 가입 치과 목록에 없습니다. 협회에 문의하세요."
)

// Config is the full build configuration, loaded from a YAML file.
type Config struct {
	Year    int    `yaml:"year"`
	BaseURL string `yaml:"base_url"`

	ClinicsSource   string `yaml:"clinics_source"` // "local" or "url"
	ClinicsXlsxURL  string `yaml:"clinics_xlsx_url"`
	ClinicsHashPath string `yaml:"clinics_hash_path"`
	InputExcelPath  string `yaml:"input_excel_path"`
	SheetIndex      int    `yaml:"sheet_index"`

	NameColumn     string `yaml:"name_column"`
	AddressColumn  string `yaml:"address_column"`
	PhoneColumn    string `yaml:"phone_column"`
	DirectorColumn string `yaml:"director_column"`
	HomepageColumn string `yaml:"homepage_column"`

	IDMapPath  string `yaml:"id_map_path"`
	SiteRoot   string `yaml:"site_root"`
	PathPrefix string `yaml:"path_prefix"`
	OutputRoot string `yaml:"output_root"`

	MessageActive   string `yaml:"message_active"`
	MessageInactive string `yaml:"message_inactive"`
	Noindex         bool   `yaml:"noindex"`

	AnalyticsProvider string `yaml:"analytics_provider"` // "none" or "ga4"
	GA4MeasurementID  string `yaml:"ga4_measurement_id"`

	QRErrorCorrection string `yaml:"qr_error_correction"` // L, M, Q, H
	QRBoxSize         int    `yaml:"qr_box_size"`
	QRBorder          int    `yaml:"qr_border"`
	GenerateQRNamed   bool   `yaml:"generate_qr_named"`
	CaptionFontPath   string `yaml:"caption_font_path"`
	CaptionFontSize   int    `yaml:"caption_font_size"`

	GenerateDelivery bool   `yaml:"generate_delivery"`
	GenerateOutbox   bool   `yaml:"generate_outbox"`
	OutboxMode       string `yaml:"outbox_mode"` // only "changed" is supported
	OutboxRoot       string `yaml:"outbox_root"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns a Config pre-filled with every default value, so that a
// minimal YAML file only needs year, base_url and input_excel_path.
func Default() *Config {
	cfg := &Config{
		ClinicsSource:     "local",
		ClinicsHashPath:   "data/clinics.sha256",
		SheetIndex:        0,
		NameColumn:        "치과명",
		AddressColumn:     "주소",
		PhoneColumn:       "전화",
		DirectorColumn:    "대표원장",
		HomepageColumn:    "홈페이지",
		IDMapPath:         "data/id_map.csv",
		SiteRoot:          "docs",
		PathPrefix:        "c",
		OutputRoot:        "output",
		MessageActive:     DefaultMessageActive,
		MessageInactive:   DefaultMessageInactive,
		Noindex:           true,
		AnalyticsProvider: "none",
		QRErrorCorrection: "H",
		QRBoxSize:         10,
		QRBorder:          4,
		GenerateQRNamed:   true,
		CaptionFontSize:   28,
		GenerateDelivery:  true,
		GenerateOutbox:    true,
		OutboxMode:        "changed",
		OutboxRoot:        "output/outbox",
	}
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	return cfg
}

// Load reads the YAML config at path, applies defaults and env overrides,
// and validates. allowMissingBaseURL permits an empty base_url for runs that
// skip QR generation (no URLs are encoded then).
func Load(path string, allowMissingBaseURL bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	if err := cfg.Validate(allowMissingBaseURL); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once, so the
// operator fixes the config in one pass instead of replaying the build.
func (c *Config) Validate(allowMissingBaseURL bool) error {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if c.Year <= 0 {
		add("year must be a positive integer")
	}
	if strings.TrimSpace(c.BaseURL) == "" && !allowMissingBaseURL {
		add("base_url is required unless QR generation is skipped")
	}
	switch c.ClinicsSource {
	case "local":
	case "url":
		if strings.TrimSpace(c.ClinicsXlsxURL) == "" {
			add("clinics_xlsx_url is required when clinics_source is 'url'")
		}
	default:
		add("clinics_source must be 'local' or 'url'")
	}
	if strings.TrimSpace(c.ClinicsHashPath) == "" {
		add("clinics_hash_path must be a non-empty string")
	}
	if strings.TrimSpace(c.InputExcelPath) == "" {
		add("input_excel_path must be a non-empty string")
	}
	if c.SheetIndex < 0 {
		add("sheet_index must be a non-negative integer")
	}
	for _, col := range []struct{ key, value string }{
		{"name_column", c.NameColumn},
		{"address_column", c.AddressColumn},
		{"phone_column", c.PhoneColumn},
		{"director_column", c.DirectorColumn},
		{"homepage_column", c.HomepageColumn},
	} {
		if strings.TrimSpace(col.value) == "" {
			add("%s must be a non-empty string", col.key)
		}
	}
	for _, p := range []struct{ key, value string }{
		{"id_map_path", c.IDMapPath},
		{"site_root", c.SiteRoot},
		{"path_prefix", c.PathPrefix},
		{"output_root", c.OutputRoot},
		{"outbox_root", c.OutboxRoot},
	} {
		if strings.TrimSpace(p.value) == "" {
			add("%s must be a non-empty string", p.key)
		}
	}
	if strings.TrimSpace(c.MessageActive) == "" {
		add("message_active must be a non-empty string")
	}
	if strings.TrimSpace(c.MessageInactive) == "" {
		add("message_inactive must be a non-empty string")
	}
	switch c.AnalyticsProvider {
	case "none":
	case "ga4":
		if strings.TrimSpace(c.GA4MeasurementID) == "" {
			add("ga4_measurement_id is required when analytics_provider is 'ga4'")
		}
	default:
		add("analytics_provider must be 'none' or 'ga4'")
	}
	switch c.QRErrorCorrection {
	case "L", "M", "Q", "H":
	default:
		add("qr_error_correction must be one of L, M, Q, H")
	}
	if c.QRBoxSize <= 0 {
		add("qr_box_size must be a positive integer")
	}
	if c.QRBorder < 0 {
		add("qr_border must be a non-negative integer")
	}
	if c.CaptionFontSize <= 0 {
		add("caption_font_size must be a positive integer")
	}
	if c.OutboxMode != "changed" {
		add("outbox_mode must be 'changed'")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
