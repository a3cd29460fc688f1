// Package render produces the static HTML pages of the site: per-clinic
// landing pages, the root index, the 404 page and the outbox download index.
//
// All roster-derived strings pass through html/template's contextual
// escaping; no raw spreadsheet text ever reaches the page unescaped.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"regexp"
	"strings"

	"sejong-dental-qr/internal/config"
	"sejong-dental-qr/internal/domain"
)

// Renderer renders the static site pages for one build.
type Renderer struct {
	cfg    *config.Config
	clinic *template.Template
	simple *template.Template
	outbox *template.Template
}

// New parses the page templates. Template errors are programming errors, so
// they surface at startup rather than mid-build.
func New(cfg *config.Config) (*Renderer, error) {
	funcs := template.FuncMap{
		// template.URL because html/template's URL filter rejects the
		// tel: scheme.
		"telHref": func(phone string) template.URL {
			return template.URL(telHref(phone))
		},
		"mapURL":      naverMapURL,
		"homepageURL": homepageURL,
		"homepageText": func(s string) string {
			link := homepageURL(s)
			if link == "" {
				return strings.TrimSpace(s)
			}
			link = strings.TrimPrefix(link, "https://")
			link = strings.TrimPrefix(link, "http://")
			return strings.TrimRight(link, "/")
		},
		"josa": chooseJosa,
		"dash": func(s string) string {
			if strings.TrimSpace(s) == "" {
				return "-"
			}
			return strings.TrimSpace(s)
		},
	}

	layout, err := template.New("layout").Funcs(funcs).Parse(layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse layout template: %w", err)
	}
	clinic, err := template.Must(layout.Clone()).Parse(clinicTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse clinic template: %w", err)
	}
	simple, err := template.Must(layout.Clone()).Parse(simpleTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse simple template: %w", err)
	}
	outbox, err := template.Must(layout.Clone()).Parse(outboxTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse outbox template: %w", err)
	}
	return &Renderer{cfg: cfg, clinic: clinic, simple: simple, outbox: outbox}, nil
}

type layoutData struct {
	Title     string
	Noindex   bool
	Analytics analyticsData
	Page      any
}

type analyticsData struct {
	Enabled       bool
	MeasurementID string
}

func (r *Renderer) analytics() analyticsData {
	if r.cfg.AnalyticsProvider != "ga4" || strings.TrimSpace(r.cfg.GA4MeasurementID) == "" {
		return analyticsData{}
	}
	return analyticsData{Enabled: true, MeasurementID: strings.TrimSpace(r.cfg.GA4MeasurementID)}
}

type clinicPageData struct {
	Record          domain.ClinicRecord
	Active          bool
	Year            int
	Validity        string
	MessageInactive string
	BuildTimestamp  string
}

// ClinicPage renders the landing page for one clinic record.
func (r *Renderer) ClinicPage(record domain.ClinicRecord, buildTimestamp string) (string, error) {
	data := layoutData{
		Title:     record.ClinicName,
		Noindex:   r.cfg.Noindex,
		Analytics: r.analytics(),
		Page: clinicPageData{
			Record:          record,
			Active:          record.Status.IsActive(),
			Year:            r.cfg.Year,
			Validity:        fmt.Sprintf("%d-01-01 ~ %d-12-31", r.cfg.Year, r.cfg.Year),
			MessageInactive: r.cfg.MessageInactive,
			BuildTimestamp:  buildTimestamp,
		},
	}
	return r.execute(r.clinic, data)
}

type simplePageData struct {
	Heading string
	Message string
	Error   bool
}

// RootIndex renders the site root page (scan-a-QR guidance).
func (r *Renderer) RootIndex() (string, error) {
	return r.execute(r.simple, layoutData{
		Title:     "QR 안내",
		Noindex:   r.cfg.Noindex,
		Analytics: r.analytics(),
		Page: simplePageData{
			Heading: "안내 페이지",
			Message: "치과별 QR 코드 전용 안내 페이지입니다. 개별 QR 코드를 스캔해주세요.",
		},
	})
}

// NotFound renders the 404 page.
func (r *Renderer) NotFound() (string, error) {
	return r.execute(r.simple, layoutData{
		Title:     "페이지 없음",
		Noindex:   r.cfg.Noindex,
		Analytics: r.analytics(),
		Page: simplePageData{
			Heading: "유효하지 않은 코드",
			Message: "요청하신 페이지를 찾을 수 없거나 잘못된 접근입니다.",
			Error:   true,
		},
	})
}

type outboxPageData struct {
	BuildTimestamp string
	ZipNames       []string
}

// OutboxIndex renders the operator download page listing the outbox ZIPs.
func (r *Renderer) OutboxIndex(buildTimestamp string, zipNames []string) (string, error) {
	return r.execute(r.outbox, layoutData{
		Title:     "Outbox 다운로드",
		Noindex:   true,
		Analytics: analyticsData{},
		Page: outboxPageData{
			BuildTimestamp: buildTimestamp,
			ZipNames:       zipNames,
		},
	})
}

func (r *Renderer) execute(tmpl *template.Template, data layoutData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render %s: %w", data.Title, err)
	}
	return buf.String(), nil
}

var nonTelRe = regexp.MustCompile(`[^0-9+]`)

// telHref reduces a display phone number to a tel: target; empty when the
// value has no dialable characters.
func telHref(phone string) string {
	digits := nonTelRe.ReplaceAllString(phone, "")
	if digits == "" {
		return ""
	}
	return "tel:" + digits
}

func naverMapURL(query string) string {
	cleaned := strings.TrimSpace(query)
	if cleaned == "" {
		return ""
	}
	return "https://map.naver.com/v5/search/" + url.PathEscape(cleaned)
}

// homepageURL accepts only http/https homepages; scheme-less values get
// https:// prepended, anything else is dropped rather than linked.
func homepageURL(value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch parsed.Scheme {
	case "":
		return "https://" + raw
	case "http", "https":
		return raw
	}
	return ""
}

// chooseJosa picks the Korean topic particle (은/는) for the final character
// of the clinic name; 은 after a final consonant, 는 otherwise.
func chooseJosa(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "는"
	}
	runes := []rune(trimmed)
	last := runes[len(runes)-1]
	if last >= 0xAC00 && last <= 0xD7A3 {
		if (last-0xAC00)%28 != 0 {
			return "은"
		}
	}
	return "는"
}
