package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Vovarama1992/wa-report-bridge/internal/template"
)

const (
	DefaultConfigPath       = "config.toml"
	DefaultPort             = "8080"
	DefaultWebhookURL       = "http://localhost:3900/api/v1/report"
	DefaultWebhookTimeout   = 10 * time.Second
	DefaultSessionDir       = "session"
	DefaultPipelineWorkers  = 8
	DefaultPipelineQueue    = 256
	DefaultPipelineTimeout  = 60 * time.Second
	DefaultSendRatePerSec   = 5.0
	DefaultSendBurst        = 5
	DefaultMaxEvidenceBytes = 16 << 20

	// DefaultAckPool is the acknowledgement pool used for categories without their own pool.
	DefaultAckPool = "default"
)

type Config struct {
	Server           ServerConfig
	Log              LogConfig
	Webhook          WebhookConfig
	Evidence         EvidenceConfig
	Cloudinary       CloudinaryConfig
	Session          SessionConfig
	Pipeline         PipelineConfig
	Send             SendConfig
	Prefixes         []PrefixRule
	Acknowledgements map[string][]string
	Templates        map[string]template.Template
}

type ServerConfig struct {
	Port string
}

type LogConfig struct {
	Level  string
	Format string
}

type WebhookConfig struct {
	URL     string
	Timeout time.Duration
	Headers map[string]string
}

type EvidenceConfig struct {
	// DefaultURL is used when a report has no uploadable image. Empty means "no evidence".
	DefaultURL string
	MaxBytes   int64
}

type CloudinaryConfig struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Enabled reports whether enough credentials are present to build an uploader.
func (c CloudinaryConfig) Enabled() bool {
	if strings.TrimSpace(c.URL) != "" {
		return true
	}
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type SessionConfig struct {
	Dir           string
	DSN           string
	CleanupOnExit bool
}

type PipelineConfig struct {
	Workers int
	Queue   int
	Timeout time.Duration
}

type SendConfig struct {
	RatePerSec float64
	Burst      int
}

// PrefixRule maps a message prefix to a report category.
type PrefixRule struct {
	Prefix      string `toml:"prefix"`
	Category    string `toml:"category"`
	SubCategory string `toml:"sub_category"`
}

// HasSubCategories reports whether the taxonomy is of the category+subcategory kind.
// Validate guarantees the answer is the same for every rule.
func (c Config) HasSubCategories() bool {
	for _, r := range c.Prefixes {
		if r.SubCategory != "" {
			return true
		}
	}
	return false
}

type fileConfig struct {
	Prefixes         []PrefixRule                 `toml:"prefixes"`
	Acknowledgements map[string][]string          `toml:"acknowledgements"`
	Templates        map[string]template.Template `toml:"templates"`
	Webhook          struct {
		Headers map[string]string `toml:"headers"`
	} `toml:"webhook"`
}

// Load builds the configuration from defaults, the optional TOML taxonomy file at path,
// and environment variables, in that order, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath
	}
	if err := cfg.mergeFile(path); err != nil {
		return cfg, err
	}
	if err := cfg.mergeEnv(); err != nil {
		return cfg, err
	}
	if cfg.Session.DSN == "" {
		cfg.Session.DSN = "file:" + filepath.Join(cfg.Session.Dir, "whatsapp.db") + "?_foreign_keys=on"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Default returns the built-in configuration: the two maintenance prefixes and the
// stock acknowledgement pool.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: DefaultPort},
		Log:    LogConfig{Level: "info", Format: "text"},
		Webhook: WebhookConfig{
			URL:     DefaultWebhookURL,
			Timeout: DefaultWebhookTimeout,
		},
		Evidence: EvidenceConfig{MaxBytes: DefaultMaxEvidenceBytes},
		Session:  SessionConfig{Dir: DefaultSessionDir},
		Pipeline: PipelineConfig{
			Workers: DefaultPipelineWorkers,
			Queue:   DefaultPipelineQueue,
			Timeout: DefaultPipelineTimeout,
		},
		Send: SendConfig{RatePerSec: DefaultSendRatePerSec, Burst: DefaultSendBurst},
		Prefixes: []PrefixRule{
			{Prefix: ".l1", Category: "CM"},
			{Prefix: ".l3", Category: "PM"},
		},
		Acknowledgements: map[string][]string{
			DefaultAckPool: append([]string(nil), defaultAcknowledgements...),
		},
		Templates: map[string]template.Template{},
	}
}

func (c *Config) mergeFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	if len(fc.Prefixes) > 0 {
		c.Prefixes = fc.Prefixes
	}
	if len(fc.Acknowledgements) > 0 {
		pools := make(map[string][]string, len(fc.Acknowledgements)+1)
		for k, v := range fc.Acknowledgements {
			pools[k] = v
		}
		if _, ok := pools[DefaultAckPool]; !ok {
			pools[DefaultAckPool] = c.Acknowledgements[DefaultAckPool]
		}
		c.Acknowledgements = pools
	}
	for name, tpl := range fc.Templates {
		c.Templates[name] = tpl
	}
	if len(fc.Webhook.Headers) > 0 {
		c.Webhook.Headers = fc.Webhook.Headers
	}
	return nil
}

func (c *Config) mergeEnv() error {
	var errs []error

	setString(&c.Server.Port, "PORT")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Webhook.URL, "WEBHOOK_URL")
	errs = append(errs, setDuration(&c.Webhook.Timeout, "WEBHOOK_TIMEOUT"))
	if v, ok := os.LookupEnv("DEFAULT_EVIDENCE_URL"); ok {
		c.Evidence.DefaultURL = strings.TrimSpace(v)
	}
	errs = append(errs, setInt64(&c.Evidence.MaxBytes, "MAX_EVIDENCE_BYTES"))

	setString(&c.Cloudinary.URL, "CLOUDINARY_URL")
	setString(&c.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	setString(&c.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	setString(&c.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")
	setString(&c.Cloudinary.Folder, "CLOUDINARY_FOLDER")

	setString(&c.Session.Dir, "SESSION_DIR")
	setString(&c.Session.DSN, "SESSION_DSN")
	c.Session.CleanupOnExit = strings.EqualFold(os.Getenv("CLEANUP_ON_EXIT"), "true")

	errs = append(errs, setInt(&c.Pipeline.Workers, "PIPELINE_WORKERS"))
	errs = append(errs, setInt(&c.Pipeline.Queue, "PIPELINE_QUEUE"))
	errs = append(errs, setDuration(&c.Pipeline.Timeout, "PIPELINE_TIMEOUT"))

	if v := strings.TrimSpace(os.Getenv("SEND_RATE_PER_SEC")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("SEND_RATE_PER_SEC: %w", err))
		} else {
			c.Send.RatePerSec = f
		}
	}
	errs = append(errs, setInt(&c.Send.Burst, "SEND_BURST"))

	return errors.Join(errs...)
}

// Validate rejects taxonomies that could classify one message two ways or emit
// inconsistently shaped reports.
func (c Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Webhook.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("webhook url %q must be an absolute http(s) url", c.Webhook.URL))
	}

	if len(c.Prefixes) == 0 {
		errs = append(errs, errors.New("at least one prefix rule is required"))
	}
	seen := make(map[string]bool, len(c.Prefixes))
	withSub := 0
	for i, r := range c.Prefixes {
		switch {
		case r.Prefix == "":
			errs = append(errs, fmt.Errorf("prefix rule %d: empty prefix", i))
		case strings.ContainsAny(r.Prefix, " \t\r\n"):
			errs = append(errs, fmt.Errorf("prefix rule %d: prefix %q contains whitespace", i, r.Prefix))
		}
		if r.Category == "" {
			errs = append(errs, fmt.Errorf("prefix rule %d: empty category", i))
		}
		key := strings.ToLower(r.Prefix)
		if seen[key] {
			errs = append(errs, fmt.Errorf("prefix rule %d: duplicate prefix %q", i, r.Prefix))
		}
		seen[key] = true
		if r.SubCategory != "" {
			withSub++
		}
	}
	if withSub > 0 && withSub != len(c.Prefixes) {
		errs = append(errs, errors.New("sub_category must be set on every prefix rule or on none"))
	}

	if len(c.Acknowledgements[DefaultAckPool]) == 0 {
		errs = append(errs, fmt.Errorf("acknowledgement pool %q is required", DefaultAckPool))
	}
	for pool, entries := range c.Acknowledgements {
		if len(entries) == 0 {
			errs = append(errs, fmt.Errorf("acknowledgement pool %q is empty", pool))
		}
		for _, e := range entries {
			if strings.TrimSpace(e) == "" {
				errs = append(errs, fmt.Errorf("acknowledgement pool %q has a blank entry", pool))
				break
			}
		}
	}

	for name, tpl := range c.Templates {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, errors.New("template with empty name"))
		}
		if strings.TrimSpace(tpl.Format) == "" {
			errs = append(errs, fmt.Errorf("template %q: empty format", name))
		}
	}

	if c.Pipeline.Workers <= 0 {
		errs = append(errs, errors.New("pipeline workers must be greater than 0"))
	}
	if c.Pipeline.Queue < 0 {
		errs = append(errs, errors.New("pipeline queue must not be negative"))
	}
	if c.Send.RatePerSec <= 0 || c.Send.Burst <= 0 {
		errs = append(errs, errors.New("send rate and burst must be greater than 0"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
