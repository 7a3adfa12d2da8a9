package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/Aequivinius/lodqa/internal/parser"
)

// Store kinds.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreKuzu   = "kuzu"
)

var (
	storeKinds = []string{StoreNone, StoreMemory, StoreKuzu}
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate checks the loaded configuration. Load calls it automatically.
// Names are normalized to lower case.
func (c *Config) Validate() error {
	c.Parser.Vendor = strings.ToLower(strings.TrimSpace(c.Parser.Vendor))
	if !parser.Known(c.Parser.Vendor) {
		return fmt.Errorf("parser.vendor %q is not one of %s", c.Parser.Vendor, strings.Join(parser.Names(), ", "))
	}
	if err := validURL("parser.enju_url", c.Parser.EnjuURL); err != nil {
		return err
	}
	if err := validURL("parser.spacy_url", c.Parser.SpacyURL); err != nil {
		return err
	}
	if c.Parser.Timeout <= 0 {
		return fmt.Errorf("parser.timeout must be > 0 (got %s)", c.Parser.Timeout)
	}

	c.Store.Kind = strings.ToLower(strings.TrimSpace(c.Store.Kind))
	if !slices.Contains(storeKinds, c.Store.Kind) {
		return fmt.Errorf("store.kind %q is not one of %s", c.Store.Kind, strings.Join(storeKinds, ", "))
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if !slices.Contains(logLevels, c.Log.Level) {
		return fmt.Errorf("log.level %q is not one of %s", c.Log.Level, strings.Join(logLevels, ", "))
	}
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if !slices.Contains(logFormats, c.Log.Format) {
		return fmt.Errorf("log.format %q is not one of %s", c.Log.Format, strings.Join(logFormats, ", "))
	}

	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be >= 1 (got %d)", c.Batch.Concurrency)
	}
	return nil
}

func validURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s %q must be an http or https URL", field, raw)
	}
	return nil
}
