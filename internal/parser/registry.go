package parser

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Registry names of the supported vendors.
const (
	NameDefault = "default"
	NameEnju    = "enju"
	NameSpacy   = "spacy"
)

// Default service endpoints.
const (
	DefaultEnjuURL  = "http://bionlp.dbcls.jp/enju"
	DefaultSpacyURL = "http://spacy.dbcls.jp/spacy_rest"
)

// Options carries what the registry needs to build a vendor adapter.
type Options struct {
	EnjuURL    string
	SpacyURL   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

func (o Options) fetcherOptions() []FetcherOption {
	var opts []FetcherOption
	if o.HTTPClient != nil {
		opts = append(opts, WithHTTPClient(o.HTTPClient))
	} else if o.Timeout > 0 {
		opts = append(opts, WithTimeout(o.Timeout))
	}
	return append(opts, WithLogger(o.Logger))
}

// AdapterFactory constructs an Adapter from options.
type AdapterFactory func(o Options) Adapter

var factories = map[string]AdapterFactory{
	NameEnju: func(o Options) Adapter {
		return NewEnjuAdapter(NewEnjuHTTP(orDefault(o.EnjuURL, DefaultEnjuURL), o.fetcherOptions()...))
	},
	NameSpacy: func(o Options) Adapter {
		return NewSpacyAdapter(NewSpacyHTTP(orDefault(o.SpacyURL, DefaultSpacyURL), o.fetcherOptions()...))
	},
}

func init() {
	factories[NameDefault] = factories[NameEnju]
}

// New returns the adapter registered under name, matched case-insensitively.
// An empty or unknown name selects the default vendor; unknown names are
// logged.
func New(name string, o Options) Adapter {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = NameDefault
	}
	factory, ok := factories[key]
	if !ok {
		logger.Warn("unknown parser, using default", "parser", name, "default", NameEnju)
		factory = factories[NameDefault]
	}
	return factory(o)
}

// Names lists the registered vendor names in sorted order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name selects a registered vendor.
func Known(name string) bool {
	_, ok := factories[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
