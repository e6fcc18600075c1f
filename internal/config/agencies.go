package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/thoas/go-funk"
	"sigs.k8s.io/yaml"
)

var (
	ErrNoAgencies       = errors.New("no agencies configured")
	ErrInvalidAgencyKey = errors.New("agency key must be a single path segment")

	supportedSchemes = []string{"http", "https", "s3", "file"}
)

// Agency is one feed to import. In the agency list it is written either as a
// bare key, whose url is derived from the default template, or as an object
// carrying both agency_key and url.
type Agency struct {
	Key string `json:"agency_key" validate:"required,excludesall=/\\"`
	URL string `json:"url" validate:"required,url"`

	bare bool
}

func (a *Agency) UnmarshalJSON(data []byte) error {
	var key string
	if err := json.Unmarshal(data, &key); err == nil {
		a.Key = key
		a.bare = true
		return nil
	}

	type plain Agency
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("agency entry must be a key or an object: %w", err)
	}
	*a = Agency(p)
	return nil
}

func (a Agency) String() string {
	return fmt.Sprintf("%s (%s)", a.Key, a.URL)
}

type AgencyList struct {
	Agencies []Agency `json:"agencies" validate:"dive"`
}

// ParseAgencies decodes a YAML or JSON agency list, resolves bare keys
// against urlTemplate and validates every entry.
func ParseAgencies(data []byte, urlTemplate string) ([]Agency, error) {
	var list AgencyList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decoding agency list: %w", err)
	}

	if len(list.Agencies) == 0 {
		return nil, ErrNoAgencies
	}

	for i := range list.Agencies {
		a := &list.Agencies[i]
		if a.bare && a.Key != "" {
			a.URL = fmt.Sprintf(urlTemplate, a.Key)
		}
	}

	if err := validator.New().Struct(list); err != nil {
		return nil, fmt.Errorf("invalid agency list: %w", err)
	}

	for _, a := range list.Agencies {
		if !SafeKey(a.Key) {
			return nil, fmt.Errorf("agency %q: %w", a.Key, ErrInvalidAgencyKey)
		}
		u, err := url.Parse(a.URL)
		if err != nil {
			return nil, fmt.Errorf("agency %q: %w", a.Key, err)
		}
		if !funk.ContainsString(supportedSchemes, strings.ToLower(u.Scheme)) {
			return nil, fmt.Errorf("agency %q: unsupported url scheme %q", a.Key, u.Scheme)
		}
	}

	return list.Agencies, nil
}

// SafeKey reports whether key can name a directory directly under the
// workspace.
func SafeKey(key string) bool {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return false
	}
	return filepath.IsLocal(key)
}

// LoadAgencies reads the agency list at path.
func LoadAgencies(path string, urlTemplate string) ([]Agency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading agency list: %w", err)
	}
	return ParseAgencies(data, urlTemplate)
}
