package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names recognised by ApplyEnv.
const (
	EnvRegistryPath     = "HYPERCERT_REGISTRY_PATH"
	EnvOverridesPath    = "HYPERCERT_OVERRIDES_PATH"
	EnvOutputDir        = "HYPERCERT_OUTPUT_DIR"
	EnvAllowlistBaseURL = "HYPERCERT_ALLOWLIST_BASE_URL"
	EnvWorkers          = "HYPERCERT_WORKERS"
	EnvLogLevel         = "HYPERCERT_LOG_LEVEL"
)

// Config is the complete configuration of a metadata build.
type Config struct {
	RegistryPath     string   `yaml:"registry_path"`
	OverridesPath    string   `yaml:"overrides_path"`
	OutputDir        string   `yaml:"output_dir"`
	AllowlistBaseURL string   `yaml:"allowlist_base_url"`
	GrantURLTemplate string   `yaml:"grant_url_template"`
	Workers          int      `yaml:"workers"`
	LogLevel         string   `yaml:"log_level"`
	RoundList        []Round  `yaml:"rounds"`
	Defaults         Defaults `yaml:"defaults"`
}

// Defaults are the fixed values of every emitted hypercert record.
type Defaults struct {
	Version         string `yaml:"version"`
	WorkStartDate   int64  `yaml:"work_start_date"`
	ImpactEndDate   int64  `yaml:"impact_end_date"`
	DefaultImpact   string `yaml:"default_impact"`
	FallbackCreated string `yaml:"fallback_created_at"`
	DefaultLogo     string `yaml:"default_logo"`
	DefaultBanner   string `yaml:"default_banner"`
	FundingPlatform string `yaml:"funding_platform"`
	FundingRound    string `yaml:"funding_round"`
	WorkScopeLength int    `yaml:"work_scope_length"`
	Indent          int    `yaml:"indent"`
}

// NewDefault returns the configuration of the Gitcoin Grants Alpha Round.
func NewDefault() *Config {
	return &Config{
		RegistryPath:     "canonical_project_list.json",
		OverridesPath:    "csv/workscope_overrides.csv",
		OutputDir:        "metadata/",
		AllowlistBaseURL: "ipfs://bafybeigcogqgin67mtssk5fhprxvvysk74lmki4i6eqk6iuurlvu4vzopm/",
		GrantURLTemplate: "https://grant-explorer.gitcoin.co/#/round/1/{round}/{project}-{round}",
		Workers:          1,
		LogLevel:         "info",
		RoundList:        DefaultRounds(),
		Defaults: Defaults{
			Version:         "1.0.0",
			WorkStartDate:   1663819200,
			ImpactEndDate:   0,
			DefaultImpact:   "all",
			FallbackCreated: "1673829248",
			DefaultLogo:     "bafkreiejljnf6xf6kwcvh3wjef5xa3n7gscdumrmurmt4otkozbx5524r4",
			DefaultBanner:   "bafkreigkmcufguhakp4nbucca6d2rt7nw7ourdnkqfbs2gvsue4j4ohsly",
			FundingPlatform: "Gitcoin Grants",
			FundingRound:    "Alpha Round",
			WorkScopeLength: 35,
			Indent:          4,
		},
	}
}

// LoadFile loads defaults and merges the YAML file at path over them.
// An empty path returns the defaults unchanged.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return NewDefault(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse merges YAML data over the defaults.
// A rounds list in the file replaces the default table rather than extending it.
func Parse(data []byte) (*Config, error) {
	cfg := NewDefault()

	var file Config

	err := yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	merge(cfg, &file)

	return cfg, nil
}

// merge copies every non-zero field of src into dst.
func merge(dst, src *Config) {
	mergeString(&dst.RegistryPath, src.RegistryPath)
	mergeString(&dst.OverridesPath, src.OverridesPath)
	mergeString(&dst.OutputDir, src.OutputDir)
	mergeString(&dst.AllowlistBaseURL, src.AllowlistBaseURL)
	mergeString(&dst.GrantURLTemplate, src.GrantURLTemplate)
	mergeString(&dst.LogLevel, src.LogLevel)

	if src.Workers != 0 {
		dst.Workers = src.Workers
	}

	if len(src.RoundList) > 0 {
		dst.RoundList = src.RoundList
	}

	d, s := &dst.Defaults, &src.Defaults
	mergeString(&d.Version, s.Version)
	mergeString(&d.DefaultImpact, s.DefaultImpact)
	mergeString(&d.FallbackCreated, s.FallbackCreated)
	mergeString(&d.DefaultLogo, s.DefaultLogo)
	mergeString(&d.DefaultBanner, s.DefaultBanner)
	mergeString(&d.FundingPlatform, s.FundingPlatform)
	mergeString(&d.FundingRound, s.FundingRound)

	if s.WorkStartDate != 0 {
		d.WorkStartDate = s.WorkStartDate
	}

	if s.ImpactEndDate != 0 {
		d.ImpactEndDate = s.ImpactEndDate
	}

	if s.WorkScopeLength != 0 {
		d.WorkScopeLength = s.WorkScopeLength
	}

	if s.Indent != 0 {
		d.Indent = s.Indent
	}
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// ApplyEnv loads envFile (if it exists) into the process environment and
// applies HYPERCERT_* overrides to cfg. Variables already set in the
// environment win over values from envFile.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if v := os.Getenv(EnvRegistryPath); v != "" {
		cfg.RegistryPath = v
	}

	if v := os.Getenv(EnvOverridesPath); v != "" {
		cfg.OverridesPath = v
	}

	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.OutputDir = v
	}

	if v := os.Getenv(EnvAllowlistBaseURL); v != "" {
		cfg.AllowlistBaseURL = v
	}

	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, v, err)
		}

		cfg.Workers = n
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	return nil
}

// Validate checks that the configuration can drive a build.
func (c *Config) Validate() error {
	var errs []error

	if len(c.RoundList) == 0 {
		errs = append(errs, errors.New("round table is empty"))
	}

	for i, r := range c.RoundList {
		if r.Address == "" || r.Name == "" {
			errs = append(errs, fmt.Errorf("round %d: address and name are required", i))
		}
	}

	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}

	if c.Defaults.WorkScopeLength <= 0 {
		errs = append(errs, fmt.Errorf("work_scope_length must be positive, got %d", c.Defaults.WorkScopeLength))
	}

	if c.Defaults.Indent <= 0 {
		errs = append(errs, fmt.Errorf("indent must be positive, got %d", c.Defaults.Indent))
	}

	if c.RegistryPath == "" {
		errs = append(errs, errors.New("registry_path is required"))
	}

	return errors.Join(errs...)
}

// Rounds returns the round table built from the configured rounds.
func (c *Config) Rounds() RoundTable {
	return NewRoundTable(c.RoundList)
}

// GrantURL renders the grant page URL for a round and project.
func (c *Config) GrantURL(round, projectID string) string {
	return strings.NewReplacer("{round}", round, "{project}", projectID).Replace(c.GrantURLTemplate)
}
