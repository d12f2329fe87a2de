package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	logger "github.com/sirupsen/logrus"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/sourcepatch/internal/patcher"
)

const (
	defaultRegistryURL     = "https://registry.npmjs.org"
	defaultRegistryTimeout = 10
	defaultViteMajor       = 7
	tokenEnvVar            = "GITHUB_TOKEN"
)

// Settings is the top-level configuration for sourcepatch. Every field has a
// default, so running without a config file patches a Feishin tree the same
// way as with an empty one.
type Settings struct {
	GitHubToken string           `yaml:"github_token"`
	Exclude     []string         `yaml:"exclude"`
	Registry    RegistrySettings `yaml:"registry"`
	Imports     ImportSettings   `yaml:"imports"`
	Guards      GuardSettings    `yaml:"guards"`
	Release     ReleaseSettings  `yaml:"release"`
	Package     PackageSettings  `yaml:"package"`

	allowList []*regexp.Regexp
}

// RegistrySettings configures the npm registry lookups.
type RegistrySettings struct {
	URL            string `yaml:"url"             hcl:"url,optional"`
	TimeoutSeconds int    `yaml:"timeout_seconds" hcl:"timeout_seconds,optional"`
	ViteMajor      int    `yaml:"vite_major"      hcl:"vite_major,optional"`
}

// ImportSettings configures the grouped import rewrite.
type ImportSettings struct {
	SourcePrefix string   `yaml:"source_prefix" hcl:"source_prefix,optional"`
	TargetPrefix string   `yaml:"target_prefix" hcl:"target_prefix,optional"`
	Globs        []string `yaml:"globs"         hcl:"globs,optional"`
}

// GuardSettings configures the handler registration guards.
type GuardSettings struct {
	Globs     []string            `yaml:"globs"      hcl:"globs,optional"`
	AllowList []string            `yaml:"allow_list" hcl:"allow_list,optional"`
	Rules     []GuardRuleSettings `yaml:"rules"      hcl:"rule,block"`
}

// GuardRuleSettings pairs a registration call with its guard call.
type GuardRuleSettings struct {
	Registration string `yaml:"registration" hcl:"registration"`
	Guard        string `yaml:"guard"        hcl:"guard"`
}

// ReleaseSettings points at the upstream project whose releases are packaged.
type ReleaseSettings struct {
	Provider           string `yaml:"provider"            hcl:"provider,optional"`
	UpstreamRepository string `yaml:"upstream_repository" hcl:"upstream_repository,optional"`
	AssetPrefix        string `yaml:"asset_prefix"        hcl:"asset_prefix,optional"`
	AssetSuffix        string `yaml:"asset_suffix"        hcl:"asset_suffix,optional"`
}

// PackageSettings describes the Arch package being kept in sync.
type PackageSettings struct {
	Repository  string `yaml:"repository"   hcl:"repository,optional"`
	PackageBase string `yaml:"package_base" hcl:"package_base,optional"`
	Provides    string `yaml:"provides"     hcl:"provides,optional"`
	Pkgbuild    string `yaml:"pkgbuild"     hcl:"pkgbuild,optional"`
	Srcinfo     string `yaml:"srcinfo"      hcl:"srcinfo,optional"`
}

// hclSettings is the HCL schema: every block is optional.
type hclSettings struct {
	GitHubToken string            `hcl:"github_token,optional"`
	Exclude     []string          `hcl:"exclude,optional"`
	Registry    *RegistrySettings `hcl:"registry,block"`
	Imports     *ImportSettings   `hcl:"imports,block"`
	Guards      *GuardSettings    `hcl:"guards,block"`
	Release     *ReleaseSettings  `hcl:"release,block"`
	Package     *PackageSettings  `hcl:"package,block"`
}

// DefaultSettings returns the settings used when no config file is given.
func DefaultSettings() *Settings {
	settings := &Settings{}
	settings.applyDefaults()
	if err := settings.validate(); err != nil {
		panic(fmt.Sprintf("invalid default settings: %v", err))
	}
	settings.GitHubToken = os.Getenv(tokenEnvVar)
	return settings
}

// NewSettings reads a YAML or HCL settings file, fills unset fields with the
// defaults and validates the result.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings *Settings
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		settings, err = parseHCL(data, path)
	default:
		settings, err = parseYAML(data)
	}
	if err != nil {
		return nil, err
	}

	settings.applyDefaults()
	settings.GitHubToken = resolveToken(settings.GitHubToken)
	if settings.GitHubToken == "" {
		settings.GitHubToken = os.Getenv(tokenEnvVar)
	}

	if validateErr := settings.validate(); validateErr != nil {
		return nil, validateErr
	}
	return settings, nil
}

func parseYAML(data []byte) (*Settings, error) {
	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &settings, nil
}

func parseHCL(data []byte, filename string) (*Settings, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": environmentObject()},
	}

	var decoded hclSettings
	if diags = gohcl.DecodeBody(file.Body, evalCtx, &decoded); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file: %s", diags.Error())
	}

	settings := &Settings{GitHubToken: decoded.GitHubToken, Exclude: decoded.Exclude}
	if decoded.Registry != nil {
		settings.Registry = *decoded.Registry
	}
	if decoded.Imports != nil {
		settings.Imports = *decoded.Imports
	}
	if decoded.Guards != nil {
		settings.Guards = *decoded.Guards
	}
	if decoded.Release != nil {
		settings.Release = *decoded.Release
	}
	if decoded.Package != nil {
		settings.Package = *decoded.Package
	}
	return settings, nil
}

// environmentObject exposes the process environment as env.NAME in HCL.
func environmentObject() cty.Value {
	values := make(map[string]cty.Value)
	for _, entry := range os.Environ() {
		name, value, found := strings.Cut(entry, "=")
		if !found || name == "" {
			continue
		}
		values[name] = cty.StringVal(value)
	}
	if len(values) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(values)
}

// applyDefaults fills every unset field. Empty lists count as unset.
func (s *Settings) applyDefaults() {
	setStrings(&s.Exclude, []string{"**/node_modules/**", ".git/**"})

	setString(&s.Registry.URL, defaultRegistryURL)
	setInt(&s.Registry.TimeoutSeconds, defaultRegistryTimeout)
	setInt(&s.Registry.ViteMajor, defaultViteMajor)

	setString(&s.Imports.SourcePrefix, "react-icons")
	setString(&s.Imports.TargetPrefix, "@react-icons/all-files")
	setStrings(&s.Imports.Globs, []string{"**/*.ts", "**/*.tsx"})

	setStrings(&s.Guards.Globs, []string{"src/main/**/*.ts"})
	setStrings(&s.Guards.AllowList, []string{
		"^settings-get$",
		"^password-get$",
		"^password-set$",
		"^open-file-selector$",
	})
	if len(s.Guards.Rules) == 0 {
		s.Guards.Rules = []GuardRuleSettings{
			{Registration: "ipcMain.handle", Guard: "ipcMain.removeHandler"},
			{Registration: "ipcMain.on", Guard: "ipcMain.removeAllListeners"},
		}
	}

	setString(&s.Release.Provider, "github")
	setString(&s.Release.UpstreamRepository, "iiPythonx/feishin")
	setString(&s.Release.AssetPrefix, "feishin-")
	setString(&s.Release.AssetSuffix, "linux-amd64.deb")

	setString(&s.Package.Repository, "iceyear/iipython-feishin-electron-bin")
	setString(&s.Package.PackageBase, "iipython-feishin-electron")
	setString(&s.Package.Provides, "feishin")
	setString(&s.Package.Pkgbuild, "PKGBUILD")
	setString(&s.Package.Srcinfo, ".SRCINFO")
}

func setString(field *string, fallback string) {
	if *field == "" {
		*field = fallback
	}
}

func setInt(field *int, fallback int) {
	if *field == 0 {
		*field = fallback
	}
}

func setStrings(field *[]string, fallback []string) {
	if len(*field) == 0 {
		*field = fallback
	}
}

// GuardPolicy builds the guard rewriter policy from the validated settings.
func (s *Settings) GuardPolicy() patcher.GuardPolicy {
	rules := make([]patcher.GuardRule, 0, len(s.Guards.Rules))
	for _, rule := range s.Guards.Rules {
		rules = append(rules, patcher.GuardRule{Registration: rule.Registration, Guard: rule.Guard})
	}

	allowList := s.allowList
	if len(allowList) != len(s.Guards.AllowList) {
		allowList = make([]*regexp.Regexp, 0, len(s.Guards.AllowList))
		for _, pattern := range s.Guards.AllowList {
			if re, err := regexp.Compile(pattern); err == nil {
				allowList = append(allowList, re)
			}
		}
	}
	return patcher.GuardPolicy{Rules: rules, AllowList: allowList}
}

// ImportRewrite builds the import rewrite from the settings.
func (s *Settings) ImportRewrite() patcher.ImportRewrite {
	return patcher.ImportRewrite{SourcePrefix: s.Imports.SourcePrefix, TargetPrefix: s.Imports.TargetPrefix}
}

// ReleaseLayout describes the packaged release assets.
func (s *Settings) ReleaseLayout() patcher.ReleaseLayout {
	return patcher.ReleaseLayout{
		Repository:  s.Package.Repository,
		PackageBase: s.Package.PackageBase,
		Provides:    s.Package.Provides,
		AssetPrefix: s.Release.AssetPrefix,
		AssetSuffix: s.Release.AssetSuffix,
	}
}

// RegistryTimeout is the bound on a single registry request.
func (s *Settings) RegistryTimeout() time.Duration {
	return time.Duration(s.Registry.TimeoutSeconds) * time.Second
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or ErrConfigNotFound.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".sourcepatch.yaml",
		".sourcepatch.yml",
		"sourcepatch.yaml",
		"sourcepatch.yml",
		"sourcepatch.hcl",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", ErrConfigNotFound
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validate checks the settings and compiles the guard allow-list.
func (s *Settings) validate() error {
	if s.Registry.TimeoutSeconds < 0 {
		return errors.New("registry.timeout_seconds must be positive")
	}
	if s.Registry.ViteMajor < 0 {
		return errors.New("registry.vite_major must be positive")
	}

	for i, rule := range s.Guards.Rules {
		if rule.Registration == "" || rule.Guard == "" {
			return fmt.Errorf("guards.rules[%d] needs both registration and guard", i)
		}
	}

	compiled := make([]*regexp.Regexp, 0, len(s.Guards.AllowList))
	for i, pattern := range s.Guards.AllowList {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("guards.allow_list[%d] is not a valid pattern: %w", i, err)
		}
		compiled = append(compiled, re)
	}
	s.allowList = compiled

	if !strings.Contains(s.Release.UpstreamRepository, "/") {
		return fmt.Errorf("release.upstream_repository %q must be owner/name", s.Release.UpstreamRepository)
	}
	if !strings.Contains(s.Package.Repository, "/") {
		return fmt.Errorf("package.repository %q must be owner/name", s.Package.Repository)
	}

	return nil
}
