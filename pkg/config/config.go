/*
Package config manages TOML config for glosstip.
*/
package config

import (
	"path/filepath"

	"github.com/bastiangx/glosstip/internal/utils"
	"github.com/bastiangx/glosstip/pkg/placement"
	"github.com/bastiangx/glosstip/pkg/tokenize"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Match    MatchConfig    `toml:"match"`
	Cache    CacheConfig    `toml:"cache"`
	Theme    ThemeConfig    `toml:"theme"`
	Server   ServerConfig   `toml:"server"`
	Glossary GlossaryConfig `toml:"glossary"`
}

// MatchConfig has acronym recognition options.
type MatchConfig struct {
	BareAcronyms    bool     `toml:"bare_acronyms"`
	MinLen          int      `toml:"min_len"`
	MaxLen          int      `toml:"max_len"`
	Markers         []string `toml:"markers"`
	CaseInsensitive bool     `toml:"case_insensitive"`
}

// CacheConfig sizes the tokenizer and renderer caches.
type CacheConfig struct {
	Capacity       int `toml:"capacity"`
	RenderCapacity int `toml:"render_capacity"`
}

// ThemeConfig holds tooltip sizing options. Zero max/min widths mean unset.
type ThemeConfig struct {
	MaxWidth       float64 `toml:"max_width"`
	CardWidth      float64 `toml:"card_width"`
	MinWidth       float64 `toml:"min_width"`
	OffsetDX       float64 `toml:"offset_dx"`
	OffsetDY       float64 `toml:"offset_dy"`
	ViewportMargin float64 `toml:"viewport_margin"`
}

// ServerConfig has IPC limits.
type ServerConfig struct {
	MaxTextLen     int `toml:"max_text_len"`
	MaxSuggestions int `toml:"max_suggestions"`
}

// GlossaryConfig points at a glossary file. Empty uses the builtin set.
type GlossaryConfig struct {
	Path string `toml:"path"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	match := tokenize.DefaultMatchConfig()
	markers := make([]string, len(match.MarkerPairs))
	for i, p := range match.MarkerPairs {
		markers[i] = p.String()
	}
	theme := placement.DefaultTheme()

	return &Config{
		Match: MatchConfig{
			BareAcronyms:    match.EnableBareAcronyms,
			MinLen:          match.MinLen,
			MaxLen:          match.MaxLen,
			Markers:         markers,
			CaseInsensitive: false,
		},
		Cache: CacheConfig{
			Capacity:       256,
			RenderCapacity: 128,
		},
		Theme: ThemeConfig{
			MaxWidth:       theme.MaxWidth,
			CardWidth:      theme.CardWidth,
			MinWidth:       theme.MinWidth,
			OffsetDX:       theme.Offset.DX,
			OffsetDY:       theme.Offset.DY,
			ViewportMargin: theme.ViewportMargin,
		},
		Server: ServerConfig{
			MaxTextLen:     16384,
			MaxSuggestions: 24,
		},
	}
}

// MatchConfig converts the [match] section into a validated tokenizer config.
func (c *Config) MatchConfig() (tokenize.MatchConfig, error) {
	pairs := make([]tokenize.MarkerPair, 0, len(c.Match.Markers))
	for _, m := range c.Match.Markers {
		p, err := tokenize.ParseMarkerPair(m)
		if err != nil {
			return tokenize.MatchConfig{}, err
		}
		pairs = append(pairs, p)
	}
	return tokenize.NewMatchConfig(c.Match.BareAcronyms, c.Match.MinLen, c.Match.MaxLen, pairs...)
}

// PlacementTheme converts the [theme] section.
func (c *Config) PlacementTheme() placement.Theme {
	return placement.Theme{
		MaxWidth:       c.Theme.MaxWidth,
		CardWidth:      c.Theme.CardWidth,
		MinWidth:       c.Theme.MinWidth,
		Offset:         placement.Offset{DX: c.Theme.OffsetDX, DY: c.Theme.OffsetDY},
		ViewportMargin: c.Theme.ViewportMargin,
	}
}

// GetConfigDir returns the per-user config directory, see utils.PathResolver
func GetConfigDir() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		log.Errorf("Failed to resolve paths: %v", err)
		return "", err
	}
	return pr.GetConfigDir(), nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.GetConfigPath("config.toml")
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/glosstip/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Keys missing from the file keep their
// defaults; a file that fails to decode is salvaged section by section.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "match"); ok {
		extractMatchConfig(section, &config.Match)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cache"); ok {
		extractCacheConfig(section, &config.Cache)
	}
	if section, ok := utils.ExtractSection(tempConfig, "theme"); ok {
		extractThemeConfig(section, &config.Theme)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "glossary"); ok {
		if val, ok := utils.ExtractString(section, "path"); ok {
			config.Glossary.Path = val
		}
	}
	return config, nil
}

func extractMatchConfig(data map[string]any, match *MatchConfig) {
	if val, ok := utils.ExtractBool(data, "bare_acronyms"); ok {
		match.BareAcronyms = val
	}
	if val, ok := utils.ExtractInt64(data, "min_len"); ok {
		match.MinLen = val
	}
	if val, ok := utils.ExtractInt64(data, "max_len"); ok {
		match.MaxLen = val
	}
	if val, ok := utils.ExtractStringSlice(data, "markers"); ok {
		match.Markers = val
	}
	if val, ok := utils.ExtractBool(data, "case_insensitive"); ok {
		match.CaseInsensitive = val
	}
}

func extractCacheConfig(data map[string]any, cache *CacheConfig) {
	if val, ok := utils.ExtractInt64(data, "capacity"); ok {
		cache.Capacity = val
	}
	if val, ok := utils.ExtractInt64(data, "render_capacity"); ok {
		cache.RenderCapacity = val
	}
}

func extractThemeConfig(data map[string]any, theme *ThemeConfig) {
	fields := map[string]*float64{
		"max_width":       &theme.MaxWidth,
		"card_width":      &theme.CardWidth,
		"min_width":       &theme.MinWidth,
		"offset_dx":       &theme.OffsetDX,
		"offset_dy":       &theme.OffsetDY,
		"viewport_margin": &theme.ViewportMargin,
	}
	for key, dst := range fields {
		if val, ok := utils.ExtractFloat(data, key); ok {
			*dst = val
		}
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_text_len"); ok {
		server.MaxTextLen = val
	}
	if val, ok := utils.ExtractInt64(data, "max_suggestions"); ok {
		server.MaxSuggestions = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the [match] values and validates the result. When
// configPath is set, only the given fields are written over the file's
// current contents; other in-memory values such as flag overrides stay
// out of the file.
func (c *Config) Update(configPath string, bare *bool, minLen, maxLen *int) error {
	probe := *c
	probe.Match = applyMatch(c.Match, bare, minLen, maxLen)
	if _, err := probe.MatchConfig(); err != nil {
		return err
	}

	if configPath == "" {
		c.Match = probe.Match
		return nil
	}

	persisted := DefaultConfig()
	if utils.FileExists(configPath) {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		persisted = loaded
	}
	persisted.Match = applyMatch(persisted.Match, bare, minLen, maxLen)
	if _, err := persisted.MatchConfig(); err != nil {
		return err
	}
	if err := SaveConfig(persisted, configPath); err != nil {
		return err
	}
	c.Match = probe.Match
	return nil
}

func applyMatch(m MatchConfig, bare *bool, minLen, maxLen *int) MatchConfig {
	if bare != nil {
		m.BareAcronyms = *bare
	}
	if minLen != nil {
		m.MinLen = *minLen
	}
	if maxLen != nil {
		m.MaxLen = *maxLen
	}
	return m
}
