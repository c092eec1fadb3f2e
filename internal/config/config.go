package config

import (
	"fmt"

	"kapsel/internal/env"
	"kapsel/internal/models"

	"github.com/spf13/viper"
)

const (
	RefreshAlways  = "always"  //每次启动都覆盖缓存中的负载文件
	RefreshChanged = "changed" //内容摘要相同时跳过复制
)

/**
 * Settings collects every environment-derived override, read once at startup
 * @property {string} Java - KAPSEL_JAVA, runtime executable, bypasses discovery
 * @property {string} Cache - KAPSEL_CACHE, cache base directory override
 * @property {string} Debug - KAPSEL_DEBUG, stage tracing is on only when exactly "true"
 * @property {string} Bundle - KAPSEL_BUNDLE, bundle path, defaults to the running executable
 * @property {string} Refresh - KAPSEL_REFRESH, payload refresh policy (always/changed)
 * @property {string} Lock - KAPSEL_LOCK, "false" disables the cache lock
 * @property {string} Pushgateway - KAPSEL_PUSHGATEWAY, Prometheus Pushgateway address
 * @property {string} JavaHome - JAVA_HOME, used by runtime discovery
 * @property {string} XDGCacheHome - XDG_CACHE_HOME (Linux/BSD cache base)
 * @property {string} LocalAppData - LOCALAPPDATA (Windows cache base)
 * @property {string} AppData - APPDATA (Windows cache base fallback)
 * @property {string} Home - Home directory of the current user
 */
type Settings struct {
	Java         string `mapstructure:"java"`
	Cache        string `mapstructure:"cache"`
	Debug        string `mapstructure:"debug"`
	Bundle       string `mapstructure:"bundle"`
	Refresh      string `mapstructure:"refresh"`
	Lock         string `mapstructure:"lock"`
	Pushgateway  string `mapstructure:"pushgateway"`
	JavaHome     string `mapstructure:"java_home"`
	XDGCacheHome string `mapstructure:"xdg_cache_home"`
	LocalAppData string `mapstructure:"local_app_data"`
	AppData      string `mapstructure:"app_data"`
	Home         string `mapstructure:"-"`
}

// DebugEnabled reports whether stage tracing was requested
func (s *Settings) DebugEnabled() bool {
	return s.Debug == "true"
}

// LockEnabled reports whether materialization takes the per-application lock
func (s *Settings) LockEnabled() bool {
	return s.Lock != "false"
}

// 带前缀的变量: KAPSEL_<KEY>
var prefixedKeys = []string{"java", "cache", "debug", "bundle", "refresh", "lock", "pushgateway"}

// 不带前缀的标准变量
var plainKeys = map[string]string{
	"java_home":      "JAVA_HOME",
	"xdg_cache_home": "XDG_CACHE_HOME",
	"local_app_data": "LOCALAPPDATA",
	"app_data":       "APPDATA",
}

/**
 * Load settings from the process environment
 * @returns {*Settings} Returns settings snapshot
 * @description
 * - Binds KAPSEL_* and the platform cache variables through viper
 * - Empty variables are treated as unset
 * - Validates KAPSEL_REFRESH
 * @throws
 * - ConfigurationError when KAPSEL_REFRESH holds an unknown policy
 */
func Load() (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(env.EnvPrefix)
	for _, key := range prefixedKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	for key, name := range plainKeys {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("bind %s: %w", name, err)
		}
	}
	v.SetDefault("refresh", RefreshAlways)
	v.SetDefault("lock", "true")

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	s.Home = env.HomeDir()

	switch s.Refresh {
	case RefreshAlways, RefreshChanged:
	default:
		return nil, models.ErrInvalidSettings(env.EnvPrefix+"_REFRESH", s.Refresh,
			"refresh policy must be 'always' or 'changed'")
	}
	return &s, nil
}
