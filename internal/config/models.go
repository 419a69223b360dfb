package config

import "time"

// BackendConfig is the analysis backend the client talks to
type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

// StoreConfig selects and configures the preference store
type StoreConfig struct {
	Type        string
	SQLitePath  string
	MySQLDSN    string
	RedisURL    string
	RedisPrefix string
}

// ServerConfig represents the configuration for the web UI
type ServerConfig struct {
	ListenAddress string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

// BackendServerConfig represents the configuration for the reference analysis backend
type BackendServerConfig struct {
	ListenAddress   string
	URLConcurrency  int
	URLCacheTTL     time.Duration
	URLCacheCleanup time.Duration
	MaxBodySize     int
	AllowedOrigins  []string
}

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
	Timeout  time.Duration
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OllamaConfig represents the configuration for a local Ollama server
type OllamaConfig struct {
	Host        string
	ModelName   string
	Temperature float32
}

// BrowserConfig controls live capture of the open mail tab
type BrowserConfig struct {
	DebugURL     string
	TabMatch     string
	WaitSelector string
	Timeout      time.Duration
}

// GetBackend returns the analysis backend configuration
func (c *Config) GetBackend() BackendConfig {
	return BackendConfig{
		URL:     c.GetString("backend.url"),
		Timeout: c.durationOr("backend.timeout", 30*time.Second),
	}
}

// GetStore returns the preference store configuration
func (c *Config) GetStore() StoreConfig {
	return StoreConfig{
		Type:        c.GetString("store.type"),
		SQLitePath:  c.GetString("store.sqlite_path"),
		MySQLDSN:    c.GetString("store.mysql_dsn"),
		RedisURL:    c.GetString("store.redis_url"),
		RedisPrefix: c.GetString("store.redis_prefix"),
	}
}

// GetServer returns the web UI configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
		ReadTimeout:   c.durationOr("server.read_timeout", 15*time.Second),
		WriteTimeout:  c.durationOr("server.write_timeout", 60*time.Second),
	}
}

// GetBackendServer returns the reference analysis backend configuration
func (c *Config) GetBackendServer() BackendServerConfig {
	return BackendServerConfig{
		ListenAddress:   c.GetString("backend_server.listen_address"),
		URLConcurrency:  c.GetInt("backend_server.url_concurrency"),
		URLCacheTTL:     c.durationOr("backend_server.url_cache_ttl", time.Hour),
		URLCacheCleanup: c.durationOr("backend_server.url_cache_cleanup", 10*time.Minute),
		MaxBodySize:     c.GetInt("backend_server.max_body_size"),
		AllowedOrigins:  c.GetStringSlice("backend_server.allowed_origins"),
	}
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
		Timeout:  c.durationOr("llm.timeout", time.Minute),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetOllama returns the Ollama configuration
func (c *Config) GetOllama() OllamaConfig {
	return OllamaConfig{
		Host:        c.GetString("ollama.host"),
		ModelName:   c.GetString("ollama.model_name"),
		Temperature: float32(c.GetFloat64("ollama.temperature")),
	}
}

// GetBrowser returns the live capture configuration
func (c *Config) GetBrowser() BrowserConfig {
	return BrowserConfig{
		DebugURL:     c.GetString("browser.debug_url"),
		TabMatch:     c.GetString("browser.tab_match"),
		WaitSelector: c.GetString("browser.wait_selector"),
		Timeout:      c.durationOr("browser.timeout", 20*time.Second),
	}
}

func (c *Config) durationOr(key string, fallback time.Duration) time.Duration {
	d, err := c.GetDuration(key)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
