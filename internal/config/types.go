package config

// AppConfig holds runtime startup configuration loaded from YAML with
// environment overrides.
type AppConfig struct {
	Port           int             `yaml:"port"`
	Env            string          `yaml:"env"` // "development" | "production"
	DSN            string          `yaml:"-"`
	Database       DatabaseOptions `yaml:"database"`
	RedisURL       string          `yaml:"redis_url"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	SessionSecret  string          `yaml:"session_secret"`
	StaticDir      string          `yaml:"static_dir"`
	Blob           S3Options       `yaml:"blob"`
	AI             AIConfig        `yaml:"ai"`
	Auth           AuthOptions     `yaml:"auth"`
	DevTools       DevToolsOptions `yaml:"dev_tools"`
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

type DatabaseOptions struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	Loc      string `yaml:"loc"`
}

// S3Options configures the S3-compatible blob store holding uploaded audio.
type S3Options struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	CustomDomain    string `yaml:"custom_domain"`
	PathStyleAccess bool   `yaml:"path_style_access"`
	KeyPrefix       string `yaml:"key_prefix"`
}

// AIProvider is one configured inference backend.
type AIProvider struct {
	ID           string `yaml:"id"`
	Type         string `yaml:"type"` // openai | anthropic | openai-compatible
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

// AIModelAssignment pins a provider/model pair to one pipeline task.
type AIModelAssignment struct {
	ProviderID string `yaml:"provider_id"`
	Model      string `yaml:"model"`
}

// AIConfig selects providers per enrichment and summary task. Each phase may
// run on a different model tuned for it.
type AIConfig struct {
	Providers          []AIProvider       `yaml:"providers"`
	TranscriptionModel string             `yaml:"transcription_model"` // audio-to-text model id
	Transcription      *AIModelAssignment `yaml:"transcription"`
	Analysis           *AIModelAssignment `yaml:"analysis"`
	Mood               *AIModelAssignment `yaml:"mood"`
	DailySummary       *AIModelAssignment `yaml:"daily_summary"`
	WeeklySummary      *AIModelAssignment `yaml:"weekly_summary"`
}

// AuthOptions configures the web perimeter login.
type AuthOptions struct {
	Username       string `yaml:"username"`
	PasswordBcrypt string `yaml:"password_bcrypt"`
	Password       string `yaml:"password"` // plain fallback for dev setups
}

type DevToolsOptions struct {
	Enable bool `yaml:"enable"`
}
