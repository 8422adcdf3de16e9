package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"quiz-forms/internal/domain"
)

const envPrefix = "QUIZ"

type Config struct {
	Logger LoggerConfig
	Source SourceConfig
	Output OutputConfig
	Auth   AuthConfig
	Quiz   QuizConfig
	Upload UploadConfig
}

type LoggerConfig struct {
	Level string
	Env   string
}

type SourceConfig struct {
	Path string
}

type OutputConfig struct {
	Dir           string
	QuestionsFile string
	QuizzesFile   string
}

type AuthConfig struct {
	SecretsDir        string
	ClientSecretsFile string
	TokenFile         string
	Scopes            []string
}

// ClientSecretsPath is the OAuth client secrets file inside SecretsDir.
func (a AuthConfig) ClientSecretsPath() string {
	return filepath.Join(a.SecretsDir, a.ClientSecretsFile)
}

// TokenPath is the cached OAuth token file inside SecretsDir.
func (a AuthConfig) TokenPath() string {
	return filepath.Join(a.SecretsDir, a.TokenFile)
}

type QuizConfig struct {
	TitlePrefix   string
	Description   string
	ChunkSize     int
	PointValue    int64
	Shuffle       bool
	StripMarkdown bool
}

// UploadConfig holds the quota policy of the forms service.
type UploadConfig struct {
	GroupSize      int
	BatchSize      int
	MaxConcurrency int
	BatchDelay     time.Duration
	GroupDelay     time.Duration
	OrderedInserts bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("source.path", "data/README.md")

	v.SetDefault("output.dir", ".out")
	v.SetDefault("output.questions_file", "questionAns.json")
	v.SetDefault("output.quizzes_file", "quizzes.json")

	v.SetDefault("auth.secrets_dir", "secrets")
	v.SetDefault("auth.client_secrets_file", "client_secrets.json")
	v.SetDefault("auth.token_file", "token.json")
	v.SetDefault("auth.scopes", []string{"https://www.googleapis.com/auth/drive"})

	v.SetDefault("quiz.title_prefix", "Mock Quiz")
	v.SetDefault("quiz.description", "")
	v.SetDefault("quiz.chunk_size", 50)
	v.SetDefault("quiz.point_value", 2)
	v.SetDefault("quiz.shuffle", true)
	v.SetDefault("quiz.strip_markdown", false)

	v.SetDefault("upload.group_size", 20)
	v.SetDefault("upload.batch_size", 5)
	v.SetDefault("upload.max_concurrency", 5)
	v.SetDefault("upload.batch_delay", "13.5s")
	v.SetDefault("upload.group_delay", "13.5s")
	v.SetDefault("upload.ordered_inserts", true)
}

// LoadConfig reads config.yaml from the given directories (or "." and
// "./config" when none are given), then applies environment overrides.
// A missing config file is not an error; every key has a default.
func LoadConfig(configPaths ...string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if len(configPaths) == 0 {
		configPaths = []string{".", "./config"}
	}
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// GCP_CLIENT_SECRETS_JSON_FILENAME is the name older .env files use.
	if err := v.BindEnv("auth.client_secrets_file", "QUIZ_AUTH_CLIENT_SECRETS_FILE", "GCP_CLIENT_SECRETS_JSON_FILENAME"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		Source: SourceConfig{
			Path: v.GetString("source.path"),
		},
		Output: OutputConfig{
			Dir:           v.GetString("output.dir"),
			QuestionsFile: v.GetString("output.questions_file"),
			QuizzesFile:   v.GetString("output.quizzes_file"),
		},
		Auth: AuthConfig{
			SecretsDir:        v.GetString("auth.secrets_dir"),
			ClientSecretsFile: v.GetString("auth.client_secrets_file"),
			TokenFile:         v.GetString("auth.token_file"),
			Scopes:            v.GetStringSlice("auth.scopes"),
		},
		Quiz: QuizConfig{
			TitlePrefix:   v.GetString("quiz.title_prefix"),
			Description:   v.GetString("quiz.description"),
			ChunkSize:     v.GetInt("quiz.chunk_size"),
			PointValue:    v.GetInt64("quiz.point_value"),
			Shuffle:       v.GetBool("quiz.shuffle"),
			StripMarkdown: v.GetBool("quiz.strip_markdown"),
		},
		Upload: UploadConfig{
			GroupSize:      v.GetInt("upload.group_size"),
			BatchSize:      v.GetInt("upload.batch_size"),
			MaxConcurrency: v.GetInt("upload.max_concurrency"),
			BatchDelay:     v.GetDuration("upload.batch_delay"),
			GroupDelay:     v.GetDuration("upload.group_delay"),
			OrderedInserts: v.GetBool("upload.ordered_inserts"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the uploader cannot run with.
func (c *Config) Validate() error {
	positive := []struct {
		key string
		val int
	}{
		{"quiz.chunk_size", c.Quiz.ChunkSize},
		{"upload.group_size", c.Upload.GroupSize},
		{"upload.batch_size", c.Upload.BatchSize},
		{"upload.max_concurrency", c.Upload.MaxConcurrency},
	}
	for _, p := range positive {
		if p.val <= 0 {
			return domain.NewInvalidConfigError(fmt.Sprintf("%s must be positive, got %d", p.key, p.val))
		}
	}
	if c.Upload.BatchDelay < 0 || c.Upload.GroupDelay < 0 {
		return domain.NewInvalidConfigError("upload delays must not be negative")
	}
	if c.Source.Path == "" {
		return domain.NewInvalidConfigError("source.path is required")
	}
	return nil
}
