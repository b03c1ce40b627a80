package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type SheetsConfig struct {
	SpreadsheetID   string `toml:"spreadsheet_id"`
	DatasetTab      string `toml:"dataset_tab"`
	SettingsTab     string `toml:"settings_tab"`
	CredentialsFile string `toml:"credentials_file"`
}

type PipelineConfig struct {
	Parallel int `toml:"parallel"`
}

type Config struct {
	LLM      LLMConfig      `toml:"llm"`
	Sheets   SheetsConfig   `toml:"sheets"`
	Pipeline PipelineConfig `toml:"pipeline"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	if cfg.Sheets.DatasetTab == "" {
		cfg.Sheets.DatasetTab = "Dataset"
	}
	if cfg.Sheets.SettingsTab == "" {
		cfg.Sheets.SettingsTab = "Settings"
	}
	if cfg.Pipeline.Parallel <= 0 {
		cfg.Pipeline.Parallel = 4
	}

	return &cfg, nil
}

// ApplyEnvOverrides lets deploy-time env vars win over the TOML file.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("SPREADSHEET_ID"); v != "" {
		c.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("SHEETS_CREDENTIALS_FILE"); v != "" {
		c.Sheets.CredentialsFile = v
	}
}
