package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"level-helper/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load loads the configuration from environment variables and the
// leveling settings file.
func Load() (*model.Config, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}

	appID := os.Getenv("APP_ID")
	if appID == "" {
		log.Fatal("Error: APP_ID environment variable not set")
	}

	logWebhookURL := os.Getenv("LOG_WEBHOOK_URL")
	if logWebhookURL == "" {
		log.Println("Warning: LOG_WEBHOOK_URL not set, webhook logging will be disabled")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/leveling.db"
	}

	cfg := &model.Config{
		BotToken:         token,
		AppID:            appID,
		LogWebhookURL:    logWebhookURL,
		DBPath:           dbPath,
		DeveloperUserIDs: splitList(os.Getenv("DEVELOPER_USER_IDS")),
		ServerConfigs:    make(map[string]model.ServerConfig),
	}

	settings, err := loadLevelingSettings()
	if err != nil {
		return nil, err
	}
	cfg.Leveling = settings

	// Load per-guild configs
	if err := loadJSON("data/server_config.json", &cfg.ServerConfigs); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadLevelingSettings reads data/leveling_settings.yaml through
// viper, falling back to the stock defaults when the file is absent.
func loadLevelingSettings() (model.LevelingSettings, error) {
	v := viper.New()
	v.SetConfigName("leveling_settings")
	v.SetConfigType("yaml")
	v.AddConfigPath("data")

	v.SetDefault("xp_per_message_min", 15)
	v.SetDefault("xp_per_message_max", 25)
	v.SetDefault("message_cooldown", 60)
	v.SetDefault("level_up_message", true)
	v.SetDefault("level_up_channel", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return model.LevelingSettings{}, fmt.Errorf("failed to read leveling settings: %w", err)
		}
		log.Println("Info: leveling_settings.yaml not found, using defaults")
	}

	var settings model.LevelingSettings
	if err := v.Unmarshal(&settings); err != nil {
		return model.LevelingSettings{}, fmt.Errorf("failed to parse leveling settings: %w", err)
	}

	if settings.XPMin < 1 || settings.XPMax < settings.XPMin {
		return model.LevelingSettings{}, fmt.Errorf("invalid xp range [%d, %d]", settings.XPMin, settings.XPMax)
	}
	if settings.CooldownSeconds < 0 {
		return model.LevelingSettings{}, fmt.Errorf("invalid message cooldown %d", settings.CooldownSeconds)
	}

	return settings, nil
}

func loadJSON(path string, v interface{}) error {
	configFile, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Warning: Config file not found at %s, skipping.", path)
			return nil
		}
		return err
	}
	return json.Unmarshal(configFile, v)
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}
