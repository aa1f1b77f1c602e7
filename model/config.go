package model

// LevelingSettings holds the tunables of the progression engine.
// Loaded from data/leveling_settings.yaml with baked-in defaults.
type LevelingSettings struct {
	XPMin            int    `mapstructure:"xp_per_message_min"`
	XPMax            int    `mapstructure:"xp_per_message_max"`
	CooldownSeconds  int    `mapstructure:"message_cooldown"`
	LevelUpMessage   bool   `mapstructure:"level_up_message"`
	LevelUpChannelID string `mapstructure:"level_up_channel"`
}

// ServerConfig holds the per-guild configuration.
type ServerConfig struct {
	Name         string   `json:"name"`
	GuildID      string   `json:"guild_id"`
	AdminRoleIDs []string `json:"admin_role_ids"`
	Enable       bool     `json:"enable"`
}

// Config holds the application configuration.
type Config struct {
	BotToken         string
	AppID            string
	LogWebhookURL    string
	DBPath           string
	DeveloperUserIDs []string
	Leveling         LevelingSettings
	ServerConfigs    map[string]ServerConfig
}
