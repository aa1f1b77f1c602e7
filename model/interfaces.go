package model

// BotConfigProvider provides an interface to get the bot's live
// configuration without depending on the bot package.
type BotConfigProvider interface {
	GetConfig() *Config
}
