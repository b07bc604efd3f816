package models

// NotifyConfig stores the operator alert channel credentials and settings.
type NotifyConfig struct {
	IsEnabled bool   `json:"is_enabled"`
	BotToken  string `json:"bot_token"`
	ChatID    string `json:"chat_id"`
}
