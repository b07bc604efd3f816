package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/models"
)

// Service sends operator alerts over Telegram: match-run summaries and the
// data-quality warnings the matching core reports (ungeocoded properties,
// unusable zone references, unparseable price texts). Buyer-facing email
// delivery happens elsewhere; this channel is for the back office.
type Service struct {
	logger *logrus.Logger
	client *http.Client
	config *models.NotifyConfig
}

func NewService(logger *logrus.Logger) *Service {
	return &Service{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *Service) UpdateConfig(config *models.NotifyConfig) {
	s.config = config
}

// SendMessage sends a message to the configured Telegram chat
func (s *Service) SendMessage(message string) error {
	if s.config == nil || !s.config.IsEnabled {
		return nil
	}

	if s.config.BotToken == "" {
		return errors.New("Telegram bot token is not configured")
	}

	if s.config.ChatID == "" {
		return errors.New("Telegram chat ID is not configured")
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.config.BotToken)
	payload := map[string]interface{}{
		"chat_id":    s.config.ChatID,
		"text":       message,
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %v", err)
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token - please check your token from @BotFather")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		case http.StatusNotFound:
			return errors.New("bot not found - please check your token from @BotFather")
		default:
			return fmt.Errorf("Telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// NotifyMatchRun sends a per-run summary with the stage breakdown.
func (s *Service) NotifyMatchRun(result *models.MatchResult) error {
	if s.config == nil || !s.config.IsEnabled {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>配信マッチング完了</b>\n\n")
	fmt.Fprintf(&b, "物件: %s\n", result.PropertyNumber)
	if result.ZoneCodes != "" {
		fmt.Fprintf(&b, "対象エリア: %s\n", result.ZoneCodes)
	} else {
		b.WriteString("対象エリア: なし（座標未解決）\n")
	}
	fmt.Fprintf(&b, "候補者数: %d\n", len(result.Traces))
	fmt.Fprintf(&b, "配信対象: %d\n", result.MatchedCount())

	if len(result.StageRejects) > 0 {
		b.WriteString("\n除外内訳:\n")
		for _, stage := range models.Stages {
			if n := result.StageRejects[stage]; n > 0 {
				fmt.Fprintf(&b, "  %s: %d\n", stageLabel(stage), n)
			}
		}
	}
	if result.UnparseablePrice > 0 {
		fmt.Fprintf(&b, "\n⚠️ 価格帯が解析不能な候補者: %d\n", result.UnparseablePrice)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(&b, "\n⚠️ %s\n", w)
	}

	return s.SendMessage(b.String())
}

// NotifyZoneHealth alerts when the zone-reference table carries entries that
// can never match.
func (s *Service) NotifyZoneHealth(health models.ZoneHealth) error {
	if s.config == nil || !s.config.IsEnabled {
		return nil
	}
	if health.Healthy() {
		return nil
	}

	var b strings.Builder
	b.WriteString("<b>⚠️ エリア定義の健全性チェック</b>\n\n")
	fmt.Fprintf(&b, "登録数: %d (有効 %d)\n", health.Total, health.Active)
	if health.Misconfigured > 0 {
		fmt.Fprintf(&b, "中心座標も市区町村名も無い定義: %d (%s)\n",
			health.Misconfigured, strings.Join(health.MisconfiguredSymbols, " "))
	}
	if health.InvalidSymbol > 0 {
		fmt.Fprintf(&b, "不正な記号: %d (%s)\n",
			health.InvalidSymbol, strings.Join(health.InvalidSymbols, " "))
	}

	return s.SendMessage(b.String())
}

func stageLabel(stage models.Stage) string {
	switch stage {
	case models.StageDistributionFlag:
		return "配信フラグ"
	case models.StageStatus:
		return "ステータス"
	case models.StageZone:
		return "エリア"
	case models.StagePropertyType:
		return "物件種別"
	case models.StagePrice:
		return "価格帯"
	default:
		return string(stage)
	}
}
