package notify

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Notifier uploads report files to a Discord webhook.
// A notifier built from an empty webhook url is disabled: sending
// through it logs a warning and does nothing
type Notifier struct {
	webhookId    string
	webhookToken string
	session      *discordgo.Session
}

func NewNotifier(webhookURL string, timeout time.Duration) (Notifier, error) {

	var notifier Notifier

	if webhookURL == "" {
		return notifier, nil
	}

	webhookId, webhookToken, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return notifier, err
	}

	// The session only executes webhooks, so it carries no token
	session, err := discordgo.New("")
	if err != nil {
		return notifier, fmt.Errorf("could not create discord session: %w", err)
	}
	session.Client.Timeout = timeout

	notifier.webhookId = webhookId
	notifier.webhookToken = webhookToken
	notifier.session = session

	return notifier, nil
}

// Send uploads the file to the webhook, with the provided message as
// its caption. The file stays on disk no matter the outcome
func (notifier *Notifier) Send(filePath string, message string) error {

	if notifier.session == nil {
		log.Warn().Msg("No webhook configured. Skipping webhook send")
		return nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("could not open report file %s: %w", filePath, err)
	}
	defer file.Close()

	params := discordgo.WebhookParams{
		Content: message,
		Files:   []*discordgo.File{{Name: filepath.Base(filePath), ContentType: "text/plain", Reader: file}},
	}
	if _, err := notifier.session.WebhookExecute(notifier.webhookId, notifier.webhookToken, false, &params); err != nil {
		return fmt.Errorf("could not execute webhook: %w", err)
	}

	log.Info().Msg("Webhook file sent successfully")
	return nil
}

// Extract the webhook id and token from a Discord webhook url.
// The path must contain a webhooks/{id}/{token} run of segments
func ParseWebhookURL(rawURL string) (string, string, error) {

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("webhook url is not a valid url: %w", err)
	}

	segments := strings.Split(parsed.Path, "/")
	for i, segment := range segments {
		if segment == "webhooks" && i+2 < len(segments) && segments[i+1] != "" && segments[i+2] != "" {
			return segments[i+1], segments[i+2], nil
		}
	}

	return "", "", fmt.Errorf("webhook url does not contain webhooks/{id}/{token}: %s", rawURL)
}
