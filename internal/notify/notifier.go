package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bartoszk747-code/trend/internal/models"
)

// Notifier announces newly seen watch-rule matches. New listings are always
// logged; a Discord webhook and/or bot channel message is sent when
// configured. Delivery failures are logged and swallowed, never surfaced.
type Notifier struct {
	webhookURL string
	channelID  string
	discord    *discordgo.Session
	httpClient *http.Client
	printer    *message.Printer
}

// New creates a Notifier. Both webhookURL and botToken are optional.
func New(webhookURL, botToken, channelID string) *Notifier {
	var session *discordgo.Session
	if botToken != "" {
		s, err := discordgo.New("Bot " + botToken)
		if err == nil {
			session = s
		} else {
			log.Error().Err(err).Msg("Failed to initialize discordgo session in Notifier")
		}
	}

	return &Notifier{
		webhookURL: webhookURL,
		channelID:  channelID,
		discord:    session,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		printer:    message.NewPrinter(language.English),
	}
}

// NotifyNewListings announces each listing in turn.
func (n *Notifier) NotifyNewListings(ctx context.Context, rule models.WatchRule, listings []models.Listing) {
	for _, l := range listings {
		n.notifyOne(ctx, rule, l)
	}
}

func (n *Notifier) notifyOne(ctx context.Context, rule models.WatchRule, l models.Listing) {
	priceText := "unknown price"
	if l.Price != nil {
		priceText = n.printer.Sprintf("%.2f %s", *l.Price, l.Currency)
	}

	log.Info().
		Int64("rule_id", rule.ID).
		Str("site", string(l.Site)).
		Str("title", l.Title).
		Str("price", priceText).
		Str("url", l.URL).
		Msg("New listing matched watch rule")

	content := fmt.Sprintf("**%s** - %s", l.Title, priceText)

	if n.webhookURL != "" {
		n.sendWebhook(ctx, rule, l, content, priceText)
	}
	if n.discord != nil && n.channelID != "" {
		n.sendChannelMessage(rule, l, content, priceText)
	}
}

func (n *Notifier) sendWebhook(ctx context.Context, rule models.WatchRule, l models.Listing, content, priceText string) {
	embed := map[string]interface{}{
		"title": fmt.Sprintf("New match: %s", l.Title),
		"url":   l.URL,
		"color": 0x2ECC71,
		"fields": []map[string]interface{}{
			{"name": "Price", "value": priceText, "inline": true},
			{"name": "Site", "value": string(l.Site), "inline": true},
			{"name": "Watch", "value": rule.Query, "inline": true},
		},
		"footer": map[string]interface{}{
			"text": "Market Watcher",
		},
		"timestamp": time.Now().Format(time.RFC3339),
	}

	payload := map[string]interface{}{
		"content": content,
		"embeds":  []interface{}{embed},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to deliver webhook notification")
		return
	}
	resp.Body.Close()
}

func (n *Notifier) sendChannelMessage(rule models.WatchRule, l models.Listing, content, priceText string) {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("New match: %s", l.Title),
		URL:   l.URL,
		Color: 0x2ECC71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Price", Value: priceText, Inline: true},
			{Name: "Site", Value: string(l.Site), Inline: true},
			{Name: "Watch", Value: rule.Query, Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Market Watcher"},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	_, err := n.discord.ChannelMessageSendComplex(n.channelID, &discordgo.MessageSend{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		log.Error().Err(err).Str("channel_id", n.channelID).Msg("Failed to send channel message")
	}
}
