package notifier

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/eventdesk/registration-api/internal/config"
	"github.com/eventdesk/registration-api/internal/models"
)

// Notifier is told about admission outcomes after they are committed.
// Delivery is best effort; failures never undo a registration.
type Notifier interface {
	NotifyAdmission(participant models.Participant, event models.Event, registration models.Registration) error
	NotifyCancellation(participant models.Participant, event models.Event, registration models.Registration) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(cfg *config.Config) (*DiscordNotifier, error) {
	if cfg.DiscordBotToken == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	if cfg.DiscordNotificationsChannelID == "" {
		return nil, fmt.Errorf("discord channel ID is empty")
	}

	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	return &DiscordNotifier{
		session:   session,
		channelID: cfg.DiscordNotificationsChannelID,
	}, nil
}

func (n *DiscordNotifier) NotifyAdmission(participant models.Participant, event models.Event, registration models.Registration) error {
	outcome := "confirmed 🎟️"
	if registration.Status == models.StatusWaitlisted {
		outcome = "waitlisted ⏳"
	}

	message := fmt.Sprintf("🎉 **New Registration**\n**Participant:** %s\n**Event:** %s (%s)\n**Tickets:** %d × %s\n**Outcome:** %s",
		participant.Name,
		event.Title,
		event.StartsAt.Format("2006-01-02 15:04"),
		registration.Quantity,
		registration.TicketCategory,
		outcome,
	)
	return n.send(message)
}

func (n *DiscordNotifier) NotifyCancellation(participant models.Participant, event models.Event, registration models.Registration) error {
	message := fmt.Sprintf("❌ **Registration Cancelled**\n**Participant:** %s\n**Event:** %s\n**Seats freed:** %d",
		participant.Name,
		event.Title,
		registration.Quantity,
	)
	return n.send(message)
}

func (n *DiscordNotifier) send(message string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}
	return nil
}
