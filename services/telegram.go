package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var Bot *tgbotapi.BotAPI
var AdminChatID int64 // captured when the admin sends /start

// InitBot connects the optional admin notification bot and listens for the
// admin to register their chat via /start.
func InitBot(token string) error {
	var err error
	Bot, err = tgbotapi.NewBotAPI(token)
	if err != nil {
		return err
	}

	log.Printf("Notification bot authorized as %s", Bot.Self.UserName)

	go listenForCommands()

	return nil
}

func listenForCommands() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := Bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		if update.Message.IsCommand() {
			switch update.Message.Command() {
			case "start":
				AdminChatID = update.Message.Chat.ID
				msg := tgbotapi.NewMessage(AdminChatID, fmt.Sprintf("Chat registered (%d). Contest notifications will arrive here.", AdminChatID))
				Bot.Send(msg)
				log.Printf("Admin chat ID registered: %d", AdminChatID)
			}
		}
	}
}

// NotifyAdmin sends a fire-and-forget message to the registered admin chat.
// A no-op when the bot is not configured.
func NotifyAdmin(text string) {
	if Bot == nil || AdminChatID == 0 {
		return
	}

	msg := tgbotapi.NewMessage(AdminChatID, text)
	if _, err := Bot.Send(msg); err != nil {
		log.Printf("failed to send admin notification: %v", err)
	}
}
