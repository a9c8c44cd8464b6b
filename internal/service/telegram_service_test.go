package service

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	ch := make(chan tgbotapi.Update)
	close(ch)
	return ch
}

func (f *fakeSender) GetSelf() tgbotapi.User {
	return tgbotapi.User{UserName: "studio_bot"}
}

func (f *fakeSender) StopReceivingUpdates() {}

func TestSendMessage(t *testing.T) {
	sender := &fakeSender{}
	svc := NewTelegramService(sender)

	_, err := svc.SendMessage(42, "halo")
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "halo", msg.Text)
	assert.Empty(t, msg.ParseMode)
}

func TestSendMarkdown(t *testing.T) {
	sender := &fakeSender{}
	svc := NewTelegramService(sender)

	_, err := svc.SendMarkdown(42, "*halo*")
	require.NoError(t, err)

	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, "Markdown", msg.ParseMode)
}

func TestGetSelf(t *testing.T) {
	svc := NewTelegramService(&fakeSender{})
	assert.Equal(t, "studio_bot", svc.GetSelf().UserName)
}
