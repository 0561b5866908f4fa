package slackbot

import (
	"context"

	"github.com/slack-go/slack"
)

// Config는 Slack 발송 설정입니다. (설정의 'slack' 섹션)
type Config struct {
	BotToken string
	DryRun   bool
}

// Sender는 그룹 하나에 텍스트를 발송합니다.
type Sender interface {
	Send(ctx context.Context, groupID int64, text string) error
}

// Poster는 slack.Client에서 발송에 쓰는 부분만 뽑은 인터페이스입니다.
type Poster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}
