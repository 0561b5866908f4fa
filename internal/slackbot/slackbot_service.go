package slackbot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"golang.org/x/sync/errgroup"

	"herald/internal/channel"
)

// New는 설정에 맞는 Sender를 생성합니다. 토큰이 없거나 DryRun이면 로그만 남기는 LogSender를 씁니다.
func New(cfg Config, directory *channel.Directory) Sender {
	if cfg.DryRun || cfg.BotToken == "" {
		log.Warn("Slack 발송이 비활성화되어 있습니다. (dry run)")
		return NewLogSender(directory)
	}
	return NewSlackSender(slack.New(cfg.BotToken), directory)
}

// SlackSender는 그룹에 매핑된 모든 Slack 채널로 메시지를 보냅니다.
type SlackSender struct {
	api       Poster
	directory *channel.Directory
}

// NewSlackSender는 새 SlackSender를 생성합니다.
func NewSlackSender(api Poster, directory *channel.Directory) *SlackSender {
	return &SlackSender{api: api, directory: directory}
}

// Send는 채널별로 병렬 발송합니다. 실패한 채널이 있어도 나머지 채널은 계속 발송하고 첫 에러를 반환합니다.
func (s *SlackSender) Send(ctx context.Context, groupID int64, text string) error {
	channelIDs, err := s.directory.ChannelIDs(groupID)
	if err != nil {
		return err
	}

	var eg errgroup.Group
	for _, channelID := range channelIDs {
		channelID := channelID
		eg.Go(func() error {
			_, _, err := s.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
			if err != nil {
				log.Errorf("[ERROR] 그룹(%d) -> 채널(%s) 발송 실패: %v", groupID, channelID, err)
				return fmt.Errorf("채널(%s) 발송 실패: %w", channelID, err)
			}
			log.Infof("[SUCCESS] 그룹(%d) -> 채널(%s) 발송 성공", groupID, channelID)
			return nil
		})
	}
	return eg.Wait()
}

// LogSender는 실제로 보내지 않고 로그만 남깁니다.
type LogSender struct {
	directory *channel.Directory
}

// NewLogSender는 새 LogSender를 생성합니다.
func NewLogSender(directory *channel.Directory) *LogSender {
	return &LogSender{directory: directory}
}

func (s *LogSender) Send(_ context.Context, groupID int64, text string) error {
	channelIDs, err := s.directory.ChannelIDs(groupID)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"group":    groupID,
		"channels": channelIDs,
	}).Infof("[DRY RUN] 공지 발송\n%s", text)
	return nil
}
