package channel

// Group은 공지의 수신 그룹 하나입니다. 그룹 ID 하나가 여러 Slack 채널로 매핑됩니다.
type Group struct {
	ID       int64    `json:"id"`
	Channels []string `json:"channels"`
}
