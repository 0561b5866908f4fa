package channel

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"herald/internal/apperrors"
)

// Directory는 그룹 ID → Slack 채널 ID 매핑입니다. 설정의 'groups' 섹션에서 만들어지며 읽기 전용입니다.
type Directory struct {
	groups map[int64][]string
	order  []int64
}

// NewDirectory는 새 Directory를 생성합니다. 채널이 없는 그룹은 건너뜁니다.
func NewDirectory(groups map[int64][]string) *Directory {
	d := &Directory{groups: make(map[int64][]string, len(groups))}
	for id, channels := range groups {
		if len(channels) == 0 {
			log.Warnf("그룹(ID: %d)에 채널이 없어 건너뜁니다.", id)
			continue
		}
		d.groups[id] = slices.Clone(channels)
		d.order = append(d.order, id)
	}
	slices.Sort(d.order)
	return d
}

// ParseSection은 설정 섹션을 그룹 매핑으로 변환합니다.
// 키는 그룹 ID, 값은 "C1,C2" 형태의 문자열 또는 문자열 목록입니다.
func ParseSection(section map[string]interface{}) (map[int64][]string, error) {
	groups := make(map[int64][]string, len(section))
	for key, raw := range section {
		id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("그룹 ID가 숫자가 아닙니다: %q", key)
		}
		var channels []string
		switch v := raw.(type) {
		case string:
			for _, c := range strings.Split(v, ",") {
				if c = strings.TrimSpace(c); c != "" {
					channels = append(channels, c)
				}
			}
		case []string:
			channels = v
		case []interface{}:
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("그룹(ID: %d)의 채널 ID 형식이 잘못되었습니다: %v", id, item)
				}
				channels = append(channels, strings.TrimSpace(s))
			}
		default:
			return nil, fmt.Errorf("그룹(ID: %d)의 채널 목록 형식이 잘못되었습니다: %T", id, raw)
		}
		groups[id] = channels
	}
	return groups, nil
}

// ChannelIDs는 그룹에 매핑된 Slack 채널 ID 목록을 반환합니다. 없는 그룹이면 ErrNotFound
func (d *Directory) ChannelIDs(groupID int64) ([]string, error) {
	channels, ok := d.groups[groupID]
	if !ok {
		return nil, apperrors.Clone(apperrors.ErrNotFound, fmt.Sprintf("채널이 매핑되지 않은 그룹입니다: %d", groupID))
	}
	return slices.Clone(channels), nil
}

// Has는 그룹이 등록되어 있는지 확인합니다.
func (d *Directory) Has(groupID int64) bool {
	_, ok := d.groups[groupID]
	return ok
}

// Groups는 그룹 ID 오름차순으로 전체 그룹을 반환합니다.
func (d *Directory) Groups() []Group {
	out := make([]Group, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, Group{ID: id, Channels: slices.Clone(d.groups[id])})
	}
	return out
}

// Count는 그룹 수를 반환합니다.
func (d *Directory) Count() int {
	return len(d.order)
}
