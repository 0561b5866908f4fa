package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"herald/internal/announcement"
	"herald/internal/apperrors"
	"herald/internal/channel"
	"herald/internal/metrics"
	"herald/internal/scheduler"
	"herald/internal/template"
)

const (
	replyNotSelected   = "먼저 공지를 선택하세요. (공지 선택 <ID/별칭>)"
	replyDeleted       = "이미 삭제된 공지입니다"
	replyUnknown       = "알 수 없는 명령입니다. '도움말'을 입력하세요"
	replyInternal      = "처리 중 오류가 발생했습니다"
	replyNotTemplate   = "선택한 공지의 본문이 템플릿이 아닙니다"
	replyBadUsage      = "명령 형식이 잘못되었습니다. 사용법:\n"
	replyHelpHeader    = "사용 가능한 명령:"
	unknownCommandName = "unknown"
)

// invocation은 파싱된 명령 한 건입니다.
// 첫 줄의 키워드 뒤가 args(rest는 공백 분리 전 원문), 둘째 줄부터가 body입니다.
type invocation struct {
	userID string
	args   []string
	rest   string
	body   string
}

type command struct {
	keyword string
	usage   string
	run     func(inv invocation) []string
}

// Service는 텍스트 명령을 해석해 공지/템플릿 서비스를 호출합니다.
type Service struct {
	announcements *announcement.Service
	templates     *template.Service
	selections    *SelectionStore
	directory     *channel.Directory
	validateCron  func(expr string) error
	commands      []command
}

// NewService는 새 Service를 생성합니다. directory가 nil이면 그룹 매핑 경고를 생략합니다.
func NewService(announcements *announcement.Service, templates *template.Service, selections *SelectionStore, directory *channel.Directory) *Service {
	s := &Service{
		announcements: announcements,
		templates:     templates,
		selections:    selections,
		directory:     directory,
		validateCron:  scheduler.Validate,
	}
	s.commands = []command{
		{"새 공지", "새 공지 [별칭]", s.newAnnouncement},
		{"공지 선택", "공지 선택 <ID/별칭>", s.selectAnnouncement},
		{"공지 삭제", "공지 삭제", s.deleteAnnouncement},
		{"공지 목록", "공지 목록", s.listAnnouncements},
		{"별칭 변경", "별칭 변경 [별칭] (비우면 별칭 제거)", s.rename},
		{"그룹 추가", "그룹 추가 <그룹ID> [그룹ID...]", s.addGroups},
		{"그룹 제거", "그룹 제거 <그룹ID> [그룹ID...]", s.removeGroups},
		{"일반 본문", "일반 본문\n<내용>", s.setPlainBody},
		{"템플릿 본문", "템플릿 본문 <템플릿 ID/별칭>\n키 = 값\n...", s.setTemplateBody},
		{"변수 설정", "변수 설정\n키 = 값\n...", s.setVariables},
		{"변수 해제", "변수 해제 <키> [키...]", s.unsetVariables},
		{"공지 활성화", "공지 활성화", s.enable},
		{"공지 비활성화", "공지 비활성화", s.disable},
		{"트리거 추가", "트리거 추가 <cron 식> (예: 트리거 추가 0 9 * * 1-5)", s.addTrigger},
		{"트리거 삭제", "트리거 삭제 [트리거ID...] (비우면 전체 삭제)", s.removeTriggers},
		{"미리보기", "미리보기", s.preview},
		{"새 템플릿", "새 템플릿 [별칭]\n<내용>", s.newTemplate},
		{"템플릿 삭제", "템플릿 삭제 <템플릿 ID/별칭>", s.deleteTemplate},
		{"템플릿 목록", "템플릿 목록", s.listTemplates},
		{"도움말", "도움말", s.help},
	}
	return s
}

// Execute는 명령 한 건을 실행하고 답장 목록을 반환합니다. 실패도 답장으로 표현합니다.
func (s *Service) Execute(userID, text string) []string {
	header, body, _ := strings.Cut(strings.TrimSpace(text), "\n")
	header = strings.TrimSpace(header)

	for _, cmd := range s.commands {
		if header != cmd.keyword && !strings.HasPrefix(header, cmd.keyword+" ") {
			continue
		}
		metrics.ObserveCommand(cmd.keyword)
		rest := strings.TrimSpace(strings.TrimPrefix(header, cmd.keyword))
		return cmd.run(invocation{
			userID: userID,
			args:   strings.Fields(rest),
			rest:   rest,
			body:   body,
		})
	}
	metrics.ObserveCommand(unknownCommandName)
	return []string{replyUnknown}
}

func (s *Service) usage(keyword string) []string {
	for _, cmd := range s.commands {
		if cmd.keyword == keyword {
			return []string{replyBadUsage + cmd.usage}
		}
	}
	return []string{replyUnknown}
}

// failure는 에러를 사용자에게 보여줄 답장으로 바꿉니다.
func failure(err error) []string {
	if errors.Is(err, apperrors.ErrInvalidVariant) {
		return []string{replyNotTemplate}
	}
	e := apperrors.FromError(err)
	if e.Status >= 500 {
		log.Errorf("[ERROR] 명령 처리 실패: %v", err)
		return []string{replyInternal}
	}
	return []string{e.Message}
}

// selected는 사용자가 선택한 공지의 ID 참조를 반환합니다.
// 답장이 nil이 아니면 그대로 사용자에게 돌려주고 종료합니다.
func (s *Service) selected(userID string) (string, []string) {
	id, ok, err := s.selections.Get(userID)
	if err != nil {
		return "", failure(err)
	}
	if !ok {
		return "", []string{replyNotSelected}
	}
	if _, err := s.announcements.Get(id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", []string{replyDeleted}
		}
		return "", failure(err)
	}
	return id.String(), nil
}

func (s *Service) newAnnouncement(inv invocation) []string {
	if len(inv.args) > 1 {
		return s.usage("새 공지")
	}
	alias := ""
	if len(inv.args) == 1 {
		alias = inv.args[0]
	}
	a, err := s.announcements.Create(alias)
	if err != nil {
		return failure(err)
	}
	if err := s.selections.Select(inv.userID, a.ID); err != nil {
		return failure(err)
	}
	reply := "새 공지를 만들었습니다\nID=" + a.ID.String()
	if a.Alias != "" {
		reply += "\n별칭: " + a.Alias
	}
	return []string{reply}
}

func (s *Service) selectAnnouncement(inv invocation) []string {
	if len(inv.args) != 1 {
		return s.usage("공지 선택")
	}
	a, err := s.announcements.Resolve(inv.args[0])
	if err != nil {
		return failure(err)
	}
	if err := s.selections.Select(inv.userID, a.ID); err != nil {
		return failure(err)
	}
	return []string{"공지 선택: " + a.Label()}
}

func (s *Service) deleteAnnouncement(inv invocation) []string {
	ref, reply := s.selected(inv.userID)
	if reply != nil {
		return reply
	}
	a, err := s.announcements.Delete(ref)
	if err != nil {
		return failure(err)
	}
	return []string{"선택한 공지를 삭제했습니다: " + a.Label()}
}

func (s *Service) listAnnouncements(inv invocation) []string {
	all, err := s.announcements.GetAll()
	if err != nil {
		return failure(err)
	}
	replies := []string{fmt.Sprintf("공지 %d개", len(all))}
	for i := range all {
		replies = append(replies, s.announcements.Format(&all[i]))
	}
	return replies
}

func (s *Service) rename(inv invocation) []string {
	if len(inv.args) > 1 {
		return s.usage("별칭 변경")
	}
	ref, reply := s.selected(inv.userID)
	if reply != nil {
		return reply
	}
	alias := ""
	if len(inv.args) == 1 {
		alias = inv.args[0]
	}
	a, err := s.announcements.Rename(ref, alias)
	if err != nil {
		return failure(err)
	}
	if a.Alias == "" {
		return []string{"별칭을 제거했습니다: " + a.Label()}
	}
	return []string{"별칭을 변경했습니다: " + a.Label()}
}

func parseGroupIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("“%s”는 올바른 그룹 ID가 아닙니다", arg))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Service) addGroups(inv invocation) []string {
	if len(inv.args) == 0 {
		return s.usage("그룹 추가")
	}
	ids, err := parseGroupIDs(inv.args)
	if err != nil {
		return failure(err)
	}
	ref, reply := s.selected(inv.userID)
	if reply != nil {
		return reply
	}

	var added []string
	var warnings []string
	for _, id := range ids {
		if _, err := s.announcements.AddGroup(ref, id); err != nil {
			return failure(err)
		}
		added = append(added, strconv.FormatInt(id, 10))
		if s.directory != nil && !s.directory.Has(id) {
			warnings = append(warnings, fmt.Sprintf("주의: 그룹 %d에 매핑된 채널이 없습니다", id))
		}
	}
	return append([]string{"그룹 추가 완료: " + strings.Join(added, ", ")}, warnings...)
}

func (s *Service) removeGroups(inv invocation) []string {
	if len(inv.args) == 0 {
		return s.usage("그룹 제거")
	}
	ids, err := parseGroupIDs(inv.args)
	if err != nil {
		return failure(err)
	}
	ref, reply := s.selected(inv.userID)
	if reply != nil {
		return reply
	}

	replies := make([]string, 0, len(ids))
	for _, id := range ids {
		_, removed, err := s.announcements.RemoveGroup(ref, id)
		if err != nil {
			return append(replies, failure(err)...)
		}
		if removed {
			replies = append(replies, fmt.Sprintf("그룹 %d 제거 완료", id))
		} else {
			replies = append(replies, fmt.Sprintf("그룹 %d을(를) 찾을 수 없습니다", id))
		}
	}
	return replies
}

func (s *Service) setPlainBody(inv invocation) []string {
	if inv.rest != "" || strings.TrimSpace(inv.body) == "" {
		return s.usage("일반 본문")
	}
	ref, reply := s.selected(inv.userID)
	if reply != nil {
		return reply
	}
	if _, err := s.announcements.SetBody(ref, announcement.PlainBody(inv.body)); err != nil {
		return failure(err)
	}
	return []string{"일반 본문을 설정했습니다"}
}

// parseVars는 "키 = 값" 줄들을 순서대로 읽습니다. 빈 줄은 건너뜁니다.
func parseVars(body string) (announcement.Vars, error) {
	var vars announcement.Vars
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("“%s”는 '키 = 값' 형식이 아닙니다", strings.TrimSpace(line)))
		}
		vars = vars.Set(key, strings.TrimSpace(value))
	}
	return vars, nil
}

func (s *Service) setTemplateBody(inv invocation) []string {
	if len(inv.args) != 1 {
		return s.usage("템플릿 본문")
	}
	vars, err := parseVars(inv.body)
	if err != nil {
		return failure(err)
	}
	tmpl, err := s.templates.Resolve(inv.args[0])
	if err != nil {
		return failure(err)
	}
	ref, reply := s.selected(inv.userID)
	if reply != nil {
		return reply
	}
	a, err := s.announcements.SetBody(ref, announcement.TemplateBody(tmpl.ID, vars))
	if err != nil {
		return failure(err)
	}
	return []string{"템플릿 본문을 설정했습니다. 미리보기:\n" + s.announcements.Render(a)}
}

func (s *Service) setVariables(inv invocation) []string {
	vars, err := parseVars(inv.body)
	if err != nil {
		return failure(err)
	}
	if inv.rest != "" || len(vars) == 0 {
		return s.usage("변수 설정")
	}
	ref, reply := s.selected(inv.userID)
	if reply != nil {
		return reply
	}
	if _, err := s.announcements.SetVariables(ref, vars); err != nil {
		return failure(err)
	}
	return []string{fmt.Sprintf("변수 %d개를 설정했습니다", len(vars))}
}

func (s *Service) unsetVariables(inv invocation) []string {
	if len(inv.args) == 0 {
		return s.usage("변수 해제")
	}
	ref, reply := s.selected(inv.userID)
	if reply != nil {
		return reply
	}
	_, removed, err := s.announcements.UnsetVariables(ref, inv.args...)
	if err != nil {
		return failure(err)
	}
	if len(removed) == 0 {
		return []string{"해제할 변수가 없습니다"}
	}
	return []string{"변수 해제: " + strings.Join(removed, ", ")}
}

func (s *Service) enable(inv invocation) []string {
	ref, reply := s.selected(inv.userID)
	if reply != nil {
		return reply
	}
	if _, err := s.announcements.Enable(ref); err != nil {
		return failure(err)
	}
	return []string{"공지를 활성화했습니다"}
}

func (s *Service) disable(inv invocation) []string {
	ref, reply := s.selected(inv.userID)
	if reply != nil {
		return reply
	}
	if _, err := s.announcements.Disable(ref); err != nil {
		return failure(err)
	}
	return []string{"공지를 비활성화했습니다"}
}

func (s *Service) addTrigger(inv invocation) []string {
	if inv.rest == "" {
		return s.usage("트리거 추가")
	}
	if err := s.validateCron(inv.rest); err != nil {
		return failure(err)
	}
	ref, reply := s.selected(inv.userID)
	if reply != nil {
		return reply
	}
	trigger := announcement.NewTrigger(inv.rest)
	if _, err := s.announcements.AddTrigger(ref, trigger); err != nil {
		return failure(err)
	}
	return []string{fmt.Sprintf("트리거를 추가했습니다: %s(%s)", trigger.Cron, trigger.ID)}
}

func (s *Service) removeTriggers(inv invocation) []string {
	ids := make([]uuid.UUID, 0, len(inv.args))
	for _, arg := range inv.args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return []string{fmt.Sprintf("“%s”는 올바른 트리거 ID가 아닙니다", arg)}
		}
		ids = append(ids, id)
	}
	ref, reply := s.selected(inv.userID)
	if reply != nil {
		return reply
	}

	if len(ids) == 0 {
		if _, err := s.announcements.ClearTriggers(ref); err != nil {
			return failure(err)
		}
		return []string{"모든 트리거를 삭제했습니다"}
	}

	replies := make([]string, 0, len(ids))
	for _, id := range ids {
		_, removed, err := s.announcements.RemoveTrigger(ref, id)
		if err != nil {
			return append(replies, failure(err)...)
		}
		if removed {
			replies = append(replies, fmt.Sprintf("트리거 %s 삭제 완료", id))
		} else {
			replies = append(replies, fmt.Sprintf("트리거 %s을(를) 찾을 수 없습니다", id))
		}
	}
	return replies
}

func (s *Service) preview(inv invocation) []string {
	if inv.rest != "" {
		return s.usage("미리보기")
	}
	ref, reply := s.selected(inv.userID)
	if reply != nil {
		return reply
	}
	text, err := s.announcements.Preview(ref)
	if err != nil {
		return failure(err)
	}
	return []string{text}
}

func (s *Service) newTemplate(inv invocation) []string {
	if len(inv.args) > 1 || strings.TrimSpace(inv.body) == "" {
		return s.usage("새 템플릿")
	}
	req := template.CreateTemplateRequest{Content: inv.body}
	if len(inv.args) == 1 {
		req.Alias = inv.args[0]
	}
	tmpl, err := s.templates.CreateTemplate(req)
	if err != nil {
		return failure(err)
	}
	return []string{"새 템플릿을 만들었습니다: " + tmpl.Label()}
}

func (s *Service) deleteTemplate(inv invocation) []string {
	if len(inv.args) != 1 {
		return s.usage("템플릿 삭제")
	}
	tmpl, err := s.templates.DeleteTemplate(inv.args[0])
	if err != nil {
		return failure(err)
	}
	return []string{"템플릿을 삭제했습니다: " + tmpl.Label()}
}

func (s *Service) listTemplates(inv invocation) []string {
	all, err := s.templates.GetAllTemplates()
	if err != nil {
		return failure(err)
	}
	replies := []string{fmt.Sprintf("템플릿 %d개", len(all))}
	for _, tmpl := range all {
		replies = append(replies, tmpl.Label()+"\n"+tmpl.Content)
	}
	return replies
}

func (s *Service) help(inv invocation) []string {
	var sb strings.Builder
	sb.WriteString(replyHelpHeader)
	for _, cmd := range s.commands {
		sb.WriteString("\n\n")
		sb.WriteString(cmd.usage)
	}
	return []string{sb.String()}
}
