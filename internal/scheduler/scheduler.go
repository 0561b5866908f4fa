package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"herald/internal/announcement"
	"herald/internal/apperrors"
	"herald/internal/metrics"
	"herald/internal/slackbot"
)

const (
	DefaultSyncSpec    = "@every 1m"
	DefaultSendTimeout = 30 * time.Second
)

// Source는 스케줄러가 읽는 공지 조회 API입니다. (announcement.Service)
type Source interface {
	GetAll() ([]announcement.Announcement, error)
	Get(id uuid.UUID) (*announcement.Announcement, error)
	Render(a *announcement.Announcement) string
	Expand(a *announcement.Announcement) string
}

// Options는 스케줄러 설정입니다. (설정의 'scheduler' 섹션)
type Options struct {
	SyncSpec       string
	SendTimeout    time.Duration
	SubstituteVars bool
	Location       *time.Location
}

type registration struct {
	entryID        cron.EntryID
	announcementID uuid.UUID
	expr           string
}

// Scheduler는 활성 공지의 트리거를 cron 항목으로 등록하고 시각이 되면 발송합니다.
type Scheduler struct {
	cron   *cron.Cron
	source Source
	sender slackbot.Sender
	opts   Options

	mu      sync.Mutex
	entries map[uuid.UUID]registration
}

// NewScheduler
func NewScheduler(source Source, sender slackbot.Sender, opts Options) *Scheduler {
	if opts.SyncSpec == "" {
		opts.SyncSpec = DefaultSyncSpec
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = DefaultSendTimeout
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	c := cron.New(
		cron.WithLocation(opts.Location),
		cron.WithLogger(cron.PrintfLogger(log.StandardLogger())),
	)
	return &Scheduler{
		cron:    c,
		source:  source,
		sender:  sender,
		opts:    opts,
		entries: make(map[uuid.UUID]registration),
	}
}

// Validate는 트리거 cron 식(5필드 표준 형식)을 검사합니다.
func Validate(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return apperrors.Wrap(err, apperrors.ErrValidation, fmt.Sprintf("잘못된 cron 식입니다: %s (%v)", expr, err))
	}
	return nil
}

// Start
func (s *Scheduler) Start() error {
	log.Info("[INFO] -----------------------------------------")
	log.Info("[INFO] 🔔 Herald 스케줄러가 시작됩니다...")
	if _, err := s.cron.AddFunc(s.opts.SyncSpec, s.syncJob); err != nil {
		return fmt.Errorf("sync_spec 등록 실패: %w", err)
	}
	if err := s.Sync(); err != nil {
		log.Errorf("[ERROR] [Scheduler] 최초 동기화 실패: %v", err)
	}
	s.cron.Start()
	log.Info("[INFO] -----------------------------------------")
	return nil
}

// Stop은 실행 중인 발송이 끝날 때까지 기다립니다.
func (s *Scheduler) Stop() {
	log.Info("[INFO] Herald 스케줄러가 중지됩니다...")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) syncJob() {
	if err := s.Sync(); err != nil {
		log.Errorf("[ERROR] [Scheduler] 동기화 실패: %v", err)
	}
}

// Sync는 활성 공지의 트리거와 cron 항목을 맞춥니다.
// 사라졌거나 식이 바뀐 트리거는 제거하고 새 트리거는 등록합니다.
func (s *Scheduler) Sync() error {
	all, err := s.source.GetAll()
	if err != nil {
		return err
	}

	desired := make(map[uuid.UUID]registration)
	for _, a := range all {
		if !a.Eligible() {
			continue
		}
		for _, t := range a.Triggers {
			desired[t.ID] = registration{announcementID: a.ID, expr: t.Cron}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for triggerID, reg := range s.entries {
		want, ok := desired[triggerID]
		if ok && want.announcementID == reg.announcementID && want.expr == reg.expr {
			continue
		}
		s.cron.Remove(reg.entryID)
		delete(s.entries, triggerID)
	}

	for triggerID, want := range desired {
		if _, ok := s.entries[triggerID]; ok {
			continue
		}
		announcementID := want.announcementID
		entryID, err := s.cron.AddFunc(want.expr, func() {
			s.fire(announcementID, triggerID)
		})
		if err != nil {
			log.Warnf("[Scheduler] 트리거(%s) cron 식이 잘못되어 건너뜁니다: %q (%v)", triggerID, want.expr, err)
			continue
		}
		want.entryID = entryID
		s.entries[triggerID] = want
	}

	metrics.SetScheduledTriggers(len(s.entries))
	return nil
}

// Entries는 등록된 트리거 수를 반환합니다.
func (s *Scheduler) Entries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Registered는 트리거가 현재 등록되어 있는지 확인합니다.
func (s *Scheduler) Registered(triggerID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[triggerID]
	return ok
}

func (s *Scheduler) fire(announcementID, triggerID uuid.UUID) {
	if err := s.Fire(announcementID, triggerID); err != nil {
		log.Errorf("[ERROR] [Scheduler] 공지(ID: %s) 발송 중 에러 발생: %v", announcementID, err)
	}
}

// Fire는 트리거 한 번의 실행입니다. 공지를 다시 읽어 발송 대상이 아니게 되었으면 건너뜁니다.
func (s *Scheduler) Fire(announcementID, triggerID uuid.UUID) error {
	a, err := s.source.Get(announcementID)
	if errors.Is(err, apperrors.ErrNotFound) {
		log.Infof("[Scheduler] 삭제된 공지(ID: %s)의 트리거입니다. 건너뜁니다.", announcementID)
		return nil
	}
	if err != nil {
		return err
	}
	if !a.Eligible() || a.FindTrigger(triggerID) < 0 {
		log.Infof("[Scheduler] 공지 %s는 더 이상 이 트리거로 발송하지 않습니다.", a.Label())
		return nil
	}
	if a.Body == nil || len(a.Groups) == 0 {
		log.Warnf("[Scheduler] 공지 %s에 본문 또는 수신 그룹이 없어 건너뜁니다.", a.Label())
		return nil
	}
	return s.Deliver(context.Background(), a)
}

// Deliver는 공지를 모든 수신 그룹에 병렬로 발송합니다. 활성 여부는 보지 않습니다.
func (s *Scheduler) Deliver(ctx context.Context, a *announcement.Announcement) error {
	if a.Body == nil || len(a.Groups) == 0 {
		return apperrors.Clone(apperrors.ErrValidation, "본문과 수신 그룹이 있어야 발송할 수 있습니다")
	}
	text := s.source.Render(a)
	if s.opts.SubstituteVars {
		text = s.source.Expand(a)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.SendTimeout)
	defer cancel()

	log.Infof("[Scheduler] 공지 %s 발송 시작 (그룹 %d개)", a.Label(), len(a.Groups))
	var eg errgroup.Group
	for _, groupID := range a.Groups {
		groupID := groupID
		eg.Go(func() error {
			err := s.sender.Send(ctx, groupID, text)
			metrics.ObserveDelivery(err)
			if err != nil {
				return fmt.Errorf("그룹(%d) 발송 실패: %w", groupID, err)
			}
			return nil
		})
	}
	return eg.Wait()
}
