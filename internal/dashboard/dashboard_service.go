package dashboard

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"herald/internal/announcement"
	"herald/internal/channel"
	"herald/internal/template"
)

// DashboardData는 대시보드 뷰(View)에 전달될 데이터 구조체입니다.
type DashboardData struct {
	AnnouncementCount int
	EnabledCount      int
	TemplateCount     int
	GroupCount        int
	Announcements     []string // 목록 형식으로 렌더링된 공지
}

// Service는 대시보드 데이터 조회를 담당합니다.
type Service struct {
	announcements *announcement.Service
	templates     *template.Service
	directory     *channel.Directory
}

// NewService는 대시보드 서비스를 생성합니다.
func NewService(as *announcement.Service, ts *template.Service, d *channel.Directory) *Service {
	return &Service{
		announcements: as,
		templates:     ts,
		directory:     d,
	}
}

// GetDashboardData는 공지 목록과 템플릿 수를 병렬로 조회하여 집계합니다.
func (s *Service) GetDashboardData() (*DashboardData, error) {
	data := DashboardData{GroupCount: s.directory.Count()}
	var eg errgroup.Group

	eg.Go(func() error {
		all, err := s.announcements.GetAll()
		if err != nil {
			log.Errorf("[ERROR] GetDashboardData: 공지 목록 조회 실패: %v", err)
			return err
		}
		data.AnnouncementCount = len(all)
		data.Announcements = make([]string, 0, len(all))
		for i := range all {
			if all[i].Eligible() {
				data.EnabledCount++
			}
			data.Announcements = append(data.Announcements, s.announcements.Format(&all[i]))
		}
		return nil
	})

	eg.Go(func() error {
		count, err := s.templates.CountTemplates()
		if err != nil {
			log.Errorf("[ERROR] GetDashboardData: 템플릿 수 조회 실패: %v", err)
			return err
		}
		data.TemplateCount = count
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}
