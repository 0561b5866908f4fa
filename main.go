package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"herald/internal/announcement"
	"herald/internal/channel"
	"herald/internal/command"
	"herald/internal/config"
	"herald/internal/dashboard"
	"herald/internal/identifier"
	"herald/internal/metrics"
	"herald/internal/middleware"
	"herald/internal/scheduler"
	"herald/internal/slackbot"
	"herald/internal/storage"
	"herald/internal/template"
	"herald/web"
)

func main() {
	var (
		configPath string
		configFile string
		region     string
	)
	flag.StringVar(&configPath, "conf", "/dba/service/infra/herald", "parameter store key")
	flag.StringVar(&configFile, "file", "", "local config file (yaml/json), overrides -conf")
	flag.StringVar(&region, "region", "ap-northeast-2", "parameter store region")
	flag.Parse()

	// Configure load
	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		cfg, err = config.Load(region, configPath)
	}
	if err != nil {
		log.Panic(err)
	}

	// 저장소 연결
	backend, err := storage.Open(cfg.Storage)
	if err != nil {
		log.Fatalf("Storage open failed. %v", err)
	}
	defer backend.Close()
	log.Infof("'%s' 저장소에 연결되었습니다.", cfg.Storage.Driver)

	// 의존성 조립
	validate := identifier.NewValidator()
	directory := channel.NewDirectory(cfg.Groups)
	log.Infof("수신 그룹 %d개가 설정되었습니다.", directory.Count())

	// Template
	templateStore := template.NewStore(backend)
	templateService := template.NewService(templateStore, validate)
	templateHandler := template.NewTemplateHandler(templateService)

	// Announcement
	announcementStore := announcement.NewStore(backend)
	announcementService := announcement.NewService(announcementStore, announcement.NewRenderer(templateStore), validate)
	announcementHandler := announcement.NewAnnouncementHandler(announcementService)

	// Command
	commandService := command.NewService(announcementService, templateService, command.NewSelectionStore(backend), directory)
	commandHandler := command.NewCommandHandler(commandService, validate)

	// Channel
	channelHandler := channel.NewChannelHandler(directory)

	// Dashboard
	dashboardService := dashboard.NewService(announcementService, templateService, directory)
	dashboardHandler := dashboard.NewDashboardHandler(dashboardService)

	// Scheduler
	schedulerOptions, err := cfg.SchedulerOptions()
	if err != nil {
		log.Panic(err)
	}
	sender := slackbot.New(cfg.Slack, directory)
	sched := scheduler.NewScheduler(announcementService, sender, schedulerOptions)
	schedulerHandler := scheduler.NewSchedulerHandler(sched, announcementService)

	// Fiber 앱 생성 및 템플릿 설정
	app := fiber.New(fiber.Config{
		Views:        web.NewEngine(),
		ErrorHandler: middleware.ErrorHandler,
		UnescapePath: true, // (한글 별칭 경로)
	})
	app.Use(middleware.RequestLogger())

	// 라우트 설정
	log.Info("라우트를 설정합니다...")

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})
	app.Get("/dashboard", dashboardHandler.HandleShowDashboard)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")
	{
		// [명령]
		api.Post("/commands", commandHandler.HandleCommand)

		// [공지]
		api.Get("/announcements", announcementHandler.HandleListAnnouncements)
		api.Get("/announcements/:ref", announcementHandler.HandleGetAnnouncement)
		api.Get("/announcements/:ref/preview", announcementHandler.HandlePreview)
		api.Post("/announcements/:ref/send", schedulerHandler.HandleSendNow)

		// [템플릿]
		api.Get("/templates", templateHandler.HandleListTemplates)
		api.Post("/templates", templateHandler.HandleCreateTemplate)
		api.Get("/templates/:ref", templateHandler.HandleGetTemplate)
		api.Put("/templates/:ref", templateHandler.HandleUpdateTemplate)
		api.Delete("/templates/:ref", templateHandler.HandleDeleteTemplate)

		// [그룹 / 스케줄러]
		api.Get("/groups", channelHandler.HandleListGroups)
		api.Get("/scheduler", schedulerHandler.HandleStatus)
	}

	// 서버 시작 (우아한 종료 로직)
	if cfg.Scheduler.Enabled {
		if err := sched.Start(); err != nil {
			log.Panic(err)
		}
	} else {
		log.Warn("스케줄러가 비활성화되어 있습니다. (scheduler.Enabled=false)")
	}

	go func() {
		log.Infof("Herald 서버(HTTP)가 [::]:%d 포트에서 시작됩니다.", cfg.Server.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			log.Panicf("HTTP 서버 Listen 실패: %v", err)
		}
	}()

	// 종료 신호 대기
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Info("[INFO] Herald 서버 종료 신호 수신...")

	if cfg.Scheduler.Enabled {
		sched.Stop()
	}

	if err := app.Shutdown(); err != nil {
		log.Errorf("HTTP 서버 Shutdown 실패: %v", err)
	}

	log.Info("[INFO] Herald 서버가 정상적으로 종료되었습니다.")
}
