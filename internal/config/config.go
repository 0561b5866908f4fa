// Package config는 설정 섹션(server, storage, repository, redis, slack, scheduler, groups)을 읽어 Config로 만듭니다.
// 운영은 AWS Parameter Store(confloader), 로컬은 YAML/JSON 파일(viper)을 씁니다.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sizzlei/confloader"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"herald/internal/aws"
	"herald/internal/channel"
	"herald/internal/scheduler"
	"herald/internal/slackbot"
	"herald/internal/storage"
)

const (
	DefaultPort       = 3000
	DefaultStorageDir = "data"
)

// Config는 애플리케이션 전체 설정입니다.
type Config struct {
	Server    ServerConfig
	Storage   storage.Options
	Slack     slackbot.Config
	Scheduler SchedulerConfig
	Groups    map[int64][]string
}

type ServerConfig struct {
	Port int `validate:"min=1,max=65535"`
}

type SchedulerConfig struct {
	Enabled        bool
	SyncSpec       string
	SendTimeout    time.Duration `validate:"gte=0"`
	SubstituteVars bool
	Timezone       string
}

// SectionFunc는 이름으로 설정 섹션을 돌려줍니다. 섹션이 없으면 nil
type SectionFunc func(name string) map[string]interface{}

var sectionNames = []string{"server", "storage", "repository", "redis", "slack", "scheduler", "groups"}

// Load는 AWS Parameter Store의 key에서 설정을 읽습니다.
func Load(region, key string) (*Config, error) {
	conf, err := confloader.AWSParamLoader(region, key)
	if err != nil {
		return nil, fmt.Errorf("parameter store load 실패: %w", err)
	}
	return FromSections(func(name string) map[string]interface{} {
		return conf.Keyload(name)
	})
}

// LoadFile은 로컬 설정 파일(YAML/JSON)을 읽습니다.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("설정 파일(%s) 읽기 실패: %w", path, err)
	}
	return fromViper(v)
}

// FromSections는 섹션들을 viper에 합친 뒤 Config로 변환하고 검증합니다.
func FromSections(section SectionFunc) (*Config, error) {
	v := newViper()
	for _, name := range sectionNames {
		values := section(name)
		if values == nil {
			continue
		}
		if err := v.MergeConfigMap(map[string]interface{}{name: values}); err != nil {
			return nil, fmt.Errorf("설정 섹션(%s) 병합 실패: %w", name, err)
		}
	}
	return fromViper(v)
}

// newViper는 기본값과 SERVER_PORT 환경 변수가 연결된 viper를 만듭니다.
// viper는 키를 소문자로 다루므로 섹션 키의 대소문자는 구분하지 않습니다.
func newViper() *viper.Viper {
	v := viper.New()
	_ = v.BindEnv("server.port", "SERVER_PORT")

	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("storage.driver", storage.DriverFile)
	v.SetDefault("storage.dir", DefaultStorageDir)
	v.SetDefault("repository.port", 3306)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.prefix", "herald:")
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.syncspec", scheduler.DefaultSyncSpec)
	v.SetDefault("scheduler.sendtimeout", scheduler.DefaultSendTimeout)
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	r := reader{v: v}
	cfg := &Config{}

	cfg.Server.Port = r.getInt("server.port")

	cfg.Storage = storage.Options{
		Driver: v.GetString("storage.driver"),
		Dir:    v.GetString("storage.dir"),
		Table:  v.GetString("storage.table"),
		MySQL: aws.DBI{
			User:         v.GetString("repository.user"),
			Password:     v.GetString("repository.password"),
			Endpoint:     v.GetString("repository.endpoint"),
			Port:         r.getInt("repository.port"),
			Database:     v.GetString("repository.database"),
			MaxOpenConns: r.getInt("repository.maxopenconns"),
		},
		Redis: storage.RedisOptions{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       r.getInt("redis.db"),
			Prefix:   v.GetString("redis.prefix"),
		},
	}

	cfg.Slack = slackbot.Config{
		BotToken: v.GetString("slack.bottoken"),
		DryRun:   r.getBool("slack.dryrun"),
	}

	cfg.Scheduler = SchedulerConfig{
		Enabled:        r.getBool("scheduler.enabled"),
		SyncSpec:       v.GetString("scheduler.syncspec"),
		SendTimeout:    r.getDuration("scheduler.sendtimeout"),
		SubstituteVars: r.getBool("scheduler.substitutevars"),
		Timezone:       v.GetString("scheduler.timezone"),
	}

	if v.IsSet("groups") {
		groups, err := channel.ParseSection(v.GetStringMap("groups"))
		if err != nil {
			return nil, err
		}
		cfg.Groups = groups
	}

	if err := r.err(); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("설정 검증 실패: %w", err)
	}
	if cfg.Storage.Driver == storage.DriverMySQL && cfg.Storage.MySQL.Endpoint == "" {
		return nil, fmt.Errorf("mysql 저장소에는 repository.Endpoint가 필요합니다")
	}
	return cfg, nil
}

// SchedulerOptions는 스케줄러 생성 옵션을 만듭니다.
func (c *Config) SchedulerOptions() (scheduler.Options, error) {
	opts := scheduler.Options{
		SyncSpec:       c.Scheduler.SyncSpec,
		SendTimeout:    c.Scheduler.SendTimeout,
		SubstituteVars: c.Scheduler.SubstituteVars,
	}
	if c.Scheduler.Timezone != "" {
		loc, err := time.LoadLocation(c.Scheduler.Timezone)
		if err != nil {
			return opts, fmt.Errorf("scheduler.Timezone 값이 잘못되었습니다: %w", err)
		}
		opts.Location = loc
	}
	return opts, nil
}

// reader는 viper 값을 cast로 변환하고 형식 오류를 모읍니다.
// viper의 GetInt 등은 변환 실패를 0으로 삼키므로 E 변형을 씁니다.
type reader struct {
	v    *viper.Viper
	errs []string
}

func (r *reader) err() error {
	if len(r.errs) == 0 {
		return nil
	}
	return fmt.Errorf("설정 값 형식 오류: %s", strings.Join(r.errs, "; "))
}

func (r *reader) fail(key string) {
	r.errs = append(r.errs, fmt.Sprintf("%s=%v", key, r.v.Get(key)))
}

func (r *reader) getInt(key string) int {
	n, err := cast.ToIntE(r.v.Get(key))
	if err != nil {
		r.fail(key)
	}
	return n
}

func (r *reader) getBool(key string) bool {
	b, err := cast.ToBoolE(r.v.Get(key))
	if err != nil {
		r.fail(key)
	}
	return b
}

// getDuration은 "30s" 같은 문자열 또는 초 단위 숫자를 받습니다.
func (r *reader) getDuration(key string) time.Duration {
	raw := r.v.Get(key)
	if _, ok := raw.(time.Duration); !ok {
		if secs, err := cast.ToFloat64E(raw); err == nil {
			return time.Duration(secs * float64(time.Second))
		}
	}
	d, err := cast.ToDurationE(raw)
	if err != nil {
		r.fail(key)
	}
	return d
}
