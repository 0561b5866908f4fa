// Package storage는 엔티티 컬렉션을 통째로 읽고 쓰는 영속 계층입니다.
// 모든 백엔드는 fiber.Storage 인터페이스를 구현합니다.
package storage

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/mysql/v2"
	log "github.com/sirupsen/logrus"

	"herald/internal/aws"
)

const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverMySQL  = "mysql"

	defaultTable = "herald_collections"
)

// Options는 저장소 백엔드 설정입니다.
type Options struct {
	Driver string `validate:"required,oneof=memory file redis mysql"`
	Dir    string `validate:"required_if=Driver file"`
	Table  string
	MySQL  aws.DBI
	Redis  RedisOptions
}

// Open은 설정된 드라이버의 fiber.Storage를 생성합니다.
func Open(opts Options) (fiber.Storage, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemoryStorage()
	case DriverFile:
		log.Infof("badger 저장소를 사용합니다. (dir: %s)", opts.Dir)
		return NewBadgerStorage(opts.Dir)
	case DriverRedis:
		return NewRedisStorage(opts.Redis)
	case DriverMySQL:
		dbo, err := aws.CreateConnection(opts.MySQL)
		if err != nil {
			return nil, fmt.Errorf("repository connection failed: %w", err)
		}
		table := opts.Table
		if table == "" {
			table = defaultTable
		}
		log.Infof("MySQL 저장소를 사용합니다. (table: %s)", table)
		return mysql.New(mysql.Config{
			Db:    dbo.DB,
			Table: table,
		}), nil
	default:
		return nil, fmt.Errorf("지원하지 않는 저장소 드라이버입니다: %q", opts.Driver)
	}
}
