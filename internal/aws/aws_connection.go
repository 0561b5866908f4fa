package aws

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// DBI는 MySQL(RDS) 접속 정보입니다. (Parameter Store 'repository' 섹션)
type DBI struct {
	User         string
	Password     string
	Endpoint     string
	Port         int
	Database     string
	MaxOpenConns int
}

// DSN은 go-sql-driver/mysql 형식의 접속 문자열을 만듭니다.
func (i DBI) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		i.User, i.Password, i.Endpoint, i.Port, i.Database)
}

// CreateConnection은 접속(PING 포함)에 성공한 *sqlx.DB를 반환합니다.
func CreateConnection(i DBI) (*sqlx.DB, error) {
	db, err := sqlx.Connect("mysql", i.DSN())
	if err != nil {
		return nil, err
	}
	if i.MaxOpenConns > 0 {
		db.SetMaxOpenConns(i.MaxOpenConns)
		db.SetMaxIdleConns(i.MaxOpenConns)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
