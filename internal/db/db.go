package db

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/config"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository/dao"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Open connects to the configured driver and migrates the schema. DATABASE_URL takes precedence for postgres.
func Open(conf *config.AppConfig) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch conf.Database.Driver {
	case DriverMySQL:
		db, err = OpenMySQL(conf.MySQL)
	case DriverPostgres, "":
		if url := os.Getenv("DATABASE_URL"); url != "" {
			db, err = OpenPostgresWithURL(url)
		} else {
			db, err = OpenPostgres(conf.Postgres)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conf.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err = dao.InitTables(db); err != nil {
		return nil, fmt.Errorf("dao.InitTables -> %w", err)
	}

	return db, nil
}

func OpenPostgres(conf *config.PostgresConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		conf.Host, conf.User, conf.Password, conf.DB, conf.Port, conf.SSLMode)

	return OpenPostgresWithURL(dsn)
}

func OpenPostgresWithURL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open(postgres) -> %w", err)
	}

	return db, nil
}

func OpenMySQL(conf *config.MySQLConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		conf.User, conf.Password, conf.Host, conf.Port, conf.DB)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open(mysql) -> %w", err)
	}

	return db, nil
}
