package sqlstore

import (
	"fmt"
	"time"

	"github.com/school-directory/internal/config"
	"github.com/school-directory/internal/domain"
	"github.com/school-directory/internal/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the relational store selected by cfg.DBDriver, applies the
// pool limits and migrates the schema. The caller owns the returned handle and
// must Close it on shutdown.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DBDSN)
	case "mysql":
		dialector = mysql.Open(cfg.DBDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}

	gl, err := newGormLogger()
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gl,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// newGormLogger sends gorm's warnings and errors to the process logger.
// Lookups that find nothing are expected and stay silent.
func newGormLogger() (gormlogger.Interface, error) {
	std, err := zap.NewStdLogAt(logger.Get().Named("gorm"), zapcore.WarnLevel)
	if err != nil {
		return nil, fmt.Errorf("gorm logger: %w", err)
	}
	return gormlogger.New(std, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	}), nil
}

// Migrate creates or updates the users, otps, user_sessions and schools tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.OneTimeCode{},
		&domain.Session{},
		&domain.School{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
