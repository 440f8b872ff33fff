package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/wricardo/battleplanes/game/service"
)

// sessionRecord is one row of the sessions table. The match itself lives in
// State as a PersistedSessionData document.
type sessionRecord struct {
	ID             string `gorm:"primaryKey;size:64"`
	GameID         string `gorm:"size:36"`
	ConfigName     string `gorm:"size:128"`
	CreatedAt      time.Time
	LastAccessedAt time.Time `gorm:"index"`
	State          datatypes.JSON
}

func (sessionRecord) TableName() string {
	return "sessions"
}

// GormPersistence implements SessionPersistence on a SQL database.
type GormPersistence struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// OpenSQLite opens (creating if needed) a SQLite database file.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	// sqlite allows one writer at a time
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// OpenPostgres connects to a Postgres database.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to validate postgres connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	return db, nil
}

// NewGormPersistence migrates the sessions table and returns the store.
func NewGormPersistence(db *gorm.DB, log zerolog.Logger) (*GormPersistence, error) {
	if err := db.AutoMigrate(&sessionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sessions table: %w", err)
	}
	log.Debug().Str("dialect", db.Dialector.Name()).Msg("session store ready")
	return &GormPersistence{db: db, logger: log}, nil
}

// Save upserts the session row
func (gp *GormPersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	state, err := json.Marshal(newPersistedData(session))
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	record := sessionRecord{
		ID:             storageKey(session.ID),
		GameID:         session.GameID,
		ConfigName:     session.ConfigName,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		State:          datatypes.JSON(state),
	}

	err = gp.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

// Load reads a session row back into a session
func (gp *GormPersistence) Load(id string) (*service.Session, error) {
	var record sessionRecord
	if err := gp.db.First(&record, "id = ?", storageKey(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(record.State, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return data.toSession()
}

// Delete removes the session row
func (gp *GormPersistence) Delete(id string) error {
	result := gp.db.Delete(&sessionRecord{}, "id = ?", storageKey(id))
	if result.Error != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns every stored session ID
func (gp *GormPersistence) ListAll() ([]string, error) {
	var ids []string
	if err := gp.db.Model(&sessionRecord{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return ids, nil
}

// Exists checks whether a row exists for id
func (gp *GormPersistence) Exists(id string) bool {
	var count int64
	if err := gp.db.Model(&sessionRecord{}).Where("id = ?", storageKey(id)).Count(&count).Error; err != nil {
		gp.logger.Warn().Err(err).Str("session", id).Msg("session lookup failed")
		return false
	}
	return count > 0
}
