package dal

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tonybot/models"
)

// InitDB opens a database connection and migrates the schema.
func InitDB(driver string, dsn string) (*gorm.DB, error) {
	db, err := Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	slog.Info("Connected to database", slog.String("driver", driver))

	if err = Migrate(db); err != nil {
		return nil, err
	}
	slog.Info("Migrated database")

	return db, nil
}

// Open opens a connection using the named driver without touching the schema.
func Open(driver string, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables backing the models package.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Report{}, &models.Suggestion{}, &models.CountingChannel{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// SaveReport stores the given bug report, assigning a reference if it has none.
func SaveReport(report *models.Report, db *gorm.DB) error {
	if report.Reference == "" {
		report.Reference = uuid.NewString()
	}
	return db.Create(report).Error
}

// SaveSuggestion stores the given suggestion, assigning a reference if it has none.
func SaveSuggestion(suggestion *models.Suggestion, db *gorm.DB) error {
	if suggestion.Reference == "" {
		suggestion.Reference = uuid.NewString()
	}
	return db.Create(suggestion).Error
}

// GetCount returns the last number of the given counting channel, creating the
// channel's row at zero when it does not exist yet.
func GetCount(channelID string, db *gorm.DB) (int64, error) {
	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.CountingChannel{ChannelID: channelID}).Error
	if err != nil {
		return 0, err
	}

	var channel models.CountingChannel
	err = db.Where(&models.CountingChannel{ChannelID: channelID}).Take(&channel).Error
	if err != nil {
		return 0, err
	}
	return channel.LastNumber, nil
}

// CompareAndSetCount moves the channel's last number from old to next. It reports
// false, without error, when the stored number is no longer old.
func CompareAndSetCount(channelID string, old int64, next int64, db *gorm.DB) (bool, error) {
	result := db.Model(&models.CountingChannel{}).
		Where("channel_id = ? AND last_number = ?", channelID, old).
		Update("last_number", next)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ResetCount sets the channel's last number back to zero.
func ResetCount(channelID string, db *gorm.DB) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "channel_id"}},
		DoUpdates: clause.Assignments(map[string]any{"last_number": 0}),
	}).Create(&models.CountingChannel{ChannelID: channelID}).Error
}
