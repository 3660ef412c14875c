package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/spa-scheduler/internal/config"
	"github.com/BruksfildServices01/spa-scheduler/internal/models"
)

// slotIndexes keep two live appointments off the same start for one actor.
// The commit transaction checks overlaps first; these catch what its row locks cannot.
var slotIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_appointments_therapist_slot
        ON appointments (therapist_id, date, time)
        WHERE status <> 'cancelled' AND therapist_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_appointments_client_slot
        ON appointments (client_id, date, time)
        WHERE status <> 'cancelled'`,
}

func NewDB(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.SpaService{},
		&models.WorkingHours{},
		&models.Appointment{},
		&models.TreatmentCourse{},
		&models.Session{},
		&models.Promotion{},
		&models.Redemption{},
		&models.AuditLog{},
	); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	for _, stmt := range slotIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			log.Fatal("failed to create slot index", zap.Error(err))
		}
	}

	return db
}
