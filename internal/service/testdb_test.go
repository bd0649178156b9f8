package service

import (
	"apex_tracker_backend/internal/config"
	"apex_tracker_backend/internal/model"
	"apex_tracker_backend/pkg/database"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// 内存库按连接隔离，收紧到单连接避免表凭空消失
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-test-secret-test-secret",
			ExpireTime: time.Hour,
		},
	}
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Name: "Test User", Email: email}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedSubject(t *testing.T, db *gorm.DB, userID uint, name string) *model.Subject {
	t.Helper()
	subject := &model.Subject{UserID: userID, Name: name, Color: "#E8C547", Icon: "◎"}
	require.NoError(t, db.Create(subject).Error)
	return subject
}

func seedConcept(t *testing.T, db *gorm.DB, subjectID uint, name string, mastery int) *model.Concept {
	t.Helper()
	concept := &model.Concept{
		SubjectID: subjectID,
		Name:      name,
		Mastery:   mastery,
		Status:    model.StatusForMastery(mastery),
	}
	require.NoError(t, db.Create(concept).Error)
	return concept
}
