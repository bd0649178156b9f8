package controller

import (
	"apex_tracker_backend/internal/config"
	"apex_tracker_backend/internal/middleware"
	"apex_tracker_backend/internal/model"
	"apex_tracker_backend/internal/repository"
	"apex_tracker_backend/internal/service"
	"apex_tracker_backend/internal/util"
	"apex_tracker_backend/pkg/database"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type sessionTestEnv struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

func newSessionTestEnv(t *testing.T) *sessionTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-test-secret-test-secret",
			ExpireTime: time.Hour,
		},
	}

	sessionRepo := repository.NewSessionRepository(db)
	conceptRepo := repository.NewConceptRepository(db)
	dashboard := service.NewDashboardService(sessionRepo, nil)
	sessionService := service.NewSessionService(sessionRepo, conceptRepo, dashboard, db)
	ctrl := NewSessionController(sessionService, dashboard)

	router := gin.New()
	authed := router.Group("/api", middleware.AuthMiddleware(cfg))
	authed.POST("/sessions", ctrl.Log)
	authed.GET("/sessions", ctrl.List)

	return &sessionTestEnv{router: router, db: db, cfg: cfg}
}

func (e *sessionTestEnv) seed(t *testing.T) (*model.User, *model.Concept) {
	t.Helper()
	user := &model.User{Name: "Test User", Email: "study@example.com"}
	require.NoError(t, e.db.Create(user).Error)
	subject := &model.Subject{UserID: user.ID, Name: "Algorithms", Color: "#E8C547"}
	require.NoError(t, e.db.Create(subject).Error)
	concept := &model.Concept{SubjectID: subject.ID, Name: "Recursion", Mastery: 50, Status: model.StatusForMastery(50)}
	require.NoError(t, e.db.Create(concept).Error)
	return user, concept
}

func (e *sessionTestEnv) token(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := util.GenerateJWT(user, e.cfg.JWT.Secret, e.cfg.JWT.ExpireTime)
	require.NoError(t, err)
	return token
}

func (e *sessionTestEnv) post(t *testing.T, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestLogSessionEndpoint_Created(t *testing.T) {
	env := newSessionTestEnv(t)
	user, concept := env.seed(t)
	token := env.token(t, user)

	w := env.post(t, token, gin.H{"concept_id": concept.ID, "score": 90, "duration": 45})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Concept struct {
				Mastery int    `json:"mastery"`
				Status  string `json:"status"`
			} `json:"concept"`
			Session struct {
				Score int `json:"score"`
			} `json:"session"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, http.StatusCreated, resp.Code)
	require.Equal(t, 62, resp.Data.Concept.Mastery)
	require.Equal(t, "learning", resp.Data.Concept.Status)
	require.Equal(t, 90, resp.Data.Session.Score)
}

func TestLogSessionEndpoint_Validation(t *testing.T) {
	env := newSessionTestEnv(t)
	user, concept := env.seed(t)
	token := env.token(t, user)

	// score 是必填字段，0 也是合法值，所以缺失和 0 必须区分开
	w := env.post(t, token, gin.H{"concept_id": concept.ID})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.post(t, token, gin.H{"concept_id": concept.ID, "score": 0})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.post(t, token, gin.H{"concept_id": concept.ID, "score": 101})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.post(t, token, gin.H{"concept_id": 9999, "score": 80})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogSessionEndpoint_RequiresAuth(t *testing.T) {
	env := newSessionTestEnv(t)
	_, concept := env.seed(t)

	w := env.post(t, "", gin.H{"concept_id": concept.ID, "score": 80})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.post(t, "not-a-token", gin.H{"concept_id": concept.ID, "score": 80})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListSessionsEndpoint(t *testing.T) {
	env := newSessionTestEnv(t)
	user, concept := env.seed(t)
	token := env.token(t, user)

	w := env.post(t, token, gin.H{"concept_id": concept.ID, "score": 75})
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Sessions []struct {
				Score       int    `json:"score"`
				ConceptName string `json:"concept_name"`
				SubjectName string `json:"subject_name"`
			} `json:"sessions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Sessions, 1)
	require.Equal(t, 75, resp.Data.Sessions[0].Score)
	require.Equal(t, "Recursion", resp.Data.Sessions[0].ConceptName)
	require.Equal(t, "Algorithms", resp.Data.Sessions[0].SubjectName)
}
