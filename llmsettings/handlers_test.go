package llmsettings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kyzerkul/youtube-monitor/models"
	"github.com/kyzerkul/youtube-monitor/processing"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func testRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(db)
	r := gin.New()
	r.GET("/projects/:projectId/llm-settings", h.GetSettings)
	r.PUT("/projects/:projectId/llm-settings", h.UpsertSettings)
	r.POST("/llm/verify", h.VerifyKey)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetSettingsDefaults(t *testing.T) {
	db := testDB(t)
	r := testRouter(db)

	project := models.Project{Name: "Proj"}
	require.NoError(t, db.Create(&project).Error)

	w := doJSON(r, http.MethodGet, "/projects/1/llm-settings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.ProviderMistral, resp["provider"])
	assert.Equal(t, models.DefaultMistralModel, resp["model_name"])
	assert.Nil(t, resp["api_key"])
}

func TestUpsertSettings(t *testing.T) {
	db := testDB(t)
	r := testRouter(db)

	project := models.Project{Name: "Proj"}
	require.NoError(t, db.Create(&project).Error)

	w := doJSON(r, http.MethodPut, "/projects/1/llm-settings", gin.H{
		"provider":   "openai",
		"model_name": "gpt-4o-mini",
		"api_key":    "sk-secret-key",
	})
	require.Equal(t, http.StatusOK, w.Code)
	// Responses never echo the stored key
	assert.NotContains(t, w.Body.String(), "sk-secret-key")
	assert.Contains(t, w.Body.String(), "********")

	var saved models.LLMSettings
	require.NoError(t, db.Where("project_id = ?", project.ID).First(&saved).Error)
	assert.Equal(t, "openai", saved.Provider)
	require.NotNil(t, saved.APIKey)
	assert.Equal(t, "sk-secret-key", *saved.APIKey)

	// Updating without a key keeps the stored one
	w = doJSON(r, http.MethodPut, "/projects/1/llm-settings", gin.H{
		"provider":   "mistral",
		"model_name": "mistral-small-latest",
	})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.Where("project_id = ?", project.ID).First(&saved).Error)
	assert.Equal(t, "mistral", saved.Provider)
	require.NotNil(t, saved.APIKey)
	assert.Equal(t, "sk-secret-key", *saved.APIKey)

	var count int64
	db.Model(&models.LLMSettings{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUpsertSettingsValidation(t *testing.T) {
	db := testDB(t)
	r := testRouter(db)

	project := models.Project{Name: "Proj"}
	require.NoError(t, db.Create(&project).Error)

	w := doJSON(r, http.MethodPut, "/projects/1/llm-settings", gin.H{"provider": "bedrock"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, "/projects/99/llm-settings", gin.H{"provider": "mistral"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVerifyKeyResponseFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer good-key" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	orig := processing.MistralModelsEndpoint
	processing.MistralModelsEndpoint = srv.URL
	defer func() { processing.MistralModelsEndpoint = orig }()

	r := testRouter(testDB(t))

	w := doJSON(r, http.MethodPost, "/llm/verify", gin.H{"provider": "mistral", "api_key": "good-key"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["valid"])
	assert.NotContains(t, resp, "error")
	assert.Contains(t, resp["message"], "valid")

	w = doJSON(r, http.MethodPost, "/llm/verify", gin.H{"provider": "mistral", "api_key": "bad-key"})
	require.Equal(t, http.StatusOK, w.Code)

	resp = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["valid"])
	assert.NotContains(t, resp, "message")
	assert.Contains(t, resp["error"], "Invalid")
}
