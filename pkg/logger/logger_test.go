package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New("debug").GetLevel())
	assert.Equal(t, logrus.InfoLevel, New("verbose").GetLevel())
}

func TestGinMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("info", &buf)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinMiddleware(log))
	router.GET("/api/v1/disasters/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/disasters/42", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "/api/v1/disasters/:id", entry["route"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.NotContains(t, buf.String(), "secret-token")
}
