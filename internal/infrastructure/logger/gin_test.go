package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// requestLogEntry finds the HTTP Request entry among the recorded logs
func requestLogEntry(t *testing.T, recorded *observer.ObservedLogs) *observer.LoggedEntry {
	t.Helper()
	logs := recorded.All()
	require.NotEmpty(t, logs)
	for i := range logs {
		if logs[i].Message == "HTTP Request" {
			return &logs[i]
		}
	}
	t.Fatal("HTTP Request log entry not found")
	return nil
}

func logFields(entry *observer.LoggedEntry) map[string]zapcore.Field {
	fields := make(map[string]zapcore.Field, len(entry.Context))
	for _, f := range entry.Context {
		fields[f.Key] = f
	}
	return fields
}

func TestGinMiddleware(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	engine := gin.New()
	engine.Use(GinMiddleware(zap.New(core)))
	engine.GET("/vendors", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/vendors", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	entry := requestLogEntry(t, recorded)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
}

func TestGinMiddleware_WithRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("request_id", "test-req-123")
		c.Next()
	})
	engine.Use(GinMiddleware(zap.New(core)))
	engine.GET("/vendors", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/vendors", nil))

	fields := logFields(requestLogEntry(t, recorded))
	require.Contains(t, fields, "request_id")
	assert.Equal(t, "test-req-123", fields["request_id"].String)
}

func TestGinMiddleware_ClientErrorLogsWarn(t *testing.T) {
	core, recorded := observer.New(zapcore.WarnLevel)
	engine := gin.New()
	engine.Use(GinMiddleware(zap.New(core)))
	engine.GET("/bad", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/bad", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, zapcore.WarnLevel, requestLogEntry(t, recorded).Level)
}

func TestGinMiddleware_ServerErrorLogsError(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	engine := gin.New()
	engine.Use(GinMiddleware(zap.New(core)))
	engine.GET("/boom", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, zapcore.ErrorLevel, requestLogEntry(t, recorded).Level)
}

func TestGinMiddleware_WithQuery(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	engine := gin.New()
	engine.Use(GinMiddleware(zap.New(core)))
	engine.GET("/materials", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/materials?category=steel&page=1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	fields := logFields(requestLogEntry(t, recorded))
	require.Contains(t, fields, "query")
	assert.Contains(t, fields["query"].String, "category=steel")
}

func TestGinMiddleware_LogsCorrectFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	engine := gin.New()
	engine.Use(GinMiddleware(zap.New(core)))
	engine.POST("/api/v1/admin/datasource/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"connected": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/admin/datasource/test", nil)
	req.Header.Set("User-Agent", "Test-Agent/1.0")
	engine.ServeHTTP(w, req)

	fields := logFields(requestLogEntry(t, recorded))
	for _, key := range []string{"status", "latency", "client_ip", "user_agent", "method", "path"} {
		assert.Contains(t, fields, key)
	}
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	engine := gin.New()
	engine.Use(Recovery(zap.New(core)))
	engine.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		engine.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Contains(t, logs[0].Message, "Panic recovered")
}

func TestGetGinLogger(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)

	var retrieved *zap.Logger
	engine := gin.New()
	engine.Use(GinMiddleware(zap.New(core)))
	engine.GET("/vendors", func(c *gin.Context) {
		retrieved = GetGinLogger(c)
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/vendors", nil))

	assert.NotNil(t, retrieved)
}

func TestGetGinLogger_NotSet(t *testing.T) {
	var retrieved *zap.Logger
	engine := gin.New()
	engine.GET("/vendors", func(c *gin.Context) {
		retrieved = GetGinLogger(c)
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/vendors", nil))

	require.NotNil(t, retrieved)
	assert.NotPanics(t, func() {
		retrieved.Info("test")
	})
}
