package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func sqlFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_Trace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, 100*time.Millisecond)
	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-7")

	gl.Trace(ctx, time.Now(), sqlFn("SELECT 1", 1), nil)
	gl.Trace(ctx, time.Now().Add(-time.Second), sqlFn("SELECT pg_sleep(1)", 1), nil)
	gl.Trace(ctx, time.Now(), sqlFn("SELECT * FROM sales", 0), gormlogger.ErrRecordNotFound)
	gl.Trace(ctx, time.Now(), sqlFn("INSERT INTO sales", 0), errors.New("duplicate key"))

	entries := recorded.All()
	assert.Len(t, entries, 3)
	assert.Equal(t, "SQL Query", entries[0].Message)
	assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "Slow SQL", entries[1].Message)
	assert.Equal(t, "SQL Error", entries[2].Message)
}

func TestGormLogger_Silent(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, 0).LogMode(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), sqlFn("SELECT 1", 1), errors.New("x"))
	gl.Error(context.Background(), "boom %d", 1)

	assert.Empty(t, recorded.All())
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything"))
}
