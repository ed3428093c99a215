package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestUseRoutesLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core))
	t.Cleanup(func() { Use(zap.NewNop()) })

	Debug("debug %d", 1)
	Info("创建记录 %s", "TB-001")
	Warning("redis %s", "down")
	Error("写入失败: %v", os.ErrPermission)

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "创建记录 TB-001", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Contains(t, entries[3].Message, "permission denied")
}

func TestSetupLoggerWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SetupLogger(dir, "warn"))
	t.Cleanup(func() { Use(zap.NewNop()) })

	Info("不应写入")
	Warning("需要写入 %s", "warn")
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, time.Now().Format("2006-01-02")+".log"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))
	assert.Contains(t, string(data), "需要写入 warn")
}

func TestSetupLoggerRejectsBadLevel(t *testing.T) {
	assert.Error(t, SetupLogger(t.TempDir(), "loud"))
}
