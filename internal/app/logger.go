package launcher

import (
	"io"

	ilogger "impact-tests-launcher/internal/logger"
)

type Logger = ilogger.Logger
type LoggerOptions = ilogger.Options
type CleanupStats = ilogger.CleanupStats

func NewLogger(opts LoggerOptions) (*Logger, error) { return ilogger.New(opts) }

func NewMemoryLogger(console io.Writer) *Logger { return ilogger.NewMemoryLogger(console) }

func launcherName() string { return ilogger.LauncherName }

func setLogger(l *Logger) { ilogger.SetLogger(l) }

func closeLogger() error { return ilogger.CloseLogger() }

func logDebug(msg string) { ilogger.LogDebug(msg) }

func logInfo(msg string) { ilogger.LogInfo(msg) }

func logWarn(msg string) { ilogger.LogWarn(msg) }

func logError(msg string) { ilogger.LogError(msg) }

func cleanupOldLogs() (CleanupStats, error) { return ilogger.CleanupOldLogs() }
