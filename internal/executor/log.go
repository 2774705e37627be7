package executor

import ilogger "impact-tests-launcher/internal/logger"

func logInfo(msg string) { ilogger.LogInfo(msg) }

func logWarn(msg string) { ilogger.LogWarn(msg) }
