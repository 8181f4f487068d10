package service

import (
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"papertrade/conf"
)

var auditLogger = zap.NewNop()

// InitAuditLogger wires the structured trade audit log: JSON lines, rotated
// alongside the main log file.
func InitAuditLogger() {
	hz := conf.GetConf().Hertz
	if hz.LogFileName == "" {
		auditLogger = zap.NewNop()
		return
	}
	dir := filepath.Dir(hz.LogFileName)
	writer := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "trade_audit.log"),
		MaxSize:    hz.LogMaxSize,
		MaxBackups: hz.LogMaxBackups,
		MaxAge:     hz.LogMaxAge,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(writer),
		zapcore.InfoLevel,
	)
	auditLogger = zap.New(core)
}

// Audit returns the trade audit logger. Nop until InitAuditLogger runs, so
// the ledger stays usable in tests without config.
func Audit() *zap.Logger {
	return auditLogger
}
