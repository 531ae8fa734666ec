package app

import (
	"os"
	"time"

	"github.com/tienda-next/internal/config"
	"github.com/tienda-next/internal/logger"

	"go.uber.org/zap"
)

// 运行模式：all 同时跑 API 与队列消费者，api 只跑 HTTP 接口，
// worker 只跑邮件队列消费者。
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

// KnownMode 校验 -mode 参数是否合法
func KnownMode(mode string) bool {
	switch mode {
	case ModeAll, ModeAPI, ModeWorker:
		return true
	}
	return false
}

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// normalizeOptions 补齐默认参数
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	return opts
}
