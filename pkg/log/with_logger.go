package log

import "go.uber.org/atomic"

var (
	_ WithLogger   = &Binder{}
	_ LoggerBinder = &Binder{}
)

// WithLogger 暴露组件当前使用的 Logger。
type WithLogger interface {
	Logger() *MLogger
}

// LoggerBinder 允许外部替换组件的 Logger。
type LoggerBinder interface {
	SetLogger(logger *MLogger)
}

// Binder 供嵌入使用，让组件持有可替换的 Logger。
// 未绑定时读取退回全局 Logger，绑定与读取并发安全。
type Binder struct {
	logger atomic.Pointer[MLogger]
}

// SetLogger 绑定 Logger。传入 nil 会清除绑定，恢复全局退回行为。
func (w *Binder) SetLogger(logger *MLogger) {
	w.logger.Store(logger)
}

// Logger 返回绑定的 Logger，未绑定时返回全局 Logger 的包装。
func (w *Binder) Logger() *MLogger {
	if l := w.logger.Load(); l != nil {
		return l
	}
	return With()
}
