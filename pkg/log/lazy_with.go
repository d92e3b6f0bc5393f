// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap/zapcore"
)

// lazyWithCore 把 core.With 推迟到第一次真正写日志时执行。
// With 产生的子 Logger 大多从未输出过日志，懒初始化避免了无谓的字段拷贝，
// 做法参考 https://github.com/uber-go/zap/issues/1426。
type lazyWithCore struct {
	corePtr atomic.Pointer[zapcore.Core]
	once    sync.Once
	fields  []zapcore.Field
}

var _ zapcore.Core = (*lazyWithCore)(nil)

// NewLazyWith 包装给定 core，字段在首次写入时才附加上去。
func NewLazyWith(core zapcore.Core, fields []zapcore.Field) zapcore.Core {
	c := lazyWithCore{fields: fields}
	c.corePtr.Store(&core)
	return &c
}

func (c *lazyWithCore) initOnce() zapcore.Core {
	core := *c.corePtr.Load()
	c.once.Do(func() {
		core = core.With(c.fields)
		c.corePtr.Store(&core)
	})
	return core
}

func (c *lazyWithCore) Enabled(level zapcore.Level) bool {
	// 级别判断只读不写，无需触发初始化。
	return (*c.corePtr.Load()).Enabled(level)
}

func (c *lazyWithCore) Sync() error {
	return c.initOnce().Sync()
}

func (c *lazyWithCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return (*c.corePtr.Load()).Write(entry, fields)
}

func (c *lazyWithCore) With(fields []zapcore.Field) zapcore.Core {
	c.initOnce()
	return (*c.corePtr.Load()).With(fields)
}

func (c *lazyWithCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	c.initOnce()
	return (*c.corePtr.Load()).Check(e, ce)
}
