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
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitTestLogger(t *testing.T) {
	logger, props, err := InitTestLogger(t, &Config{Level: "debug"})
	require.NoError(t, err)
	require.NotNil(t, props)

	logger.Debug("debug message", zap.String("k", "v"))
	logger.Info("info message", FieldModule("log"), FieldComponent("test"))
}

func TestMLoggerRateGroup(t *testing.T) {
	logger, _, err := InitTestLogger(t, &Config{Level: "info"})
	require.NoError(t, err)

	ml := (&MLogger{Logger: logger}).WithRateGroup("log_test", 1, 1)
	require.True(t, ml.RatedWarn(1, "first warn passes"))
	// 同一秒内的第二条会被限流。
	require.False(t, ml.RatedWarn(1, "second warn limited"))
}

func TestBinder(t *testing.T) {
	var b Binder
	// 未绑定时退回全局 Logger。
	require.NotNil(t, b.Logger())

	logger, _, err := InitTestLogger(t, &Config{Level: "info"})
	require.NoError(t, err)
	ml := &MLogger{Logger: logger}
	b.SetLogger(ml)
	require.Same(t, ml, b.Logger())
}

func TestCtxFields(t *testing.T) {
	ctx := WithFields(context.Background(), zap.String("request", "r1"))
	ctx = WithModule(ctx, "mapper")
	require.NotNil(t, Ctx(ctx))
}
