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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// gardenNamespace 是当前项目所有 Prometheus 指标使用的命名空间。
	gardenNamespace = "model_garden"

	mapperSubsystem = "mapper"

	// 以下为当前使用的通用标签名。
	directionLabelName = "direction" // decode / encode
	statusLabelName    = "status"    // ok / rejected
	typeLabelName      = "type"      // 模型类型名
	kindLabelName      = "kind"      // 字段声明 Kind
	resultLabelName    = "result"    // hit / miss
)

const (
	DirectionDecode = "decode"
	DirectionEncode = "encode"

	StatusOK       = "ok"
	StatusRejected = "rejected"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

var (
	// batchBuckets 为批量解码耗时直方图的桶划分，单位为毫秒。
	batchBuckets = prometheus.ExponentialBuckets(1, 2, 14)

	TransformTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: gardenNamespace,
			Subsystem: mapperSubsystem,
			Name:      "transform_total",
			Help:      "模型正向/反向转换的总次数",
		}, []string{directionLabelName, statusLabelName})

	CoercionFailureTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: gardenNamespace,
			Subsystem: mapperSubsystem,
			Name:      "coercion_failure_total",
			Help:      "字段级类型转换失败的总次数",
		}, []string{typeLabelName, kindLabelName})

	SchemaCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: gardenNamespace,
			Subsystem: mapperSubsystem,
			Name:      "schema_cache_total",
			Help:      "Schema 缓存的命中与未命中次数",
		}, []string{resultLabelName})

	BatchDecodeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: gardenNamespace,
			Subsystem: mapperSubsystem,
			Name:      "batch_decode_duration_ms",
			Help:      "批量解码的耗时分布，单位为毫秒",
			Buckets:   batchBuckets,
		})

	metricRegisterer prometheus.Registerer
)

// GetRegisterer 返回全局 Prometheus Registerer。
// 如果尚未通过 Register 显式设置，则返回 prometheus.DefaultRegisterer。
func GetRegisterer() prometheus.Registerer {
	if metricRegisterer == nil {
		return prometheus.DefaultRegisterer
	}
	return metricRegisterer
}

// Register 注册当前定义的所有指标。
// 通常应在 init 函数中调用。
func Register(r prometheus.Registerer) {
	r.MustRegister(TransformTotal)
	r.MustRegister(CoercionFailureTotal)
	r.MustRegister(SchemaCacheTotal)
	r.MustRegister(BatchDecodeDuration)
	metricRegisterer = r
}
