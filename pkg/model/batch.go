package model

import (
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/model-garden-go/pkg/log"
	"github.com/lk2023060901/model-garden-go/pkg/metrics"
	"github.com/lk2023060901/model-garden-go/pkg/util/conc"
	"github.com/lk2023060901/model-garden-go/pkg/util/merr"
)

// BatchDecode 并行解码顶层 JSON 数组，每个元素提交协程池
// 独立构造模型。结果保留数组原有顺序，
// 构造失败的元素丢弃，与 DecodeSlice 语义一致。
func BatchDecode(data []byte, typeName string) ([]Record, error) {
	start := time.Now()

	v, err := ParseValue(data)
	if err != nil {
		return nil, err
	}
	arr, ok := v.Array()
	if !ok {
		return nil, merr.WrapErrBatchNotArray(v.Type().String())
	}

	pool := conc.BatchPool()
	futures := make([]*conc.Future[any], 0, len(arr))
	for _, elem := range arr {
		elem := elem
		futures = append(futures, pool.Submit(func() (any, error) {
			return FromValue(elem, typeName)
		}))
	}

	out := make([]Record, 0, len(arr))
	for _, future := range futures {
		result, err := future.Await()
		if err != nil {
			log.RatedWarn(1, "batch element dropped",
				log.FieldType(typeName), zap.Error(err))
			continue
		}
		out = append(out, result.(Record))
	}

	metrics.BatchDecodeDuration.Observe(float64(time.Since(start).Milliseconds()))
	return out, nil
}
