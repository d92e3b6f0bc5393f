package model

import (
	"go.uber.org/zap"

	"github.com/lk2023060901/model-garden-go/pkg/log"
	"github.com/lk2023060901/model-garden-go/pkg/metrics"
	"github.com/lk2023060901/model-garden-go/pkg/util/merr"
)

// FromValue 从一个 object 变体的 Value 构造 typeName 声明类型的模型。
// 输入不是映射、前后钩子否决、或类型未注册时返回错误；
// 字段级的解析缺失与强转失败就地吸收，不影响整体结果。
func FromValue(v Value, typeName string) (Record, error) {
	obj, ok := v.Object()
	if !ok {
		metrics.TransformTotal.WithLabelValues(metrics.DirectionDecode, metrics.StatusRejected).Inc()
		return nil, merr.WrapErrValueNotMapping(v.Type().String())
	}
	rec, err := decodeObject(obj, typeName)
	if err != nil {
		metrics.TransformTotal.WithLabelValues(metrics.DirectionDecode, metrics.StatusRejected).Inc()
		return nil, err
	}
	metrics.TransformTotal.WithLabelValues(metrics.DirectionDecode, metrics.StatusOK).Inc()
	return rec, nil
}

// FromJSON 解析 JSON 字节流并构造模型，等价于 ParseValue + FromValue。
func FromJSON(data []byte, typeName string) (Record, error) {
	v, err := ParseValue(data)
	if err != nil {
		return nil, err
	}
	return FromValue(v, typeName)
}

// SetWithValue 用映射填充一个既有实例，钩子与强转语义同 FromValue。
// PostDecode 否决时返回错误，此时实例可能已被部分修改。
func SetWithValue(rec Record, v Value) error {
	if rec == nil {
		return merr.WrapErrValueNotMapping("nil record")
	}
	obj, ok := v.Object()
	if !ok {
		return merr.WrapErrValueNotMapping(v.Type().String())
	}
	s, err := schemaFor(rec.RecordType())
	if err != nil {
		return err
	}
	if s.preDecode != nil {
		rewritten, accepted := s.preDecode(obj)
		if !accepted {
			return merr.WrapErrModelRejected(s.typeName, "pre-decode")
		}
		if rewritten != nil {
			obj = rewritten
		}
	}
	populate(rec, obj, s)
	if s.postDecode != nil && !s.postDecode(rec) {
		return merr.WrapErrModelRejected(s.typeName, "post-decode")
	}
	return nil
}

// DecodeSlice 解码顶层 JSON 数组，每个元素独立构造一个模型。
// 构造失败的元素被丢弃，其余元素保留原有顺序。
func DecodeSlice(v Value, typeName string) ([]Record, error) {
	arr, ok := v.Array()
	if !ok {
		return nil, merr.WrapErrBatchNotArray(v.Type().String())
	}
	out := make([]Record, 0, len(arr))
	for _, elem := range arr {
		rec, err := FromValue(elem, typeName)
		if err != nil {
			log.RatedWarn(1, "slice element dropped",
				log.FieldType(typeName), zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// DecodeMap 解码顶层 JSON 对象，每个值独立构造一个模型，键原样透传。
// 构造失败的键被丢弃。
func DecodeMap(v Value, typeName string) (map[string]Record, error) {
	obj, ok := v.Object()
	if !ok {
		return nil, merr.WrapErrValueNotMapping(v.Type().String())
	}
	out := make(map[string]Record, obj.Len())
	obj.Range(func(key string, val Value) bool {
		rec, err := FromValue(val, typeName)
		if err != nil {
			log.RatedWarn(1, "map element dropped",
				log.FieldType(typeName), zap.String("key", key), zap.Error(err))
			return true
		}
		out[key] = rec
		return true
	})
	return out, nil
}

// decodeObject 是正向转换的内核：派发具体类型、执行钩子、填充字段。
// 嵌套模型字段与容器元素解码也从这里进入。
func decodeObject(obj *Object, typeName string) (Record, error) {
	base, err := schemaFor(typeName)
	if err != nil {
		return nil, err
	}
	s := resolveConcrete(obj, base)

	if s.preDecode != nil {
		rewritten, accepted := s.preDecode(obj)
		if !accepted {
			return nil, merr.WrapErrModelRejected(s.typeName, "pre-decode")
		}
		if rewritten != nil {
			obj = rewritten
		}
	}

	rec := s.alloc()
	populate(rec, obj, s)

	if s.postDecode != nil && !s.postDecode(rec) {
		return nil, merr.WrapErrModelRejected(s.typeName, "post-decode")
	}
	return rec, nil
}

// populate 逐字段解析并强转。缺失与失败都留在字段级：
// 字段保持默认值，处理继续。
func populate(rec Record, obj *Object, s *schema) {
	for i := range s.fields {
		f := &s.fields[i]
		if f.excluded {
			continue
		}
		v, present := resolveField(obj, f.paths)
		if !present {
			continue
		}
		rep, err := decodeValue(v, f.kind)
		if err != nil {
			metrics.CoercionFailureTotal.WithLabelValues(s.typeName, f.kind.Kind.String()).Inc()
			log.RatedWarn(1, "field coercion failed",
				log.FieldType(s.typeName), log.FieldField(f.name), zap.Error(err))
			continue
		}
		if err := f.set(rec, rep); err != nil {
			metrics.CoercionFailureTotal.WithLabelValues(s.typeName, f.kind.Kind.String()).Inc()
			log.RatedWarn(1, "field set failed",
				log.FieldType(s.typeName), log.FieldField(f.name), zap.Error(err))
		}
	}
}
