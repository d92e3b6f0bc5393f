package model

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/lk2023060901/model-garden-go/pkg/log"
	"github.com/lk2023060901/model-garden-go/pkg/metrics"
	"github.com/lk2023060901/model-garden-go/pkg/util/merr"
	"github.com/lk2023060901/model-garden-go/pkg/util/typeutil"
)

// TransformContext 是一次顶层反向转换的专属状态：
// 正在序列化的实例集合（环检测）与本次调用的字段过滤器。
// 随调用创建随调用销毁，绝不跨调用共享。
type TransformContext struct {
	inProgress map[Record]struct{}
	whitelist  typeutil.Set[string]
	blacklist  typeutil.Set[string]
}

// EncodeOption 配置单次反向转换。
type EncodeOption func(tc *TransformContext)

// WithWhitelist 限定本次编码只输出列出的字段。
func WithWhitelist(fields ...string) EncodeOption {
	return func(tc *TransformContext) {
		tc.whitelist.Insert(fields...)
	}
}

// WithBlacklist 在本次编码中额外排除列出的字段。
func WithBlacklist(fields ...string) EncodeOption {
	return func(tc *TransformContext) {
		tc.blacklist.Insert(fields...)
	}
}

func newTransformContext(opts ...EncodeOption) *TransformContext {
	tc := &TransformContext{
		inProgress: make(map[Record]struct{}),
		whitelist:  typeutil.NewSet[string](),
		blacklist:  typeutil.NewSet[string](),
	}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

// skips 报告字段是否被本次调用的过滤器排除。
// 白名单先生效，黑名单随后收窄。
func (tc *TransformContext) skips(fieldName string) bool {
	if tc.whitelist.Len() > 0 && !tc.whitelist.Contain(fieldName) {
		return true
	}
	return tc.blacklist.Contain(fieldName)
}

// ToValue 将模型编码为 object 变体的 Value。
// 自引用的边在输出中省略而非报错；
// 编码失败或没有可表示值的字段直接缺席，不写 null。
func ToValue(rec Record, opts ...EncodeOption) (Value, error) {
	tc := newTransformContext(opts...)
	v, err := encodeRecord(rec, tc)
	if err != nil {
		metrics.TransformTotal.WithLabelValues(metrics.DirectionEncode, metrics.StatusRejected).Inc()
		return Value{}, err
	}
	metrics.TransformTotal.WithLabelValues(metrics.DirectionEncode, metrics.StatusOK).Inc()
	return v, nil
}

// ToJSON 编码模型并序列化为 JSON 字节流。
func ToJSON(rec Record, opts ...EncodeOption) ([]byte, error) {
	v, err := ToValue(rec, opts...)
	if err != nil {
		return nil, err
	}
	return EncodeValue(v)
}

// encodeRecord 是反向转换的内核。嵌套模型共享同一个 tc，
// 环检测相对整个顶层调用生效；实例在本层结束时移出
// in-progress 集合，因此同一实例作为兄弟节点可以重复出现。
func encodeRecord(rec Record, tc *TransformContext) (Value, error) {
	if rec == nil {
		return Value{}, merr.WrapErrCoercionNoEncoding("")
	}
	if _, busy := tc.inProgress[rec]; busy {
		return Value{}, merr.WrapErrCycleDetected(rec.RecordType())
	}
	tc.inProgress[rec] = struct{}{}
	defer delete(tc.inProgress, rec)

	s, err := schemaFor(rec.RecordType())
	if err != nil {
		return Value{}, err
	}

	obj := NewObject()
	for i := range s.fields {
		f := &s.fields[i]
		if f.excluded || tc.skips(f.name) {
			continue
		}
		rep, ok := f.get(rec)
		if !ok || rep == nil {
			continue
		}
		v, err := encodeRep(rep, f.kind, tc)
		if err != nil {
			if !errors.Is(err, merr.ErrCycleDetected) && !errors.Is(err, merr.ErrCoercionNoEncoding) {
				metrics.CoercionFailureTotal.WithLabelValues(s.typeName, f.kind.Kind.String()).Inc()
				log.RatedWarn(1, "field encode failed",
					log.FieldType(s.typeName), log.FieldField(f.name), zap.Error(err))
			}
			continue
		}
		writeKey(obj, f.paths[0], v)
	}

	if s.postEncode != nil {
		rewritten, accepted := s.postEncode(rec, obj)
		if !accepted {
			return Value{}, merr.WrapErrModelRejected(s.typeName, "post-encode")
		}
		if rewritten != nil {
			obj = rewritten
		}
	}
	return NewObjectValue(obj), nil
}

// writeKey 把值写到第一个候选 key 上；
// 带点号的 key 按需逐层搭建嵌套对象。
func writeKey(obj *Object, path []string, v Value) {
	cur := obj
	last := len(path) - 1
	for i, seg := range path {
		if i == last {
			cur.Set(seg, v)
			return
		}
		if existing, ok := cur.Get(seg); ok {
			if nested, ok := existing.Object(); ok {
				cur = nested
				continue
			}
		}
		nested := NewObject()
		cur.Set(seg, NewObjectValue(nested))
		cur = nested
	}
}
