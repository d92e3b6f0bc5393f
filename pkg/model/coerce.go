package model

import (
	"encoding/base64"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lk2023060901/model-garden-go/pkg/util/merr"
)

// 日期字符串按序尝试的格式，第一个完整匹配的生效。
var dateLayouts = []string{
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// dateEncodeLayout 为编码方向的规范输出格式，
// 与解码首选格式一致，保证往返解析。
const dateEncodeLayout = "2006-01-02T15:04:05Z0700"

// decodeValue 将一个 Value 转换为 spec 声明类型的规范表示。
// 规则按声明类型逐个匹配，没有规则命中即为强转失败；
// 失败只影响当前字段或容器元素，由调用方就地吸收。
func decodeValue(v Value, spec KindSpec) (any, error) {
	switch spec.Kind {
	case KindBool:
		return decodeBool(v)
	case KindInt:
		return decodeInt(v)
	case KindFloat:
		return decodeFloat(v)
	case KindString:
		return decodeString(v)
	case KindDate:
		return decodeDate(v)
	case KindURL:
		return decodeURL(v)
	case KindBinary:
		return decodeBinary(v, spec.Size)
	case KindRecord:
		obj, ok := v.Object()
		if !ok {
			return nil, merr.WrapErrCoercionFailed("", v.Type().String(), "object")
		}
		return decodeObject(obj, spec.TypeName)
	case KindArray, KindSet:
		return decodeArray(v, spec.Elem)
	case KindMap:
		return decodeMap(v, spec.Elem)
	default:
		return nil, merr.WrapErrCoercionFailed("", v.Type().String(), spec.Kind.String())
	}
}

func decodeBool(v Value) (any, error) {
	if b, ok := v.Bool(); ok {
		return b, nil
	}
	if f, ok := v.Float(); ok {
		return f != 0, nil
	}
	if s, ok := v.Str(); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "1":
			return true, nil
		case "false", "no", "0":
			return false, nil
		}
		return nil, merr.WrapErrCoercionFailed("", strconv.Quote(s), "bool")
	}
	return nil, merr.WrapErrCoercionFailed("", v.Type().String(), "bool")
}

func decodeInt(v Value) (any, error) {
	if i, ok := v.Int(); ok {
		return i, nil
	}
	if f, ok := v.Float(); ok {
		return floatToInt(f)
	}
	if s, ok := v.Str(); ok {
		s = strings.TrimSpace(s)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, merr.WrapErrCoercionFailed("", strconv.Quote(s), "int")
		}
		return floatToInt(f)
	}
	if b, ok := v.Bool(); ok {
		if b {
			return int64(1), nil
		}
		return int64(0), nil
	}
	return nil, merr.WrapErrCoercionFailed("", v.Type().String(), "int")
}

func floatToInt(f float64) (any, error) {
	// 上界用 1<<63 判断：float64(math.MaxInt64) 会舍入到 2^63，
	// 用 > 比较会放过恰好等于 2^63 的输入并回绕成 MinInt64。
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= 1<<63 || f < math.MinInt64 {
		return nil, merr.WrapErrCoercionOverflow("", f, "int64")
	}
	return int64(f), nil
}

func decodeFloat(v Value) (any, error) {
	if f, ok := v.Float(); ok {
		return f, nil
	}
	if s, ok := v.Str(); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
				return nil, merr.WrapErrCoercionOverflow("", s, "float64")
			}
			return nil, merr.WrapErrCoercionFailed("", strconv.Quote(s), "float")
		}
		return f, nil
	}
	if b, ok := v.Bool(); ok {
		if b {
			return float64(1), nil
		}
		return float64(0), nil
	}
	return nil, merr.WrapErrCoercionFailed("", v.Type().String(), "float")
}

func decodeString(v Value) (any, error) {
	if s, ok := v.Str(); ok {
		return s, nil
	}
	if i, ok := v.Int(); ok {
		return strconv.FormatInt(i, 10), nil
	}
	if f, ok := v.Float(); ok {
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	}
	if b, ok := v.Bool(); ok {
		return strconv.FormatBool(b), nil
	}
	return nil, merr.WrapErrCoercionFailed("", v.Type().String(), "string")
}

func decodeDate(v Value) (any, error) {
	if s, ok := v.Str(); ok {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, merr.WrapErrCoercionFailed("", strconv.Quote(s), "date")
	}
	// 数字按 Unix 秒解释，浮点保留亚秒部分。
	if i, ok := v.Int(); ok {
		return time.Unix(i, 0).UTC(), nil
	}
	if f, ok := v.Float(); ok {
		sec, frac := math.Modf(f)
		return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC(), nil
	}
	return nil, merr.WrapErrCoercionFailed("", v.Type().String(), "date")
}

func decodeURL(v Value) (any, error) {
	s, ok := v.Str()
	if !ok {
		return nil, merr.WrapErrCoercionFailed("", v.Type().String(), "url")
	}
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, merr.WrapErrCoercionFailed("", strconv.Quote(s), "url")
	}
	return u, nil
}

func decodeBinary(v Value, size int) (any, error) {
	s, ok := v.Str()
	if !ok {
		return nil, merr.WrapErrCoercionFailed("", v.Type().String(), "binary")
	}
	payload, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, merr.WrapErrCoercionFailed("", "malformed base64", "binary")
	}
	if size > 0 && len(payload) != size {
		return nil, merr.WrapErrCoercionBinarySize("", len(payload), size)
	}
	return payload, nil
}

// decodeArray 逐个解码序列元素，失败的元素被丢弃，
// 其余元素保留原有顺序。
func decodeArray(v Value, elem *KindSpec) (any, error) {
	arr, ok := v.Array()
	if !ok {
		return nil, merr.WrapErrCoercionFailed("", v.Type().String(), "array")
	}
	if elem == nil {
		return nil, merr.WrapErrCoercionFailed("", "array", "missing element kind")
	}
	out := make([]any, 0, len(arr))
	for _, e := range arr {
		rep, err := decodeValue(e, *elem)
		if err != nil {
			continue
		}
		out = append(out, rep)
	}
	return out, nil
}

// decodeMap 逐个解码映射值，键原样透传，失败的键被丢弃。
func decodeMap(v Value, elem *KindSpec) (any, error) {
	obj, ok := v.Object()
	if !ok {
		return nil, merr.WrapErrCoercionFailed("", v.Type().String(), "map")
	}
	if elem == nil {
		return nil, merr.WrapErrCoercionFailed("", "map", "missing element kind")
	}
	out := make(map[string]any, obj.Len())
	obj.Range(func(key string, val Value) bool {
		rep, err := decodeValue(val, *elem)
		if err != nil {
			return true
		}
		out[key] = rep
		return true
	})
	return out, nil
}

// encodeRep 是 decodeValue 的结构镜像：
// 将规范表示还原为 Value，嵌套模型与容器递归进反向转换，
// 共享同一个 TransformContext 做环检测。
func encodeRep(rep any, spec KindSpec, tc *TransformContext) (Value, error) {
	if rep == nil {
		return Value{}, merr.WrapErrCoercionNoEncoding("")
	}
	switch spec.Kind {
	case KindBool:
		if b, ok := rep.(bool); ok {
			return NewBool(b), nil
		}
	case KindInt:
		switch n := rep.(type) {
		case int64:
			return NewInt(n), nil
		case int:
			return NewInt(int64(n)), nil
		case int32:
			return NewInt(int64(n)), nil
		}
	case KindFloat:
		switch n := rep.(type) {
		case float64:
			return NewFloat(n), nil
		case float32:
			return NewFloat(float64(n)), nil
		}
	case KindString:
		if s, ok := rep.(string); ok {
			return NewString(s), nil
		}
	case KindDate:
		if t, ok := rep.(time.Time); ok {
			return NewString(t.Format(dateEncodeLayout)), nil
		}
	case KindURL:
		if u, ok := rep.(*url.URL); ok {
			if u == nil {
				return Value{}, merr.WrapErrCoercionNoEncoding("")
			}
			return NewString(u.String()), nil
		}
	case KindBinary:
		if payload, ok := rep.([]byte); ok {
			if spec.Size > 0 && len(payload) != spec.Size {
				return Value{}, merr.WrapErrCoercionBinarySize("", len(payload), spec.Size)
			}
			return NewString(base64.StdEncoding.EncodeToString(payload)), nil
		}
	case KindRecord:
		if rec, ok := rep.(Record); ok {
			return encodeRecord(rec, tc)
		}
	case KindArray, KindSet:
		if elems, ok := rep.([]any); ok {
			return encodeArray(elems, spec.Elem, tc)
		}
	case KindMap:
		if m, ok := rep.(map[string]any); ok {
			return encodeMapRep(m, spec.Elem, tc)
		}
	}
	return Value{}, merr.WrapErrCoercionFailed("", fmt.Sprintf("%T", rep), spec.Kind.String())
}

func encodeArray(elems []any, elem *KindSpec, tc *TransformContext) (Value, error) {
	if elem == nil {
		return Value{}, merr.WrapErrCoercionFailed("", "array", "missing element kind")
	}
	out := make([]Value, 0, len(elems))
	for _, e := range elems {
		v, err := encodeRep(e, *elem, tc)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return NewArray(out...), nil
}

// encodeMapRep 按键名排序输出，保证同一模型的编码结果稳定。
func encodeMapRep(m map[string]any, elem *KindSpec, tc *TransformContext) (Value, error) {
	if elem == nil {
		return Value{}, merr.WrapErrCoercionFailed("", "map", "missing element kind")
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	obj := NewObject()
	for _, key := range keys {
		v, err := encodeRep(m[key], *elem, tc)
		if err != nil {
			continue
		}
		obj.Set(key, v)
	}
	return NewObjectValue(obj), nil
}
