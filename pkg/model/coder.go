package model

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/model-garden-go/internal/json"
	"github.com/lk2023060901/model-garden-go/pkg/log"
	"github.com/lk2023060901/model-garden-go/pkg/util/merr"
)

// Coder 是持久化状态的槽位读写接口。
// 引擎只按字段名读写具名槽位，不关心底层存储形态；
// 嵌套模型写入由 NewNested 分配的子 Coder。
type Coder interface {
	WriteSlot(name string, value any) error
	ReadSlot(name string) (any, bool)
	NewNested() Coder
}

// WriteState 把模型的非排除字段逐个写入 Coder 槽位，
// 槽位名取字段名而非 JSON key，不经过 Value 树。
// 自引用的边与编码失败的字段直接跳过。
func WriteState(rec Record, coder Coder) error {
	if rec == nil || coder == nil {
		return merr.WrapErrCoderArchive(nil, "nil record or coder")
	}
	return writeState(rec, coder, map[Record]struct{}{})
}

func writeState(rec Record, coder Coder, seen map[Record]struct{}) error {
	if _, busy := seen[rec]; busy {
		return merr.WrapErrCycleDetected(rec.RecordType())
	}
	seen[rec] = struct{}{}
	defer delete(seen, rec)

	s, err := schemaFor(rec.RecordType())
	if err != nil {
		return err
	}
	for i := range s.fields {
		f := &s.fields[i]
		if f.excluded {
			continue
		}
		rep, ok := f.get(rec)
		if !ok || rep == nil {
			continue
		}
		slot, err := coderEncodeRep(rep, f.kind, coder, seen)
		if err != nil {
			log.RatedWarn(1, "coder slot encode skipped",
				log.FieldType(s.typeName), log.FieldField(f.name), zap.Error(err))
			continue
		}
		if err := coder.WriteSlot(f.name, slot); err != nil {
			return merr.WrapErrCoderArchive(err, "write slot "+f.name)
		}
	}
	return nil
}

// coderEncodeRep 把规范表示转换为 Coder 的原生槽位形态。
// 标量原样存放，URL 降级为字符串，嵌套模型递归写入子 Coder。
func coderEncodeRep(rep any, spec KindSpec, coder Coder, seen map[Record]struct{}) (any, error) {
	switch spec.Kind {
	case KindBool, KindInt, KindFloat, KindString, KindDate, KindBinary:
		return rep, nil
	case KindURL:
		u, ok := rep.(*url.URL)
		if !ok || u == nil {
			return nil, merr.WrapErrCoercionNoEncoding("")
		}
		return u.String(), nil
	case KindRecord:
		nested, ok := rep.(Record)
		if !ok {
			return nil, merr.WrapErrCoercionFailed("", fmt.Sprintf("%T", rep), "record")
		}
		sub := coder.NewNested()
		if err := writeState(nested, sub, seen); err != nil {
			return nil, err
		}
		return sub, nil
	case KindArray, KindSet:
		elems, ok := rep.([]any)
		if !ok {
			return nil, merr.WrapErrCoercionFailed("", fmt.Sprintf("%T", rep), "array")
		}
		out := make([]any, 0, len(elems))
		for _, e := range elems {
			slot, err := coderEncodeRep(e, *spec.Elem, coder, seen)
			if err != nil {
				continue
			}
			out = append(out, slot)
		}
		return out, nil
	case KindMap:
		m, ok := rep.(map[string]any)
		if !ok {
			return nil, merr.WrapErrCoercionFailed("", fmt.Sprintf("%T", rep), "map")
		}
		out := make(map[string]any, len(m))
		for key, e := range m {
			slot, err := coderEncodeRep(e, *spec.Elem, coder, seen)
			if err != nil {
				continue
			}
			out[key] = slot
		}
		return out, nil
	default:
		return nil, merr.WrapErrCoercionFailed("", fmt.Sprintf("%T", rep), spec.Kind.String())
	}
}

// ReadState 按声明类型从 Coder 槽位还原一个模型实例。
// 缺失的槽位保持字段默认值；槽位形态与声明类型不符时跳过该字段。
func ReadState(coder Coder, typeName string) (Record, error) {
	if coder == nil {
		return nil, merr.WrapErrCoderArchive(nil, "nil coder")
	}
	s, err := schemaFor(typeName)
	if err != nil {
		return nil, err
	}
	rec := s.alloc()
	for i := range s.fields {
		f := &s.fields[i]
		if f.excluded {
			continue
		}
		raw, ok := coder.ReadSlot(f.name)
		if !ok {
			continue
		}
		rep, err := coderDecodeRep(raw, f.kind)
		if err != nil {
			log.RatedWarn(1, "coder slot decode skipped",
				log.FieldType(s.typeName), log.FieldField(f.name), zap.Error(err))
			continue
		}
		if err := f.set(rec, rep); err != nil {
			log.RatedWarn(1, "coder slot set skipped",
				log.FieldType(s.typeName), log.FieldField(f.name), zap.Error(err))
		}
	}
	return rec, nil
}

// coderDecodeRep 把槽位原生形态还原为规范表示。
// 归档再解档后数字统一变成 float64、日期与二进制变成字符串，
// 这里按声明类型做定向还原。
func coderDecodeRep(raw any, spec KindSpec) (any, error) {
	switch spec.Kind {
	case KindBool:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case KindInt:
		switch n := raw.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case float64:
			return floatToInt(n)
		}
	case KindFloat:
		switch n := raw.(type) {
		case float64:
			return n, nil
		case int64:
			return float64(n), nil
		case int:
			return float64(n), nil
		}
	case KindString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case KindDate:
		switch t := raw.(type) {
		case time.Time:
			return t, nil
		case string:
			return parseCoderDate(t)
		}
	case KindURL:
		if s, ok := raw.(string); ok {
			u, err := url.Parse(s)
			if err != nil {
				return nil, merr.WrapErrCoderSlotType("", "malformed url string", "url")
			}
			return u, nil
		}
	case KindBinary:
		switch p := raw.(type) {
		case []byte:
			if spec.Size > 0 && len(p) != spec.Size {
				return nil, merr.WrapErrCoercionBinarySize("", len(p), spec.Size)
			}
			return p, nil
		case string:
			payload, err := base64.StdEncoding.DecodeString(p)
			if err != nil {
				return nil, merr.WrapErrCoderSlotType("", "malformed base64 string", "binary")
			}
			if spec.Size > 0 && len(payload) != spec.Size {
				return nil, merr.WrapErrCoercionBinarySize("", len(payload), spec.Size)
			}
			return payload, nil
		}
	case KindRecord:
		switch sub := raw.(type) {
		case Coder:
			return ReadState(sub, spec.TypeName)
		case map[string]any:
			return ReadState(NewMapCoderFrom(sub), spec.TypeName)
		}
	case KindArray, KindSet:
		if elems, ok := raw.([]any); ok {
			out := make([]any, 0, len(elems))
			for _, e := range elems {
				rep, err := coderDecodeRep(e, *spec.Elem)
				if err != nil {
					continue
				}
				out = append(out, rep)
			}
			return out, nil
		}
	case KindMap:
		if m, ok := raw.(map[string]any); ok {
			out := make(map[string]any, len(m))
			for key, e := range m {
				rep, err := coderDecodeRep(e, *spec.Elem)
				if err != nil {
					continue
				}
				out[key] = rep
			}
			return out, nil
		}
	}
	return nil, merr.WrapErrCoderSlotType("", fmt.Sprintf("%T", raw), spec.Kind.String())
}

// 日期槽位归档后落成字符串，解档时额外接受 RFC3339 形态。
var coderDateLayouts = append([]string{time.RFC3339Nano, time.RFC3339}, dateLayouts...)

func parseCoderDate(s string) (any, error) {
	for _, layout := range coderDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, merr.WrapErrCoderSlotType("", "unparsable date string", "date")
}

// ReadSlotAs 是带类型检查的槽位读取助手：
// 槽位缺失或形态不符时返回对应错误。
func ReadSlotAs[T any](coder Coder, name string) (T, error) {
	var zero T
	raw, ok := coder.ReadSlot(name)
	if !ok {
		return zero, merr.WrapErrCoderSlotMissing(name)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, merr.WrapErrCoderSlotType(name, fmt.Sprintf("%T", raw), fmt.Sprintf("%T", zero))
	}
	return v, nil
}

// MapCoder 是内存里的 Coder 实现，槽位存放在普通 map 中，
// 可整体归档为 JSON 字节流并解档还原。
type MapCoder struct {
	slots map[string]any
}

// NewMapCoder 创建空的 MapCoder。
func NewMapCoder() *MapCoder {
	return &MapCoder{slots: make(map[string]any)}
}

// NewMapCoderFrom 用既有 map 包装出 MapCoder，不做拷贝。
func NewMapCoderFrom(slots map[string]any) *MapCoder {
	if slots == nil {
		slots = make(map[string]any)
	}
	return &MapCoder{slots: slots}
}

func (c *MapCoder) WriteSlot(name string, value any) error {
	c.slots[name] = value
	return nil
}

func (c *MapCoder) ReadSlot(name string) (any, bool) {
	v, ok := c.slots[name]
	return v, ok
}

func (c *MapCoder) NewNested() Coder {
	return NewMapCoder()
}

// Len 返回已写入的槽位数。
func (c *MapCoder) Len() int {
	return len(c.slots)
}

// MarshalJSON 让嵌套的 MapCoder 能随外层一起归档。
func (c *MapCoder) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.slots)
}

// Archive 把全部槽位归档为 JSON 字节流。
func (c *MapCoder) Archive() ([]byte, error) {
	data, err := json.Marshal(c.slots)
	if err != nil {
		return nil, merr.WrapErrCoderArchive(err)
	}
	return data, nil
}

// UnarchiveMapCoder 从归档字节流还原 MapCoder。
// 数字统一以 float64 呈现，读取时由声明类型定向还原。
func UnarchiveMapCoder(data []byte) (*MapCoder, error) {
	slots := make(map[string]any)
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, merr.WrapErrCoderArchive(err)
	}
	return &MapCoder{slots: slots}, nil
}
