package model

import (
	"fmt"

	"github.com/lk2023060901/model-garden-go/pkg/util/merr"
)

// Record 是所有可映射模型的最小接口。
// RecordType 返回注册时使用的类型名，同一进程内全局唯一。
type Record interface {
	RecordType() string
}

// GetFunc 读取字段的规范表示。
// ok 为 false 表示该字段当前没有可编码的值。
type GetFunc func(rec Record) (any, bool)

// SetFunc 将解码产物写回字段。
// 传入值一定是字段 Kind 对应的规范表示。
type SetFunc func(rec Record, value any) error

// Field 描述一个映射字段的声明。
//
// 各 Kind 的规范表示：
//
//	bool → bool, int → int64, float → float64, string → string,
//	date → time.Time, url → *url.URL, binary → []byte,
//	record → Record, array/set → []any, map → map[string]any
type Field struct {
	// Name 为字段标识，也是 Coder 槽位名与默认 JSON key。
	Name string
	// Keys 为候选 JSON key，留空时默认为 [Name]。
	// 带点号的 key 按嵌套路径逐层下钻。
	Keys []string
	// Kind 为声明类型。
	Kind KindSpec
	Get  GetFunc
	Set  SetFunc
}

// Getter 将类型化的读取函数适配为 GetFunc。
func Getter[R Record, T any](fn func(r R) T) GetFunc {
	return func(rec Record) (any, bool) {
		r, ok := rec.(R)
		if !ok {
			return nil, false
		}
		return fn(r), true
	}
}

// OptionalGetter 适配带有“是否已设置”语义的读取函数。
func OptionalGetter[R Record, T any](fn func(r R) (T, bool)) GetFunc {
	return func(rec Record) (any, bool) {
		r, ok := rec.(R)
		if !ok {
			return nil, false
		}
		v, ok := fn(r)
		if !ok {
			return nil, false
		}
		return v, true
	}
}

// Setter 将类型化的写入函数适配为 SetFunc。
func Setter[R Record, T any](fn func(r R, v T)) SetFunc {
	return func(rec Record, value any) error {
		r, ok := rec.(R)
		if !ok {
			return merr.WrapErrCoercionFailed("", fmt.Sprintf("%T", rec), "registered record type")
		}
		v, ok := value.(T)
		if !ok {
			return merr.WrapErrCoercionFailed("", fmt.Sprintf("%T", value), fmt.Sprintf("%T", v))
		}
		fn(r, v)
		return nil
	}
}

// Declaration 是一个模型类型的注册声明，
// 对应编译前的 RecordSchema 原料。
type Declaration struct {
	// TypeName 为全局唯一的类型名。
	TypeName string
	// New 分配一个默认初始化的实例。
	New func() Record
	// Fields 按声明顺序列出映射字段。
	Fields []Field

	// KeyMapper 覆盖指定字段的候选 JSON key，
	// 未列出的字段沿用 Field.Keys 或默认值。
	KeyMapper map[string][]string

	// ClassSelector 根据输入映射返回具体子类型名，
	// 返回空串表示沿用声明的基类型。
	// 顶层与容器元素的每一层嵌套都会独立调用。
	ClassSelector func(obj *Object) string

	// PreDecode 在填充字段前调用，可改写输入映射；
	// 返回 false 则整体拒绝本次解码。
	PreDecode func(obj *Object) (*Object, bool)
	// PostDecode 在字段填充完成后调用，
	// 返回 false 则丢弃已填充的实例。
	PostDecode func(rec Record) bool
	// PostEncode 在输出映射构建完成后调用，可改写或否决输出。
	PostEncode func(rec Record, obj *Object) (*Object, bool)

	// Whitelist 非空时，未列出的字段一律排除。
	Whitelist []string
	// Blacklist 列出的字段一律排除，后于 Whitelist 应用。
	Blacklist []string
}
