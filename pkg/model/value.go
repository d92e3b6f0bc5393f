package model

// ValueType 标识 Value 的具体变体。
type ValueType int8

const (
	TypeNull ValueType = iota
	TypeBool
	TypeNumber
	TypeString
	TypeArray
	TypeObject
)

func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value 是 JSON 数据在引擎边界上的封闭变体表示：
// {null, bool, number, string, array, object}。
// 零值即 null，可安全地按值传递。
//
// number 同时保留整数与浮点两种形态，
// 解析阶段能区分 "7" 与 "7.0"，编码时原样还原。
type Value struct {
	typ   ValueType
	b     bool
	i     int64
	f     float64
	isInt bool
	str   string
	arr   []Value
	obj   *Object
}

// Null 返回 null 变体。
func Null() Value {
	return Value{typ: TypeNull}
}

// NewBool 构造 bool 变体。
func NewBool(b bool) Value {
	return Value{typ: TypeBool, b: b}
}

// NewInt 构造整数形态的 number 变体。
func NewInt(i int64) Value {
	return Value{typ: TypeNumber, i: i, isInt: true}
}

// NewFloat 构造浮点形态的 number 变体。
func NewFloat(f float64) Value {
	return Value{typ: TypeNumber, f: f}
}

// NewString 构造 string 变体。
func NewString(s string) Value {
	return Value{typ: TypeString, str: s}
}

// NewArray 构造 array 变体，元素顺序即编码顺序。
func NewArray(elems ...Value) Value {
	return Value{typ: TypeArray, arr: elems}
}

// NewObjectValue 将一个 Object 包装为 object 变体。
func NewObjectValue(obj *Object) Value {
	if obj == nil {
		obj = NewObject()
	}
	return Value{typ: TypeObject, obj: obj}
}

// Type 返回变体类型。
func (v Value) Type() ValueType {
	return v.typ
}

// IsNull 报告是否为 null。
func (v Value) IsNull() bool {
	return v.typ == TypeNull
}

// Bool 返回 bool 变体内容。
func (v Value) Bool() (bool, bool) {
	if v.typ != TypeBool {
		return false, false
	}
	return v.b, true
}

// IsInt 报告 number 是否为整数形态。
func (v Value) IsInt() bool {
	return v.typ == TypeNumber && v.isInt
}

// Int 返回整数形态 number 的内容；浮点形态返回 false。
func (v Value) Int() (int64, bool) {
	if v.typ != TypeNumber || !v.isInt {
		return 0, false
	}
	return v.i, true
}

// Float 返回任意 number 的浮点视图。
func (v Value) Float() (float64, bool) {
	if v.typ != TypeNumber {
		return 0, false
	}
	if v.isInt {
		return float64(v.i), true
	}
	return v.f, true
}

// Str 返回 string 变体内容。
func (v Value) Str() (string, bool) {
	if v.typ != TypeString {
		return "", false
	}
	return v.str, true
}

// Array 返回 array 变体的元素切片；调用方不应修改。
func (v Value) Array() ([]Value, bool) {
	if v.typ != TypeArray {
		return nil, false
	}
	return v.arr, true
}

// Object 返回 object 变体的有序映射。
func (v Value) Object() (*Object, bool) {
	if v.typ != TypeObject {
		return nil, false
	}
	return v.obj, true
}

// Object 是按首次插入顺序保存键值对的 string→Value 映射。
// 对同一 key 的重复 Set 只更新值，不改变其位置。
type Object struct {
	keys  []string
	index map[string]int
	vals  []Value
}

// NewObject 创建空 Object。
func NewObject() *Object {
	return &Object{
		index: make(map[string]int),
	}
}

// Set 插入或更新键值对。
func (o *Object) Set(key string, v Value) {
	if idx, ok := o.index[key]; ok {
		o.vals[idx] = v
		return
	}
	o.index[key] = len(o.keys)
	o.keys = append(o.keys, key)
	o.vals = append(o.vals, v)
}

// Get 查找 key 对应的值。
func (o *Object) Get(key string) (Value, bool) {
	idx, ok := o.index[key]
	if !ok {
		return Value{}, false
	}
	return o.vals[idx], true
}

// Has 报告 key 是否存在。
func (o *Object) Has(key string) bool {
	_, ok := o.index[key]
	return ok
}

// Delete 删除 key 并保持其余键的相对顺序。
func (o *Object) Delete(key string) {
	idx, ok := o.index[key]
	if !ok {
		return
	}
	o.keys = append(o.keys[:idx], o.keys[idx+1:]...)
	o.vals = append(o.vals[:idx], o.vals[idx+1:]...)
	delete(o.index, key)
	for i := idx; i < len(o.keys); i++ {
		o.index[o.keys[i]] = i
	}
}

// Len 返回键值对数量。
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys 返回按插入顺序排列的键副本。
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Range 按插入顺序遍历键值对，f 返回 false 时终止。
func (o *Object) Range(f func(key string, v Value) bool) {
	for i, key := range o.keys {
		if !f(key, o.vals[i]) {
			return
		}
	}
}

// Clone 返回浅拷贝：键序独立，Value 本身按值共享底层数组与子对象。
func (o *Object) Clone() *Object {
	out := &Object{
		keys:  make([]string, len(o.keys)),
		index: make(map[string]int, len(o.index)),
		vals:  make([]Value, len(o.vals)),
	}
	copy(out.keys, o.keys)
	copy(out.vals, o.vals)
	for k, v := range o.index {
		out.index[k] = v
	}
	return out
}
