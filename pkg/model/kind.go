package model

// Kind 是字段声明类型的枚举。
type Kind int8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindDate
	KindURL
	KindBinary
	KindRecord
	KindArray
	KindSet
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindURL:
		return "url"
	case KindBinary:
		return "binary"
	case KindRecord:
		return "record"
	case KindArray:
		return "array"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// KindSpec 描述字段的完整声明类型。
// 容器类型通过 Elem 递归描述元素类型；
// KindRecord 通过 TypeName 指向已注册的基类型，
// 该基类型如声明了 ClassSelector，则按元素逐个派发具体子类型。
type KindSpec struct {
	Kind Kind
	// Elem 为 Array/Set/Map 的元素类型。
	Elem *KindSpec
	// TypeName 为 Record 声明的基类型名。
	TypeName string
	// Size 为 Binary 的固定字节数，0 表示不限长。
	Size int
}

// BoolKind 声明布尔字段。
func BoolKind() KindSpec { return KindSpec{Kind: KindBool} }

// IntKind 声明整数字段，规范表示为 int64。
func IntKind() KindSpec { return KindSpec{Kind: KindInt} }

// FloatKind 声明浮点字段，规范表示为 float64。
func FloatKind() KindSpec { return KindSpec{Kind: KindFloat} }

// StringKind 声明字符串字段。
func StringKind() KindSpec { return KindSpec{Kind: KindString} }

// DateKind 声明日期字段，规范表示为 time.Time。
func DateKind() KindSpec { return KindSpec{Kind: KindDate} }

// URLKind 声明 URL 字段，规范表示为 *url.URL。
func URLKind() KindSpec { return KindSpec{Kind: KindURL} }

// BinaryKind 声明定长二进制字段，规范表示为 []byte，
// JSON 边界上以 base64 字符串呈现。
func BinaryKind(size int) KindSpec { return KindSpec{Kind: KindBinary, Size: size} }

// RecordKind 声明嵌套模型字段，typeName 为已注册的基类型名。
func RecordKind(typeName string) KindSpec {
	return KindSpec{Kind: KindRecord, TypeName: typeName}
}

// ArrayKind 声明有序序列字段，规范表示为 []any。
func ArrayKind(elem KindSpec) KindSpec {
	e := elem
	return KindSpec{Kind: KindArray, Elem: &e}
}

// SetKind 声明集合字段，规范表示同样为 []any，
// 相等性按成员关系而非顺序判断。
func SetKind(elem KindSpec) KindSpec {
	e := elem
	return KindSpec{Kind: KindSet, Elem: &e}
}

// MapKind 声明 string 键映射字段，规范表示为 map[string]any。
func MapKind(elem KindSpec) KindSpec {
	e := elem
	return KindSpec{Kind: KindMap, Elem: &e}
}
