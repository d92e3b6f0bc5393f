package model

import (
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/lk2023060901/model-garden-go/pkg/metrics"
	"github.com/lk2023060901/model-garden-go/pkg/util/merr"
	"github.com/lk2023060901/model-garden-go/pkg/util/typeutil"
)

// compiledField 是 Field 编译后的内部形态，
// 候选 key 已按点号切分为路径段。
type compiledField struct {
	name     string
	paths    [][]string
	kind     KindSpec
	get      GetFunc
	set      SetFunc
	excluded bool
}

// schema 是类型声明编译后的不可变产物，
// 发布到缓存后不再修改。
type schema struct {
	typeName string
	alloc    func() Record
	fields   []compiledField

	classSelector func(obj *Object) string
	preDecode     func(obj *Object) (*Object, bool)
	postDecode    func(rec Record) bool
	postEncode    func(rec Record, obj *Object) (*Object, bool)
}

// catalog 持有进程级的声明与编译缓存。
// 编译是幂等的：并发首次使用允许重复计算，
// 但只发布一份结果供所有调用方复用。
type catalog struct {
	declarations sync.Map // TypeName → *Declaration
	schemas      sync.Map // TypeName → *schema
	group        singleflight.Group
}

var globalCatalog = &catalog{}

// Register 注册一个模型类型声明。
// 同名重复注册返回错误，声明不完整返回错误。
func Register(decl Declaration) error {
	if err := validateDeclaration(&decl); err != nil {
		return err
	}
	if _, loaded := globalCatalog.declarations.LoadOrStore(decl.TypeName, &decl); loaded {
		return merr.WrapErrSchemaDuplicated(decl.TypeName)
	}
	return nil
}

// MustRegister 与 Register 相同，失败时 panic，
// 适合在包 init 中集中注册。
func MustRegister(decl Declaration) {
	if err := Register(decl); err != nil {
		panic(err)
	}
}

func validateDeclaration(decl *Declaration) error {
	if decl.TypeName == "" {
		return merr.WrapErrSchemaInvalid("", "empty type name")
	}
	if decl.New == nil {
		return merr.WrapErrSchemaInvalid(decl.TypeName, "nil allocator")
	}
	if len(decl.Fields) == 0 {
		return merr.WrapErrSchemaInvalid(decl.TypeName, "no fields declared")
	}
	seen := typeutil.NewSet[string]()
	for i := range decl.Fields {
		f := &decl.Fields[i]
		if f.Name == "" {
			return merr.WrapErrSchemaInvalid(decl.TypeName, "field with empty name")
		}
		if seen.Contain(f.Name) {
			return merr.WrapErrSchemaInvalid(decl.TypeName, "duplicated field "+f.Name)
		}
		seen.Insert(f.Name)
		if f.Get == nil || f.Set == nil {
			return merr.WrapErrSchemaInvalid(decl.TypeName, "field "+f.Name+" missing accessor")
		}
		if f.Kind.Kind == KindInvalid {
			return merr.WrapErrSchemaInvalid(decl.TypeName, "field "+f.Name+" has invalid kind")
		}
	}
	return nil
}

// schemaFor 返回类型的编译 schema，按需编译并缓存。
// 多个调用方并发首次请求时只发布一份结果。
func schemaFor(typeName string) (*schema, error) {
	if cached, ok := globalCatalog.schemas.Load(typeName); ok {
		metrics.SchemaCacheTotal.WithLabelValues(metrics.CacheHit).Inc()
		return cached.(*schema), nil
	}
	metrics.SchemaCacheTotal.WithLabelValues(metrics.CacheMiss).Inc()

	result, err, _ := globalCatalog.group.Do(typeName, func() (any, error) {
		if cached, ok := globalCatalog.schemas.Load(typeName); ok {
			return cached, nil
		}
		raw, ok := globalCatalog.declarations.Load(typeName)
		if !ok {
			return nil, merr.WrapErrSchemaNotRegistered(typeName)
		}
		compiled := compileSchema(raw.(*Declaration))
		published, _ := globalCatalog.schemas.LoadOrStore(typeName, compiled)
		return published, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*schema), nil
}

// compileSchema 将声明编译成不可变 schema。
// 候选 key 优先级：KeyMapper 覆盖 > Field.Keys > 字段名；
// 排除规则先应用白名单，黑名单随后收窄。
func compileSchema(decl *Declaration) *schema {
	whitelist := typeutil.NewSet(decl.Whitelist...)
	blacklist := typeutil.NewSet(decl.Blacklist...)

	fields := make([]compiledField, 0, len(decl.Fields))
	for i := range decl.Fields {
		f := &decl.Fields[i]

		keys := f.Keys
		if mapped, ok := decl.KeyMapper[f.Name]; ok && len(mapped) > 0 {
			keys = mapped
		}
		if len(keys) == 0 {
			keys = []string{f.Name}
		}
		paths := make([][]string, 0, len(keys))
		for _, key := range keys {
			paths = append(paths, strings.Split(key, "."))
		}

		excluded := false
		if whitelist.Len() > 0 && !whitelist.Contain(f.Name) {
			excluded = true
		}
		if blacklist.Contain(f.Name) {
			excluded = true
		}

		fields = append(fields, compiledField{
			name:     f.Name,
			paths:    paths,
			kind:     f.Kind,
			get:      f.Get,
			set:      f.Set,
			excluded: excluded,
		})
	}

	return &schema{
		typeName:      decl.TypeName,
		alloc:         decl.New,
		fields:        fields,
		classSelector: decl.ClassSelector,
		preDecode:     decl.PreDecode,
		postDecode:    decl.PostDecode,
		postEncode:    decl.PostEncode,
	}
}
