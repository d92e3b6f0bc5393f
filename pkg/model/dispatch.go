package model

import (
	"go.uber.org/zap"

	"github.com/lk2023060901/model-garden-go/pkg/log"
)

// resolveConcrete 为一次解码选择具体类型。
// 基类型声明了 ClassSelector 时用输入映射询问它；
// 返回的类型未注册则回退到基类型，不视为错误。
// 每一层嵌套独立求值，同一容器可以混装不同子类型。
func resolveConcrete(obj *Object, base *schema) *schema {
	if base.classSelector == nil {
		return base
	}
	name := base.classSelector(obj)
	if name == "" || name == base.typeName {
		return base
	}
	concrete, err := schemaFor(name)
	if err != nil {
		log.RatedWarn(1, "class selector returned unregistered type, falling back to base",
			log.FieldType(base.typeName), zap.String("selected", name))
		return base
	}
	return concrete
}
