package model

// resolveField 按候选顺序查找字段值，第一个命中的候选生效，
// 候选之间不做合并。
func resolveField(obj *Object, paths [][]string) (Value, bool) {
	for _, path := range paths {
		if v, ok := resolvePath(obj, path); ok {
			return v, true
		}
	}
	return Value{}, false
}

// resolvePath 沿路径段逐层下钻嵌套映射。
// 任一中间段缺失或不是映射时立即判定为缺失。
func resolvePath(obj *Object, path []string) (Value, bool) {
	cur := obj
	last := len(path) - 1
	for i, seg := range path {
		v, ok := cur.Get(seg)
		if !ok {
			return Value{}, false
		}
		if i == last {
			return v, true
		}
		next, ok := v.Object()
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return Value{}, false
}
