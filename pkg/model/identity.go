package model

import (
	"bytes"
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"
	"net/url"
	"sort"
	"time"
)

// Hash 计算模型的结构哈希：按声明顺序合并各非排除字段的哈希。
// 自引用的边以固定标记参与哈希，保证终止。
// 结构相等的两个模型哈希必然相同。
func Hash(rec Record) (uint64, error) {
	h := fnv.New64a()
	if err := hashRecord(h, rec, map[Record]struct{}{}); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

func hashRecord(h hash.Hash64, rec Record, seen map[Record]struct{}) error {
	if rec == nil {
		h.Write([]byte{0x00})
		return nil
	}
	if _, busy := seen[rec]; busy {
		h.Write([]byte("\x00cycle"))
		return nil
	}
	seen[rec] = struct{}{}
	defer delete(seen, rec)

	s, err := schemaFor(rec.RecordType())
	if err != nil {
		return err
	}
	h.Write([]byte(s.typeName))
	for i := range s.fields {
		f := &s.fields[i]
		if f.excluded {
			continue
		}
		h.Write([]byte{0x1f})
		h.Write([]byte(f.name))
		rep, ok := f.get(rec)
		if !ok || rep == nil {
			h.Write([]byte{0x00})
			continue
		}
		if err := hashRep(h, rep, f.kind, seen); err != nil {
			return err
		}
	}
	return nil
}

func hashUint64(h hash.Hash64, u uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], u)
	h.Write(buf[:])
}

func hashRep(h hash.Hash64, rep any, spec KindSpec, seen map[Record]struct{}) error {
	switch spec.Kind {
	case KindBool:
		if b, ok := rep.(bool); ok && b {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	case KindInt:
		if i, ok := rep.(int64); ok {
			hashUint64(h, uint64(i))
		}
	case KindFloat:
		if f, ok := rep.(float64); ok {
			hashUint64(h, math.Float64bits(f))
		}
	case KindString:
		if s, ok := rep.(string); ok {
			h.Write([]byte(s))
		}
	case KindDate:
		if t, ok := rep.(time.Time); ok {
			hashUint64(h, uint64(t.UnixNano()))
		}
	case KindURL:
		if u, ok := rep.(*url.URL); ok && u != nil {
			h.Write([]byte(u.String()))
		}
	case KindBinary:
		if payload, ok := rep.([]byte); ok {
			h.Write(payload)
		}
	case KindRecord:
		if nested, ok := rep.(Record); ok {
			return hashRecord(h, nested, seen)
		}
	case KindArray:
		if elems, ok := rep.([]any); ok {
			for _, e := range elems {
				h.Write([]byte{0x1e})
				if err := hashRep(h, e, *spec.Elem, seen); err != nil {
					return err
				}
			}
		}
	case KindSet:
		// 集合哈希与成员顺序无关：逐元素独立哈希后异或合并。
		if elems, ok := rep.([]any); ok {
			var acc uint64
			for _, e := range elems {
				sub := fnv.New64a()
				if err := hashRep(sub, e, *spec.Elem, seen); err != nil {
					return err
				}
				acc ^= sub.Sum64()
			}
			hashUint64(h, acc)
		}
	case KindMap:
		if m, ok := rep.(map[string]any); ok {
			keys := make([]string, 0, len(m))
			for key := range m {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				h.Write([]byte{0x1e})
				h.Write([]byte(key))
				if err := hashRep(h, m[key], *spec.Elem, seen); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Equal 判断两个模型是否结构相等：
// 具体类型相同且所有非排除字段两两相等。
// 嵌套模型递归比较，序列按顺序，映射按键，集合按成员关系。
func Equal(a, b Record) bool {
	return equalRecord(a, b, map[[2]Record]struct{}{})
}

func equalRecord(a, b Record, seen map[[2]Record]struct{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.RecordType() != b.RecordType() {
		return false
	}
	// 自引用图中重入的一对实例视为相等，交由外层判定。
	pair := [2]Record{a, b}
	if _, busy := seen[pair]; busy {
		return true
	}
	seen[pair] = struct{}{}
	defer delete(seen, pair)

	s, err := schemaFor(a.RecordType())
	if err != nil {
		return false
	}
	for i := range s.fields {
		f := &s.fields[i]
		if f.excluded {
			continue
		}
		ra, oka := f.get(a)
		rb, okb := f.get(b)
		if oka != okb {
			return false
		}
		if !oka {
			continue
		}
		if !equalRep(ra, rb, f.kind, seen) {
			return false
		}
	}
	return true
}

func equalRep(a, b any, spec KindSpec, seen map[[2]Record]struct{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch spec.Kind {
	case KindBool:
		x, ok1 := a.(bool)
		y, ok2 := b.(bool)
		return ok1 && ok2 && x == y
	case KindInt:
		x, ok1 := a.(int64)
		y, ok2 := b.(int64)
		return ok1 && ok2 && x == y
	case KindFloat:
		x, ok1 := a.(float64)
		y, ok2 := b.(float64)
		return ok1 && ok2 && x == y
	case KindString:
		x, ok1 := a.(string)
		y, ok2 := b.(string)
		return ok1 && ok2 && x == y
	case KindDate:
		x, ok1 := a.(time.Time)
		y, ok2 := b.(time.Time)
		return ok1 && ok2 && x.Equal(y)
	case KindURL:
		x, ok1 := a.(*url.URL)
		y, ok2 := b.(*url.URL)
		if !ok1 || !ok2 {
			return false
		}
		if x == nil || y == nil {
			return x == nil && y == nil
		}
		return x.String() == y.String()
	case KindBinary:
		x, ok1 := a.([]byte)
		y, ok2 := b.([]byte)
		return ok1 && ok2 && bytes.Equal(x, y)
	case KindRecord:
		x, ok1 := a.(Record)
		y, ok2 := b.(Record)
		return ok1 && ok2 && equalRecord(x, y, seen)
	case KindArray:
		x, ok1 := a.([]any)
		y, ok2 := b.([]any)
		if !ok1 || !ok2 || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equalRep(x[i], y[i], *spec.Elem, seen) {
				return false
			}
		}
		return true
	case KindSet:
		x, ok1 := a.([]any)
		y, ok2 := b.([]any)
		if !ok1 || !ok2 || len(x) != len(y) {
			return false
		}
		return setEqual(x, y, *spec.Elem, seen)
	case KindMap:
		x, ok1 := a.(map[string]any)
		y, ok2 := b.(map[string]any)
		if !ok1 || !ok2 || len(x) != len(y) {
			return false
		}
		for key, xv := range x {
			yv, ok := y[key]
			if !ok || !equalRep(xv, yv, *spec.Elem, seen) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// setEqual 按成员关系比较：每个 a 元素在 b 中找到一个未被
// 占用的相等元素即匹配。
func setEqual(a, b []any, elem KindSpec, seen map[[2]Record]struct{}) bool {
	used := make([]bool, len(b))
	for _, ea := range a {
		matched := false
		for j, eb := range b {
			if used[j] {
				continue
			}
			if equalRep(ea, eb, elem, seen) {
				used[j] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
