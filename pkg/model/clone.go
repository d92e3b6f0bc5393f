package model

import (
	"net/url"
)

// Clone 通过 schema 深拷贝一个模型。
// 黑白名单不参与拷贝，所有映射字段原样复制；
// 图中的别名与自引用在副本里保持同构。
func Clone(rec Record) (Record, error) {
	if rec == nil {
		return nil, nil
	}
	return cloneRecord(rec, map[Record]Record{})
}

func cloneRecord(rec Record, seen map[Record]Record) (Record, error) {
	if dup, ok := seen[rec]; ok {
		return dup, nil
	}
	s, err := schemaFor(rec.RecordType())
	if err != nil {
		return nil, err
	}
	out := s.alloc()
	seen[rec] = out

	for i := range s.fields {
		f := &s.fields[i]
		rep, ok := f.get(rec)
		if !ok || rep == nil {
			continue
		}
		copied, err := cloneRep(rep, f.kind, seen)
		if err != nil {
			return nil, err
		}
		if err := f.set(out, copied); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func cloneRep(rep any, spec KindSpec, seen map[Record]Record) (any, error) {
	switch spec.Kind {
	case KindBool, KindInt, KindFloat, KindString, KindDate:
		return rep, nil
	case KindURL:
		if u, ok := rep.(*url.URL); ok && u != nil {
			dup := *u
			return &dup, nil
		}
		return rep, nil
	case KindBinary:
		if payload, ok := rep.([]byte); ok {
			dup := make([]byte, len(payload))
			copy(dup, payload)
			return dup, nil
		}
		return rep, nil
	case KindRecord:
		if nested, ok := rep.(Record); ok {
			return cloneRecord(nested, seen)
		}
		return rep, nil
	case KindArray, KindSet:
		if elems, ok := rep.([]any); ok {
			out := make([]any, 0, len(elems))
			for _, e := range elems {
				copied, err := cloneRep(e, *spec.Elem, seen)
				if err != nil {
					return nil, err
				}
				out = append(out, copied)
			}
			return out, nil
		}
		return rep, nil
	case KindMap:
		if m, ok := rep.(map[string]any); ok {
			out := make(map[string]any, len(m))
			for key, e := range m {
				copied, err := cloneRep(e, *spec.Elem, seen)
				if err != nil {
					return nil, err
				}
				out[key] = copied
			}
			return out, nil
		}
		return rep, nil
	default:
		return rep, nil
	}
}
