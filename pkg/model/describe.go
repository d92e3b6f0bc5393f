package model

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Describe 生成模型的调试描述，覆盖非排除字段，
// 输出顺序与字段声明顺序一致，自引用处标记 <cycle>。
func Describe(rec Record) string {
	var sb strings.Builder
	describeRecord(&sb, rec, map[Record]struct{}{})
	return sb.String()
}

func describeRecord(sb *strings.Builder, rec Record, seen map[Record]struct{}) {
	if rec == nil {
		sb.WriteString("<nil>")
		return
	}
	if _, busy := seen[rec]; busy {
		sb.WriteString("<cycle>")
		return
	}
	seen[rec] = struct{}{}
	defer delete(seen, rec)

	s, err := schemaFor(rec.RecordType())
	if err != nil {
		fmt.Fprintf(sb, "<%s>", rec.RecordType())
		return
	}
	sb.WriteString(s.typeName)
	sb.WriteByte('{')
	first := true
	for i := range s.fields {
		f := &s.fields[i]
		if f.excluded {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(f.name)
		sb.WriteString(": ")
		rep, ok := f.get(rec)
		if !ok || rep == nil {
			sb.WriteString("<unset>")
			continue
		}
		describeRep(sb, rep, f.kind, seen)
	}
	sb.WriteByte('}')
}

func describeRep(sb *strings.Builder, rep any, spec KindSpec, seen map[Record]struct{}) {
	switch spec.Kind {
	case KindString:
		if s, ok := rep.(string); ok {
			sb.WriteString(strconv.Quote(s))
			return
		}
	case KindDate:
		if t, ok := rep.(time.Time); ok {
			sb.WriteString(t.Format(dateEncodeLayout))
			return
		}
	case KindURL:
		if u, ok := rep.(*url.URL); ok && u != nil {
			sb.WriteString(u.String())
			return
		}
	case KindBinary:
		if payload, ok := rep.([]byte); ok {
			fmt.Fprintf(sb, "<%d bytes>", len(payload))
			return
		}
	case KindRecord:
		if nested, ok := rep.(Record); ok {
			describeRecord(sb, nested, seen)
			return
		}
	case KindArray, KindSet:
		if elems, ok := rep.([]any); ok {
			sb.WriteByte('[')
			for i, e := range elems {
				if i > 0 {
					sb.WriteString(", ")
				}
				describeRep(sb, e, *spec.Elem, seen)
			}
			sb.WriteByte(']')
			return
		}
	case KindMap:
		if m, ok := rep.(map[string]any); ok {
			keys := make([]string, 0, len(m))
			for key := range m {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			sb.WriteByte('{')
			for i, key := range keys {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(key)
				sb.WriteString(": ")
				describeRep(sb, m[key], *spec.Elem, seen)
			}
			sb.WriteByte('}')
			return
		}
	}
	fmt.Fprintf(sb, "%v", rep)
}
