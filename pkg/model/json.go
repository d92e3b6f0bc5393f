package model

import (
	"bytes"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/lk2023060901/model-garden-go/pkg/util/merr"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseValue 把 JSON 字节流解析为 Value 树。
// 对象键序在解析结果中原样保留，数字区分整数与浮点形态。
func ParseValue(data []byte) (Value, error) {
	iter := jsoniter.ParseBytes(jsonAPI, data)
	v := readValue(iter)
	if iter.Error != nil && iter.Error != io.EOF {
		return Value{}, merr.WrapErrValueParse(iter.Error)
	}
	return v, nil
}

func readValue(iter *jsoniter.Iterator) Value {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return Null()
	case jsoniter.BoolValue:
		return NewBool(iter.ReadBool())
	case jsoniter.NumberValue:
		num := iter.ReadNumber()
		if i, err := num.Int64(); err == nil {
			return NewInt(i)
		}
		f, err := num.Float64()
		if err != nil {
			iter.ReportError("readValue", "unparsable number "+num.String())
			return Null()
		}
		return NewFloat(f)
	case jsoniter.StringValue:
		return NewString(iter.ReadString())
	case jsoniter.ArrayValue:
		var elems []Value
		for iter.ReadArray() {
			elems = append(elems, readValue(iter))
		}
		return NewArray(elems...)
	case jsoniter.ObjectValue:
		// ReadObjectCB 而非 ReadObject：空字符串是合法的 JSON 键，
		// 不能当作对象结束的哨兵值。
		obj := NewObject()
		iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
			obj.Set(field, readValue(it))
			return true
		})
		return NewObjectValue(obj)
	default:
		iter.ReportError("readValue", "unexpected token")
		return Null()
	}
}

// EncodeValue 把 Value 树序列化为 JSON 字节流，
// 对象键按插入顺序输出。
func EncodeValue(v Value) ([]byte, error) {
	buf := &bytes.Buffer{}
	stream := jsoniter.NewStream(jsonAPI, buf, 512)
	writeValue(stream, v)
	stream.Flush()
	if stream.Error != nil {
		return nil, merr.WrapErrValueEncode(stream.Error)
	}
	return buf.Bytes(), nil
}

func writeValue(stream *jsoniter.Stream, v Value) {
	switch v.typ {
	case TypeNull:
		stream.WriteNil()
	case TypeBool:
		stream.WriteBool(v.b)
	case TypeNumber:
		if v.isInt {
			stream.WriteInt64(v.i)
		} else {
			stream.WriteFloat64(v.f)
		}
	case TypeString:
		stream.WriteString(v.str)
	case TypeArray:
		stream.WriteArrayStart()
		for i, elem := range v.arr {
			if i > 0 {
				stream.WriteMore()
			}
			writeValue(stream, elem)
		}
		stream.WriteArrayEnd()
	case TypeObject:
		stream.WriteObjectStart()
		first := true
		v.obj.Range(func(key string, val Value) bool {
			if !first {
				stream.WriteMore()
			}
			first = false
			stream.WriteObjectField(key)
			writeValue(stream, val)
			return true
		})
		stream.WriteObjectEnd()
	}
}
