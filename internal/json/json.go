package json

import (
	"io"

	"github.com/bytedance/sonic"
)

// config 使用与标准库 encoding/json 兼容的 sonic 配置。
//
// 选择兼容模式是为了保证 map 键排序、HTML 转义等行为与标准库一致，
// 便于调用方在 sonic 与标准库之间无感切换。
var config = sonic.ConfigStd

// Marshal 将任意对象编码为 JSON 字节序列。
func Marshal(v any) ([]byte, error) {
	return config.Marshal(v)
}

// MarshalIndent 将任意对象编码为带缩进的 JSON 字节序列。
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return config.MarshalIndent(v, prefix, indent)
}

// Unmarshal 将 JSON 字节序列解码到目标对象。
//
// v 通常为指针类型，用于接收解码结果。
func Unmarshal(data []byte, v any) error {
	return config.Unmarshal(data, v)
}

// NewEncoder 创建一个向 w 写入 JSON 的编码器。
func NewEncoder(w io.Writer) sonic.Encoder {
	return config.NewEncoder(w)
}

// NewDecoder 创建一个从 r 读取 JSON 的解码器。
func NewDecoder(r io.Reader) sonic.Decoder {
	return config.NewDecoder(r)
}
