package model

import (
	"encoding/base64"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

type firmware struct {
	Digest []byte
	Image  []byte
}

func (f *firmware) RecordType() string { return "Firmware" }

func init() {
	MustRegister(Declaration{
		TypeName: "Firmware",
		New:      func() Record { return &firmware{} },
		Fields: []Field{
			{
				Name: "digest",
				Kind: BinaryKind(4),
				Get: OptionalGetter(func(f *firmware) ([]byte, bool) {
					return f.Digest, f.Digest != nil
				}),
				Set: Setter(func(f *firmware, v []byte) { f.Digest = v }),
			},
			{
				Name: "image",
				Kind: BinaryKind(0),
				Get: OptionalGetter(func(f *firmware) ([]byte, bool) {
					return f.Image, f.Image != nil
				}),
				Set: Setter(func(f *firmware, v []byte) { f.Image = v }),
			},
		},
	})
}

func TestBinaryCoercion(t *testing.T) {
	four := base64.StdEncoding.EncodeToString([]byte{1, 2, 3, 4})
	two := base64.StdEncoding.EncodeToString([]byte{9, 9})

	rec, err := FromJSON([]byte(`{"digest": "`+four+`", "image": "`+two+`"}`), "Firmware")
	require.NoError(t, err)
	f := rec.(*firmware)
	require.Equal(t, []byte{1, 2, 3, 4}, f.Digest)
	require.Equal(t, []byte{9, 9}, f.Image)

	// 长度不符：仅该字段缺省。
	rec, err = FromJSON([]byte(`{"digest": "`+two+`"}`), "Firmware")
	require.NoError(t, err)
	require.Nil(t, rec.(*firmware).Digest)

	// 非法 base64 同样只丢字段。
	rec, err = FromJSON([]byte(`{"image": "%%%not-base64%%%"}`), "Firmware")
	require.NoError(t, err)
	require.Nil(t, rec.(*firmware).Image)
}

func TestBinaryRoundTrip(t *testing.T) {
	original := &firmware{Digest: []byte{1, 2, 3, 4}, Image: []byte{7}}
	data, err := ToJSON(original)
	require.NoError(t, err)
	restored, err := FromJSON(data, "Firmware")
	require.NoError(t, err)
	require.True(t, Equal(original, restored))
}

func TestIntOverflow(t *testing.T) {
	// 超出 int64 可表示范围的数值是强转失败，不做静默截断。
	rec, err := FromJSON([]byte(`{"page": 1e300}`), "Book")
	require.NoError(t, err)
	require.EqualValues(t, 0, rec.(*Book).Page)

	rec, err = FromJSON([]byte(`{"page": "92233720368547758089999"}`), "Book")
	require.NoError(t, err)
	require.EqualValues(t, 0, rec.(*Book).Page)

	// 恰好等于 2^63 的字符串超出 ParseInt 范围，落到 float 路径，
	// 同样必须判为溢出而不是回绕成 MinInt64。
	rec, err = FromJSON([]byte(`{"page": "9223372036854775808"}`), "Book")
	require.NoError(t, err)
	require.EqualValues(t, 0, rec.(*Book).Page)

	// 下界 -2^63 本身可被 int64 表示，经 float 路径仍应成功。
	rec, err = FromJSON([]byte(`{"page": -9.223372036854775808e18}`), "Book")
	require.NoError(t, err)
	require.EqualValues(t, math.MinInt64, rec.(*Book).Page)
}

func TestURLCoercion(t *testing.T) {
	rec, err := FromJSON([]byte(`{"home": " https://example.com/a?b=1 "}`), "Book")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/a?b=1", rec.(*Book).Home.String())

	// 数字不是 URL。
	rec, err = FromJSON([]byte(`{"home": 42}`), "Book")
	require.NoError(t, err)
	require.Nil(t, rec.(*Book).Home)
}

func TestStringCanonicalization(t *testing.T) {
	rec, err := FromJSON([]byte(`{"name": 1.5}`), "Book")
	require.NoError(t, err)
	require.Equal(t, "1.5", rec.(*Book).Name)

	rec, err = FromJSON([]byte(`{"name": true}`), "Book")
	require.NoError(t, err)
	require.Equal(t, "true", rec.(*Book).Name)
}

func TestNullIsCoercionFailure(t *testing.T) {
	rec, err := FromJSON([]byte(`{"name": null, "page": null}`), "Book")
	require.NoError(t, err)
	require.Equal(t, "", rec.(*Book).Name)
	require.EqualValues(t, 0, rec.(*Book).Page)
}
