package model

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/model-garden-go/pkg/util/merr"
)

func TestFromValueNotMapping(t *testing.T) {
	_, err := FromValue(NewString("not an object"), "Book")
	require.Error(t, err)
	require.True(t, errors.Is(err, merr.ErrValueNotMapping))

	_, err = FromValue(NewArray(NewInt(1)), "Book")
	require.True(t, errors.Is(err, merr.ErrValueNotMapping))
}

func TestFromValueUnregisteredType(t *testing.T) {
	obj := NewObject()
	obj.Set("name", NewString("x"))
	_, err := FromValue(NewObjectValue(obj), "NoSuchType")
	require.True(t, errors.Is(err, merr.ErrSchemaNotRegistered))
}

func TestAliasPriority(t *testing.T) {
	rec, err := FromJSON([]byte(`{"ID": 7, "book_id": 9}`), "Book")
	require.NoError(t, err)
	require.EqualValues(t, 7, rec.(*Book).ID)
}

func TestNestedKeyPath(t *testing.T) {
	rec, err := FromJSON([]byte(`{"ext": {"desc": "hello"}}`), "Book")
	require.NoError(t, err)
	require.Equal(t, "hello", rec.(*Book).Desc)

	// 中间段为 null 时判定为缺失，字段保持默认值。
	rec, err = FromJSON([]byte(`{"ext": null}`), "Book")
	require.NoError(t, err)
	require.Equal(t, "", rec.(*Book).Desc)

	// 平铺 key 优先级高于路径候选。
	rec, err = FromJSON([]byte(`{"desc": "flat", "ext": {"desc": "nested"}}`), "Book")
	require.NoError(t, err)
	require.Equal(t, "flat", rec.(*Book).Desc)
}

func TestNonFatalCoercion(t *testing.T) {
	rec, err := FromJSON([]byte(`{"page": "not-a-number", "name": "ok"}`), "Book")
	require.NoError(t, err)
	b := rec.(*Book)
	require.EqualValues(t, 0, b.Page)
	require.Equal(t, "ok", b.Name)
}

func TestScalarCrossCoercion(t *testing.T) {
	rec, err := FromJSON([]byte(`{
		"id": "42",
		"page": 12.0,
		"price": "59.5",
		"sale": "yes",
		"name": 123
	}`), "Book")
	require.NoError(t, err)
	b := rec.(*Book)
	require.EqualValues(t, 42, b.ID)
	require.EqualValues(t, 12, b.Page)
	require.Equal(t, 59.5, b.Price)
	require.True(t, b.Sale)
	require.Equal(t, "123", b.Name)
}

func TestDateFormats(t *testing.T) {
	for raw, want := range map[string]time.Time{
		`"2024-03-01T12:30:00+0800"`: time.Date(2024, 3, 1, 12, 30, 0, 0, time.FixedZone("", 8*3600)),
		`"2024-03-01 12:30:00"`:      time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		`"2024-03-01"`:               time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		`1709296200`:                 time.Unix(1709296200, 0).UTC(),
	} {
		rec, err := FromJSON([]byte(`{"out": `+raw+`}`), "Book")
		require.NoError(t, err)
		require.True(t, want.Equal(rec.(*Book).Out), "input %s", raw)
	}

	rec, err := FromJSON([]byte(`{"out": "last tuesday"}`), "Book")
	require.NoError(t, err)
	require.True(t, rec.(*Book).Out.IsZero())
}

func TestContainerElementDrop(t *testing.T) {
	rec, err := FromJSON([]byte(`{
		"tags": ["a", {"bad": true}, "b"],
		"attrs": {"stock": 3, "broken": "zero-ish?", "rank": 1}
	}`), "Book")
	require.NoError(t, err)
	b := rec.(*Book)
	require.Equal(t, []any{"a", "b"}, b.Tags)
	require.Equal(t, map[string]any{"stock": int64(3), "rank": int64(1)}, b.Attrs)
}

func TestNestedRecordDecode(t *testing.T) {
	rec, err := FromJSON([]byte(`{"name": "HP", "author": {"name": "Rowling"}}`), "Book")
	require.NoError(t, err)
	b := rec.(*Book)
	require.NotNil(t, b.Author)
	require.Equal(t, "Rowling", b.Author.Name)

	// 嵌套字段不是映射：仅该字段缺省，整体仍成功。
	rec, err = FromJSON([]byte(`{"name": "HP", "author": "Rowling"}`), "Book")
	require.NoError(t, err)
	require.Nil(t, rec.(*Book).Author)
}

func TestPolymorphicDispatch(t *testing.T) {
	rec, err := FromJSON([]byte(`{"radius": 3}`), "Shape")
	require.NoError(t, err)
	circle, ok := rec.(*Circle)
	require.True(t, ok)
	require.Equal(t, 3.0, circle.Radius)

	rec, err = FromJSON([]byte(`{"area": 12.5}`), "Shape")
	require.NoError(t, err)
	base, ok := rec.(*BaseShape)
	require.True(t, ok)
	require.Equal(t, 12.5, base.Area)
}

func TestPolymorphicContainer(t *testing.T) {
	rec, err := FromJSON([]byte(`{"shapes": [{"radius": 1}, {"area": 4}, {"radius": 2}]}`), "Canvas")
	require.NoError(t, err)
	shapes := rec.(*Canvas).Shapes
	require.Len(t, shapes, 3)
	require.IsType(t, &Circle{}, shapes[0])
	require.IsType(t, &BaseShape{}, shapes[1])
	require.IsType(t, &Circle{}, shapes[2])
}

func TestPreDecodeHook(t *testing.T) {
	// 改写：剥掉 data 包装层。
	rec, err := FromJSON([]byte(`{"data": {"name": "alice", "age": 30}}`), "Account")
	require.NoError(t, err)
	require.Equal(t, "alice", rec.(*Account).Name)
	require.EqualValues(t, 30, rec.(*Account).Age)

	// 否决：整体拒绝。
	_, err = FromJSON([]byte(`{"drop": true, "name": "alice"}`), "Account")
	require.True(t, errors.Is(err, merr.ErrModelRejected))
}

func TestPostDecodeHook(t *testing.T) {
	_, err := FromJSON([]byte(`{"name": "bob", "age": -1}`), "Account")
	require.True(t, errors.Is(err, merr.ErrModelRejected))
}

func TestSetWithValue(t *testing.T) {
	b := &Book{ID: 1, Name: "old", Page: 10}
	v, err := ParseValue([]byte(`{"name": "new", "price": 5}`))
	require.NoError(t, err)
	require.NoError(t, SetWithValue(b, v))
	require.Equal(t, "new", b.Name)
	require.Equal(t, 5.0, b.Price)
	// 未出现的 key 保持原值。
	require.EqualValues(t, 1, b.ID)
	require.EqualValues(t, 10, b.Page)

	require.Error(t, SetWithValue(b, NewString("nope")))
}

func TestDecodeSlice(t *testing.T) {
	v, err := ParseValue([]byte(`[{"id": 1}, "garbage", {"id": 2}]`))
	require.NoError(t, err)
	recs, err := DecodeSlice(v, "Book")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.EqualValues(t, 1, recs[0].(*Book).ID)
	require.EqualValues(t, 2, recs[1].(*Book).ID)

	_, err = DecodeSlice(NewString("x"), "Book")
	require.True(t, errors.Is(err, merr.ErrBatchNotArray))
}

func TestDecodeMap(t *testing.T) {
	v, err := ParseValue([]byte(`{"a": {"id": 1}, "b": 17, "c": {"id": 3}}`))
	require.NoError(t, err)
	recs, err := DecodeMap(v, "Book")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.EqualValues(t, 1, recs["a"].(*Book).ID)
	require.EqualValues(t, 3, recs["c"].(*Book).ID)
}
