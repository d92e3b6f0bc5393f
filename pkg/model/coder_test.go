package model

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/model-garden-go/pkg/util/merr"
)

func TestCoderRoundTrip(t *testing.T) {
	original := sampleBook()
	coder := NewMapCoder()
	require.NoError(t, WriteState(original, coder))

	restored, err := ReadState(coder, "Book")
	require.NoError(t, err)
	require.True(t, Equal(original, restored))

	// 槽位按字段名命名，而非 JSON 候选 key。
	_, ok := coder.ReadSlot("id")
	require.True(t, ok)
	_, ok = coder.ReadSlot("book_id")
	require.False(t, ok)
	// 排除字段不写槽位。
	_, ok = coder.ReadSlot("secret")
	require.False(t, ok)
}

func TestCoderArchiveRoundTrip(t *testing.T) {
	original := sampleBook()
	coder := NewMapCoder()
	require.NoError(t, WriteState(original, coder))

	data, err := coder.Archive()
	require.NoError(t, err)

	unarchived, err := UnarchiveMapCoder(data)
	require.NoError(t, err)
	restored, err := ReadState(unarchived, "Book")
	require.NoError(t, err)
	// 归档把数字拍扁成 float64、日期和二进制落成字符串，
	// 读取路径按声明类型定向还原。
	require.True(t, Equal(original, restored))
}

func TestCoderMissingSlotKeepsDefault(t *testing.T) {
	coder := NewMapCoder()
	require.NoError(t, coder.WriteSlot("name", "only-name"))

	restored, err := ReadState(coder, "Book")
	require.NoError(t, err)
	b := restored.(*Book)
	require.Equal(t, "only-name", b.Name)
	require.EqualValues(t, 0, b.ID)
	require.Nil(t, b.Author)
}

func TestCoderMismatchedSlotSkipped(t *testing.T) {
	coder := NewMapCoder()
	require.NoError(t, coder.WriteSlot("page", "not a number at all"))
	require.NoError(t, coder.WriteSlot("name", "ok"))

	restored, err := ReadState(coder, "Book")
	require.NoError(t, err)
	require.EqualValues(t, 0, restored.(*Book).Page)
	require.Equal(t, "ok", restored.(*Book).Name)
}

func TestReadSlotAs(t *testing.T) {
	coder := NewMapCoder()
	require.NoError(t, coder.WriteSlot("name", "v"))

	s, err := ReadSlotAs[string](coder, "name")
	require.NoError(t, err)
	require.Equal(t, "v", s)

	_, err = ReadSlotAs[string](coder, "absent")
	require.True(t, errors.Is(err, merr.ErrCoderSlotMissing))

	_, err = ReadSlotAs[int64](coder, "name")
	require.True(t, errors.Is(err, merr.ErrCoderSlotType))
}

func TestWriteStateSelfReference(t *testing.T) {
	n := &Node{Name: "n"}
	n.Next = n
	coder := NewMapCoder()
	require.NoError(t, WriteState(n, coder))
	// 自引用的槽位被跳过。
	_, ok := coder.ReadSlot("next")
	require.False(t, ok)
	_, ok = coder.ReadSlot("name")
	require.True(t, ok)
}

func TestReadStateUnregistered(t *testing.T) {
	_, err := ReadState(NewMapCoder(), "NoSuchType")
	require.True(t, errors.Is(err, merr.ErrSchemaNotRegistered))
}
