package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCloneDeepCopy(t *testing.T) {
	original := sampleBook()
	dup, err := Clone(original)
	require.NoError(t, err)
	require.True(t, Equal(original, dup))

	copied := dup.(*Book)
	require.NotSame(t, original, copied)
	require.NotSame(t, original.Author, copied.Author)

	// 修改副本不影响原件。
	copied.Author.Name = "changed"
	copied.Tags[0] = "changed"
	copied.Attrs["stock"] = int64(0)
	require.Equal(t, "J. K. Rowling", original.Author.Name)
	require.Equal(t, "magic", original.Tags[0])
	require.Equal(t, int64(12), original.Attrs["stock"])
}

func TestCloneCopiesExcludedFields(t *testing.T) {
	original := sampleBook()
	dup, err := Clone(original)
	require.NoError(t, err)
	// 深拷贝不受黑白名单影响。
	require.Equal(t, "do-not-ship", dup.(*Book).Secret)
}

func TestCloneCyclicGraph(t *testing.T) {
	a := &Node{Name: "a"}
	a.Next = a

	dup, err := Clone(a)
	require.NoError(t, err)
	copied := dup.(*Node)
	require.NotSame(t, a, copied)
	// 自引用在副本中保持同构。
	require.Same(t, copied, copied.Next)
}

func TestCloneNil(t *testing.T) {
	dup, err := Clone(nil)
	require.NoError(t, err)
	require.Nil(t, dup)
}

func TestDescribe(t *testing.T) {
	desc := Describe(&Book{ID: 7, Name: "HP", Author: &Author{Name: "JKR"}})
	require.Contains(t, desc, "Book{")
	require.Contains(t, desc, "id: 7")
	require.Contains(t, desc, `name: "HP"`)
	require.Contains(t, desc, `Author{name: "JKR"}`)
	// 黑名单字段不出现在描述里。
	require.NotContains(t, desc, "secret")
}

func TestDescribeCycle(t *testing.T) {
	a := &Node{Name: "a"}
	a.Next = a
	desc := Describe(a)
	require.Contains(t, desc, "<cycle>")
}

func TestDescribeStableOrder(t *testing.T) {
	b := sampleBook()
	require.Equal(t, Describe(b), Describe(b))
}
