package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqualAndHashBasics(t *testing.T) {
	a := sampleBook()
	b := sampleBook()
	require.True(t, Equal(a, b))

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, err := Hash(b)
	require.NoError(t, err)
	require.Equal(t, ha, hb)

	b.Page = 999
	require.False(t, Equal(a, b))
}

func TestEqualIgnoresExcludedFields(t *testing.T) {
	a := sampleBook()
	b := sampleBook()
	b.Secret = "different"
	require.True(t, Equal(a, b))
}

func TestEqualDifferentConcreteType(t *testing.T) {
	require.False(t, Equal(&Circle{Radius: 1}, &BaseShape{Area: 1}))
}

func TestEqualNestedRecord(t *testing.T) {
	a := sampleBook()
	b := sampleBook()
	b.Author.Name = "someone else"
	require.False(t, Equal(a, b))

	b.Author = nil
	require.False(t, Equal(a, b))
}

func TestEqualCyclicGraphTerminates(t *testing.T) {
	a := &Node{Name: "n"}
	a.Next = a
	b := &Node{Name: "n"}
	b.Next = b
	require.True(t, Equal(a, b))

	c := &Node{Name: "other"}
	c.Next = c
	require.False(t, Equal(a, c))
}

func TestHashCyclicGraphTerminates(t *testing.T) {
	a := &Node{Name: "n"}
	a.Next = a
	h1, err := Hash(a)
	require.NoError(t, err)

	b := &Node{Name: "n"}
	b.Next = b
	h2, err := Hash(b)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

type bag struct {
	Items []any
}

func (b *bag) RecordType() string { return "Bag" }

func init() {
	MustRegister(Declaration{
		TypeName: "Bag",
		New:      func() Record { return &bag{} },
		Fields: []Field{
			{
				Name: "items",
				Kind: SetKind(StringKind()),
				Get: OptionalGetter(func(b *bag) ([]any, bool) {
					return b.Items, b.Items != nil
				}),
				Set: Setter(func(b *bag, v []any) { b.Items = v }),
			},
		},
	})
}

func TestSetMembershipSemantics(t *testing.T) {
	a := &bag{Items: []any{"x", "y", "z"}}
	b := &bag{Items: []any{"z", "x", "y"}}
	require.True(t, Equal(a, b))

	ha, err := Hash(a)
	require.NoError(t, err)
	hb, err := Hash(b)
	require.NoError(t, err)
	require.Equal(t, ha, hb)

	c := &bag{Items: []any{"x", "y"}}
	require.False(t, Equal(a, c))
}
