package olist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kernsched/olist"
)

func TestCompile(t *testing.T) {
}

func descending(a, b int, _ any) bool { return a > b }

func TestInsertOrderedDescendingWithFIFOTies(t *testing.T) {
	l := olist.New[int]()
	order := []int{30, 10, 30, 20, 10}
	for _, v := range order {
		e := &olist.Elem[int]{Value: v}
		l.InsertOrdered(e, descending, nil)
	}

	var got []int
	l.Each(func(v int) { got = append(got, v) })
	assert.Equal(t, []int{30, 30, 20, 10, 10}, got)
}

func TestRemoveIsIdempotent(t *testing.T) {
	l := olist.New[string]()
	e := &olist.Elem[string]{Value: "a"}
	l.PushBack(e)
	require.Equal(t, 1, l.Len())

	l.Remove(e)
	assert.Equal(t, 0, l.Len())
	assert.False(t, e.Attached())

	// Removing again must be a safe no-op.
	l.Remove(e)
	assert.Equal(t, 0, l.Len())
}

func TestPopFrontAndEmpty(t *testing.T) {
	l := olist.New[int]()
	assert.True(t, l.Empty())
	assert.Nil(t, l.PopFront())

	l.PushBack(&olist.Elem[int]{Value: 1})
	l.PushBack(&olist.Elem[int]{Value: 2})

	e := l.PopFront()
	require.NotNil(t, e)
	assert.Equal(t, 1, e.Value)
	assert.Equal(t, 1, l.Len())
}

func TestSortStable(t *testing.T) {
	l := olist.New[int]()
	for _, v := range []int{5, 1, 5, 3} {
		l.PushBack(&olist.Elem[int]{Value: v})
	}
	l.Sort(descending, nil)

	var got []int
	l.Each(func(v int) { got = append(got, v) })
	assert.Equal(t, []int{5, 5, 3, 1}, got)
}
