package data

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanColumn(t *testing.T) {
	assert.Equal(t, "QUOTE_DATE", CleanColumn("[QUOTE_DATE]"))
	assert.Equal(t, "C_IV", CleanColumn(" [C_IV]"))
	assert.Equal(t, "Date", CleanColumn("\ufeffDate"))
	assert.Equal(t, "Close", CleanColumn("Close"))
}

func TestReadChunks_Bounded(t *testing.T) {
	input := "a,b\n1,2\n3,4\n5,6\n7,8\n9,10\n"

	var sizes []int
	total, err := ReadChunks(context.Background(), strings.NewReader(input), 2, func(h Header, chunk [][]string) error {
		sizes = append(sizes, len(chunk))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, []int{2, 2, 1}, sizes)
}

func TestReadChunks_Empty(t *testing.T) {
	called := false
	total, err := ReadChunks(context.Background(), strings.NewReader(""), 10, func(Header, [][]string) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.False(t, called)
}

func TestHeader_Float(t *testing.T) {
	h := newHeader([]string{"[X]", "[Y]", "[Z]"})
	rec := []string{" 1.5", "", "abc"}

	v, ok := h.Float(rec, "X")
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	_, ok = h.Float(rec, "Y")
	assert.False(t, ok)
	assert.Nil(t, h.OptionalFloat(rec, "Z"))
	assert.Nil(t, h.OptionalFloat(rec, "missing"))

	assert.Error(t, h.Require("X", "W"))
}
