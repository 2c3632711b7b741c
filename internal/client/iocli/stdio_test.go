package iocli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Проверяем что NewStdio возвращает валидный объект
func TestNewStdio(t *testing.T) {
	assert.NotNil(t, NewStdio())
}

func TestStdio_Output(t *testing.T) {
	var out bytes.Buffer
	stdio := NewStdioFrom(strings.NewReader(""), &out)

	stdio.Println("hello", "world")
	stdio.Printf("test %d %s\n", 1, "abc")
	n, err := stdio.Write([]byte("raw"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Equal(t, "hello world\ntest 1 abc\nraw", out.String())
}

// Несколько вызовов ReadInput читают последовательные строки
func TestStdio_ReadInput(t *testing.T) {
	var out bytes.Buffer
	stdio := NewStdioFrom(strings.NewReader("  first line \nsecond"), &out)

	first, err := stdio.ReadInput("Content: ")
	require.NoError(t, err)
	assert.Equal(t, "first line", first)

	second, err := stdio.ReadInput("More: ")
	require.NoError(t, err)
	assert.Equal(t, "second", second)

	_, err = stdio.ReadInput("Empty: ")
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "Content: More: Empty: ", out.String())
}
