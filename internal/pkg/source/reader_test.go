package source

import (
	"bytes"
	"testing"

	"github.com/futig/code-companion/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("plain utf8", func(t *testing.T) {
		text, err := Decode([]byte("class A {}\n"))
		require.NoError(t, err)
		assert.Equal(t, "class A {}\n", text)
	})

	t.Run("utf8 bom is dropped", func(t *testing.T) {
		text, err := Decode(append([]byte{0xEF, 0xBB, 0xBF}, []byte("class A {}")...))
		require.NoError(t, err)
		assert.Equal(t, "class A {}", text)
	})

	t.Run("utf16 little endian with bom", func(t *testing.T) {
		data := []byte{0xFF, 0xFE, 'h', 0, 'i', 0}
		text, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, "hi", text)
	})

	t.Run("crlf normalised", func(t *testing.T) {
		text, err := Decode([]byte("a\r\nb\r\n"))
		require.NoError(t, err)
		assert.Equal(t, "a\nb\n", text)
	})

	t.Run("binary rejected", func(t *testing.T) {
		_, err := Decode([]byte{'a', 0x00, 'b'})
		assert.ErrorIs(t, err, entity.ErrInvalidEncoding)
	})
}

func TestRead(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		text, err := Read(bytes.NewReader([]byte("int x;")), 6)
		require.NoError(t, err)
		assert.Equal(t, "int x;", text)
	})

	t.Run("over limit", func(t *testing.T) {
		_, err := Read(bytes.NewReader([]byte("int x = 1;")), 4)
		assert.ErrorIs(t, err, entity.ErrFileTooLarge)
	})
}
