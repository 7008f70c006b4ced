package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, NOERROR, Code(nil))
	err := Error(EPARAMETER, "font ID %d", 7)
	assert.Equal(t, EPARAMETER, Code(err))
	assert.Equal(t, "font ID 7", UserMessage(err))
	wrapped := fmt.Errorf("loading: %w", err)
	assert.Equal(t, EPARAMETER, Code(wrapped), "codes must survive wrapping")
	plain := errors.New("file not found")
	assert.Equal(t, ERESOURCE, Code(plain), "uncoded errors are resource errors")
	assert.Equal(t, "resource error", UserMessage(plain))
	w := WrapError(plain, ESTATE, "no context")
	assert.Equal(t, ESTATE, Code(w))
	assert.True(t, errors.Is(w, plain))
	assert.Equal(t, ESTACKOVERFLOW, Code(ErrorWithCode(nil, ESTACKOVERFLOW)))
}

func TestStickyError(t *testing.T) {
	var s Sticky
	assert.Equal(t, NOERROR, s.Get())
	s.Raise(nil)
	assert.Nil(t, s.Peek())
	s.Raise(Error(ESTATE, "first"))
	s.Raise(Error(EPARAMETER, "second"))
	assert.Equal(t, "first", UserMessage(s.Peek()))
	assert.Equal(t, ESTATE, s.Get())
	assert.Equal(t, NOERROR, s.Get())
	s.Raise(Error(EPARAMETER, "third"))
	assert.Equal(t, EPARAMETER, s.Get())
}
