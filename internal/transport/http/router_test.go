package http

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/accommodation-form-api/internal/infrastructure/localfs"
)

func TestLocalFallback_NilPointerStaysNilInterface(t *testing.T) {
	var ls *localfs.Store
	assert.True(t, localFallback(ls) == nil)
}

func TestLocalFallback_NonNilPointerPassesThrough(t *testing.T) {
	ls := &localfs.Store{}
	assert.Equal(t, ls, localFallback(ls))
}
