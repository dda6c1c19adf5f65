//go:build !windows

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mchmarny/menusync/pkg/native/memory"
)

func TestDefaultIsMemoryOffWindows(t *testing.T) {
	assert.IsType(t, &memory.Backend{}, Default())
}
