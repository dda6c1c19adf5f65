//go:build !windows

package platform

import (
	"github.com/mchmarny/menusync/pkg/native"
	"github.com/mchmarny/menusync/pkg/native/memory"
)

// Default returns a fresh in-memory backend.
func Default() native.Backend {
	return memory.New()
}
