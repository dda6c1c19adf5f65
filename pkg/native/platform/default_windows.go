//go:build windows

package platform

import (
	"github.com/mchmarny/menusync/pkg/native"
	"github.com/mchmarny/menusync/pkg/native/win32"
)

// Default returns the Win32 backend.
func Default() native.Backend {
	return win32.New()
}
