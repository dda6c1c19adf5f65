// Package platform selects the native menu backend for the build target:
// Win32 on windows, the in-memory backend elsewhere.
package platform
