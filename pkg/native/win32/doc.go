// Package win32 implements native.Backend on the Win32 menu API (user32,
// comctl32 window subclassing and gdi32 bitmaps for icon items).
//
// Menu commands are received by subclassing the host window, so the host
// keeps its own window procedure. The host message loop must still call
// TranslateAcceleratorW with the table returned by the menu before
// TranslateMessage and DispatchMessage.
//
// The backend itself only builds on windows; the key mapping is portable.
package win32
