package accelerator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Accelerator
	}{
		{"Alt+D", New(Alt, KeyD)},
		{"alt+d", New(Alt, KeyD)},
		{"Ctrl+Shift+S", New(Control|Shift, KeyS)},
		{"CmdOrCtrl+Q", New(Control, KeyQ)},
		{"F4", New(0, F4)},
		{"Alt+F4", New(Alt, F4)},
		{"Control+KeyA", New(Control, KeyA)},
		{"Super+5", New(Super, Digit5)},
		{"Ctrl + PageUp", New(Control, PageUp)},
		{"Ctrl+=", New(Control, Equal)},
		{"Ctrl++", New(Control, NumpadAdd)},
		{"Shift+Esc", New(Shift, Escape)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "Ctrl", "Ctrl+Shift", "Ctrl+A+B", "Ctrl+NoSuchKey", "Ctrl+"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrParse, "input %q", in)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "Alt+D", New(Alt, KeyD).String())
	assert.Equal(t, "Ctrl+Shift+S", New(Shift|Control, KeyS).String())
	assert.Equal(t, "Ctrl+Alt+Shift+Win+1", New(Super|Shift|Alt|Control, Digit1).String())
	assert.Equal(t, "F12", New(0, F12).String())
	assert.Equal(t, "Ctrl+PageDown", New(Control, PageDown).String())
}

func TestStringParsesBack(t *testing.T) {
	for c := KeyA; c < codeCount; c++ {
		a := New(Control|Shift, c)
		got, err := Parse(a.String())
		require.NoError(t, err, "code %s", c)
		assert.Equal(t, a, got)
	}
}

func TestTextEncoding(t *testing.T) {
	var v struct {
		Accel Accelerator `json:"accel"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"accel":"ctrl+o"}`), &v))
	assert.Equal(t, New(Control, KeyO), v.Accel)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"accel":"Ctrl+O"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"accel":"ctrl+"}`), &v))
}
