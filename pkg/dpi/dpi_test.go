package dpi

import (
	"encoding/json"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionConversion(t *testing.T) {
	p, err := Logical(100, 120.4).ToPhysical(1.5)
	require.NoError(t, err)
	assert.Equal(t, PhysicalPosition{X: 150, Y: 181}, p)

	p, err = Physical(10, 20).ToPhysical(2)
	require.NoError(t, err)
	assert.Equal(t, PhysicalPosition{X: 10, Y: 20}, p)

	l, err := Physical(300, 150).ToLogical(2)
	require.NoError(t, err)
	assert.Equal(t, LogicalPosition{X: 150, Y: 75}, l)

	_, err = Logical(1, 1).ToPhysical(0)
	assert.ErrorIs(t, err, ErrInvalidScale)

	_, err = Position{}.ToPhysical(1)
	assert.Error(t, err)
}

func TestSizeConversion(t *testing.T) {
	s, err := Size{Logical: &LogicalSize{Width: 16, Height: -3}}.ToPhysical(1.25)
	require.NoError(t, err)
	assert.Equal(t, PhysicalSize{Width: 20, Height: 0}, s)

	_, err = Size{}.ToPhysical(1)
	assert.Error(t, err)
}

func TestPositionJSON(t *testing.T) {
	out, err := json.Marshal(Physical(3, -4))
	require.NoError(t, err)
	assert.JSONEq(t, `{"physical":{"x":3,"y":-4}}`, string(out))

	var p Position
	require.NoError(t, json.Unmarshal([]byte(`{"logical":{"x":1.5,"y":2}}`), &p))
	assert.Equal(t, Logical(1.5, 2), p)

	assert.Error(t, json.Unmarshal([]byte(`{}`), &p))
	assert.Error(t, json.Unmarshal([]byte(`{"logical":{"x":1,"y":2},"physical":{"x":1,"y":2}}`), &p))
}

func TestPositionTOML(t *testing.T) {
	in := struct {
		At Position `toml:"at"`
	}{At: Logical(12, 8)}

	out, err := toml.Marshal(in)
	require.NoError(t, err)

	var back struct {
		At Position `toml:"at"`
	}
	require.NoError(t, toml.Unmarshal(out, &back))
	assert.Equal(t, in.At, back.At)
}
