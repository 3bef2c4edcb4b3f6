package entities

import (
	"testing"

	"graphedit/domain/core/valueobjects"
	pkgerrors "graphedit/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdge_From(t *testing.T) {
	e := NewEdge(1, 2)

	other, err := e.From(1)
	require.NoError(t, err)
	assert.Equal(t, valueobjects.NodeID(2), other)

	other, err = e.From(2)
	require.NoError(t, err)
	assert.Equal(t, valueobjects.NodeID(1), other)

	other, err = e.From(3)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsDanglingReference(err))
	assert.Equal(t, valueobjects.NoNode, other)

	_, err = e.From(valueobjects.NoNode)
	assert.True(t, pkgerrors.IsDanglingReference(err))
}

func TestEdge_SelfLoop(t *testing.T) {
	e := NewEdge(4, 4)
	assert.True(t, e.IsSelfLoop())

	other, err := e.From(4)
	require.NoError(t, err)
	assert.Equal(t, valueobjects.NodeID(4), other)
}

func TestEdge_Sever(t *testing.T) {
	e := NewEdge(1, 2)
	assert.True(t, e.Touches(1))
	assert.False(t, e.IsDangling())

	a, b := e.Sever()
	assert.Equal(t, valueobjects.NodeID(1), a)
	assert.Equal(t, valueobjects.NodeID(2), b)

	a, b = e.Endpoints()
	assert.Equal(t, valueobjects.NoNode, a)
	assert.Equal(t, valueobjects.NoNode, b)
	assert.Equal(t, StateExpired, e.State())
	assert.True(t, e.IsDangling())
	assert.False(t, e.Touches(1))
}

func TestEdge_Drawing(t *testing.T) {
	e := NewEdge(1, 2)
	assert.False(t, e.OnClick(0, 0))

	canvas := &recordingCanvas{}
	e.DrawBetween(canvas, valueobjects.Pos(0, 0), valueobjects.Pos(1, 1))
	assert.Len(t, canvas.lines, 1)

	e.Sever()
	canvas = &recordingCanvas{}
	e.DrawBetween(canvas, valueobjects.Pos(0, 0), valueobjects.Pos(1, 1))
	assert.Empty(t, canvas.lines)
}
