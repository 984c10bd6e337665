package input

import (
	"testing"

	"gridview/internal/graphics"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

type transition struct {
	dir     graphics.Direction
	pressed bool
}

func TestDirectionalKeys(t *testing.T) {
	im := NewInputManager()
	var got []transition
	im.OnDirection(func(dir graphics.Direction, pressed bool) {
		got = append(got, transition{dir, pressed})
	})

	im.HandleKeyEvent(glfw.KeyUp, glfw.Press)
	im.HandleKeyEvent(glfw.KeyUp, glfw.Repeat)
	im.HandleKeyEvent(glfw.KeyPageUp, glfw.Press)
	im.HandleKeyEvent(glfw.KeyUp, glfw.Release)
	im.HandleKeyEvent(glfw.KeyPageDown, glfw.Press)
	im.HandleKeyEvent(glfw.KeyA, glfw.Press)

	assert.Equal(t, []transition{
		{graphics.DirectionUp, true},
		{graphics.DirectionUp, true},
		{graphics.DirectionFarther, true},
		{graphics.DirectionUp, false},
		{graphics.DirectionNearer, true},
	}, got)
}

func TestNonDirectionalActions(t *testing.T) {
	im := NewInputManager()
	calls := 0
	im.OnDirection(func(graphics.Direction, bool) { calls++ })

	im.HandleKeyEvent(glfw.KeyEscape, glfw.Press)
	assert.True(t, im.JustPressed(ActionQuit))
	assert.Zero(t, calls)

	im.PostUpdate()
	assert.False(t, im.JustPressed(ActionQuit))

	// held keys repeat without a new edge
	im.HandleKeyEvent(glfw.KeyEscape, glfw.Repeat)
	assert.False(t, im.JustPressed(ActionQuit))

	im.HandleKeyEvent(glfw.KeyEscape, glfw.Release)
	im.HandleKeyEvent(glfw.KeyEscape, glfw.Press)
	assert.True(t, im.JustPressed(ActionQuit))
}

func TestRebinding(t *testing.T) {
	im := NewInputManager()
	im.BindKey(glfw.KeyO, ActionToggleOverlay)
	im.BindKey(glfw.KeyO, ActionCount)

	im.HandleKeyEvent(glfw.KeyO, glfw.Press)
	assert.True(t, im.JustPressed(ActionToggleOverlay))

	assert.Equal(t, graphics.DirectionNone, ActionQuit.Direction())
	assert.Equal(t, graphics.DirectionLeft, ActionRotateLeft.Direction())
	assert.False(t, im.JustPressed(Action(-1)))
}
