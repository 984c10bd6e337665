package main

import (
	"gridview/internal/config"
	"gridview/internal/graphics"
	"gridview/internal/input"
	"gridview/internal/viewer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwSurface adapts a glfw window to viewer.Surface
type glfwSurface struct {
	window *glfw.Window
}

func (s *glfwSurface) ShouldClose() bool           { return s.window.ShouldClose() }
func (s *glfwSurface) SetShouldClose(v bool)       { s.window.SetShouldClose(v) }
func (s *glfwSurface) PollEvents()                 { glfw.PollEvents() }
func (s *glfwSurface) SwapBuffers()                { s.window.SwapBuffers() }
func (s *glfwSurface) SetTitle(title string)       { s.window.SetTitle(title) }
func (s *glfwSurface) Destroy()                    { s.window.Destroy() }
func (s *glfwSurface) FramebufferSize() (int, int) { return s.window.GetFramebufferSize() }

func openWindow(cfg config.Config, im *input.InputManager) (viewer.Surface, graphics.Device, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return nil, nil, err
	}
	window.MakeContextCurrent()

	// Initialize OpenGL bindings
	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, nil, err
	}

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		// the FPS limiter paces frames instead
		glfw.SwapInterval(0)
	}
	im.SetKeyCallback(window)

	return &glfwSurface{window: window}, graphics.NewGLDevice(), nil
}
