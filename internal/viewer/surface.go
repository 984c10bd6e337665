package viewer

// Surface is the window the viewer presents frames to. Input callbacks are
// delivered from inside PollEvents on the calling goroutine.
type Surface interface {
	ShouldClose() bool
	SetShouldClose(bool)
	PollEvents()
	SwapBuffers()
	FramebufferSize() (width, height int)
	SetTitle(title string)
	Destroy()
}
