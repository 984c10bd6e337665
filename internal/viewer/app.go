package viewer

import (
	"context"
	"log"
	"strings"
	"time"

	"gridview/internal/graphics"
	"gridview/internal/input"
	"gridview/internal/profiling"
	"gridview/internal/scene"
)

// slowTick is the processing time above which a tick is logged
const slowTick = 16 * time.Millisecond

// App drives the frame loop. All of its methods must run on the thread that
// owns the graphics context.
type App struct {
	surface  Surface
	dev      graphics.Device
	scene    *scene.Scene
	overlay  *graphics.Overlay
	input    *input.InputManager
	limiter  *FPSLimiter
	profiler *profiling.Profiler
	release  func()

	title   string
	clock   func() time.Duration
	onFrame func(scene.Readout)

	showOverlay   bool
	width, height int
	frames        int
	idle          time.Duration
}

// Frames returns how many ticks have run
func (a *App) Frames() int {
	return a.frames
}

// Run ticks until the surface asks to close or ctx is done. It returns
// ctx.Err() in the latter case.
func (a *App) Run(ctx context.Context) error {
	log.Printf("viewer: running (fps limit %d)", a.limiter.Limit())
	for !a.surface.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.tick()
	}
	log.Printf("viewer: surface closed after %d frames (%v waiting on the fps limit)", a.frames, a.idle)
	return nil
}

func (a *App) tick() {
	a.profiler.ResetFrame()
	start := time.Now()

	stop := a.profiler.Track("surface.PollEvents")
	a.surface.PollEvents()
	stop()
	a.handleActions()

	a.resize()
	aspect := float32(1)
	if a.height > 0 {
		aspect = float32(a.width) / float32(a.height)
	}

	stop = a.profiler.Track("scene.Tick")
	readout := a.scene.Tick(a.clock(), aspect)
	stop()
	a.frames++

	stop = a.profiler.Track("viewer.Publish")
	a.publish(readout)
	stop()

	stop = a.profiler.Track("surface.SwapBuffers")
	a.surface.SwapBuffers()
	stop()

	if d := time.Since(start); d > slowTick {
		log.Printf("viewer: slow tick %v. Top tasks: %s", d, a.profiler.TopN(3))
	}

	a.input.PostUpdate()
	a.idle += a.limiter.Wait()
}

func (a *App) handleActions() {
	if a.input.JustPressed(input.ActionQuit) {
		a.surface.SetShouldClose(true)
	}
	if a.input.JustPressed(input.ActionToggleOverlay) {
		a.showOverlay = !a.showOverlay
	}
}

func (a *App) resize() {
	w, h := a.surface.FramebufferSize()
	if w == a.width && h == a.height {
		return
	}
	a.width, a.height = w, h
	a.dev.Viewport(int32(w), int32(h))
	if a.overlay != nil {
		a.overlay.SetViewport(w, h)
	}
}

func (a *App) publish(r scene.Readout) {
	a.surface.SetTitle(a.title + " | " + r.String())
	if a.overlay != nil && a.showOverlay {
		a.overlay.Draw(strings.Join(r.Lines(), "\n"))
	}
	if a.onFrame != nil {
		a.onFrame(r)
	}
}

// Close releases every GPU object and destroys the surface. Later calls do
// nothing.
func (a *App) Close() {
	if a.surface == nil {
		return
	}
	if a.overlay != nil {
		a.overlay.Delete()
	}
	a.release()
	a.surface.Destroy()
	a.surface = nil
}
