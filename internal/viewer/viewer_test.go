package viewer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gridview/internal/assets"
	"gridview/internal/config"
	"gridview/internal/graphics"
	"gridview/internal/graphics/recorder"
	"gridview/internal/input"
	"gridview/internal/scene"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSurface closes itself after a fixed number of polls
type fakeSurface struct {
	polls     int
	maxPolls  int
	closed    bool
	destroyed bool
	swaps     int
	title     string
	// events run inside PollEvents, keyed by poll number (1-based)
	events map[int]func()
}

func (s *fakeSurface) ShouldClose() bool           { return s.closed }
func (s *fakeSurface) SetShouldClose(v bool)       { s.closed = v }
func (s *fakeSurface) SwapBuffers()                { s.swaps++ }
func (s *fakeSurface) FramebufferSize() (int, int) { return 900, 600 }
func (s *fakeSurface) SetTitle(title string)       { s.title = title }
func (s *fakeSurface) Destroy()                    { s.destroyed = true }

func (s *fakeSurface) PollEvents() {
	s.polls++
	if ev, ok := s.events[s.polls]; ok {
		ev()
	}
	if s.maxPolls > 0 && s.polls >= s.maxPolls {
		s.closed = true
	}
}

const triangleJSON = `{"positions": [0, 0, 0, 1, 0, 0, 0, 1, 0], "indices": [0, 1, 2]}`

func assetServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testManifest() assets.Manifest {
	return assets.Manifest{
		VertexShader:   "shader.vert",
		FragmentShader: "shader.frag",
		Meshes:         []string{"tri.json", assets.BuiltinPrefix + "cube", assets.BuiltinPrefix + "tetrahedron"},
	}
}

type harness struct {
	launcher *Launcher
	surface  *fakeSurface
	dev      *recorder.Recorder
	im       *input.InputManager
	opened   int
	readouts []scene.Readout
	now      time.Duration
}

func newHarness(t *testing.T, files map[string]string) *harness {
	h := &harness{surface: &fakeSurface{}, dev: recorder.New()}
	h.launcher = &Launcher{
		Loader:   assets.NewLoader(assetServer(t, files).URL),
		Manifest: testManifest(),
		Open: func(cfg config.Config, im *input.InputManager) (Surface, graphics.Device, error) {
			h.opened++
			h.im = im
			return h.surface, h.dev, nil
		},
		OnFrame: func(r scene.Readout) { h.readouts = append(h.readouts, r) },
		Clock: func() time.Duration {
			h.now += 10 * time.Millisecond
			return h.now
		},
	}
	return h
}

var goodFiles = map[string]string{
	"/shader.vert": "vertex",
	"/shader.frag": "fragment",
	"/tri.json":    triangleJSON,
}

func TestLaunchAndRun(t *testing.T) {
	h := newHarness(t, goodFiles)
	h.surface.maxPolls = 5

	app, err := h.launcher.Launch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, h.opened)

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, 5, app.Frames())
	assert.Equal(t, 5, h.surface.swaps)
	require.Len(t, h.readouts, 5)
	for _, r := range h.readouts {
		assert.Equal(t, 60, r.DrawCalls)
	}
	assert.InDelta(t, 100, h.readouts[4].FPS, 1e-6)
	assert.Contains(t, h.surface.title, "gridview | ")
	assert.Equal(t, 5*60, h.dev.Count("DrawTriangles"))
	assert.Equal(t, 5, h.dev.Count("DrawTriangleStrip"), "overlay drawn each frame")

	app.Close()
	assert.True(t, h.surface.destroyed)
	for _, kind := range []string{"program", "buffer", "vertexArray", "texture"} {
		assert.Zero(t, h.dev.LiveKinds(kind), kind)
	}
	app.Close()
}

func TestLaunchMissingMeshNeverOpens(t *testing.T) {
	files := map[string]string{"/shader.vert": "vertex", "/shader.frag": "fragment"}
	h := newHarness(t, files)

	app, err := h.launcher.Launch(context.Background())
	require.Error(t, err)
	assert.Nil(t, app)

	var rle *assets.ResourceLoadError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, http.StatusNotFound, rle.Status)
	assert.Zero(t, h.opened)
	assert.Empty(t, h.readouts)
	assert.Empty(t, h.dev.Calls)
}

func TestLaunchShaderErrorDestroysSurface(t *testing.T) {
	h := newHarness(t, goodFiles)
	h.dev.CompileErrors = map[graphics.Stage]string{graphics.StageVertex: "0:1: syntax error"}

	_, err := h.launcher.Launch(context.Background())
	var sce *graphics.ShaderCompileError
	require.True(t, errors.As(err, &sce))
	assert.Equal(t, graphics.StageVertex, sce.Stage)
	assert.True(t, h.surface.destroyed)
	assert.Empty(t, h.dev.Live)
	assert.Empty(t, h.readouts)
}

func TestLaunchLinkErrorReleasesEverything(t *testing.T) {
	h := newHarness(t, goodFiles)
	h.dev.LinkError = "undefined varying"

	_, err := h.launcher.Launch(context.Background())
	var ple *graphics.ProgramLinkError
	require.True(t, errors.As(err, &ple))
	assert.Empty(t, h.dev.Live)
}

func TestKeysDriveCameraAndQuit(t *testing.T) {
	h := newHarness(t, goodFiles)
	h.surface.events = map[int]func(){
		2: func() { h.im.HandleKeyEvent(glfw.KeyPageDown, glfw.Press) },
		4: func() { h.im.HandleKeyEvent(glfw.KeyPageDown, glfw.Release) },
		6: func() { h.im.HandleKeyEvent(glfw.KeyEscape, glfw.Press) },
	}

	app, err := h.launcher.Launch(context.Background())
	require.NoError(t, err)
	require.NoError(t, app.Run(context.Background()))

	assert.Equal(t, 6, app.Frames(), "quit closes after the tick it was pressed in")
	// nearer for two 10ms ticks at 10 units/s
	assert.InDelta(t, 99.8, h.readouts[5].Distance, 1e-9)
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newHarness(t, goodFiles)
	ctx, cancel := context.WithCancel(context.Background())
	h.launcher.OnFrame = func(scene.Readout) { cancel() }

	app, err := h.launcher.Launch(ctx)
	require.NoError(t, err)
	err = app.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, app.Frames())
}

func TestOverrideConfig(t *testing.T) {
	h := newHarness(t, goodFiles)
	cfg := config.Default()
	cfg.Grid = config.Grid{N: 2, M: 1, L: 1, Spacing: 1}
	cfg.Overlay = false
	h.launcher.Override = &cfg
	h.surface.maxPolls = 1

	app, err := h.launcher.Launch(context.Background())
	require.NoError(t, err)
	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, 2, h.readouts[0].DrawCalls)
	assert.Zero(t, h.dev.Count("DrawTriangleStrip"))
}

// stepClock advances by step on every reading and by the full duration on sleep
type stepClock struct {
	t      time.Time
	step   time.Duration
	sleeps int
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func (c *stepClock) sleep(d time.Duration) {
	c.sleeps++
	c.t = c.t.Add(d)
}

func limiterWithClock(limit int) (*FPSLimiter, *stepClock) {
	c := &stepClock{t: time.Unix(0, 0), step: 10 * time.Microsecond}
	f := NewFPSLimiter(limit)
	f.now, f.sleep = c.now, c.sleep
	return f, c
}

func TestFPSLimiterDisabled(t *testing.T) {
	f, c := limiterWithClock(0)
	assert.Zero(t, f.Wait())
	assert.Zero(t, c.sleeps)
}

func TestFPSLimiterPacesTicks(t *testing.T) {
	f, c := limiterWithClock(100)
	const tolerance = float64(100 * time.Microsecond)

	assert.InDelta(t, float64(10*time.Millisecond), float64(f.Wait()), tolerance)
	assert.Equal(t, 1, c.sleeps, "one sleep, then spin")

	// 4ms of work leaves 6ms of the interval
	c.sleep(4 * time.Millisecond)
	assert.InDelta(t, float64(6*time.Millisecond), float64(f.Wait()), tolerance)
}

func TestFPSLimiterResyncsAfterHitch(t *testing.T) {
	f, c := limiterWithClock(100)
	f.Wait()

	c.sleep(50 * time.Millisecond)
	assert.Less(t, f.Wait(), 100*time.Microsecond, "late tick does not wait")
	// schedule restarts instead of racing to catch up
	assert.InDelta(t, float64(10*time.Millisecond), float64(f.Wait()), float64(100*time.Microsecond))
}

func TestFPSLimiterRealClock(t *testing.T) {
	f := NewFPSLimiter(200)
	start := time.Now()
	var waited time.Duration
	for range 4 {
		waited += f.Wait()
	}
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	assert.LessOrEqual(t, waited, time.Since(start))
}
