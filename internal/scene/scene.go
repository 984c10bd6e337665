package scene

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gridview/internal/config"
	"gridview/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// Uniform names the scene program must declare
const (
	UniformProjection            = "projection"
	UniformCamera                = "camera"
	UniformModel                 = "model"
	UniformLightAmbient          = "light.ambient"
	UniformLightDirectionalColor = "light.directional.color"
	UniformLightDirectionalDir   = "light.directional.direction"
)

// Uniforms lists every uniform resolved for the scene program
var Uniforms = []string{
	UniformProjection,
	UniformCamera,
	UniformModel,
	UniformLightAmbient,
	UniformLightDirectionalColor,
	UniformLightDirectionalDir,
}

// ErrNoRenderables is returned by New for an empty renderable list
var ErrNoRenderables = errors.New("scene needs at least one renderable")

// Light is a constant ambient + directional pair
type Light struct {
	Ambient              mgl32.Vec3
	DirectionalColor     mgl32.Vec3
	DirectionalDirection mgl32.Vec3
}

// Settings are the per-deployment constants of a scene
type Settings struct {
	ClearColor       mgl32.Vec4
	ClearDepth       float64
	Grid             Grid
	RotationVelocity float64
	FieldOfView      float32
	Near, Far        float32
	Light            Light
	// MaxStep bounds the seconds integrated in one tick; 0 disables the cap
	MaxStep float64
}

// SettingsFromConfig converts the file level configuration
func SettingsFromConfig(c config.Config) Settings {
	return Settings{
		ClearColor:       mgl32.Vec4(c.Clear.Color),
		ClearDepth:       c.Clear.Depth,
		Grid:             Grid{N: c.Grid.N, M: c.Grid.M, L: c.Grid.L, Spacing: float32(c.Grid.Spacing)},
		RotationVelocity: c.RotationVelocity,
		FieldOfView:      float32(c.Projection.FieldOfView),
		Near:             float32(c.Projection.Z.Near),
		Far:              float32(c.Projection.Z.Far),
		Light: Light{
			Ambient:              mgl32.Vec3(c.Light.Ambient),
			DirectionalColor:     mgl32.Vec3(c.Light.Directional.Color),
			DirectionalDirection: mgl32.Vec3(c.Light.Directional.Direction),
		},
		MaxStep: c.MaxStep,
	}
}

// OrbitSettingsFromConfig builds the camera limits and speeds
func OrbitSettingsFromConfig(c config.Config) graphics.OrbitSettings {
	return graphics.OrbitSettings{
		Elevation:         graphics.Range{Min: c.Elevation.Min, Max: c.Elevation.Max},
		Distance:          graphics.Range{Min: c.Distance.Min, Max: c.Distance.Max},
		AzimuthVelocity:   c.AzimuthVelocity,
		ElevationVelocity: c.ElevationVelocity,
		DistanceVelocity:  c.Distance.Velocity,
	}
}

// Readout is the human readable state published after every tick
type Readout struct {
	FPS       float64
	Azimuth   float64
	Elevation float64
	Distance  float64
	Rotation  float64
	DrawCalls int
}

// Lines renders the readout one quantity per line
func (r Readout) Lines() []string {
	return []string{
		fmt.Sprintf("FPS %.0f", r.FPS),
		"azimuth " + angle(r.Azimuth),
		"elevation " + angle(r.Elevation),
		fmt.Sprintf("distance %.2f m", r.Distance),
		fmt.Sprintf("draws %d", r.DrawCalls),
	}
}

func (r Readout) String() string {
	return fmt.Sprintf("%.0f fps | az %s | el %s | %.2f m", r.FPS, angle(r.Azimuth), angle(r.Elevation), r.Distance)
}

func angle(rad float64) string {
	return fmt.Sprintf("%.2f rad (%.1f°)", rad, rad*180/math.Pi)
}

// Scene owns everything drawn per tick. It is not safe for concurrent use;
// ticks and input handlers must run on the same goroutine.
type Scene struct {
	dev         graphics.Device
	program     *graphics.Program
	renderables []*graphics.Renderable
	camera      *graphics.OrbitCamera
	settings    Settings

	rotation float64
	previous time.Duration
	started  bool
}

// New assembles a scene. The program must have resolved Uniforms.
func New(dev graphics.Device, program *graphics.Program, renderables []*graphics.Renderable, camera *graphics.OrbitCamera, settings Settings) (*Scene, error) {
	if len(renderables) == 0 {
		return nil, ErrNoRenderables
	}
	if settings.Grid.Empty() {
		return nil, fmt.Errorf("scene grid %dx%dx%d is empty", settings.Grid.N, settings.Grid.M, settings.Grid.L)
	}
	return &Scene{
		dev:         dev,
		program:     program,
		renderables: renderables,
		camera:      camera,
		settings:    settings,
	}, nil
}

// Configure sets the fixed pipeline state once before the first tick
func (s *Scene) Configure() {
	s.dev.SetClear(s.settings.ClearColor, s.settings.ClearDepth)
	s.dev.SetDepthTest(true)
	s.dev.SetCulling(true)
}

func (s *Scene) Camera() *graphics.OrbitCamera { return s.camera }

func (s *Scene) Rotation() float64 { return s.rotation }

// HandleDirection forwards a directional key transition to the camera
func (s *Scene) HandleDirection(dir graphics.Direction, pressed bool) {
	s.camera.HandleDirection(dir, pressed)
}

// Tick advances the scene to now and draws one frame. The first tick only
// records the timestamp and draws with zero elapsed time.
func (s *Scene) Tick(now time.Duration, aspect float32) Readout {
	var dt float64
	if s.started {
		dt = (now - s.previous).Seconds()
	}
	s.previous = now
	s.started = true

	fps := 0.0
	if dt > 0 {
		fps = 1 / dt
	}

	step := math.Max(dt, 0)
	if s.settings.MaxStep > 0 && step > s.settings.MaxStep {
		step = s.settings.MaxStep
	}
	s.camera.Integrate(step)
	s.rotation = graphics.WrapAngle(s.rotation + s.settings.RotationVelocity*step)

	s.dev.Clear()
	s.program.Use()
	s.program.SetMatrix4(UniformProjection, s.camera.Projection(s.settings.FieldOfView, aspect, s.settings.Near, s.settings.Far))
	s.program.SetMatrix4(UniformCamera, s.camera.View())
	s.program.SetVec3(UniformLightAmbient, s.settings.Light.Ambient)
	s.program.SetVec3(UniformLightDirectionalColor, s.settings.Light.DirectionalColor)
	s.program.SetVec3(UniformLightDirectionalDir, s.settings.Light.DirectionalDirection)

	draws := s.drawGrid(float32(s.rotation))

	return Readout{
		FPS:       fps,
		Azimuth:   s.camera.Azimuth(),
		Elevation: s.camera.Elevation(),
		Distance:  s.camera.Distance(),
		Rotation:  s.rotation,
		DrawCalls: draws,
	}
}

func (s *Scene) drawGrid(rotation float32) int {
	g := s.settings.Grid
	draws := 0
	for i := 0; i < g.N; i++ {
		for j := 0; j < g.M; j++ {
			for k := 0; k < g.L; k++ {
				s.program.SetMatrix4(UniformModel, g.Model(i, j, k, rotation))
				s.renderables[g.Index(i, j, k, len(s.renderables))].Render()
				draws++
			}
		}
	}
	return draws
}
