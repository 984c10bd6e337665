package graphics_test

import (
	"errors"
	"testing"

	"gridview/internal/graphics"
	"gridview/internal/graphics/recorder"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testUniforms   = []string{"projection", "camera", "model"}
	testAttributes = []string{"position", "normal", "color"}
)

func TestCompileProgramResolvesLocations(t *testing.T) {
	dev := recorder.New()
	p, err := graphics.CompileProgram(dev, "vert", "frag", testUniforms, testAttributes)
	require.NoError(t, err)

	for _, name := range testUniforms {
		assert.True(t, p.Uniform(name).Valid(), name)
	}
	for _, name := range testAttributes {
		assert.True(t, p.Attribute(name).Valid(), name)
	}
	assert.Equal(t, graphics.NoLocation, p.Uniform("never-requested"))

	// stages are released after a successful link, program is not activated
	assert.Equal(t, 0, dev.LiveKinds("shader"))
	assert.Equal(t, 1, dev.LiveKinds("program"))
	assert.Equal(t, 0, dev.Count("UseProgram"))
}

func TestCompileProgramVertexFailure(t *testing.T) {
	dev := recorder.New()
	dev.CompileErrors = map[graphics.Stage]string{graphics.StageVertex: "0:1: syntax error"}

	p, err := graphics.CompileProgram(dev, "not glsl", "frag", testUniforms, testAttributes)
	require.Error(t, err)
	assert.Nil(t, p)

	var compileErr *graphics.ShaderCompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, graphics.StageVertex, compileErr.Stage)
	assert.Equal(t, "vertex", compileErr.Stage.String())
	assert.Equal(t, "0:1: syntax error", compileErr.Log)

	// fails before any fragment work or link attempt
	assert.Equal(t, 1, dev.Count("CreateShader"))
	assert.Equal(t, 1, dev.Count("CompileShader"))
	assert.Equal(t, 0, dev.Count("CreateProgram"))
	assert.Equal(t, 0, dev.Count("LinkProgram"))
	assert.Empty(t, dev.Live)
}

func TestCompileProgramFragmentFailure(t *testing.T) {
	dev := recorder.New()
	dev.CompileErrors = map[graphics.Stage]string{graphics.StageFragment: "bad"}

	_, err := graphics.CompileProgram(dev, "vert", "frag", testUniforms, testAttributes)

	var compileErr *graphics.ShaderCompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, graphics.StageFragment, compileErr.Stage)
	assert.Contains(t, err.Error(), "fragment")
	assert.Equal(t, 0, dev.Count("LinkProgram"))
	assert.Empty(t, dev.Live, "vertex shader must be released too")
}

func TestCompileProgramLinkFailure(t *testing.T) {
	dev := recorder.New()
	dev.LinkError = "varying mismatch"

	p, err := graphics.CompileProgram(dev, "vert", "frag", testUniforms, testAttributes)
	assert.Nil(t, p)

	var linkErr *graphics.ProgramLinkError
	require.True(t, errors.As(err, &linkErr))
	assert.Equal(t, "varying mismatch", linkErr.Log)
	assert.Equal(t, 1, dev.Count("DeleteProgram"))
	assert.Empty(t, dev.Live)
	assert.Equal(t, 0, dev.Count("UniformLocation"))
}

func TestMissingUniformIsSilentNoOp(t *testing.T) {
	dev := recorder.New()
	dev.Missing = map[string]bool{"model": true}

	p, err := graphics.CompileProgram(dev, "vert", "frag", testUniforms, testAttributes)
	require.NoError(t, err)
	assert.False(t, p.Uniform("model").Valid())

	dev.Reset()
	p.Use()
	p.SetMatrix4("model", mgl32.Ident4())
	p.SetMatrix4("projection", mgl32.Ident4())
	p.SetVec3("unknown", mgl32.Vec3{1, 2, 3})
	p.SetVec2("unknown", mgl32.Vec2{1, 2})

	assert.Equal(t, 1, dev.Count("UniformMatrix4"))
	assert.Equal(t, 0, dev.Count("UniformVec3"))
	assert.Equal(t, 0, dev.Count("UniformVec2"))
}

func TestProgramDelete(t *testing.T) {
	dev := recorder.New()
	p, err := graphics.CompileProgram(dev, "vert", "frag", nil, nil)
	require.NoError(t, err)

	p.Delete()
	p.Delete()
	assert.Equal(t, 1, dev.Count("DeleteProgram"))
	assert.Empty(t, dev.Live)
}
