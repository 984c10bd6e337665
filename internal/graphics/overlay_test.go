package graphics_test

import (
	"testing"

	"gridview/internal/graphics"
	"gridview/internal/graphics/recorder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestRasterizeTextSizesToLines(t *testing.T) {
	one := graphics.RasterizeText(nil, []string{"FPS 60"})
	two := graphics.RasterizeText(nil, []string{"FPS 60", "distance 100.00 m"})

	assert.Greater(t, two.Rect.Dy(), one.Rect.Dy())
	assert.Greater(t, two.Rect.Dx(), one.Rect.Dx())

	// some glyph pixel is lit
	lit := false
	for i := 0; i < len(one.Pix); i += 4 {
		if one.Pix[i] == 0xff {
			lit = true
			break
		}
	}
	assert.True(t, lit)
}

func TestOverlayUploadsOnlyOnChange(t *testing.T) {
	dev := recorder.New()
	o, err := graphics.NewOverlay(dev)
	require.NoError(t, err)

	o.Draw("hidden")
	assert.Equal(t, 0, dev.Count("DrawTriangleStrip"), "no viewport yet")

	o.SetViewport(800, 600)
	o.Draw("a")
	o.Draw("a")
	o.Draw("b")
	assert.Equal(t, 2, dev.Count("TextureImage"))
	assert.Equal(t, 3, dev.Count("DrawTriangleStrip"))

	o.SetFace(nil)
	o.Draw("b")
	assert.Equal(t, 3, dev.Count("TextureImage"), "a new face re-rasterizes")

	o.Delete()
	assert.Empty(t, dev.Live)
}

func TestOverlayPlacesPanelInClipSpace(t *testing.T) {
	dev := recorder.New()
	o, err := graphics.NewOverlay(dev)
	require.NoError(t, err)
	o.SetViewport(800, 600)
	o.Draw("FPS 60")

	origin := dev.Vectors2[dev.UniformAt("origin")]
	size := dev.Vectors2[dev.UniformAt("size")]
	assert.InDelta(t, -1+16.0/800, origin.X(), 1e-6)
	assert.InDelta(t, 1-16.0/600, origin.Y(), 1e-6)
	assert.Greater(t, size.X(), float32(0))
	assert.Greater(t, size.Y(), float32(0))
	assert.Equal(t, 2, dev.Count("UniformVec2"))
	assert.Zero(t, dev.Count("UniformVec3"))
}

func TestLoadFace(t *testing.T) {
	face, err := graphics.LoadFace(goregular.TTF, 20)
	require.NoError(t, err)
	defer face.Close()

	small := graphics.RasterizeText(nil, []string{"distance"})
	large := graphics.RasterizeText(face, []string{"distance"})
	assert.Greater(t, large.Rect.Dy(), small.Rect.Dy())

	_, err = graphics.LoadFace([]byte("not a font"), 12)
	assert.Error(t, err)
}
