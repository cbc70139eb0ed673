package raster

import (
	"testing"

	"github.com/npillmayer/textraster/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/fixed"
)

func TestNewCanvas(t *testing.T) {
	c, err := NewCanvas(3, 2)
	require.NoError(t, err)
	assert.Len(t, c.Pix, 6)
	assert.Equal(t, 3, c.Gray().Bounds().Dx())
	_, err = NewCanvas(-1, 2)
	assert.Equal(t, core.EINTERNAL, core.Code(err))
	_, err = NewCanvas(1<<20, 1<<20)
	assert.Equal(t, core.EINTERNAL, core.Code(err))
	c, err = NewCanvas(0, 0)
	require.NoError(t, err)
	assert.Equal(t, byte(0), c.At(0, 0))
	c.Release()
	c.Release()
}

func TestMergeDoesNotBleed(t *testing.T) {
	c, _ := NewCanvas(6, 6)
	for i := range c.Pix {
		c.Pix[i] = 0x10
	}
	clipped := c.Merge([]byte{1, 1, 1, 1}, 2, 2, 2, 2)
	assert.Equal(t, 0, clipped)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			expected := byte(0x10)
			if x >= 2 && x < 4 && y >= 2 && y < 4 {
				expected = 0x11
			}
			if c.At(x, y) != expected {
				t.Errorf("pixel (%d,%d): expected %#x, is %#x", x, y, expected, c.At(x, y))
			}
		}
	}
}

func TestMergeClips(t *testing.T) {
	c, _ := NewCanvas(4, 4)
	src := []byte{9, 9, 9, 9, 9, 9, 9, 9, 9}
	assert.Equal(t, 5, c.Merge(src, 3, 3, -1, -1))
	assert.Equal(t, 4, inked(c.Pix))
	assert.Equal(t, 5, c.Merge(src, 3, 3, 2, 2))
	assert.Equal(t, 8, inked(c.Pix))
	assert.Equal(t, 9, c.Merge(src, 3, 3, 10, 0))
	assert.Equal(t, []byte{9, 9, 0, 0}, c.Row(0))
	assert.Nil(t, c.Row(4))
}

func TestMergeCommutes(t *testing.T) {
	a := []byte{0x01, 0x03, 0x80, 0x00, 0x0f, 0xf0, 0x11, 0x22, 0x40}
	b := []byte{0x02, 0x01, 0x08, 0xff, 0x00, 0x0f, 0x21, 0x12, 0x04}
	ab, _ := NewCanvas(3, 3)
	ba, _ := NewCanvas(3, 3)
	ab.Merge(a, 3, 3, 0, 0)
	ab.Merge(b, 3, 3, 0, 0)
	ba.Merge(b, 3, 3, 0, 0)
	ba.Merge(a, 3, 3, 0, 0)
	assert.Equal(t, ab.Pix, ba.Pix)
	for i := range a {
		assert.Equal(t, a[i]|b[i], ab.Pix[i])
	}
}

func TestBoundingBox(t *testing.T) {
	var box BoundingBox
	assert.True(t, box.Empty())
	assert.Equal(t, 0, box.PixelWidth())
	box.Extend(fixed.Rectangle26_6{}) // empty, ignored
	assert.True(t, box.Empty())
	box.Extend(fixed.R(-3, -2, 4, 5))
	box.Extend(fixed.R(2, -6, 9, 1))
	assert.False(t, box.Empty())
	assert.Equal(t, fixed.R(-3, -6, 9, 5), box.Rect())
	assert.Equal(t, 12, box.PixelWidth())
	assert.Equal(t, 11, box.PixelHeight())
	//
	var frac BoundingBox // {1:60 -4:07}-{139:50 18:32}
	frac.Extend(fixed.Rectangle26_6{
		Min: fixed.Point26_6{X: 1<<6 + 60, Y: -(4<<6 + 7)},
		Max: fixed.Point26_6{X: 139<<6 + 50, Y: 18<<6 + 32},
	})
	assert.Equal(t, 139, frac.PixelWidth(), "columns 1 to 139 are touched")
	assert.Equal(t, 24, frac.PixelHeight(), "rows -5 to 18 are touched")
	moved := frac.Translate(fixed.Point26_6{Y: 32})
	assert.Equal(t, 23, moved.PixelHeight())
	var empty BoundingBox
	assert.True(t, empty.Translate(fixed.P(3, 3)).Empty())
}
