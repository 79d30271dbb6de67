package images

import (
	"bytes"
	"image"
	"image/color"
	"net/url"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy()
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    Options
		wantErr bool
	}{
		{
			name:  "empty means no transform",
			query: "",
			want:  Options{Fit: FitContain, Quality: DefaultQuality},
		},
		{
			name:  "full set",
			query: "w=400&h=300&fit=cover&q=70&fm=webp",
			want:  Options{Width: 400, Height: 300, Fit: FitCover, Quality: 70, Format: FormatWebP},
		},
		{
			name:    "zero width rejected",
			query:   "w=0",
			wantErr: true,
		},
		{
			name:    "bad fit rejected",
			query:   "fit=tile",
			wantErr: true,
		},
		{
			name:    "quality out of range rejected",
			query:   "q=101",
			wantErr: true,
		},
		{
			name:    "unknown format rejected",
			query:   "fm=gif",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			opts, err := ParseOptions(values)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts)
		})
	}
}

func TestOptionsIsZero(t *testing.T) {
	opts, err := ParseOptions(url.Values{})
	require.NoError(t, err)
	assert.True(t, opts.IsZero())

	opts, err = ParseOptions(url.Values{"w": {"100"}})
	require.NoError(t, err)
	assert.False(t, opts.IsZero())
}

func TestTransformContainKeepsAspect(t *testing.T) {
	src := testJPEG(t, 400, 200)

	out, contentType, err := Transform(src, Options{Width: 100, Height: 100, Fit: FitContain, Quality: 85})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	w, h := decodeSize(t, out)
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)
}

func TestTransformCoverFillsBox(t *testing.T) {
	src := testJPEG(t, 400, 200)

	out, _, err := Transform(src, Options{Width: 100, Height: 100, Fit: FitCover, Quality: 85})
	require.NoError(t, err)

	w, h := decodeSize(t, out)
	assert.Equal(t, 100, w)
	assert.Equal(t, 100, h)
}

func TestTransformFillStretches(t *testing.T) {
	src := testJPEG(t, 400, 200)

	out, _, err := Transform(src, Options{Width: 120, Height: 90, Fit: FitFill, Quality: 85})
	require.NoError(t, err)

	w, h := decodeSize(t, out)
	assert.Equal(t, 120, w)
	assert.Equal(t, 90, h)
}

func TestTransformWidthOnlyScalesProportionally(t *testing.T) {
	src := testJPEG(t, 400, 200)

	out, _, err := Transform(src, Options{Width: 200, Fit: FitContain, Quality: 85})
	require.NoError(t, err)

	w, h := decodeSize(t, out)
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)
}

func TestTransformWebPOutput(t *testing.T) {
	src := testJPEG(t, 64, 64)

	out, contentType, err := Transform(src, Options{Width: 32, Fit: FitContain, Quality: 80, Format: FormatWebP})
	require.NoError(t, err)
	assert.Equal(t, "image/webp", contentType)
	assert.NotEmpty(t, out)
}

func TestTransformRejectsGarbage(t *testing.T) {
	_, _, err := Transform([]byte("not an image"), Options{Width: 10, Quality: 85})
	require.Error(t, err)
}
