package filestorage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveImageFitsAndStoresJPEG(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "")
	require.NoError(t, err)

	stored, err := ls.SaveImage(uploadHeader(t, "me.png", pngBytes(t, 1024, 512)), "avatars", 512, 512)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored, "/uploads/avatars/"))
	assert.True(t, strings.HasSuffix(stored, ".jpg"))

	onDisk := filepath.Join(dir, "avatars", filepath.Base(stored))
	img, err := imaging.Open(onDisk)
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())

	require.NoError(t, ls.DeleteFile(stored))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveImageRejectsNonImages(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	_, err = ls.SaveImage(uploadHeader(t, "notes.txt", []byte("hello")), "avatars", 512, 512)
	require.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestSaveImageKeepsSubPathInsideBase(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "/media")
	require.NoError(t, err)

	stored, err := ls.SaveImage(uploadHeader(t, "x.png", pngBytes(t, 10, 10)), "../../etc", 100, 100)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored, "/media/etc/"))
	_, err = os.Stat(filepath.Join(dir, "etc", filepath.Base(stored)))
	assert.NoError(t, err)
}
