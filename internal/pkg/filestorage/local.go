package filestorage

import (
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// MaxUploadSize bounds any single uploaded image
const MaxUploadSize = 10 << 20

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // directory on disk
	baseURL  string // URL prefix the directory is served under
}

// NewLocalStorage creates a new LocalStorage instance. baseURL defaults to /uploads.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	if baseURL == "" {
		baseURL = "/uploads"
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// SaveImage decodes, resizes and re-encodes an uploaded image as JPEG
func (ls *LocalStorage) SaveImage(fileHeader *multipart.FileHeader, subPath string, maxW, maxH int) (string, error) {
	if fileHeader == nil {
		return "", apperrors.NewBadRequestError("file is required")
	}
	if fileHeader.Size > MaxUploadSize {
		return "", apperrors.NewBadRequestError("file is too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", apperrors.NewBadRequestError("file is not a supported image")
	}
	img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)

	subPath = filepath.Clean("/" + subPath)[1:]
	dir := filepath.Join(ls.basePath, subPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := uuid.New().String() + ".jpg"
	dst := filepath.Join(dir, name)
	if err := imaging.Save(img, dst, imaging.JPEGQuality(85)); err != nil {
		logger.Error().Err(err).Str("path", dst).Msg("Failed to write image")
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	accessible := path.Join(ls.baseURL, filepath.ToSlash(subPath), name)
	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", accessible).Msg("Image saved")
	return accessible, nil
}

// DeleteFile removes a stored file. Missing files are not an error.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	rel, ok := strings.CutPrefix(filePath, ls.baseURL+"/")
	if !ok || rel == "" {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	physical := filepath.Join(ls.basePath, filepath.Clean("/" + rel))
	if _, err := os.Stat(physical); os.IsNotExist(err) {
		logger.Warn().Str("path", physical).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physical); err != nil {
		logger.Error().Err(err).Str("path", physical).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
