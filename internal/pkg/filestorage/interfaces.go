package filestorage

import (
	"mime/multipart"
)

// FileStorage stores uploaded images and hands back a public path
type FileStorage interface {
	// SaveImage decodes an uploaded image, fits it inside maxW x maxH and stores it
	// as JPEG under subPath.
	SaveImage(fileHeader *multipart.FileHeader, subPath string, maxW, maxH int) (string, error)

	// DeleteFile removes a previously stored file by the path SaveImage returned
	DeleteFile(filePath string) error
}
