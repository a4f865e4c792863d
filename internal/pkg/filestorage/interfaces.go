package filestorage

import (
	"mime/multipart"
)

// Standard subdirectories for uploads
const (
	DirProfilePhotos = "profile_photos"
	DirCVs           = "cvs"
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFileWithPath stores the upload under a subdirectory and returns its storage path
	SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error)

	// DeleteFile removes a file previously returned by SaveFileWithPath
	DeleteFile(filePath string) error

	// GetFullPath returns the filesystem path for a storage path
	GetFullPath(filePath string) string
}
