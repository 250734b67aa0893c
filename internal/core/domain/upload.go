package domain

import "errors"

// MaxUploadSize is the largest CSV the portal forwards to the backend.
const MaxUploadSize = 5 * 1024 * 1024

var ErrNoFile = errors.New("no file selected")
var ErrInvalidFileType = errors.New("please select a .csv file")
var ErrFileTooLarge = errors.New("max file size is 5 MB")

// Upload describes a file picked by the operator, before it is sent.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
}
