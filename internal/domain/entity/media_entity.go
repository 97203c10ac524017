package entity

import "io"

// MediaFile is an uploaded file waiting to be stored. Open may be called once
// per upload attempt.
type MediaFile struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// MediaAsset is a stored object.
type MediaAsset struct {
	Key string
	URL string
}
