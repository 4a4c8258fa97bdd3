// Package storage abstracts where uploaded media lives. Product, blog,
// slider and brand images go through a Disk so the same controllers work
// against the local filesystem in development and S3 in production.
//
//	storage.Connect()
//	storage.Put("products/collar-red.jpg", data)
//	url := storage.URL("products/collar-red.jpg")
package storage

import "io"

// Disk is a filesystem driver. Paths are slash-separated and relative to
// the disk root.
type Disk interface {
	Put(path string, content []byte) error
	PutStream(path string, r io.Reader) error
	Get(path string) ([]byte, error)
	GetStream(path string) (io.ReadCloser, error)
	Exists(path string) bool
	Delete(path string) error
	// URL returns the public address clients use to fetch the file.
	URL(path string) string
	// Files lists the files directly inside directory.
	Files(directory string) ([]string, error)
}
