package store

import (
	"strings"

	"app/internal/model"
)

// Buckets names the two storage buckets course files land in.
type Buckets struct {
	Video string
	Notes string
}

// For returns the bucket for a content type.
func (b Buckets) For(t model.ContentType) string {
	if t == model.ContentTypeVideo {
		return b.Video
	}
	return b.Notes
}

// objectPath recovers the storage path from a public file URL. Returns ""
// when the URL does not reference the bucket, in which case there is no
// object to remove.
func objectPath(fileURL, bucket string) string {
	_, after, found := strings.Cut(fileURL, bucket+"/")
	if !found {
		return ""
	}
	return after
}
