package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Uploader writes finished export files to a destination and returns a URI
// that can be handed back to the user.
type Uploader interface {
	Upload(ctx context.Context, userID string, data []byte) (string, error)
}

// GCSUploader stores exports in a Google Cloud Storage bucket under
// exports/<userID>/<date>-<uuid>.csv.
type GCSUploader struct {
	client *storage.Client
	bucket string
}

func NewGCSUploader(ctx context.Context, bucket string) (*GCSUploader, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewGCSUploader: create storage client: %w", err)
	}
	return &GCSUploader{client: client, bucket: bucket}, nil
}

func (u *GCSUploader) Upload(ctx context.Context, userID string, data []byte) (string, error) {
	objectName := fmt.Sprintf("exports/%s/%s-%s.csv",
		userID, time.Now().UTC().Format("2006-01-02"), uuid.NewString())

	w := u.client.Bucket(u.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "text/csv"

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		w.Close()
		return "", fmt.Errorf("Upload: write object %s: %w", objectName, err)
	}
	// Close finalizes the upload; errors here mean the object was not written.
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("Upload: finalize object %s: %w", objectName, err)
	}

	return fmt.Sprintf("gs://%s/%s", u.bucket, objectName), nil
}

func (u *GCSUploader) Close() error {
	return u.client.Close()
}
