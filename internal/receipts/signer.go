// Package receipts signs time-limited URLs against the media bucket on
// Google Cloud Storage. Receipts and profile pictures share the bucket;
// clients upload and download directly so the API never proxies bytes.
package receipts

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
)

// Signer issues V4 signed URLs for a single bucket. It assumes Application
// Default Credentials are configured.
type Signer struct {
	client *storage.Client
	bucket string
}

// NewSigner creates a signer for the given bucket.
func NewSigner(client *storage.Client, bucket string) *Signer {
	return &Signer{client: client, bucket: bucket}
}

// UploadURL returns a signed PUT URL bound to the given content type.
func (s *Signer) UploadURL(object, contentType string, expires time.Duration) (string, error) {
	url, err := s.client.Bucket(s.bucket).SignedURL(object, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		Expires:     time.Now().Add(expires),
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("signing upload url for %q: %w", object, err)
	}
	return url, nil
}

// DownloadURL returns a signed GET URL.
func (s *Signer) DownloadURL(object string, expires time.Duration) (string, error) {
	url, err := s.client.Bucket(s.bucket).SignedURL(object, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(expires),
	})
	if err != nil {
		return "", fmt.Errorf("signing download url for %q: %w", object, err)
	}
	return url, nil
}

// DeleteObject removes the object from the bucket.
func (s *Signer) DeleteObject(ctx context.Context, object string) error {
	if err := s.client.Bucket(s.bucket).Object(object).Delete(ctx); err != nil {
		return fmt.Errorf("deleting object %q: %w", object, err)
	}
	return nil
}

// ObjectName builds the per-user object key for an uploaded receipt.
func ObjectName(userID, filename string) string {
	return fmt.Sprintf("receipts/%s/%d-%s", userID, time.Now().UnixMilli(), filename)
}
