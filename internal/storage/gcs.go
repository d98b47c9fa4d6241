package storage

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSClient struct {
	client     *gcs.Client
	projectID  string
	bucketName string
}

func NewGCSClient(ctx context.Context, projectID, bucketName, credentialsFile string) (*GCSClient, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &GCSClient{
		client:     client,
		projectID:  projectID,
		bucketName: bucketName,
	}, nil
}

func (c *GCSClient) Put(ctx context.Context, key string, obj Object) (string, error) {
	writer := c.client.Bucket(c.bucketName).Object(key).NewWriter(ctx)
	writer.ContentType = obj.ContentType

	if _, err := io.Copy(writer, obj.Body); err != nil {
		writer.Close()
		return "", err
	}
	// The object only exists once Close succeeds.
	if err := writer.Close(); err != nil {
		return "", err
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, key), nil
}
