package minio

import (
	"bytes"
	"context"
	"io"
	"path"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/FastTargetPred/internal/domain/fingerprint"
	"github.com/turtacn/FastTargetPred/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/FastTargetPred/pkg/errors"
)

// ErrObjectNotFound is returned for a missing blob.
var ErrObjectNotFound = errors.New(errors.CodeBlobNotFound, "object not found")

const blobContentType = "application/octet-stream"

var _ fingerprint.BlobStore = (*MinIOClient)(nil)

// ObjectKey maps a blob name to its key under the configured prefix.
func (c *MinIOClient) ObjectKey(name string) string {
	if c.config.Prefix == "" {
		return name
	}
	return path.Join(c.config.Prefix, name)
}

func isNotFound(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

// Fetch downloads the whole blob.
func (c *MinIOClient) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	key := c.ObjectKey(name)
	bucket := c.config.Bucket

	stat, err := c.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrObjectNotFound.WithDetail(bucket + "/" + key)
		}
		return nil, errors.Wrapf(err, errors.CodeBlobSourceFailed, "stat %s/%s", bucket, key)
	}

	obj, err := c.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeBlobSourceFailed, "get %s/%s", bucket, key)
	}
	defer obj.Close()

	buf := bytes.NewBuffer(make([]byte, 0, stat.Size))
	if _, err := io.Copy(buf, obj); err != nil {
		if isNotFound(err) {
			return nil, ErrObjectNotFound.WithDetail(bucket + "/" + key)
		}
		return nil, errors.Wrapf(err, errors.CodeBlobSourceFailed, "download %s/%s", bucket, key)
	}
	if int64(buf.Len()) != stat.Size {
		return nil, errors.Newf(errors.CodeBlobSourceFailed,
			"download %s/%s: got %d bytes, expected %d", bucket, key, buf.Len(), stat.Size)
	}

	c.logger.Debug("blob downloaded",
		logging.String("bucket", bucket),
		logging.String("key", key),
		logging.Int64("bytes", stat.Size))
	return buf.Bytes(), nil
}

// Put uploads data as one object.
func (c *MinIOClient) Put(ctx context.Context, name string, data []byte) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	key := c.ObjectKey(name)
	info, err := c.client.PutObject(ctx, c.config.Bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: blobContentType})
	if err != nil {
		return errors.Wrapf(err, errors.CodeBlobSourceFailed, "upload %s/%s", c.config.Bucket, key)
	}
	c.logger.Info("blob uploaded",
		logging.String("bucket", c.config.Bucket),
		logging.String("key", key),
		logging.String("etag", info.ETag),
		logging.Int("bytes", len(data)))
	return nil
}

//Personal.AI order the ending
