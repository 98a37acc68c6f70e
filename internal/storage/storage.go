package storage

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/fdch/spokenweb/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Client wraps the selected Provider with the collection bucket/prefix from
// config and a fetch-to-disk helper for the streaming decoder, which needs a
// seekable local file.
type Client struct {
	backend Provider
	local   *LocalProvider // Non-nil when the backend is the local disk
	bucket  string
	prefix  string
	tempDir string
}

func New(cfg *config.Config) *Client {
	c := &Client{
		bucket:  cfg.Storage.Bucket,
		prefix:  cfg.Storage.Prefix,
		tempDir: cfg.Server.TempDir,
	}

	if cfg.Storage.Provider == "local" {
		lp := NewLocalProvider(cfg.Storage.LocalRoot)
		c.backend = lp
		c.local = lp
		return c
	}

	s3Config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.Storage.KeyID, cfg.Storage.AppKey, ""),
		Endpoint:         aws.String(cfg.Storage.Endpoint),
		Region:           aws.String(cfg.Storage.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	sess := session.Must(session.NewSession(s3Config))
	c.backend = &S3Provider{api: s3.New(sess)}
	log.Println("✅ Connected to S3 storage")
	return c
}

// ListRecordings returns all keys under the configured bucket/prefix.
func (c *Client) ListRecordings() ([]string, error) {
	return c.backend.List(c.bucket, c.prefix)
}

// Fetch makes key available as a local file and returns its path plus a
// cleanup func. Local collections are read in place; remote objects are
// downloaded into the temp dir first.
func (c *Client) Fetch(key string) (string, func(), error) {
	if c.local != nil {
		return c.local.Path(c.bucket, key), func() {}, nil
	}

	obj, err := c.backend.Get(c.bucket, key)
	if err != nil {
		return "", nil, err
	}
	defer obj.Body.Close()

	if err := os.MkdirAll(c.tempDir, 0755); err != nil {
		return "", nil, err
	}

	path := filepath.Join(c.tempDir, "raw_"+filepath.Base(key))
	f, err := os.Create(path)
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(f, obj.Body); err != nil {
		f.Close()
		os.Remove(path)
		return "", nil, err
	}
	f.Close()

	return path, func() { os.Remove(path) }, nil
}
