package storage

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Objects may contain PHI so every write requests server side encryption.
const sseAlgorithm = "AES256"

// S3 is a DeterministicStore backed by an AWS S3 bucket. Object IDs are
// s3://<region>/<bucket><prefix><name> URIs so they remain resolvable when
// handed between services.
type S3 struct {
	cli    *s3.S3
	bucket string
	prefix string
}

// NewS3 returns a store writing under the given key prefix of the bucket.
func NewS3(awsSession *session.Session, bucket, prefix string) *S3 {
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3{
		cli:    s3.New(awsSession),
		bucket: bucket,
		prefix: prefix,
	}
}

// IDFromName returns the deterministic object URI for a name.
func (s *S3) IDFromName(name string) string {
	return fmt.Sprintf("s3://%s/%s%s%s", *s.cli.Config.Region, s.bucket, s.prefix, name)
}

func (s *S3) Put(name string, data []byte, contentType string, meta map[string]string) (string, error) {
	return s.PutReader(name, bytes.NewReader(data), int64(len(data)), contentType, meta)
}

func (s *S3) PutReader(name string, r io.ReadSeeker, size int64, contentType string, meta map[string]string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	var metadata map[string]*string
	if len(meta) != 0 {
		metadata = make(map[string]*string, len(meta))
		for k, v := range meta {
			metadata[k] = aws.String(v)
		}
	}
	_, err := s.cli.PutObject(&s3.PutObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(s.prefix + name),
		Body:                 r,
		ContentLength:        aws.Int64(size),
		ContentType:          aws.String(contentType),
		ServerSideEncryption: aws.String(sseAlgorithm),
		Metadata:             metadata,
	})
	if err != nil {
		return "", err
	}
	return s.IDFromName(name), nil
}

func (s *S3) Get(id string) ([]byte, http.Header, error) {
	rdr, headers, err := s.GetReader(id)
	if err != nil {
		return nil, nil, err
	}
	defer rdr.Close()
	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, nil, err
	}
	return data, headers, nil
}

func (s *S3) GetReader(id string) (io.ReadCloser, http.Header, error) {
	bucket, key, err := parseObjectURI(id)
	if err != nil {
		return nil, nil, err
	}
	obj, err := s.cli.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if rf, ok := err.(awserr.RequestFailure); ok && (rf.StatusCode() == http.StatusNotFound || rf.Code() == s3.ErrCodeNoSuchKey) {
			return nil, nil, ErrNoObject
		}
		return nil, nil, err
	}

	headers := http.Header{}
	if obj.ContentType != nil {
		headers.Set("Content-Type", *obj.ContentType)
	}
	if obj.ContentLength != nil {
		headers.Set("Content-Length", strconv.FormatInt(*obj.ContentLength, 10))
	}
	for k, v := range obj.Metadata {
		if v != nil {
			headers.Set(k, *v)
		}
	}
	return obj.Body, headers, nil
}

func (s *S3) Delete(id string) error {
	bucket, key, err := parseObjectURI(id)
	if err != nil {
		return err
	}
	_, err = s.cli.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return err
}

// ExpiringURL returns a pre-signed URL granting read access to the object
// until the expiration passes. This is what leaves the system as a file
// answer's resolved reference.
func (s *S3) ExpiringURL(id string, expiration time.Duration) (string, error) {
	bucket, key, err := parseObjectURI(id)
	if err != nil {
		return "", err
	}
	req, _ := s.cli.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return req.Presign(expiration)
}

// parseObjectURI splits an s3://<region>/<bucket>/<key> object ID. The
// region segment is carried for identification only; requests go through the
// session's configured region.
func parseObjectURI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", err
	}
	parts := strings.SplitN(u.Path, "/", 3)
	if len(parts) < 3 {
		return "", "", fmt.Errorf("storage: malformed object uri %q", uri)
	}
	return parts[1], "/" + parts[2], nil
}
