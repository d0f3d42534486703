// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/staranto/catpreload/internal/preload"
)

// ErrBucketNotSet is returned by New when no bucket is configured.
var ErrBucketNotSet = errors.New("s3 bucket is not set")

// API is the subset of the S3 client the store needs.
type API interface {
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3v2.DeleteObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.DeleteObjectOutput, error)
}

// Store mirrors preloaded images into an S3 bucket as
// <prefix>/<key>.json objects.
type Store struct {
	client API
	bucket string
	prefix string
}

// New returns a Store writing to bucket beneath prefix.
func New(client API, bucket, prefix string) (*Store, error) {
	if bucket == "" {
		return nil, ErrBucketNotSet
	}
	return &Store{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *Store) objectKey(key string) string {
	return path.Join(s.prefix, key+".json")
}

// Put implements preload.Mirror.
func (s *Store) Put(ctx context.Context, key string, img *preload.Image) error {
	b, err := preload.EncodeImage(img)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:      awsv2.String(s.bucket),
		Key:         awsv2.String(s.objectKey(key)),
		Body:        bytes.NewReader(b),
		ContentType: awsv2.String("application/json"),
		Metadata: map[string]string{
			"image-content-type": img.ContentType,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", s.bucket, s.objectKey(key), err)
	}
	log.Debugf("mirrored %s to s3://%s/%s", key, s.bucket, s.objectKey(key))
	return nil
}

// Get implements preload.Mirror.
func (s *Store) Get(ctx context.Context, key string) (*preload.Image, bool, error) {
	out, err := s.client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(s.objectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get s3://%s/%s: %w", s.bucket, s.objectKey(key), err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read s3://%s/%s: %w", s.bucket, s.objectKey(key), err)
	}

	img, err := preload.DecodeImage(b)
	if err != nil {
		log.WithError(err).Warnf("ignoring corrupt object s3://%s/%s", s.bucket, s.objectKey(key))
		return nil, false, nil
	}
	return img, true, nil
}

// Delete implements preload.Mirror. S3 deletes are idempotent.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3v2.DeleteObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(s.objectKey(key)),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to delete s3://%s/%s: %w", s.bucket, s.objectKey(key), err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}

var _ preload.Mirror = (*Store)(nil)
