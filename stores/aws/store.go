package aws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"moodboard/core"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

const libraryKey = "library.json"

type s3Store struct {
	s3Client *s3.Client
	bucket   string
}

// NewStore creates a new S3-based store keeping the library as a single
// object in the bucket.
func NewStore(bucketName string) *s3Store {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	return &s3Store{
		s3Client: s3.NewFromConfig(cfg),
		bucket:   bucketName,
	}
}

func (s *s3Store) Load(ctx context.Context) (*core.Library, error) {
	logEntry := logrus.WithFields(logrus.Fields{"bucket": s.bucket, "key": libraryKey})

	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(libraryKey),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			logEntry.Info("No library object yet, starting with default library")
			return core.DefaultLibrary(), nil
		}
		logEntry.WithError(err).Error("Failed to get library object")
		return nil, fmt.Errorf("%w: get library object: %v", core.ErrStorage, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read library object: %v", core.ErrStorage, err)
	}

	var lib core.Library
	if err := json.Unmarshal(data, &lib); err != nil {
		logEntry.WithError(err).Error("Library object is malformed, substituting default")
		return core.DefaultLibrary(), nil
	}
	logEntry.WithField("boards", len(lib.Boards)).Info("Library loaded")
	return &lib, nil
}

func (s *s3Store) Save(ctx context.Context, lib *core.Library) error {
	data, err := json.Marshal(lib)
	if err != nil {
		return fmt.Errorf("%w: marshal library: %v", core.ErrStorage, err)
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(libraryKey),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("%w: put library object: %v", core.ErrStorage, err)
	}
	return nil
}
