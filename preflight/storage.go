package preflight

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/ruteri/medusa-provisioning/config"
)

// storageRegion is a placeholder; MinIO ignores the region but the SDK
// refuses to sign without one.
const storageRegion = "us-east-1"

// StorageProbe checks that the MinIO bucket exists and the credentials can
// access it.
type StorageProbe struct {
	opts config.MinioOptions
}

func NewStorageProbe(opts config.MinioOptions) *StorageProbe {
	return &StorageProbe{opts: opts}
}

func (p *StorageProbe) Name() string { return "storage" }

func (p *StorageProbe) Configured() bool {
	return p.opts.Endpoint != "" && p.opts.Bucket != ""
}

func (p *StorageProbe) Check(ctx context.Context) error {
	cfg := aws.Config{
		Region:           aws.String(storageRegion),
		Endpoint:         aws.String(p.opts.Endpoint),
		S3ForcePathStyle: aws.Bool(true),
		MaxRetries:       aws.Int(0),
	}
	if p.opts.AccessKeyID != "" {
		cfg.Credentials = credentials.NewStaticCredentials(p.opts.AccessKeyID, p.opts.SecretAccessKey, "")
	} else {
		cfg.Credentials = credentials.AnonymousCredentials
	}

	sess, err := session.NewSession(&cfg)
	if err != nil {
		return fmt.Errorf("failed to create storage session: %w", err)
	}

	_, err = s3.New(sess).HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(p.opts.Bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", p.opts.Bucket, err)
	}
	return nil
}
