package s3

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appconfig "github.com/Yoshiken-lab/Photocon-sub001/internal/config"
)

// Client talks to an S3-compatible object storage (MinIO in development).
type Client struct {
	s3Client      *s3.Client
	uploader      *manager.Uploader
	bucketName    string
	publicBaseURL string
	logger        *slog.Logger
}

// NewClient builds the S3 client from configuration and makes sure the
// bucket exists.
func NewClient(cfg *appconfig.Config, logger *slog.Logger) (*Client, error) {
	scheme := "http"
	if cfg.S3UseSSL {
		scheme = "https"
	}
	endpointURL := fmt.Sprintf("%s://%s", scheme, cfg.S3Endpoint)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, "")),
		awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:    endpointURL,
					Source: aws.EndpointSourceCustom,
				}, nil
			})),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// MinIO requires path-style addressing
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(s3Client)

	if err := ensureBucket(s3Client, cfg.S3BucketName, cfg.S3Region, logger); err != nil {
		return nil, err
	}

	return &Client{
		s3Client:      s3Client,
		uploader:      uploader,
		bucketName:    cfg.S3BucketName,
		publicBaseURL: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// ensureBucket creates the bucket when it does not exist yet and waits until
// it is visible.
func ensureBucket(client *s3.Client, bucket, region string, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err == nil {
		logger.Info("bucket already exists", "bucket", bucket)
		return nil
	}

	logger.Info("bucket not found, creating", "bucket", bucket)

	_, err = client.CreateBucket(context.TODO(), &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
		CreateBucketConfiguration: &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		},
	})
	if err != nil {
		return fmt.Errorf("creating bucket %q: %w", bucket, err)
	}

	waiter := s3.NewBucketExistsWaiter(client)
	if err := waiter.Wait(context.TODO(), &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	}, 30*time.Second); err != nil {
		return fmt.Errorf("waiting for bucket %q: %w", bucket, err)
	}

	logger.Info("bucket created", "bucket", bucket)
	return nil
}

// UploadFile stores the object and returns its public URL.
func (c *Client) UploadFile(ctx context.Context, objectKey string, fileContent io.Reader, contentType string) (string, error) {
	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(objectKey),
		Body:        fileContent,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading object %s to bucket %s: %w", objectKey, c.bucketName, err)
	}

	c.logger.Info("object uploaded", "key", objectKey, "bucket", c.bucketName)
	return fmt.Sprintf("%s/%s/%s", c.publicBaseURL, c.bucketName, objectKey), nil
}

// GetFile returns the object content.
func (c *Client) GetFile(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	output, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, fmt.Errorf("getting object %s from bucket %s: %w", objectKey, c.bucketName, err)
	}
	return output.Body, nil
}

// DeleteFile removes the object. Used to clean up a stored blob when the
// subsequent entry insert fails.
func (c *Client) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("deleting object %s from bucket %s: %w", objectKey, c.bucketName, err)
	}
	return nil
}
