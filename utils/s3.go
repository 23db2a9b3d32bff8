package utils

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var s3Client *s3.Client

// InitS3 prepares the optional photo archive. When S3_BUCKET is unset the
// archive stays disabled and uploads are skipped.
func InitS3() {
	if os.Getenv("S3_BUCKET") == "" {
		log.Println("S3_BUCKET not set, photo archive disabled")
		return
	}

	s3Region := os.Getenv("S3_REGION")
	if s3Region == "" {
		s3Region = os.Getenv("AWS_REGION") // fallback
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(s3Region))
	if err != nil {
		log.Fatalf("Unable to load AWS config for S3: %v", err)
	}

	s3Client = s3.NewFromConfig(cfg)
}

// ArchiveEnabled reports whether meal photos are being uploaded.
func ArchiveEnabled() bool { return s3Client != nil }

// UploadMealPhoto stores one analyzed photo under a unique key and returns
// its URL (CloudFront when configured, otherwise the S3 object URL).
func UploadMealPhoto(ctx context.Context, image []byte, filename, contentType string) (string, error) {
	if s3Client == nil {
		return "", fmt.Errorf("photo archive not configured")
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	bucket := os.Getenv("S3_BUCKET")
	key := fmt.Sprintf("meal-photos/%d-%s", time.Now().UnixNano(), filename)

	_, err := s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(image),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}

	if cfURL := os.Getenv("CLOUDFRONT_URL"); cfURL != "" {
		return fmt.Sprintf("%s/%s", cfURL, key), nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key), nil
}
