package storage

import (
	"context"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

// Upload directories.
const (
	DirBlogThumbnails       = "blog-thumbnails"
	DirProjectThumbnails    = "project-thumbnails"
	DirExperienceThumbnails = "experience-thumbnails"
	DirRideThumbnails       = "ride-thumbnails"
	DirRideImages           = "ride-images"
)

var Dirs = []string{DirBlogThumbnails, DirProjectThumbnails, DirExperienceThumbnails, DirRideThumbnails, DirRideImages}

// ImageTypes are the content types accepted for upload.
var ImageTypes = []string{
	"image/jpg",
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/tiff",
	"image/bmp",
	"image/x-icon",
}

type Options struct {
	Endpoint        string // empty uses the AWS endpoint for Region
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string // base of the returned URLs, e.g. a CDN
}

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Store struct {
	client    objectAPI
	bucket    string
	publicURL string
}

func NewS3Store(ctx context.Context, opts Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, errs.NewConfigMissingError("S3_BUCKET")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errs.NewConfigInvalidError("S3", err.Error())
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := opts.PublicURL
	if publicURL == "" {
		publicURL = defaultPublicURL(opts)
	}
	return &S3Store{client: client, bucket: opts.Bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func defaultPublicURL(opts Options) string {
	if opts.Endpoint != "" {
		return strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
	}
	return "https://" + opts.Bucket + ".s3." + opts.Region + ".amazonaws.com"
}

// Upload stores an image under dir/name and returns its public URL and
// storage path. An object with the same path is overwritten.
func (s *S3Store) Upload(ctx context.Context, dir, name string, body io.Reader, contentType string) (models.Thumbnail, error) {
	key, err := objectKey(dir, name)
	if err != nil {
		return models.Thumbnail{}, err
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !allowedType(mediaType) {
		return models.Thumbnail{}, errs.NewUnsupportedMediaTypeError(contentType, ImageTypes)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(mediaType),
	})
	if err != nil {
		return models.Thumbnail{}, errs.NewStorageError("upload", err)
	}

	log.Debug().Str("path", key).Msg("image uploaded")
	return models.Thumbnail{URL: s.publicURL + "/" + escapeKey(key), Path: key}, nil
}

// Delete removes the object at a path previously returned by Upload.
func (s *S3Store) Delete(ctx context.Context, objectPath string) error {
	dir, name := path.Split(objectPath)
	key, err := objectKey(strings.TrimSuffix(dir, "/"), name)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errs.NewStorageError("delete", err)
	}
	return nil
}

func objectKey(dir, name string) (string, error) {
	if !knownDir(dir) {
		return "", errs.NewInvalidFieldError("dir", "must be one of "+strings.Join(Dirs, ", "))
	}
	name = path.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == "/" || name == ".." {
		return "", errs.NewMissingRequiredFieldError("name")
	}
	return path.Join(dir, name), nil
}

// escapeKey escapes every segment of key for use in a URL path.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

func knownDir(dir string) bool {
	for _, d := range Dirs {
		if d == dir {
			return true
		}
	}
	return false
}

func allowedType(mediaType string) bool {
	for _, t := range ImageTypes {
		if strings.EqualFold(t, mediaType) {
			return true
		}
	}
	return false
}
