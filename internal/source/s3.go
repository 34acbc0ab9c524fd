package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/hadproc/cmorval/cmorval"
)

// S3Options configures an S3 candidate source. Endpoint and the static
// key pair are optional: when empty, the default AWS credential chain
// and endpoint resolution apply, which also covers S3-compatible
// stores (MinIO, JASMIN object store) via Endpoint.
type S3Options struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string

	// ScratchDir receives staged copies; a temp dir is created when
	// empty. The caller owns cleanup via RemoveScratch.
	ScratchDir string
}

// S3 lists data objects under a bucket prefix and stages each one to
// local scratch space so the netCDF reader can open it. Submissions
// parked on object storage are validated from the staged copies.
type S3 struct {
	client  *s3.Client
	opts    S3Options
	scratch string
	logger  *slog.Logger
}

// NewS3 builds an S3 source. A nil logger falls back to slog.Default().
func NewS3(ctx context.Context, opts S3Options, logger *slog.Logger) (*S3, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3 source: bucket is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts,
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3 source: load config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3{client: client, opts: opts, logger: logger}, nil
}

// List pages through the prefix, stages every data object and returns
// the staged candidates in key order.
func (s *S3) List(ctx context.Context) (Iterator, error) {
	if s.scratch == "" {
		dir := s.opts.ScratchDir
		if dir == "" {
			tmp, err := os.MkdirTemp("", "cmorval-stage-*")
			if err != nil {
				return nil, fmt.Errorf("s3 source: scratch dir: %w", err)
			}
			dir = tmp
		}
		s.scratch = dir
	}

	var candidates []cmorval.Candidate
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.opts.Bucket),
		Prefix: aws.String(s.opts.Prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 source: list s3://%s/%s: %w", s.opts.Bucket, s.opts.Prefix, classify(err))
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, DataSuffix) {
				continue
			}
			staged, err := s.stage(ctx, key)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, cmorval.Candidate{
				Basename: path.Base(key),
				Path:     staged,
			})
		}
	}

	s.logger.Info("staged candidates from object store",
		"bucket", s.opts.Bucket, "prefix", s.opts.Prefix, "count", len(candidates))
	return NewSliceIterator(candidates), nil
}

// stage downloads one object into the scratch dir, preserving the key
// path so basename collisions across directories cannot clobber.
func (s *S3) stage(ctx context.Context, key string) (string, error) {
	dest := filepath.Join(s.scratch, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("s3 source: stage %s: %w", key, err)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("s3 source: get s3://%s/%s: %w", s.opts.Bucket, key, classify(err))
	}
	defer func() { _ = out.Body.Close() }()

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("s3 source: stage %s: %w", key, err)
	}
	if _, err := io.Copy(f, out.Body); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("s3 source: stage %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("s3 source: stage %s: %w", key, err)
	}
	return dest, nil
}

// RemoveScratch deletes the staged copies. Only removes directories the
// source created itself.
func (s *S3) RemoveScratch() error {
	if s.scratch == "" || s.opts.ScratchDir != "" {
		return nil
	}
	return os.RemoveAll(s.scratch)
}

// classify surfaces the service error code when the failure came from
// the S3 API, which distinguishes a missing bucket from, say, a
// credentials problem.
func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %w", apiErr.ErrorCode(), err)
	}
	return err
}
