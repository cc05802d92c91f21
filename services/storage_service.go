package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"artSparkAPI/internal/config"
	"artSparkAPI/internal/store"
	"artSparkAPI/internal/submission"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const uploadURLExpiry = 15 * time.Minute

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

// ObjectPresigner hands out direct-to-bucket upload URLs.
type ObjectPresigner interface {
	PresignPut(ctx context.Context, key string, expiry time.Duration) (*url.URL, error)
	PublicURL(key string) string
}

type MinioPresigner struct {
	client *minio.Client
	bucket string
	base   string
}

func NewMinioPresigner(cfg *config.StorageConfig) (*MinioPresigner, error) {
	if cfg.MinioEndpoint == "" {
		return nil, fmt.Errorf("minio endpoint is not configured")
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	scheme := "http"
	if cfg.MinioUseSSL {
		scheme = "https"
	}

	return &MinioPresigner{
		client: client,
		bucket: cfg.MinioBucket,
		base:   fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket),
	}, nil
}

func (p *MinioPresigner) PresignPut(ctx context.Context, key string, expiry time.Duration) (*url.URL, error) {
	return p.client.PresignedPutObject(ctx, p.bucket, key, expiry)
}

func (p *MinioPresigner) PublicURL(key string) string {
	return p.base + "/" + key
}

type StorageService struct {
	store     store.Store
	presigner ObjectPresigner
	now       func() time.Time
}

func NewStorageService(st store.Store, presigner ObjectPresigner) *StorageService {
	return &StorageService{
		store:     st,
		presigner: presigner,
		now:       time.Now,
	}
}

// CreateUploadURL returns a short-lived PUT URL for the caller's submission
// image and the public URL the image will have once uploaded.
func (s *StorageService) CreateUploadURL(ctx context.Context, uid string, req *submission.UploadURLRequest) (*submission.UploadURLResponse, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	if s.presigner == nil {
		return nil, fmt.Errorf("%w: object storage is not configured", ErrInternal)
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "image/png"
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidArgument, req.ContentType)
	}

	if _, err := requireChallenge(ctx, s.store, req.ChallengeID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("submissions/%s/%s-%s.%s", req.ChallengeID, uid, uuid.NewString(), ext)
	u, err := s.presigner.PresignPut(ctx, key, uploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: presign upload: %v", ErrInternal, err)
	}

	return &submission.UploadURLResponse{
		UploadURL: u.String(),
		ObjectKey: key,
		ImageURL:  s.presigner.PublicURL(key),
		ExpiresAt: s.now().UTC().Add(uploadURLExpiry),
	}, nil
}
