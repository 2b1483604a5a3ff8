package services

import (
	"context"

	"lumina-chat/internal/domain"
)

// CredentialIssuer computes a short-lived signed parameter set that a
// client uses to upload media directly to the CDN. Implementations are
// stateless; nothing is persisted on this path.
type CredentialIssuer interface {
	Issue(ctx context.Context) (domain.UploadCredentials, error)
}

type UploadService struct {
	issuer CredentialIssuer
}

func NewUploadService(issuer CredentialIssuer) *UploadService {
	return &UploadService{issuer: issuer}
}

func (s *UploadService) IssueCredentials(ctx context.Context) (domain.UploadCredentials, error) {
	return s.issuer.Issue(ctx)
}
