package app

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"time"

	"lodgeiq/internal/auth"
	"lodgeiq/internal/domain"
)

// MaxPhotoBytes mirrors the storage tier's per-object ceiling (4.5MB).
const MaxPhotoBytes = 4_718_592

var allowedPhotoTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

type UploadService struct {
	blobs  domain.BlobStore
	repo   domain.InspectionRepository
	policy auth.Policy
	now    func() time.Time
}

func NewUploadService(b domain.BlobStore, r domain.InspectionRepository, p auth.Policy) *UploadService {
	return &UploadService{blobs: b, repo: r, policy: p, now: time.Now}
}

type PhotoParams struct {
	InspectionID    string
	ChecklistItemID string
	Filename        string
	ContentType     string
	Data            []byte
}

// UploadPhoto validates and stores one photo, returning its public URL. The
// caller appends the URL to the result's photo list; there is no transactional
// link between the two, the sweeper reclaims orphans.
func (s *UploadService) UploadPhoto(ctx context.Context, actor domain.User, p PhotoParams) (string, error) {
	if len(p.Data) == 0 {
		return "", domain.Invalidf("No file provided")
	}
	if p.InspectionID == "" || p.ChecklistItemID == "" {
		return "", domain.Invalidf("Missing inspectionId or checklistItemId")
	}
	if _, ok := allowedPhotoTypes[p.ContentType]; !ok {
		return "", domain.Invalidf("Invalid file type. Only JPEG, PNG, and WebP are supported.")
	}
	if len(p.Data) > MaxPhotoBytes {
		return "", domain.Invalidf("File too large. Maximum size is 4.5MB.")
	}

	i, err := s.repo.GetInspection(ctx, p.InspectionID)
	if err != nil {
		return "", err
	}
	if err := s.policy.Allow(actor, auth.ActionModifyInspection, auth.Resource{InspectorID: i.InspectorID}); err != nil {
		return "", err
	}

	key := fmt.Sprintf("inspections/%s/%s/%d-%s-%s",
		p.InspectionID, p.ChecklistItemID, s.now().UnixMilli(), randSuffix(), safeName(p.Filename))
	return s.blobs.Put(ctx, key, p.ContentType, p.Data)
}

// randSuffix keeps concurrent uploads of the same filename from colliding.
func randSuffix() string {
	b := make([]byte, 4)
	_, _ = crand.Read(b)
	return hex.EncodeToString(b)
}

func safeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "photo"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '-'
	}, name)
}
