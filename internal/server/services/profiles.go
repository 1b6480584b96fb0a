package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/telepharmacy/internal/common"
	"github.com/dmitrijs2005/telepharmacy/internal/logging"
	"github.com/dmitrijs2005/telepharmacy/internal/server/models"
	"github.com/dmitrijs2005/telepharmacy/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/telepharmacy/internal/server/storage/photos"
)

type ProfileService struct {
	repo   profiles.Repository
	photos photos.Storage
	log    logging.Logger
	now    func() time.Time
}

// NewProfileService builds the service. storage may be nil, in which case
// PreparePhotoUpload reports common.ErrPhotoStorageDisabled.
func NewProfileService(repo profiles.Repository, storage photos.Storage, log logging.Logger) *ProfileService {
	return &ProfileService{repo: repo, photos: storage, log: log, now: time.Now}
}

// Create builds a profile from src and extra and stores it, replacing any
// profile already stored under src.UID. Fields in extra win over src, and
// role and isActive default the same way registration does.
func (s *ProfileService) Create(ctx context.Context, src models.ProfileSource, extra models.Fields) (*models.Profile, error) {
	if src.UID == "" {
		return nil, fmt.Errorf("%w: uid is required", common.ErrInvalidField)
	}

	now := s.now()
	p := &models.Profile{
		ID:            src.UID,
		Email:         src.Email,
		DisplayName:   src.DisplayName,
		PhotoURL:      src.PhotoURL,
		CreatedAt:     now,
		UpdatedAt:     now,
		AccountStatus: models.DefaultAccountStatus(),
	}
	p.SetEmailVerified(src.EmailVerified, now)

	if err := extra.ApplyTo(p, now); err != nil {
		return nil, err
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, passThrough("error storing profile", err)
	}
	return p, nil
}

// Get returns nil, nil when the user has no profile yet.
func (s *ProfileService) Get(ctx context.Context, uid string) (*models.Profile, error) {
	p, err := s.repo.Get(ctx, uid)
	if err != nil {
		return nil, passThrough("error loading profile", err)
	}
	return p, nil
}

// Update merges patch into the stored profile. Keys absent from patch are
// left alone.
func (s *ProfileService) Update(ctx context.Context, uid string, patch models.Fields) (*models.Profile, error) {
	p, err := s.repo.Update(ctx, uid, func(p *models.Profile) error {
		now := s.now()
		if err := patch.ApplyTo(p, now); err != nil {
			return err
		}
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, passThrough("error updating profile", err)
	}
	return p, nil
}

func (s *ProfileService) Delete(ctx context.Context, uid string) error {
	if err := s.repo.Delete(ctx, uid); err != nil {
		return passThrough("error deleting profile", err)
	}
	return nil
}

// PreparePhotoUpload returns a presigned URL the client can PUT the photo to,
// and the URL to store as photoURL afterwards.
func (s *ProfileService) PreparePhotoUpload(ctx context.Context, uid string) (*models.PhotoUpload, error) {
	if s.photos == nil {
		return nil, common.ErrPhotoStorageDisabled
	}

	p, err := s.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, common.ErrProfileNotFound
	}

	up, err := s.photos.PresignUpload(ctx, uid)
	if err != nil {
		s.log.Error(ctx, "presign photo upload", "uid", uid, "err", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return up, nil
}
