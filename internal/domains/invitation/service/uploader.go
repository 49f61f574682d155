package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"invitation-backend/internal/domains/invitation"
	"invitation-backend/internal/domains/invitation/repository"

	"github.com/rs/zerolog/log"
)

// ObjectStore is the blob store media uploads land in. Implemented by
// storage.MinIOStorage.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Uploader runs the generation pipeline: strictly sequential uploads
// (couple photo, hero image, gallery in list order), then a single record
// write. Any failure aborts the remaining steps; the record is written
// only after every upload succeeded. Blobs uploaded before a failure are
// not rolled back; orphaned blobs in the object store are accepted.
type Uploader struct {
	store    ObjectStore
	repo     repository.Repository
	progress ProgressStore

	// now is swappable for tests.
	now func() time.Time
}

func NewUploader(store ObjectStore, repo repository.Repository, progress ProgressStore) *Uploader {
	return &Uploader{
		store:    store,
		repo:     repo,
		progress: progress,
		now:      time.Now,
	}
}

// Run consumes a validated, published draft and returns the generated
// invitation identifier. Progress is reported per stage under jobID; the
// context is checked before every network call so navigating away can
// cancel the remaining work.
func (u *Uploader) Run(ctx context.Context, jobID string, draft *invitation.Draft) (string, error) {
	basePath := fmt.Sprintf("invitations/%d", u.now().UnixMilli())

	report := func(stage invitation.Stage, percent int) {
		status := invitation.GenerationStatus{JobID: jobID, Stage: stage, Percent: percent}
		if err := u.progress.Set(ctx, jobID, status); err != nil {
			log.Warn().Err(err).Str("job_id", jobID).Msg("progress report failed")
		}
	}

	fail := func(stage invitation.Stage, percent int, key string, err error) (string, error) {
		uploadErr := &invitation.UploadError{Stage: stage, Key: key, Err: err}
		status := invitation.GenerationStatus{
			JobID:   jobID,
			Stage:   invitation.StageFailed,
			Percent: percent,
			Error:   uploadErr.Error(),
		}
		if perr := u.progress.Set(ctx, jobID, status); perr != nil {
			log.Warn().Err(perr).Str("job_id", jobID).Msg("progress report failed")
		}
		return "", uploadErr
	}

	// Couple photo. An empty slot persists the fixed placeholder and
	// skips the upload; a set slot must be a well-formed data URL.
	report(invitation.StageUploadingCouplePhoto, 0)
	couplePhotoURL, err := u.uploadSlot(ctx, draft.CouplePhoto, basePath+"/couple-photo.jpg", invitation.DefaultCouplePhoto)
	if err != nil {
		return fail(invitation.StageUploadingCouplePhoto, 0, basePath+"/couple-photo.jpg", err)
	}

	// Hero image
	report(invitation.StageUploadingHeroImage, invitation.PercentCouplePhotoDone)
	heroImageURL, err := u.uploadSlot(ctx, draft.HeroImage, basePath+"/hero-image.jpg", invitation.DefaultHeroImage)
	if err != nil {
		return fail(invitation.StageUploadingHeroImage, invitation.PercentCouplePhotoDone, basePath+"/hero-image.jpg", err)
	}

	// Gallery, one at a time, in list order
	report(invitation.StageUploadingGallery, invitation.PercentHeroImageDone)
	galleryURLs := make([]string, 0, len(draft.GalleryImages))
	for i, img := range draft.GalleryImages {
		key := fmt.Sprintf("%s/gallery-%d.jpg", basePath, i)
		url, err := u.uploadHolder(ctx, img, key)
		if err != nil {
			return fail(invitation.StageUploadingGallery, invitation.GalleryPercent(i, len(draft.GalleryImages)), key, err)
		}
		galleryURLs = append(galleryURLs, url)
		report(invitation.StageUploadingGallery, invitation.GalleryPercent(i+1, len(draft.GalleryImages)))
	}

	// Record write: all-or-nothing commit of the document
	report(invitation.StageWritingRecord, invitation.PercentWritingRecord)
	now := u.now()
	record := &invitation.PersistedInvitation{
		BrideName:     draft.BrideName,
		GroomName:     draft.GroomName,
		Headline:      draft.Headline,
		Date:          draft.Date,
		Time:          draft.Time,
		Venue:         draft.Venue,
		Location:      draft.Location,
		CouplePhoto:   couplePhotoURL,
		HeroImage:     heroImageURL,
		Ceremony:      draft.Ceremony,
		Reception:     draft.Reception,
		DressCode:     draft.DressCode,
		StoryCards:    draft.TitledStoryCards(),
		GalleryImages: galleryURLs,
		CreatedAt:     now,
		ExpiresAt:     now.Add(invitation.ExpiryWindow),
	}

	id, err := u.repo.Create(ctx, record)
	if err != nil {
		return fail(invitation.StageWritingRecord, invitation.PercentWritingRecord, "", err)
	}

	done := invitation.GenerationStatus{
		JobID:        jobID,
		Stage:        invitation.StageDone,
		Percent:      invitation.PercentDone,
		InvitationID: id,
	}
	if err := u.progress.Set(ctx, jobID, done); err != nil {
		log.Warn().Err(err).Str("job_id", jobID).Msg("progress report failed")
	}

	log.Info().Str("job_id", jobID).Str("invitation_id", id).Msg("invitation generated")
	return id, nil
}

// uploadSlot uploads a distinguished media slot, substituting the fixed
// placeholder when nothing was attached.
func (u *Uploader) uploadSlot(ctx context.Context, holder invitation.MediaHolder, key, placeholder string) (string, error) {
	if !holder.IsSet() {
		return placeholder, nil
	}
	return u.uploadHolder(ctx, holder, key)
}

// uploadHolder decodes one media holder and writes it to the object store.
// A payload without the data-URL marker aborts immediately.
func (u *Uploader) uploadHolder(ctx context.Context, holder invitation.MediaHolder, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, contentType, err := decodeDataURL(holder.DataURL)
	if err != nil {
		return "", err
	}
	return u.store.Upload(ctx, key, data, contentType)
}

// decodeDataURL splits a data:{type};base64,{payload} string into raw
// bytes and its content type.
func decodeDataURL(dataURL string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, "", invitation.ErrInvalidMediaEncoding
	}

	meta, payload, ok := strings.Cut(dataURL[len("data:"):], ",")
	if !ok {
		return nil, "", invitation.ErrInvalidMediaEncoding
	}

	contentType := strings.TrimSuffix(meta, ";base64")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", invitation.ErrInvalidMediaEncoding, err)
		}
		return data, contentType, nil
	}
	// Non-base64 data URLs carry percent-encoded text; stored as-is.
	return []byte(payload), contentType, nil
}
