package invitation

// Stage enumerates the generation pipeline's states. The sequence is
// strictly linear; Failed is reachable from every working stage. The same
// enum drives both the step sequencing and the reported progress
// percentage, so the UI number is never ahead of the real work.
type Stage string

const (
	StageIdle                 Stage = "idle"
	StageUploadingCouplePhoto Stage = "uploading_couple_photo"
	StageUploadingHeroImage   Stage = "uploading_hero_image"
	StageUploadingGallery     Stage = "uploading_gallery"
	StageWritingRecord        Stage = "writing_record"
	StageDone                 Stage = "done"
	StageFailed               Stage = "failed"
)

// Percent boundaries per completed stage. Gallery progress is interpolated
// between PercentHeroImageDone and PercentGalleryDone by images uploaded.
const (
	PercentCouplePhotoDone = 25
	PercentHeroImageDone   = 50
	PercentGalleryDone     = 90
	PercentWritingRecord   = 95
	PercentDone            = 100
)

func (s Stage) String() string {
	return string(s)
}

// Terminal reports whether the pipeline has stopped moving.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// GalleryPercent interpolates progress while n of total gallery images
// have been uploaded.
func GalleryPercent(n, total int) int {
	if total <= 0 {
		return PercentGalleryDone
	}
	span := PercentGalleryDone - PercentHeroImageDone
	return PercentHeroImageDone + span*n/total
}
