package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"invitation-backend/internal/domains/invitation"
	"invitation-backend/internal/domains/invitation/service"
	"invitation-backend/internal/shared/response"
)

// maxUploadBytes bounds a single uploaded image. Images travel as base64
// data URLs end-to-end, so big originals inflate every later step.
const maxUploadBytes = 10 << 20

type InvitationHandler struct {
	drafts      *service.DraftService
	invitations *service.InvitationService
}

func NewInvitationHandler(drafts *service.DraftService, invitations *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{drafts: drafts, invitations: invitations}
}

// CreateDraft starts a new authoring session.
// POST /drafts
func (h *InvitationHandler) CreateDraft(c *gin.Context) {
	id, draft := h.drafts.Create(c.Request.Context())
	response.Success(c, http.StatusCreated, gin.H{"draftId": id, "draft": draft})
}

// GetDraft returns the current state of a draft.
// GET /drafts/:id
func (h *InvitationHandler) GetDraft(c *gin.Context) {
	draft, err := h.drafts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, draft)
}

// UpdateDraft patches top-level scalar fields.
// PATCH /drafts/:id
func (h *InvitationHandler) UpdateDraft(c *gin.Context) {
	var req invitation.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	draft, err := h.drafts.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, draft)
}

// UpdateSection patches the ceremony or reception sub-record.
// PUT /drafts/:id/sections/:section  (section is ceremony or reception)
func (h *InvitationHandler) UpdateSection(c *gin.Context) {
	section := c.Param("section")
	if section != "ceremony" && section != "reception" {
		response.BadRequest(c, "Unknown section")
		return
	}

	var req invitation.VenueDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	draft, err := h.drafts.UpdateSection(c.Request.Context(), c.Param("id"), section, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, draft)
}

// AppendStoryCard adds an empty story card slot.
// POST /drafts/:id/story-cards
func (h *InvitationHandler) AppendStoryCard(c *gin.Context) {
	index, err := h.drafts.AppendStoryCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"index": index})
}

// UpdateStoryCard patches one story card.
// PUT /drafts/:id/story-cards/:index
func (h *InvitationHandler) UpdateStoryCard(c *gin.Context) {
	index, ok := h.indexParam(c)
	if !ok {
		return
	}

	var req invitation.StoryCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid story card", err)
		return
	}

	if err := h.drafts.UpdateStoryCard(c.Request.Context(), c.Param("id"), index, req); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"index": index})
}

// RemoveStoryCard deletes one story card.
// DELETE /drafts/:id/story-cards/:index
func (h *InvitationHandler) RemoveStoryCard(c *gin.Context) {
	index, ok := h.indexParam(c)
	if !ok {
		return
	}

	if err := h.drafts.RemoveStoryCard(c.Request.Context(), c.Param("id"), index); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AttachMedia installs an uploaded image into a named slot.
// POST /drafts/:id/media/:slot  (slot is couple-photo or hero-image)
func (h *InvitationHandler) AttachMedia(c *gin.Context) {
	slot := c.Param("slot")
	if slot != service.SlotCouplePhoto && slot != service.SlotHeroImage {
		response.BadRequest(c, "Unknown media slot")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing file upload")
		return
	}

	media, err := readUpload(file)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	draft, err := h.drafts.AttachMedia(c.Request.Context(), c.Param("id"), slot, media)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, draft)
}

// AppendGallery appends one or more uploaded images to the gallery, in
// submission order.
// POST /drafts/:id/gallery
func (h *InvitationHandler) AppendGallery(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "Invalid multipart form")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		response.BadRequest(c, "No files uploaded")
		return
	}

	files := make([]service.MediaFile, 0, len(headers))
	for _, header := range headers {
		media, err := readUpload(header)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		files = append(files, media)
	}

	draft, err := h.drafts.AppendGallery(c.Request.Context(), c.Param("id"), files)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, draft)
}

// RemoveGalleryImage deletes one gallery entry.
// DELETE /drafts/:id/gallery/:index
func (h *InvitationHandler) RemoveGalleryImage(c *gin.Context) {
	index, ok := h.indexParam(c)
	if !ok {
		return
	}

	if err := h.drafts.RemoveGalleryImage(c.Request.Context(), c.Param("id"), index); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Review runs the validation gate and publishes the draft for the review
// step. The response lists any missing optional sections.
// POST /drafts/:id/review
func (h *InvitationHandler) Review(c *gin.Context) {
	result, err := h.drafts.Review(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// Confirm records "continue anyway" for an incomplete draft.
// POST /drafts/:id/confirm
func (h *InvitationHandler) Confirm(c *gin.Context) {
	if err := h.drafts.ConfirmIncomplete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"confirmed": true})
}

// PreviewDocument renders the published draft in review mode.
// GET /drafts/:id/preview
func (h *InvitationHandler) PreviewDocument(c *gin.Context) {
	doc, err := h.invitations.ReviewDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, doc)
}

// Generate starts the upload/persist pipeline for a published draft.
// POST /drafts/:id/generate
func (h *InvitationHandler) Generate(c *gin.Context) {
	jobID, err := h.invitations.StartGeneration(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"jobId": jobID})
}

// GenerationStatus reports a job's stage and percent.
// GET /generation/:id
func (h *InvitationHandler) GenerationStatus(c *gin.Context) {
	status, err := h.invitations.GenerationStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, status)
}

// Template renders the fixed demo invitation.
// GET /template
func (h *InvitationHandler) Template(c *gin.Context) {
	response.Success(c, http.StatusOK, h.invitations.TemplateDocument())
}

// GetInvitation resolves a persisted invitation.
// GET /invitations/:id
func (h *InvitationHandler) GetInvitation(c *gin.Context) {
	inv, err := h.invitations.ResolvePublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, inv)
}

// PublicDocument renders a persisted invitation for guests.
// GET /invitations/:id/document
func (h *InvitationHandler) PublicDocument(c *gin.Context) {
	doc, err := h.invitations.PublicDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, doc)
}

// Share returns the share link, message text and platform URLs.
// GET /invitations/:id/share
func (h *InvitationHandler) Share(c *gin.Context) {
	info, err := h.invitations.Share(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, info)
}

// CalendarICS serves the downloadable .ics reminder file.
// GET /invitations/:id/calendar.ics
func (h *InvitationHandler) CalendarICS(c *gin.Context) {
	payload, name, err := h.invitations.CalendarFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/calendar", payload)
}

// CalendarLink returns the external calendar URL with the event prefilled.
// GET /invitations/:id/calendar-link
func (h *InvitationHandler) CalendarLink(c *gin.Context) {
	link, err := h.invitations.CalendarLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": link})
}

func (h *InvitationHandler) indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "Invalid index")
		return 0, false
	}
	return index, true
}

func readUpload(header *multipart.FileHeader) (service.MediaFile, error) {
	if header.Size > maxUploadBytes {
		return service.MediaFile{}, errors.New("file exceeds the 10 MiB upload limit")
	}

	f, err := header.Open()
	if err != nil {
		return service.MediaFile{}, errors.New("unable to read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil || len(data) > maxUploadBytes {
		return service.MediaFile{}, errors.New("unable to read uploaded file")
	}

	return service.MediaFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// respondError maps domain errors to the response envelope. Every error
// path is surfaced; nothing is logged-and-swallowed.
func (h *InvitationHandler) respondError(c *gin.Context, err error) {
	var verr *invitation.ValidationError
	var terr *invitation.InvalidEventTimeError

	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			"Please fill in all required fields", verr.Fields)
	case errors.As(err, &terr):
		response.ErrorResponse(c, http.StatusUnprocessableEntity, "INVALID_EVENT_TIME", terr.Error())
	case errors.Is(err, invitation.ErrDraftNotFound):
		response.NotFound(c, "Draft not found or expired")
	case errors.Is(err, invitation.ErrIndexOutOfRange):
		response.ErrorResponse(c, http.StatusNotFound, "INDEX_OUT_OF_RANGE", "No entry at that index")
	case errors.Is(err, invitation.ErrNotPublished):
		response.Conflict(c, "Draft must pass review before this step")
	case errors.Is(err, invitation.ErrMissingSections):
		response.ErrorResponse(c, http.StatusConflict, "MISSING_SECTIONS",
			"Some sections are empty; confirm to continue anyway")
	case errors.Is(err, invitation.ErrPayloadTooLarge):
		response.ErrorResponse(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
			"Draft is too large to publish; remove some images")
	case errors.Is(err, invitation.ErrInvalidMediaEncoding):
		response.ErrorResponse(c, http.StatusUnprocessableEntity, "INVALID_MEDIA",
			"A media payload is not a valid encoded image")
	case errors.Is(err, invitation.ErrNotFound):
		response.NotFound(c, "Invitation not found. The link may be invalid or expired.")
	case errors.Is(err, invitation.ErrUnavailable):
		response.Unavailable(c, "Unable to load invitation. Please try again later.")
	default:
		response.InternalServerError(c, "Something went wrong")
	}
}
