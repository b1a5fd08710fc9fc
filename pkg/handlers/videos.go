package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"video-api/pkg/database"
	"video-api/pkg/models"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type videoRequest struct {
	Title   *string `json:"title" binding:"required,min=1"`
	Creator *string `json:"creator" binding:"required,min=1"`
	Likes   *int64  `json:"likes" binding:"required"`
	Views   *int64  `json:"views" binding:"required"`
}

func (r videoRequest) video(id int64) models.Video {
	return models.Video{ID: id, Title: *r.Title, Creator: *r.Creator, Likes: *r.Likes, Views: *r.Views}
}

type videoPatchRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1"`
	Creator *string `json:"creator" binding:"omitempty,min=1"`
	Likes   *int64  `json:"likes"`
	Views   *int64  `json:"views"`
}

func (r videoPatchRequest) patch() models.VideoPatch {
	return models.VideoPatch{Title: r.Title, Creator: r.Creator, Likes: r.Likes, Views: r.Views}
}

func videoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, &apiError{Status: http.StatusBadRequest, Message: "video id must be a positive integer", Field: "id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) GetVideo(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		return
	}
	video, err := h.videos.Get(c.Request.Context(), id)
	if err != nil {
		h.videoError(c, err, "video doesn't exist!")
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *Handler) CreateVideo(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		return
	}
	var req videoRequest
	if apiErr := bindJSON(c, &req); apiErr != nil {
		respondError(c, apiErr)
		return
	}
	video, err := h.videos.Create(c.Request.Context(), req.video(id))
	if err != nil {
		h.videoError(c, err, "")
		return
	}
	h.requestLog(c).Info().Int64("video_id", id).Msg("video created")
	c.JSON(http.StatusCreated, video)
}

func (h *Handler) ReplaceVideo(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		return
	}
	var req videoRequest
	if apiErr := bindJSON(c, &req); apiErr != nil {
		respondError(c, apiErr)
		return
	}
	video, err := h.videos.Replace(c.Request.Context(), req.video(id))
	if err != nil {
		h.videoError(c, err, "video doesn't exist, can't update(put)!")
		return
	}
	h.requestLog(c).Info().Int64("video_id", id).Msg("video replaced")
	c.JSON(http.StatusAccepted, video)
}

func (h *Handler) PatchVideo(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		return
	}
	var req videoPatchRequest
	if apiErr := bindJSON(c, &req); apiErr != nil {
		respondError(c, apiErr)
		return
	}
	video, err := h.videos.Patch(c.Request.Context(), id, req.patch())
	if err != nil {
		h.videoError(c, err, "video doesn't exist, can't update(patch)!")
		return
	}
	h.requestLog(c).Info().Int64("video_id", id).Msg("video patched")
	c.JSON(http.StatusAccepted, video)
}

func (h *Handler) DeleteVideo(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		return
	}
	video, err := h.videos.Delete(c.Request.Context(), id)
	if err != nil {
		h.videoError(c, err, "video doesn't exist, can't delete!")
		return
	}
	h.requestLog(c).Info().Int64("video_id", id).Msg("video deleted")

	if h.opts.Archiver != nil {
		loc, err := h.opts.Archiver.ArchiveVideo(c.Request.Context(), video)
		if err != nil {
			h.requestLog(c).Warn().Err(err).Int64("video_id", id).Msg("failed to archive deleted video")
		} else {
			h.requestLog(c).Debug().Str("location", loc).Int64("video_id", id).Msg("deleted video archived")
		}
	}
	c.JSON(http.StatusAccepted, video)
}

// ListVideos returns a page of videos ordered by id.
func (h *Handler) ListVideos(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 {
		respondError(c, &apiError{Status: http.StatusBadRequest, Message: "limit must be a positive integer", Field: "limit"})
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		respondError(c, &apiError{Status: http.StatusBadRequest, Message: "offset must be a non-negative integer", Field: "offset"})
		return
	}

	videos, err := h.videos.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.internalError(c, err, "failed to list videos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos, "limit": limit, "offset": offset})
}

func (h *Handler) videoError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(c, &apiError{Status: http.StatusNotFound, Message: notFoundMsg})
	case errors.Is(err, database.ErrConflict):
		respondError(c, &apiError{Status: http.StatusConflict, Message: "video already exists!"})
	default:
		h.internalError(c, err, "video store failed")
	}
}
