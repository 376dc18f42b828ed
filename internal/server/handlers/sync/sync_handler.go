package sync

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/drivelinehq/driveline/internal/chat"
	"github.com/drivelinehq/driveline/internal/creds"
	"github.com/drivelinehq/driveline/internal/drive"
	"github.com/drivelinehq/driveline/internal/server/handlers/api"
	syncsvc "github.com/drivelinehq/driveline/internal/sync"
)

// Handler exposes the sync pipeline over HTTP.
type Handler struct {
	manager *syncsvc.Manager
	ingest  *syncsvc.Ingestor
}

func New(manager *syncsvc.Manager, ingest *syncsvc.Ingestor) *Handler {
	return &Handler{
		manager: manager,
		ingest:  ingest,
	}
}

// StorageWebhook handles POST /webhook/storage/:ownerId, the push callback
// from the storage provider. Suppressed and dropped notifications are still
// acknowledged with 200 so the provider does not retry them.
func (h *Handler) StorageWebhook(ctx *gin.Context) {
	ownerID := ctx.Param("ownerId")

	var notification drive.Notification
	if err := ctx.ShouldBindJSON(&notification); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeSyncBadEvent, fmt.Errorf("parse notification: %w", err))
		return
	}

	ev, err := h.ingest.IngestStorageNotification(ctx.Request.Context(), ownerID, &notification)
	if err != nil {
		if errors.Is(err, syncsvc.ErrBadNotification) {
			api.AbortWithError(ctx, http.StatusBadRequest, api.CodeSyncBadEvent, err)
			return
		}
		api.AbortWithError(ctx, http.StatusInternalServerError, api.CodeInternalError, err)
		return
	}

	resp := &StorageWebhookResponse{Status: "ok", Queued: ev != nil}
	if ev != nil {
		resp.EventID = ev.ID
	}
	ctx.PureJSON(http.StatusOK, resp)
}

// ChatWebhook handles POST /webhook/chat, the bot webhook from the chat
// platform. Updates without a message or without a file intent are
// acknowledged and ignored.
func (h *Handler) ChatWebhook(ctx *gin.Context) {
	var update chat.Update
	if err := ctx.ShouldBindJSON(&update); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("parse update: %w", err))
		return
	}

	msg := chatMessage(&update)
	if msg == nil {
		ctx.PureJSON(http.StatusOK, &ChatWebhookResponse{OK: true})
		return
	}

	ev, err := h.ingest.IngestChatMessage(msg)
	if err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, err)
		return
	}

	resp := &ChatWebhookResponse{OK: true, Queued: ev != nil}
	if ev != nil {
		resp.FileID = ev.FileID
	}
	ctx.PureJSON(http.StatusOK, resp)
}

// Status handles GET /sync/status/:ownerId.
func (h *Handler) Status(ctx *gin.Context) {
	ownerID := ctx.Param("ownerId")

	status, err := h.manager.Status(ownerID)
	if err != nil {
		if errors.Is(err, syncsvc.ErrNotRegistered) {
			api.AbortWithError(ctx, http.StatusNotFound, api.CodeSyncNotRegistered, err)
			return
		}
		api.AbortWithError(ctx, http.StatusInternalServerError, api.CodeInternalError, err)
		return
	}

	lastSync := "none"
	if status.HasSynced {
		lastSync = status.LastSync.UTC().Format(time.RFC3339)
	}

	ctx.PureJSON(http.StatusOK, &StatusResponse{
		OwnerID:       status.OwnerID,
		Active:        status.Active,
		LastSync:      lastSync,
		WatchedFiles:  status.WatchedFiles,
		PendingEvents: status.PendingEvents,
	})
}

// ForceSync handles POST /sync/force/:ownerId. An optional fileId query
// parameter narrows the resync to a single file.
func (h *Handler) ForceSync(ctx *gin.Context) {
	ownerID := ctx.Param("ownerId")

	if !h.manager.Registered(ownerID) {
		api.AbortWithError(ctx, http.StatusNotFound, api.CodeSyncNotRegistered, syncsvc.ErrNotRegistered)
		return
	}

	queued, err := h.manager.ForceSync(ctx.Request.Context(), ownerID, ctx.Query("fileId"))
	if err != nil {
		api.AbortWithError(ctx, http.StatusInternalServerError, api.CodeSyncResyncFailed, err)
		return
	}

	ctx.PureJSON(http.StatusOK, &ForceSyncResponse{
		Status:  "sync requested",
		OwnerID: ownerID,
		Queued:  queued,
	})
}

// Register handles POST /sync/register/:ownerId.
func (h *Handler) Register(ctx *gin.Context) {
	ownerID := ctx.Param("ownerId")

	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		api.AbortWithError(ctx, http.StatusBadRequest, api.CodeInvalidRequest, fmt.Errorf("parse registration: %w", err))
		return
	}

	err := h.manager.RegisterUser(ctx.Request.Context(), &creds.Credentials{
		OwnerID:      ownerID,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		TokenExpiry:  req.TokenExpiry,
	})
	if err != nil {
		api.AbortWithError(ctx, http.StatusInternalServerError, api.CodeSyncRegisterFailed, err)
		return
	}

	ctx.PureJSON(http.StatusOK, &RegisterResponse{
		OwnerID: ownerID,
		Active:  true,
	})
}

// chatMessage flattens a provider update into the pipeline's message shape.
// Returns nil when the update carries nothing actionable.
func chatMessage(update *chat.Update) *syncsvc.ChatMessage {
	if update.Message == nil || update.Message.From == nil {
		return nil
	}

	msg := &syncsvc.ChatMessage{
		OwnerID: strconv.FormatInt(update.Message.From.ID, 10),
		Text:    update.Message.Text,
	}
	if update.Message.Document != nil {
		msg.DocumentName = update.Message.Document.FileName
	}
	return msg
}
