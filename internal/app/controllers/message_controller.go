package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/clubportal/internal/app/models"
	"github.com/yigit/clubportal/internal/app/models/dto"
	"github.com/yigit/clubportal/internal/app/services"
	"github.com/yigit/clubportal/internal/middleware"
)

// MessageController serves direct messages between clubs
type MessageController struct {
	messageService MessageUseCases
	logger         zerolog.Logger
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService MessageUseCases, logger zerolog.Logger) *MessageController {
	return &MessageController{messageService: messageService, logger: logger}
}

// Inbox lists conversations, newest first
// @Summary Inbox
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ConversationResponse}
// @Router /club/messages [get]
func (c *MessageController) Inbox(ctx *gin.Context) {
	p := middleware.CurrentPrincipal(ctx)
	summaries, err := c.messageService.ListConversations(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.ConversationResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, dto.NewConversationResponse(s.Conversation, s.Partner, p.AccountID()))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(out, ""))
}

// Recipients lists clubs the signed-in club can write to
// @Summary Message recipients
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ClubSummaryResponse}
// @Router /club/messages/recipients [get]
func (c *MessageController) Recipients(ctx *gin.Context) {
	clubs, err := c.messageService.Recipients(ctx.Request.Context(), middleware.CurrentPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewClubSummaries(clubs), ""))
}

// Unread counts unread incoming messages
// @Summary Unread message count
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=map[string]int64}
// @Router /club/messages/unread [get]
func (c *MessageController) Unread(ctx *gin.Context) {
	n, err := c.messageService.UnreadCount(ctx.Request.Context(), middleware.CurrentPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"unread": n}, ""))
}

// Thread returns the conversation with a club and marks it read
// @Summary Conversation
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Partner club slug"
// @Success 200 {object} dto.APIResponse{data=dto.ThreadResponse}
// @Failure 404 {object} dto.APIResponse "Club not found"
// @Router /club/chat/{slug} [get]
func (c *MessageController) Thread(ctx *gin.Context) {
	p := middleware.CurrentPrincipal(ctx)
	thread, err := c.messageService.Conversation(ctx.Request.Context(), p, ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ThreadResponse{
		Partner:  dto.NewClubSummaries([]models.Club{*thread.Partner})[0],
		Messages: dto.NewMessageResponses(thread.Messages, p.AccountID()),
	}, ""))
}

// Send writes a message to a club
// @Summary Send message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Recipient club slug"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 404 {object} dto.APIResponse "Club not found"
// @Router /club/chat/{slug} [post]
func (c *MessageController) Send(ctx *gin.Context) {
	var req services.MessageInput
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	p := middleware.CurrentPrincipal(ctx)
	msg, err := c.messageService.Send(ctx.Request.Context(), p, ctx.Param("slug"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewMessageResponse(msg, p.AccountID()), "Message sent"))
}

// MarkRead flags the messages from one partner as read
// @Summary Mark conversation read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param partnerId path int true "Partner account ID"
// @Success 200 {object} dto.APIResponse{data=map[string]int64}
// @Router /club/messages/{partnerId}/read [post]
func (c *MessageController) MarkRead(ctx *gin.Context) {
	partnerID, ok := idParam(ctx, "partnerId")
	if !ok {
		return
	}
	n, err := c.messageService.MarkRead(ctx.Request.Context(), middleware.CurrentPrincipal(ctx), partnerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"marked": n}, ""))
}
