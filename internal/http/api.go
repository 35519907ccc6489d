package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"retroboard/internal/service"
	"retroboard/internal/session"
)

const userIDKey = "userID"

// Handler wires HTTP routes to domain services.
type Handler struct {
	accounts service.AccountService
	boards   service.BoardService
	sessions *session.Manager
	logger   *logrus.Logger
}

func NewHandler(accounts service.AccountService, boards service.BoardService, sessions *session.Manager, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		accounts: accounts,
		boards:   boards,
		sessions: sessions,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/accounts", h.register)
		api.POST("/session", h.login)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		authed := api.Group("", h.authRequired())
		{
			authed.DELETE("/session", h.logout)
			authed.GET("/boards", h.listBoards)
			authed.POST("/boards", h.saveBoard)
			authed.GET("/boards/:id", h.getBoardData)
			authed.DELETE("/boards/:id", h.deleteBoard)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		userID, err := h.sessions.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

type signUpRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

type signInRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.accounts.Register(c.Request.Context(), req.DisplayName, req.Password); err != nil {
		if errors.Is(err, service.ErrAccountExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully"})
}

func (h *Handler) login(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accounts.Authenticate(c.Request.Context(), req.DisplayName, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid display name or password"})
		return
	}

	token, err := h.sessions.Issue(c.Request.Context(), account.ID)
	if err != nil {
		h.logger.Warnf("issue session for account %d: %v", account.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "login ok", "token": token})
}

func (h *Handler) logout(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to end session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

type BoardSummaryResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func (h *Handler) listBoards(c *gin.Context) {
	summaries, err := h.boards.ListBoards(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]BoardSummaryResponse, len(summaries))
	for i := range summaries {
		resp[i] = BoardSummaryResponse{ID: summaries[i].ID, Title: summaries[i].Title}
	}
	c.JSON(http.StatusOK, resp)
}

// Wire shapes of the snapshot payload. Field names are part of the client
// contract: the board id travels as the string "titleId" and the lists ride
// under "projectData".
type savePayload struct {
	Title       string      `json:"title" binding:"required"`
	TitleID     *string     `json:"titleId"`
	ProjectData projectData `json:"projectData"`
}

type projectData struct {
	ID    *string       `json:"id"`
	Lists []listPayload `json:"lists"`
}

type listPayload struct {
	ID       string          `json:"id"`
	Category string          `json:"category"`
	Tickets  []ticketPayload `json:"tickets"`
}

type ticketPayload struct {
	ID      *int64 `json:"id,omitempty"`
	Content string `json:"content"`
}

type saveResponse struct {
	Message string `json:"message"`
	Title   string `json:"title"`
}

func (h *Handler) saveBoard(c *gin.Context) {
	var payload savePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.boards.SaveBoard(c.Request.Context(), currentUserID(c), toSnapshot(payload))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrInvalidBoardID):
			status = http.StatusBadRequest
		case errors.Is(err, service.ErrBoardNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrUnauthorized):
			status = http.StatusForbidden
		}
		c.JSON(status, saveResponse{Message: err.Error(), Title: payload.Title})
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, saveResponse{Message: result.Message, Title: result.Title})
}

type BoardDataResponse struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	ProjectData ProjectDataResponse `json:"projectData"`
}

type ProjectDataResponse struct {
	ID    string         `json:"id"`
	Lists []ListResponse `json:"lists"`
}

type ListResponse struct {
	ID       string           `json:"id"`
	Category string           `json:"category"`
	Tickets  []TicketResponse `json:"tickets"`
}

type TicketResponse struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

func (h *Handler) getBoardData(c *gin.Context) {
	boardID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || boardID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid board id"})
		return
	}

	view, err := h.boards.GetBoardView(c.Request.Context(), currentUserID(c), boardID)
	if err != nil {
		if errors.Is(err, service.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, viewToResponse(view))
}

func (h *Handler) deleteBoard(c *gin.Context) {
	boardID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || boardID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid board id"})
		return
	}

	if err := h.boards.DeleteBoard(c.Request.Context(), currentUserID(c), boardID); err != nil {
		switch {
		case errors.Is(err, service.ErrBoardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board deleted successfully"})
}

func toSnapshot(payload savePayload) service.Snapshot {
	snapshot := service.Snapshot{
		Title:   payload.Title,
		BoardID: payload.TitleID,
		Lists:   make([]service.SnapshotList, len(payload.ProjectData.Lists)),
	}
	for i, list := range payload.ProjectData.Lists {
		tickets := make([]service.SnapshotTicket, len(list.Tickets))
		for j, ticket := range list.Tickets {
			tickets[j] = service.SnapshotTicket{ID: ticket.ID, Content: ticket.Content}
		}
		snapshot.Lists[i] = service.SnapshotList{Category: list.Category, Tickets: tickets}
	}
	return snapshot
}

func viewToResponse(view *service.BoardView) BoardDataResponse {
	resp := BoardDataResponse{
		ID:    view.ID,
		Title: view.Title,
		ProjectData: ProjectDataResponse{
			ID:    strconv.FormatInt(view.ID, 10),
			Lists: make([]ListResponse, len(view.Lists)),
		},
	}
	for i, list := range view.Lists {
		tickets := make([]TicketResponse, len(list.Tickets))
		for j, ticket := range list.Tickets {
			tickets[j] = TicketResponse{ID: ticket.ID, Content: ticket.Content}
		}
		resp.ProjectData.Lists[i] = ListResponse{
			ID:       list.ID,
			Category: list.Category,
			Tickets:  tickets,
		}
	}
	return resp
}
