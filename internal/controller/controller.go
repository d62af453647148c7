package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/uteach/internal/auth"
	"github.com/lshigami/uteach/internal/dto"
	"github.com/lshigami/uteach/internal/service"
	"github.com/rs/zerolog/log"
)

const maxUploadBytes = 50 << 20

type Controller struct {
	materialSvc service.MaterialService
	sessionSvc  service.SessionService
	verifier    auth.Verifier // nil when authentication is disabled
}

func NewController(mSvc service.MaterialService, sSvc service.SessionService, verifier auth.Verifier) *Controller {
	return &Controller{
		materialSvc: mSvc,
		sessionSvc:  sSvc,
		verifier:    verifier,
	}
}

func (ctrl *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", ctrl.Health)

	api := router.Group("")
	if ctrl.verifier != nil {
		api.Use(auth.RequireAuth(ctrl.verifier))
	}
	{
		api.POST("/upload/pdf", ctrl.UploadPDF)
		api.POST("/upload/url", ctrl.UploadURL)
		api.POST("/materials/generate-questions", ctrl.GenerateQuestions)
		api.POST("/sessions/answer", ctrl.SubmitAnswer)
		api.GET("/history", ctrl.History)
	}
}

// Health godoc
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (ctrl *Controller) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Message: "UTeach API is running"})
}

// UploadPDF godoc
// @Summary Upload a PDF as study material
// @Description Extracts the text of every page and stores it as a new material.
// @Tags Materials
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "PDF document"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse "Missing file or unreadable PDF"
// @Failure 401 {object} dto.ErrorResponse
// @Router /upload/pdf [post]
func (ctrl *Controller) UploadPDF(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing file", Details: []string{err.Error()}})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Cannot open uploaded file", Details: []string{err.Error()}})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Cannot read uploaded file", Details: []string{err.Error()}})
		return
	}

	resp, err := ctrl.materialSvc.UploadPDF(c.Request.Context(), auth.Owner(c), fileHeader.Filename, data)
	if err != nil {
		ctrl.respondError(c, "PDF processing error", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UploadURL godoc
// @Summary Upload a web page as study material
// @Description Fetches one page, strips script/style/header/footer/nav and stores its visible text.
// @Tags Materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.UploadURLRequest true "Page URL and optional title"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid body or unreachable URL"
// @Failure 401 {object} dto.ErrorResponse
// @Router /upload/url [post]
func (ctrl *Controller) UploadURL(c *gin.Context) {
	var req dto.UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := ctrl.materialSvc.UploadURL(c.Request.Context(), auth.Owner(c), req)
	if err != nil {
		ctrl.respondError(c, "URL processing error", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GenerateQuestions godoc
// @Summary Generate student questions for a material
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.GenerateQuestionsRequest true "Material, level, persona and question count"
// @Success 200 {object} dto.GenerateQuestionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Material not found"
// @Router /materials/generate-questions [post]
func (ctrl *Controller) GenerateQuestions(c *gin.Context) {
	var req dto.GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if ctrl.verifier == nil {
		// Anonymous deployments use the generic learner prompt.
		req.Persona = ""
	} else if req.Persona == "" {
		req.Persona = service.PersonaCurious
	}

	resp, err := ctrl.sessionSvc.GenerateQuestions(c.Request.Context(), auth.Owner(c), req)
	if err != nil {
		ctrl.respondError(c, "Question generation error", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitAnswer godoc
// @Summary Evaluate the teacher's answer to a generated question
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SubmitAnswerRequest true "Session, question and answer text"
// @Success 200 {object} dto.SubmitAnswerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Session or question not found"
// @Router /sessions/answer [post]
func (ctrl *Controller) SubmitAnswer(c *gin.Context) {
	var req dto.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := ctrl.sessionSvc.SubmitAnswer(c.Request.Context(), auth.Owner(c), req)
	if err != nil {
		ctrl.respondError(c, "Answer processing error", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History godoc
// @Summary List the caller's 20 most recent sessions
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.HistoryResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /history [get]
func (ctrl *Controller) History(c *gin.Context) {
	resp, err := ctrl.sessionSvc.History(c.Request.Context(), auth.Owner(c))
	if err != nil {
		ctrl.respondError(c, "History error", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// respondError maps service errors onto status codes. Not-found and not-owned are
// indistinguishable; everything else is a 400 carrying the original message.
func (ctrl *Controller) respondError(c *gin.Context, message string, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		message = "Not found"
	case errors.Is(err, auth.ErrAuth):
		status = http.StatusUnauthorized
	}

	event := log.Warn()
	if status == http.StatusBadRequest && !isClientError(err) {
		event = log.Error()
	}
	event.Err(err).Str("path", c.FullPath()).Int("status", status).Msg(message)

	c.JSON(status, dto.ErrorResponse{Message: message, Details: []string{err.Error()}})
}

func isClientError(err error) bool {
	return errors.Is(err, service.ErrDocumentParse) ||
		errors.Is(err, service.ErrFetch) ||
		errors.Is(err, service.ErrInvalidInput)
}
