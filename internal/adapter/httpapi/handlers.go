package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	adapterrepo "github.com/studypup/studypup/internal/adapter/repository"
	"github.com/studypup/studypup/internal/entity"
	"github.com/studypup/studypup/internal/repository"
	"github.com/studypup/studypup/internal/usecase"
)

type generateRequest struct {
	OwnerID    string         `json:"owner_id" binding:"required"`
	Content    string         `json:"content" binding:"required"`
	SourceType string         `json:"source_type"`
	Metadata   map[string]any `json:"metadata"`
	Methods    []string       `json:"methods"`
	UseAI      *bool          `json:"use_ai"`
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	useAI := true
	if req.UseAI != nil {
		useAI = *req.UseAI
	}
	result, err := h.pipeline.Generate(c.Request.Context(), &usecase.GenerateInput{
		OwnerID:    req.OwnerID,
		Content:    req.Content,
		SourceType: entity.ParseSourceType(req.SourceType),
		Metadata:   req.Metadata,
		Methods:    req.Methods,
		UseAI:      useAI,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"graph":        result.Graph,
		"materials":    result.Materials,
		"graph_reused": result.GraphReused,
		"generated":    result.Generated,
	})
}

func (h *Handler) listGraphs(c *gin.Context) {
	query, err := adapterrepo.NewListGraphQuery(c.Query("owner_id"), c.Query("filter"), c.Query("order_by"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	graphs, err := h.graphs.List(c.Request.Context(), query)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"graphs": graphs})
}

func (h *Handler) getGraph(c *gin.Context) {
	graph, err := h.graphs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, graph)
}

func (h *Handler) deleteGraph(c *gin.Context) {
	if err := h.graphs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getGraphMaterials(c *gin.Context) {
	set, err := h.materials.GetByGraphID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

func (h *Handler) getMaterials(c *gin.Context) {
	set, err := h.materials.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

type materialsPatchRequest struct {
	Flashcards           []entity.Flashcard           `json:"flashcards"`
	QuizQuestions        []entity.QuizQuestion        `json:"quiz_questions"`
	WrittenQuestions     []entity.WrittenQuestion     `json:"written_questions"`
	FillInBlankQuestions []entity.FillInBlankQuestion `json:"fill_in_blank_questions"`
	Notes                *string                      `json:"notes"`
	Progress             *entity.Progress             `json:"progress"`
	UserAnswers          *entity.UserAnswers          `json:"user_answers"`
}

func (h *Handler) patchMaterials(c *gin.Context) {
	var req materialsPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	set, err := h.materials.Update(c.Request.Context(), c.Param("id"), &repository.MaterialSetPatch{
		Flashcards:           req.Flashcards,
		QuizQuestions:        req.QuizQuestions,
		WrittenQuestions:     req.WrittenQuestions,
		FillInBlankQuestions: req.FillInBlankQuestions,
		Notes:                req.Notes,
		Progress:             req.Progress,
		UserAnswers:          req.UserAnswers,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

type reviseNotesRequest struct {
	Instruction string `json:"instruction" binding:"required"`
}

func (h *Handler) reviseNotes(c *gin.Context) {
	var req reviseNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	set, err := h.materials.ReviseNotes(c.Request.Context(), c.Param("id"), req.Instruction)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

func (h *Handler) library(c *gin.Context) {
	summaries, err := h.materials.Library(c.Request.Context(), c.Query("owner_id"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sets": summaries})
}

// abortWithError maps domain errors onto HTTP statuses.
func (h *Handler) abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrGraphNotFound), errors.Is(err, entity.ErrMaterialSetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrInvalidOwnerID),
		errors.Is(err, entity.ErrInvalidContent),
		errors.Is(err, entity.ErrNoMaterialTypesRequested),
		errors.Is(err, entity.ErrNotesNotPopulated):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrAINotConfigured), errors.Is(err, entity.ErrTranscriptNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.log.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// requestLogger logs one line per request.
func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Info("request completed")
	}
}
