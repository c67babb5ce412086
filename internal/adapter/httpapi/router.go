// Package httpapi exposes the pipeline and stores over a REST API.
package httpapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/studypup/studypup/internal/usecase"
)

// Handler bundles the usecases behind the REST routes.
type Handler struct {
	pipeline  usecase.PipelineUsecase
	graphs    usecase.GraphUsecase
	materials usecase.MaterialUsecase
	log       *logrus.Logger
}

func NewHandler(pipeline usecase.PipelineUsecase, graphs usecase.GraphUsecase, materials usecase.MaterialUsecase, log *logrus.Logger) *Handler {
	return &Handler{
		pipeline:  pipeline,
		graphs:    graphs,
		materials: materials,
		log:       log,
	}
}

// Router builds the gin engine with all API routes mounted.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(h.log))
	r.Use(cors.Default())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/generate", h.generate)
		v1.GET("/graphs", h.listGraphs)
		v1.GET("/graphs/:id", h.getGraph)
		v1.DELETE("/graphs/:id", h.deleteGraph)
		v1.GET("/graphs/:id/materials", h.getGraphMaterials)
		v1.GET("/materials/:id", h.getMaterials)
		v1.PATCH("/materials/:id", h.patchMaterials)
		v1.POST("/materials/:id/notes/revise", h.reviseNotes)
		v1.GET("/library", h.library)
	}
	return r
}
