// Package app assembles the application dependency graph.
package app

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/studypup/studypup/internal/adapter/httpapi"
	"github.com/studypup/studypup/internal/adapter/openai"
	adapterrepo "github.com/studypup/studypup/internal/adapter/repository"
	"github.com/studypup/studypup/internal/adapter/transcript"
	"github.com/studypup/studypup/internal/infrastructure/config"
	"github.com/studypup/studypup/internal/infrastructure/database"
	"github.com/studypup/studypup/internal/infrastructure/server"
	"github.com/studypup/studypup/internal/repository"
	"github.com/studypup/studypup/internal/usecase"
	"github.com/studypup/studypup/internal/usecase/backup"
)

// Container aggregates the application dependencies.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	DB     *gorm.DB

	Graphs    repository.KnowledgeGraphRepository
	Materials repository.StudyMaterialRepository

	Pipeline   usecase.PipelineUsecase
	GraphUC    usecase.GraphUsecase
	MaterialUC usecase.MaterialUsecase
	Conversion usecase.ConversionUsecase
	Backup     *backup.Service

	Server *server.Server
}

// Initialize builds the application container. The returned cleanup closes
// the database connection.
func Initialize() (*Container, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger, err := server.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	db, cleanup, err := database.NewConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := adapterrepo.Migrate(db); err != nil {
		cleanup()
		return nil, nil, err
	}

	// No remote syncer exists yet; the local store is the sole source of
	// truth.
	graphs := adapterrepo.NewKnowledgeGraphRepository(db, nil, logger)
	materials := adapterrepo.NewStudyMaterialRepository(db, nil, logger)

	aiClient := openai.NewClient(openai.Config{
		APIKey:             cfg.OpenAI.APIKey,
		BaseURL:            cfg.OpenAI.BaseURL,
		Model:              cfg.OpenAI.Model,
		TranscriptionModel: cfg.OpenAI.TranscriptionModel,
		Timeout:            cfg.OpenAI.Timeout,
		MaxRetries:         cfg.OpenAI.MaxRetries,
	}, logger)
	extractor := openai.NewConceptExtractor(aiClient)
	generator := openai.NewMaterialGenerator(aiClient)
	transcripts := transcript.NewFetcher(transcript.Config{
		APIKey:  cfg.Transcript.APIKey,
		BaseURL: cfg.Transcript.BaseURL,
	})

	pipeline := usecase.NewPipelineUsecase(graphs, materials, extractor, generator, logger)
	graphUC := usecase.NewGraphUsecase(graphs, materials)
	materialUC := usecase.NewMaterialUsecase(materials, generator)
	conversion := usecase.NewConversionUsecase(aiClient, aiClient, transcripts, logger)
	backupSvc := backup.NewService(graphs, materials)

	handler := httpapi.NewHandler(pipeline, graphUC, materialUC, logger)
	srv := server.NewServer(cfg, logger, handler.Router())

	return &Container{
		Config:     cfg,
		Logger:     logger,
		DB:         db,
		Graphs:     graphs,
		Materials:  materials,
		Pipeline:   pipeline,
		GraphUC:    graphUC,
		MaterialUC: materialUC,
		Conversion: conversion,
		Backup:     backupSvc,
		Server:     srv,
	}, cleanup, nil
}
