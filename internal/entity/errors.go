package entity

import "errors"

// Domain errors for the knowledge graph and study material aggregates.
var (
	ErrGraphNotFound            = errors.New("knowledge graph not found")
	ErrMaterialSetNotFound      = errors.New("study material set not found")
	ErrInvalidOwnerID           = errors.New("invalid owner ID")
	ErrInvalidContent           = errors.New("content must not be empty")
	ErrInvalidConceptID         = errors.New("concept ID must not be empty")
	ErrInvalidConceptDefinition = errors.New("concept definition must not be empty")
	ErrDuplicateConceptID       = errors.New("duplicate concept ID in graph")
	ErrDanglingDependency       = errors.New("concept dependency does not resolve within graph")
	ErrNoMaterialTypesRequested = errors.New("no known material types requested")
	ErrAINotConfigured          = errors.New("AI collaborator not configured")
	ErrTranscriptNotConfigured  = errors.New("transcript fetcher not configured")
	ErrNotesNotPopulated        = errors.New("material set has no notes to revise")
)
