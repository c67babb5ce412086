// Package repository provides gorm-backed implementations of the store
// interfaces. The database is the local cache of record; when a remote
// syncer is configured, writes are mirrored to it on a best-effort basis.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studypup/studypup/internal/entity"
	"github.com/studypup/studypup/internal/repository"
)

// orderColumns whitelists sortable graph listing keys.
var orderColumns = map[string]string{
	"created_at":  "created_at",
	"updated_at":  "updated_at",
	"title":       "title",
	"source_type": "source_type",
}

type knowledgeGraphRepository struct {
	db     *gorm.DB
	remote repository.RemoteSyncer
	log    *logrus.Logger
}

// NewKnowledgeGraphRepository builds the graph store. remote may be nil.
func NewKnowledgeGraphRepository(db *gorm.DB, remote repository.RemoteSyncer, log *logrus.Logger) repository.KnowledgeGraphRepository {
	return &knowledgeGraphRepository{db: db, remote: remote, log: log}
}

func (r *knowledgeGraphRepository) Save(ctx context.Context, graph *entity.KnowledgeGraph) error {
	row, err := graphToRow(graph)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(row).Error; err != nil {
		return err
	}
	if r.remote != nil {
		if err := r.remote.SyncGraph(ctx, graph); err != nil {
			r.log.WithError(err).WithField("graph_id", graph.ID).Warn("remote graph sync failed")
		}
	}
	return nil
}

func (r *knowledgeGraphRepository) Get(ctx context.Context, id string) (*entity.KnowledgeGraph, error) {
	var row knowledgeGraphRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrGraphNotFound
	}
	if err != nil {
		return nil, err
	}
	return graphFromRow(&row)
}

func (r *knowledgeGraphRepository) GetByContentHash(ctx context.Context, ownerID, hash string) (*entity.KnowledgeGraph, error) {
	var row knowledgeGraphRow
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND content_hash = ?", ownerID, hash).
		Order("created_at ASC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return graphFromRow(&row)
}

func (r *knowledgeGraphRepository) List(ctx context.Context, query *repository.ListGraphQuery) ([]*entity.KnowledgeGraph, error) {
	tx := r.db.WithContext(ctx).Model(&knowledgeGraphRow{})
	if query.OwnerID != "" {
		tx = tx.Where("owner_id = ?", query.OwnerID)
	}
	if query.SourceType != "" {
		tx = tx.Where("source_type = ?", query.SourceType)
	}
	if len(query.SourceTypes) > 0 {
		tx = tx.Where("source_type IN ?", query.SourceTypes)
	}
	if query.CreatedAfter != "" {
		after, err := time.Parse(time.RFC3339, query.CreatedAfter)
		if err != nil {
			return nil, err
		}
		tx = tx.Where("created_at > ?", after)
	}
	if query.TitlePrefix != "" {
		tx = tx.Where("title LIKE ?", query.TitlePrefix+"%")
	}
	tx = applyOrder(tx, query.PrimaryKey, query.PrimaryDesc)
	if query.SecondaryKey != "" {
		tx = applyOrder(tx, query.SecondaryKey, query.SecondaryDesc)
	}

	var rows []knowledgeGraphRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	graphs := make([]*entity.KnowledgeGraph, 0, len(rows))
	for i := range rows {
		g, err := graphFromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, g)
	}
	return graphs, nil
}

func (r *knowledgeGraphRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&knowledgeGraphRow{}, "id = ?", id).Error
}

// applyOrder appends an ORDER BY clause for a whitelisted key, defaulting
// to newest-first when the key is empty or unknown.
func applyOrder(tx *gorm.DB, key string, desc bool) *gorm.DB {
	column, ok := orderColumns[key]
	if !ok {
		return tx.Order("created_at DESC")
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return tx.Order(column + " " + dir)
}
