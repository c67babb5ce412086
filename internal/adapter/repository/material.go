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

type studyMaterialRepository struct {
	db     *gorm.DB
	remote repository.RemoteSyncer
	log    *logrus.Logger
}

// NewStudyMaterialRepository builds the material set store. remote may be nil.
func NewStudyMaterialRepository(db *gorm.DB, remote repository.RemoteSyncer, log *logrus.Logger) repository.StudyMaterialRepository {
	return &studyMaterialRepository{db: db, remote: remote, log: log}
}

func (r *studyMaterialRepository) Save(ctx context.Context, set *entity.StudyMaterialSet) error {
	row, err := materialSetToRow(set)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(row).Error; err != nil {
		return err
	}
	r.syncRemote(ctx, set)
	return nil
}

func (r *studyMaterialRepository) Get(ctx context.Context, id string) (*entity.StudyMaterialSet, error) {
	var row studyMaterialRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrMaterialSetNotFound
	}
	if err != nil {
		return nil, err
	}
	return materialSetFromRow(&row)
}

func (r *studyMaterialRepository) GetByGraphID(ctx context.Context, graphID string) (*entity.StudyMaterialSet, error) {
	var row studyMaterialRow
	err := r.db.WithContext(ctx).
		Where("knowledge_graph_id = ?", graphID).
		Order("created_at ASC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return materialSetFromRow(&row)
}

func (r *studyMaterialRepository) Update(ctx context.Context, id string, patch *repository.MaterialSetPatch) (*entity.StudyMaterialSet, error) {
	var result *entity.StudyMaterialSet
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row studyMaterialRow
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entity.ErrMaterialSetNotFound
			}
			return err
		}
		set, err := materialSetFromRow(&row)
		if err != nil {
			return err
		}
		applyPatch(set, patch)
		set.UpdatedAt = time.Now().UTC()
		updated, err := materialSetToRow(set)
		if err != nil {
			return err
		}
		if err := tx.Save(updated).Error; err != nil {
			return err
		}
		result = set
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.syncRemote(ctx, result)
	return result, nil
}

func (r *studyMaterialRepository) List(ctx context.Context, ownerID string) ([]*entity.StudyMaterialSet, error) {
	tx := r.db.WithContext(ctx).Model(&studyMaterialRow{}).Order("created_at DESC")
	if ownerID != "" {
		tx = tx.Where("owner_id = ?", ownerID)
	}
	var rows []studyMaterialRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	sets := make([]*entity.StudyMaterialSet, 0, len(rows))
	for i := range rows {
		s, err := materialSetFromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, nil
}

func (r *studyMaterialRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&studyMaterialRow{}, "id = ?", id).Error
}

func (r *studyMaterialRepository) syncRemote(ctx context.Context, set *entity.StudyMaterialSet) {
	if r.remote == nil {
		return
	}
	if err := r.remote.SyncMaterialSet(ctx, set); err != nil {
		r.log.WithError(err).WithField("material_set_id", set.ID).Warn("remote material sync failed")
	}
}

// applyPatch overwrites only the fields the patch carries. Collections are
// replaced wholesale, never merged item-by-item.
func applyPatch(set *entity.StudyMaterialSet, patch *repository.MaterialSetPatch) {
	if patch.Flashcards != nil {
		set.Flashcards = patch.Flashcards
	}
	if patch.QuizQuestions != nil {
		set.QuizQuestions = patch.QuizQuestions
	}
	if patch.WrittenQuestions != nil {
		set.WrittenQuestions = patch.WrittenQuestions
	}
	if patch.FillInBlankQuestions != nil {
		set.FillInBlankQuestions = patch.FillInBlankQuestions
	}
	if patch.Notes != nil {
		set.Notes = *patch.Notes
	}
	if patch.GenerationMethod != nil {
		set.GenerationMethod = *patch.GenerationMethod
	}
	if patch.Model != nil {
		set.Model = *patch.Model
	}
	if patch.Progress != nil {
		set.Progress = patch.Progress
	}
	if patch.UserAnswers != nil {
		set.UserAnswers = patch.UserAnswers
	}
}
