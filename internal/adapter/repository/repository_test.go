package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/studypup/studypup/internal/entity"
	"github.com/studypup/studypup/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sampleGraph(ownerID, hash, title string, createdAt time.Time) *entity.KnowledgeGraph {
	g := entity.NewKnowledgeGraph(ownerID, entity.KnowledgeGraphSource{
		Type:        entity.SourceTypeText,
		ContentHash: hash,
		Metadata:    map[string]any{"source": "test"},
	}, []entity.Concept{
		{ID: "osmosis", Definition: "Movement of water across a membrane.", Dependencies: []string{}, CommonMistakes: []string{}},
	})
	g.Title = title
	g.CreatedAt = createdAt
	g.UpdatedAt = createdAt
	return g
}

func TestGraphSaveAndGet(t *testing.T) {
	repo := NewKnowledgeGraphRepository(newTestDB(t), nil, testLogger())
	ctx := context.Background()

	g := sampleGraph("local", "hash_1", "Osmosis", time.Now().UTC())
	if err := repo.Save(ctx, g); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Get(ctx, g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.OwnerID != "local" || got.Title != "Osmosis" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if len(got.Concepts) != 1 || got.Concepts[0].ID != "osmosis" {
		t.Fatalf("concepts not preserved: %+v", got.Concepts)
	}
	if got.Source.ContentHash != "hash_1" || got.Source.Metadata["source"] != "test" {
		t.Fatalf("source not preserved: %+v", got.Source)
	}
}

func TestGraphGetNotFound(t *testing.T) {
	repo := NewKnowledgeGraphRepository(newTestDB(t), nil, testLogger())
	if _, err := repo.Get(context.Background(), "kg_missing"); !errors.Is(err, entity.ErrGraphNotFound) {
		t.Fatalf("expected ErrGraphNotFound, got %v", err)
	}
}

func TestGraphSaveUpserts(t *testing.T) {
	db := newTestDB(t)
	repo := NewKnowledgeGraphRepository(db, nil, testLogger())
	ctx := context.Background()

	g := sampleGraph("local", "hash_1", "Before", time.Now().UTC())
	if err := repo.Save(ctx, g); err != nil {
		t.Fatalf("save: %v", err)
	}
	g.Title = "After"
	if err := repo.Save(ctx, g); err != nil {
		t.Fatalf("re-save: %v", err)
	}

	got, err := repo.Get(ctx, g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "After" {
		t.Fatalf("upsert did not apply, title = %q", got.Title)
	}
	var count int64
	db.Model(&knowledgeGraphRow{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 row, got %d", count)
	}
}

func TestGraphGetByContentHash(t *testing.T) {
	repo := NewKnowledgeGraphRepository(newTestDB(t), nil, testLogger())
	ctx := context.Background()

	g := sampleGraph("alice", "hash_shared", "Alice", time.Now().UTC())
	if err := repo.Save(ctx, g); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetByContentHash(ctx, "alice", "hash_shared")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got == nil || got.ID != g.ID {
		t.Fatalf("expected hit, got %+v", got)
	}

	// miss on the wrong owner and the wrong hash, both without error
	if got, err := repo.GetByContentHash(ctx, "bob", "hash_shared"); err != nil || got != nil {
		t.Fatalf("expected nil, nil for other owner, got %v, %v", got, err)
	}
	if got, err := repo.GetByContentHash(ctx, "alice", "hash_other"); err != nil || got != nil {
		t.Fatalf("expected nil, nil for other hash, got %v, %v", got, err)
	}
}

func TestGraphListFiltersAndOrders(t *testing.T) {
	repo := NewKnowledgeGraphRepository(newTestDB(t), nil, testLogger())
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old := sampleGraph("local", "hash_a", "Biology", base)
	old.Source.Type = entity.SourceTypeLecture
	mid := sampleGraph("local", "hash_b", "Biochemistry", base.Add(time.Hour))
	recent := sampleGraph("local", "hash_c", "History", base.Add(2*time.Hour))
	other := sampleGraph("someone-else", "hash_d", "Biology", base)
	for _, g := range []*entity.KnowledgeGraph{old, mid, recent, other} {
		if err := repo.Save(ctx, g); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	all, err := repo.List(ctx, &repository.ListGraphQuery{OwnerID: "local"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 graphs, got %d", len(all))
	}
	// empty order keys default to newest first
	if all[0].ID != recent.ID {
		t.Fatalf("expected newest first, got %s", all[0].Title)
	}

	prefixed, err := repo.List(ctx, &repository.ListGraphQuery{
		OwnerID:     "local",
		TitlePrefix: "Bio",
		PrimaryKey:  "title",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(prefixed) != 2 || prefixed[0].Title != "Biochemistry" || prefixed[1].Title != "Biology" {
		t.Fatalf("unexpected prefix result: %+v", prefixed)
	}

	after, err := repo.List(ctx, &repository.ListGraphQuery{
		OwnerID:      "local",
		CreatedAfter: base.Add(30 * time.Minute).Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("expected 2 graphs created after cutoff, got %d", len(after))
	}

	byType, err := repo.List(ctx, &repository.ListGraphQuery{
		OwnerID:     "local",
		SourceTypes: []string{"lecture"},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byType) != 1 || byType[0].ID != old.ID {
		t.Fatalf("unexpected source-type result: %+v", byType)
	}
}

func TestGraphDelete(t *testing.T) {
	repo := NewKnowledgeGraphRepository(newTestDB(t), nil, testLogger())
	ctx := context.Background()

	g := sampleGraph("local", "hash_1", "Gone", time.Now().UTC())
	if err := repo.Save(ctx, g); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Delete(ctx, g.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, g.ID); !errors.Is(err, entity.ErrGraphNotFound) {
		t.Fatalf("expected ErrGraphNotFound after delete, got %v", err)
	}
}

func sampleSet(graphID, ownerID string) *entity.StudyMaterialSet {
	set := entity.NewStudyMaterialSet(graphID, ownerID, entity.GenerationMethodTemplate)
	set.Flashcards = []entity.Flashcard{{ID: "fc_1", ConceptID: "osmosis", Front: "f", Back: "b"}}
	set.Notes = "## 📌 Title\nOsmosis"
	set.Title = "Osmosis"
	set.Emoji = "💧"
	return set
}

func TestMaterialSaveAndGet(t *testing.T) {
	repo := NewStudyMaterialRepository(newTestDB(t), nil, testLogger())
	ctx := context.Background()

	set := sampleSet("kg_1", "local")
	if err := repo.Save(ctx, set); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Get(ctx, set.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.KnowledgeGraphID != "kg_1" || len(got.Flashcards) != 1 || got.Notes != set.Notes {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.GenerationMethod != entity.GenerationMethodTemplate {
		t.Fatalf("method not preserved: %q", got.GenerationMethod)
	}

	byGraph, err := repo.GetByGraphID(ctx, "kg_1")
	if err != nil {
		t.Fatalf("get by graph: %v", err)
	}
	if byGraph == nil || byGraph.ID != set.ID {
		t.Fatalf("expected hit by graph id, got %+v", byGraph)
	}
	if miss, err := repo.GetByGraphID(ctx, "kg_other"); err != nil || miss != nil {
		t.Fatalf("expected nil, nil for unknown graph, got %v, %v", miss, err)
	}
}

func TestMaterialUpdatePartial(t *testing.T) {
	repo := NewStudyMaterialRepository(newTestDB(t), nil, testLogger())
	ctx := context.Background()

	set := sampleSet("kg_1", "local")
	if err := repo.Save(ctx, set); err != nil {
		t.Fatalf("save: %v", err)
	}

	method := entity.GenerationMethodAI
	model := "gpt-test"
	updated, err := repo.Update(ctx, set.ID, &repository.MaterialSetPatch{
		QuizQuestions: []entity.QuizQuestion{{
			ID: "quiz_1", ConceptID: "osmosis", Question: "q",
			Options: []string{"a", "b", "c", "d"}, CorrectAnswerIndex: 2,
		}},
		GenerationMethod: &method,
		Model:            &model,
		Progress:         &entity.Progress{MultipleChoice: 1},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.QuizQuestions) != 1 || updated.QuizQuestions[0].CorrectAnswerIndex != 2 {
		t.Fatalf("quiz patch not applied: %+v", updated.QuizQuestions)
	}
	if len(updated.Flashcards) != 1 {
		t.Fatal("unpatched flashcards must survive")
	}
	if updated.Notes != set.Notes {
		t.Fatal("unpatched notes must survive")
	}
	if updated.GenerationMethod != entity.GenerationMethodAI || updated.Model != "gpt-test" {
		t.Fatalf("method/model not applied: %q %q", updated.GenerationMethod, updated.Model)
	}
	if updated.Progress == nil || updated.Progress.MultipleChoice != 1 {
		t.Fatalf("progress not applied: %+v", updated.Progress)
	}
	if !updated.UpdatedAt.After(set.UpdatedAt) {
		t.Fatal("updated_at should advance")
	}

	// persisted, not just returned
	stored, err := repo.Get(ctx, set.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.QuizQuestions) != 1 || len(stored.Flashcards) != 1 {
		t.Fatalf("stored state mismatch: %+v", stored)
	}
}

func TestMaterialUpdateNotFound(t *testing.T) {
	repo := NewStudyMaterialRepository(newTestDB(t), nil, testLogger())
	if _, err := repo.Update(context.Background(), "mat_missing", &repository.MaterialSetPatch{}); !errors.Is(err, entity.ErrMaterialSetNotFound) {
		t.Fatalf("expected ErrMaterialSetNotFound, got %v", err)
	}
}

func TestMaterialListByOwner(t *testing.T) {
	repo := NewStudyMaterialRepository(newTestDB(t), nil, testLogger())
	ctx := context.Background()

	mine := sampleSet("kg_1", "local")
	theirs := sampleSet("kg_2", "someone-else")
	for _, s := range []*entity.StudyMaterialSet{mine, theirs} {
		if err := repo.Save(ctx, s); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	sets, err := repo.List(ctx, "local")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sets) != 1 || sets[0].ID != mine.ID {
		t.Fatalf("unexpected list result: %+v", sets)
	}
}

func TestNewListGraphQueryBindsFilterAndOrder(t *testing.T) {
	q, err := NewListGraphQuery("local", `source_type == "lecture" && title.startsWith("Bio")`, "title asc, created_at desc")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if q.OwnerID != "local" || q.SourceType != "lecture" || q.TitlePrefix != "Bio" {
		t.Fatalf("filter bindings missing: %+v", q)
	}
	if q.PrimaryKey != "title" || q.PrimaryDesc || q.SecondaryKey != "created_at" || !q.SecondaryDesc {
		t.Fatalf("order bindings missing: %+v", q)
	}

	if _, err := NewListGraphQuery("local", `owner_id == "x"`, ""); err == nil {
		t.Fatal("unknown filter field should be rejected")
	}
}
