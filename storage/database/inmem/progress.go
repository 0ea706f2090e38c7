package inmemdb

import (
	"context"
	"sort"

	"github.com/tarunb-0127/minilms/core/progress"
)

type progressRepository struct {
	db *progressTable
}

func NewProgressRepository(db *DB) progress.Repository {
	return &progressRepository{db: db.progress}
}

func (repo *progressRepository) GetRecord(_ context.Context, learnerID, moduleID int) (progress.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.table[progressKey{learnerID, moduleID}]; ok {
		return *rec, nil
	}
	return progress.Record{}, progress.ErrNotFound
}

func (repo *progressRepository) MergeRecord(_ context.Context, rec progress.Record) (progress.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := progressKey{rec.LearnerID, rec.ModuleID}
	if stored, ok := repo.db.table[key]; ok {
		if stored.ProgressPercentage > rec.ProgressPercentage {
			rec.ProgressPercentage = stored.ProgressPercentage
		}
		rec.IsCompleted = rec.IsCompleted || stored.IsCompleted
	}
	repo.db.table[key] = &rec
	return rec, nil
}

func (repo *progressRepository) QueryCourseRecords(_ context.Context, learnerID, courseID int) ([]progress.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]progress.Record, 0)
	for key, rec := range repo.db.table {
		if key.learnerID == learnerID && rec.CourseID == courseID {
			records = append(records, *rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ModuleID < records[j].ModuleID })
	return records, nil
}
