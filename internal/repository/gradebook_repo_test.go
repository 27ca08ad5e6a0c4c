package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sanmiguel-edu/colegio-api/internal/models"
)

func gradebookFixture(t *testing.T, db *gorm.DB) (models.Course, []models.Task) {
	t.Helper()

	subject := models.Subject{Name: "Matemática"}
	require.NoError(t, db.Create(&subject).Error)

	level := models.GradeLevel{Name: "Cuarto", Position: 1}
	require.NoError(t, db.Create(&level).Error)

	section := models.Section{Name: "A", GradeLevelID: level.ID}
	require.NoError(t, db.Create(&section).Error)

	course := models.Course{SubjectID: subject.ID, SectionID: section.ID}
	require.NoError(t, db.Create(&course).Error)

	trimesters := []models.Trimester{
		{Name: "I", Position: 1, CicloEscolar: "2026"},
		{Name: "II", Position: 2, CicloEscolar: "2026"},
		{Name: "III", Position: 3, CicloEscolar: "2026"},
	}
	require.NoError(t, db.Create(&trimesters).Error)

	tasks := []models.Task{
		{CourseID: course.ID, TrimesterID: trimesters[0].ID, Title: "T1", MaxPoints: 100},
		{CourseID: course.ID, TrimesterID: trimesters[1].ID, Title: "T2", MaxPoints: 100},
		{CourseID: course.ID, TrimesterID: trimesters[2].ID, Title: "T3", MaxPoints: 100},
	}
	require.NoError(t, db.Create(&tasks).Error)

	return course, tasks
}

func TestGradebookRepositoryListTasksByTrimester(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGradebookRepository(db)
	course, tasks := gradebookFixture(t, db)

	listed, err := repo.ListTasks(context.Background(), TaskFilter{
		CourseIDs:   []uint{course.ID},
		TrimesterID: &tasks[1].TrimesterID,
	})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "T2", listed[0].Title)
}

func TestGradebookRepositoryListTasksUpToPosition(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGradebookRepository(db)
	course, _ := gradebookFixture(t, db)

	maxPosition := 2
	listed, err := repo.ListTasks(context.Background(), TaskFilter{
		CourseIDs:            []uint{course.ID},
		MaxTrimesterPosition: &maxPosition,
	})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "T1", listed[0].Title)
	require.Equal(t, "T2", listed[1].Title)
}

func TestGradebookRepositoryListEntries(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGradebookRepository(db)
	_, tasks := gradebookFixture(t, db)

	student := models.Student{Carnet: "2026-0001", Name: "María García", Status: models.StudentStatusActive}
	require.NoError(t, db.Create(&student).Error)

	points := 80.0
	entries := []models.GradeEntry{
		{TaskID: tasks[0].ID, StudentID: student.ID, Points: &points},
		{TaskID: tasks[1].ID, StudentID: student.ID},
	}
	require.NoError(t, db.Create(&entries).Error)

	listed, err := repo.ListEntries(context.Background(), EntryFilter{TaskIDs: []uint{tasks[0].ID, tasks[1].ID}})
	require.NoError(t, err)
	require.Len(t, listed, 2)

	byTask := map[uint]models.GradeEntry{}
	for _, entry := range listed {
		byTask[entry.TaskID] = entry
	}
	require.NotNil(t, byTask[tasks[0].ID].Points)
	require.Equal(t, 80.0, *byTask[tasks[0].ID].Points)
	require.Nil(t, byTask[tasks[1].ID].Points, "an ungraded entry keeps a null score")
}
