package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sanmiguel-edu/colegio-api/internal/models"
	"github.com/sanmiguel-edu/colegio-api/internal/repository"
)

// TaskGrade pairs a task with the points one student earned on it. Points is
// nil while the task remains ungraded for that student.
type TaskGrade struct {
	TaskID    uint     `json:"task_id"`
	Title     string   `json:"title"`
	MaxPoints float64  `json:"max_points"`
	Points    *float64 `json:"points"`
}

// StudentSubjectResult is one student's rolled-up standing in one course.
type StudentSubjectResult struct {
	StudentID uint          `json:"student_id"`
	Carnet    string        `json:"carnet"`
	Name      string        `json:"name"`
	Tasks     []TaskGrade   `json:"tasks"`
	Totals    SubjectTotals `json:"-"`
	Average   *float64      `json:"average"`
}

// CourseResult aggregates every enrolled student's standing in one course.
type CourseResult struct {
	CourseID     uint                   `json:"course_id"`
	SubjectID    uint                   `json:"subject_id"`
	Subject      string                 `json:"subject"`
	Students     []StudentSubjectResult `json:"students"`
	ClassAverage *float64               `json:"class_average"`
}

// GradeAggregator rolls raw task-level grade entries into per-student,
// per-subject totals. Pure read path; safe to call concurrently.
type GradeAggregator interface {
	CourseResults(ctx context.Context, courseID uint, trimesterID *uint) (CourseResult, error)
	SectionResults(ctx context.Context, sectionID uint, trimesterID *uint, maxTrimesterPosition *int) ([]CourseResult, error)
}

type gradeAggregator struct {
	gradebook repository.GradebookRepository
	students  repository.StudentRepository
	logger    zerolog.Logger
}

// NewGradeAggregator constructs the aggregator.
func NewGradeAggregator(gradebook repository.GradebookRepository, students repository.StudentRepository, logger zerolog.Logger) GradeAggregator {
	return &gradeAggregator{
		gradebook: gradebook,
		students:  students,
		logger:    logger.With().Str("component", "grade_aggregator").Logger(),
	}
}

func (a *gradeAggregator) CourseResults(ctx context.Context, courseID uint, trimesterID *uint) (CourseResult, error) {
	course, err := a.gradebook.GetCourse(ctx, courseID)
	if err != nil {
		return CourseResult{}, err
	}

	results, err := a.buildCourseResults(ctx, course.SectionID, []models.Course{course}, repository.TaskFilter{
		CourseIDs:   []uint{courseID},
		TrimesterID: trimesterID,
	})
	if err != nil {
		return CourseResult{}, err
	}

	return results[0], nil
}

func (a *gradeAggregator) SectionResults(ctx context.Context, sectionID uint, trimesterID *uint, maxTrimesterPosition *int) ([]CourseResult, error) {
	courses, err := a.gradebook.ListCoursesBySection(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	if len(courses) == 0 {
		return []CourseResult{}, nil
	}

	courseIDs := make([]uint, 0, len(courses))
	for _, course := range courses {
		courseIDs = append(courseIDs, course.ID)
	}

	return a.buildCourseResults(ctx, sectionID, courses, repository.TaskFilter{
		CourseIDs:            courseIDs,
		TrimesterID:          trimesterID,
		MaxTrimesterPosition: maxTrimesterPosition,
	})
}

func (a *gradeAggregator) buildCourseResults(ctx context.Context, sectionID uint, courses []models.Course, taskFilter repository.TaskFilter) ([]CourseResult, error) {
	students, err := a.students.List(ctx, repository.StudentFilter{SectionID: &sectionID})
	if err != nil {
		return nil, err
	}

	tasks, err := a.gradebook.ListTasks(ctx, taskFilter)
	if err != nil {
		return nil, err
	}

	taskIDs := make([]uint, 0, len(tasks))
	for _, task := range tasks {
		taskIDs = append(taskIDs, task.ID)
	}

	pointsByTaskStudent := map[uint]map[uint]*float64{}
	if len(taskIDs) > 0 {
		entries, err := a.gradebook.ListEntries(ctx, repository.EntryFilter{TaskIDs: taskIDs})
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			byStudent, ok := pointsByTaskStudent[entry.TaskID]
			if !ok {
				byStudent = map[uint]*float64{}
				pointsByTaskStudent[entry.TaskID] = byStudent
			}
			byStudent[entry.StudentID] = entry.Points
		}
	}

	tasksByCourse := map[uint][]models.Task{}
	for _, task := range tasks {
		tasksByCourse[task.CourseID] = append(tasksByCourse[task.CourseID], task)
	}

	results := make([]CourseResult, 0, len(courses))
	for _, course := range courses {
		courseTasks := tasksByCourse[course.ID]

		result := CourseResult{
			CourseID:  course.ID,
			SubjectID: course.SubjectID,
			Subject:   course.Subject.Name,
			Students:  make([]StudentSubjectResult, 0, len(students)),
		}

		averages := make([]*float64, 0, len(students))
		for _, student := range students {
			studentResult := StudentSubjectResult{
				StudentID: student.ID,
				Carnet:    student.Carnet,
				Name:      student.Name,
				Tasks:     make([]TaskGrade, 0, len(courseTasks)),
			}

			for _, task := range courseTasks {
				var points *float64
				if byStudent, ok := pointsByTaskStudent[task.ID]; ok {
					points = byStudent[student.ID]
				}

				studentResult.Tasks = append(studentResult.Tasks, TaskGrade{
					TaskID:    task.ID,
					Title:     task.Title,
					MaxPoints: task.MaxPoints,
					Points:    points,
				})

				// An ungraded task is excluded from both sides of the
				// ratio rather than counted as zero.
				if points != nil {
					studentResult.Totals.Earned += *points
					studentResult.Totals.Possible += task.MaxPoints
					studentResult.Totals.GradedTasks++
				}
			}

			studentResult.Average = SubjectAverage(studentResult.Totals)
			averages = append(averages, studentResult.Average)
			result.Students = append(result.Students, studentResult)
		}

		result.ClassAverage = ClassAverage(averages)
		results = append(results, result)
	}

	return results, nil
}
