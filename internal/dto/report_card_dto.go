package dto

import "time"

// SubjectAverageResponse is one row of a report card: the cumulative average
// in one subject. Average is nil when the student has no graded work there.
type SubjectAverageResponse struct {
	CourseID    uint     `json:"course_id"`
	Subject     string   `json:"subject"`
	Average     *float64 `json:"average"`
	GradedTasks int      `json:"graded_tasks"`
}

// ReportCardResponse is the per-subject grade history of one student,
// cumulative up to and including the requested trimester.
type ReportCardResponse struct {
	Carnet          string                   `json:"carnet"`
	Name            string                   `json:"name"`
	GradeLevel      string                   `json:"grade_level"`
	Section         string                   `json:"section"`
	UpToTrimesterID *uint                    `json:"up_to_trimestre_id"`
	Subjects        []SubjectAverageResponse `json:"subjects"`
	GeneralAverage  *float64                 `json:"general_average"`
}

// StudentStatusItem is one student's snapshot row.
type StudentStatusItem struct {
	Carnet         string   `json:"carnet"`
	Name           string   `json:"name"`
	GradeLevel     string   `json:"grade_level"`
	Status         string   `json:"status"`
	GeneralAverage *float64 `json:"general_average"`
}

// StudentStatusResponse is the roster-wide average/status snapshot.
type StudentStatusResponse struct {
	Items       []StudentStatusItem `json:"items"`
	GeneratedAt time.Time           `json:"generated_at"`
	CacheHit    bool                `json:"cache_hit"`
}
