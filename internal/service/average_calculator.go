package service

import "github.com/montanaflynn/stats"

// SubjectTotals accumulates the graded work of one student in one course.
// Tasks without a recorded score contribute to neither field.
type SubjectTotals struct {
	Earned      float64
	Possible    float64
	GradedTasks int
}

// Round2 rounds to two decimal places, the precision every stored and
// reported average uses.
func Round2(value float64) float64 {
	rounded, err := stats.Round(value, 2)
	if err != nil {
		return value
	}
	return rounded
}

// SubjectAverage converts totals into a percentage average. It returns nil
// when the student has no graded work in the subject: an undefined average is
// excluded from every aggregate, never treated as zero.
func SubjectAverage(totals SubjectTotals) *float64 {
	if totals.Possible <= 0 {
		return nil
	}

	average := Round2(totals.Earned / totals.Possible * 100)
	return &average
}

// ClassAverage is the mean of the defined per-student subject averages in a
// course. Nil when no student has a defined average.
func ClassAverage(subjectAverages []*float64) *float64 {
	return meanOfDefined(subjectAverages)
}

// GeneralAverage is the cross-subject mean used for promotion decisions.
// Subjects with no graded work are excluded, consistent with SubjectAverage.
func GeneralAverage(subjectAverages []*float64) *float64 {
	return meanOfDefined(subjectAverages)
}

func meanOfDefined(values []*float64) *float64 {
	defined := make(stats.Float64Data, 0, len(values))
	for _, value := range values {
		if value != nil {
			defined = append(defined, *value)
		}
	}

	mean, err := stats.Mean(defined)
	if err != nil {
		return nil
	}

	rounded := Round2(mean)
	return &rounded
}
