package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubjectAverageFullyGraded(t *testing.T) {
	average := SubjectAverage(SubjectTotals{Earned: 85, Possible: 100, GradedTasks: 2})
	require.NotNil(t, average)
	require.Equal(t, 85.0, *average)
}

func TestSubjectAverageIgnoresUngradedWork(t *testing.T) {
	// Two tasks of 50 points each, only one graded: the ungraded task must
	// not drag the ratio down to 30/100.
	average := SubjectAverage(SubjectTotals{Earned: 30, Possible: 50, GradedTasks: 1})
	require.NotNil(t, average)
	require.Equal(t, 60.0, *average)
}

func TestSubjectAverageUndefinedWithoutGrades(t *testing.T) {
	require.Nil(t, SubjectAverage(SubjectTotals{}))
}

func TestRound2(t *testing.T) {
	require.Equal(t, 66.67, Round2(200.0/3.0))
	require.Equal(t, 83.33, Round2(250.0/3.0))
	require.Equal(t, 85.0, Round2(85.0))
}

func TestGeneralAverageSkipsUndefinedSubjects(t *testing.T) {
	ninety, eighty := 90.0, 80.0
	average := GeneralAverage([]*float64{&ninety, nil, &eighty})
	require.NotNil(t, average)
	require.Equal(t, 85.0, *average)
}

func TestGeneralAverageUndefinedWhenNoSubjectGraded(t *testing.T) {
	require.Nil(t, GeneralAverage([]*float64{nil, nil}))
	require.Nil(t, GeneralAverage(nil))
}

func TestClassAverageRounds(t *testing.T) {
	a, b, c := 70.0, 80.0, 85.0
	average := ClassAverage([]*float64{&a, &b, &c})
	require.NotNil(t, average)
	require.Equal(t, 78.33, *average)
}
