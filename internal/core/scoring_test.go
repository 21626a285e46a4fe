package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreIncome(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"£120,000", 100},
		{"100000", 100},
		{"£60,000 per year", 85},
		{"£99,999", 85},
		{"45000", 70},
		{"£25,000", 55},
		{"£15,000", 40},
		{"£14,999", 25},
		{"0", 10},
		{"", 10},
		{"prefer not to say", 10},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ScoreIncome(tt.in)
			assert.Equal(t, tt.want, got.Score)
			assert.NotEmpty(t, got.Details)
		})
	}
}

func TestScoreEducation(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"PhD in Physics", 100},
		{"Doctorate of Education", 100},
		{"Master of Science", 90},
		{"MBA", 90},
		{"Bachelor's Degree in Mathematics", 80},
		{"BSc Computing", 80},
		{"MA History", 90},
		{"MA in English", 90},
		{"BA (Hons) Economics", 80},
		{"ba", 80},
		{"Diploma in Cinema", 65},
		{"Obama Studies", 50},
		{"HND Business", 65},
		{"A-Level", 65},
		{"GCSE", 50},
		{"", 40},
		{"   ", 40},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreEducation(tt.in).Score)
		})
	}
}

func TestScoreEmployment(t *testing.T) {
	emp := func(kind string) *CurrentEmployment {
		return &CurrentEmployment{Employer: "Acme", EmploymentType: kind}
	}

	assert.Equal(t, 40, ScoreEmployment(nil, false).Score)
	assert.Equal(t, 50, ScoreEmployment(nil, true).Score)
	assert.Equal(t, 85, ScoreEmployment(emp("full-time"), false).Score)
	assert.Equal(t, 85, ScoreEmployment(emp(" Full-Time "), false).Score)
	assert.Equal(t, 75, ScoreEmployment(emp("contract"), false).Score)
	assert.Equal(t, 70, ScoreEmployment(emp("part-time"), false).Score)
	assert.Equal(t, 70, ScoreEmployment(emp("self-employed"), false).Score)
	assert.Equal(t, 65, ScoreEmployment(emp("internship"), false).Score)
	assert.Equal(t, 65, ScoreEmployment(emp(""), false).Score)

	got := ScoreEmployment(&CurrentEmployment{EmploymentType: "full-time"}, false)
	assert.Contains(t, got.Details, "unnamed employer")
}

func TestScoreCompleteness(t *testing.T) {
	full := PersonalInfo{
		FullName: "A", DateOfBirth: "2000-01-01", Email: "a@b.co",
		Phone: "1", Address: "x", Nationality: "British",
	}
	assert.Equal(t, 100, ScoreCompleteness(full).Score)
	assert.Equal(t, 0, ScoreCompleteness(PersonalInfo{}).Score)
	assert.Equal(t, 17, ScoreCompleteness(PersonalInfo{FullName: "A"}).Score)
	assert.Equal(t, 50, ScoreCompleteness(PersonalInfo{FullName: "A", Email: "a@b.co", Phone: "1"}).Score)
	assert.Equal(t, 0, ScoreCompleteness(PersonalInfo{FullName: "   "}).Score)
	assert.Equal(t, "6 of 6 personal details provided", ScoreCompleteness(full).Details)
}

func TestParseAmount(t *testing.T) {
	v, ok := ParseAmount("£25,000")
	assert.True(t, ok)
	assert.Equal(t, 25000.0, v)

	v, ok = ParseAmount("around 12500.50 pounds")
	assert.True(t, ok)
	assert.Equal(t, 12500.5, v)

	_, ok = ParseAmount("0")
	assert.False(t, ok)

	_, ok = ParseAmount("lots")
	assert.False(t, ok)
}
