package model

import (
	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
)

// swagger:model Assessment
type Assessment struct {
	BaseModel
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	TimeLimit   int        `gorm:"not null" json:"timeLimit"` // seconds per question
	PassScore   int        `gorm:"not null" json:"passScore"` // 0-100
	IsActive    bool       `gorm:"index" json:"isActive"`
	Questions   []Question `gorm:"foreignKey:AssessmentID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// TotalTimeLimit is the whole-quiz budget the client timer counts down from.
func (a *Assessment) TotalTimeLimit(questionCount int) int {
	return a.TimeLimit * questionCount
}

// swagger:model Question
type Question struct {
	BaseModel
	AssessmentID  uint                        `gorm:"index;not null" json:"assessmentId"`
	QuestionText  string                      `gorm:"type:text;not null" json:"questionText"`
	QuestionType  QuestionType                `gorm:"size:20;not null" json:"questionType"`
	Options       datatypes.JSONSlice[string] `gorm:"type:json" json:"options"`
	CorrectAnswer string                      `gorm:"size:200;not null" json:"correctAnswer"`
	Explanation   string                      `gorm:"type:text" json:"explanation"`
	Order         int                         `gorm:"index" json:"order"`
}

func (Question) TableName() string {
	return "assessment_questions"
}
