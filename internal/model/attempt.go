package model

import "time"

type AttemptState string

const (
	StateNotStarted AttemptState = "not_started"
	StateInProgress AttemptState = "in_progress"
	StateCompleted  AttemptState = "completed"
)

// Attempt is the single run of one user through one assessment.
// swagger:model Attempt
type Attempt struct {
	BaseModel
	UserID         uint        `gorm:"not null;uniqueIndex:idx_attempt_user_assessment" json:"userId"`
	User           *User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AssessmentID   uint        `gorm:"not null;uniqueIndex:idx_attempt_user_assessment" json:"assessmentId"`
	Assessment     *Assessment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Score          int         `gorm:"not null" json:"score"`
	TotalQuestions int         `gorm:"not null" json:"totalQuestions"`
	CorrectAnswers int         `gorm:"not null" json:"correctAnswers"`
	IsCompleted    bool        `gorm:"not null" json:"isCompleted"`
	IsPassed       bool        `gorm:"not null" json:"isPassed"`
	RetakeCount    int         `gorm:"not null" json:"retakeCount"`
	StartedAt      time.Time   `gorm:"not null" json:"startedAt"`
	CompletedAt    *time.Time  `json:"completedAt"`
	Answers        []Answer    `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Attempt) TableName() string {
	return "assessment_attempts"
}

// StateOf maps a possibly missing attempt onto the lifecycle states.
func StateOf(a *Attempt) AttemptState {
	switch {
	case a == nil:
		return StateNotStarted
	case a.IsCompleted:
		return StateCompleted
	default:
		return StateInProgress
	}
}

// MaxAnswerLength matches the user_answer column size, in characters.
const MaxAnswerLength = 200

// swagger:model Answer
type Answer struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AttemptID  uint      `gorm:"index;not null" json:"attemptId"`
	QuestionID uint      `gorm:"index;not null" json:"questionId"`
	Question   *Question `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserAnswer string    `gorm:"size:200" json:"userAnswer"`
	IsCorrect  bool      `gorm:"not null" json:"isCorrect"`
}

func (Answer) TableName() string {
	return "assessment_answers"
}
