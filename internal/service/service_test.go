package service

import (
	"context"
	"path/filepath"
	"sensen_backend/internal/config"
	"sensen_backend/internal/model"
	"sensen_backend/internal/repository"
	"sensen_backend/pkg/database"
	"testing"
	"time"

	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	db          *gorm.DB
	assessments *repository.AssessmentRepository
	attempts    *repository.AttemptRepository
	users       *repository.UserRepository
	svc         *AttemptService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "svc.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := database.InitDB(&config.DatabaseConfig{Driver: database.DriverSQLite, Path: dsn})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	env := &testEnv{
		db:          db,
		assessments: repository.NewAssessmentRepository(db, nil),
		attempts:    repository.NewAttemptRepository(db),
		users:       repository.NewUserRepository(db),
	}
	env.svc = NewAttemptService(env.assessments, env.attempts)
	env.svc.Now = func() time.Time { return fixedNow }
	return env
}

func (e *testEnv) user(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Email: name + "@example.com", Password: "x", Role: model.Employee, IsActive: true}
	if err := e.users.CreateWithProfile(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// phishingQuiz has four questions: A, True, B, False.
func (e *testEnv) phishingQuiz(t *testing.T) *model.Assessment {
	t.Helper()
	a := &model.Assessment{
		Title:     "Spotting phishing",
		TimeLimit: 30,
		PassScore: 70,
		IsActive:  true,
		Questions: []model.Question{
			{QuestionText: "Which sender is spoofed?", QuestionType: model.MultipleChoice, Options: []string{"A", "B", "C"}, CorrectAnswer: "A", Explanation: "Look-alike domain.", Order: 1},
			{QuestionText: "Links can hide their target.", QuestionType: model.TrueFalse, Options: []string{"True", "False"}, CorrectAnswer: "True", Order: 2},
			{QuestionText: "Best reaction?", QuestionType: model.MultipleChoice, Options: []string{"A", "B", "C"}, CorrectAnswer: "B", Order: 3},
			{QuestionText: "Urgency is a good sign.", QuestionType: model.TrueFalse, Options: []string{"True", "False"}, CorrectAnswer: "False", Order: 4},
		},
	}
	if err := e.assessments.CreateAssessment(context.Background(), a); err != nil {
		t.Fatalf("create assessment: %v", err)
	}
	return a
}
