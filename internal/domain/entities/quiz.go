package entities

import "time"

// PointsPerCorrectAnswer is added to a session score for every correct answer.
const PointsPerCorrectAnswer = 10

const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionAbandoned = "abandoned"
)

// QuizSession is a run of questions of one type over one scope.
type QuizSession struct {
	ID             int64
	UserID         int64        // user who started the quiz
	QuestionType   QuestionType // type of every question in the session
	Scope          Scope        // part of the corpus questions are drawn from
	Expert         bool         // harder distractors for distinguish questions
	AnsweredCount  int          // questions answered so far
	CorrectAnswers int          // correct answers so far
	Score          int          // PointsPerCorrectAnswer per correct answer
	SessionStatus  string       // active, completed or abandoned
	StartedAt      time.Time
	CompletedAt    *time.Time
	Version        int // optimistic lock counter
}

// NewQuizSession creates an active session for a user.
func NewQuizSession(userID int64, qt QuestionType, scope Scope, expert bool) *QuizSession {
	return &QuizSession{
		UserID:        userID,
		QuestionType:  qt,
		Scope:         scope,
		Expert:        expert,
		SessionStatus: SessionActive,
		StartedAt:     time.Now(),
	}
}

// IsActive reports whether the session still accepts answers.
func (qs *QuizSession) IsActive() bool {
	return qs.SessionStatus == SessionActive
}

// Record counts an answer and updates the score.
func (qs *QuizSession) Record(correct bool) {
	qs.AnsweredCount++
	if correct {
		qs.CorrectAnswers++
		qs.Score += PointsPerCorrectAnswer
	}
}

// Complete marks the session as completed.
func (qs *QuizSession) Complete() {
	qs.SessionStatus = SessionCompleted
	now := time.Now()
	qs.CompletedAt = &now
}

// QuizAnswer is a checked answer to one question.
type QuizAnswer struct {
	ID            int64
	UserID        int64
	SessionID     int64
	VerseID       int64
	QuestionType  QuestionType
	UserAnswer    string
	CorrectAnswer string
	IsCorrect     bool
	AnsweredAt    time.Time
}

// NewQuizAnswer creates an answer record for a question.
func NewQuizAnswer(session *QuizSession, q Question, userAnswer string, correct bool) *QuizAnswer {
	return &QuizAnswer{
		UserID:        session.UserID,
		SessionID:     session.ID,
		VerseID:       q.Verse.ID,
		QuestionType:  q.Type,
		UserAnswer:    userAnswer,
		CorrectAnswer: q.CorrectAnswer,
		IsCorrect:     correct,
		AnsweredAt:    time.Now(),
	}
}

// QuizResult is the outcome of checking one answer.
type QuizResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Score         int    `json:"score"`
	Answered      int    `json:"answered"`
}
