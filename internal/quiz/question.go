package quiz

import (
	"fmt"
	"strconv"
	"strings"
)

type QuestionType string

const (
	TypeText  QuestionType = "TEXT"
	TypeImage QuestionType = "IMAGE"
	TypeMixed QuestionType = "MIXED"
)

// ExpectedAnswers is the number of structured answers a parsed question of
// this type carries.
func (t QuestionType) ExpectedAnswers() int {
	switch t {
	case TypeText:
		return 4
	default:
		return 0
	}
}

// QuestionKey identifies a question (and its solution) within the bank.
type QuestionKey struct {
	Number  int
	Subject Subject
}

func (k QuestionKey) Less(o QuestionKey) bool {
	if k.Number != o.Number {
		return k.Number < o.Number
	}
	return k.Subject.rank() < o.Subject.rank()
}

// String renders the submission form key, e.g. "12-CHEMISTRY".
func (k QuestionKey) String() string {
	return fmt.Sprintf("%d-%s", k.Number, k.Subject)
}

func ParseQuestionKey(v string) (QuestionKey, error) {
	numberPart, subjectPart, ok := strings.Cut(strings.TrimSpace(v), "-")
	if !ok {
		return QuestionKey{}, fmt.Errorf("invalid question key %q", v)
	}
	n, err := strconv.Atoi(numberPart)
	if err != nil || n <= 0 {
		return QuestionKey{}, fmt.Errorf("invalid question number in key %q", v)
	}
	subject, err := ParseSubject(subjectPart)
	if err != nil {
		return QuestionKey{}, fmt.Errorf("invalid subject in key %q: %w", v, err)
	}
	return QuestionKey{Number: n, Subject: subject}, nil
}

type Question struct {
	Number  int          `json:"number" yaml:"number"`
	Subject Subject      `json:"subject" yaml:"subject"`
	Text    string       `json:"text" yaml:"text"`
	Type    QuestionType `json:"type" yaml:"type"`
	Answers []Answer     `json:"answers" yaml:"answers"`
}

func (q Question) Key() QuestionKey {
	return QuestionKey{Number: q.Number, Subject: q.Subject}
}

// Clone returns a copy that shares no answer storage with q.
func (q Question) Clone() Question {
	out := q
	out.Answers = append([]Answer(nil), q.Answers...)
	return out
}

type Solution struct {
	QuestionNumber int       `json:"question_number" yaml:"questionNumber"`
	Subject        Subject   `json:"subject" yaml:"subject"`
	CorrectAnswers LetterSet `json:"correct_answers" yaml:"correctAnswers"`
}

func (s Solution) Key() QuestionKey {
	return QuestionKey{Number: s.QuestionNumber, Subject: s.Subject}
}
