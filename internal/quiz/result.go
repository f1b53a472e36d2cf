package quiz

// ScoredAnswer is a catalog answer annotated for one scoring pass.
type ScoredAnswer struct {
	Answer
	Marked  bool `json:"marked"`
	Correct bool `json:"correct"`
}

type ScoredQuestion struct {
	Number  int            `json:"number"`
	Subject Subject        `json:"subject"`
	Text    string         `json:"text"`
	Type    QuestionType   `json:"type"`
	Answers []ScoredAnswer `json:"answers"`
}

func (q ScoredQuestion) Key() QuestionKey {
	return QuestionKey{Number: q.Number, Subject: q.Subject}
}

type TestResult struct {
	Score     int              `json:"score"`
	MaxScore  int              `json:"max_score"`
	Questions []ScoredQuestion `json:"questions"`
}
