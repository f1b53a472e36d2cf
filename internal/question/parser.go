package question

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"medicquiz/internal/quiz"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NeverSwitch is the switch point of a document that holds one subject.
const NeverSwitch = -1

const paragraphAnswers = 4

var (
	headerPattern = regexp.MustCompile(`(?s)^\s*(\d+)\s*\.?\s*(.+)$`)
	strongPattern = regexp.MustCompile(`</?strong>`)
	imgPattern    = regexp.MustCompile(`<img[^>]*>`)
)

// ImageResolver maps an embedded image source to its question number.
type ImageResolver interface {
	QuestionNumber(ctx context.Context, src string) (int, error)
}

// Document is one converted source file.
type Document struct {
	Name       string
	TestNumber int
	HTML       string
	// SwitchAt is the question number from which the second subject starts.
	SwitchAt int
}

type Parser struct {
	images ImageResolver
	log    *zap.Logger
}

func NewParser(images ImageResolver, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{images: images, log: log}
}

// ImageTag is the placeholder embedded into stems of image questions.
func ImageTag(number int) string {
	return fmt.Sprintf(`<p><img src="/static/%d.jpg"></p>`, number)
}

// ImageStem is the stem of a question that consists of an image only.
func ImageStem(number int) string {
	return fmt.Sprintf("Otázka číslo %d na obrázku:", number) + ImageTag(number)
}

// ParseDocument parses doc and, when it parsed cleanly, merges its
// questions and test into acc. A structural error leaves acc untouched.
func (p *Parser) ParseDocument(ctx context.Context, doc Document, acc *Accumulator) (quiz.Test, error) {
	questions, err := p.Parse(ctx, doc)
	if err != nil {
		return quiz.Test{}, err
	}
	test := quiz.NewTest(doc.TestNumber, questions)
	acc.Add(questions, test)
	return test, nil
}

// Parse returns the questions of one document in document order.
func (p *Parser) Parse(ctx context.Context, doc Document) ([]quiz.Question, error) {
	root, err := html.Parse(strings.NewReader(doc.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", doc.Name, err)
	}
	body := findBody(root)
	if body == nil {
		return nil, nil
	}

	state := &documentState{
		doc:      doc,
		subject:  quiz.Subjects()[0],
		accepted: quiz.NewSet[quiz.Question](),
		consumed: map[*html.Node]bool{},
	}

	for node := firstElement(body); node != nil; node = nextElement(node) {
		if node.DataAtom != atom.P || state.consumed[node] {
			continue
		}
		if err := p.paragraph(ctx, state, node); err != nil {
			return nil, err
		}
	}
	return state.accepted.Items(), nil
}

type documentState struct {
	doc      Document
	subject  quiz.Subject
	switched bool
	accepted *quiz.Set[quiz.Question]
	consumed map[*html.Node]bool
}

func (s *documentState) accept(q quiz.Question) {
	q.Subject = s.subject
	quiz.SortAnswers(q.Answers)
	s.accepted.Add(q)
}

func (p *Parser) paragraph(ctx context.Context, state *documentState, node *html.Node) error {
	text := strings.TrimSpace(textContent(node))
	if text == "" {
		return p.imageQuestions(ctx, state, node)
	}
	if !unicode.IsDigit([]rune(text)[0]) {
		return nil
	}

	header := cleanHeader(innerHTML(node))
	m := headerPattern.FindStringSubmatch(header)
	if m == nil {
		p.log.Debug("skipping unnumbered paragraph", zap.String("document", state.doc.Name), zap.String("text", text))
		return nil
	}
	number, err := strconv.Atoi(m[1])
	if err != nil {
		return &StructureError{Document: state.doc.Name, Detail: fmt.Sprintf("question number %q", m[1])}
	}
	stem := strings.TrimSpace(m[2])

	if !state.switched && number == state.doc.SwitchAt && state.accepted.Len() >= 1 {
		state.switched = true
		state.subject = quiz.Subjects()[1]
		p.log.Debug("subject switched", zap.String("document", state.doc.Name), zap.Int("question", number), zap.String("subject", state.subject.String()))
	}

	next := nextElement(node)
	if next == nil {
		return &StructureError{Document: state.doc.Name, Question: number, Detail: "no answers follow the question"}
	}

	switch next.DataAtom {
	case atom.Ol:
		state.consumed[next] = true
		state.accept(quiz.Question{Number: number, Text: stem, Type: quiz.TypeText, Answers: listAnswers(next)})
		return nil

	case atom.P:
		if first := firstElement(next); first != nil && first.DataAtom == atom.Img {
			resolved, err := p.resolveImage(ctx, state, first)
			if err != nil {
				return err
			}
			state.consumed[next] = true
			state.accept(quiz.Question{Number: number, Text: stem + ImageTag(resolved), Type: quiz.TypeMixed})
			return nil
		}
		answers, err := paragraphAnswerList(state, number, next)
		if err != nil {
			return err
		}
		state.accept(quiz.Question{Number: number, Text: stem, Type: quiz.TypeText, Answers: answers})
		return nil

	default:
		return &StructureError{Document: state.doc.Name, Question: number, Detail: fmt.Sprintf("unexpected <%s> after question", next.Data)}
	}
}

// imageQuestions turns every image of a text-less paragraph into an image
// question.
func (p *Parser) imageQuestions(ctx context.Context, state *documentState, node *html.Node) error {
	for child := firstElement(node); child != nil; child = nextElement(child) {
		if child.DataAtom != atom.Img {
			continue
		}
		number, err := p.resolveImage(ctx, state, child)
		if err != nil {
			return err
		}
		state.accept(quiz.Question{Number: number, Text: ImageStem(number), Type: quiz.TypeImage})
	}
	return nil
}

// resolveImage stores img and returns the question number it is mapped to.
func (p *Parser) resolveImage(ctx context.Context, state *documentState, img *html.Node) (int, error) {
	if p.images == nil {
		return 0, fmt.Errorf("%s: image question found but no image resolver configured", state.doc.Name)
	}
	number, err := p.images.QuestionNumber(ctx, attr(img, "src"))
	if err != nil {
		return 0, fmt.Errorf("%s: image question: %w", state.doc.Name, err)
	}
	return number, nil
}

func listAnswers(list *html.Node) []quiz.Answer {
	var answers []quiz.Answer
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Li {
				answers = append(answers, quiz.Answer{
					Letter: quiz.LetterAt(len(answers)),
					Text:   cleanSpaces(strings.TrimSpace(innerHTML(c))),
				})
			}
			walk(c)
		}
	}
	walk(list)
	return answers
}

// paragraphAnswerList reads the four paragraphs starting at first, each
// shaped "label) answer text".
func paragraphAnswerList(state *documentState, number int, first *html.Node) ([]quiz.Answer, error) {
	answers := make([]quiz.Answer, 0, paragraphAnswers)
	node := first
	for i := 0; i < paragraphAnswers; i++ {
		if node == nil || node.DataAtom != atom.P {
			return nil, &StructureError{Document: state.doc.Name, Question: number, Detail: fmt.Sprintf("expected %d answer paragraphs, found %d", paragraphAnswers, i)}
		}
		_, text, ok := strings.Cut(innerHTML(node), ")")
		if !ok {
			return nil, &StructureError{Document: state.doc.Name, Question: number, Detail: fmt.Sprintf("answer %s has no label", quiz.LetterAt(i))}
		}
		answers = append(answers, quiz.Answer{Letter: quiz.LetterAt(i), Text: strings.TrimSpace(cleanSpaces(text))})
		state.consumed[node] = true
		node = nextElement(node)
	}
	return answers, nil
}

func cleanHeader(v string) string {
	v = strongPattern.ReplaceAllString(v, "")
	v = imgPattern.ReplaceAllString(v, "")
	return cleanSpaces(v)
}

func cleanSpaces(v string) string {
	return strings.NewReplacer("&nbsp;", " ", "\u00a0", " ").Replace(v)
}
