package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

type WizardStep int

const (
	StepSubject   WizardStep = 0
	StepLanguage  WizardStep = 1
	StepQuestions WizardStep = 2
)

const (
	SubjectSelf  = "self"
	SubjectChild = "child"

	LanguageEnglish = "en"
	LanguageHindi   = "hi"
)

const (
	MsgEnterAge          = "Please enter an age."
	MsgInvalidAge        = "Invalid age for assessment."
	MsgSelectOption      = "Please select an option."
	MsgFetchQuestions    = "Failed to fetch questions."
	MsgSubmitAssessment  = "Failed to submit assessment."
	MsgAssessmentSent    = "Assessment submitted successfully!"
	MsgRequestInProgress = "A request is already in progress."
)

// QuestionSource returns the localized question set for one age band.
type QuestionSource interface {
	AssessmentQuestions(ctx context.Context, ageGroup, language string) ([]AssessmentQuestion, error)
}

// AssessmentSubmitter stores a completed response set and returns the scored result.
type AssessmentSubmitter interface {
	SubmitAssessment(ctx context.Context, sub AssessmentSubmission) (*Assessment, error)
}

// Wizard walks one visitor through subject/age, language and the question
// set. All methods are safe for concurrent use; at most one network call is
// in flight and every mutator is rejected while it is.
type Wizard struct {
	mu sync.Mutex

	step      WizardStep
	userType  string
	age       string
	language  string
	questions []AssessmentQuestion
	index     int
	responses map[string]int
	busy      bool
}

// WizardView is a rendering snapshot.
type WizardView struct {
	Step      WizardStep
	UserType  string
	Age       string
	Language  string
	Index     int
	Total     int
	Progress  int
	Question  *AssessmentQuestion
	Selected  int
	Answered  int
	Busy      bool
	CanGoBack bool
}

// NextResult reports what a successful Next did.
type NextResult struct {
	Submitted  bool
	Assessment *Assessment
}

func NewWizard(language string) *Wizard {
	w := &Wizard{}
	w.resetLocked(language)
	return w
}

func (w *Wizard) resetLocked(language string) {
	if language != LanguageHindi {
		language = LanguageEnglish
	}
	w.step = StepSubject
	w.userType = SubjectSelf
	w.age = ""
	w.language = language
	w.questions = nil
	w.index = 0
	w.responses = map[string]int{}
}

// Reset starts the assessment over, keeping the chosen language.
func (w *Wizard) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return NewConflictError(MsgRequestInProgress)
	}
	w.resetLocked(w.language)
	return nil
}

// SetSubject records who the assessment is for and the raw age input.
func (w *Wizard) SetSubject(userType, age string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return NewConflictError(MsgRequestInProgress)
	}
	if w.step != StepSubject {
		return NewInvalidError("subject can only be changed on the first step")
	}
	switch userType {
	case "":
	case SubjectSelf, SubjectChild:
		w.userType = userType
	default:
		return NewInvalidError("unknown subject " + userType)
	}
	w.age = strings.TrimSpace(age)
	return nil
}

func (w *Wizard) SetLanguage(language string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return NewConflictError(MsgRequestInProgress)
	}
	if w.step == StepQuestions {
		return NewInvalidError("language cannot be changed while answering")
	}
	switch language {
	case LanguageEnglish, LanguageHindi:
		w.language = language
		return nil
	default:
		return NewInvalidError("unsupported language " + language)
	}
}

// Select records the chosen option for a question of the current set,
// replacing any earlier choice.
func (w *Wizard) Select(questionKey string, option int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return NewConflictError(MsgRequestInProgress)
	}
	if w.step != StepQuestions {
		return NewInvalidError("no question is being answered")
	}
	for _, q := range w.questions {
		if q.Key() != questionKey {
			continue
		}
		if option < 0 || option >= len(q.Options) {
			return NewInvalidError(MsgSelectOption)
		}
		w.responses[questionKey] = option
		return nil
	}
	return NewNotFoundError("question not in this assessment")
}

// Prev steps back one question, or from the first question back to the
// language step. It does nothing on the first two steps.
func (w *Wizard) Prev() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return NewConflictError(MsgRequestInProgress)
	}
	if w.step != StepQuestions {
		return nil
	}
	if w.index > 0 {
		w.index--
		return nil
	}
	w.step = StepLanguage
	return nil
}

// Next advances the wizard. On the language step it fetches the question set;
// past the last question it submits. A failed network call leaves the state
// exactly as it was.
func (w *Wizard) Next(ctx context.Context, src QuestionSource, sub AssessmentSubmitter) (NextResult, error) {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return NextResult{}, NewConflictError(MsgRequestInProgress)
	}
	switch w.step {
	case StepSubject:
		defer w.mu.Unlock()
		if w.age == "" {
			return NextResult{}, NewInvalidError(MsgEnterAge)
		}
		w.step = StepLanguage
		return NextResult{}, nil
	case StepLanguage:
		band, ok := AgeGroupFromInput(w.age)
		if !ok {
			w.mu.Unlock()
			return NextResult{}, NewInvalidError(MsgInvalidAge)
		}
		language := w.language
		w.busy = true
		w.mu.Unlock()
		return NextResult{}, w.fetch(ctx, src, band, language)
	default:
		q := w.questions[w.index]
		if _, ok := w.responses[q.Key()]; !ok {
			w.mu.Unlock()
			return NextResult{}, NewInvalidError(MsgSelectOption)
		}
		if w.index < len(w.questions)-1 {
			w.index++
			w.mu.Unlock()
			return NextResult{}, nil
		}
		submission := w.submissionLocked()
		w.busy = true
		w.mu.Unlock()
		return w.submit(ctx, sub, submission)
	}
}

func (w *Wizard) fetch(ctx context.Context, src QuestionSource, band, language string) error {
	questions, err := src.AssessmentQuestions(ctx, band, language)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false
	if err != nil {
		return remoteError(err, MsgFetchQuestions, false)
	}
	if len(questions) == 0 {
		w.questions = nil
		w.index = 0
		w.responses = map[string]int{}
		w.step = StepSubject
		return NewNotFoundError(fmt.Sprintf("Sorry, no questions are available for the age group: %s.", band))
	}
	kept := make(map[string]int, len(questions))
	for _, q := range questions {
		if v, ok := w.responses[q.Key()]; ok && v < len(q.Options) {
			kept[q.Key()] = v
		}
	}
	w.questions = questions
	w.responses = kept
	w.index = 0
	w.step = StepQuestions
	return nil
}

func (w *Wizard) submit(ctx context.Context, sub AssessmentSubmitter, submission AssessmentSubmission) (NextResult, error) {
	result, err := sub.SubmitAssessment(ctx, submission)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false
	if err != nil {
		return NextResult{}, remoteError(err, MsgSubmitAssessment, false)
	}
	w.resetLocked(w.language)
	return NextResult{Submitted: true, Assessment: result}, nil
}

func (w *Wizard) submissionLocked() AssessmentSubmission {
	responses := make(map[string]int, len(w.responses))
	for k, v := range w.responses {
		responses[k] = v
	}
	return AssessmentSubmission{UserType: w.userType, Age: w.age, Language: w.language, Responses: responses}
}

func (w *Wizard) View() WizardView {
	w.mu.Lock()
	defer w.mu.Unlock()
	v := WizardView{
		Step:      w.step,
		UserType:  w.userType,
		Age:       w.age,
		Language:  w.language,
		Index:     w.index,
		Total:     len(w.questions),
		Selected:  -1,
		Answered:  len(w.responses),
		Busy:      w.busy,
		CanGoBack: w.step == StepQuestions,
	}
	if w.step == StepQuestions && w.index < len(w.questions) {
		q := w.questions[w.index]
		v.Question = &q
		if sel, ok := w.responses[q.Key()]; ok {
			v.Selected = sel
		}
		v.Progress = (w.index + 1) * 100 / len(w.questions)
	}
	return v
}
