package services

import (
	"math"
	"strconv"
	"strings"
)

// QuestionForm is the raw text of the admin question editor. List fields are
// comma-separated.
type QuestionForm struct {
	QuestionID string
	Category   string
	TextEN     string
	TextHI     string
	OptionsEN  string
	OptionsHI  string
	Weightage  string
	AgeGroups  string
}

// Field names used in ValidationError.Fields; they match the form inputs.
const (
	FieldQuestionID = "questionId"
	FieldCategory   = "category"
	FieldTextEN     = "question_en"
	FieldTextHI     = "question_hi"
	FieldOptionsEN  = "options_en"
	FieldOptionsHI  = "options_hi"
	FieldWeightage  = "weightage"
	FieldAgeGroups  = "ageGroup"
)

const listSeparator = ", "

// FormatQuestionForm fills the editor from an existing question.
func FormatQuestionForm(q Question) QuestionForm {
	f := QuestionForm{
		Category:  q.Category,
		TextEN:    q.TextEN,
		TextHI:    q.TextHI,
		OptionsEN: strings.Join(q.OptionsEN, listSeparator),
		OptionsHI: strings.Join(q.OptionsHI, listSeparator),
		AgeGroups: strings.Join(q.AgeGroups, listSeparator),
	}
	if q.QuestionID != 0 {
		f.QuestionID = strconv.Itoa(q.QuestionID)
	}
	weights := make([]string, 0, len(q.Weightage))
	for _, w := range q.Weightage {
		weights = append(weights, strconv.FormatFloat(w, 'f', -1, 64))
	}
	f.Weightage = strings.Join(weights, listSeparator)
	return f
}

// Parse validates the form and produces a typed question. Every problem is
// reported in one ValidationError; nothing malformed is passed through.
func (f QuestionForm) Parse() (*Question, error) {
	verr := &ValidationError{}
	q := &Question{
		Category: strings.TrimSpace(f.Category),
		TextEN:   strings.TrimSpace(f.TextEN),
		TextHI:   strings.TrimSpace(f.TextHI),
	}

	idText := strings.TrimSpace(f.QuestionID)
	if idText == "" {
		verr.add(FieldQuestionID, "required")
	} else if id, err := strconv.Atoi(idText); err != nil || id <= 0 {
		verr.add(FieldQuestionID, "must be a positive whole number")
	} else {
		q.QuestionID = id
	}

	if q.Category == "" {
		verr.add(FieldCategory, "required")
	}
	if q.TextEN == "" {
		verr.add(FieldTextEN, "required")
	}
	if q.TextHI == "" {
		verr.add(FieldTextHI, "required")
	}

	q.OptionsEN = splitList(f.OptionsEN, FieldOptionsEN, verr)
	q.OptionsHI = splitList(f.OptionsHI, FieldOptionsHI, verr)
	if len(q.OptionsEN) > 0 && len(q.OptionsHI) > 0 && len(q.OptionsHI) != len(q.OptionsEN) {
		verr.add(FieldOptionsHI, "must have as many options as English ("+strconv.Itoa(len(q.OptionsEN))+")")
	}

	for _, raw := range splitList(f.Weightage, FieldWeightage, verr) {
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
			verr.add(FieldWeightage, strconv.Quote(raw)+" is not a number")
			continue
		}
		q.Weightage = append(q.Weightage, w)
	}
	if _, bad := verr.Fields[FieldWeightage]; !bad && len(q.OptionsEN) > 0 && len(q.Weightage) != len(q.OptionsEN) {
		verr.add(FieldWeightage, "need one weight per option ("+strconv.Itoa(len(q.OptionsEN))+")")
	}

	for _, g := range splitList(f.AgeGroups, FieldAgeGroups, verr) {
		if !IsAgeBand(g) {
			verr.add(FieldAgeGroups, strconv.Quote(g)+" is not one of "+strings.Join(ageBands, listSeparator))
			continue
		}
		q.AgeGroups = append(q.AgeGroups, g)
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return q, nil
}

func splitList(raw, field string, verr *ValidationError) []string {
	if strings.TrimSpace(raw) == "" {
		verr.add(field, "required")
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			verr.add(field, "contains an empty entry")
			continue
		}
		out = append(out, p)
	}
	return out
}
