package services

import (
	"strconv"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the account returned by the backend on login/register. Token is
// the bearer credential for every subsequent backend call.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token,omitempty"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// Question is the admin view of a bilingual screening question.
type Question struct {
	ID         string    `json:"_id,omitempty"`
	QuestionID int       `json:"questionId"`
	TextEN     string    `json:"question_en"`
	TextHI     string    `json:"question_hi"`
	OptionsEN  []string  `json:"options_en"`
	OptionsHI  []string  `json:"options_hi"`
	Weightage  []float64 `json:"weightage"`
	AgeGroups  []string  `json:"ageGroup"`
	Category   string    `json:"category"`
}

// AssessmentQuestion is a question already localized by the backend for one
// language.
type AssessmentQuestion struct {
	ID         string   `json:"_id"`
	QuestionID int      `json:"questionId"`
	Text       string   `json:"question"`
	Options    []string `json:"options"`
	Category   string   `json:"category,omitempty"`
}

// Key identifies the question in a response set.
func (q AssessmentQuestion) Key() string {
	if q.ID != "" {
		return q.ID
	}
	return strconv.Itoa(q.QuestionID)
}

// AssessmentSubmission is posted once, after the last question.
type AssessmentSubmission struct {
	UserType  string         `json:"userType"`
	Age       string         `json:"age"`
	Language  string         `json:"language"`
	Responses map[string]int `json:"responses"`
}

const (
	RiskLow      = "Low Risk"
	RiskModerate = "Moderate Risk"
	RiskHigh     = "High Risk"
	RiskUnknown  = "N/A"
)

type RiskLevel struct {
	Label string `json:"label"`
}

// Assessment is a scored submission computed by the backend.
type Assessment struct {
	ID        string    `json:"_id"`
	Score     float64   `json:"score"`
	MaxScore  float64   `json:"maxScore"`
	RiskLevel RiskLevel `json:"riskLevel"`
	CreatedAt time.Time `json:"createdAt"`
}

// Risk returns the label, or RiskUnknown for anything the dashboard does not
// know how to display.
func (a *Assessment) Risk() string {
	if a == nil {
		return RiskUnknown
	}
	switch a.RiskLevel.Label {
	case RiskLow, RiskModerate, RiskHigh:
		return a.RiskLevel.Label
	default:
		return RiskUnknown
	}
}

const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

type ChatPart struct {
	Text string `json:"text"`
}

// ChatMessage is one turn in the shape the generation API expects.
type ChatMessage struct {
	Role  string     `json:"role"`
	Parts []ChatPart `json:"parts"`
}

func NewChatMessage(role, text string) ChatMessage {
	return ChatMessage{Role: role, Parts: []ChatPart{{Text: text}}}
}

func (m ChatMessage) Text() string {
	if len(m.Parts) == 0 {
		return ""
	}
	return m.Parts[0].Text
}
