package services

import (
	"context"
	"strings"
	"sync"
)

const (
	MsgFetchAdminData  = "Failed to fetch admin data."
	MsgUserDeleted     = "User deleted."
	MsgDeleteUser      = "Failed to delete user."
	MsgQuestionDeleted = "Question deleted."
	MsgDeleteQuestion  = "Failed to delete question."
	MsgQuestionCreated = "Question created successfully!"
	MsgQuestionUpdated = "Question updated successfully!"
	MsgSubmitQuestion  = "Failed to submit question."
	MsgConfirmDelete   = "Deletion was not confirmed."
)

// AdminClient is the backend's management API.
type AdminClient interface {
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
	ListQuestions(ctx context.Context) ([]Question, error)
	CreateQuestion(ctx context.Context, q Question) (*Question, error)
	UpdateQuestion(ctx context.Context, id string, q Question) (*Question, error)
	DeleteQuestion(ctx context.Context, id string) error
}

// AdminOverview is what the admin page lists.
type AdminOverview struct {
	Users     []User
	Questions []Question
}

func (o *AdminOverview) Question(id string) (Question, bool) {
	for _, q := range o.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

func (o *AdminOverview) User(id string) (User, bool) {
	for _, u := range o.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// AdminService mutates through the backend and always refetches afterwards;
// nothing is updated optimistically.
type AdminService struct {
	client AdminClient
}

func NewAdminService(client AdminClient) *AdminService {
	return &AdminService{client: client}
}

// Overview fetches users and questions concurrently.
func (s *AdminService) Overview(ctx context.Context) (*AdminOverview, error) {
	var (
		wg                 sync.WaitGroup
		users              []User
		questions          []Question
		usersErr, questErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		users, usersErr = s.client.ListUsers(ctx)
	}()
	go func() {
		defer wg.Done()
		questions, questErr = s.client.ListQuestions(ctx)
	}()
	wg.Wait()
	if usersErr != nil {
		return nil, remoteError(usersErr, MsgFetchAdminData, false)
	}
	if questErr != nil {
		return nil, remoteError(questErr, MsgFetchAdminData, false)
	}
	return &AdminOverview{Users: users, Questions: questions}, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, id string, confirmed bool) (*AdminOverview, error) {
	if !confirmed {
		return nil, NewInvalidError(MsgConfirmDelete)
	}
	if strings.TrimSpace(id) == "" {
		return nil, NewInvalidError("user id required")
	}
	if err := s.client.DeleteUser(ctx, id); err != nil {
		return nil, remoteError(err, MsgDeleteUser, true)
	}
	return s.Overview(ctx)
}

func (s *AdminService) DeleteQuestion(ctx context.Context, id string, confirmed bool) (*AdminOverview, error) {
	if !confirmed {
		return nil, NewInvalidError(MsgConfirmDelete)
	}
	if strings.TrimSpace(id) == "" {
		return nil, NewInvalidError("question id required")
	}
	if err := s.client.DeleteQuestion(ctx, id); err != nil {
		return nil, remoteError(err, MsgDeleteQuestion, false)
	}
	return s.Overview(ctx)
}

// SaveQuestion validates the form, then creates (empty id) or updates the
// question. It returns the success message and the refetched overview.
func (s *AdminService) SaveQuestion(ctx context.Context, id string, form QuestionForm) (string, *AdminOverview, error) {
	q, err := form.Parse()
	if err != nil {
		return "", nil, err
	}
	msg := MsgQuestionCreated
	if id == "" {
		_, err = s.client.CreateQuestion(ctx, *q)
	} else {
		q.ID = id
		msg = MsgQuestionUpdated
		_, err = s.client.UpdateQuestion(ctx, id, *q)
	}
	if err != nil {
		return "", nil, remoteError(err, MsgSubmitQuestion, true)
	}
	overview, err := s.Overview(ctx)
	return msg, overview, err
}
