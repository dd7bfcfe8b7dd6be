package service

import (
	"context"
	"strings"
	"time"

	"pawhaven/internal/models"
	"pawhaven/internal/repository"
	"pawhaven/internal/validation"
)

// MessageView is a message projected for a particular viewer.
type MessageView struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	FromID    uint      `json:"from_id"`
	FromSelf  bool      `json:"from_self"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"created_at"`
}

// ThreadView is a thread projected for a particular viewer.
type ThreadView struct {
	ID          uint               `json:"id"`
	OtherParty  *models.PublicUser `json:"other_party"`
	Pet         *models.PetSummary `json:"pet,omitempty"`
	LastMessage *MessageView       `json:"last_message,omitempty"`
	Messages    []MessageView      `json:"messages"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// MessageService owns two-party message threads.
type MessageService struct {
	threads repository.ThreadRepository
	users   repository.UserRepository
	sink    EventSink
}

// NewMessageService returns a new MessageService.
func NewMessageService(threads repository.ThreadRepository, users repository.UserRepository, sink EventSink) *MessageService {
	return &MessageService{threads: threads, users: users, sink: sink}
}

func (s *MessageService) projectMessage(msg *models.Message, viewerID uint) MessageView {
	return MessageView{
		ID:        msg.ID,
		Text:      msg.Text,
		FromID:    msg.FromID,
		FromSelf:  msg.FromID == viewerID,
		Deleted:   msg.DeletedForUser(viewerID),
		CreatedAt: msg.CreatedAt,
	}
}

func (s *MessageService) projectThread(ctx context.Context, thread *models.MessageThread, viewerID uint) ThreadView {
	view := ThreadView{
		ID:        thread.ID,
		Messages:  make([]MessageView, 0, len(thread.Messages)),
		UpdatedAt: thread.UpdatedAt,
	}
	if thread.Pet != nil {
		summary := thread.Pet.Summary()
		view.Pet = &summary
	}
	if other, err := s.users.GetByID(ctx, thread.OtherParticipant(viewerID)); err == nil {
		pub := other.Public()
		view.OtherParty = &pub
	}
	for i := range thread.Messages {
		view.Messages = append(view.Messages, s.projectMessage(&thread.Messages[i], viewerID))
	}
	if n := len(view.Messages); n > 0 {
		view.LastMessage = &view.Messages[n-1]
	}
	return view
}

// ListThreads returns the viewer's threads, newest-updated first.
func (s *MessageService) ListThreads(ctx context.Context, viewerID uint) ([]ThreadView, error) {
	threads, err := s.threads.ListForUser(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	views := make([]ThreadView, 0, len(threads))
	for i := range threads {
		views = append(views, s.projectThread(ctx, &threads[i], viewerID))
	}
	return views, nil
}

// GetThread returns one thread with viewer projections. A thread the
// viewer does not participate in reads as absent.
func (s *MessageService) GetThread(ctx context.Context, threadID, viewerID uint) (*ThreadView, error) {
	thread, err := s.threads.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !thread.HasParticipant(viewerID) {
		return nil, models.NewNotFoundError("Thread")
	}
	view := s.projectThread(ctx, thread, viewerID)
	return &view, nil
}

// SendInput identifies where a message goes. Either ThreadID targets
// an existing thread, or ToUserID (plus optional PetID) resolves or
// creates one.
type SendInput struct {
	ThreadID uint   `json:"thread_id"`
	ToUserID uint   `json:"to_user_id"`
	PetID    *uint  `json:"pet_id"`
	Text     string `json:"text"`
}

// Send appends a message, creating the thread on first contact. The
// recipient, and only the recipient, gets a message:new push.
func (s *MessageService) Send(ctx context.Context, fromID uint, in SendInput) (*MessageView, Followup, error) {
	if err := validation.MessageText(in.Text); err != nil {
		return nil, nil, err
	}

	var thread *models.MessageThread
	var err error
	switch {
	case in.ThreadID != 0:
		thread, err = s.threads.GetByID(ctx, in.ThreadID)
		if err != nil {
			return nil, nil, err
		}
		if !thread.HasParticipant(fromID) {
			return nil, nil, models.NewNotFoundError("Thread")
		}
	case in.ToUserID != 0:
		if in.ToUserID == fromID {
			return nil, nil, models.NewValidationError("Cannot message yourself")
		}
		if _, err := s.users.GetByID(ctx, in.ToUserID); err != nil {
			return nil, nil, err
		}
		thread, err = s.threads.FindByParticipants(ctx, fromID, in.ToUserID, in.PetID)
		if err != nil {
			return nil, nil, err
		}
		if thread == nil {
			lo, hi := models.NormalizePair(fromID, in.ToUserID)
			thread = &models.MessageThread{UserAID: lo, UserBID: hi, PetID: in.PetID}
			if err := s.threads.Create(ctx, thread); err != nil {
				return nil, nil, err
			}
		}
	default:
		return nil, nil, models.NewValidationError("A thread or recipient is required")
	}

	msg := &models.Message{
		FromID: fromID,
		Text:   strings.TrimSpace(in.Text),
	}
	if err := s.threads.AppendMessage(ctx, thread, msg); err != nil {
		return nil, nil, err
	}

	view := s.projectMessage(msg, fromID)
	recipient := thread.OtherParticipant(fromID)
	payload := map[string]any{
		"thread_id":  thread.ID,
		"text":       msg.Text,
		"from":       fromID,
		"created_at": msg.CreatedAt,
	}
	followup := func(ctx context.Context) {
		s.sink.EmitToUser(recipient, EventMessageNew, payload)
	}
	return &view, followup, nil
}

// StartThread resolves or creates the thread for a participant pair
// without sending anything, so a conversation view can open empty.
func (s *MessageService) StartThread(ctx context.Context, fromID, toUserID uint, petID *uint) (*ThreadView, error) {
	if toUserID == 0 || toUserID == fromID {
		return nil, models.NewValidationError("A valid recipient is required")
	}
	if _, err := s.users.GetByID(ctx, toUserID); err != nil {
		return nil, err
	}

	thread, err := s.threads.FindByParticipants(ctx, fromID, toUserID, petID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		lo, hi := models.NormalizePair(fromID, toUserID)
		thread = &models.MessageThread{UserAID: lo, UserBID: hi, PetID: petID}
		if err := s.threads.Create(ctx, thread); err != nil {
			return nil, err
		}
	}
	return s.GetThread(ctx, thread.ID, fromID)
}

// DeleteForMe hides a message from the caller only. Repeat calls are
// no-ops.
func (s *MessageService) DeleteForMe(ctx context.Context, threadID, messageID, callerID uint) error {
	thread, err := s.threads.GetByID(ctx, threadID)
	if err != nil {
		return err
	}
	if !thread.HasParticipant(callerID) {
		return models.NewNotFoundError("Thread")
	}

	for i := range thread.Messages {
		msg := &thread.Messages[i]
		if msg.ID != messageID {
			continue
		}
		if msg.DeletedForUser(callerID) {
			return nil
		}
		msg.DeletedFor = append(msg.DeletedFor, callerID)
		return s.threads.UpdateMessage(ctx, msg)
	}
	return models.NewNotFoundError("Message")
}
