package viewmodel

import (
	"context"

	"github.com/wolfman30/neardoc/internal/domain"
	"github.com/wolfman30/neardoc/internal/notifications"
)

// NotificationsView is the inbox as shown.
type NotificationsView struct {
	Items  []domain.Notification
	Unread int
}

// NotificationsScreen shows the doctor or patient inbox, newest first.
type NotificationsScreen struct {
	backend   Backend
	subject   Subject
	forDoctor bool
	inbox     *notifications.Inbox
	state     loader[NotificationsView]
}

// NewNotificationsScreen lists the doctor or patient notifications for
// subject.
func NewNotificationsScreen(backend Backend, subject Subject, forDoctor bool) *NotificationsScreen {
	return &NotificationsScreen{
		backend:   backend,
		subject:   subject,
		forDoctor: forDoctor,
		inbox:     notifications.NewInbox(nil),
	}
}

func (s *NotificationsScreen) Snapshot() State[NotificationsView] { return s.state.snapshot() }

func (s *NotificationsScreen) Load(ctx context.Context) {
	ticket := s.state.begin()
	var items []domain.Notification
	if s.subject.IsPreview() {
		items = previewNotifications()
	} else {
		var err error
		items, err = s.backend.Notifications(ctx, s.forDoctor)
		if err != nil {
			s.state.fail(ticket, failure("Failed to load notifications", err))
			return
		}
	}
	s.state.commitWith(ticket, func(NotificationsView) NotificationsView {
		s.inbox.Replace(items)
		return s.view()
	})
}

func (s *NotificationsScreen) MarkRead(id string) {
	if s.inbox.MarkRead(id) {
		s.state.update(func(NotificationsView) NotificationsView { return s.view() })
	}
}

func (s *NotificationsScreen) MarkAllRead() {
	s.inbox.MarkAllRead()
	s.state.update(func(NotificationsView) NotificationsView { return s.view() })
}

func (s *NotificationsScreen) view() NotificationsView {
	return NotificationsView{Items: s.inbox.Items(), Unread: s.inbox.UnreadCount()}
}
