package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/neardoc/internal/domain"
)

func note(id, date string, read bool) domain.Notification {
	return domain.Notification{ID: id, Title: id, Date: domain.MustParseDate(date), IsRead: read}
}

func ids(items []domain.Notification) []string {
	out := make([]string, 0, len(items))
	for _, n := range items {
		out = append(out, n.ID)
	}
	return out
}

func TestInboxSortsNewestFirstStable(t *testing.T) {
	in := NewInbox([]domain.Notification{
		note("a", "2025-03-10", false),
		note("b", "2025-03-14", false),
		note("c", "2025-03-10", false),
		note("d", "2025-03-12", true),
	})
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(in.Items()))
	assert.Equal(t, 3, in.UnreadCount())
}

func TestMarkRead(t *testing.T) {
	in := NewInbox([]domain.Notification{note("a", "2025-03-10", false), note("b", "2025-03-11", false)})

	require.True(t, in.MarkRead("a"))
	assert.False(t, in.MarkRead("missing"))
	assert.Equal(t, 1, in.UnreadCount())

	in.MarkAllRead()
	assert.Zero(t, in.UnreadCount())
}

func TestReplaceNeverRevertsReadFlag(t *testing.T) {
	in := NewInbox([]domain.Notification{note("a", "2025-03-10", false), note("b", "2025-03-11", false)})
	in.MarkRead("a")

	in.Replace([]domain.Notification{
		note("a", "2025-03-10", false),
		note("b", "2025-03-11", false),
		note("c", "2025-03-12", false),
	})

	items := in.Items()
	assert.Equal(t, []string{"c", "b", "a"}, ids(items))
	assert.True(t, items[2].IsRead)
	assert.Equal(t, 2, in.UnreadCount())
}

func TestItemsReturnsCopy(t *testing.T) {
	in := NewInbox([]domain.Notification{note("a", "2025-03-10", false)})
	items := in.Items()
	items[0].IsRead = true
	assert.Equal(t, 1, in.UnreadCount())
}

func TestZeroValueInboxIsUsable(t *testing.T) {
	var in Inbox
	assert.False(t, in.MarkRead("a"))
	in.MarkAllRead()

	in.Replace([]domain.Notification{note("a", "2025-03-10", false), note("b", "2025-03-11", false)})
	assert.Equal(t, 2, in.UnreadCount())
	require.True(t, in.MarkRead("a"))
	assert.Equal(t, 1, in.UnreadCount())
	assert.Equal(t, []string{"b", "a"}, ids(in.Items()))
}
