package platform

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySlot(t *testing.T) {
	ctx := context.Background()
	var slot MemorySlot

	_, err := slot.Load(ctx)
	assert.ErrorIs(t, err, ErrSlotEmpty)

	require.NoError(t, slot.Save(ctx, "room-1"))
	got, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "room-1", got)

	require.NoError(t, slot.Clear(ctx))
	_, err = slot.Load(ctx)
	assert.ErrorIs(t, err, ErrSlotEmpty)
}

func TestRedisSlotKeyIsPerUser(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	a := NewRedisSlot(client, 1, time.Hour)
	b := NewRedisSlot(client, 2, time.Hour)
	assert.Equal(t, "alias:1:currentRoomId", a.Key())
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestHeadlessButton(t *testing.T) {
	var b HeadlessButton
	assert.False(t, b.Press())

	pressed := 0
	b.Show("Start", func() { pressed++ })
	text, visible := b.Visible()
	assert.Equal(t, "Start", text)
	assert.True(t, visible)
	assert.True(t, b.Press())

	b.Hide()
	assert.False(t, b.Press())
	assert.Equal(t, 1, pressed)
}

func TestFeedbackKinds(t *testing.T) {
	assert.True(t, FeedbackSuccess.IsNotification())
	assert.True(t, FeedbackWarning.IsNotification())
	assert.False(t, FeedbackLight.IsNotification())
	assert.False(t, FeedbackMedium.IsNotification())

	var got []Feedback
	h := HapticsFunc(func(f Feedback) { got = append(got, f) })
	h.Feedback(FeedbackHeavy)
	assert.Equal(t, []Feedback{FeedbackHeavy}, got)
}

func TestParseInitData(t *testing.T) {
	raw := "query_id=AAH&user=%7B%22id%22%3A279058397%2C%22first_name%22%3A%22Vlad%22%2C%22username%22%3A%22vdkfrost%22%7D&auth_date=1700000000&start_param=3f2b9c1e-8a6d-4a4e-9a43-1c2d3e4f5a6b&hash=c501b71e"

	data, err := ParseInitData(raw)
	require.NoError(t, err)
	require.NotNil(t, data.User)
	assert.Equal(t, int64(279058397), data.User.ID)
	assert.Equal(t, "Vlad", data.User.FirstName)
	assert.Equal(t, "vdkfrost", data.User.Username)
	assert.Equal(t, "3f2b9c1e-8a6d-4a4e-9a43-1c2d3e4f5a6b", data.StartParam)
	assert.Equal(t, int64(1700000000), data.AuthDate.Unix())
	assert.Equal(t, raw, data.Raw)
}

func TestParseInitDataErrors(t *testing.T) {
	empty, err := ParseInitData("")
	require.NoError(t, err)
	assert.Nil(t, empty.User)

	for _, raw := range []string{
		"user=not-json",
		"user=%7B%22first_name%22%3A%22x%22%7D",
		"auth_date=yesterday",
		"%zz",
	} {
		_, err := ParseInitData(raw)
		assert.Error(t, err, raw)
	}
}
