package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherInvokesAllHandlers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var calls []string
	dispatcher.Subscribe(EventUserSignedIn, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventUserSignedIn, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	dispatcher.Subscribe(EventUserSignedOut, func(context.Context, Event) error {
		calls = append(calls, "other-type")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventUserSignedIn})
	assert.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls, "a failing handler must not stop the rest")
}
