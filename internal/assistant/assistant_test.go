package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/cdp-assistant/internal/kb"
	"github.com/ziadkadry99/cdp-assistant/internal/matcher"
)

type fakeRecorder struct {
	records []Record
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, rec Record) error {
	f.records = append(f.records, rec)
	return f.err
}

func TestAnswerMatched(t *testing.T) {
	rec := &fakeRecorder{}
	a := New(kb.Default(), WithRecorder(rec))

	ans := a.Answer(context.Background(), "cli", "how do I track an event")
	assert.True(t, ans.Matched)
	assert.Equal(t, matcher.Result{Platform: kb.PlatformSegment, Topic: "tracking", Confidence: 2}, ans.Result)
	assert.Contains(t, ans.Text, "To track events in Segment:")

	require.Len(t, rec.records, 1)
	assert.Equal(t, "cli", rec.records[0].Source)
	assert.True(t, rec.records[0].Matched)
	assert.False(t, rec.records[0].At.IsZero())
}

func TestAnswerFallback(t *testing.T) {
	rec := &fakeRecorder{}
	a := New(kb.Default(), WithRecorder(rec))

	ans := a.Answer(context.Background(), "dashboard", "xyz")
	assert.False(t, ans.Matched)
	assert.Equal(t, DefaultFallback, ans.Text)
	require.Len(t, rec.records, 1)
	assert.False(t, rec.records[0].Matched)
	assert.Equal(t, "xyz", rec.records[0].Question)
}

func TestCustomFallback(t *testing.T) {
	a := New(kb.Default(), WithFallback("Try again."))
	assert.Equal(t, "Try again.", a.Answer(context.Background(), "cli", "xyz").Text)

	// an empty override keeps the default
	a = New(kb.Default(), WithFallback(""))
	assert.Equal(t, DefaultFallback, a.Fallback())
}

func TestBlankQuestionNotRecorded(t *testing.T) {
	rec := &fakeRecorder{}
	a := New(kb.Default(), WithRecorder(rec))

	ans := a.Answer(context.Background(), "cli", "   ")
	assert.Equal(t, DefaultFallback, ans.Text)
	assert.Empty(t, rec.records)
}

func TestRecorderErrorDoesNotChangeAnswer(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	a := New(kb.Default(), WithRecorder(rec))

	ans := a.Answer(context.Background(), "cli", "connect a source")
	assert.True(t, ans.Matched)
	assert.Contains(t, ans.Text, "Zeotap")
}

func TestResponder(t *testing.T) {
	a := New(kb.Default())
	respond := a.Responder("dashboard")
	assert.Equal(t, DefaultFallback, respond("xyz"))
	assert.Contains(t, respond("set up streams to collect data"), "Lytics")
}
