package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/goleak"

	"learnleap/internal/assessment"
	"learnleap/internal/config"
	"learnleap/internal/models"
	"learnleap/internal/service/ai"
	"learnleap/internal/service/catalog"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(provider ai.Provider) *Store {
	return NewStore(Options{
		Provider: provider,
		Upload:   config.Default().Upload,
		Logger:   zerolog.Nop(),
	})
}

func mockProvider() ai.Provider {
	return ai.NewMockProvider(catalog.NewStatic(catalog.DefaultData()), 0, zerolog.Nop())
}

func failingProvider() ai.Provider {
	return ai.ProviderFunc(func(context.Context, string, []models.Message, models.PageContext) (string, error) {
		return "", errors.New("upstream unavailable")
	})
}

var home = models.NewPageContext("/")

func TestNewStoreStartsClosedWithGreeting(t *testing.T) {
	s := newTestStore(mockProvider())
	st := s.State()
	if st.IsOpen || st.IsMinimized || st.IsLoading {
		t.Fatalf("unexpected flags: %+v", st)
	}
	if !st.ShowSuggestions {
		t.Fatalf("suggestions should be visible initially")
	}
	if len(st.Messages) != 1 || st.Messages[0].Role != models.RoleAssistant || st.Messages[0].Content != Greeting {
		t.Fatalf("unexpected initial messages: %#v", st.Messages)
	}
}

func TestWidgetVisibility(t *testing.T) {
	s := newTestStore(mockProvider())

	s.Minimize()
	if s.State().IsMinimized {
		t.Fatalf("minimize must not apply to a closed widget")
	}

	if !s.Toggle() {
		t.Fatalf("toggle should open")
	}
	s.Minimize()
	if st := s.State(); !st.IsOpen || !st.IsMinimized {
		t.Fatalf("expected open and minimized: %+v", st)
	}
	s.Restore()
	if s.State().IsMinimized {
		t.Fatalf("restore should clear minimized")
	}

	s.Minimize()
	s.Close()
	s.Close()
	if st := s.State(); st.IsOpen {
		t.Fatalf("close twice should leave it closed")
	}
	s.Open()
	if st := s.State(); !st.IsOpen || st.IsMinimized {
		t.Fatalf("open should clear minimized: %+v", st)
	}
	if got := len(s.State().Messages); got != 1 {
		t.Fatalf("visibility changes must not touch messages, got %d", got)
	}
}

func TestSendUserMessageAppendsPair(t *testing.T) {
	s := newTestStore(mockProvider())
	if !s.SendUserMessage(context.Background(), "  How can I showcase my leadership skills?  ", home) {
		t.Fatalf("send should report true")
	}
	st := s.State()
	if len(st.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(st.Messages))
	}
	user, reply := st.Messages[1], st.Messages[2]
	if user.Role != models.RoleUser || user.Content != "How can I showcase my leadership skills?" {
		t.Fatalf("unexpected user message: %#v", user)
	}
	if !strings.HasPrefix(reply.Content, "Great question about showcasing leadership skills!") {
		t.Fatalf("showcase must win over the leadership card: %q", reply.Content)
	}
	if st.IsLoading || !st.ShowSuggestions {
		t.Fatalf("unexpected flags after reply: %+v", st)
	}
}

func TestSendUserMessageFallback(t *testing.T) {
	s := newTestStore(failingProvider())
	s.SendUserMessage(context.Background(), "hello", home)
	st := s.State()
	if len(st.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(st.Messages))
	}
	if st.Messages[2].Content != SendFallback {
		t.Fatalf("expected fallback reply, got %q", st.Messages[2].Content)
	}
	if st.IsLoading {
		t.Fatalf("loading must be cleared after failure")
	}
}

func TestSendUserMessagePanicAndEmptyReply(t *testing.T) {
	panicking := ai.ProviderFunc(func(context.Context, string, []models.Message, models.PageContext) (string, error) {
		panic("boom")
	})
	s := newTestStore(panicking)
	s.SendUserMessage(context.Background(), "hello", home)
	if got := s.State().Messages[2].Content; got != SendFallback {
		t.Fatalf("panic should become fallback, got %q", got)
	}

	empty := ai.ProviderFunc(func(context.Context, string, []models.Message, models.PageContext) (string, error) {
		return "   ", nil
	})
	s = newTestStore(empty)
	s.SendUserMessage(context.Background(), "hello", home)
	if got := s.State().Messages[2].Content; got != SendFallback {
		t.Fatalf("empty reply should become fallback, got %q", got)
	}
}

func TestSendUserMessageBlankIsNoop(t *testing.T) {
	s := newTestStore(mockProvider())
	before := s.State()
	for _, text := range []string{"", "   ", "\n\t"} {
		if s.SendUserMessage(context.Background(), text, home) {
			t.Fatalf("blank input %q should be ignored", text)
		}
	}
	after := s.State()
	if len(after.Messages) != len(before.Messages) || after.IsLoading != before.IsLoading {
		t.Fatalf("blank input changed state: %+v", after)
	}
}

func TestHistoryPassedToProvider(t *testing.T) {
	var gotHistory []models.Message
	var gotPage models.PageContext
	p := ai.ProviderFunc(func(_ context.Context, msg string, history []models.Message, page models.PageContext) (string, error) {
		gotHistory = history
		gotPage = page
		return "ok", nil
	})
	s := newTestStore(p)
	s.SendUserMessage(context.Background(), "first", models.NewPageContext("/dashboard/skills"))

	if len(gotHistory) != 2 || gotHistory[1].Content != "first" {
		t.Fatalf("history should include the new message: %#v", gotHistory)
	}
	if gotPage.PageName != "skills" {
		t.Fatalf("unexpected page: %+v", gotPage)
	}
}

func TestUploadValidation(t *testing.T) {
	s := newTestStore(mockProvider())
	ctx := context.Background()

	err := s.UploadFile(ctx, models.FileRef{Name: "cv.pdf", SizeBytes: 6 << 20})
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.TooLarge || verr.Error() != "File size must be less than 5MB" {
		t.Fatalf("expected size error, got %v", err)
	}

	err = s.UploadFile(ctx, models.FileRef{Name: "photo.png", SizeBytes: 10})
	if !errors.As(err, &verr) || verr.TooLarge || verr.Error() != "File type must be one of: .pdf, .doc, .docx, .txt" {
		t.Fatalf("expected type error, got %v", err)
	}

	if got := len(s.State().Messages); got != 1 {
		t.Fatalf("rejected uploads must not add messages, got %d", got)
	}

	if err := s.ValidateUpload(models.FileRef{Name: "exact.PDF", SizeBytes: 5 << 20}); err != nil {
		t.Fatalf("size at the limit with upper-case extension should pass: %v", err)
	}
}

func TestUploadReplies(t *testing.T) {
	cases := map[string]string{
		"resume.pdf":  uploadDocumentReply,
		"essay.docx":  uploadDocumentReply,
		"letter.doc":  uploadDocumentReply,
		"notes.txt":   uploadTextReply,
		"archive.odt": uploadGenericReply,
	}
	for name, want := range cases {
		s := NewStore(Options{
			Upload: config.UploadConfig{MaxSizeMB: 1, AcceptedExtensions: []string{".pdf", ".doc", ".docx", ".txt", ".odt"}},
			Logger: zerolog.Nop(),
		})
		if err := s.UploadFile(context.Background(), models.FileRef{Name: name, SizeBytes: 1024, MimeType: "application/octet-stream"}); err != nil {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
		st := s.State()
		if len(st.Messages) != 3 {
			t.Fatalf("%s: expected 3 messages, got %d", name, len(st.Messages))
		}
		user := st.Messages[1]
		if user.Content != "I've uploaded a file: "+name || user.Attachment == nil || user.Attachment.Name != name {
			t.Fatalf("%s: unexpected upload message %#v", name, user)
		}
		if st.Messages[2].Content != want {
			t.Fatalf("%s: unexpected reply %q", name, st.Messages[2].Content)
		}
	}
}

func TestUploadOutlivesCallerContext(t *testing.T) {
	s := NewStore(Options{UploadDelay: 50 * time.Millisecond, Logger: zerolog.Nop()})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	if err := s.UploadFile(ctx, models.FileRef{Name: "a.txt", SizeBytes: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st := s.State()
	if len(st.Messages) != 3 || st.Messages[2].Content != uploadTextReply {
		t.Fatalf("expected the text analysis reply: %#v", st.Messages)
	}
	if st.IsLoading {
		t.Fatalf("loading flag left raised")
	}
}

func TestSendUserMessageOutlivesCallerContext(t *testing.T) {
	provider := ai.NewMockProvider(catalog.NewStatic(catalog.DefaultData()), 100*time.Millisecond, zerolog.Nop())
	s := newTestStore(provider)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if !s.SendUserMessage(ctx, "What are the upcoming deadlines?", home) {
		t.Fatalf("message should be accepted")
	}
	if ctx.Err() == nil {
		t.Fatalf("caller context should have expired during the reply")
	}
	st := s.State()
	if len(st.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(st.Messages))
	}
	last := st.Messages[2].Content
	if last == SendFallback || !strings.HasPrefix(last, "Your upcoming scholarship deadlines:") {
		t.Fatalf("expected the deadline reply, got %q", last)
	}
}

func TestAssessmentTriggerPhrase(t *testing.T) {
	for text, want := range map[string]bool{
		"Can you assess my skills?": true,
		"I want a skills test":      true,
		"Please evaluate my skill":  true,
		"What skills are valued?":   false,
		"assess my essay":           false,
		"SKILL ASSESSMENT please":   true,
	} {
		if got := IsAssessmentRequest(text); got != want {
			t.Fatalf("IsAssessmentRequest(%q) = %v", text, got)
		}
	}

	s := newTestStore(failingProvider())
	s.SendUserMessage(context.Background(), "Can you assess my skills?", home)
	snap := s.Snapshot()
	if snap.Assessment == nil || snap.Assessment.Index != 0 || snap.Assessment.Total != 5 {
		t.Fatalf("assessment should be active: %+v", snap.Assessment)
	}
	last := snap.State.Messages[len(snap.State.Messages)-1]
	if last.Content != AssessmentIntro {
		t.Fatalf("expected intro, got %q", last.Content)
	}
	if snap.Suggestions != nil {
		t.Fatalf("suggestions are hidden while assessing")
	}
}

func TestAssessmentComplete(t *testing.T) {
	s := newTestStore(mockProvider())
	ctx := context.Background()
	s.StartAssessment(ctx)
	if got := len(s.State().Messages); got != 3 {
		t.Fatalf("start should add request and intro, got %d", got)
	}

	for i, q := range assessment.Questions() {
		status, err := s.AnswerAssessment(ctx, q.Options[0].ID)
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if i < 4 && status != assessment.StatusAsking {
			t.Fatalf("answer %d: unexpected status %s", i, status)
		}
		if i == 4 && status != assessment.StatusComplete {
			t.Fatalf("final status %s", status)
		}
	}

	st := s.State()
	if len(st.Messages) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(st.Messages))
	}
	if st.Messages[3].Content != AssessmentFinished {
		t.Fatalf("unexpected completion message %q", st.Messages[3].Content)
	}
	if !strings.HasPrefix(st.Messages[4].Content, "Thank you for completing") {
		t.Fatalf("unexpected summary %q", st.Messages[4].Content)
	}
	if !st.ShowSuggestions || st.IsLoading {
		t.Fatalf("unexpected flags: %+v", st)
	}

	if _, err := s.AnswerAssessment(ctx, "a"); !errors.Is(err, assessment.ErrNotActive) {
		t.Fatalf("answers after completion must be rejected, got %v", err)
	}
}

func TestAssessmentSkip(t *testing.T) {
	s := newTestStore(mockProvider())
	ctx := context.Background()
	if err := s.SkipAssessment(); !errors.Is(err, assessment.ErrNotActive) {
		t.Fatalf("skip without assessment: %v", err)
	}

	s.StartAssessment(ctx)
	if _, err := s.AnswerAssessment(ctx, "zz"); !errors.Is(err, assessment.ErrUnknownOption) {
		t.Fatalf("expected unknown option, got %v", err)
	}
	if _, err := s.AnswerAssessment(ctx, "b"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	before := len(s.State().Messages)
	if err := s.SkipAssessment(); err != nil {
		t.Fatalf("skip: %v", err)
	}
	st := s.State()
	if len(st.Messages) != before {
		t.Fatalf("skip must not append messages")
	}
	if !st.ShowSuggestions {
		t.Fatalf("skip should show suggestions again")
	}
	if s.Snapshot().Assessment != nil {
		t.Fatalf("assessment should be gone after skip")
	}
	if _, err := s.AnswerAssessment(ctx, "a"); !errors.Is(err, assessment.ErrNotActive) {
		t.Fatalf("answers after skip must be rejected, got %v", err)
	}
}

func TestClickTopic(t *testing.T) {
	s := newTestStore(mockProvider())
	ctx := context.Background()

	if err := s.ClickTopic(ctx, "scholarships", home); err != nil {
		t.Fatalf("click topic: %v", err)
	}
	st := s.State()
	if st.Messages[1].Content != "Tell me about scholarships" {
		t.Fatalf("unexpected topic prompt %q", st.Messages[1].Content)
	}
	if !strings.HasPrefix(st.Messages[2].Content, "Scholarships are financial awards") {
		t.Fatalf("unexpected topic reply %q", st.Messages[2].Content)
	}

	if err := s.ClickTopic(ctx, "astronomy", home); !errors.Is(err, ErrUnknownTopic) {
		t.Fatalf("expected unknown topic, got %v", err)
	}
}

func TestSnapshotSuggestions(t *testing.T) {
	s := newTestStore(mockProvider())
	if got := s.Snapshot().Suggestions; len(got) != 4 {
		t.Fatalf("initial suggestions: %v", got)
	}
	s.SendUserMessage(context.Background(), "Tips for my essay", home)
	if got := s.Snapshot().Suggestions; len(got) != 3 {
		t.Fatalf("contextual suggestions: %v", got)
	}
}
