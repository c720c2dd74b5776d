// Package conversation owns chat state. A Store is the only thing that
// mutates a conversation; a Manager hosts many stores behind per-session
// workers.
package conversation

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"learnleap/internal/assessment"
	"learnleap/internal/config"
	"learnleap/internal/metrics"
	"learnleap/internal/models"
	"learnleap/internal/service/ai"
	"learnleap/internal/suggestion"
)

const (
	Greeting           = "Hi there! I'm your LearnLeap assistant. How can I help you today?"
	SendFallback       = "I'm having trouble processing your request right now. Please try again later."
	AssessmentRequest  = "I would like to take a skill assessment"
	AssessmentIntro    = "I can help you assess your skills! This short assessment will help me provide better scholarship recommendations and skill development tips."
	AssessmentFinished = "I completed the skill assessment."

	uploadDocumentReply = "I've analyzed your document. It appears to be a well-structured document with good formatting. To improve it, consider adding more specific examples of your achievements and quantifying your impact where possible. Would you like more detailed feedback on any specific section?"
	uploadTextReply     = "I've reviewed your text file. The content is clear, but you could strengthen it by incorporating more specific details about your educational background and connecting your experiences to your future goals. Would you like suggestions for improving any particular paragraph?"
	uploadGenericReply  = "I've received your file. I can see it contains information that could be relevant to your scholarship applications. Would you like me to analyze any specific aspect of this document?"
)

// Options configures a Store. Zero delays mean no waiting.
type Options struct {
	Provider        ai.Provider
	Upload          config.UploadConfig
	IntroDelay      time.Duration
	UploadDelay     time.Duration
	AssessmentDelay time.Duration
	Logger          zerolog.Logger
}

// OptionsFromConfig maps the service config onto store options.
func OptionsFromConfig(cfg *config.Config, provider ai.Provider, log zerolog.Logger) Options {
	return Options{
		Provider:        provider,
		Upload:          cfg.Upload,
		IntroDelay:      cfg.BasicConfig.ResponseDelay(),
		UploadDelay:     cfg.BasicConfig.UploadDelay(),
		AssessmentDelay: cfg.BasicConfig.AssessmentDelay(),
		Logger:          log,
	}
}

// AssessmentView describes the assessment in progress.
type AssessmentView struct {
	Index    int                 `json:"index"`
	Total    int                 `json:"total"`
	Question assessment.Question `json:"question"`
}

// Snapshot is a point-in-time copy of a store.
type Snapshot struct {
	State       models.ConversationState `json:"state"`
	Assessment  *AssessmentView          `json:"assessment,omitempty"`
	Suggestions []string                 `json:"suggestions,omitempty"`
}

// Store holds one conversation. State reads never wait on the provider;
// operations that suspend are serialized so messages land in call order.
type Store struct {
	opts Options
	log  zerolog.Logger

	opMu sync.Mutex

	mu     sync.RWMutex
	state  models.ConversationState
	engine *assessment.Engine
}

// NewStore creates a closed conversation holding only the greeting.
func NewStore(opts Options) *Store {
	if len(opts.Upload.AcceptedExtensions) == 0 || opts.Upload.MaxSizeMB <= 0 {
		opts.Upload = config.Default().Upload
	}
	return &Store{
		opts: opts,
		log:  opts.Logger.With().Str("component", "conversation").Logger(),
		state: models.ConversationState{
			ShowSuggestions: true,
			Messages:        []models.Message{models.AssistantMessage(Greeting)},
		},
	}
}

func (s *Store) Open() {
	s.mu.Lock()
	s.state.IsOpen = true
	s.state.IsMinimized = false
	s.mu.Unlock()
}

// Close is a no-op on a closed store.
func (s *Store) Close() {
	s.mu.Lock()
	s.state.IsOpen = false
	s.mu.Unlock()
}

func (s *Store) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsOpen = !s.state.IsOpen
	if s.state.IsOpen {
		s.state.IsMinimized = false
	}
	return s.state.IsOpen
}

// Minimize collapses an open widget to its header.
func (s *Store) Minimize() {
	s.mu.Lock()
	if s.state.IsOpen {
		s.state.IsMinimized = true
	}
	s.mu.Unlock()
}

func (s *Store) Restore() {
	s.mu.Lock()
	s.state.IsMinimized = false
	s.mu.Unlock()
}

// AppendMessage pushes msg without touching any flag.
func (s *Store) AppendMessage(msg models.Message) {
	s.mu.Lock()
	s.appendLocked(msg)
	s.mu.Unlock()
}

func (s *Store) appendLocked(msg models.Message) {
	s.state.Messages = append(s.state.Messages, msg)
	metrics.MessagesTotal.WithLabelValues(string(msg.Role)).Inc()
}

// appendUser appends a user message, hides suggestions and optionally
// raises the loading flag.
func (s *Store) appendUser(msg models.Message, loading bool) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLocked(msg)
	s.state.ShowSuggestions = false
	if loading {
		s.state.IsLoading = true
	}
	return s.state.Clone().Messages
}

// appendReply appends an assistant message, clears loading and shows
// suggestions again.
func (s *Store) appendReply(content string) {
	s.mu.Lock()
	s.appendLocked(models.AssistantMessage(content))
	s.state.IsLoading = false
	s.state.ShowSuggestions = true
	s.mu.Unlock()
}

// SendUserMessage appends text and the assistant's answer. Blank text is
// ignored and reported as false. Provider failures become an apology
// message; they are never returned. Once started the exchange runs to the
// end even if ctx is cancelled.
func (s *Store) SendUserMessage(ctx context.Context, text string, page models.PageContext) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	ctx = context.WithoutCancel(ctx)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if IsAssessmentRequest(text) {
		s.startAssessmentLocked(ctx, text)
		return true
	}

	history := s.appendUser(models.UserMessage(text), true)
	reply, err := s.generate(ctx, text, history, page)
	if err != nil {
		s.log.Warn().Err(err).Str("page", page.PageName).Msg("response generation failed, sending fallback")
		metrics.FallbacksTotal.Inc()
		reply = SendFallback
	}
	s.appendReply(reply)
	return true
}

func (s *Store) generate(ctx context.Context, text string, history []models.Message, page models.PageContext) (reply string, err error) {
	if s.opts.Provider == nil {
		return "", fmt.Errorf("no response provider configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v", r)
		}
	}()
	reply, err = s.opts.Provider.Generate(ctx, text, history, page)
	if err == nil && strings.TrimSpace(reply) == "" {
		err = fmt.Errorf("provider returned an empty reply")
	}
	return reply, err
}

// ClickSuggestion sends a suggestion chip as if the student typed it.
func (s *Store) ClickSuggestion(ctx context.Context, text string, page models.PageContext) bool {
	return s.SendUserMessage(ctx, text, page)
}

// ClickTopic either sends "Tell me about <topic>" or starts the topic's
// action.
func (s *Store) ClickTopic(ctx context.Context, name string, page models.PageContext) error {
	topic, ok := suggestion.FindTopic(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTopic, name)
	}
	if topic.Action == suggestion.ActionAssessment {
		s.StartAssessment(ctx)
		return nil
	}
	s.SendUserMessage(ctx, topic.Prompt(), page)
	return nil
}

// ValidateUpload checks ref against the upload constraints.
func (s *Store) ValidateUpload(ref models.FileRef) error {
	return validateUpload(s.opts.Upload, ref)
}

func validateUpload(cfg config.UploadConfig, ref models.FileRef) error {
	if ref.SizeBytes > cfg.MaxUploadBytes() {
		return &ValidationError{
			Reason:   fmt.Sprintf("File size must be less than %dMB", cfg.MaxSizeMB),
			TooLarge: true,
		}
	}
	ext := Extension(ref.Name)
	for _, allowed := range cfg.AcceptedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return &ValidationError{
		Reason: fmt.Sprintf("File type must be one of: %s", strings.Join(cfg.AcceptedExtensions, ", ")),
	}
}

// Extension returns the lower-cased extension of name including the dot,
// or "" when there is none.
func Extension(name string) string {
	return strings.ToLower(path.Ext(name))
}

// UploadFile validates ref and, when accepted, appends the upload message
// and a canned analysis. A rejected upload returns *ValidationError and
// leaves the conversation untouched. An accepted upload always gets its
// analysis, whatever happens to ctx.
func (s *Store) UploadFile(ctx context.Context, ref models.FileRef) error {
	if err := s.ValidateUpload(ref); err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		s.log.Info().Str("file", ref.Name).Uint64("size", ref.SizeBytes).Msg(err.Error())
		return err
	}
	ctx = context.WithoutCancel(ctx)

	s.opMu.Lock()
	defer s.opMu.Unlock()

	attachment := ref
	s.appendUser(models.Message{
		Role:       models.RoleUser,
		Content:    fmt.Sprintf("I've uploaded a file: %s", ref.Name),
		Attachment: &attachment,
	}, true)

	_ = ai.Sleep(ctx, s.opts.UploadDelay)
	s.appendReply(uploadReply(ref.Name))
	metrics.UploadsTotal.WithLabelValues("accepted").Inc()
	return nil
}

func uploadReply(name string) string {
	switch Extension(name) {
	case ".pdf", ".doc", ".docx":
		return uploadDocumentReply
	case ".txt":
		return uploadTextReply
	default:
		return uploadGenericReply
	}
}

// IsAssessmentRequest reports whether text asks for a skill assessment.
func IsAssessmentRequest(text string) bool {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "skill") {
		return false
	}
	return strings.Contains(lower, "assess") || strings.Contains(lower, "test") || strings.Contains(lower, "evaluate")
}

// StartAssessment appends the request and intro messages and begins a new
// assessment, replacing any unfinished one.
func (s *Store) StartAssessment(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.startAssessmentLocked(ctx, AssessmentRequest)
}

func (s *Store) startAssessmentLocked(ctx context.Context, request string) {
	s.appendUser(models.UserMessage(request), true)
	_ = ai.Sleep(context.WithoutCancel(ctx), s.opts.IntroDelay)

	s.mu.Lock()
	s.appendLocked(models.AssistantMessage(AssessmentIntro))
	s.state.IsLoading = false
	s.engine = assessment.NewEngine()
	s.mu.Unlock()
	metrics.AssessmentsTotal.WithLabelValues("started").Inc()
}

// AnswerAssessment records optionID for the current question. Finishing the
// last question appends the completion message and the results summary.
func (s *Store) AnswerAssessment(ctx context.Context, optionID string) (assessment.Status, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	engine := s.engine
	if engine == nil {
		s.mu.Unlock()
		return "", assessment.ErrNotActive
	}
	if err := engine.Answer(optionID); err != nil {
		s.mu.Unlock()
		return engine.Status(), err
	}
	status := engine.Status()
	if status != assessment.StatusComplete {
		s.mu.Unlock()
		return status, nil
	}
	results := engine.Results()
	s.engine = nil
	s.mu.Unlock()

	metrics.AssessmentsTotal.WithLabelValues("completed").Inc()
	s.appendUser(models.UserMessage(AssessmentFinished), true)
	_ = ai.Sleep(context.WithoutCancel(ctx), s.opts.AssessmentDelay)
	s.appendReply(assessment.FormatResults(results))
	return status, nil
}

// SkipAssessment abandons the assessment without appending anything. The
// results of a skipped assessment are never reported.
func (s *Store) SkipAssessment() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return assessment.ErrNotActive
	}
	if err := s.engine.Skip(); err != nil {
		return err
	}
	s.engine = nil
	s.state.ShowSuggestions = true
	metrics.AssessmentsTotal.WithLabelValues("skipped").Inc()
	return nil
}

// State returns a copy of the conversation state.
func (s *Store) State() models.ConversationState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{State: s.state.Clone()}
	if s.engine != nil {
		if q, ok := s.engine.Current(); ok {
			idx, total := s.engine.Progress()
			snap.Assessment = &AssessmentView{Index: idx, Total: total, Question: q}
		}
	}
	if snap.Assessment == nil {
		snap.Suggestions = suggestion.Visible(snap.State)
	}
	return snap
}
