package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"learnleap/internal/config"
	"learnleap/internal/conversation"
	"learnleap/internal/models"
	"learnleap/internal/richcontent"
	"learnleap/internal/service/ai"
	"learnleap/internal/service/catalog"
	"learnleap/internal/suggestion"
)

const chatHelp = `Commands:
  /open /close /toggle /minimize /restore   widget visibility
  /upload <path>                            attach a file
  /assess                                   start the skill assessment
  /answer <id>                              answer the current question
  /skip                                     skip the assessment
  /suggest [n]                              list suggestions, or send number n
  /topics                                   list popular topics
  /topic <name>                             pick a topic
  /help                                     this text
  /quit                                     leave
Anything else is sent as a message.`

func newChatCmd(opts *rootOptions) *cobra.Command {
	var route string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant from a terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if opts.configPath != "" {
				loaded, err := config.Load(opts.configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cfg = loaded
			}
			kb := catalog.NewStatic(catalog.DefaultData())
			provider := ai.NewMockProvider(kb, cfg.BasicConfig.ResponseDelay(), zerolog.Nop())
			store := conversation.NewStore(conversation.OptionsFromConfig(cfg, provider, zerolog.Nop()))
			return newREPL(store, route, cmd.OutOrStdout()).run(cmd.Context(), cmd.InOrStdin())
		},
	}
	cmd.Flags().StringVar(&route, "route", "/", "host page route the widget is embedded in")
	return cmd
}

type repl struct {
	store *conversation.Store
	page  models.PageContext
	out   io.Writer
	seen  int
}

func newREPL(store *conversation.Store, route string, out io.Writer) *repl {
	return &repl{store: store, page: models.NewPageContext(route), out: out}
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(r.out, "LearnLeap assistant on %s. Type /help for commands.\n", r.page.Route)
	r.store.Open()
	r.flush()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		quit, err := r.handle(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(r.out, "! %v\n", err)
		}
		r.flush()
		if quit {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (r *repl) handle(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		r.store.SendUserMessage(ctx, line, r.page)
		return false, nil
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprintln(r.out, chatHelp)
	case "/open":
		r.store.Open()
		r.printWidget()
	case "/close":
		r.store.Close()
		r.printWidget()
	case "/toggle":
		r.store.Toggle()
		r.printWidget()
	case "/minimize":
		r.store.Minimize()
		r.printWidget()
	case "/restore":
		r.store.Restore()
		r.printWidget()
	case "/upload":
		return false, r.upload(ctx, arg)
	case "/assess":
		r.store.StartAssessment(ctx)
	case "/answer":
		_, err := r.store.AnswerAssessment(ctx, arg)
		return false, err
	case "/skip":
		return false, r.store.SkipAssessment()
	case "/suggest":
		return false, r.suggest(ctx, arg)
	case "/topics":
		for _, t := range suggestion.Topics() {
			fmt.Fprintf(r.out, "  - %s\n", t.Name)
		}
	case "/topic":
		return false, r.store.ClickTopic(ctx, arg, r.page)
	default:
		return false, fmt.Errorf("unknown command %s, try /help", name)
	}
	return false, nil
}

func (r *repl) upload(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("usage: /upload <path>")
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return err
	}
	return r.store.UploadFile(ctx, models.FileRef{
		Name:      filepath.Base(path),
		SizeBytes: uint64(info.Size()),
		MimeType:  mtype.String(),
	})
}

func (r *repl) suggest(ctx context.Context, arg string) error {
	chips := r.store.Snapshot().Suggestions
	if len(chips) == 0 {
		chips = suggestion.ForRoute(r.page.Route)
	}
	if arg == "" {
		for i, chip := range chips {
			fmt.Fprintf(r.out, "  %d. %s\n", i+1, chip)
		}
		return nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(chips) {
		return fmt.Errorf("pick a suggestion between 1 and %d", len(chips))
	}
	r.store.ClickSuggestion(ctx, chips[n-1], r.page)
	return nil
}

func (r *repl) printWidget() {
	st := r.store.State()
	switch {
	case !st.IsOpen:
		fmt.Fprintln(r.out, "[widget closed]")
	case st.IsMinimized:
		fmt.Fprintln(r.out, "[widget minimized]")
	default:
		fmt.Fprintln(r.out, "[widget open]")
	}
}

// flush prints the messages appended since the last call and the current
// assessment question, if any.
func (r *repl) flush() {
	snap := r.store.Snapshot()
	msgs := snap.State.Messages
	for _, msg := range msgs[min(r.seen, len(msgs)):] {
		if msg.Role == models.RoleUser {
			continue
		}
		fmt.Fprintln(r.out, "assistant:")
		for _, block := range richcontent.Parse(msg.Content) {
			fmt.Fprintln(r.out, renderBlock(block))
		}
	}
	r.seen = len(msgs)

	if a := snap.Assessment; a != nil {
		fmt.Fprintf(r.out, "Question %d of %d: %s\n", a.Index+1, a.Total, a.Question.Prompt)
		for _, opt := range a.Question.Options {
			fmt.Fprintf(r.out, "  %s) %s\n", opt.ID, opt.Text)
		}
	}
}

func renderBlock(b richcontent.Block) string {
	switch {
	case b.Kind == richcontent.KindSkill && b.Skill != nil:
		s := b.Skill
		out := fmt.Sprintf("    [skill] %s (%s importance)\n    %s", s.Name, s.Importance, s.Description)
		if len(s.RelevantScholarships) > 0 {
			out += "\n    Relevant: " + strings.Join(s.RelevantScholarships, ", ")
		}
		if s.ImprovementTips != "" {
			out += "\n    Tips: " + s.ImprovementTips
		}
		return out
	case b.Kind == richcontent.KindScholarship && b.Scholarship != nil:
		s := b.Scholarship
		return fmt.Sprintf("    [scholarship] %s, %s, due %s, %d%% match\n    %s",
			s.Name, s.Amount, s.Deadline, s.MatchScore, s.Requirements)
	default:
		return strings.TrimRight(b.Text, "\n")
	}
}
