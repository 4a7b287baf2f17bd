package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/loboot/vote-system/internal/models"
	"github.com/loboot/vote-system/internal/repository"
	"github.com/loboot/vote-system/internal/service"
	"github.com/loboot/vote-system/internal/session"
	"go.uber.org/zap"
)

const HelpMessage = `commands:
  register <username>   create an account and sign in
  login <username>      sign in
  logout                sign out
  whoami                show the current user
  list                  list all polls
  mine                  list polls you created
  show <id>             show a poll's options and tallies
  watch <id>            live countdown for a poll (enter to stop)
  vote <id>             open a voting session for a poll
  create                create a new poll
  update <id>           replace a poll's title and options
  delete <id>           delete a poll
  help                  this message
  quit                  exit`

type Handler struct {
	repo  *repository.VoteRepository
	sess  *session.Store
	l     *zap.Logger
	out   io.Writer
	in    io.Reader
	lines chan string
}

func New(repo *repository.VoteRepository, sess *session.Store, l *zap.Logger, in io.Reader, out io.Writer) *Handler {
	return &Handler{
		repo: repo,
		sess: sess,
		l:    l,
		out:  out,
		in:   in,
	}
}

// Run reads commands until the input ends, the user quits, or ctx is
// cancelled. Input is pumped through a channel so interactive flows and the
// watch ticker can select against cancellation.
func (h *Handler) Run(ctx context.Context) error {
	h.lines = make(chan string)
	go func() {
		scanner := bufio.NewScanner(h.in)
		for scanner.Scan() {
			select {
			case h.lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		close(h.lines)
	}()

	if user := h.sess.User(); user != nil {
		fmt.Fprintf(h.out, "signed in as %s\n", user.Username)
	}
	fmt.Fprintln(h.out, `type "help" for commands`)

	for {
		fmt.Fprint(h.out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(h.out)
			return ctx.Err()
		case line, ok := <-h.lines:
			if !ok {
				return nil
			}
			if quit := h.Dispatch(ctx, line); quit {
				return nil
			}
		}
	}
}

// Dispatch executes one command line; it reports whether the user asked to
// quit.
func (h *Handler) Dispatch(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}
	h.l.Info("new command",
		zap.String("command", args[0]),
		zap.Int("args", len(args)-1))

	switch args[0] {
	case "help":
		fmt.Fprintln(h.out, HelpMessage)
	case "quit", "exit":
		return true
	case "register":
		h.register(ctx, args[1:])
	case "login":
		h.login(ctx, args[1:])
	case "logout":
		h.logout()
	case "whoami":
		h.whoami()
	case "list":
		h.list(ctx)
	case "mine":
		h.mine(ctx)
	case "show":
		if id, ok := h.idArg(args[1:]); ok {
			h.show(ctx, id)
		}
	case "watch":
		if id, ok := h.idArg(args[1:]); ok {
			h.watch(ctx, id)
		}
	case "vote":
		if id, ok := h.idArg(args[1:]); ok {
			h.vote(ctx, id)
		}
	case "create":
		h.create(ctx)
	case "update":
		if id, ok := h.idArg(args[1:]); ok {
			h.update(ctx, id)
		}
	case "delete":
		if id, ok := h.idArg(args[1:]); ok {
			h.delete(ctx, id)
		}
	default:
		fmt.Fprintln(h.out, HelpMessage)
	}
	return false
}

func (h *Handler) idArg(args []string) (int, bool) {
	if len(args) == 0 {
		fmt.Fprintln(h.out, "a poll id is required")
		return 0, false
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		fmt.Fprintf(h.out, "invalid poll id: %s\n", args[0])
		return 0, false
	}
	return id, true
}

// readLine prompts and waits for one line of input.
func (h *Handler) readLine(ctx context.Context, prompt string) (string, bool) {
	fmt.Fprint(h.out, prompt)
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-h.lines:
		if !ok {
			return "", false
		}
		return line, true
	}
}

func (h *Handler) requireAuth() bool {
	if h.sess.Authenticated() {
		return true
	}
	fmt.Fprintln(h.out, "login required for this command")
	return false
}

// printErr maps every failure to an actionable user-visible message; nothing
// here is fatal.
func (h *Handler) printErr(err error) {
	var apiErr *models.APIError
	var fieldErrs service.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		for _, part := range strings.Split(fieldErrs.Error(), "; ") {
			fmt.Fprintln(h.out, "  "+part)
		}
	case errors.Is(err, models.ErrNetwork):
		fmt.Fprintln(h.out, "network error, retry later")
	case errors.Is(err, models.ErrUnauthorized):
		fmt.Fprintln(h.out, "unauthorized, please login again")
	case errors.Is(err, models.ErrForbidden):
		fmt.Fprintln(h.out, "you are not allowed to do that")
	case errors.As(err, &apiErr):
		fmt.Fprintln(h.out, apiErr.Message)
	default:
		fmt.Fprintln(h.out, "something went wrong, retry later")
		h.l.Error("command failed", zap.Error(err))
	}
}
