package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/loboot/vote-system/internal/models"
	"github.com/loboot/vote-system/internal/service"
	"go.uber.org/zap"
)

func (h *Handler) login(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(h.out, "usage: login <username>")
		return
	}
	username := args[0]
	password, ok := h.readLine(ctx, "password: ")
	if !ok {
		return
	}
	if errs := service.ValidateLogin(username, password); errs != nil {
		h.printErr(errs)
		return
	}

	user, err := h.repo.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			fmt.Fprintln(h.out, "invalid username or password")
			return
		}
		h.printErr(err)
		return
	}
	fmt.Fprintf(h.out, "signed in as %s\n", user.Username)
}

func (h *Handler) register(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(h.out, "usage: register <username>")
		return
	}
	username := args[0]
	password, ok := h.readLine(ctx, "password: ")
	if !ok {
		return
	}
	confirm, ok := h.readLine(ctx, "confirm password: ")
	if !ok {
		return
	}
	if errs := service.ValidateRegister(username, password, confirm); errs != nil {
		h.printErr(errs)
		return
	}

	if err := h.repo.Register(ctx, username, password); err != nil {
		h.printErr(err)
		return
	}
	// registration signs the user straight in
	user, err := h.repo.Login(ctx, username, password)
	if err != nil {
		fmt.Fprintln(h.out, "registered; please login")
		h.l.Warn("auto-login after register failed", zap.String("username", username), zap.Error(err))
		return
	}
	fmt.Fprintf(h.out, "registered and signed in as %s\n", user.Username)
}

func (h *Handler) logout() {
	if err := h.sess.Clear(); err != nil {
		h.printErr(err)
		return
	}
	fmt.Fprintln(h.out, "signed out")
}

func (h *Handler) whoami() {
	user := h.sess.User()
	if user == nil {
		fmt.Fprintln(h.out, "not signed in")
		return
	}
	fmt.Fprintf(h.out, "%s (id %d)\n", user.Username, user.ID)
}
