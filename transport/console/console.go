// Package console is a line-oriented front end: it prints both boards and
// prompts for placements and shots until the match ends.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wricardo/battleplanes/game/engine"
	"github.com/wricardo/battleplanes/game/service"
)

var errQuit = errors.New("quit")

// Option configures a Console
type Option func(*Console)

// WithLogger sets the console logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Console) {
		c.logger = logger
	}
}

// Console plays one session against the in-process game service.
type Console struct {
	svc    service.GameService
	in     *bufio.Scanner
	out    io.Writer
	logger zerolog.Logger
}

// New creates a console reading commands from in and writing to out.
func New(svc service.GameService, in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		svc:    svc,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run creates a session with the named preset and plays it. It returns nil
// when the match ends, the input is exhausted or the player types "quit".
func (c *Console) Run(ctx context.Context, configName string) error {
	info, err := c.svc.CreateSession(ctx, configName)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	c.logger.Info().Str("session", info.ID).Str("config", info.ConfigName).Msg("console session started")

	view := info.View
	if view == nil {
		if view, err = c.svc.GetGameView(ctx, info.ID); err != nil {
			return err
		}
	}
	fmt.Fprintf(c.out, "Session %s (%s)\n", info.ID, info.ConfigName)
	if view.Message != "" {
		fmt.Fprintln(c.out, view.Message)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.printBoards(view)

		if view.GameOver {
			fmt.Fprintln(c.out, view.Message)
			return nil
		}

		switch view.Phase {
		case engine.YouPlaceNewPlane:
			view, err = c.placePlane(ctx, info.ID, view)
		case engine.YouBombard:
			view, err = c.bombard(ctx, info.ID, view)
		default:
			// the service settles opponent turns before returning
			return fmt.Errorf("session %s stuck in phase %s", info.ID, view.Phase)
		}

		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out, "Bye.")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Run is a shortcut for New(svc, in, out).Run(ctx, configName).
func Run(ctx context.Context, svc service.GameService, configName string, in io.Reader, out io.Writer, opts ...Option) error {
	return New(svc, in, out, opts...).Run(ctx, configName)
}

func (c *Console) placePlane(ctx context.Context, sessionID string, view *service.GameView) (*service.GameView, error) {
	head, err := c.prompt("new plane at: ")
	if err != nil {
		return view, err
	}
	orientation, err := c.prompt("orientation (N/E/S/W): ")
	if err != nil {
		return view, err
	}

	result, err := c.svc.PlacePlane(ctx, sessionID, head, orientation)
	if err != nil {
		fmt.Fprintln(c.out, err)
		return c.svc.GetGameView(ctx, sessionID)
	}
	c.printResult(result)
	return result.View, nil
}

func (c *Console) bombard(ctx context.Context, sessionID string, view *service.GameView) (*service.GameView, error) {
	target, err := c.prompt("Bombard coordinate: ")
	if err != nil {
		return view, err
	}

	result, err := c.svc.Bombard(ctx, sessionID, target)
	if err != nil {
		fmt.Fprintln(c.out, err)
		return c.svc.GetGameView(ctx, sessionID)
	}
	c.printResult(result)
	return result.View, nil
}

// prompt reads the next non-empty line, upper-cased.
func (c *Console) prompt(text string) (string, error) {
	for {
		fmt.Fprint(c.out, text)
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "quit") || strings.EqualFold(line, "exit") {
			return "", errQuit
		}
		return strings.ToUpper(line), nil
	}
}

func (c *Console) printBoards(view *service.GameView) {
	fmt.Fprintln(c.out)
	fmt.Fprint(c.out, engine.RenderSideBySide("YOUR BOARD", view.YourBoardASCII, "SCRAPBOOK", view.ScrapbookASCII))
	fmt.Fprintf(c.out, "planes left: you %d, opponent %d\n", view.YourPlanesLeft, view.OpponentPlanesLeft)
}

func (c *Console) printResult(result *service.TurnResult) {
	fmt.Fprintln(c.out, result.Message)
	for _, event := range result.Events {
		if event.Actor == service.ActorOpponent {
			fmt.Fprintln(c.out, event.Message)
		}
	}
}
