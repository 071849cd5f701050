package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/YarikYar/alias/go/clients/alias_api_client"
	"github.com/YarikYar/alias/go/internal/game/events"
	"github.com/YarikYar/alias/go/internal/game/gesture"
	"github.com/YarikYar/alias/go/internal/game/session"
	"github.com/YarikYar/alias/go/internal/game/store"
)

var errNoRoom = errors.New("no room to play: pass --room or run `alias create`")

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "join a room and play from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "room",
				Usage: "room id; defaults to the init data start_param, then the remembered room",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := configure(cmd)
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			room := cmd.String("room")
			if room == "" {
				room = a.initData.StartParam
			}
			ok, err := a.client.Resume(ctx, room)
			if err != nil {
				return err
			}
			if !ok {
				return errNoRoom
			}

			a.serveState()
			unsubscribe := a.store.Subscribe(newPrinter(a, os.Stdout).print)
			defer unsubscribe()

			return a.repl(ctx, os.Stdin, os.Stdout)
		},
	}
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "create a room hosted by you",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Value: alias_api_client.DefaultCategory,
				Usage: "word category",
			},
			&cli.IntFlag{
				Name:  "teams",
				Value: alias_api_client.DefaultTeamsCount,
				Usage: "number of teams (2-5)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := configure(cmd)
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			room, err := a.client.CreateRoom(ctx, cmd.String("category"), int(cmd.Int("teams")))
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "room %s created (%s, teams: %s)\n", room.ID, room.Category, strings.Join(room.TeamNames, ", "))
			fmt.Fprintf(os.Stdout, "play with: alias play --room %s\n", room.ID)
			return nil
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "print the statistics of a finished game",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "room",
				Usage:    "room id",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := configure(cmd)
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			roomID, err := uuid.Parse(cmd.String("room"))
			if err != nil {
				return fmt.Errorf("invalid room id: %w", err)
			}
			stats, err := a.api.GetStats(ctx, roomID)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		},
	}
}

// repl reads commands until quit, EOF or cancellation
func (a *app) repl(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(out, "commands: up, down, left, right, team <name>, start, press, state, leave, quit")
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			done, err := a.exec(ctx, line, out)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			if done {
				return nil
			}
		}
	}
}

func (a *app) exec(ctx context.Context, line string, out io.Writer) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch cmd := fields[0]; cmd {
	case "up", "down", "left", "right":
		action, fired := a.swipe(events.Action(cmd))
		if fired {
			fmt.Fprintf(out, "swiped %s\n", action)
		}
	case "team":
		if len(fields) != 2 {
			return false, errors.New("usage: team <name>")
		}
		return false, a.client.ChangeTeam(ctx, fields[1])
	case "start":
		return false, a.client.Start(ctx)
	case "press":
		if !a.button.Press() {
			fmt.Fprintln(out, "nothing to press")
		}
	case "state":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return false, enc.Encode(a.store.Snapshot())
	case "leave":
		a.client.Leave(ctx)
		return true, nil
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q", cmd)
	}
	return false, nil
}

// swipe feeds a synthetic drag through the recognizer
func (a *app) swipe(action events.Action) (events.Action, bool) {
	dx, dy := swipeVector(action, a.cfg.Gesture.Threshold)
	a.recognizer.Press()
	const steps = 4
	for i := 1; i <= steps; i++ {
		a.recognizer.Move(dx*float64(i)/steps, dy*float64(i)/steps)
	}
	return a.recognizer.Release(0, 0)
}

// swipeVector returns a drag offset that clears the distance threshold
func swipeVector(action events.Action, threshold float64) (float64, float64) {
	if threshold <= 0 {
		threshold = gesture.DefaultThreshold
	}
	d := threshold * 1.5
	switch action {
	case events.ActionUp:
		return 0, -d
	case events.ActionDown:
		return 0, d
	case events.ActionLeft:
		return -d, 0
	default:
		return d, 0
	}
}

// printer reports state changes to the terminal and keeps the main button
// in step with the lobby.
type printer struct {
	app  *app
	out  io.Writer
	last store.State
}

func newPrinter(a *app, out io.Writer) *printer {
	return &printer{app: a, out: out}
}

func (p *printer) print(s store.State) {
	prev := p.last
	p.last = s

	if screen := session.ScreenFor(s); screen != session.ScreenFor(prev) {
		fmt.Fprintf(p.out, "== %s ==\n", screen)
		p.updateButton(s, screen)
	}
	if s.Connected != prev.Connected {
		fmt.Fprintf(p.out, "connected: %v\n", s.Connected)
	}
	if len(s.Players) != len(prev.Players) {
		names := make([]string, 0, len(s.Players))
		for _, pl := range s.Players {
			names = append(names, fmt.Sprintf("%s[%s]", pl.DisplayName(), pl.Team))
		}
		fmt.Fprintf(p.out, "players: %s\n", strings.Join(names, ", "))
	}
	if s.Room != nil && prev.Room != nil && s.Room.CurrentRound != prev.Room.CurrentRound {
		role := "guessing"
		if s.IsExplainer() {
			role = "explaining"
		}
		fmt.Fprintf(p.out, "round %d, you are %s\n", s.Room.CurrentRound, role)
	}
	if s.CurrentWord != nil && (prev.CurrentWord == nil || prev.CurrentWord.ID != s.CurrentWord.ID) && s.IsExplainer() {
		fmt.Fprintf(p.out, "word: %s\n", s.CurrentWord.Word)
	}
	if s.SecondsLeft != prev.SecondsLeft && s.SecondsLeft%10 == 0 {
		fmt.Fprintf(p.out, "%ds left\n", s.SecondsLeft)
	}
	if !maps.Equal(s.TeamScores, prev.TeamScores) && len(s.TeamScores) > 0 {
		teams := slices.Sorted(maps.Keys(s.TeamScores))
		parts := make([]string, 0, len(teams))
		for _, t := range teams {
			parts = append(parts, fmt.Sprintf("%s %d", t, s.TeamScores[t]))
		}
		fmt.Fprintf(p.out, "scores: %s\n", strings.Join(parts, " | "))
	}
}

func (p *printer) updateButton(s store.State, screen session.Screen) {
	if screen == session.ScreenLobby && s.IsHost() {
		p.app.button.Show("Start game", func() {
			if err := p.app.client.Start(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to start game")
			}
		})
		return
	}
	p.app.button.Hide()
}
