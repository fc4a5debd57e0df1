// Command simulate drives many concurrent rooms against an in-process
// controller: players join, the master stages a question and starts a round,
// players race wrong guesses, and one of them eventually guesses right. It
// exercises the per-session serialization under load without a network and
// prints per-room results at the end.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/partylab/guessroom/game/controller"
	"github.com/partylab/guessroom/game/rules"
	"github.com/partylab/guessroom/game/session"
)

// countingBroadcaster tallies events by name across all rooms.
type countingBroadcaster struct {
	mu     sync.Mutex
	counts map[string]int
}

func (b *countingBroadcaster) Broadcast(sessionID, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.counts == nil {
		b.counts = make(map[string]int)
	}
	b.counts[event]++
}

func (b *countingBroadcaster) snapshot() map[string]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]int, len(b.counts))
	for k, v := range b.counts {
		out[k] = v
	}
	return out
}

func main() {
	cmd := &cli.Command{
		Name:  "simulate",
		Usage: "drive concurrent guessing-game rooms against an in-process controller",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "rooms", Value: 8, Usage: "number of concurrent rooms"},
			&cli.IntFlag{Name: "players", Value: 4, Usage: "players per room (minimum 3)"},
			&cli.IntFlag{Name: "rounds", Value: 5, Usage: "rounds to play per room"},
			&cli.IntFlag{Name: "seed", Value: 0, Usage: "random seed (0 = time-based)"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	roomCount := int(cmd.Int("rooms"))
	playerCount := int(cmd.Int("players"))
	roundCount := int(cmd.Int("rounds"))
	seed := int64(cmd.Int("seed"))
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if playerCount < 3 {
		return fmt.Errorf("need at least 3 players per room, got %d", playerCount)
	}

	registry := session.NewRegistry()
	bc := &countingBroadcaster{}
	rng := rand.New(rand.NewSource(seed))
	var rngMu sync.Mutex
	randIntn := func(n int) int {
		rngMu.Lock()
		defer rngMu.Unlock()
		return rng.Intn(n)
	}

	// Long round duration: rounds in the simulation always end by a correct
	// guess, never by timer.
	ctrl := controller.New(registry, rules.Default(), bc,
		controller.WithRandIntn(randIntn),
		controller.WithRoundDuration(time.Hour),
	)

	var roundsPlayed, guessesMade atomic.Int64

	start := time.Now()
	var wg sync.WaitGroup
	for room := 0; room < roomCount; room++ {
		wg.Add(1)
		go func(room int) {
			defer wg.Done()
			roomID := fmt.Sprintf("room-%03d", room)
			if err := playRoom(ctrl, roomID, playerCount, roundCount, &roundsPlayed, &guessesMade); err != nil {
				log.Printf("%s: %v", roomID, err)
			}
		}(room)
	}
	wg.Wait()
	elapsed := time.Since(start)

	fmt.Printf("seed=%d rooms=%d players=%d rounds=%d\n", seed, roomCount, playerCount, roundCount)
	fmt.Printf("played %d rounds, %d guesses in %s\n", roundsPlayed.Load(), guessesMade.Load(), elapsed.Round(time.Millisecond))
	for event, n := range bc.snapshot() {
		fmt.Printf("  %-14s %d\n", event, n)
	}
	if remaining := registry.Count(); remaining != 0 {
		return fmt.Errorf("%d rooms leaked after all players left", remaining)
	}
	fmt.Println("all rooms destroyed cleanly")
	return nil
}

// playRoom runs one room's full life: everyone joins, each round the master
// stages a question, players race guesses concurrently, and at the end
// everyone leaves.
func playRoom(ctrl *controller.Controller, roomID string, playerCount, roundCount int, roundsPlayed, guessesMade *atomic.Int64) error {
	conns := make([]string, playerCount)
	for i := range conns {
		conns[i] = uuid.NewString()
		if _, err := ctrl.Join(roomID, conns[i], fmt.Sprintf("player-%d", i)); err != nil {
			return fmt.Errorf("join: %w", err)
		}
	}
	master := conns[0]

	for round := 0; round < roundCount; round++ {
		answer := fmt.Sprintf("answer-%d", round)
		if err := ctrl.SetQuestion(roomID, master, fmt.Sprintf("question %d?", round), answer); err != nil {
			return fmt.Errorf("setQuestion: %w", err)
		}
		if err := ctrl.StartGame(roomID, master); err != nil {
			return fmt.Errorf("startGame: %w", err)
		}

		// All non-master players guess concurrently; exactly one of them
		// holds the right answer, the rest burn wrong attempts.
		var wg sync.WaitGroup
		winner := 1 + round%(playerCount-1)
		for i := 1; i < playerCount; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				guess := "wrong"
				if i == winner {
					guess = answer
				}
				if _, err := ctrl.Guess(roomID, conns[i], guess); err == nil {
					guessesMade.Add(1)
				}
			}(i)
		}
		wg.Wait()
		roundsPlayed.Add(1)
	}

	for _, conn := range conns {
		ctrl.Leave(roomID, conn)
	}
	return nil
}
