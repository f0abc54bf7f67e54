// Command simulate plays one shot on a fresh table without a server and
// prints the recorded events and the resulting snapshot as JSON.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math"
	"os"

	"github.com/playmatatu/cuetable/internal/config"
	"github.com/playmatatu/cuetable/internal/game"
)

var (
	variant  = flag.String("variant", "pool", "Variant: pool|snooker|sandbox|demo")
	file     = flag.String("config", "", "YAML or TOML match config (overrides -variant)")
	angle    = flag.Float64("angle", 0, "Shot direction in degrees, 0 points along +x")
	power    = flag.Float64("power", 0.5, "Shot power, 0..1")
	maxTicks = flag.Int("max-ticks", 10000, "Give up after this many frames")
)

func main() {
	flag.Parse()

	mc, err := loadConfig()
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}

	m, err := game.NewMatch(mc)
	if err != nil {
		log.Fatalf("[MATCH] %v", err)
	}

	// sandbox tables start in motion
	m.RunUntilSettled(*maxTicks)

	if cue := m.Table().CueBall(); cue != nil && *power > 0 {
		p := math.Min(*power, 1) * mc.CueLength
		rad := *angle * math.Pi / 180
		// the pointer sits behind the ball, opposite the shot
		at := cue.Position.Minus(game.NewVec2(math.Cos(rad), math.Sin(rad)).Times(p))
		m.PointerDown(at)
		if !m.PointerUp(at) {
			log.Println("[MATCH] cue not active; no shot struck")
		}
	}

	n := m.RunUntilSettled(*maxTicks)
	if !m.Settled() {
		log.Printf("[MATCH] table still moving after %d frames", n)
	}

	out := struct {
		Frames   int                `json:"frames"`
		Events   []game.EventRecord `json:"events"`
		Snapshot game.Snapshot      `json:"snapshot"`
	}{n, m.DrainEvents(), m.Snapshot()}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode: %v", err)
	}
}

func loadConfig() (config.MatchConfig, error) {
	if *file != "" {
		return config.LoadMatchConfig(*file)
	}
	v, err := config.ParseVariant(*variant)
	if err != nil {
		return config.MatchConfig{}, err
	}
	return config.DefaultMatchConfig(v), nil
}
