package game

// Rule constants shared by the pool and snooker machines.
const (
	PoolGroupSize   = 7  // balls per colour group in pool
	SnookerReds     = 15 // reds racked at the start of a frame
	SnookerMinFoul  = 4  // statutory minimum foul value
	PoolFoulShots   = 2  // shots granted to the player after a pool foul
	NoWinner        = -1 // MatchState.Winner while the game is live
	numPlayers      = 2
	sandboxBalls    = 10
	sandboxTries    = 1000 // placement attempts before giving up on the rest
	placementMargin = 1.0  // extra gap kept between a placed cue ball and others
)

// SnookerValues maps each snooker ball colour to its point value.
var SnookerValues = map[Color]int{
	ColorRed:    1,
	ColorYellow: 2,
	ColorGreen:  3,
	ColorBrown:  4,
	ColorBlue:   5,
	ColorPink:   6,
	ColorBlack:  7,
}

// snookerColorOrder is the order colours must be potted once the reds are gone.
var snookerColorOrder = []Color{ColorYellow, ColorGreen, ColorBrown, ColorBlue, ColorPink, ColorBlack}

// complement returns the other pool group colour.
func complement(c Color) Color {
	switch c {
	case ColorRed:
		return ColorYellow
	case ColorYellow:
		return ColorRed
	}
	return ""
}
