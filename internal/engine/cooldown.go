package engine

// Cooldown is a per-ability countdown measured in authoritative ticks.
// It only ever moves on CmdTick, so clients cannot speed it up by spamming
// requests.
type Cooldown struct {
	Remaining int
	Duration  int
}

func NewCooldown(duration int) Cooldown {
	return Cooldown{Duration: duration}
}

func (c *Cooldown) Ready() bool { return c.Remaining <= 0 }

func (c *Cooldown) Start() { c.Remaining = c.Duration }

func (c *Cooldown) TickDown() {
	if c.Remaining > 0 {
		c.Remaining--
	}
}
