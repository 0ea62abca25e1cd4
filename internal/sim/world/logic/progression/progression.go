package progression

// RequiredForLevel is the experience needed to leave the given level.
func RequiredForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return 10 + (level-1)*5
}

// Progress holds player level and experience. After any AddExp, Exp is below
// RequiredForLevel(Level).
type Progress struct {
	Level int `json:"level"`
	Exp   int `json:"exp"`
}

// AddExp adds experience and cascades through as many level-ups as it pays for.
// It returns the number of levels gained.
func (p *Progress) AddExp(amount int) int {
	if p.Level < 1 {
		p.Level = 1
	}
	if amount > 0 {
		p.Exp += amount
	}
	gained := 0
	for p.Exp >= RequiredForLevel(p.Level) {
		p.Exp -= RequiredForLevel(p.Level)
		p.Level++
		gained++
	}
	return gained
}

func ExpReward(level int) int   { return 4 + level }
func MinorReward(level int) int { return 4 + level }
func MajorReward(level int) int { return 9 + level }

// Unlocks maps an ordered content list to required levels: index i needs level i+1.
// Kinds missing from the list are always unlocked.
type Unlocks struct {
	order []string
	index map[string]int
}

func NewUnlocks(order []string) Unlocks {
	u := Unlocks{
		order: append([]string(nil), order...),
		index: make(map[string]int, len(order)),
	}
	for i, k := range order {
		if _, dup := u.index[k]; !dup {
			u.index[k] = i
		}
	}
	return u
}

func (u Unlocks) Order() []string { return append([]string(nil), u.order...) }

func (u Unlocks) RequiredLevel(kind string) int {
	i, ok := u.index[kind]
	if !ok {
		return 1
	}
	return i + 1
}

func (u Unlocks) Unlocked(kind string, level int) bool {
	return level >= u.RequiredLevel(kind)
}

func (u Unlocks) UnlockedAt(level int) []string {
	var out []string
	for _, k := range u.order {
		if u.Unlocked(k, level) {
			out = append(out, k)
		}
	}
	return out
}
