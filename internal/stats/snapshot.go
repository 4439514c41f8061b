package stats

// Snapshot reads the given stats from p. With no stats it reads every stat,
// so p must be the top of a complete chain.
func Snapshot(p Provider, stats ...Stat) map[Stat]float64 {
	if len(stats) == 0 {
		stats = All()
	}
	out := make(map[Stat]float64, len(stats))
	for _, s := range stats {
		out[s] = p.GetStats(s)
	}
	return out
}
