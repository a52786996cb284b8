package coherence

// SeedFor derives the realization seed of one Monte-Carlo repeat from the
// sweep seed and its (antenna, wind speed, repeat) indices. The mapping is
// fixed, so a sweep is reproducible regardless of how its tasks are scheduled.
func SeedFor(base uint64, antennaIdx, windIdx, repeat int) uint64 {
	h := splitmix64(base)
	h = splitmix64(h ^ uint64(antennaIdx))
	h = splitmix64(h ^ uint64(windIdx))
	return splitmix64(h ^ uint64(repeat))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
