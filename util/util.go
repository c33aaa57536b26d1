package util

const progressMax = 0xFFFF

// ProgressAt converts time elapsed since the start of a playback into a
// timeline progress value. With loop set, playback wraps at playtime;
// otherwise it holds at the end.
func ProgressAt(elapsedMs uint64, playtime uint32, loop bool) uint16 {
	if playtime == 0 {
		return 0
	}

	if loop {
		elapsedMs %= uint64(playtime)
	} else if elapsedMs >= uint64(playtime) {
		return progressMax
	}

	return uint16(elapsedMs * progressMax / uint64(playtime))
}

// ElapsedAt is the inverse of ProgressAt, rounded down to a millisecond.
func ElapsedAt(progress uint16, playtime uint32) uint64 {
	return uint64(progress) * uint64(playtime) / progressMax
}

// Mirror maps a progress value to the same distance from the other end.
func Mirror(progress uint16) uint16 {
	return progressMax - progress
}
