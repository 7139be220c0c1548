package resp

// CountCompleteFrames reports how many complete top-level RESP frames are
// present in buffer, by repeatedly invoking Parse from offset 0 until it
// hits ErrIncomplete (stop, don't count the partial frame) or the buffer
// is exhausted. A *MalformedError also stops the count where it occurs —
// a pipelined read loop that sees one should treat the whole read as
// failed rather than keep waiting, so callers should check for that
// separately if they need to distinguish "still incomplete" from
// "corrupt".
func CountCompleteFrames(buffer []byte) int {
	count := 0
	pos := 0
	for pos < len(buffer) {
		_, next, err := Parse(buffer, pos)
		if err != nil {
			break
		}
		count++
		pos = next
	}
	return count
}

// IsComplete reports whether buffer holds exactly one complete frame that
// consumes the entire buffer — the single-request special case of
// CountCompleteFrames.
func IsComplete(buffer []byte) bool {
	if len(buffer) == 0 {
		return false
	}
	_, next, err := Parse(buffer, 0)
	if err != nil {
		return false
	}
	return next == len(buffer)
}
