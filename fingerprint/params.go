package fingerprint

// Params computes the params fingerprint: a hash of all routing parameters
// plus the raw byte contents of every provided config file.
// paramBytes is the caller's own stable serialization of its parameter
// struct (e.g. a canonical key=value encoding); configFiles are the raw
// bytes of every config file that contributed to the parameter set, in a
// caller-determined but stable order.
func Params(paramBytes []byte, configFiles [][]byte) Hash128 {
	buf := make([]byte, 0, len(paramBytes)+16)
	buf = append(buf, paramBytes...)
	buf = append(buf, 0)
	for _, f := range configFiles {
		buf = append(buf, f...)
		buf = append(buf, 0)
	}
	return hash128Of(buf)
}

// TripKey computes the cache key for a trip: the lowercase-hex fingerprint
// of its canonical identity string.
func TripKey(canonicalIdentity string) string {
	return hash128Of([]byte(canonicalIdentity)).String()
}
