package protocol

// HeaderFlag is the bitset carried in the flags field of a control header.
type HeaderFlag uint32

const (
	// FlagVersion is the protocol version marker, set on every header.
	FlagVersion HeaderFlag = 0x1
	// FlagReply marks a message as the reply to an earlier request.
	FlagReply HeaderFlag = 0x4
)

// headerFlagMask covers the flags a caller may set; anything outside it is
// dropped at construction time.
const headerFlagMask = FlagReply

// Has reports whether flag is set in f.
func (f HeaderFlag) Has(flag HeaderFlag) bool {
	return f&flag != 0
}

// With returns f with flag set or cleared.
func (f HeaderFlag) With(flag HeaderFlag, value bool) HeaderFlag {
	if value {
		return f | flag
	}
	return f &^ flag
}
