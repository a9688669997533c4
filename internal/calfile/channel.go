package calfile

// Channel identifies one ink channel of the device.
type Channel int

// Ink channels in .cal column order.
const (
	Cyan Channel = iota
	Magenta
	Yellow
	Black
)

// Channels lists all ink channels in column order.
var Channels = []Channel{Cyan, Magenta, Yellow, Black}

// LightInkChannels lists the channels that carry a light-ink variant.
// Only C and M printers ship light inks; Y and K never do.
var LightInkChannels = []Channel{Cyan, Magenta}

func (c Channel) String() string {
	switch c {
	case Cyan:
		return "Cyan"
	case Magenta:
		return "Magenta"
	case Yellow:
		return "Yellow"
	case Black:
		return "Black"
	}
	return "Unknown"
}

// Column returns the data column holding this channel's values.
// Column 0 is the nominal input level, channels follow in CMYK order.
func (c Channel) Column() int {
	return int(c) + 1
}

// HasLightInk reports whether the channel has light-ink parameters.
func (c Channel) HasLightInk() bool {
	return c == Cyan || c == Magenta
}
