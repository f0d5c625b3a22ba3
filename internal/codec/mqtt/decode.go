package mqtt

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/eclipse/paho.mqtt.golang/packets"
)

// Control packet types used by this package.
const (
	PacketTypeConnect    = packets.Connect
	PacketTypeConnack    = packets.Connack
	PacketTypeDisconnect = packets.Disconnect
)

// maxRemainingLengthBytes is the longest encoding of the remaining length.
const maxRemainingLengthBytes = 4

var (
	// ErrShortPacket is returned when the data ends before the packet does.
	ErrShortPacket = errors.New("packet is truncated")

	// ErrMalformedRemainingLength is returned when the remaining length uses
	// more than four bytes.
	ErrMalformedRemainingLength = errors.New("malformed remaining length")

	// ErrUnknownPacketType is returned for reserved or MQTT 5-only packet types.
	ErrUnknownPacketType = errors.New("unknown control packet type")

	// ErrMalformedPacket is returned when the packet body cannot be unpacked.
	ErrMalformedPacket = errors.New("malformed packet")
)

// Packet is a decoded control packet.
type Packet struct {
	// Type is the control packet type from the high nibble of the first byte.
	Type byte
	// TypeName is the symbolic name of Type, e.g. "CONNACK".
	TypeName string
	// Flags is the low nibble of the first byte.
	Flags byte
	// RemainingLength is the decoded variable-length integer of the fixed header.
	RemainingLength int
	// HeaderLength is the number of bytes taken by the fixed header.
	HeaderLength int

	// ReturnCode is the CONNACK return code. Only set for CONNACK.
	ReturnCode byte
	// ReturnCodeName is the description of ReturnCode. Only set for CONNACK.
	ReturnCodeName string
	// SessionPresent is the CONNACK session-present flag. Only set for CONNACK.
	SessionPresent bool

	// Control is the packet as unpacked by paho.
	Control packets.ControlPacket
}

// IsConnack reports whether the packet is a CONNACK.
func (p *Packet) IsConnack() bool {
	return p.Type == PacketTypeConnack
}

// String returns a one-line summary of the packet.
func (p *Packet) String() string {
	if p.IsConnack() {
		return fmt.Sprintf("%s return_code=%d (%s) session_present=%t",
			p.TypeName, p.ReturnCode, p.ReturnCodeName, p.SessionPresent)
	}
	return fmt.Sprintf("%s flags=0x%x remaining_length=%d", p.TypeName, p.Flags, p.RemainingLength)
}

// Decode parses the first control packet in raw.
// Trailing bytes after the packet are ignored.
func Decode(raw []byte) (*Packet, error) {
	if len(raw) < 2 {
		return nil, ErrShortPacket
	}

	packetType := raw[0] >> 4
	name, known := packets.PacketNames[packetType]
	if !known {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPacketType, packetType)
	}

	remaining, used, err := decodeRemainingLength(raw[1:])
	if err != nil {
		return nil, err
	}

	headerLen := 1 + used
	if len(raw) < headerLen+remaining {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrShortPacket, headerLen+remaining, len(raw))
	}

	cp, err := packets.ReadPacket(bytes.NewReader(raw[:headerLen+remaining]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
	}

	pkt := &Packet{
		Type:            packetType,
		TypeName:        name,
		Flags:           raw[0] & 0x0f,
		RemainingLength: remaining,
		HeaderLength:    headerLen,
		Control:         cp,
	}

	if connack, ok := cp.(*packets.ConnackPacket); ok {
		pkt.ReturnCode = connack.ReturnCode
		pkt.ReturnCodeName = ReturnCodeName(connack.ReturnCode)
		pkt.SessionPresent = connack.SessionPresent
	}

	return pkt, nil
}

// ReturnCodeName describes a CONNACK return code.
func ReturnCodeName(code byte) string {
	if name, ok := packets.ConnackReturnCodes[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown return code 0x%02x", code)
}

// decodeRemainingLength decodes the variable-length integer at the start of b.
// It returns the value and the number of bytes it occupied.
func decodeRemainingLength(b []byte) (int, int, error) {
	var (
		value      int
		multiplier = 1
	)

	for i := 0; i < maxRemainingLengthBytes; i++ {
		if i >= len(b) {
			return 0, 0, fmt.Errorf("%w: remaining length cut short", ErrShortPacket)
		}
		digit := b[i]
		value += int(digit&0x7f) * multiplier
		if digit&0x80 == 0 {
			return value, i + 1, nil
		}
		multiplier *= 128
	}

	return 0, 0, ErrMalformedRemainingLength
}
