// Package mqtt implements the subset of the MQTT 3.x wire format needed to
// open a session: building CONNECT packets and decoding the broker's reply.
//
// Packet serialisation is delegated to the packets package of the Eclipse
// Paho client so that the bytes on the wire match what a real client sends.
package mqtt

import (
	"bytes"
	"fmt"

	"github.com/eclipse/paho.mqtt.golang/packets"
)

// Protocol name literals and levels of the historical MQTT dialects.
const (
	// ProtocolNameMQTT is the protocol name of MQTT 3.1.1 and later.
	ProtocolNameMQTT = "MQTT"
	// ProtocolNameMQIsdp is the protocol name of the IBM-era MQTT 3.1.
	ProtocolNameMQIsdp = "MQIsdp"

	// Level31 is the protocol level sent with ProtocolNameMQIsdp.
	Level31 byte = 3
	// Level311 is the protocol level of MQTT 3.1.1.
	Level311 byte = 4
	// Level5 is the protocol level of MQTT 5.0.
	Level5 byte = 5
)

// ConnectTemplate describes a CONNECT packet field by field.
// An empty Username or a nil Password leaves the matching field and flag out.
type ConnectTemplate struct {
	ProtocolName string
	Level        byte
	CleanSession bool
	// KeepAlive is the keep-alive interval in seconds.
	KeepAlive uint16
	ClientID  string
	Username  string
	Password  []byte
}

// Encode serialises the template into a complete CONNECT packet:
// fixed header, variable header (name, level, flags, keep-alive) and payload.
func (t ConnectTemplate) Encode() ([]byte, error) {
	cp, ok := packets.NewControlPacket(packets.Connect).(*packets.ConnectPacket)
	if !ok {
		return nil, fmt.Errorf("unexpected control packet for CONNECT")
	}

	cp.ProtocolName = t.ProtocolName
	cp.ProtocolVersion = t.Level
	cp.CleanSession = t.CleanSession
	cp.Keepalive = t.KeepAlive
	cp.ClientIdentifier = t.ClientID

	if t.Username != "" {
		cp.UsernameFlag = true
		cp.Username = t.Username
	}
	if t.Password != nil {
		cp.PasswordFlag = true
		cp.Password = t.Password
	}

	var buf bytes.Buffer
	if err := cp.Write(&buf); err != nil {
		return nil, fmt.Errorf("encode CONNECT: %w", err)
	}
	return buf.Bytes(), nil
}

// MustEncode is like Encode but panics on error.
// It is intended for templates built from constants at package load time.
func (t ConnectTemplate) MustEncode() []byte {
	data, err := t.Encode()
	if err != nil {
		panic(err)
	}
	return data
}
