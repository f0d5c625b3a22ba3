package protocol

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/nao1215/svcping/internal/codec/mqtt"
)

// mqttKeepAlive is the keep-alive interval, in seconds, announced by the
// ping CONNECT packets.
const mqttKeepAlive = 60

var mqttDescriptor = Descriptor{
	ShortName:   "MQTT",
	FullName:    "MQ Telemetry Transport",
	DefaultPort: 1883,
	Transport:   TransportTCP,
	Capabilities: Capabilities{
		Ping:       true,
		ServerFuzz: true,
		ClientFuzz: true,
		VulnTest:   true,
	},
}

// mqttConnectTemplates are the CONNECT dialects, in the order they are tried.
// The 3.1.1 packet carries the signed-device credentials of a cloud IoT
// gateway; brokers that do not check them still answer with a CONNACK.
// Brokers that predate 3.1.1 only accept the "MQIsdp" name.
var mqttConnectTemplates = []struct {
	name    string
	connect mqtt.ConnectTemplate
}{
	{
		name: "mqtt-v3.1.1",
		connect: mqtt.ConnectTemplate{
			ProtocolName: mqtt.ProtocolNameMQTT,
			Level:        mqtt.Level311,
			KeepAlive:    mqttKeepAlive,
			ClientID:     "0KSx5GnU|securemode=4,signmethod=sha1,timestamp=1566440734244|",
			Username:     "%channel%&0KSx5GnU",
			Password:     []byte("4b747c11d8239185471cc3ff2cb859042d82c6d4"),
		},
	},
	{
		name: "mqisdp-v3.1",
		connect: mqtt.ConnectTemplate{
			ProtocolName: mqtt.ProtocolNameMQIsdp,
			Level:        mqtt.Level31,
			CleanSession: true,
			KeepAlive:    mqttKeepAlive,
			ClientID:     "3",
		},
	},
}

var mqttTemplates = buildMQTTTemplates()

func buildMQTTTemplates() []Template {
	templates := make([]Template, 0, len(mqttConnectTemplates))
	for _, t := range mqttConnectTemplates {
		templates = append(templates, Template{Name: t.name, Payload: t.connect.MustEncode()})
	}
	return templates
}

// MQTTTester pings MQTT brokers.
// It tries a CONNECT packet per dialect and accepts any CONNACK, including
// one refusing the connection: a broker that says "not authorized" is alive.
type MQTTTester struct {
	base
}

var _ Tester = (*MQTTTester)(nil)

// NewMQTTTester creates an MQTT tester.
func NewMQTTTester(opts ...Option) *MQTTTester {
	return &MQTTTester{base: newBase(opts)}
}

// Descriptor returns the MQTT descriptor.
func (t *MQTTTester) Descriptor() Descriptor {
	return mqttDescriptor
}

// Templates returns the CONNECT packets in dialect order.
func (t *MQTTTester) Templates() []Template {
	return cloneTemplates(mqttTemplates)
}

// Evaluate decodes raw as an MQTT control packet and succeeds on CONNACK.
func (t *MQTTTester) Evaluate(raw []byte) Outcome {
	return evaluateMQTT(raw)
}

// Ping reports whether an MQTT broker answers at params.
func (t *MQTTTester) Ping(ctx context.Context, params TestParameters) bool {
	return t.Probe(ctx, params).Alive
}

// Probe pings and returns the details of the call.
func (t *MQTTTester) Probe(ctx context.Context, params TestParameters) *PingResult {
	return t.probe(ctx, probeSpec{
		descriptor: mqttDescriptor,
		templates:  mqttTemplates,
		evaluate:   evaluateMQTT,
		dump:       hex.EncodeToString,
	}, params)
}

func evaluateMQTT(raw []byte) Outcome {
	out := Outcome{Raw: raw}

	pkt, err := mqtt.Decode(raw)
	if err != nil {
		out.Failure = FailureDecode
		out.Err = err
		return out
	}

	if !pkt.IsConnack() {
		out.Summary = pkt.String()
		out.Failure = FailurePredicate
		out.Err = fmt.Errorf("%w: %s", ErrUnexpectedResponse, pkt.TypeName)
		return out
	}

	out.Summary = fmt.Sprintf("%s retcode: %s", pkt.TypeName, pkt.ReturnCodeName)
	out.Success = true
	return out
}
