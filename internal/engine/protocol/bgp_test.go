package protocol

import (
	"encoding/binary"
	"testing"
)

func bgpMessage(msgType byte, length int) []byte {
	msg := make([]byte, length)
	for i := 0; i < 16; i++ {
		msg[i] = 0xFF
	}
	binary.BigEndian.PutUint16(msg[16:18], uint16(length))
	msg[18] = msgType
	return msg
}

func TestParseMessages_MultipleMessages(t *testing.T) {
	payload := append(bgpMessage(4, 19), bgpMessage(2, 50)...)

	types, hasEOR := ParseMessages(payload)
	if len(types) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(types))
	}
	if types[0] != MsgKeepalive || types[1] != MsgUpdate {
		t.Errorf("unexpected message types: %v", types)
	}
	if hasEOR {
		t.Errorf("a 50-byte Update is not an End-of-RIB marker")
	}
}

func TestParseMessages_EOR(t *testing.T) {
	types, hasEOR := ParseMessages(bgpMessage(2, 23))
	if len(types) != 1 || types[0] != MsgUpdate {
		t.Fatalf("unexpected types: %v", types)
	}
	if !hasEOR {
		t.Errorf("an Update of total length 23 must be detected as End-of-RIB")
	}
}

func TestParseMessages_RejectsNonBGPPayload(t *testing.T) {
	if types, _ := ParseMessages([]byte("GET / HTTP/1.1\r\nHost: example\r\n")); len(types) != 0 {
		t.Errorf("expected no messages from a non-BGP payload, got %v", types)
	}
}

func TestParseMessages_StopsAtTruncation(t *testing.T) {
	payload := append(bgpMessage(4, 19), bgpMessage(2, 50)[:30]...)

	types, _ := ParseMessages(payload)
	if len(types) != 1 || types[0] != MsgKeepalive {
		t.Errorf("expected only the complete leading message, got %v", types)
	}
}

func TestParseMessages_UnknownType(t *testing.T) {
	if types, _ := ParseMessages(bgpMessage(9, 19)); len(types) != 0 {
		t.Errorf("expected no messages for an unknown type, got %v", types)
	}
}
