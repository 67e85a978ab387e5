package http

import (
	"encoding/json"
	"testing"

	"github.com/vovakirdan/classroom-server/internal/core"
	"github.com/vovakirdan/classroom-server/internal/proto"
)

func TestInboundToCommand(t *testing.T) {
	tests := []struct {
		name     string
		inbound  proto.Inbound
		want     core.Command
		wantCode string
	}{
		{
			name:    "join",
			inbound: proto.Inbound{Type: proto.InboundTypeJoin, Data: json.RawMessage(`{"room_id":"math"}`)},
			want:    core.JoinRoom{Room: "math"},
		},
		{
			name:     "join without room",
			inbound:  proto.Inbound{Type: proto.InboundTypeJoin, Data: json.RawMessage(`{}`)},
			wantCode: core.ErrCodeBadRequest,
		},
		{
			name:     "join without data",
			inbound:  proto.Inbound{Type: proto.InboundTypeJoin},
			wantCode: core.ErrCodeBadRequest,
		},
		{
			name:     "signal without payload",
			inbound:  proto.Inbound{Type: proto.InboundTypeSignal, Data: json.RawMessage(`{"target_sid":"b"}`)},
			wantCode: core.ErrCodeBadRequest,
		},
		{
			name:     "signal without target",
			inbound:  proto.Inbound{Type: proto.InboundTypeSignal, Data: json.RawMessage(`{"signal_data":{}}`)},
			wantCode: core.ErrCodeBadRequest,
		},
		{
			name:    "code changed",
			inbound: proto.Inbound{Type: proto.InboundTypeCodeChanged, Data: json.RawMessage(`{"room_id":"math","code":"x=1"}`)},
			want:    core.ChangeCode{Room: "math", Code: "x=1"},
		},
		{
			name:    "toggle editor",
			inbound: proto.Inbound{Type: proto.InboundTypeToggleEditor, Data: json.RawMessage(`{"room_id":"math","is_visible":true}`)},
			want:    core.ToggleEditor{Room: "math", Visible: true},
		},
		{
			name:    "code result",
			inbound: proto.Inbound{Type: proto.InboundTypeCodeResult, Data: json.RawMessage(`{"room_id":"math","output":"ok"}`)},
			want:    core.ShareResult{Room: "math", Output: "ok"},
		},
		{
			name:     "malformed code result",
			inbound:  proto.Inbound{Type: proto.InboundTypeCodeResult, Data: json.RawMessage(`{"room_id":7}`)},
			wantCode: core.ErrCodeBadRequest,
		},
		{
			name:     "unknown type",
			inbound:  proto.Inbound{Type: "hello"},
			wantCode: core.ErrCodeInvalidMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, perr := inboundToCommand(tt.inbound)
			if tt.wantCode != "" {
				if perr == nil || perr.Code != tt.wantCode {
					t.Fatalf("expected error %q, got %v (cmd %+v)", tt.wantCode, perr, cmd)
				}
				return
			}
			if perr != nil {
				t.Fatalf("unexpected error: %+v", perr)
			}
			if cmd != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, cmd)
			}
		})
	}
}

func TestInboundSignalKeepsPayload(t *testing.T) {
	cmd, perr := inboundToCommand(proto.Inbound{
		Type: proto.InboundTypeSignal,
		Data: json.RawMessage(`{"target_sid":"b","signal_data":{"candidate":"c1"}}`),
	})
	if perr != nil {
		t.Fatalf("unexpected error: %+v", perr)
	}
	sig, ok := cmd.(core.SendSignal)
	if !ok {
		t.Fatalf("expected SendSignal, got %T", cmd)
	}
	if sig.Target != "b" || string(sig.Payload) != `{"candidate":"c1"}` {
		t.Fatalf("unexpected signal: %+v", sig)
	}
}

func TestOutboundFromEvent(t *testing.T) {
	out := outboundFromEvent(&core.Event{Kind: core.EventExistingParticipants, Room: "math", Role: core.RoleTeacher, Host: "alice"})
	data, ok := out.Data.(proto.EventExistingParticipantsData)
	if !ok {
		t.Fatalf("unexpected data type %T", out.Data)
	}
	if data.SIDs == nil {
		t.Fatal("participants must encode as an empty list, not null")
	}
	if out.Event != proto.EventExistingParticipants || data.Role != "teacher" {
		t.Fatalf("unexpected outbound: %+v", out)
	}

	out = outboundFromEvent(&core.Event{Kind: core.EventError, Error: &core.CoreError{Code: core.ErrCodeNotInRoom, Message: "not in room"}})
	if out.Type != proto.OutboundTypeError || out.Error == nil || out.Error.Code != core.ErrCodeNotInRoom {
		t.Fatalf("unexpected error outbound: %+v", out)
	}

	out = outboundFromEvent(&core.Event{Kind: core.EventUserLeft, ConnID: "b"})
	if left, ok := out.Data.(proto.EventUserLeftData); !ok || left.SID != "b" {
		t.Fatalf("unexpected user_left outbound: %+v", out)
	}
}
