package http

import (
	"encoding/json"

	"github.com/vovakirdan/classroom-server/internal/core"
	"github.com/vovakirdan/classroom-server/internal/proto"
)

func badRequest(msg string) *proto.Error {
	return &proto.Error{Code: core.ErrCodeBadRequest, Msg: msg}
}

// inboundToCommand decodes one client frame into a core command. Frames of an
// unknown type or with a malformed payload yield a protocol error instead.
func inboundToCommand(inbound proto.Inbound) (core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, badRequest("malformed join")
		}
		if join.RoomID == "" {
			return nil, badRequest("room_id is required")
		}
		return core.JoinRoom{Room: join.RoomID}, nil
	case proto.InboundTypeSignal:
		var sig proto.SignalData
		if err := json.Unmarshal(inbound.Data, &sig); err != nil {
			return nil, badRequest("malformed signal")
		}
		if sig.TargetSID == "" {
			return nil, badRequest("target_sid is required")
		}
		if len(sig.SignalData) == 0 || string(sig.SignalData) == "null" {
			return nil, badRequest("signal_data is required")
		}
		return core.SendSignal{Target: sig.TargetSID, Payload: []byte(sig.SignalData)}, nil
	case proto.InboundTypeCodeChanged:
		var code proto.CodeChangedData
		if err := json.Unmarshal(inbound.Data, &code); err != nil {
			return nil, badRequest("malformed code_changed")
		}
		if code.RoomID == "" {
			return nil, badRequest("room_id is required")
		}
		return core.ChangeCode{Room: code.RoomID, Code: code.Code}, nil
	case proto.InboundTypeToggleEditor:
		var toggle proto.ToggleEditorData
		if err := json.Unmarshal(inbound.Data, &toggle); err != nil {
			return nil, badRequest("malformed toggle_editor_visibility")
		}
		if toggle.RoomID == "" {
			return nil, badRequest("room_id is required")
		}
		return core.ToggleEditor{Room: toggle.RoomID, Visible: toggle.IsVisible}, nil
	case proto.InboundTypeCodeResult:
		var res proto.CodeResultData
		if err := json.Unmarshal(inbound.Data, &res); err != nil {
			return nil, badRequest("malformed code_result")
		}
		if res.RoomID == "" {
			return nil, badRequest("room_id is required")
		}
		return core.ShareResult{Room: res.RoomID, Output: res.Output}, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "unknown message type"}
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventConnected:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventConnected,
			Data: proto.EventConnectedData{
				SID:      event.ConnID,
				UserID:   event.UserID,
				Name:     event.Name,
				Protocol: proto.ProtocolVersion,
			},
		}
	case core.EventExistingParticipants:
		sids := event.Participants
		if sids == nil {
			sids = []string{}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventExistingParticipants,
			Data: proto.EventExistingParticipantsData{
				RoomID: event.Room,
				SIDs:   sids,
				Role:   string(event.Role),
				Host:   event.Host,
			},
		}
	case core.EventSignal:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventSignal,
			Data: proto.EventSignalData{
				SenderSID:  event.ConnID,
				SignalData: json.RawMessage(event.Payload),
			},
		}
	case core.EventCodeUpdate:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventCodeUpdate,
			Data:  proto.EventCodeUpdateData{Code: event.Code},
		}
	case core.EventEditorStateChanged:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventEditorStateChanged,
			Data:  proto.EventEditorStateData{Visible: event.Visible},
		}
	case core.EventCodeResult:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventCodeResult,
			Data:  proto.EventCodeResultData{Output: event.Output},
		}
	case core.EventUserLeft:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUserLeft,
			Data:  proto.EventUserLeftData{SID: event.ConnID},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
