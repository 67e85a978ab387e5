package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/pflag"

	"github.com/vovakirdan/classroom-server/internal/proto"
)

// ws_smoke connects a teacher and a student to one room and checks that the
// join, signal and code sync paths work end to end.
func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

type peer struct {
	name string
	sid  string
	conn *websocket.Conn
}

func run() error {
	addr := pflag.String("addr", "ws://localhost:5055/ws", "WebSocket address")
	room := pflag.String("room", "smoke", "room id")
	token := pflag.String("token", "", "bearer token, used for both peers")
	timeout := pflag.Duration("timeout", 5*time.Second, "total timeout for the run")
	pflag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	teacher, err := dial(ctx, *addr, "teacher", *token)
	if err != nil {
		return err
	}
	defer teacher.conn.Close(websocket.StatusNormalClosure, "bye")

	student, err := dial(ctx, *addr, "student", *token)
	if err != nil {
		return err
	}
	defer student.conn.Close(websocket.StatusNormalClosure, "bye")

	for _, p := range []*peer{teacher, student} {
		if err := send(ctx, p, proto.InboundTypeJoin, proto.JoinData{RoomID: *room}); err != nil {
			return err
		}
		var existing proto.EventExistingParticipantsData
		if err := expect(ctx, p, proto.EventExistingParticipants, &existing); err != nil {
			return err
		}
		fmt.Printf("%s joined %s as %s, peers=%v\n", p.name, existing.RoomID, existing.Role, existing.SIDs)
	}

	offer := proto.SignalData{TargetSID: teacher.sid, SignalData: json.RawMessage(`{"type":"offer","sdp":"smoke"}`)}
	if err := send(ctx, student, proto.InboundTypeSignal, offer); err != nil {
		return err
	}
	var sig proto.EventSignalData
	if err := expect(ctx, teacher, proto.EventSignal, &sig); err != nil {
		return err
	}
	if sig.SenderSID != student.sid {
		return fmt.Errorf("signal sender %s, want %s", sig.SenderSID, student.sid)
	}
	fmt.Printf("teacher got signal from %s: %s\n", sig.SenderSID, sig.SignalData)

	if err := send(ctx, teacher, proto.InboundTypeCodeChanged, proto.CodeChangedData{RoomID: *room, Code: "print('hi')"}); err != nil {
		return err
	}
	var code proto.EventCodeUpdateData
	if err := expect(ctx, student, proto.EventCodeUpdate, &code); err != nil {
		return err
	}
	fmt.Printf("student got code %q\n", code.Code)

	student.conn.Close(websocket.StatusNormalClosure, "leaving")
	var left proto.EventUserLeftData
	if err := expect(ctx, teacher, proto.EventUserLeft, &left); err != nil {
		return err
	}
	fmt.Printf("teacher saw %s leave\n", left.SID)
	return nil
}

func dial(ctx context.Context, addr, name, token string) (*peer, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("parse addr: %w", err)
	}
	q := u.Query()
	q.Set("user", name)
	q.Set("name", name)
	if token != "" {
		q.Set("token", token)
	}
	u.RawQuery = q.Encode()

	conn, _, err := websocket.Dial(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", name, err)
	}
	p := &peer{name: name, conn: conn}

	var hello proto.EventConnectedData
	if err := expect(ctx, p, proto.EventConnected, &hello); err != nil {
		conn.Close(websocket.StatusNormalClosure, "bye")
		return nil, err
	}
	p.sid = hello.SID
	fmt.Printf("%s connected: sid=%s user=%s protocol=%d\n", name, hello.SID, hello.UserID, hello.Protocol)
	return p, nil
}

func send(ctx context.Context, p *peer, typ string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", typ, err)
	}
	if err := wsjson.Write(ctx, p.conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		return fmt.Errorf("%s send %s: %w", p.name, typ, err)
	}
	return nil
}

// expect reads frames until the named event arrives. Error frames abort.
func expect(ctx context.Context, p *peer, event string, into any) error {
	for {
		var out struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, p.conn, &out); err != nil {
			return fmt.Errorf("%s read: %w", p.name, err)
		}
		if out.Type == proto.OutboundTypeError && out.Error != nil {
			return fmt.Errorf("%s got error %s: %s", p.name, out.Error.Code, out.Error.Msg)
		}
		if out.Event != event {
			fmt.Printf("%s skipping %s\n", p.name, out.Event)
			continue
		}
		if err := json.Unmarshal(out.Data, into); err != nil {
			return fmt.Errorf("%s unmarshal %s: %w", p.name, event, err)
		}
		return nil
	}
}
